package updaters

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/akinalp/gallery/store"
	"github.com/akinalp/gallery/views"
)

func TestApplyCanonicalUpsertsWithoutTouchingTotals(t *testing.T) {
	f := newFixture(t)
	key := views.CollectionKey{Kind: views.CollectionAdmires, TargetID: "p1"}
	f.subscribe(t, "modal/p1", key, 0, nil, 4)

	admire := store.Entity{ID: "a7", DBID: "a7", Kind: store.KindAdmire, ActorID: "u5", TargetID: "p1", CreatedAt: time.Unix(7, 0)}
	ApplyCanonical(f.state, Canonical{Entity: admire, ActorName: "eve"})
	ApplyCanonical(f.state, Canonical{Entity: admire, ActorName: "eve"})

	got, ok := f.state.Store.Get("a7")
	assert.Equal(t, true, ok)
	assert.Equal(t, false, got.Optimistic)
	u, _ := f.state.Store.User("u5")
	assert.Equal(t, "eve", u.Username)
	v, _ := f.state.Views.View("modal/p1")
	assert.Equal(t, 4, v.Total)

	ApplyCanonical(f.state, Canonical{Entity: admire, Deleted: true})
	_, ok = f.state.Store.Get("a7")
	assert.Equal(t, false, ok)
}

func TestApplyCanonicalKeepsKnownUser(t *testing.T) {
	f := newFixture(t)
	f.state.Store.UpsertUser(store.User{ID: "me", Username: "ada", Following: map[string]struct{}{"u2": {}}})

	edge := store.Entity{ID: "f3", DBID: "f3", Kind: store.KindFollowEdge, ActorID: "me", TargetID: "u3"}
	ApplyCanonical(f.state, Canonical{Entity: edge, ActorName: "renamed"})

	me, _ := f.state.Store.User("me")
	assert.Equal(t, "ada", me.Username)
	assert.Equal(t, true, f.state.Store.IsFollowing("me", "u2"))
	assert.Equal(t, true, f.state.Store.IsFollowing("me", "u3"))

	ApplyCanonical(f.state, Canonical{Entity: edge, Deleted: true})
	assert.Equal(t, false, f.state.Store.IsFollowing("me", "u3"))
	assert.Equal(t, 0, f.state.Store.Len())
}

func TestSeedUserReplacesFollowingKeepsFollowers(t *testing.T) {
	f := newFixture(t)
	f.state.Store.UpsertUser(store.User{ID: "me", Followers: map[string]struct{}{"u9": {}}})

	SeedUser(f.state, store.User{ID: "me", Username: "ada"}, []string{"u2", "u3"})

	me, _ := f.state.Store.User("me")
	assert.Equal(t, "ada", me.Username)
	assert.Equal(t, 2, len(me.Following))
	_, ok := me.Followers["u9"]
	assert.Equal(t, true, ok)
}

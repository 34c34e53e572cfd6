package executor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/akinalp/gallery/guard"
	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/remote"
	"github.com/akinalp/gallery/store"
	"github.com/akinalp/gallery/updaters"
	"github.com/akinalp/gallery/views"
)

type fakeRemote struct {
	mu    sync.Mutex
	calls []string

	admire     func(ctx context.Context, postID string) (remote.AdmireResult, error)
	unadmire   func(ctx context.Context, postID string) (remote.UnadmireResult, error)
	follow     func(ctx context.Context, userID string) (remote.FollowResult, error)
	unfollow   func(ctx context.Context, userID string) (remote.FollowResult, error)
	bulkFollow func(ctx context.Context, userIDs []string) (remote.BulkFollowResult, error)
}

func (f *fakeRemote) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRemote) Admire(ctx context.Context, postID string) (remote.AdmireResult, error) {
	f.record("admire:" + postID)
	return f.admire(ctx, postID)
}

func (f *fakeRemote) Unadmire(ctx context.Context, postID string) (remote.UnadmireResult, error) {
	f.record("unadmire:" + postID)
	return f.unadmire(ctx, postID)
}

func (f *fakeRemote) Follow(ctx context.Context, userID string) (remote.FollowResult, error) {
	f.record("follow:" + userID)
	return f.follow(ctx, userID)
}

func (f *fakeRemote) Unfollow(ctx context.Context, userID string) (remote.FollowResult, error) {
	f.record("unfollow:" + userID)
	return f.unfollow(ctx, userID)
}

func (f *fakeRemote) BulkFollow(ctx context.Context, userIDs []string) (remote.BulkFollowResult, error) {
	f.record("bulk_follow")
	return f.bulkFollow(ctx, userIDs)
}

type recorder struct {
	mu        sync.Mutex
	anomalies []Anomaly
	notices   []Notice
}

func (r *recorder) Report(a Anomaly) {
	r.mu.Lock()
	r.anomalies = append(r.anomalies, a)
	r.mu.Unlock()
}

func (r *recorder) Notify(n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

type harness struct {
	store *store.Store
	views *views.Registry
	rec   *recorder
	exec  *Executor
}

func newHarness(t *testing.T, r remote.Remote) *harness {
	t.Helper()
	h := &harness{store: store.New(), views: views.NewRegistry(), rec: &recorder{}}
	h.exec = New(h.store, h.views, r, WithReporter(h.rec), WithNotifier(h.rec), WithRemoteTimeout(time.Second))
	return h
}

func (h *harness) subscribe(t *testing.T, name string, key views.CollectionKey, limit int, edges []string, total int) {
	t.Helper()
	if _, err := h.views.Subscribe(name, key, limit); err != nil {
		t.Fatal(err)
	}
	if err := h.views.Hydrate(name, edges, total); err != nil {
		t.Fatal(err)
	}
}

func (h *harness) view(name string) views.View {
	v, _ := h.views.View(name)
	return v
}

func admiresKey(post string) views.CollectionKey {
	return views.CollectionKey{Kind: views.CollectionAdmires, TargetID: post}
}

func seedAdmire(st *store.Store, id, actor, post string, at int64) {
	st.Upsert(store.Entity{ID: id, DBID: id, Kind: store.KindAdmire, ActorID: actor, TargetID: post, CreatedAt: time.Unix(at, 0)})
}

func admireOK(id string) func(context.Context, string) (remote.AdmireResult, error) {
	return func(_ context.Context, postID string) (remote.AdmireResult, error) {
		return remote.AdmireSuccess{Admire: models.Admire{ID: id, PostID: postID, UserID: "me", CreatedAt: time.Unix(1000, 0)}}, nil
	}
}

func TestAdmireConfirmsWithCanonicalIdentity(t *testing.T) {
	r := &fakeRemote{admire: admireOK("c-1")}
	h := newHarness(t, r)
	seedAdmire(h.store, "a1", "u1", "p1", 1)
	h.subscribe(t, "modal/p1", admiresKey("p1"), 0, []string{"a1"}, 1)

	out := h.exec.Admire(context.Background(), "me", "p1")
	assert.Equal(t, ResultConfirmed, out.Result)
	assert.Equal(t, guard.StatusConfirmed, out.Status)
	assert.Equal(t, []string{"c-1"}, out.CanonicalIDs)
	assert.Equal(t, true, IsTemp(out.TempID))
	assert.Equal(t, nil, out.Err)

	modal := h.view("modal/p1")
	assert.Equal(t, []string{"a1", "c-1"}, modal.Edges)
	assert.Equal(t, 2, modal.Total)

	_, ok := h.store.Get(out.TempID)
	assert.Equal(t, false, ok)
	assert.Equal(t, guard.StatusIdle, h.exec.Guard().Status(guard.Key{ActorID: "me", TargetID: "p1", Family: guard.FamilyAdmire}))
	assert.Equal(t, []string{"admire:p1"}, r.calls)
}

func TestGuardExclusivitySingleNetworkCall(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	r := &fakeRemote{admire: func(ctx context.Context, postID string) (remote.AdmireResult, error) {
		close(entered)
		<-release
		return admireOK("c-1")(ctx, postID)
	}}
	h := newHarness(t, r)
	h.subscribe(t, "preview/p1", admiresKey("p1"), 1, nil, 4)

	done := make(chan Outcome)
	go func() { done <- h.exec.Admire(context.Background(), "me", "p1") }()
	<-entered

	second := h.exec.Admire(context.Background(), "me", "p1")
	assert.Equal(t, ResultRejected, second.Result)
	assert.Equal(t, true, errors.Is(second.Err, ErrActionPending))

	// çakışan unadmire da reddedilir
	third := h.exec.Unadmire(context.Background(), "me", "p1")
	assert.Equal(t, ResultRejected, third.Result)

	close(release)
	first := <-done
	assert.Equal(t, ResultConfirmed, first.Result)
	assert.Equal(t, 1, r.callCount())
	assert.Equal(t, 5, h.view("preview/p1").Total)
}

func TestIdempotentConflictLeavesTotal(t *testing.T) {
	r := &fakeRemote{admire: func(context.Context, string) (remote.AdmireResult, error) {
		return remote.AdmireAlreadyExists{Message: "already admired"}, nil
	}}
	h := newHarness(t, r)
	seedAdmire(h.store, "c-1", "me", "p1", 1)
	h.subscribe(t, "inline/p1", admiresKey("p1"), 5, []string{"c-1"}, 3)

	out := h.exec.Admire(context.Background(), "me", "p1")
	h.exec.Wait()

	assert.Equal(t, ResultConfirmed, out.Result)
	assert.Equal(t, true, out.Conflict)
	assert.Equal(t, true, errors.Is(out.Err, ErrExpectedConflict))
	assert.Equal(t, models.TypenameAdmireExists, out.Discriminant)
	assert.Equal(t, 3, h.view("inline/p1").Total)
	assert.Equal(t, []string{"c-1"}, h.view("inline/p1").Edges)
	assert.Equal(t, 0, len(h.rec.notices))
	assert.Equal(t, 0, len(h.rec.anomalies))
}

func TestTransportFailureRollsBackExactly(t *testing.T) {
	r := &fakeRemote{admire: func(context.Context, string) (remote.AdmireResult, error) {
		return nil, errors.New("connection reset")
	}}
	h := newHarness(t, r)
	seedAdmire(h.store, "a1", "u1", "p1", 1)
	seedAdmire(h.store, "a2", "u2", "p1", 2)
	h.subscribe(t, "preview/p1", admiresKey("p1"), 1, []string{"a2"}, 2)
	h.subscribe(t, "modal/p1", admiresKey("p1"), 0, []string{"a1", "a2"}, 2)

	beforeViews := h.views.Views(admiresKey("p1"))
	beforeEntities := h.store.Entities(store.KindAdmire)

	out := h.exec.Admire(context.Background(), "me", "p1")
	h.exec.Wait()

	assert.Equal(t, ResultRolledBack, out.Result)
	assert.Equal(t, guard.StatusRolledBack, out.Status)
	assert.Equal(t, true, errors.Is(out.Err, ErrTransport))
	assert.Equal(t, beforeViews, h.views.Views(admiresKey("p1")))
	assert.Equal(t, beforeEntities, h.store.Entities(store.KindAdmire))

	assert.Equal(t, 1, len(h.rec.notices))
	assert.Equal(t, "notice.admire", h.rec.notices[0].Key)
	assert.Equal(t, 0, len(h.rec.anomalies))
}

func TestUnexpectedResponseReported(t *testing.T) {
	r := &fakeRemote{admire: func(context.Context, string) (remote.AdmireResult, error) {
		return remote.Unrecognized{Typename: "RateLimitedPayload"}, nil
	}}
	h := newHarness(t, r)
	h.subscribe(t, "preview/p1", admiresKey("p1"), 1, nil, 0)

	out := h.exec.Admire(context.Background(), "me", "p1")
	h.exec.Wait()

	assert.Equal(t, ResultRolledBack, out.Result)
	assert.Equal(t, true, errors.Is(out.Err, ErrUnexpectedResponse))
	assert.Equal(t, 0, h.view("preview/p1").Total)
	assert.Equal(t, 0, h.store.Len())

	assert.Equal(t, 1, len(h.rec.anomalies))
	a := h.rec.anomalies[0]
	assert.Equal(t, "p1", a.TargetID)
	assert.Equal(t, KindAdmire, a.ActionKind)
	assert.Equal(t, "RateLimitedPayload", a.Discriminant)
	assert.Equal(t, 1, len(h.rec.notices))
}

func TestMismatchedVariantIsUnexpected(t *testing.T) {
	r := &fakeRemote{follow: func(context.Context, string) (remote.FollowResult, error) {
		return remote.NotFollowing{}, nil
	}}
	h := newHarness(t, r)

	out := h.exec.Follow(context.Background(), "me", "u2")
	h.exec.Wait()
	assert.Equal(t, ResultRolledBack, out.Result)
	assert.Equal(t, false, h.store.IsFollowing("me", "u2"))
	assert.Equal(t, 1, len(h.rec.anomalies))
}

func TestUnmountedSurfaceSkipsCallbackButStoreCompletes(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	r := &fakeRemote{admire: func(ctx context.Context, postID string) (remote.AdmireResult, error) {
		close(entered)
		<-release
		// surface context'i iptal edilmiş olsa da çağrının context'i canlıdır
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return admireOK("c-9")(ctx, postID)
	}}
	h := newHarness(t, r)
	h.subscribe(t, "modal/p1", admiresKey("p1"), 0, nil, 0)

	var delivered int
	surface := NewSurface(func(Outcome) { delivered++ })
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan Outcome)
	go func() { done <- h.exec.Admire(ctx, "me", "p1", WithSurface(surface)) }()
	<-entered
	surface.Unmount()
	cancel()
	close(release)

	out := <-done
	assert.Equal(t, ResultConfirmed, out.Result)
	assert.Equal(t, 0, delivered)
	assert.Equal(t, false, surface.Mounted())
	assert.Equal(t, []string{"c-9"}, h.view("modal/p1").Edges)
}

func TestMountedSurfaceReceivesOutcome(t *testing.T) {
	r := &fakeRemote{admire: admireOK("c-1")}
	h := newHarness(t, r)

	var got []Outcome
	surface := NewSurface(func(o Outcome) { got = append(got, o) })
	h.exec.Admire(context.Background(), "me", "p1", WithSurface(surface))

	assert.Equal(t, 1, len(got))
	assert.Equal(t, ResultConfirmed, got[0].Result)
}

func TestRemainderAfterConfirmedAdmire(t *testing.T) {
	r := &fakeRemote{admire: admireOK("c-1")}
	h := newHarness(t, r)
	seedAdmire(h.store, "a6", "u6", "p1", 6)
	seedAdmire(h.store, "a7", "u7", "p1", 7)
	h.subscribe(t, "inline/p1", admiresKey("p1"), 2, []string{"a6", "a7"}, 7)

	surface := views.Surface{Name: "inline", Collection: views.CollectionAdmires, Limit: 2, Order: views.OrderLatestFirst}
	p := views.Project(h.view("inline/p1"), views.StoreLookup(h.store), surface)
	assert.Equal(t, "+5 others", p.OthersLabel())

	h.exec.Admire(context.Background(), "me", "p1")

	p = views.Project(h.view("inline/p1"), views.StoreLookup(h.store), surface)
	assert.Equal(t, 2, len(p.Items))
	assert.Equal(t, "c-1", p.Items[0].ID)
	assert.Equal(t, "+6 others", p.OthersLabel())
}

func TestUnadmireByEntityID(t *testing.T) {
	r := &fakeRemote{unadmire: func(_ context.Context, postID string) (remote.UnadmireResult, error) {
		assert.Equal(t, "p1", postID)
		return remote.UnadmireSuccess{Admire: models.Admire{ID: "c-1", PostID: postID}}, nil
	}}
	h := newHarness(t, r)
	seedAdmire(h.store, "c-1", "me", "p1", 1)
	h.subscribe(t, "modal/p1", admiresKey("p1"), 0, []string{"c-1"}, 1)

	out := h.exec.Execute(context.Background(), Action{Kind: KindUnadmire, ActorID: "me", EntityID: "c-1"})
	assert.Equal(t, ResultConfirmed, out.Result)
	assert.Equal(t, "p1", out.Action.TargetID)
	assert.Equal(t, 0, h.view("modal/p1").Total)
	assert.Equal(t, 0, h.store.Len())
}

func TestFollowAndUnfollow(t *testing.T) {
	r := &fakeRemote{
		follow: func(_ context.Context, userID string) (remote.FollowResult, error) {
			return remote.FollowSuccess{Follow: models.Follow{ID: "f-1", FollowerID: "me", FolloweeID: userID}}, nil
		},
		unfollow: func(_ context.Context, userID string) (remote.FollowResult, error) {
			return remote.UnfollowSuccess{Follow: models.Follow{ID: "f-1", FollowerID: "me", FolloweeID: userID}}, nil
		},
	}
	h := newHarness(t, r)
	h.store.UpsertUser(store.User{ID: "u2"})
	key := views.CollectionKey{Kind: views.CollectionFollowers, TargetID: "u2"}
	h.subscribe(t, "followers/u2", key, 0, nil, 10)

	out := h.exec.Follow(context.Background(), "me", "u2")
	assert.Equal(t, ResultConfirmed, out.Result)
	assert.Equal(t, true, h.store.IsFollowing("me", "u2"))
	assert.Equal(t, []string{"f-1"}, h.view("followers/u2").Edges)
	assert.Equal(t, 11, h.view("followers/u2").Total)

	out = h.exec.Unfollow(context.Background(), "me", "u2")
	assert.Equal(t, ResultConfirmed, out.Result)
	assert.Equal(t, false, h.store.IsFollowing("me", "u2"))
	assert.Equal(t, 10, h.view("followers/u2").Total)
}

func TestBulkFollowAllOrNothing(t *testing.T) {
	fail := true
	r := &fakeRemote{bulkFollow: func(_ context.Context, ids []string) (remote.BulkFollowResult, error) {
		if fail {
			return nil, context.DeadlineExceeded
		}
		follows := make([]models.Follow, 0, len(ids))
		for _, id := range ids {
			follows = append(follows, models.Follow{ID: "f-" + id, FollowerID: "me", FolloweeID: id})
		}
		return remote.BulkFollowSuccess{Follows: follows}, nil
	}}
	h := newHarness(t, r)
	h.store.UpsertUser(store.User{ID: "me"})
	h.store.UpsertUser(store.User{ID: "u2"})

	out := h.exec.BulkFollow(context.Background(), "me", []string{"u2", "u3"})
	h.exec.Wait()
	assert.Equal(t, ResultRolledBack, out.Result)
	assert.Equal(t, false, h.store.IsFollowing("me", "u2"))
	assert.Equal(t, false, h.store.IsFollowing("me", "u3"))

	fail = false
	out = h.exec.BulkFollow(context.Background(), "me", []string{"u2", "u3"})
	assert.Equal(t, ResultConfirmed, out.Result)
	assert.Equal(t, []string{"f-u2", "f-u3"}, out.CanonicalIDs)
	assert.Equal(t, true, h.store.IsFollowing("me", "u2"))
	assert.Equal(t, true, h.store.IsFollowing("me", "u3"))
}

func TestInvalidActionsRejected(t *testing.T) {
	h := newHarness(t, &fakeRemote{})

	out := h.exec.Execute(context.Background(), Action{Kind: "poke", ActorID: "me", TargetID: "p1"})
	assert.Equal(t, ResultRejected, out.Result)
	assert.Equal(t, true, errors.Is(out.Err, ErrUnknownAction))

	out = h.exec.Admire(context.Background(), "", "p1")
	assert.Equal(t, true, errors.Is(out.Err, ErrInvalidAction))

	out = h.exec.BulkFollow(context.Background(), "me", nil)
	assert.Equal(t, true, errors.Is(out.Err, ErrInvalidAction))
}

func TestIDSourceIsMonotonicAndPrefixed(t *testing.T) {
	s := NewIDSource()
	fixed := time.Unix(1700000000, 0)
	s.now = func() time.Time { return fixed }

	a := s.Next(store.KindAdmire)
	b := s.Next(store.KindAdmire)
	assert.Equal(t, true, a.ID < b.ID)
	assert.Equal(t, a.ID, a.DBID)
	assert.Equal(t, true, a.Optimistic)
	assert.Equal(t, true, IsTemp(a.ID))
	assert.Equal(t, "tmp-admire-", a.ID[:len("tmp-admire-")])
}

func TestFollowRollbackLeavesNoStubActor(t *testing.T) {
	r := &fakeRemote{follow: func(context.Context, string) (remote.FollowResult, error) {
		return nil, errors.New("connection reset")
	}}
	h := newHarness(t, r)

	out := h.exec.Follow(context.Background(), "me", "u2")
	h.exec.Wait()
	assert.Equal(t, ResultRolledBack, out.Result)
	assert.Equal(t, false, h.store.HasUser("me"))

	r.bulkFollow = func(context.Context, []string) (remote.BulkFollowResult, error) {
		return nil, errors.New("connection reset")
	}
	out = h.exec.BulkFollow(context.Background(), "me", []string{"u2", "u3"})
	h.exec.Wait()
	assert.Equal(t, ResultRolledBack, out.Result)
	assert.Equal(t, false, h.store.HasUser("me"))
	assert.Equal(t, 0, h.store.Len())
}

func TestApplyCanonicalBypassesGuard(t *testing.T) {
	h := newHarness(t, &fakeRemote{})
	h.subscribe(t, "modal/p1", admiresKey("p1"), 0, nil, 2)

	h.exec.SeedUser(store.User{ID: "me", Username: "ada"}, []string{"u2"})
	h.exec.ApplyCanonical(updaters.Canonical{
		Entity:    store.Entity{ID: "a5", DBID: "a5", Kind: store.KindAdmire, ActorID: "u4", TargetID: "p1"},
		ActorName: "dan",
	})

	assert.Equal(t, true, h.store.IsFollowing("me", "u2"))
	_, ok := h.store.FindByPair(store.KindAdmire, "u4", "p1")
	assert.Equal(t, true, ok)
	assert.Equal(t, 2, h.view("modal/p1").Total)
	assert.Equal(t, guard.StatusIdle, h.exec.Guard().Status(guard.Key{ActorID: "u4", TargetID: "p1", Family: guard.FamilyAdmire}))
}

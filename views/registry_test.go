package views

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func admiresOf(target string) CollectionKey {
	return CollectionKey{Kind: CollectionAdmires, TargetID: target}
}

func TestSubscribeSharesViewAndInheritsTotal(t *testing.T) {
	r := NewRegistry()
	key := admiresOf("p1")

	unsubA, err := r.Subscribe("preview/p1", key, 1)
	assert.Equal(t, nil, err)
	assert.Equal(t, nil, r.Hydrate("preview/p1", []string{"a1", "a2"}, 7))

	unsubB, err := r.Subscribe("modal/p1", key, 0)
	assert.Equal(t, nil, err)
	modal, ok := r.View("modal/p1")
	assert.Equal(t, true, ok)
	assert.Equal(t, 7, modal.Total)

	_, err = r.Subscribe("preview/p1", admiresOf("p2"), 1)
	assert.NotEqual(t, nil, err)

	unsubA()
	unsubA()
	_, ok = r.View("preview/p1")
	assert.Equal(t, false, ok)
	assert.Equal(t, false, r.Evict(key))

	unsubB()
	total, ok := r.Total(key)
	assert.Equal(t, true, ok)
	assert.Equal(t, 7, total)
	assert.Equal(t, true, r.Evict(key))
	_, ok = r.Total(key)
	assert.Equal(t, false, ok)
}

func TestHydrateKeepsNewestWithinLimit(t *testing.T) {
	r := NewRegistry()
	_, _ = r.Subscribe("inline/p1", admiresOf("p1"), 2)

	assert.Equal(t, nil, r.Hydrate("inline/p1", []string{"a1", "a2", "a3"}, 1))
	v, _ := r.View("inline/p1")
	assert.Equal(t, []string{"a2", "a3"}, v.Edges)
	// total pencereden küçük olamaz
	assert.Equal(t, 2, v.Total)

	assert.NotEqual(t, nil, r.Hydrate("missing", nil, 0))
}

func TestInsertEdgeBumpsEveryViewOnce(t *testing.T) {
	r := NewRegistry()
	key := admiresOf("p1")
	_, _ = r.Subscribe("preview/p1", key, 1)
	_, _ = r.Subscribe("modal/p1", key, 0)
	_ = r.Hydrate("preview/p1", []string{"a1"}, 5)
	_ = r.Hydrate("modal/p1", []string{"a0", "a1"}, 5)

	ins := r.InsertEdge(key, "tmp")
	assert.Equal(t, 2, len(ins))

	preview, _ := r.View("preview/p1")
	modal, _ := r.View("modal/p1")
	assert.Equal(t, []string{"tmp"}, preview.Edges)
	assert.Equal(t, 6, preview.Total)
	assert.Equal(t, []string{"a0", "a1", "tmp"}, modal.Edges)
	assert.Equal(t, 6, modal.Total)

	r.UndoInsert(key, "tmp", ins)
	preview, _ = r.View("preview/p1")
	modal, _ = r.View("modal/p1")
	assert.Equal(t, []string{"a1"}, preview.Edges)
	assert.Equal(t, 5, preview.Total)
	assert.Equal(t, []string{"a0", "a1"}, modal.Edges)
	assert.Equal(t, 5, modal.Total)
}

func TestRemoveEdgeCountsOutsideWindow(t *testing.T) {
	r := NewRegistry()
	key := admiresOf("p1")
	_, _ = r.Subscribe("preview/p1", key, 1)
	_ = r.Hydrate("preview/p1", []string{"a9"}, 4)

	removals := r.RemoveEdge(key, "a1")
	v, _ := r.View("preview/p1")
	assert.Equal(t, []string{"a9"}, v.Edges)
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, -1, removals[0].Index)

	r.UndoRemove(key, "a1", removals)
	v, _ = r.View("preview/p1")
	assert.Equal(t, []string{"a9"}, v.Edges)
	assert.Equal(t, 4, v.Total)
}

func TestRemoveEdgeRestoresPosition(t *testing.T) {
	r := NewRegistry()
	key := admiresOf("p1")
	_, _ = r.Subscribe("modal/p1", key, 0)
	_ = r.Hydrate("modal/p1", []string{"a1", "a2", "a3"}, 3)

	removals := r.RemoveEdge(key, "a2")
	v, _ := r.View("modal/p1")
	assert.Equal(t, []string{"a1", "a3"}, v.Edges)

	r.UndoRemove(key, "a2", removals)
	v, _ = r.View("modal/p1")
	assert.Equal(t, []string{"a1", "a2", "a3"}, v.Edges)
	assert.Equal(t, 3, v.Total)
}

func TestRemoveEdgeClampsAtZero(t *testing.T) {
	r := NewRegistry()
	key := admiresOf("p1")
	_, _ = r.Subscribe("modal/p1", key, 0)

	removals := r.RemoveEdge(key, "ghost")
	assert.Equal(t, true, removals[0].Clamped)
	v, _ := r.View("modal/p1")
	assert.Equal(t, 0, v.Total)

	r.UndoRemove(key, "ghost", removals)
	v, _ = r.View("modal/p1")
	assert.Equal(t, 0, v.Total)
}

func TestReplaceEdgeKeepsPositionAndDedupes(t *testing.T) {
	r := NewRegistry()
	key := admiresOf("p1")
	_, _ = r.Subscribe("a/p1", key, 0)
	_, _ = r.Subscribe("b/p1", key, 0)
	_ = r.Hydrate("a/p1", []string{"x", "tmp", "y"}, 3)
	_ = r.Hydrate("b/p1", []string{"canon", "tmp"}, 3)

	dups := r.ReplaceEdge(key, "tmp", "canon")
	assert.Equal(t, 1, dups)

	a, _ := r.View("a/p1")
	b, _ := r.View("b/p1")
	assert.Equal(t, []string{"x", "canon", "y"}, a.Edges)
	assert.Equal(t, []string{"canon"}, b.Edges)
}

func TestExtendPrependsOlderEdges(t *testing.T) {
	r := NewRegistry()
	_, _ = r.Subscribe("modal/p1", admiresOf("p1"), 0)
	_ = r.Hydrate("modal/p1", []string{"a3", "a4"}, 10)

	added, err := r.Extend("modal/p1", []string{"a1", "a2", "a3"})
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, added)

	v, _ := r.View("modal/p1")
	assert.Equal(t, []string{"a1", "a2", "a3", "a4"}, v.Edges)
	assert.Equal(t, 10, v.Total)
}

func TestExtendRespectsLimit(t *testing.T) {
	r := NewRegistry()
	_, _ = r.Subscribe("inline/p1", admiresOf("p1"), 3)
	_ = r.Hydrate("inline/p1", []string{"a3", "a4"}, 10)

	added, err := r.Extend("inline/p1", []string{"a1", "a2"})
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, added)

	v, _ := r.View("inline/p1")
	assert.Equal(t, []string{"a2", "a3", "a4"}, v.Edges)
}

package views

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/akinalp/gallery/store"
)

type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string]Page // before cursor → sayfa
	calls   []PageRequest
	block   chan struct{}
	started chan struct{}
	err     error
}

func (f *fakeFetcher) FetchPage(ctx context.Context, key CollectionKey, req PageRequest) (Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return Page{}, f.err
	}
	return f.pages[req.Before], nil
}

func modalFixture(t *testing.T, f *fakeFetcher) (*Registry, *store.Store, *Paginator) {
	t.Helper()
	reg := NewRegistry()
	st := store.New()
	modal := DefaultSurfaces()["admirers_modal"]
	if _, err := reg.Subscribe(modal.ViewName("p1"), modal.Key("p1"), modal.Limit); err != nil {
		t.Fatal(err)
	}
	return reg, st, NewPaginator(reg, st, f, modal, "p1")
}

func TestPaginatorLoadThenLoadMoreExtends(t *testing.T) {
	f := &fakeFetcher{pages: map[string]Page{
		"": {
			Edges:    []store.Entity{admire("a3", 3), admire("a4", 4)},
			PageInfo: PageInfo{Total: 4, StartCursor: "cur-a3", HasPreviousPage: true},
		},
		"cur-a3": {
			Edges:    []store.Entity{admire("a1", 1), admire("a2", 2)},
			PageInfo: PageInfo{Total: 4, StartCursor: "cur-a1"},
		},
	}}
	reg, st, p := modalFixture(t, f)

	loaded, err := p.Load(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, true, loaded)
	assert.Equal(t, true, p.HasMore())

	loaded, err = p.LoadMore(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, true, loaded)
	assert.Equal(t, false, p.HasMore())

	v, _ := reg.View("admirers_modal/p1")
	assert.Equal(t, []string{"a1", "a2", "a3", "a4"}, v.Edges)
	assert.Equal(t, 4, v.Total)
	assert.Equal(t, 4, st.Len())

	// daha fazla sayfa yok, fetch yapılmaz
	loaded, err = p.LoadMore(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, false, loaded)
	assert.Equal(t, 2, len(f.calls))
	assert.Equal(t, 20, f.calls[0].Limit)
	assert.Equal(t, "cur-a3", f.calls[1].Before)
}

func TestPaginatorIgnoresReentrantLoadMore(t *testing.T) {
	f := &fakeFetcher{pages: map[string]Page{
		"": {
			Edges:    []store.Entity{admire("a2", 2)},
			PageInfo: PageInfo{Total: 2, StartCursor: "cur-a2", HasPreviousPage: true},
		},
		"cur-a2": {
			Edges:    []store.Entity{admire("a1", 1)},
			PageInfo: PageInfo{Total: 2},
		},
	}}
	reg, _, p := modalFixture(t, f)
	_, err := p.Load(context.Background())
	assert.Equal(t, nil, err)

	f.block = make(chan struct{})
	f.started = make(chan struct{}, 1)

	done := make(chan bool)
	go func() {
		loaded, _ := p.LoadMore(context.Background())
		done <- loaded
	}()
	<-f.started

	// ilk yükleme sürerken gelen çağrı yok sayılır
	loaded, err := p.LoadMore(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, false, loaded)
	assert.Equal(t, true, p.Loading())

	close(f.block)
	assert.Equal(t, true, <-done)

	v, _ := reg.View("admirers_modal/p1")
	assert.Equal(t, []string{"a1", "a2"}, v.Edges)
	assert.Equal(t, 2, len(f.calls))
}

func TestPaginatorFetchErrorLeavesWindow(t *testing.T) {
	f := &fakeFetcher{err: errors.New("boom")}
	reg, _, p := modalFixture(t, f)

	loaded, err := p.Load(context.Background())
	assert.NotEqual(t, nil, err)
	assert.Equal(t, false, loaded)
	assert.Equal(t, false, p.Loading())

	v, _ := reg.View("admirers_modal/p1")
	assert.Equal(t, 0, len(v.Edges))
}

func TestPaginatorUsesSerializer(t *testing.T) {
	f := &fakeFetcher{pages: map[string]Page{
		"": {Edges: []store.Entity{admire("a1", 1)}, PageInfo: PageInfo{Total: 1}},
	}}
	reg := NewRegistry()
	modal := DefaultSurfaces()["admirers_modal"]
	_, _ = reg.Subscribe(modal.ViewName("p1"), modal.Key("p1"), modal.Limit)

	calls := 0
	p := NewPaginator(reg, store.New(), f, modal, "p1", WithSerializer(func(fn func()) {
		calls++
		fn()
	}))
	_, err := p.Load(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, calls)
}

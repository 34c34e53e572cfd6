package views

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/akinalp/gallery/store"
)

// PageRequest, cursor bazlı pagination parametreleri: {limit, beforeCursor}.
type PageRequest struct {
	Limit  int
	Before string
}

// PageInfo, sayfanın meta bilgisi. Total gerçek koleksiyon büyüklüğüdür.
type PageInfo struct {
	Total           int
	StartCursor     string
	HasPreviousPage bool
}

// Page, server'dan gelen bir sayfa. Edges kronolojik sıradadır.
type Page struct {
	Edges    []store.Entity
	PageInfo PageInfo
}

// PageFetcher, bir koleksiyonun sayfasını getiren dış bağımlılık.
// remote.HTTPClient bu interface'i karşılar.
type PageFetcher interface {
	FetchPage(ctx context.Context, key CollectionKey, req PageRequest) (Page, error)
}

// Paginator, tam liste yüzeyinin "daha fazla yükle" akışını yönetir.
//
// Kurallar:
//   - Daha fazla yüklemek mevcut pencereyi GENİŞLETİR, asla değiştirmez.
//   - Yükleme sürerken gelen tekrar çağrılar yok sayılır (re-entrant guard).
//   - Store ve Registry yazımları serialize fonksiyonu içinde yapılır;
//     böylece executor'ın event loop kilidi ile updater'larla iç içe geçmez.
type Paginator struct {
	reg       *Registry
	st        *store.Store
	fetcher   PageFetcher
	surface   Surface
	targetID  string
	serialize func(func())

	loading atomic.Bool

	mu      sync.Mutex
	cursor  string
	hasMore bool
	loaded  bool
}

// PaginatorOption, Paginator'ı yapılandıran fonksiyonel opsiyon.
type PaginatorOption func(*Paginator)

// WithSerializer, store yazımlarını saran fonksiyonu ayarlar.
// Pratikte executor.Executor.Serialize verilir.
func WithSerializer(fn func(func())) PaginatorOption {
	return func(p *Paginator) {
		p.serialize = fn
	}
}

// NewPaginator, bir yüzey + hedef için Paginator oluşturur.
// View'ın (surface.ViewName(targetID)) önceden Subscribe edilmiş olması gerekir.
func NewPaginator(reg *Registry, st *store.Store, fetcher PageFetcher, surface Surface, targetID string, opts ...PaginatorOption) *Paginator {
	p := &Paginator{
		reg:       reg,
		st:        st,
		fetcher:   fetcher,
		surface:   surface,
		targetID:  targetID,
		serialize: func(fn func()) { fn() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load, ilk sayfayı getirir ve View'ı hydrate eder.
// Yükleme zaten sürüyorsa (false, nil) döner.
func (p *Paginator) Load(ctx context.Context) (bool, error) {
	if !p.loading.CompareAndSwap(false, true) {
		return false, nil
	}
	defer p.loading.Store(false)

	page, err := p.fetcher.FetchPage(ctx, p.surface.Key(p.targetID), PageRequest{Limit: p.pageSize()})
	if err != nil {
		return false, fmt.Errorf("load %s: %w", p.surface.ViewName(p.targetID), err)
	}

	var hydrateErr error
	p.serialize(func() {
		refs := p.upsert(page.Edges)
		hydrateErr = p.reg.Hydrate(p.surface.ViewName(p.targetID), refs, page.PageInfo.Total)
	})
	if hydrateErr != nil {
		return false, hydrateErr
	}

	p.mu.Lock()
	p.cursor = page.PageInfo.StartCursor
	p.hasMore = page.PageInfo.HasPreviousPage
	p.loaded = true
	p.mu.Unlock()
	return true, nil
}

// LoadMore, bir önceki sayfayı (daha eski edge'ler) getirir ve pencereye ekler.
//
// Dönen bool: gerçekten bir yükleme yapıldı mı. Yükleme sürüyorsa, ilk sayfa
// henüz yüklenmediyse veya daha fazla sayfa yoksa (false, nil) döner.
func (p *Paginator) LoadMore(ctx context.Context) (bool, error) {
	p.mu.Lock()
	cursor, hasMore, loaded := p.cursor, p.hasMore, p.loaded
	p.mu.Unlock()
	if !loaded || !hasMore {
		return false, nil
	}

	if !p.loading.CompareAndSwap(false, true) {
		return false, nil
	}
	defer p.loading.Store(false)

	page, err := p.fetcher.FetchPage(ctx, p.surface.Key(p.targetID), PageRequest{
		Limit:  p.pageSize(),
		Before: cursor,
	})
	if err != nil {
		return false, fmt.Errorf("load more %s: %w", p.surface.ViewName(p.targetID), err)
	}

	var extendErr error
	p.serialize(func() {
		refs := p.upsert(page.Edges)
		_, extendErr = p.reg.Extend(p.surface.ViewName(p.targetID), refs)
	})
	if extendErr != nil {
		return false, extendErr
	}

	p.mu.Lock()
	p.cursor = page.PageInfo.StartCursor
	p.hasMore = page.PageInfo.HasPreviousPage
	p.mu.Unlock()
	return true, nil
}

// HasMore, daha eski sayfa olup olmadığını döner.
func (p *Paginator) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Loading, bir yüklemenin sürüp sürmediğini döner.
func (p *Paginator) Loading() bool {
	return p.loading.Load()
}

func (p *Paginator) pageSize() int {
	if p.surface.PageSize > 0 {
		return p.surface.PageSize
	}
	return 20
}

func (p *Paginator) upsert(edges []store.Entity) []string {
	refs := make([]string, 0, len(edges))
	for _, e := range edges {
		p.st.Upsert(e)
		refs = append(refs, e.ID)
	}
	return refs
}

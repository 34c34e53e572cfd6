// Package views, aynı mantıksal koleksiyonu gözlemleyen birden fazla View'ı
// (feed önizlemesi, satır içi liste, tam liste modalı...) yönetir.
//
// Kavramlar:
//   - CollectionKey: "E event'inin admire'ları" gibi bir mantıksal koleksiyon.
//   - View: koleksiyon üzerinde isimli, sınırlı bir pencere (Edges) + toplam sayaç (Total).
//
// Total, Edges'ten TÜRETİLMEZ. Pencere neredeyse her zaman gerçek koleksiyondan
// küçüktür; bu yüzden Total sadece updater aritmetiğiyle (±1) değişir.
// Değişmez: Total >= len(Edges), Limit > 0 ise len(Edges) <= Limit.
package views

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// CollectionKind, mantıksal koleksiyonun türü.
type CollectionKind string

const (
	CollectionAdmires   CollectionKind = "admires"
	CollectionComments  CollectionKind = "comments"
	CollectionFollowers CollectionKind = "followers"
)

// CollectionKey, bir hedefin (post, event, kullanıcı) tek bir koleksiyonunu adresler.
type CollectionKey struct {
	Kind     CollectionKind
	TargetID string
}

func (k CollectionKey) String() string {
	return fmt.Sprintf("%s:%s", k.Kind, k.TargetID)
}

// View, bir koleksiyonun isimli penceresi.
// Edges kronolojik (en eski → en yeni) sıradadır; server da bu sırayla döner.
// Limit 0 ise pencere sınırsızdır (tam liste modalı).
type View struct {
	Name  string
	Key   CollectionKey
	Limit int
	Edges []string
	Total int
}

// Contains, ref'in pencerede olup olmadığını döner.
func (v View) Contains(ref string) bool {
	return slices.Contains(v.Edges, ref)
}

// Insertion, InsertEdge'in tek bir View'da yaptığı değişikliğin tersini almak için
// gereken bilgi. Evicted: pencere dolu olduğu için çıkarılan en eski edge.
type Insertion struct {
	View    string
	Evicted string
	Skipped bool // ref zaten penceredeydi, edge eklenmedi
}

// Removal, RemoveEdge'in tek bir View'daki etkisi.
// Index -1 ise entity pencerede değildi (yalnızca Total azaldı).
// Clamped true ise Total zaten 0'dı ve azaltılamadı.
type Removal struct {
	View    string
	Index   int
	Clamped bool
}

// collection, bir CollectionKey'in cache girdisi.
// total, View'lar unmount olsa bile Evict edilene kadar korunur.
type collection struct {
	key   CollectionKey
	total int
	views map[string]*viewEntry
}

type viewEntry struct {
	view View
	refs int
}

// Registry, koleksiyon → View'lar eşlemesi.
type Registry struct {
	mu          sync.RWMutex
	collections map[CollectionKey]*collection
	byName      map[string]CollectionKey
}

// NewRegistry, boş bir Registry oluşturur.
func NewRegistry() *Registry {
	return &Registry{
		collections: make(map[CollectionKey]*collection),
		byName:      make(map[string]CollectionKey),
	}
}

// Subscribe, bir UI yüzeyinin bir View'ı gözlemlemeye başladığını kaydeder.
//
// Aynı isimle tekrar çağrılırsa referans sayacı artar (aynı View paylaşılır).
// Yeni oluşan View, koleksiyonun mevcut total'ini miras alır.
// Dönen fonksiyon son abone ayrıldığında View'ı yok eder; koleksiyon girdisi
// (ve total'i) kalır.
func (r *Registry) Subscribe(name string, key CollectionKey, limit int) (func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[name]; ok && existing != key {
		return nil, fmt.Errorf("view %q already observes %s", name, existing)
	}

	c := r.collectionLocked(key)
	entry, ok := c.views[name]
	if !ok {
		entry = &viewEntry{view: View{Name: name, Key: key, Limit: limit, Total: c.total}}
		c.views[name] = entry
		r.byName[name] = key
	}
	entry.refs++

	var once sync.Once
	return func() {
		once.Do(func() { r.unsubscribe(name) })
	}, nil
}

func (r *Registry) unsubscribe(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.byName[name]
	if !ok {
		return
	}
	c := r.collections[key]
	entry := c.views[name]
	entry.refs--
	if entry.refs <= 0 {
		delete(c.views, name)
		delete(r.byName, name)
	}
}

func (r *Registry) collectionLocked(key CollectionKey) *collection {
	c, ok := r.collections[key]
	if !ok {
		c = &collection{key: key, views: make(map[string]*viewEntry)}
		r.collections[key] = c
	}
	return c
}

// Evict, koleksiyonun cache girdisini tamamen siler.
// Aboneliği süren View'lar varsa silinmez (false döner).
func (r *Registry) Evict(key CollectionKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.collections[key]
	if !ok {
		return true
	}
	if len(c.views) > 0 {
		return false
	}
	delete(r.collections, key)
	return true
}

// View, isimle bir View'ın kopyasını döner.
func (r *Registry) View(name string) (View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.byName[name]
	if !ok {
		return View{}, false
	}
	return cloneView(r.collections[key].views[name].view), true
}

// Views, bir koleksiyonu gözlemleyen tüm View'ların kopyalarını isim sırasıyla döner.
func (r *Registry) Views(key CollectionKey) []View {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collections[key]
	if !ok {
		return nil
	}
	out := make([]View, 0, len(c.views))
	for _, e := range c.views {
		out = append(out, cloneView(e.view))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Total, koleksiyonun cache'teki total'ini döner.
func (r *Registry) Total(key CollectionKey) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collections[key]
	if !ok {
		return 0, false
	}
	return c.total, true
}

// Hydrate, server'dan gelen ilk sayfayla bir View'ın penceresini doldurur.
//
// edges kronolojik sıradadır. Pencere Limit'ten büyükse en yeni Limit kadar
// edge tutulur. total server'ın bildirdiği gerçek koleksiyon büyüklüğüdür;
// pencereden küçük bildirilirse değişmezi korumak için pencere boyutuna çekilir.
func (r *Registry) Hydrate(name string, edges []string, total int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, c, err := r.entryLocked(name)
	if err != nil {
		return err
	}

	window := slices.Clone(edges)
	if entry.view.Limit > 0 && len(window) > entry.view.Limit {
		window = window[len(window)-entry.view.Limit:]
	}
	if total < len(window) {
		total = len(window)
	}

	entry.view.Edges = window
	c.total = total
	// Aynı koleksiyonu gözlemleyen tüm View'lar server'ın total'ini paylaşır.
	for _, other := range c.views {
		other.view.Total = max(total, len(other.view.Edges))
	}
	return nil
}

// Extend, pagination ile gelen daha eski edge'leri pencerenin eski ucuna ekler.
// Mevcut pencere asla değiştirilmez (replace YOK); zaten bulunan ref'ler atlanır.
// Total'e dokunulmaz, total sadece updater aritmetiğiyle değişir.
func (r *Registry) Extend(name string, older []string) (added int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, _, err := r.entryLocked(name)
	if err != nil {
		return 0, err
	}

	fresh := make([]string, 0, len(older))
	for _, ref := range older {
		if !slices.Contains(entry.view.Edges, ref) && !slices.Contains(fresh, ref) {
			fresh = append(fresh, ref)
		}
	}
	if entry.view.Limit > 0 {
		room := entry.view.Limit - len(entry.view.Edges)
		if room <= 0 {
			return 0, nil
		}
		if len(fresh) > room {
			fresh = fresh[len(fresh)-room:]
		}
	}

	entry.view.Edges = append(fresh, entry.view.Edges...)
	if entry.view.Total < len(entry.view.Edges) {
		entry.view.Total = len(entry.view.Edges)
	}
	return len(fresh), nil
}

func (r *Registry) entryLocked(name string) (*viewEntry, *collection, error) {
	key, ok := r.byName[name]
	if !ok {
		return nil, nil, fmt.Errorf("view %q is not registered", name)
	}
	c := r.collections[key]
	return c.views[name], c, nil
}

func cloneView(v View) View {
	v.Edges = slices.Clone(v.Edges)
	return v
}

package views

import (
	"fmt"
	"slices"

	"github.com/akinalp/gallery/store"
)

// Order, bir yüzeyin pencereyi hangi sırayla göstereceği.
type Order string

const (
	// OrderOldestFirst: server sırası (kronolojik). Tam liste modalı bunu kullanır.
	OrderOldestFirst Order = "oldest_first"
	// OrderLatestFirst: pencere ters çevrilir, en yeni önce. Admire önizlemeleri.
	OrderLatestFirst Order = "latest_first"
	// OrderLastOne: pencerenin SADECE son elemanı. Yorum önizlemesi, hemen
	// önceki bir silmeyi tolere etmek için son eleman alınır.
	OrderLastOne Order = "last_one"
)

// Lookup, bir edge ref'ini store kaydına çözer. Silinmiş kayıtlar için false döner.
type Lookup func(id string) (store.Entity, bool)

// StoreLookup, store.Store'u Lookup'a uyarlar.
func StoreLookup(s *store.Store) Lookup {
	return s.Get
}

// Projection, bir yüzeyin gerçekte render edeceği şey.
//
// Remainder: "+N kişi daha" değeri = Total − gösterilen. Server'ın döndüğü
// edge sayısından DEĞİL, total'den hesaplanır, server penceresi zaten kesiktir.
// CreateFirst: total 0 → liste yerine "ilk sen ol" affordance'ı gösterilir.
// Empty: LastOne yüzeyinde son eleman silinmişse önizleme boş kabul edilir.
type Projection struct {
	Items       []store.Entity
	Remainder   int
	Total       int
	CreateFirst bool
	Empty       bool
}

// OthersLabel, "+N others" metnini döner; kalan yoksa boş string.
func (p Projection) OthersLabel() string {
	if p.Remainder <= 0 {
		return ""
	}
	return fmt.Sprintf("+%d others", p.Remainder)
}

// Project, bir View'ı yüzey konfigürasyonuna göre render edilecek sıraya çevirir.
func Project(v View, lookup Lookup, s Surface) Projection {
	p := Projection{Total: v.Total}
	if v.Total <= 0 {
		p.CreateFirst = true
		return p
	}

	switch s.Order {
	case OrderLastOne:
		if len(v.Edges) == 0 {
			p.Empty = true
			break
		}
		last, ok := lookup(v.Edges[len(v.Edges)-1])
		if !ok || !s.accepts(last.Kind) {
			p.Empty = true
			break
		}
		p.Items = []store.Entity{last}

	case OrderLatestFirst:
		for i := len(v.Edges) - 1; i >= 0; i-- {
			if s.Limit > 0 && len(p.Items) >= s.Limit {
				break
			}
			if e, ok := lookup(v.Edges[i]); ok && s.accepts(e.Kind) {
				p.Items = append(p.Items, e)
			}
		}

	default:
		resolved := resolve(v.Edges, lookup, s)
		if s.Limit > 0 && len(resolved) > s.Limit {
			resolved = resolved[len(resolved)-s.Limit:]
		}
		p.Items = resolved
	}

	p.Remainder = max(v.Total-len(p.Items), 0)
	return p
}

func resolve(refs []string, lookup Lookup, s Surface) []store.Entity {
	out := make([]store.Entity, 0, len(refs))
	for _, ref := range refs {
		if e, ok := lookup(ref); ok && s.accepts(e.Kind) {
			out = append(out, e)
		}
	}
	return out
}

// MergePolicy, notes yüzeyinde Comment ve Admire listelerinin birleşme kuralı.
type MergePolicy string

const (
	// MergeGrouped: önce tüm Comment'ler, sonra tüm Admire'lar; her grup kendi
	// içinde kronolojik. Ham fetch sırası ne olursa olsun sonuç aynıdır.
	MergeGrouped MergePolicy = "grouped"
	// MergeChronological: CreatedAt'e göre tek sıra; eşitlikte Comment, Admire'dan önce.
	MergeChronological MergePolicy = "chronological"
)

// kindRank, eşitlik durumunda sabit tie-break: Comment < Admire < diğerleri.
func kindRank(k store.Kind) int {
	switch k {
	case store.KindComment:
		return 0
	case store.KindAdmire:
		return 1
	default:
		return 2
	}
}

// Merge, iki farklı tipteki edge listesini tek bir toplam sıraya dizer.
// Sıralama stabil ve tam tanımlıdır, ekleme sırasına güvenmez.
func Merge(comments, admires []store.Entity, policy MergePolicy) []store.Entity {
	out := make([]store.Entity, 0, len(comments)+len(admires))
	out = append(out, comments...)
	out = append(out, admires...)

	slices.SortStableFunc(out, func(a, b store.Entity) int {
		ra, rb := kindRank(a.Kind), kindRank(b.Kind)
		if policy == MergeGrouped && ra != rb {
			return ra - rb
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if ra != rb {
			return ra - rb
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

// ProjectNotes, Comment ve Admire View'larını tek bir notes yüzeyine birleştirir.
// Total iki koleksiyonun total'lerinin toplamıdır.
func ProjectNotes(comments, admires View, lookup Lookup, s Surface) Projection {
	total := comments.Total + admires.Total
	p := Projection{Total: total}
	if total <= 0 {
		p.CreateFirst = true
		return p
	}

	items := Merge(resolve(comments.Edges, lookup, s), resolve(admires.Edges, lookup, s), s.Merge)
	if s.Limit > 0 && len(items) > s.Limit {
		items = items[:s.Limit]
	}
	p.Items = items
	p.Remainder = max(total-len(items), 0)
	return p
}

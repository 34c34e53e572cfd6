package updaters

import (
	"github.com/akinalp/gallery/store"
	"github.com/akinalp/gallery/views"
)

// Admire, actor'un target'ı (post / feed event) admire etmesi.
type Admire struct {
	ActorID  string
	TargetID string
}

func (Admire) Name() string { return "admire" }

// Apply, Admire entity'sini store'a ekler, koleksiyonu gözlemleyen her View'a
// edge'ini ekler ve her View'ın total'ini tam bir kez artırır.
//
// Actor'un bu hedefe zaten bir admire'ı varsa hiçbir şey yapılmaz: aynı
// mantıksal admire iki kez sayılmaz.
func (u Admire) Apply(s State, next NextID) *Patch {
	if _, exists := s.Store.FindByPair(store.KindAdmire, u.ActorID, u.TargetID); exists {
		return noop()
	}

	key := views.CollectionKey{Kind: views.CollectionAdmires, TargetID: u.TargetID}
	temp := entity(store.KindAdmire, u.ActorID, u.TargetID, next(store.KindAdmire))

	s.Store.Upsert(temp)
	insertions := s.Views.InsertEdge(key, temp.ID)

	return &Patch{steps: []step{{
		targetID: u.TargetID,
		tempID:   temp.ID,
		revert: func() {
			s.Store.Delete(temp.ID)
			s.Views.UndoInsert(key, temp.ID, insertions)
		},
		confirm: func(id Identity) {
			swap(s, key, temp, entity(store.KindAdmire, u.ActorID, u.TargetID, id))
		},
	}}}
}

// Unadmire, bir admire'ın geri alınması.
//
// EntityID verilmişse kayıt onunla, verilmemişse (actor, target) çiftiyle bulunur.
// Kayıt yerelde yoksa (ör. optimistic admire hiç uzlaşmadı) no-op'tur:
// sayaç negatife düşürülmez.
type Unadmire struct {
	EntityID string
	ActorID  string
	TargetID string
}

func (Unadmire) Name() string { return "unadmire" }

// Locate, kaldırılacak admire kaydını bulur.
func (u Unadmire) Locate(st *store.Store) (store.Entity, bool) {
	if u.EntityID != "" {
		if e, ok := st.Get(u.EntityID); ok && e.Kind == store.KindAdmire {
			return e, true
		}
	}
	return st.FindByPair(store.KindAdmire, u.ActorID, u.TargetID)
}

func (u Unadmire) Apply(s State, _ NextID) *Patch {
	existing, ok := u.Locate(s.Store)
	if !ok {
		return noop()
	}

	key := views.CollectionKey{Kind: views.CollectionAdmires, TargetID: existing.TargetID}
	s.Store.Delete(existing.ID)
	removals := s.Views.RemoveEdge(key, existing.ID)
	reportClamped(s, key, removals)

	return &Patch{steps: []step{{
		targetID: existing.TargetID,
		tempID:   existing.ID,
		revert: func() {
			s.Store.Upsert(existing)
			s.Views.UndoRemove(key, existing.ID, removals)
		},
		confirm: func(id Identity) {
			// Server başka bir kanonik id döndüyse o kayıt da yerelde kalmamalı.
			if id.ID != "" && id.ID != existing.ID {
				if _, ok := s.Store.Delete(id.ID); ok {
					reportClamped(s, key, s.Views.RemoveEdge(key, id.ID))
				}
			}
		},
	}}}
}

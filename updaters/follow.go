package updaters

import (
	"github.com/akinalp/gallery/store"
	"github.com/akinalp/gallery/views"
)

// Follow, actor'un target kullanıcıyı takip etmesi.
//
// "Takip ediyor mu?" bir flag değil, actor.Following set üyeliğidir; bu yüzden
// updater set'i değiştirir. Target'ın kullanıcı kaydı store'da yoksa
// target.Followers adımı atlanır (hata değil). followers:<target>
// koleksiyonunu gözlemleyen View'lar her durumda güncellenir.
type Follow struct {
	ActorID  string
	TargetID string
}

func (Follow) Name() string { return "follow" }

func (u Follow) Apply(s State, next NextID) *Patch {
	st, ok := u.apply(s, next)
	if !ok {
		return noop()
	}
	return &Patch{steps: []step{st}}
}

func (u Follow) apply(s State, next NextID) (step, bool) {
	if s.Store.IsFollowing(u.ActorID, u.TargetID) {
		return step{}, false
	}

	key := views.CollectionKey{Kind: views.CollectionFollowers, TargetID: u.TargetID}
	temp := entity(store.KindFollowEdge, u.ActorID, u.TargetID, next(store.KindFollowEdge))

	// AddFollowing bilinmeyen actor için stub kayıt açar; revert onu da siler.
	createdActor := !s.Store.HasUser(u.ActorID)
	s.Store.AddFollowing(u.ActorID, u.TargetID)
	addedFollower := s.Store.AddFollower(u.TargetID, u.ActorID)
	s.Store.Upsert(temp)
	insertions := s.Views.InsertEdge(key, temp.ID)

	return step{
		targetID: u.TargetID,
		tempID:   temp.ID,
		revert: func() {
			s.Store.Delete(temp.ID)
			s.Views.UndoInsert(key, temp.ID, insertions)
			if addedFollower {
				s.Store.RemoveFollower(u.TargetID, u.ActorID)
			}
			s.Store.RemoveFollowing(u.ActorID, u.TargetID)
			if createdActor {
				s.Store.DeleteUser(u.ActorID)
			}
		},
		confirm: func(id Identity) {
			swap(s, key, temp, entity(store.KindFollowEdge, u.ActorID, u.TargetID, id))
		},
	}, true
}

// Unfollow, takibin bırakılması. Actor hedefi takip etmiyorsa no-op.
type Unfollow struct {
	ActorID  string
	TargetID string
}

func (Unfollow) Name() string { return "unfollow" }

func (u Unfollow) Apply(s State, _ NextID) *Patch {
	edge, hasEdge := s.Store.FindByPair(store.KindFollowEdge, u.ActorID, u.TargetID)
	if !s.Store.IsFollowing(u.ActorID, u.TargetID) && !hasEdge {
		return noop()
	}

	key := views.CollectionKey{Kind: views.CollectionFollowers, TargetID: u.TargetID}
	removedFollowing := s.Store.RemoveFollowing(u.ActorID, u.TargetID)
	removedFollower := s.Store.RemoveFollower(u.TargetID, u.ActorID)

	// Edge kaydı yerelde olmasa da koleksiyondan bir üye eksilir; boş ref
	// hiçbir pencerede bulunmaz, sadece total'ler azalır.
	ref := ""
	if hasEdge {
		ref = edge.ID
		s.Store.Delete(edge.ID)
	}
	removals := s.Views.RemoveEdge(key, ref)
	reportClamped(s, key, removals)

	return &Patch{steps: []step{{
		targetID: u.TargetID,
		tempID:   ref,
		revert: func() {
			if hasEdge {
				s.Store.Upsert(edge)
			}
			s.Views.UndoRemove(key, ref, removals)
			if removedFollower {
				s.Store.AddFollower(u.TargetID, u.ActorID)
			}
			if removedFollowing {
				s.Store.AddFollowing(u.ActorID, u.TargetID)
			}
		},
		confirm: func(Identity) {},
	}}}
}

// BulkFollow, birden fazla hedefi tek geçişte takip eder.
//
// Yerel uygulama hedef başına Follow mantığıdır; zaten takip edilen hedefler
// atlanır. Remote çağrı tek istektir: ya hepsi onaylanır ya hepsi geri alınır.
type BulkFollow struct {
	ActorID   string
	TargetIDs []string
}

func (BulkFollow) Name() string { return "bulk_follow" }

func (u BulkFollow) Apply(s State, next NextID) *Patch {
	p := &Patch{}
	seen := make(map[string]struct{}, len(u.TargetIDs))
	for _, target := range u.TargetIDs {
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}

		st, ok := Follow{ActorID: u.ActorID, TargetID: target}.apply(s, next)
		if ok {
			p.steps = append(p.steps, st)
		}
	}
	if len(p.steps) == 0 {
		return noop()
	}
	return p
}

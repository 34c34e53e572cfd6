package updaters

import "github.com/akinalp/gallery/store"

// Canonical, server'ın zaten onayladığı bir değişiklik (realtime event,
// sayfa dışı kalmış kendi kaydımız). Optimistic fazı ve Patch'i yoktur.
//
// View pencerelerine ve total'lere dokunulmaz: total'ler yalnızca
// aksiyon aritmetiği ve hydrate ile değişir. Silinen bir kaydın edge'i
// pencerede kalır, lookup çözemediği için render edilmez.
type Canonical struct {
	Entity  store.Entity
	Deleted bool
	// ActorName, actor store'da yoksa açılacak kaydın kullanıcı adı.
	ActorName string
}

// ApplyCanonical, değişiklikleri sırayla store'a işler. Aynı event'in
// tekrar gelmesi sonucu değiştirmez.
func ApplyCanonical(s State, changes ...Canonical) {
	for _, c := range changes {
		e := c.Entity
		if c.ActorName != "" && !s.Store.HasUser(e.ActorID) {
			// UpsertUser takip set'lerini ezer; bilinen kullanıcıya dokunulmaz.
			s.Store.UpsertUser(store.User{ID: e.ActorID, Username: c.ActorName})
		}

		if c.Deleted {
			s.Store.Delete(e.ID)
			if e.Kind == store.KindFollowEdge {
				s.Store.RemoveFollowing(e.ActorID, e.TargetID)
				s.Store.RemoveFollower(e.TargetID, e.ActorID)
			}
			continue
		}

		e.Optimistic = false
		s.Store.Upsert(e)
		if e.Kind == store.KindFollowEdge {
			s.Store.AddFollowing(e.ActorID, e.TargetID)
			s.Store.AddFollower(e.TargetID, e.ActorID)
		}
	}
}

// SeedUser, oturum sahibinin kaydını takip listesiyle birlikte yazar.
// Mevcut Followers set'i korunur.
func SeedUser(s State, u store.User, following []string) {
	if existing, ok := s.Store.User(u.ID); ok && u.Followers == nil {
		u.Followers = existing.Followers
	}
	u.Following = make(map[string]struct{}, len(following))
	for _, id := range following {
		u.Following[id] = struct{}{}
	}
	s.Store.UpsertUser(u)
}

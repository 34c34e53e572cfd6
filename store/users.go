package store

// UpsertUser, bir kullanıcı kaydını ekler veya günceller.
// Verilen set'ler kopyalanır, çağıranın map'i store'a sızmaz.
func (s *Store) UpsertUser(u User) {
	s.mu.Lock()
	s.users[u.ID] = &User{
		ID:        u.ID,
		Username:  u.Username,
		Following: copySet(u.Following),
		Followers: copySet(u.Followers),
	}
	s.mu.Unlock()

	s.notify(Change{Op: ChangeUser, ID: u.ID})
}

// DeleteUser, kullanıcı kaydını siler. changed=false: kayıt yoktu.
func (s *Store) DeleteUser(id string) (changed bool) {
	s.mu.Lock()
	if _, ok := s.users[id]; ok {
		delete(s.users, id)
		changed = true
	}
	s.mu.Unlock()

	if changed {
		s.notify(Change{Op: ChangeUser, ID: id})
	}
	return changed
}

// User, kullanıcının bir kopyasını döner.
func (s *Store) User(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, false
	}
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Following: copySet(u.Following),
		Followers: copySet(u.Followers),
	}, true
}

// HasUser, kullanıcı kaydının store'da olup olmadığını döner.
func (s *Store) HasUser(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok
}

// IsFollowing, actor'un target'ı takip edip etmediğini set üyeliğinden türetir.
func (s *Store) IsFollowing(actorID, targetID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[actorID]
	if !ok {
		return false
	}
	_, ok = u.Following[targetID]
	return ok
}

// AddFollowing, target'ı actor'un Following set'ine ekler.
// Actor kaydı yoksa stub olarak oluşturulur, oturum sahibinin kaydı
// her zaman bulunmalıdır. changed=false: üyelik zaten vardı.
func (s *Store) AddFollowing(actorID, targetID string) (changed bool) {
	s.mu.Lock()
	u, ok := s.users[actorID]
	if !ok {
		u = &User{ID: actorID, Following: map[string]struct{}{}, Followers: map[string]struct{}{}}
		s.users[actorID] = u
	}
	if _, exists := u.Following[targetID]; !exists {
		u.Following[targetID] = struct{}{}
		changed = true
	}
	s.mu.Unlock()

	if changed {
		s.notify(Change{Op: ChangeUser, ID: actorID})
	}
	return changed
}

// RemoveFollowing, target'ı actor'un Following set'inden çıkarır.
func (s *Store) RemoveFollowing(actorID, targetID string) (changed bool) {
	s.mu.Lock()
	if u, ok := s.users[actorID]; ok {
		if _, exists := u.Following[targetID]; exists {
			delete(u.Following, targetID)
			changed = true
		}
	}
	s.mu.Unlock()

	if changed {
		s.notify(Change{Op: ChangeUser, ID: actorID})
	}
	return changed
}

// AddFollower, actor'u target'ın Followers set'ine ekler.
// Target kaydı store'da yoksa hiçbir şey yapmaz (false döner).
// Henüz yüklenmemiş bir kullanıcı için stub üretmeyiz.
func (s *Store) AddFollower(targetID, actorID string) (changed bool) {
	s.mu.Lock()
	if u, ok := s.users[targetID]; ok {
		if _, exists := u.Followers[actorID]; !exists {
			u.Followers[actorID] = struct{}{}
			changed = true
		}
	}
	s.mu.Unlock()

	if changed {
		s.notify(Change{Op: ChangeUser, ID: targetID})
	}
	return changed
}

// RemoveFollower, actor'u target'ın Followers set'inden çıkarır.
func (s *Store) RemoveFollower(targetID, actorID string) (changed bool) {
	s.mu.Lock()
	if u, ok := s.users[targetID]; ok {
		if _, exists := u.Followers[actorID]; exists {
			delete(u.Followers, actorID)
			changed = true
		}
	}
	s.mu.Unlock()

	if changed {
		s.notify(Change{Op: ChangeUser, ID: targetID})
	}
	return changed
}

func copySet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

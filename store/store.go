// Package store, sync çekirdeğinin normalize edilmiş in-memory kayıt deposudur.
//
// Store iki tablo tutar:
//   - entities: id → Entity (Admire, Comment, FollowEdge)
//   - users:    id → User (following / followers üyelik set'leri)
//
// Store tek bir oturum (session) boyunca yaşar ve hiçbir şeyi diske yazmaz.
// Store'u mutate eden tek yol updaters paketidir; updaters'ı da sadece
// executor çağırır. Store kendi içinde thread-safe'dir (sync.RWMutex), ama
// birden fazla adımlı değişikliklerin atomikliği executor'ın "event loop"
// kilidiyle sağlanır.
package store

import (
	"sort"
	"sync"
	"time"
)

// Kind, bir Entity'nin türü.
// Go'da enum yoktur, typed string constant'lar kullanılır.
type Kind string

const (
	KindAdmire     Kind = "admire"
	KindComment    Kind = "comment"
	KindFollowEdge Kind = "follow_edge"
)

// Entity, store'daki tek bir domain kaydı.
//
// ID: store içindeki stabil anahtar. Optimistic kayıtlarda geçici id'dir.
// DBID: server'ın atadığı kimlik. Optimistic iken session'a özel, "tmp-" prefix'li
// bir değerdir, server UUID'leriyle asla çakışmaz.
type Entity struct {
	ID         string    `json:"id"`
	DBID       string    `json:"dbid"`
	Kind       Kind      `json:"kind"`
	ActorID    string    `json:"actor_id"`
	TargetID   string    `json:"target_id"`
	Body       string    `json:"body,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Optimistic bool      `json:"optimistic"`
}

// User, bir kullanıcının store'daki kaydı.
//
// "Takip ediyor mu?" bilgisi ayrı bir flag olarak TUTULMAZ. Bilgi,
// Following set'inde hedef id'nin bulunup bulunmadığından türetilir.
// Böylece türetilmiş state asla bayatlamaz (stale olmaz).
type User struct {
	ID        string
	Username  string
	Following map[string]struct{}
	Followers map[string]struct{}
}

// ChangeOp, subscriber'lara iletilen değişiklik türü.
type ChangeOp string

const (
	ChangeUpsert  ChangeOp = "upsert"
	ChangeDelete  ChangeOp = "delete"
	ChangeReplace ChangeOp = "replace"
	ChangeUser    ChangeOp = "user"
)

// Change, Subscribe ile kayıt olan dinleyicilere gönderilen olay.
// Replace'te PreviousID geçici id'yi, Entity ise kanonik kaydı taşır.
type Change struct {
	Op         ChangeOp
	ID         string
	PreviousID string
	Entity     Entity
}

// pairKey, (actor, target, kind) üçlüsü için ikincil index anahtarı.
// Admire ve FollowEdge için "bu kullanıcı bu hedefe zaten bağlı mı?"
// sorusunu O(1) cevaplar.
type pairKey struct {
	kind     Kind
	actorID  string
	targetID string
}

// Store, normalize edilmiş keyed kayıt deposu.
type Store struct {
	mu       sync.RWMutex
	entities map[string]Entity
	pairs    map[pairKey]string
	users    map[string]*User

	subMu   sync.RWMutex
	subs    map[int]func(Change)
	nextSub int
}

// New, boş bir Store oluşturur.
func New() *Store {
	return &Store{
		entities: make(map[string]Entity),
		pairs:    make(map[pairKey]string),
		users:    make(map[string]*User),
		subs:     make(map[int]func(Change)),
	}
}

// Get, id ile bir Entity döner.
func (s *Store) Get(id string) (Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entities[id]
	return e, ok
}

// Upsert, Entity'yi ekler veya aynı id'li kaydın üzerine yazar.
func (s *Store) Upsert(e Entity) {
	s.mu.Lock()
	if prev, ok := s.entities[e.ID]; ok {
		s.unindex(prev)
	}
	s.entities[e.ID] = e
	s.index(e)
	s.mu.Unlock()

	s.notify(Change{Op: ChangeUpsert, ID: e.ID, Entity: e})
}

// Delete, Entity'yi siler ve silinen kaydı döner.
// Kayıt yoksa (Entity{}, false) döner, hata değildir.
func (s *Store) Delete(id string) (Entity, bool) {
	s.mu.Lock()
	e, ok := s.entities[id]
	if ok {
		delete(s.entities, id)
		s.unindex(e)
	}
	s.mu.Unlock()

	if ok {
		s.notify(Change{Op: ChangeDelete, ID: id, Entity: e})
	}
	return e, ok
}

// Replace, geçici kimlikli kaydı kanonik kayıtla değiştirir (identity swap).
//
// Eski kayıt silinir, yenisi eklenir; ikisi asla aynı anda store'da bulunmaz.
// Kanonik id zaten store'daysa (ör. pagination ile önceden gelmiş) yeni
// değer onun üzerine yazılır, yine tek kayıt kalır.
func (s *Store) Replace(oldID string, e Entity) {
	s.mu.Lock()
	if prev, ok := s.entities[oldID]; ok {
		delete(s.entities, oldID)
		s.unindex(prev)
	}
	if prev, ok := s.entities[e.ID]; ok {
		s.unindex(prev)
	}
	s.entities[e.ID] = e
	s.index(e)
	s.mu.Unlock()

	s.notify(Change{Op: ChangeReplace, ID: e.ID, PreviousID: oldID, Entity: e})
}

// FindByPair, bir aktörün bir hedefe verdiği kind türündeki kaydı bulur.
// Admire ve FollowEdge için anlamlıdır; Comment'ler index'lenmez.
func (s *Store) FindByPair(kind Kind, actorID, targetID string) (Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.pairs[pairKey{kind: kind, actorID: actorID, targetID: targetID}]
	if !ok {
		return Entity{}, false
	}
	e, ok := s.entities[id]
	return e, ok
}

// Len, store'daki entity sayısını döner.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Entities, verilen kind'daki tüm kayıtları CreatedAt sırasıyla döner.
// Test ve CLI çıktısı için; sıcak path'te kullanılmaz.
func (s *Store) Entities(kind Kind) []Entity {
	s.mu.RLock()
	out := make([]Entity, 0, len(s.entities))
	for _, e := range s.entities {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// index / unindex: s.mu Lock altında çağrılmalı.
func (s *Store) index(e Entity) {
	if e.Kind == KindComment {
		return
	}
	s.pairs[pairKey{kind: e.Kind, actorID: e.ActorID, targetID: e.TargetID}] = e.ID
}

func (s *Store) unindex(e Entity) {
	if e.Kind == KindComment {
		return
	}
	k := pairKey{kind: e.Kind, actorID: e.ActorID, targetID: e.TargetID}
	if s.pairs[k] == e.ID {
		delete(s.pairs, k)
	}
}

// Subscribe, store değişikliklerini dinleyen bir callback kaydeder.
// Dönen fonksiyon çağrıldığında abonelik iptal edilir.
//
// Callback'ler store kilidi bırakıldıktan SONRA çağrılır, böylece
// callback içinden Get/FindByPair güvenle çağrılabilir (deadlock olmaz).
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(c Change) {
	s.subMu.RLock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}

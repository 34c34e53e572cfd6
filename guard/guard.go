// Package guard, aynı (aktör, hedef, aile) anahtarı için aynı anda yalnızca
// bir aksiyonun uçuşta olmasını sağlar.
//
// Durum makinesi: Idle → Optimistic → (Confirmed | RolledBack) → Idle.
// Optimistic iken gelen ikinci tetikleme kuyruğa ALINMAZ, reddedilir
// (ErrActionPending), çift admire / çift follow yarışını engellemek için.
// Farklı anahtarlar birbirinden tamamen bağımsızdır.
//
// Guard Store'un bellek güvenliğini korumak için değil, mantıksal olarak
// çakışan aksiyonları engellemek için vardır.
package guard

import (
	"errors"
	"fmt"
	"sync"
)

// ErrActionPending, anahtar için zaten uçuşta bir aksiyon olduğunu belirtir.
var ErrActionPending = errors.New("action already pending")

// Status, PendingAction'ın durum makinesindeki yeri.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusOptimistic Status = "optimistic"
	StatusConfirmed  Status = "confirmed"
	StatusRolledBack Status = "rolled_back"
)

// Family, aynı anahtarı paylaşan aksiyon türlerini gruplar.
// Admire ile Unadmire aynı aileden: aynı post'a admire uçuştayken
// unadmire tetiklenirse o da reddedilir.
type Family string

const (
	FamilyAdmire Family = "admire"
	FamilyFollow Family = "follow"
)

// Key, guard'ın kilitlediği birim: (actorID, targetID, family).
type Key struct {
	ActorID  string
	TargetID string
	Family   Family
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Family, k.ActorID, k.TargetID)
}

// PendingAction, uçuştaki bir aksiyonun kaydı.
// Confirmed veya RolledBack'e ulaşıp Release edildiğinde silinir.
type PendingAction struct {
	Key      Key
	TargetID string
	Kind     string
	TempID   string
	Status   Status
}

// Ticket, Acquire'ın döndüğü tutamak. Aynı ticket ile tüm anahtarlar birlikte
// ilerletilir ve bırakılır (BulkFollow birden fazla anahtar tutar).
type Ticket struct {
	keys []Key
}

// Keys, ticket'ın tuttuğu anahtarların kopyasını döner.
func (t *Ticket) Keys() []Key {
	out := make([]Key, len(t.keys))
	copy(out, t.keys)
	return out
}

// Guard, anahtar → PendingAction tablosu.
type Guard struct {
	mu      sync.Mutex
	pending map[Key]*PendingAction
}

// New, boş bir Guard oluşturur.
func New() *Guard {
	return &Guard{pending: make(map[Key]*PendingAction)}
}

// Acquire, verilen anahtarların hepsini birlikte kilitler (all-or-nothing).
//
// Herhangi bir anahtar zaten bir aksiyon tarafından tutuluyorsa hiçbiri
// alınmaz ve ErrActionPending döner. Aynı çağrıdaki tekrar eden anahtarlar
// tek bir anahtar olarak sayılır. Alınan anahtarlar Idle durumunda başlar.
func (g *Guard) Acquire(kind string, keys ...Key) (*Ticket, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("acquire %s: no keys", kind)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	unique := make([]Key, 0, len(keys))
	seen := make(map[Key]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, busy := g.pending[k]; busy {
			return nil, fmt.Errorf("%w: %s", ErrActionPending, k)
		}
		unique = append(unique, k)
	}

	for _, k := range unique {
		g.pending[k] = &PendingAction{Key: k, TargetID: k.TargetID, Kind: kind, Status: StatusIdle}
	}
	return &Ticket{keys: unique}, nil
}

// SetTempID, ticket'ın tüm PendingAction'larına geçici kimliği yazar.
func (g *Guard) SetTempID(t *Ticket, tempID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, k := range t.keys {
		if pa, ok := g.pending[k]; ok {
			pa.TempID = tempID
		}
	}
}

// allowed, geçerli durum geçişleri.
var allowed = map[Status][]Status{
	StatusIdle:       {StatusOptimistic, StatusRolledBack},
	StatusOptimistic: {StatusConfirmed, StatusRolledBack},
}

// Transition, ticket'ın tüm anahtarlarını to durumuna taşır.
// Geçersiz geçişte hiçbir anahtar değişmez ve hata döner.
func (g *Guard) Transition(t *Ticket, to Status) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, k := range t.keys {
		pa, ok := g.pending[k]
		if !ok {
			return fmt.Errorf("transition %s: key %s not held", to, k)
		}
		if !canTransition(pa.Status, to) {
			return fmt.Errorf("transition %s: invalid from %s for %s", to, pa.Status, k)
		}
	}
	for _, k := range t.keys {
		g.pending[k].Status = to
	}
	return nil
}

func canTransition(from, to Status) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Release, ticket'ın anahtarlarını bırakır, anahtarlar tekrar Idle olur.
// Sonuç ne olursa olsun executor her aksiyonun sonunda çağırır.
// Aynı ticket ile ikinci çağrı etkisizdir.
func (g *Guard) Release(t *Ticket) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, k := range t.keys {
		delete(g.pending, k)
	}
	t.keys = nil
}

// Status, anahtarın anlık durumunu döner. Kayıt yoksa Idle.
func (g *Guard) Status(k Key) Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	if pa, ok := g.pending[k]; ok {
		return pa.Status
	}
	return StatusIdle
}

// Pending, uçuştaki tüm aksiyonların kopyasını döner.
func (g *Guard) Pending() []PendingAction {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]PendingAction, 0, len(g.pending))
	for _, pa := range g.pending {
		out = append(out, *pa)
	}
	return out
}

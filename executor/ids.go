package executor

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/akinalp/gallery/store"
	"github.com/akinalp/gallery/updaters"
)

// TempPrefix, oturuma özel geçici kimliklerin ön eki.
// Server UUID'leri bu önekle başlamaz; çakışma imkânsızdır.
const TempPrefix = "tmp-"

// IDSource, oturum boyunca monoton artan geçici kimlikler üretir:
// "tmp-<kind>-<ulid>". Aynı milisaniyede üretilen kimlikler de sıralıdır.
type IDSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewIDSource, crypto/rand tabanlı monoton bir kaynak oluşturur.
func NewIDSource() *IDSource {
	return &IDSource{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Next, kind için yeni bir optimistic kimlik döner (updaters.NextID).
func (s *IDSource) Next(kind store.Kind) updaters.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := ulid.MustNew(ulid.Timestamp(now), s.entropy)
	tmp := TempPrefix + string(kind) + "-" + strings.ToLower(id.String())
	return updaters.Identity{ID: tmp, DBID: tmp, CreatedAt: now, Optimistic: true}
}

// IsTemp, id'nin bu oturumda üretilmiş geçici bir kimlik olup olmadığını döner.
func IsTemp(id string) bool {
	return strings.HasPrefix(id, TempPrefix)
}

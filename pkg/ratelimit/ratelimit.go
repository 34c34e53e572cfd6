// Package ratelimit, in-memory pencere bazlı istek sınırlayıcıları.
//
//   - LoginRateLimiter: IP başına login denemesi (brute-force koruması)
//   - MutationRateLimiter: kullanıcı başına admire / follow mutation'ı,
//     limit aşılınca ayrı bir ceza süresi uygular
//
// Tek instance deploy için in-memory yeterli. Paket proje içi hiçbir pakete
// bağımlı değildir; handlers ve main aynı tipleri import edebilir.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// bucket, bir anahtar için pencere sayacı. cooldownUntil yalnızca
// MutationRateLimiter tarafından kullanılır.
type bucket struct {
	count         int
	windowStart   time.Time
	cooldownUntil time.Time
}

// limiter, iki sınırlayıcının ortak çekirdeği: bucket map'i ve arka plan temizliği.
type limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	window  time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

func newLimiter(window, cleanupEvery time.Duration) *limiter {
	l := &limiter{
		buckets: make(map[string]*bucket),
		window:  window,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go l.cleanupLoop(cleanupEvery)
	return l
}

func (l *limiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stop:
			return
		}
	}
}

// cleanup, hem penceresi hem cezası bitmiş bucket'ları siler.
func (l *limiter) cleanup() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if now.Sub(b.windowStart) > l.window && !now.Before(b.cooldownUntil) {
			delete(l.buckets, key)
		}
	}
}

// Stop, temizlik goroutine'ini durdurur. Birden fazla çağrı güvenlidir.
func (l *limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// LoginRateLimiter, IP başına pencere içinde en fazla maxAttempts deneme.
// Başarılı login'de Reset ile sayaç temizlenir.
type LoginRateLimiter struct {
	*limiter
	maxAttempts int
}

func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	return &LoginRateLimiter{
		limiter:     newLimiter(window, time.Minute),
		maxAttempts: maxAttempts,
	}
}

// Allow, her çağrıda sayacı artırır (deneme başarılı olsun olmasın).
func (rl *LoginRateLimiter) Allow(ip string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok || now.Sub(b.windowStart) > rl.window {
		rl.buckets[ip] = &bucket{count: 1, windowStart: now}
		return true
	}
	b.count++
	return b.count <= rl.maxAttempts
}

func (rl *LoginRateLimiter) Reset(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, ip)
}

// RetryAfterSeconds, Retry-After header'ı için pencerenin kalan süresi.
func (rl *LoginRateLimiter) RetryAfterSeconds(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok {
		return 0
	}
	return ceilSeconds(rl.window - rl.now().Sub(b.windowStart))
}

// MutationRateLimiter, kullanıcı başına mutation sınırı.
//
// Pencere içinde maxMutations aşılırsa kullanıcı cooldown süresince
// tamamen reddedilir; ceza bitince yeni pencere başlar. İstemci tarafındaki
// bekleyen aksiyon koruması aynı hedefe tekrarı zaten engeller; bu
// sınırlayıcı farklı hedeflere yayılmış toplu tıklamaları keser.
type MutationRateLimiter struct {
	*limiter
	maxMutations int
	cooldown     time.Duration
}

func NewMutationRateLimiter(maxMutations int, window, cooldown time.Duration) *MutationRateLimiter {
	return &MutationRateLimiter{
		limiter:      newLimiter(window, 30*time.Second),
		maxMutations: maxMutations,
		cooldown:     cooldown,
	}
}

func (rl *MutationRateLimiter) Allow(userID string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[userID]
	if !ok {
		rl.buckets[userID] = &bucket{count: 1, windowStart: now}
		return true
	}

	if now.Before(b.cooldownUntil) {
		return false
	}
	if !b.cooldownUntil.IsZero() || now.Sub(b.windowStart) > rl.window {
		*b = bucket{count: 1, windowStart: now}
		return true
	}

	b.count++
	if b.count > rl.maxMutations {
		b.cooldownUntil = now.Add(rl.cooldown)
		return false
	}
	return true
}

// CooldownSeconds, ceza yoksa 0.
func (rl *MutationRateLimiter) CooldownSeconds(userID string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[userID]
	if !ok {
		return 0
	}
	return ceilSeconds(b.cooldownUntil.Sub(rl.now()))
}

// ceilSeconds, +1 yuvarlar; istemci tam süreyi bekler.
func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d.Seconds()) + 1
}

// ExtractIP, reverse proxy arkasında gerçek client IP'sini bulur:
// X-Forwarded-For'un ilk değeri, yoksa X-Real-IP, yoksa RemoteAddr'ın host kısmı.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage, ör. 120 → "2 minute(s)", 45 → "45 second(s)".
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}

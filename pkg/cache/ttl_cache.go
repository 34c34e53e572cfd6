// Package cache, süreli (TTL) generic bir in-memory cache sağlar.
//
// Server'da "bu post var mı" gibi sık sorulan, nadiren değişen cevapları
// tutar; admire ve yorum listeleri her istekte posts tablosuna gitmez.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache, her kaydı ttl süresince tutar. Süresi dolan kayıt Get'te
// görünmez; map'ten fiziksel silme periyodik temizlikte yapılır.
//
//	known := cache.New[string, struct{}](5*time.Minute, time.Minute)
//	defer known.Close()
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	now     func() time.Time

	stop chan struct{}
	once sync.Once
}

func New[K comparable, V any](ttl, cleanupInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-c.stop:
				return
			}
		}
	}()
	return c
}

func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
}

func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// GetOrLoad, cache'te yoksa load'u çağırır ve başarılı sonucu saklar.
// Hatalar cache'lenmez. Aynı anahtar için eşzamanlı iki miss iki kez
// load çağırabilir; sonuçlar aynı olduğu sürece zararsızdır.
func (c *TTLCache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// Len, süresi dolmuş ama henüz temizlenmemiş kayıtları da sayar.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close, temizlik goroutine'ini durdurur.
func (c *TTLCache[K, V]) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *TTLCache[K, V]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

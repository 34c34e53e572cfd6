package executor

import "sync"

// Surface, bir aksiyonu tetikleyen UI yüzeyinin yerel state'i.
//
// Yüzey remote çağrı sürerken unmount olabilir. Aksiyon yine de Store'a
// karşı tamamlanır (Store herhangi bir aboneden uzun yaşar), ama Unmount'tan
// sonra yüzeyin OnSettled callback'i çağrılmaz.
type Surface struct {
	mu        sync.Mutex
	mounted   bool
	onSettled func(Outcome)
}

// NewSurface, mount edilmiş bir yüzey oluşturur. onSettled nil olabilir.
func NewSurface(onSettled func(Outcome)) *Surface {
	return &Surface{mounted: true, onSettled: onSettled}
}

// Unmount, yüzeyi ayırır. Birden fazla çağrı güvenlidir.
func (s *Surface) Unmount() {
	s.mu.Lock()
	s.mounted = false
	s.mu.Unlock()
}

// Mounted, yüzeyin hâlâ bağlı olup olmadığını döner.
func (s *Surface) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// deliver, yüzey bağlıysa sonucu callback'e iletir.
// Kilit callback süresince tutulur: Unmount dönerken callback çalışmıyordur.
func (s *Surface) deliver(o Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mounted || s.onSettled == nil {
		return false
	}
	s.onSettled(o)
	return true
}

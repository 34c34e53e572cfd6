package executor

import (
	"errors"

	"github.com/akinalp/gallery/guard"
)

// Executor'ın hata taksonomisi. Hiçbiri UI katmanına panic/exception olarak
// çıkmaz; hepsi Outcome.Err içinde ve errors.Is ile sınıflandırılabilir.
var (
	// ErrActionPending: aynı anahtar için uçuşta bir aksiyon var, tetikleme reddedildi.
	ErrActionPending = guard.ErrActionPending

	// ErrExpectedConflict: server "zaten var" / "bulunamadı" varyantı döndü.
	// Aksiyon yine Confirmed olarak sonuçlanır; Outcome.Conflict işaretlenir ve
	// Outcome.Err bunu sarar. Rollback, notice ya da rapor yoktur.
	ErrExpectedConflict = errors.New("expected conflict")

	// ErrTransport: ağ, timeout ya da 2xx olmayan status. Rollback + notice,
	// diagnostics raporu yok (kullanıcı tekrar deneyebilir).
	ErrTransport = errors.New("transport failure")

	// ErrUnexpectedResponse: tanınmayan discriminant. Rollback + notice + rapor.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// ErrInvariantViolation: clamp edilen sayaç, çift kanonik kayıt gibi
	// ihlaller. Aksiyon sonucunu değiştirmez ama her zaman raporlanır.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrUnknownAction: executor'ın tanımadığı aksiyon türü.
	ErrUnknownAction = errors.New("unknown action kind")

	// ErrInvalidAction: aktör ya da hedef eksik.
	ErrInvalidAction = errors.New("invalid action")
)

// Package pkg, server ve client'ın paylaştığı küçük yardımcıları barındırır.
// Bu dosya domain-level sentinel error'ları tanımlar.
//
// Karşılaştırma string ile değil referans ile yapılır; wrap edilmiş
// error'lar da eşleşir:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import "errors"

// Service katmanı bu error'ları (wrap ederek) döner, handler katmanı
// mapErrorToStatus ile HTTP status code'a çevirir.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrAlreadyExists   = errors.New("already exists")
	ErrBadRequest      = errors.New("bad request")
	ErrTooManyRequests = errors.New("too many requests")
	ErrInternal        = errors.New("internal error")
)

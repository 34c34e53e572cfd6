// Package middleware, handler'lardan önce çalışan HTTP ara katmanları.
//
// Her middleware func(next http.Handler) http.Handler şeklindedir: işini
// yapar, uygunsa next'i çağırır; değilse yanıtı kendisi yazar ve zincir durur.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/akinalp/gallery/handlers"
	"github.com/akinalp/gallery/pkg"
	"github.com/akinalp/gallery/repository"
	"github.com/akinalp/gallery/services"
)

type AuthMiddleware struct {
	authService services.AuthService
	userRepo    repository.UserRepository
}

func NewAuthMiddleware(authService services.AuthService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{authService: authService, userRepo: userRepo}
}

// Require, "Authorization: Bearer <token>" zorunlu kılar. Token geçerliyse
// kullanıcı DB'den yüklenir (token geçerli ama kullanıcı silinmiş olabilir)
// ve handlers.UserContextKey altında context'e konur.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authorization header required")
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
			return
		}

		claims, err := m.authService.ValidateAccessToken(tokenString)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		user, err := m.userRepo.GetByID(r.Context(), claims.UserID)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found")
			return
		}
		user.PasswordHash = ""

		ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

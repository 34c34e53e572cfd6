package middleware

import (
	"fmt"
	"net/http"

	"github.com/akinalp/gallery/handlers"
	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
	"github.com/akinalp/gallery/pkg/ratelimit"
)

// MutationLimit, kullanıcı başına mutation sınırını uygular. Auth
// middleware'dan sonra zincirlenmelidir. limiter nil ise devre dışıdır.
type MutationLimit struct {
	limiter *ratelimit.MutationRateLimiter
}

func NewMutationLimit(limiter *ratelimit.MutationRateLimiter) *MutationLimit {
	return &MutationLimit{limiter: limiter}
}

func (m *MutationLimit) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		user, ok := r.Context().Value(handlers.UserContextKey).(*models.User)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		if !m.limiter.Allow(user.ID) {
			retryAfter := m.limiter.CooldownSeconds(user.ID)
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
				fmt.Sprintf("too many actions, please try again in %s", ratelimit.FormatRetryMessage(retryAfter)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

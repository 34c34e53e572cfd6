package main

import (
	"net/http"

	"github.com/akinalp/gallery/middleware"
	"github.com/akinalp/gallery/repository"
	"github.com/akinalp/gallery/services"
)

// initRoutes, middleware zincirini kurar ve endpoint'leri mux'a bağlar.
//
//   - auth: JWT doğrulaması
//   - mutate: auth + kullanıcı başına mutation sınırı
//
// Literal path'ler parametrik olanlardan önce tanımlanır
// ("/api/users/me" → "/api/users/{userId}/..." öncesinde).
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	limiters *RateLimiters,
	authService services.AuthService,
	userRepo repository.UserRepository,
	metricsHandler http.Handler,
) {
	authMw := middleware.NewAuthMiddleware(authService, userRepo)
	limitMw := middleware.NewMutationLimit(limiters.Mutation)

	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(handler)
	}
	mutate := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(limitMw.Require(handler))
	}

	mux.HandleFunc("GET /api/health", h.Health.Health)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)

	// Users
	mux.Handle("GET /api/users/me", auth(h.Auth.Me))
	mux.Handle("GET /api/users/{userId}/posts", auth(h.Post.ListByAuthor))
	mux.Handle("GET /api/users/{userId}/followers", auth(h.Follow.ListFollowers))
	mux.Handle("POST /api/users/{userId}/follow", mutate(h.Follow.Follow))
	mux.Handle("DELETE /api/users/{userId}/follow", mutate(h.Follow.Unfollow))
	mux.Handle("POST /api/follows/bulk", mutate(h.Follow.BulkFollow))

	// Posts
	mux.Handle("POST /api/posts", auth(h.Post.Create))
	mux.Handle("GET /api/posts/{postId}", auth(h.Post.Get))
	mux.Handle("POST /api/posts/{postId}/admire", mutate(h.Admire.Admire))
	mux.Handle("DELETE /api/posts/{postId}/admire", mutate(h.Admire.Unadmire))
	mux.Handle("GET /api/posts/{postId}/admires", auth(h.Admire.List))
	mux.Handle("POST /api/posts/{postId}/comments", mutate(h.Comment.Create))
	mux.Handle("GET /api/posts/{postId}/comments", auth(h.Comment.List))

	// WebSocket, token query parametresiyle doğrulanır.
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)
}

package main

import (
	"database/sql"
	"time"

	"github.com/akinalp/gallery/config"
	"github.com/akinalp/gallery/pkg/cache"
	"github.com/akinalp/gallery/pkg/ratelimit"
	"github.com/akinalp/gallery/services"
	"github.com/akinalp/gallery/ws"
)

type Services struct {
	Auth    services.AuthService
	Post    services.PostService
	Admire  services.AdmireService
	Comment services.CommentService
	Follow  services.FollowService
}

// RateLimiters, rate limiter instance'ları. RateLimit.Enabled false ise
// ikisi de nil kalır ve handler / middleware sınırlamayı atlar.
type RateLimiters struct {
	Login    *ratelimit.LoginRateLimiter
	Mutation *ratelimit.MutationRateLimiter
}

// Stop, limiter'ların temizlik goroutine'lerini durdurur.
func (l *RateLimiters) Stop() {
	if l.Login != nil {
		l.Login.Stop()
	}
	if l.Mutation != nil {
		l.Mutation.Stop()
	}
}

// initServices, service'leri ve rate limiter'ları oluşturur. Dönen
// closer, service'lerin arka plan kaynaklarını (cache temizliği) kapatır.
//
// Sıra: PostService, admire ve yorum service'lerinden önce oluşturulur;
// ikisi de post varlık kontrolü için ona bağlıdır.
func initServices(db *sql.DB, repos *Repositories, hub ws.EventPublisher, cfg *config.Config) (*Services, *RateLimiters, func()) {
	knownPosts := cache.New[string, struct{}](5*time.Minute, time.Minute)

	postService := services.NewPostService(repos.Post, repos.User, knownPosts)

	svcs := &Services{
		Auth: services.NewAuthService(
			repos.User, repos.Follow,
			cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.BcryptCost,
		),
		Post:    postService,
		Admire:  services.NewAdmireService(repos.Admire, postService, hub),
		Comment: services.NewCommentService(repos.Comment, postService, hub),
		Follow:  services.NewFollowService(db, repos.Follow, repos.User, hub),
	}

	limiters := &RateLimiters{}
	if cfg.RateLimit.Enabled {
		limiters.Login = ratelimit.NewLoginRateLimiter(cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow)
		limiters.Mutation = ratelimit.NewMutationRateLimiter(
			cfg.RateLimit.MutationsPerWin, cfg.RateLimit.MutationWindow, cfg.RateLimit.MutationCooldown,
		)
	}

	return svcs, limiters, knownPosts.Close
}

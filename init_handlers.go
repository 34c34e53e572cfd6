package main

import (
	"database/sql"

	"github.com/akinalp/gallery/config"
	"github.com/akinalp/gallery/handlers"
	"github.com/akinalp/gallery/ws"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Post    *handlers.PostHandler
	Admire  *handlers.AdmireHandler
	Comment *handlers.CommentHandler
	Follow  *handlers.FollowHandler
	Health  *handlers.HealthHandler
	WS      *ws.Handler
}

// initHandlers, recorder nil olabilir (metrics kapalıyken).
func initHandlers(db *sql.DB, svcs *Services, limiters *RateLimiters, hub *ws.Hub, recorder handlers.MutationRecorder, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:    handlers.NewAuthHandler(svcs.Auth, limiters.Login),
		Post:    handlers.NewPostHandler(svcs.Post),
		Admire:  handlers.NewAdmireHandler(svcs.Admire, recorder),
		Comment: handlers.NewCommentHandler(svcs.Comment),
		Follow:  handlers.NewFollowHandler(svcs.Follow, recorder),
		Health:  handlers.NewHealthHandler(db, hub),
		WS:      ws.NewHandler(hub, svcs.Auth, svcs.Follow, cfg.Server.AllowedOrigins),
	}
}

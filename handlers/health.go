package handlers

import (
	"context"
	"net/http"

	"github.com/akinalp/gallery/pkg"
)

// Pinger, veritabanı erişilebilirliği (*sql.DB karşılar).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ConnectionCounter, bağlı WebSocket client sayısı (*ws.Hub karşılar).
type ConnectionCounter interface {
	Connections() int
}

type HealthResponse struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
}

// HealthHandler, auth gerektirmeyen canlılık kontrolü.
type HealthHandler struct {
	db  Pinger
	hub ConnectionCounter
}

func NewHealthHandler(db Pinger, hub ConnectionCounter) *HealthHandler {
	return &HealthHandler{db: db, hub: hub}
}

// Health godoc
// GET /api/health
// Veritabanı cevap vermiyorsa 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		pkg.ErrorWithMessage(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	pkg.JSON(w, http.StatusOK, HealthResponse{Status: "ok", Connections: h.hub.Connections()})
}

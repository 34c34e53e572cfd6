package ws

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/akinalp/gallery/models"
)

// TokenValidator, WebSocket handler'ın JWT doğrulaması için ihtiyaç duyduğu
// tek metod. services paketi ws.EventPublisher'ı kullandığı için ws'nin
// services'i import etmesi döngü oluştururdu; küçük bir interface yeterli.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
}

// FollowingLister, ready olayındaki takip listesini sağlar.
type FollowingLister interface {
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
}

// Handler, /ws endpoint'i.
type Handler struct {
	hub            *Hub
	tokenValidator TokenValidator
	following      FollowingLister
	upgrader       websocket.Upgrader
}

// NewHandler, allowedOrigins boşsa her origin'i kabul eder (CLI istemcileri
// Origin header'ı göndermez).
func NewHandler(hub *Hub, tokenValidator TokenValidator, following FollowingLister, allowedOrigins []string) *Handler {
	h := &Handler{
		hub:            hub,
		tokenValidator: tokenValidator,
		following:      following,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					return true
				}
			}
			return false
		},
	}
	return h
}

// HandleConnection, token'ı query parametresinden alır:
//
//	ws://server/ws?token=JWT_TOKEN
//
// Doğrulamadan sonra bağlantıyı yükseltir, client'ı Hub'a kaydeder ve
// ready olayını gönderir. ReadPump bağlantı kapanana kadar bloklar.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokenValidator.ValidateAccessToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	following, err := h.following.FollowingIDs(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("[ws] failed to load following for user %s: %v", claims.UserID, err)
		following = []string{}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for user %s: %v", claims.UserID, err)
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		userID: claims.UserID,
		send:   make(chan []byte, sendBufferSize),
	}

	// ready, kayıttan önce boş buffer'a konur; ilk yayın olayından önce gider.
	client.queue(Event{Op: OpReady, Data: ReadyData{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Following: following,
	}})

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump()
}

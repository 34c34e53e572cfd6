package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
)

// EventPublisher, service katmanının olay yayınlamak için bağımlı olduğu
// interface. Testlerde Hub yerine kayıt tutan bir fake verilir.
type EventPublisher interface {
	BroadcastToAll(event Event)
	BroadcastToUser(userID string, event Event)
}

// Hub, bağlı istemcileri kullanıcı bazında tutar.
//
// register / unregister kanalları Run goroutine'inde işlenir; broadcast
// yolları clients map'ini RLock altında okur.
type Hub struct {
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	seq atomic.Int64

	// onConnectionsChanged, toplam bağlantı sayısı değişince çağrılır
	// (ServerMetrics.SetOnlineClients).
	onConnectionsChanged func(n int)
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// OnConnectionsChanged, bağlantı sayısı callback'ini ayarlar. Run'dan önce çağrılmalı.
func (h *Hub) OnConnectionsChanged(fn func(n int)) {
	h.onConnectionsChanged = fn
}

// Run, Hub'ın event loop'u. main'de `go hub.Run()` ile başlatılır,
// Shutdown ile sonlanır.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true
	n := h.countLocked()
	h.mu.Unlock()

	log.Printf("[ws] client connected: user=%s (connections=%d)", client.userID, n)
	h.connectionsChanged(n)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	clients, ok := h.clients[client.userID]
	if !ok || !clients[client] {
		h.mu.Unlock()
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}
	n := h.countLocked()
	h.mu.Unlock()

	log.Printf("[ws] client disconnected: user=%s (connections=%d)", client.userID, n)
	h.connectionsChanged(n)
}

func (h *Hub) connectionsChanged(n int) {
	if h.onConnectionsChanged != nil {
		h.onConnectionsChanged(n)
	}
}

func (h *Hub) countLocked() int {
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

// Connections, bağlı toplam client sayısı.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.countLocked()
}

func (h *Hub) encode(event Event) ([]byte, bool) {
	event.Seq = h.seq.Add(1)
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal %s event: %v", event.Op, err)
		return nil, false
	}
	return data, true
}

// deliver, mesajı client'ın buffer'ına koyar. Buffer doluysa client
// yavaştır ve ayrı goroutine'de unregister edilir.
func (h *Hub) deliver(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		go func() {
			select {
			case h.unregister <- c:
			case <-h.done:
			}
		}()
	}
}

// BroadcastToAll, olayı tüm bağlı client'lara gönderir.
func (h *Hub) BroadcastToAll(event Event) {
	data, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for c := range clients {
			h.deliver(c, data)
		}
	}
}

// BroadcastToUser, olayı kullanıcının tüm bağlantılarına gönderir.
func (h *Hub) BroadcastToUser(userID string, event Event) {
	data, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		h.deliver(c, data)
	}
}

// Shutdown, tüm bağlantıları kapatır ve Run'ı sonlandırır.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	for _, clients := range h.clients {
		for c := range clients {
			close(c.send)
		}
	}
	h.clients = make(map[string]map[*Client]bool)
	h.mu.Unlock()

	close(h.done)
	h.connectionsChanged(0)
	log.Println("[ws] hub shut down, all connections closed")
}

package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	// pongWait: 3 heartbeat kaçırma = 30s × 3. Bu sürede heartbeat gelmezse
	// bağlantı kopmuş sayılır.
	pongWait = 90 * time.Second

	// İstemci yalnızca heartbeat gönderir; mutation'lar HTTP ile yapılır.
	maxMessageSize = 1024

	sendBufferSize = 256
)

// Client, tek bir WebSocket bağlantısı.
//
// Her bağlantı için iki goroutine çalışır: ReadPump gelen heartbeat'leri
// okur, WritePump Hub'ın send kanalına koyduğu olayları yazar.
// gorilla/websocket aynı anda tek okuyucu ve tek yazıcı destekler.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
	mu     sync.Mutex // conn yazmalarını korur
}

// ReadPump, bağlantı kapanana kadar bloklar; çıkarken client'ı Hub'dan düşürür.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[ws] failed to set read deadline for user %s: %v", c.userID, err)
		return
	}

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] unexpected close for user %s: %v", c.userID, err)
			}
			return
		}

		var event RawEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			log.Printf("[ws] invalid message from user %s: %v", c.userID, err)
			continue
		}

		switch event.Op {
		case OpHeartbeat:
			if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
				return
			}
			c.sendEvent(Event{Op: OpHeartbeatAck})
		default:
			log.Printf("[ws] unknown op from user %s: %s", c.userID, event.Op)
		}
	}
}

// sendEvent, yalnızca bu client'a gider; seq artmaz.
func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event for user %s: %v", c.userID, err)
		return
	}
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if !c.hub.clients[c.userID][c] {
		return
	}
	c.hub.deliver(c, data)
}

// queue, henüz Hub'a kaydedilmemiş client'ın buffer'ına yazar.
func (c *Client) queue(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event for user %s: %v", c.userID, err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// WritePump, send kanalı kapanana kadar olayları bağlantıya yazar.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.writeMessage(websocket.CloseMessage, nil)
}

func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

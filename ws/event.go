// Package ws, gerçek zamanlı olay dağıtımını sağlar.
//
// Server'da bir admire / follow / yorum değişikliği kalıcı hale geldikten
// sonra service katmanı Hub üzerinden ilgili olayı yayınlar. Bağlı istemciler
// (galleryctl watch gibi) bu olaylarla kendi store'larını güncel tutar.
//
//   - Hub: bağlantıları kullanıcı bazında tutar, olayları dağıtır
//   - Client: tek bir WebSocket bağlantısı (read + write pump)
//   - Event: {op, d, seq} zarfı
package ws

import (
	"encoding/json"
	"fmt"

	"github.com/akinalp/gallery/models"
)

// Event, WebSocket üzerinden taşınan zarf.
// Seq her giden olayda artar; istemci boşluk görürse olay kaçırmış demektir.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server
const (
	OpHeartbeat = "heartbeat"
)

// Server → Client
const (
	OpReady         = "ready"
	OpHeartbeatAck  = "heartbeat_ack"
	OpAdmireCreate  = "admire_create"
	OpAdmireDelete  = "admire_delete"
	OpCommentCreate = "comment_create"
	OpFollowCreate  = "follow_create"
	OpFollowDelete  = "follow_delete"
)

// ReadyData, bağlantı kurulunca ilk gönderilen olayın gövdesi.
type ReadyData struct {
	UserID    string   `json:"user_id"`
	Username  string   `json:"username"`
	Following []string `json:"following"`
}

// RawEvent, istemci tarafında okunan zarf; gövde op'a göre ayrıca çözülür.
type RawEvent struct {
	Op   string          `json:"op"`
	Data json.RawMessage `json:"d,omitempty"`
	Seq  int64           `json:"seq,omitempty"`
}

// Decode, gövdeyi op'un taşıdığı tipe çözer:
// admire_* → models.Admire, follow_* → models.Follow,
// comment_create → models.Comment, ready → ReadyData.
func (e RawEvent) Decode() (any, error) {
	var target any
	switch e.Op {
	case OpAdmireCreate, OpAdmireDelete:
		target = &models.Admire{}
	case OpFollowCreate, OpFollowDelete:
		target = &models.Follow{}
	case OpCommentCreate:
		target = &models.Comment{}
	case OpReady:
		target = &ReadyData{}
	case OpHeartbeatAck:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown op %q", e.Op)
	}
	if err := json.Unmarshal(e.Data, target); err != nil {
		return nil, fmt.Errorf("decode %s: %w", e.Op, err)
	}
	return target, nil
}

package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/gorilla/websocket"

	"github.com/akinalp/gallery/models"
)

type fakeValidator struct{}

func (fakeValidator) ValidateAccessToken(token string) (*models.TokenClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &models.TokenClaims{UserID: "u1", Username: "ada"}, nil
}

type fakeFollowing struct{}

func (fakeFollowing) FollowingIDs(_ context.Context, _ string) ([]string, error) {
	return []string{"u2"}, nil
}

func startServer(t *testing.T) (*Hub, string, *atomic.Int64) {
	t.Helper()
	hub := NewHub()
	var connections atomic.Int64
	hub.OnConnectionsChanged(func(n int) { connections.Store(int64(n)) })
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, fakeValidator{}, fakeFollowing{}, nil).HandleConnection))
	t.Cleanup(func() {
		srv.Close()
		hub.Shutdown()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http"), &connections
}

func readEvent(t *testing.T, conn *websocket.Conn) RawEvent {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev RawEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return ev
}

func TestRejectsMissingOrBadToken(t *testing.T) {
	_, url, _ := startServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NotEqual(t, nil, err)
	assert.Equal(t, 401, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=nope", nil)
	assert.NotEqual(t, nil, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestReadyThenBroadcast(t *testing.T) {
	hub, url, connections := startServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token=good", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	ready := readEvent(t, conn)
	assert.Equal(t, OpReady, ready.Op)
	decoded, err := ready.Decode()
	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"u2"}, decoded.(*ReadyData).Following)

	waitConnected(t, hub)
	assert.Equal(t, 1, hub.Connections())
	assert.Equal(t, int64(1), connections.Load())

	hub.BroadcastToUser("u1", Event{Op: OpAdmireCreate, Data: models.Admire{ID: "a1", PostID: "p1", UserID: "u1"}})
	ev := readEvent(t, conn)
	assert.Equal(t, OpAdmireCreate, ev.Op)
	assert.Equal(t, true, ev.Seq > 0)
	admire, err := ev.Decode()
	assert.Equal(t, nil, err)
	assert.Equal(t, "a1", admire.(*models.Admire).ID)
}

func waitConnected(t *testing.T, hub *Hub) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Connections() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHeartbeatAck(t *testing.T) {
	hub, url, _ := startServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token=good", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = readEvent(t, conn) // ready
	waitConnected(t, hub)

	msg, _ := json.Marshal(Event{Op: OpHeartbeat})
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		t.Fatalf("write: %v", err)
	}
	ev := readEvent(t, conn)
	assert.Equal(t, OpHeartbeatAck, ev.Op)
}

func TestDecodeUnknownOp(t *testing.T) {
	_, err := RawEvent{Op: "typing_start"}.Decode()
	assert.NotEqual(t, nil, err)
}

package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/remote"
	"github.com/akinalp/gallery/store"
	"github.com/akinalp/gallery/updaters"
	"github.com/akinalp/gallery/ws"
)

// heartbeatInterval, server'ın pongWait süresinin (90s) rahatça altında kalır.
const heartbeatInterval = 30 * time.Second

func watchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream realtime admire, comment and follow events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := opts.open(ctx, cmd.OutOrStdout(), false)
			if err != nil {
				return err
			}
			defer s.finish()
			return s.watch(ctx)
		},
	}
}

// wsURL, http(s) taban adresini /ws endpoint'ine çevirir.
func wsURL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	u.RawQuery = url.Values{"token": {token}}.Encode()
	return u.String(), nil
}

// watch, ctx iptal edilene veya bağlantı kapanana kadar event'leri okur,
// store'a uygular ve yazdırır.
func (s *session) watch(ctx context.Context) error {
	if s.opts.token == "" {
		return fmt.Errorf("not logged in: run `galleryctl login` and set GALLERY_TOKEN")
	}
	target, err := wsURL(s.opts.server, s.opts.token)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	}()
	go heartbeat(ctx, conn)

	for {
		var raw ws.RawEvent
		if err := conn.ReadJSON(&raw); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		s.apply(raw)
	}
}

// heartbeat, bağlantının server tarafında zaman aşımına uğramasını önler.
// Ack'ler okuma döngüsünde sessizce atlanır.
func heartbeat(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteJSON(ws.Event{Op: ws.OpHeartbeat}); err != nil {
				return
			}
		}
	}
}

// apply, bir server event'ini executor üzerinden store'a işler. Server kanonik
// kaydı gönderdiği için upsert/delete idempotenttir; kendi optimistic
// aksiyonlarımızla çakışmaz.
func (s *session) apply(raw ws.RawEvent) {
	data, err := raw.Decode()
	if err != nil {
		fmt.Fprintf(s.out, "#%d %v\n", raw.Seq, err)
		return
	}

	var line string
	switch v := data.(type) {
	case *ws.ReadyData:
		s.exec.SeedUser(store.User{ID: v.UserID, Username: v.Username}, v.Following)
		line = fmt.Sprintf("connected as %s, following %d", v.Username, len(v.Following))
	case *models.Admire:
		deleted := raw.Op == ws.OpAdmireDelete
		s.exec.ApplyCanonical(updaters.Canonical{Entity: remote.AdmireEntity(*v), Deleted: deleted, ActorName: v.Username})
		if deleted {
			line = fmt.Sprintf("%s took back their admire on %s", v.Username, v.PostID)
		} else {
			line = fmt.Sprintf("%s admired %s", v.Username, v.PostID)
		}
	case *models.Comment:
		s.exec.ApplyCanonical(updaters.Canonical{Entity: remote.CommentEntity(*v), ActorName: v.Username})
		line = fmt.Sprintf("%s commented on %s: %s", v.Username, v.PostID, v.Body)
	case *models.Follow:
		deleted := raw.Op == ws.OpFollowDelete
		s.exec.ApplyCanonical(updaters.Canonical{Entity: remote.FollowEntity(*v), Deleted: deleted, ActorName: v.Username})
		if deleted {
			line = fmt.Sprintf("%s unfollowed %s", v.Username, v.FolloweeID)
		} else {
			line = fmt.Sprintf("%s followed %s", v.Username, v.FolloweeID)
		}
	}
	if line != "" {
		fmt.Fprintf(s.out, "#%d %s\n", raw.Seq, line)
	}
}

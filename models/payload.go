package models

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Mutation yanıtlarının __typename discriminant'ları.
//
// Her mutation tam olarak bir varyant döner: başarı payload'ı ya da isimli
// bir "beklenen çakışma" varyantı. Client sınıflandırmayı HTTP status'a göre
// değil, bu alana göre yapar.
const (
	TypenameAdmirePost       = "AdmirePostPayload"
	TypenameAdmireExists     = "ErrAdmireAlreadyExists"
	TypenameUnadmirePost     = "UnadmirePostPayload"
	TypenameAdmireNotFound   = "ErrAdmireNotFound"
	TypenameFollowUser       = "FollowUserPayload"
	TypenameAlreadyFollowing = "ErrAlreadyFollowing"
	TypenameUnfollowUser     = "UnfollowUserPayload"
	TypenameNotFollowing     = "ErrNotFollowing"
	TypenameFollowUsers      = "FollowUsersPayload"
)

// MutationPayload, tüm mutation yanıtlarının ortak zarfı.
// Hangi alanın dolu olduğu Typename'e bağlıdır.
type MutationPayload struct {
	Typename string   `json:"__typename"`
	Admire   *Admire  `json:"admire,omitempty"`
	Follow   *Follow  `json:"follow,omitempty"`
	Follows  []Follow `json:"follows,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// PageInfo, cursor bazlı pagination meta bilgisi.
// Total koleksiyonun gerçek büyüklüğüdür; dönen edge sayısından bağımsızdır.
type PageInfo struct {
	Total           int    `json:"total"`
	StartCursor     string `json:"start_cursor"`
	HasPreviousPage bool   `json:"has_previous_page"`
}

// Connection, bir koleksiyonun sayfası. Edges kronolojik (en eski → en yeni) sıradadır.
type Connection[T any] struct {
	Edges    []T      `json:"edges"`
	PageInfo PageInfo `json:"page_info"`
}

// Cursor, bir edge'in (created_at, id) sıralama anahtarı.
// Wire'da opak bir base64 string olarak taşınır.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// Encode, cursor'ı opak string'e çevirir.
func (c Cursor) Encode() string {
	raw := strconv.FormatInt(c.CreatedAt.UnixNano(), 10) + ":" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor, Encode'un tersidir.
func DecodeCursor(s string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid cursor: %w", err)
	}
	nanos, id, ok := strings.Cut(string(raw), ":")
	if !ok || id == "" {
		return Cursor{}, fmt.Errorf("invalid cursor")
	}
	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid cursor: %w", err)
	}
	return Cursor{CreatedAt: time.Unix(0, n).UTC(), ID: id}, nil
}

// PageRequest, liste endpoint'lerinin sorgu parametreleri.
type PageRequest struct {
	Limit  int
	Before *Cursor
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePageRequest, ?limit=&before= parametrelerini doğrular.
func ParsePageRequest(limit, before string) (PageRequest, error) {
	req := PageRequest{Limit: DefaultPageSize}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			return req, fmt.Errorf("limit must be a positive integer")
		}
		req.Limit = min(n, MaxPageSize)
	}
	if before != "" {
		c, err := DecodeCursor(before)
		if err != nil {
			return req, err
		}
		req.Before = &c
	}
	return req, nil
}

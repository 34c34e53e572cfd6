package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Admire, bir kullanıcının bir post'u beğenmesi.
// UNIQUE(post_id, user_id), bir kullanıcı bir post'u yalnızca bir kez admire edebilir.
type Admire struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment, bir post'a yazılan yorum.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest, yorum payload'ı.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

func (r *CreateCommentRequest) Validate() error {
	r.Body = strings.TrimSpace(r.Body)
	n := utf8.RuneCountInString(r.Body)
	if n == 0 {
		return fmt.Errorf("comment body is required")
	}
	if n > 1000 {
		return fmt.Errorf("comment must be at most 1000 characters")
	}
	return nil
}

// Follow, bir kullanıcının başka bir kullanıcıyı takip etmesi.
// FollowerID takip eden, FolloweeID takip edilen taraftır.
// UNIQUE(follower_id, followee_id) ve follower_id != followee_id.
type Follow struct {
	ID         string    `json:"id"`
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	Username   string    `json:"username"` // takip edenin kullanıcı adı
	CreatedAt  time.Time `json:"created_at"`
}

// BulkFollowRequest, tek istekte birden fazla kullanıcıyı takip etme payload'ı.
type BulkFollowRequest struct {
	UserIDs []string `json:"user_ids"`
}

// MaxBulkFollow, tek bir bulk follow isteğindeki hedef sınırı.
const MaxBulkFollow = 100

func (r *BulkFollowRequest) Validate() error {
	if len(r.UserIDs) == 0 {
		return fmt.Errorf("user_ids is required")
	}
	if len(r.UserIDs) > MaxBulkFollow {
		return fmt.Errorf("at most %d users can be followed at once", MaxBulkFollow)
	}
	for _, id := range r.UserIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("user_ids must not contain empty values")
		}
	}
	return nil
}

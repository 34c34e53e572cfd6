package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Post, admire ve yorum alabilen bir gönderi (fotoğraf, feed event).
// AdmireCount ve CommentCount sorgu anında hesaplanır, tabloda tutulmaz.
type Post struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Caption      string    `json:"caption"`
	CreatedAt    time.Time `json:"created_at"`
	AdmireCount  int       `json:"admire_count"`
	CommentCount int       `json:"comment_count"`

	// ViewerAdmire, isteği yapan kullanıcının bu post'taki admire'ı (yoksa nil).
	ViewerAdmire *Admire `json:"viewer_admire,omitempty"`
}

// CreatePostRequest, gönderi oluşturma payload'ı.
type CreatePostRequest struct {
	Caption string `json:"caption"`
}

func (r *CreatePostRequest) Validate() error {
	r.Caption = strings.TrimSpace(r.Caption)
	if utf8.RuneCountInString(r.Caption) > 2000 {
		return fmt.Errorf("caption must be at most 2000 characters")
	}
	return nil
}

package repository

import (
	"context"

	"github.com/akinalp/gallery/models"
)

// PostRepository, gönderi kayıtları.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID, gönderiyi admire / yorum sayılarıyla döner. viewerID boş değilse
	// izleyicinin admire kaydı ViewerAdmire'a yüklenir.
	GetByID(ctx context.Context, id, viewerID string) (*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string, req models.PageRequest) (Page[models.Post], error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
}

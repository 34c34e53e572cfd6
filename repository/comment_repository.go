package repository

import (
	"context"

	"github.com/akinalp/gallery/models"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID string, req models.PageRequest) (Page[models.Comment], error)
	CountByPost(ctx context.Context, postID string) (int, error)
}

package repository

import (
	"context"

	"github.com/akinalp/gallery/models"
)

// AdmireRepository, (post, user) çifti başına tek admire kaydı.
type AdmireRepository interface {
	// Create, çift zaten varsa pkg.ErrAlreadyExists döner.
	Create(ctx context.Context, admire *models.Admire) error
	GetByPair(ctx context.Context, postID, userID string) (*models.Admire, error)
	// DeleteByPair, silinen kaydı döner; kayıt yoksa pkg.ErrNotFound.
	DeleteByPair(ctx context.Context, postID, userID string) (*models.Admire, error)
	ListByPost(ctx context.Context, postID string, req models.PageRequest) (Page[models.Admire], error)
	CountByPost(ctx context.Context, postID string) (int, error)
}

package repository

import (
	"context"

	"github.com/akinalp/gallery/models"
)

// FollowRepository, yönlü takip kenarları (follower → followee).
type FollowRepository interface {
	// Create, kenar zaten varsa pkg.ErrAlreadyExists döner.
	Create(ctx context.Context, follow *models.Follow) error
	GetByPair(ctx context.Context, followerID, followeeID string) (*models.Follow, error)
	DeleteByPair(ctx context.Context, followerID, followeeID string) (*models.Follow, error)
	// ListFollowers, followee'yi takip edenlerin kenarları.
	ListFollowers(ctx context.Context, followeeID string, req models.PageRequest) (Page[models.Follow], error)
	CountFollowers(ctx context.Context, followeeID string) (int, error)
	// FollowingIDs, followerID'nin takip ettiği kullanıcı id'leri.
	FollowingIDs(ctx context.Context, followerID string) ([]string, error)
}

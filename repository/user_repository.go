package repository

import (
	"context"

	"github.com/akinalp/gallery/models"
)

// UserRepository, kullanıcı kayıtları ve profil sayaçları.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetProfile, kullanıcıyı takipçi / takip sayılarıyla döner.
	GetProfile(ctx context.Context, id string) (*models.UserProfile, error)
}

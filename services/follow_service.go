package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akinalp/gallery/database"
	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
	"github.com/akinalp/gallery/repository"
	"github.com/akinalp/gallery/ws"
)

// FollowService, takip mutation'ları ve takipçi listesi.
type FollowService interface {
	Follow(ctx context.Context, followerID, followeeID string) (*models.MutationPayload, error)
	Unfollow(ctx context.Context, followerID, followeeID string) (*models.MutationPayload, error)
	// BulkFollow, hedeflerin hepsini tek transaction'da takip eder. Zaten
	// takip edilen hedefler de yanıtta yer alır; herhangi bir hedef
	// geçersizse hiçbir kenar yazılmaz.
	BulkFollow(ctx context.Context, followerID string, req *models.BulkFollowRequest) (*models.MutationPayload, error)
	ListFollowers(ctx context.Context, userID string, req models.PageRequest) (*models.Connection[models.Follow], error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
}

type followService struct {
	db         *sql.DB
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	hub        ws.EventPublisher
}

func NewFollowService(db *sql.DB, followRepo repository.FollowRepository, userRepo repository.UserRepository, hub ws.EventPublisher) FollowService {
	return &followService{db: db, followRepo: followRepo, userRepo: userRepo, hub: hub}
}

func (s *followService) Follow(ctx context.Context, followerID, followeeID string) (*models.MutationPayload, error) {
	follow := &models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	err := s.followRepo.Create(ctx, follow)
	if errors.Is(err, pkg.ErrAlreadyExists) {
		return &models.MutationPayload{
			Typename: models.TypenameAlreadyFollowing,
			Message:  "already following this user",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	s.publish(ws.OpFollowCreate, follow)
	return &models.MutationPayload{Typename: models.TypenameFollowUser, Follow: follow}, nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followeeID string) (*models.MutationPayload, error) {
	notFollowing := &models.MutationPayload{
		Typename: models.TypenameNotFollowing,
		Message:  "not following this user",
	}

	follow, err := s.followRepo.GetByPair(ctx, followerID, followeeID)
	if errors.Is(err, pkg.ErrNotFound) {
		return notFollowing, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.followRepo.DeleteByPair(ctx, followerID, followeeID); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return notFollowing, nil
		}
		return nil, err
	}

	s.publish(ws.OpFollowDelete, follow)
	return &models.MutationPayload{Typename: models.TypenameUnfollowUser, Follow: follow}, nil
}

func (s *followService) BulkFollow(ctx context.Context, followerID string, req *models.BulkFollowRequest) (*models.MutationPayload, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	targets := dedupe(req.UserIDs)
	follows := make([]models.Follow, 0, len(targets))
	var created []*models.Follow

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := repository.NewSQLiteFollowRepo(tx)
		for _, target := range targets {
			follow := &models.Follow{FollowerID: followerID, FolloweeID: target}
			err := repo.Create(ctx, follow)
			switch {
			case errors.Is(err, pkg.ErrAlreadyExists):
				existing, getErr := repo.GetByPair(ctx, followerID, target)
				if getErr != nil {
					return getErr
				}
				follows = append(follows, *existing)
			case err != nil:
				return fmt.Errorf("follow %s: %w", target, err)
			default:
				follows = append(follows, *follow)
				created = append(created, follow)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Olaylar commit'ten sonra yayınlanır; geri alınan kenar duyurulmaz.
	for _, f := range created {
		s.publish(ws.OpFollowCreate, f)
	}
	return &models.MutationPayload{Typename: models.TypenameFollowUsers, Follows: follows}, nil
}

func (s *followService) ListFollowers(ctx context.Context, userID string, req models.PageRequest) (*models.Connection[models.Follow], error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	page, err := s.followRepo.ListFollowers(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	total, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toConnection(page, total, func(f models.Follow) models.Cursor {
		return models.Cursor{CreatedAt: f.CreatedAt, ID: f.ID}
	}), nil
}

func (s *followService) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.followRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// publish, kenarın iki ucuna da olayı gönderir.
func (s *followService) publish(op string, follow *models.Follow) {
	s.hub.BroadcastToUser(follow.FollowerID, ws.Event{Op: op, Data: follow})
	s.hub.BroadcastToUser(follow.FolloweeID, ws.Event{Op: op, Data: follow})
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

package services

import (
	"context"
	"fmt"

	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
	"github.com/akinalp/gallery/pkg/cache"
	"github.com/akinalp/gallery/repository"
)

type PostService interface {
	Create(ctx context.Context, authorID string, req *models.CreatePostRequest) (*models.Post, error)
	// Get, viewerID'nin admire kaydını da yükler.
	Get(ctx context.Context, id, viewerID string) (*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string, req models.PageRequest) (*models.Connection[models.Post], error)
	// Exists, post yoksa pkg.ErrNotFound döner.
	Exists(ctx context.Context, id string) error
}

type postService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	// known, var olduğu doğrulanmış post id'leri. Post silme işlemi
	// olmadığı için yalnızca pozitif sonuçlar cache'lenir.
	known *cache.TTLCache[string, struct{}]
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, known *cache.TTLCache[string, struct{}]) PostService {
	return &postService{postRepo: postRepo, userRepo: userRepo, known: known}
}

func (s *postService) Create(ctx context.Context, authorID string, req *models.CreatePostRequest) (*models.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	post := &models.Post{AuthorID: authorID, Caption: req.Caption}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.known.Set(post.ID, struct{}{})
	return post, nil
}

func (s *postService) Get(ctx context.Context, id, viewerID string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	s.known.Set(post.ID, struct{}{})
	return post, nil
}

func (s *postService) ListByAuthor(ctx context.Context, authorID string, req models.PageRequest) (*models.Connection[models.Post], error) {
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, err
	}
	page, err := s.postRepo.ListByAuthor(ctx, authorID, req)
	if err != nil {
		return nil, err
	}
	total, err := s.postRepo.CountByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return toConnection(page, total, func(p models.Post) models.Cursor {
		return models.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	}), nil
}

func (s *postService) Exists(ctx context.Context, id string) error {
	_, err := s.known.GetOrLoad(id, func() (struct{}, error) {
		_, err := s.postRepo.GetByID(ctx, id, "")
		return struct{}{}, err
	})
	return err
}

// toConnection, repository sayfasını wire'daki Connection şekline çevirir.
// StartCursor sayfanın en eski edge'idir; bir sonraki "daha eski" isteği
// buradan devam eder.
func toConnection[T any](page repository.Page[T], total int, cursorOf func(T) models.Cursor) *models.Connection[T] {
	conn := &models.Connection[T]{
		Edges: page.Items,
		PageInfo: models.PageInfo{
			Total:           total,
			HasPreviousPage: page.HasOlder,
		},
	}
	if conn.Edges == nil {
		conn.Edges = []T{}
	}
	if len(conn.Edges) > 0 {
		conn.PageInfo.StartCursor = cursorOf(conn.Edges[0]).Encode()
	}
	return conn
}

package services

import (
	"context"
	"fmt"

	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
	"github.com/akinalp/gallery/repository"
	"github.com/akinalp/gallery/ws"
)

type CommentService interface {
	Create(ctx context.Context, postID, userID string, req *models.CreateCommentRequest) (*models.Comment, error)
	List(ctx context.Context, postID string, req models.PageRequest) (*models.Connection[models.Comment], error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	posts       PostService
	hub         ws.EventPublisher
}

func NewCommentService(commentRepo repository.CommentRepository, posts PostService, hub ws.EventPublisher) CommentService {
	return &commentService{commentRepo: commentRepo, posts: posts, hub: hub}
}

func (s *commentService) Create(ctx context.Context, postID, userID string, req *models.CreateCommentRequest) (*models.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	comment := &models.Comment{PostID: postID, UserID: userID, Body: req.Body}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.hub.BroadcastToAll(ws.Event{Op: ws.OpCommentCreate, Data: comment})
	return comment, nil
}

func (s *commentService) List(ctx context.Context, postID string, req models.PageRequest) (*models.Connection[models.Comment], error) {
	if err := s.posts.Exists(ctx, postID); err != nil {
		return nil, err
	}
	page, err := s.commentRepo.ListByPost(ctx, postID, req)
	if err != nil {
		return nil, err
	}
	total, err := s.commentRepo.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return toConnection(page, total, func(c models.Comment) models.Cursor {
		return models.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	}), nil
}

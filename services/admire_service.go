package services

import (
	"context"
	"errors"

	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
	"github.com/akinalp/gallery/repository"
	"github.com/akinalp/gallery/ws"
)

// AdmireService, admire / unadmire mutation'ları ve admirer listesi.
//
// Mutation'lar beklenen çakışmaları hata olarak değil isimli bir varyant
// olarak döner (ErrAdmireAlreadyExists, ErrAdmireNotFound); handler bunları
// 200 ile yazar. Gerçek hatalar (post yok, DB hatası) error olarak kalır.
type AdmireService interface {
	Admire(ctx context.Context, postID, userID string) (*models.MutationPayload, error)
	Unadmire(ctx context.Context, postID, userID string) (*models.MutationPayload, error)
	List(ctx context.Context, postID string, req models.PageRequest) (*models.Connection[models.Admire], error)
}

type admireService struct {
	admireRepo repository.AdmireRepository
	posts      PostService
	hub        ws.EventPublisher
}

func NewAdmireService(admireRepo repository.AdmireRepository, posts PostService, hub ws.EventPublisher) AdmireService {
	return &admireService{admireRepo: admireRepo, posts: posts, hub: hub}
}

func (s *admireService) Admire(ctx context.Context, postID, userID string) (*models.MutationPayload, error) {
	admire := &models.Admire{PostID: postID, UserID: userID}
	err := s.admireRepo.Create(ctx, admire)
	if errors.Is(err, pkg.ErrAlreadyExists) {
		return &models.MutationPayload{
			Typename: models.TypenameAdmireExists,
			Message:  "post already admired",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToAll(ws.Event{Op: ws.OpAdmireCreate, Data: admire})
	return &models.MutationPayload{Typename: models.TypenameAdmirePost, Admire: admire}, nil
}

func (s *admireService) Unadmire(ctx context.Context, postID, userID string) (*models.MutationPayload, error) {
	notFound := &models.MutationPayload{
		Typename: models.TypenameAdmireNotFound,
		Message:  "post is not admired",
	}

	// Yanıttaki kullanıcı adı için önce kaydı oku; silme RETURNING'i join yapamaz.
	admire, err := s.admireRepo.GetByPair(ctx, postID, userID)
	if errors.Is(err, pkg.ErrNotFound) {
		return notFound, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.admireRepo.DeleteByPair(ctx, postID, userID); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return notFound, nil
		}
		return nil, err
	}

	s.hub.BroadcastToAll(ws.Event{Op: ws.OpAdmireDelete, Data: admire})
	return &models.MutationPayload{Typename: models.TypenameUnadmirePost, Admire: admire}, nil
}

func (s *admireService) List(ctx context.Context, postID string, req models.PageRequest) (*models.Connection[models.Admire], error) {
	if err := s.posts.Exists(ctx, postID); err != nil {
		return nil, err
	}
	page, err := s.admireRepo.ListByPost(ctx, postID, req)
	if err != nil {
		return nil, err
	}
	total, err := s.admireRepo.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return toConnection(page, total, func(a models.Admire) models.Cursor {
		return models.Cursor{CreatedAt: a.CreatedAt, ID: a.ID}
	}), nil
}

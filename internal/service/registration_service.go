package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
	"github.com/Abepena/nj-stars-sub000/internal/repository"
)

// RegistrationService handles registration submissions. Failure is surfaced
// to the caller; this engine never retries on its own.
type RegistrationService interface {
	Register(ctx context.Context, userID string, req *domain.RegistrationDTO) (*domain.Registration, error)
}

type registrationService struct {
	repo   repository.RegistrationRepository
	events repository.EventRepository
}

func NewRegistrationService(repo repository.RegistrationRepository, events repository.EventRepository) RegistrationService {
	return &registrationService{repo: repo, events: events}
}

func (s *registrationService) Register(ctx context.Context, userID string, req *domain.RegistrationDTO) (*domain.Registration, error) {
	if userID == "" {
		return nil, domain.ErrValidation("a viewer session is required to register")
	}
	if req == nil {
		return nil, domain.ErrValidation("missing registration payload")
	}
	if err := domain.Validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	reg := &domain.Registration{
		ID:        uuid.New().String(),
		EventID:   req.EventID,
		UserID:    userID,
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, reg); err != nil {
		return nil, err
	}

	// A registration changes spot counts; the cached snapshot is stale now.
	if inv, ok := s.events.(interface{ Invalidate(context.Context) }); ok {
		inv.Invalidate(ctx)
	}
	return reg, nil
}

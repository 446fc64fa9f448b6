package schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

type Service struct {
	repo     repository.ScheduleRepository
	userRepo repository.UserRepository
}

func NewService(repo repository.ScheduleRepository, userRepo repository.UserRepository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

func (s *Service) CreateSlot(ctx context.Context, slot *model.ScheduleSlot) (*model.ScheduleSlot, error) {
	if _, err := s.userRepo.Get(ctx, slot.UserID); err != nil {
		return nil, err
	}
	if !slot.EndsAt.After(slot.StartsAt) {
		return nil, apperrors.Validation("slot must end after it starts", nil)
	}

	slot.ID = uuid.New()
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, slot.ID)
}

func (s *Service) GetSlot(ctx context.Context, id uuid.UUID) (*model.ScheduleSlot, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateSlot(ctx context.Context, slot *model.ScheduleSlot) (*model.ScheduleSlot, error) {
	if !slot.EndsAt.After(slot.StartsAt) {
		return nil, apperrors.Validation("slot must end after it starts", nil)
	}
	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, slot.ID)
}

func (s *Service) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListSlots(ctx context.Context, filter *model.ScheduleFilter) ([]*model.ScheduleSlot, error) {
	return s.repo.List(ctx, filter)
}

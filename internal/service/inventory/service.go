package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
)

type Service struct {
	repo repository.InventoryRepository
}

func NewService(repo repository.InventoryRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateItem(ctx context.Context, item *model.InventoryItem) (*model.InventoryItem, error) {
	item.ID = uuid.New()
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateItem(ctx context.Context, item *model.InventoryItem) (*model.InventoryItem, error) {
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, item.ID)
}

func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListItems(ctx context.Context, filter *model.ListFilter) ([]*model.InventoryItem, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	// status filtering happens here because the status is computed, not stored
	if filter != nil && filter.Status != "" {
		filtered := items[:0]
		for _, item := range items {
			if string(item.Status) == filter.Status {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	return items, nil
}

package staff

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
	"github.com/brightsmile/clinic-api/pkg/security"
)

// Service manages staff accounts. Role is set once at creation and never
// changes; deactivation is the supported way to retire an account.
type Service struct {
	repo   repository.UserRepository
	hasher security.PasswordHasher
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

func (s *Service) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if !req.Role.Valid() {
		return nil, apperrors.Validation("unknown role", fmt.Errorf("role %q", req.Role))
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("invalid password", err)
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, user.ID)
}

// DeleteUser hard-deletes the account. Appointments and treatments keep
// their dentist_id, a carried-over integrity gap; prefer deactivation.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, filter *model.ListFilter) ([]*model.User, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) ListDentists(ctx context.Context) ([]*model.User, error) {
	return s.repo.ListDentists(ctx)
}

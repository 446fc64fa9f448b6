package treatment

import (
	"context"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

type Service struct {
	repo repository.TreatmentRepository
}

func NewService(repo repository.TreatmentRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateTreatment(ctx context.Context, treatment *model.Treatment, medicines []*model.Medicine) (*model.Treatment, error) {
	treatment.ID = uuid.New()
	for _, m := range medicines {
		m.ID = uuid.New()
	}
	if err := s.repo.Create(ctx, treatment, medicines); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, treatment.ID)
}

func (s *Service) GetTreatment(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Treatment, error) {
	treatment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == model.RoleDentist && treatment.DentistID != actor.ID {
		return nil, apperrors.NotFound("treatment", nil)
	}
	return treatment, nil
}

func (s *Service) UpdateTreatment(ctx context.Context, actor *model.User, treatment *model.Treatment) (*model.Treatment, error) {
	current, err := s.repo.Get(ctx, treatment.ID)
	if err != nil {
		return nil, err
	}
	if actor.Role == model.RoleDentist && current.DentistID != actor.ID {
		return nil, apperrors.NotFound("treatment", nil)
	}
	if err := s.repo.Update(ctx, treatment); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, treatment.ID)
}

func (s *Service) DeleteTreatment(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListTreatments scopes dentists to their own clinical records.
func (s *Service) ListTreatments(ctx context.Context, actor *model.User, filter *model.TreatmentFilter) ([]*model.Treatment, error) {
	if filter == nil {
		filter = &model.TreatmentFilter{}
	}
	if actor.Role == model.RoleDentist {
		id := actor.ID
		filter.DentistID = &id
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) CreatePlan(ctx context.Context, plan *model.TreatmentPlan) (*model.TreatmentPlan, error) {
	plan.ID = uuid.New()
	if plan.Status == "" {
		plan.Status = model.TreatmentPlanStatusProposed
	}
	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *Service) GetPlan(ctx context.Context, id uuid.UUID) (*model.TreatmentPlan, error) {
	return s.repo.GetPlan(ctx, id)
}

func (s *Service) UpdatePlan(ctx context.Context, plan *model.TreatmentPlan) (*model.TreatmentPlan, error) {
	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return s.repo.GetPlan(ctx, plan.ID)
}

func (s *Service) DeletePlan(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeletePlan(ctx, id)
}

func (s *Service) ListPlans(ctx context.Context, actor *model.User, filter *model.TreatmentFilter) ([]*model.TreatmentPlan, error) {
	if filter == nil {
		filter = &model.TreatmentFilter{}
	}
	if actor.Role == model.RoleDentist {
		id := actor.ID
		filter.DentistID = &id
	}
	return s.repo.ListPlans(ctx, filter)
}

// AddAttachment records the stored-file pointer against the treatment.
func (s *Service) AddAttachment(ctx context.Context, attachment *model.Attachment) (*model.Attachment, error) {
	if _, err := s.repo.Get(ctx, attachment.TreatmentID); err != nil {
		return nil, err
	}
	attachment.ID = uuid.New()
	if err := s.repo.AddAttachment(ctx, attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

func (s *Service) ListAttachments(ctx context.Context, treatmentID uuid.UUID) ([]*model.Attachment, error) {
	return s.repo.ListAttachments(ctx, treatmentID)
}

func (s *Service) GetAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	return s.repo.GetAttachment(ctx, id)
}

func (s *Service) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAttachment(ctx, id)
}

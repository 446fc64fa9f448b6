package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
)

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePatient(ctx context.Context, patient *model.Patient) (*model.Patient, error) {
	patient.ID = uuid.New()
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

// UpdatePatient replaces every editable column of the row.
func (s *Service) UpdatePatient(ctx context.Context, patient *model.Patient) (*model.Patient, error) {
	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, patient.ID)
}

// DeletePatient hard-deletes the row. Appointments and treatments referencing
// the patient are left dangling, a carried-over integrity gap.
func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, filter *model.ListFilter) ([]*model.Patient, error) {
	return s.repo.List(ctx, filter)
}

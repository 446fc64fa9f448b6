package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

type Service struct {
	repo     repository.AppointmentRepository
	userRepo repository.UserRepository
}

func NewService(repo repository.AppointmentRepository, userRepo repository.UserRepository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

func (s *Service) CreateAppointment(ctx context.Context, appointment *model.Appointment) (*model.Appointment, error) {
	dentist, err := s.userRepo.Get(ctx, appointment.DentistID)
	if err != nil {
		return nil, err
	}
	if dentist.Role != model.RoleDentist {
		return nil, apperrors.Validation("assigned user is not a dentist", fmt.Errorf("role %s", dentist.Role))
	}

	appointment.ID = uuid.New()
	if appointment.Status == "" {
		appointment.Status = model.AppointmentStatusScheduled
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, appointment.ID)
}

// GetAppointment enforces dentist scoping: a dentist can only read their own
// appointments.
func (s *Service) GetAppointment(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == model.RoleDentist && appointment.DentistID != actor.ID {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return appointment, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, actor *model.User, appointment *model.Appointment) (*model.Appointment, error) {
	if actor.Role == model.RoleDentist {
		current, err := s.repo.Get(ctx, appointment.ID)
		if err != nil {
			return nil, err
		}
		if current.DentistID != actor.ID {
			return nil, apperrors.NotFound("appointment", nil)
		}
	}
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, appointment.ID)
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// CreateRequest records a booking request submitted from the public site.
func (s *Service) CreateRequest(ctx context.Context, input *model.AppointmentRequestInput) (*model.AppointmentRequest, error) {
	request := &model.AppointmentRequest{
		FullName:    input.FullName,
		Phone:       input.Phone,
		Email:       input.Email,
		PreferredAt: input.PreferredAt,
		Message:     input.Message,
	}
	request.ID = uuid.New()
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *Service) ListRequests(ctx context.Context, includeHandled bool) ([]*model.AppointmentRequest, error) {
	return s.repo.ListRequests(ctx, includeHandled)
}

func (s *Service) MarkRequestHandled(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRequestHandled(ctx, id)
}

// ListAppointments applies the role-scoping exception: an actor with the
// dentist role only ever sees rows assigned to them, whatever filters came
// in with the request.
func (s *Service) ListAppointments(ctx context.Context, actor *model.User, filter *model.AppointmentFilter) ([]*model.Appointment, error) {
	if filter == nil {
		filter = &model.AppointmentFilter{}
	}
	if actor.Role == model.RoleDentist {
		id := actor.ID
		filter.DentistID = &id
	}
	return s.repo.List(ctx, filter)
}

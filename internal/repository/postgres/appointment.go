package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{NewBaseRepository(db)}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, dentist_id, scheduled_at, duration_min, status,
			reason, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID, appointment.PatientID, appointment.DentistID,
		appointment.ScheduledAt, appointment.DurationMin, appointment.Status,
		appointment.Reason, appointment.Notes, appointment.CreatedAt, appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT a.*, p.name AS patient_name, u.name AS dentist_name
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN users u ON u.id = a.dentist_id
		WHERE a.id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET patient_id = $1, dentist_id = $2, scheduled_at = $3, duration_min = $4,
			status = $5, reason = $6, notes = $7, updated_at = $8
		WHERE id = $9
	`
	appointment.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		appointment.PatientID, appointment.DentistID, appointment.ScheduledAt,
		appointment.DurationMin, appointment.Status, appointment.Reason,
		appointment.Notes, appointment.UpdatedAt, appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, error) {
	query := `
		SELECT a.*, p.name AS patient_name, u.name AS dentist_name
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN users u ON u.id = a.dentist_id
		WHERE 1=1
	`
	args := []interface{}{}

	if filter != nil {
		if filter.PatientID != nil {
			args = append(args, *filter.PatientID)
			query += fmt.Sprintf(" AND a.patient_id = $%d", len(args))
		}
		if filter.DentistID != nil {
			args = append(args, *filter.DentistID)
			query += fmt.Sprintf(" AND a.dentist_id = $%d", len(args))
		}
		if filter.Status != "" {
			args = append(args, filter.Status)
			query += fmt.Sprintf(" AND a.status = $%d", len(args))
		}
		if filter.StartDate != nil {
			args = append(args, *filter.StartDate)
			query += fmt.Sprintf(" AND a.scheduled_at >= $%d", len(args))
		}
		if filter.EndDate != nil {
			args = append(args, *filter.EndDate)
			query += fmt.Sprintf(" AND a.scheduled_at < $%d", len(args))
		}
		if filter.Search != "" {
			args = append(args, "%"+filter.Search+"%")
			query += fmt.Sprintf(" AND p.name ILIKE $%d", len(args))
		}
	}
	query += ` ORDER BY a.scheduled_at DESC`

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CreateRequest(ctx context.Context, request *model.AppointmentRequest) error {
	query := `
		INSERT INTO appointment_requests (
			id, full_name, phone, email, preferred_at, message, handled, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	_, err := r.db.ExecContext(ctx, query,
		request.ID, request.FullName, request.Phone, request.Email,
		request.PreferredAt, request.Message, request.Handled,
		request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment request: %w", err)
	}
	return nil
}

func (r *appointmentRepository) ListRequests(ctx context.Context, includeHandled bool) ([]*model.AppointmentRequest, error) {
	query := `SELECT * FROM appointment_requests`
	if !includeHandled {
		query += ` WHERE NOT handled`
	}
	query += ` ORDER BY created_at DESC`

	requests := []*model.AppointmentRequest{}
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("failed to list appointment requests: %w", err)
	}
	return requests, nil
}

func (r *appointmentRepository) MarkRequestHandled(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointment_requests SET handled = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark appointment request handled: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("appointment request", nil)
	}
	return nil
}

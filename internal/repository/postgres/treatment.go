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

type treatmentRepository struct {
	BaseRepository
}

func NewTreatmentRepository(db *sqlx.DB) repository.TreatmentRepository {
	return &treatmentRepository{NewBaseRepository(db)}
}

// Create inserts the treatment and its prescription lines in one transaction.
func (r *treatmentRepository) Create(ctx context.Context, treatment *model.Treatment, medicines []*model.Medicine) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		treatment.CreatedAt = time.Now()
		treatment.UpdatedAt = treatment.CreatedAt
		insert := `
			INSERT INTO treatments (
				id, patient_id, dentist_id, appointment_id, plan_id, procedure,
				tooth, cost, performed_at, notes, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		if _, err := tx.ExecContext(ctx, insert,
			treatment.ID, treatment.PatientID, treatment.DentistID,
			treatment.AppointmentID, treatment.PlanID, treatment.Procedure,
			treatment.Tooth, treatment.Cost, treatment.PerformedAt, treatment.Notes,
			treatment.CreatedAt, treatment.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create treatment: %w", err)
		}

		for _, m := range medicines {
			m.TreatmentID = treatment.ID
			m.CreatedAt = treatment.CreatedAt
			m.UpdatedAt = treatment.CreatedAt
			mq := `
				INSERT INTO medicines (id, treatment_id, name, dosage, duration, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`
			if _, err := tx.ExecContext(ctx, mq,
				m.ID, m.TreatmentID, m.Name, m.Dosage, m.Duration, m.CreatedAt, m.UpdatedAt,
			); err != nil {
				return fmt.Errorf("failed to create medicine: %w", err)
			}
		}
		return nil
	})
}

func (r *treatmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Treatment, error) {
	var treatment model.Treatment
	err := r.db.GetContext(ctx, &treatment, `SELECT * FROM treatments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("treatment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get treatment: %w", err)
	}

	medicines := []*model.Medicine{}
	if err := r.db.SelectContext(ctx, &medicines,
		`SELECT * FROM medicines WHERE treatment_id = $1 ORDER BY created_at ASC`, id); err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}
	treatment.Medicines = medicines

	attachments, err := r.ListAttachments(ctx, id)
	if err != nil {
		return nil, err
	}
	treatment.Attachments = attachments

	return &treatment, nil
}

func (r *treatmentRepository) Update(ctx context.Context, treatment *model.Treatment) error {
	query := `
		UPDATE treatments
		SET procedure = $1, tooth = $2, cost = $3, performed_at = $4,
			plan_id = $5, notes = $6, updated_at = $7
		WHERE id = $8
	`
	treatment.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		treatment.Procedure, treatment.Tooth, treatment.Cost, treatment.PerformedAt,
		treatment.PlanID, treatment.Notes, treatment.UpdatedAt, treatment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update treatment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("treatment", nil)
	}
	return nil
}

func (r *treatmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM treatments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete treatment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("treatment", nil)
	}
	return nil
}

func (r *treatmentRepository) List(ctx context.Context, filter *model.TreatmentFilter) ([]*model.Treatment, error) {
	query := `SELECT * FROM treatments WHERE 1=1`
	args := []interface{}{}

	if filter != nil {
		if filter.PatientID != nil {
			args = append(args, *filter.PatientID)
			query += fmt.Sprintf(" AND patient_id = $%d", len(args))
		}
		if filter.DentistID != nil {
			args = append(args, *filter.DentistID)
			query += fmt.Sprintf(" AND dentist_id = $%d", len(args))
		}
		if filter.Search != "" {
			args = append(args, "%"+filter.Search+"%")
			query += fmt.Sprintf(" AND procedure ILIKE $%d", len(args))
		}
		if filter.StartDate != nil {
			args = append(args, *filter.StartDate)
			query += fmt.Sprintf(" AND performed_at >= $%d", len(args))
		}
		if filter.EndDate != nil {
			args = append(args, *filter.EndDate)
			query += fmt.Sprintf(" AND performed_at < $%d", len(args))
		}
	}
	query += ` ORDER BY performed_at DESC`

	treatments := []*model.Treatment{}
	if err := r.db.SelectContext(ctx, &treatments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list treatments: %w", err)
	}
	return treatments, nil
}

func (r *treatmentRepository) CreatePlan(ctx context.Context, plan *model.TreatmentPlan) error {
	query := `
		INSERT INTO treatment_plans (
			id, patient_id, dentist_id, title, description, status, total_cost, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = plan.CreatedAt
	_, err := r.db.ExecContext(ctx, query,
		plan.ID, plan.PatientID, plan.DentistID, plan.Title, plan.Description,
		plan.Status, plan.TotalCost, plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create treatment plan: %w", err)
	}
	return nil
}

func (r *treatmentRepository) GetPlan(ctx context.Context, id uuid.UUID) (*model.TreatmentPlan, error) {
	var plan model.TreatmentPlan
	err := r.db.GetContext(ctx, &plan, `SELECT * FROM treatment_plans WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("treatment plan", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get treatment plan: %w", err)
	}
	return &plan, nil
}

func (r *treatmentRepository) UpdatePlan(ctx context.Context, plan *model.TreatmentPlan) error {
	query := `
		UPDATE treatment_plans
		SET title = $1, description = $2, status = $3, total_cost = $4, updated_at = $5
		WHERE id = $6
	`
	plan.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		plan.Title, plan.Description, plan.Status, plan.TotalCost, plan.UpdatedAt, plan.ID)
	if err != nil {
		return fmt.Errorf("failed to update treatment plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("treatment plan", nil)
	}
	return nil
}

func (r *treatmentRepository) DeletePlan(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM treatment_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete treatment plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("treatment plan", nil)
	}
	return nil
}

func (r *treatmentRepository) ListPlans(ctx context.Context, filter *model.TreatmentFilter) ([]*model.TreatmentPlan, error) {
	query := `SELECT * FROM treatment_plans WHERE 1=1`
	args := []interface{}{}

	if filter != nil {
		if filter.PatientID != nil {
			args = append(args, *filter.PatientID)
			query += fmt.Sprintf(" AND patient_id = $%d", len(args))
		}
		if filter.DentistID != nil {
			args = append(args, *filter.DentistID)
			query += fmt.Sprintf(" AND dentist_id = $%d", len(args))
		}
		if filter.Status != "" {
			args = append(args, filter.Status)
			query += fmt.Sprintf(" AND status = $%d", len(args))
		}
	}
	query += ` ORDER BY created_at DESC`

	plans := []*model.TreatmentPlan{}
	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list treatment plans: %w", err)
	}
	return plans, nil
}

func (r *treatmentRepository) AddAttachment(ctx context.Context, attachment *model.Attachment) error {
	query := `
		INSERT INTO attachments (
			id, treatment_id, file_name, content_type, size_bytes, storage_path, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	attachment.CreatedAt = time.Now()
	attachment.UpdatedAt = attachment.CreatedAt
	_, err := r.db.ExecContext(ctx, query,
		attachment.ID, attachment.TreatmentID, attachment.FileName,
		attachment.ContentType, attachment.SizeBytes, attachment.StoragePath,
		attachment.CreatedAt, attachment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add attachment: %w", err)
	}
	return nil
}

func (r *treatmentRepository) ListAttachments(ctx context.Context, treatmentID uuid.UUID) ([]*model.Attachment, error) {
	attachments := []*model.Attachment{}
	err := r.db.SelectContext(ctx, &attachments,
		`SELECT * FROM attachments WHERE treatment_id = $1 ORDER BY created_at DESC`, treatmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

func (r *treatmentRepository) GetAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	var attachment model.Attachment
	err := r.db.GetContext(ctx, &attachment, `SELECT * FROM attachments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("attachment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return &attachment, nil
}

func (r *treatmentRepository) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("attachment", nil)
	}
	return nil
}

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

const codeRetries = 3

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{NewBaseRepository(db)}
}

// Create assigns the next P### code by reading the highest existing numeric
// suffix inside the insert transaction. The unique constraint on code plus a
// bounded retry closes the window between the read and the insert under
// concurrent creation.
func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	var err error
	for attempt := 0; attempt < codeRetries; attempt++ {
		err = r.WithTx(ctx, func(tx *sqlx.Tx) error {
			// Ordered by the numeric suffix, not the code text: text ordering
			// would rank P999 above P1000 and re-derive a taken code forever.
			var last sql.NullString
			q := `
				SELECT code FROM patients
				WHERE code ~ '^P[0-9]+$'
				ORDER BY CAST(SUBSTRING(code FROM 2) AS INTEGER) DESC
				LIMIT 1
			`
			if err := tx.GetContext(ctx, &last, q); err != nil && !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to read last patient code: %w", err)
			}
			patient.Code = model.NextPatientCode(last.String)

			patient.CreatedAt = time.Now()
			patient.UpdatedAt = patient.CreatedAt
			insert := `
				INSERT INTO patients (
					id, code, name, phone, email, date_of_birth, gender,
					address, allergies, medical_history, notes, created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			`
			_, err := tx.ExecContext(ctx, insert,
				patient.ID, patient.Code, patient.Name, patient.Phone, patient.Email,
				patient.DateOfBirth, patient.Gender, patient.Address, patient.Allergies,
				patient.MedicalHistory, patient.Notes, patient.CreatedAt, patient.UpdatedAt,
			)
			return err
		})
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return fmt.Errorf("failed to create patient: %w", err)
		}
	}
	return fmt.Errorf("failed to create patient after %d attempts: %w", codeRetries, err)
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, `SELECT * FROM patients WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, phone = $2, email = $3, date_of_birth = $4, gender = $5,
			address = $6, allergies = $7, medical_history = $8, notes = $9, updated_at = $10
		WHERE id = $11
	`
	patient.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		patient.Name, patient.Phone, patient.Email, patient.DateOfBirth, patient.Gender,
		patient.Address, patient.Allergies, patient.MedicalHistory, patient.Notes,
		patient.UpdatedAt, patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, filter *model.ListFilter) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE 1=1`
	args := []interface{}{}

	if filter != nil && filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (name ILIKE $%d OR phone ILIKE $%d OR code ILIKE $%d)", n, n, n)
	}
	query += ` ORDER BY name ASC`

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

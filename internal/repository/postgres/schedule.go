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

type scheduleRepository struct {
	BaseRepository
}

func NewScheduleRepository(db *sqlx.DB) repository.ScheduleRepository {
	return &scheduleRepository{NewBaseRepository(db)}
}

func (r *scheduleRepository) Create(ctx context.Context, slot *model.ScheduleSlot) error {
	query := `
		INSERT INTO schedule_slots (id, user_id, date, starts_at, ends_at, kind, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = slot.CreatedAt
	_, err := r.db.ExecContext(ctx, query,
		slot.ID, slot.UserID, slot.Date, slot.StartsAt, slot.EndsAt,
		slot.Kind, slot.Notes, slot.CreatedAt, slot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule slot: %w", err)
	}
	return nil
}

func (r *scheduleRepository) Get(ctx context.Context, id uuid.UUID) (*model.ScheduleSlot, error) {
	query := `
		SELECT s.*, u.name AS user_name
		FROM schedule_slots s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
	`
	var slot model.ScheduleSlot
	err := r.db.GetContext(ctx, &slot, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("schedule slot", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule slot: %w", err)
	}
	return &slot, nil
}

func (r *scheduleRepository) Update(ctx context.Context, slot *model.ScheduleSlot) error {
	query := `
		UPDATE schedule_slots
		SET date = $1, starts_at = $2, ends_at = $3, kind = $4, notes = $5, updated_at = $6
		WHERE id = $7
	`
	slot.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		slot.Date, slot.StartsAt, slot.EndsAt, slot.Kind, slot.Notes, slot.UpdatedAt, slot.ID)
	if err != nil {
		return fmt.Errorf("failed to update schedule slot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("schedule slot", nil)
	}
	return nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedule_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule slot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("schedule slot", nil)
	}
	return nil
}

func (r *scheduleRepository) List(ctx context.Context, filter *model.ScheduleFilter) ([]*model.ScheduleSlot, error) {
	query := `
		SELECT s.*, u.name AS user_name
		FROM schedule_slots s
		JOIN users u ON u.id = s.user_id
		WHERE 1=1
	`
	args := []interface{}{}

	if filter != nil {
		if filter.UserID != nil {
			args = append(args, *filter.UserID)
			query += fmt.Sprintf(" AND s.user_id = $%d", len(args))
		}
		if filter.StartDate != nil {
			args = append(args, *filter.StartDate)
			query += fmt.Sprintf(" AND s.date >= $%d", len(args))
		}
		if filter.EndDate != nil {
			args = append(args, *filter.EndDate)
			query += fmt.Sprintf(" AND s.date < $%d", len(args))
		}
		if filter.Status != "" {
			args = append(args, filter.Status)
			query += fmt.Sprintf(" AND s.kind = $%d", len(args))
		}
	}
	query += ` ORDER BY s.starts_at ASC`

	slots := []*model.ScheduleSlot{}
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list schedule slots: %w", err)
	}
	return slots, nil
}

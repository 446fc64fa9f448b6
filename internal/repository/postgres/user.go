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

type userRepository struct {
	BaseRepository
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{NewBaseRepository(db)}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, phone, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Phone,
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("email already registered", err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT * FROM users WHERE id = $1`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("user", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM users WHERE email = $1`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("user", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET email = $1, name = $2, phone = $3, is_active = $4, updated_at = $5
		WHERE id = $6
	`
	user.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		user.Email, user.Name, user.Phone, user.IsActive, user.UpdatedAt, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("user", nil)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Hard delete: references from appointments and treatments are left
	// dangling, a known integrity gap.
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("user", nil)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filter *model.ListFilter) ([]*model.User, error) {
	query := `SELECT * FROM users WHERE 1=1`
	args := []interface{}{}

	if filter != nil && filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", len(args), len(args))
	}
	if filter != nil && filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND role = $%d", len(args))
	}
	query += ` ORDER BY name ASC`

	users := []*model.User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) ListDentists(ctx context.Context) ([]*model.User, error) {
	query := `SELECT * FROM users WHERE role = $1 AND is_active ORDER BY name ASC`
	dentists := []*model.User{}
	if err := r.db.SelectContext(ctx, &dentists, query, model.RoleDentist); err != nil {
		return nil, fmt.Errorf("failed to list dentists: %w", err)
	}
	return dentists, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = $1, updated_at = $1 WHERE id = $2`, at, id)
	return err
}

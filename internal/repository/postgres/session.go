package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

type sessionRepository struct {
	BaseRepository
}

func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &sessionRepository{NewBaseRepository(db)}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	query := `
		INSERT INTO sessions (token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`
	session.CreatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		session.Token, session.UserID, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// ResolveUser checks token validity and account state in one query so a
// deactivated user's live sessions stop working immediately. Expired rows are
// excluded here, not deleted.
func (r *sessionRepository) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	query := `
		SELECT u.*
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > NOW() AND u.is_active
	`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Unauthenticated("invalid or expired session")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	return &user, nil
}

// Delete is idempotent: removing a nonexistent token is not an error.
func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

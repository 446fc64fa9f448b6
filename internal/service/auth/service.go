package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
	"github.com/brightsmile/clinic-api/pkg/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	sessionExpiry = 24 * time.Hour
	tokenBytes    = 32
)

type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	hasher      security.PasswordHasher
}

func NewService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, hasher security.PasswordHasher) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
	}
}

// Authenticate verifies email and password against the stored hash. It fails
// closed: missing account, inactive account, and wrong password all collapse
// into ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// CreateSession mints an unguessable opaque token with a fixed 24-hour
// expiry from issuance.
func (s *Service) CreateSession(ctx context.Context, userID uuid.UUID) (*model.Session, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &model.Session{
		Token:     hex.EncodeToString(buf),
		UserID:    userID,
		ExpiresAt: time.Now().Add(sessionExpiry),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return session, nil
}

// ResolveSession returns the user owning token. Expiry and account state are
// checked in one lookup, so deactivating a user invalidates their sessions
// immediately.
func (s *Service) ResolveSession(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrInvalidCredentials
	}
	return s.sessionRepo.ResolveUser(ctx, token)
}

// DestroySession deletes the session row; destroying a nonexistent token is
// not an error.
func (s *Service) DestroySession(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}

// Login authenticates and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, *model.Session, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to record login timestamp")
	}

	return user, session, nil
}

// Logout tears down the session.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.DestroySession(ctx, token)
}

// SessionExpiry exposes the fixed session lifetime for cookie max-age.
func SessionExpiry() time.Duration {
	return sessionExpiry
}

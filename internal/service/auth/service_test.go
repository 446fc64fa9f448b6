package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmile/clinic-api/internal/model"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
	"github.com/brightsmile/clinic-api/pkg/security"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}
func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user", nil)
}
func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error { return nil }
func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (r *fakeUserRepo) List(ctx context.Context, filter *model.ListFilter) ([]*model.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) ListDentists(ctx context.Context) ([]*model.User, error) { return nil, nil }
func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*model.Session
	users    *fakeUserRepo
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *model.Session) error {
	r.sessions[session.Token] = session
	return nil
}

func (r *fakeSessionRepo) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	s, ok := r.sessions[token]
	if !ok || s.Expired(time.Now()) {
		return nil, apperrors.Unauthenticated("invalid or expired session")
	}
	user, err := r.users.Get(ctx, s.UserID)
	if err != nil || !user.IsActive {
		return nil, apperrors.Unauthenticated("invalid or expired session")
	}
	return user, nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()
	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)

	users := &fakeUserRepo{users: map[string]*model.User{
		"dentist@clinic.test": {
			Base:         model.Base{ID: uuid.New()},
			Email:        "dentist@clinic.test",
			PasswordHash: hash,
			Role:         model.RoleDentist,
			IsActive:     true,
		},
	}}
	sessions := &fakeSessionRepo{sessions: map[string]*model.Session{}, users: users}
	return NewService(users, sessions, hasher), users, sessions
}

func TestAuthenticate(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "dentist@clinic.test", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, model.RoleDentist, user.Role)

	_, err = svc.Authenticate(ctx, "dentist@clinic.test", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@clinic.test", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	users.users["dentist@clinic.test"].IsActive = false
	_, err = svc.Authenticate(ctx, "dentist@clinic.test", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateSession(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()
	userID := users.users["dentist@clinic.test"].ID

	s1, err := svc.CreateSession(ctx, userID)
	require.NoError(t, err)
	s2, err := svc.CreateSession(ctx, userID)
	require.NoError(t, err)

	// 32 random bytes, hex encoded
	assert.Len(t, s1.Token, 64)
	assert.NotEqual(t, s1.Token, s2.Token)
	assert.WithinDuration(t, time.Now().Add(SessionExpiry()), s1.ExpiresAt, time.Minute)
}

func TestResolveSession(t *testing.T) {
	svc, users, sessions := newTestService(t)
	ctx := context.Background()
	userID := users.users["dentist@clinic.test"].ID

	s, err := svc.CreateSession(ctx, userID)
	require.NoError(t, err)

	user, err := svc.ResolveSession(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	_, err = svc.ResolveSession(ctx, "")
	assert.Error(t, err)

	_, err = svc.ResolveSession(ctx, "no-such-token")
	assert.Error(t, err)

	// expired session stops resolving
	sessions.sessions[s.Token].ExpiresAt = time.Now().Add(-time.Minute)
	_, err = svc.ResolveSession(ctx, s.Token)
	assert.Error(t, err)
}

func TestResolveSessionDeactivatedUser(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()
	user := users.users["dentist@clinic.test"]

	s, err := svc.CreateSession(ctx, user.ID)
	require.NoError(t, err)

	user.IsActive = false
	_, err = svc.ResolveSession(ctx, s.Token)
	assert.Error(t, err, "deactivating a user must invalidate live sessions")
}

func TestDestroySessionIdempotent(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()

	s, err := svc.CreateSession(ctx, users.users["dentist@clinic.test"].ID)
	require.NoError(t, err)

	require.NoError(t, svc.DestroySession(ctx, s.Token))
	require.NoError(t, svc.DestroySession(ctx, s.Token))
	require.NoError(t, svc.DestroySession(ctx, "never-existed"))
}

func TestLogin(t *testing.T) {
	svc, _, sessions := newTestService(t)
	ctx := context.Background()

	user, session, err := svc.Login(ctx, "dentist@clinic.test", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "dentist@clinic.test", user.Email)
	assert.Contains(t, sessions.sessions, session.Token)

	_, _, err = svc.Login(ctx, "dentist@clinic.test", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

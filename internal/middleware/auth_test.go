package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmile/clinic-api/internal/model"
	authService "github.com/brightsmile/clinic-api/internal/service/auth"
	"github.com/brightsmile/clinic-api/internal/service/rbac"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
	"github.com/brightsmile/clinic-api/pkg/security"
)

type memUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (r *memUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user", nil)
}
func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}
func (r *memUserRepo) Update(ctx context.Context, user *model.User) error { return nil }
func (r *memUserRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (r *memUserRepo) List(ctx context.Context, filter *model.ListFilter) ([]*model.User, error) {
	return nil, nil
}
func (r *memUserRepo) ListDentists(ctx context.Context) ([]*model.User, error) { return nil, nil }
func (r *memUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type memSessionRepo struct {
	sessions map[string]*model.Session
	users    *memUserRepo
}

func (r *memSessionRepo) Create(ctx context.Context, session *model.Session) error {
	r.sessions[session.Token] = session
	return nil
}
func (r *memSessionRepo) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	s, ok := r.sessions[token]
	if !ok || s.Expired(time.Now()) {
		return nil, apperrors.Unauthenticated("invalid or expired session")
	}
	u, err := r.users.Get(ctx, s.UserID)
	if err != nil || !u.IsActive {
		return nil, apperrors.Unauthenticated("invalid or expired session")
	}
	return u, nil
}
func (r *memSessionRepo) Delete(ctx context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func setupRouter(t *testing.T, role model.Role) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	user := &model.User{
		Base:     model.Base{ID: uuid.New()},
		Email:    "user@clinic.test",
		Role:     role,
		IsActive: true,
	}
	users := &memUserRepo{users: map[uuid.UUID]*model.User{user.ID: user}}
	sessions := &memSessionRepo{sessions: map[string]*model.Session{}, users: users}

	authSvc := authService.NewService(users, sessions, security.NewBcryptHasher(4))
	session, err := authSvc.CreateSession(context.Background(), user.ID)
	require.NoError(t, err)

	mw := NewAuthMiddleware(authSvc, rbac.NewService())

	r := gin.New()
	protected := r.Group("/", mw.RequireAuth())
	protected.GET("/patients", mw.RequirePermission(rbac.PermPatientView), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c).Email})
	})
	protected.DELETE("/patients", mw.RequirePermission(rbac.PermPatientDelete), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	})

	return r, session.Token
}

func TestRequireAuthMissingCookie(t *testing.T) {
	r, _ := setupRouter(t, model.RoleReceptionist)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestRequireAuthBrowserRedirect(t *testing.T) {
	r, _ := setupRouter(t, model.RoleReceptionist)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireAuthInvalidToken(t *testing.T) {
	r, _ := setupRouter(t, model.RoleReceptionist)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "bogus"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthValidSession(t *testing.T) {
	r, token := setupRouter(t, model.RoleReceptionist)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user@clinic.test")
}

func TestRequirePermissionForbidden(t *testing.T) {
	r, token := setupRouter(t, model.RoleReceptionist)

	// patient delete is admin-only
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/patients", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePermissionAdminBypass(t *testing.T) {
	r, token := setupRouter(t, model.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/patients", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

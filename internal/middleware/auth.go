package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/service/auth"
	"github.com/brightsmile/clinic-api/internal/service/rbac"
	"github.com/brightsmile/clinic-api/pkg/httputil"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

const (
	// SessionCookie carries the opaque session token.
	SessionCookie = "clinic_session"
	// ContextUser is the gin context key for the resolved user.
	ContextUser = "current_user"

	loginPath = "/login"
)

type AuthMiddleware struct {
	authService *auth.Service
	rbacService *rbac.Service
}

func NewAuthMiddleware(authService *auth.Service, rbacService *rbac.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		rbacService: rbacService,
	}
}

// RequireAuth resolves the session cookie and stores the user in the
// context. Browser navigation gets redirected to the login page; API calls
// get a 401 JSON body.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			m.reject(c, "authentication required")
			return
		}

		user, err := m.authService.ResolveSession(c.Request.Context(), token)
		if err != nil {
			m.reject(c, "invalid or expired session")
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// RequirePermission gates the route on the static permission table. Must run
// after RequireAuth.
func (m *AuthMiddleware) RequirePermission(permission rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			m.reject(c, "authentication required")
			return
		}

		if !m.rbacService.Authorize(user.Role, permission) {
			httputil.RespondWithError(c, apperrors.Forbidden(""))
			c.Abort()
			return
		}

		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context, message string) {
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, loginPath)
	} else {
		httputil.RespondWithError(c, apperrors.Unauthenticated(message))
	}
	c.Abort()
}

// wantsHTML distinguishes browser navigation from API calls.
func wantsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html")
}

// CurrentUser returns the user stored by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return user
}

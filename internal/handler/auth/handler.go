package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightsmile/clinic-api/internal/middleware"
	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/service/auth"
	"github.com/brightsmile/clinic-api/internal/service/rbac"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
	"github.com/brightsmile/clinic-api/pkg/httputil"
)

type Handler struct {
	service     *auth.Service
	rbacService *rbac.Service
	// secure controls the Secure flag on the session cookie
	secure bool
}

func NewHandler(service *auth.Service, rbacService *rbac.Service, secureCookies bool) *Handler {
	return &Handler{
		service:     service,
		rbacService: rbacService,
		secure:      secureCookies,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	g := r.Group("/auth")
	{
		g.POST("/login", h.Login)
		g.POST("/logout", h.Logout)
		g.GET("/me", authMW.RequireAuth(), h.Me)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	user, session, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			httputil.RespondWithError(c, apperrors.Unauthenticated("invalid credentials"))
			return
		}
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, session.Token,
		int(auth.SessionExpiry().Seconds()), "/", "", h.secure, true)

	httputil.RespondWithSuccess(c, user)
}

func (h *Handler) Logout(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookie)
	if err == nil && token != "" {
		// idempotent: an unknown token is not an error
		if err := h.service.Logout(c.Request.Context(), token); err != nil {
			httputil.RespondWithError(c, apperrors.Internal(err))
			return
		}
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secure, true)
	httputil.RespondWithSuccess(c, gin.H{"logged_out": true})
}

func (h *Handler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	httputil.RespondWithSuccess(c, gin.H{
		"user":        user,
		"permissions": h.rbacService.Permissions(user.Role),
	})
}

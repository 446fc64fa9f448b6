package staff

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/middleware"
	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/service/rbac"
	"github.com/brightsmile/clinic-api/internal/service/staff"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
	"github.com/brightsmile/clinic-api/pkg/httputil"
)

type Handler struct {
	service *staff.Service
}

func NewHandler(service *staff.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	g := r.Group("/staff", auth.RequireAuth())
	{
		// Any authenticated user can enumerate dentists; it feeds
		// appointment-form dropdowns.
		g.GET("/dentists", h.ListDentists)

		g.GET("", auth.RequirePermission(rbac.PermStaffView), h.ListUsers)
		g.GET("/:id", auth.RequirePermission(rbac.PermStaffView), h.GetUser)
		g.POST("", auth.RequirePermission(rbac.PermStaffCreate), h.CreateUser)
		g.PUT("/:id", auth.RequirePermission(rbac.PermStaffEdit), h.UpdateUser)
		g.DELETE("/:id", auth.RequirePermission(rbac.PermStaffDelete), h.DeleteUser)
	}
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, user)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid user ID", err))
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid user ID", err))
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	user := &model.User{
		Base:     model.Base{ID: id},
		Email:    req.Email,
		Name:     req.Name,
		Phone:    req.Phone,
		IsActive: req.IsActive,
	}
	user, err = h.service.UpdateUser(c.Request.Context(), user)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid user ID", err))
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) ListUsers(c *gin.Context) {
	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	users, err := h.service.ListUsers(c.Request.Context(), &filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, users)
}

func (h *Handler) ListDentists(c *gin.Context) {
	dentists, err := h.service.ListDentists(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, dentists)
}

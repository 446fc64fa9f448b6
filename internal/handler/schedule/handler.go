package schedule

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/middleware"
	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/service/rbac"
	"github.com/brightsmile/clinic-api/internal/service/schedule"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
	"github.com/brightsmile/clinic-api/pkg/httputil"
)

type Handler struct {
	service *schedule.Service
}

func NewHandler(service *schedule.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	g := r.Group("/schedule", auth.RequireAuth())
	{
		g.GET("", auth.RequirePermission(rbac.PermScheduleView), h.ListSlots)
		g.GET("/:id", auth.RequirePermission(rbac.PermScheduleView), h.GetSlot)
		g.POST("", auth.RequirePermission(rbac.PermScheduleCreate), h.CreateSlot)
		g.PUT("/:id", auth.RequirePermission(rbac.PermScheduleEdit), h.UpdateSlot)
		g.DELETE("/:id", auth.RequirePermission(rbac.PermScheduleDelete), h.DeleteSlot)
	}
}

func (h *Handler) CreateSlot(c *gin.Context) {
	var req model.CreateScheduleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	slot := &model.ScheduleSlot{
		UserID:   req.UserID,
		Date:     req.Date,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Kind:     req.Kind,
		Notes:    req.Notes,
	}
	slot, err := h.service.CreateSlot(c.Request.Context(), slot)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, slot)
}

func (h *Handler) GetSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid slot ID", err))
		return
	}

	slot, err := h.service.GetSlot(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, slot)
}

func (h *Handler) UpdateSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid slot ID", err))
		return
	}

	var req model.UpdateScheduleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	slot := &model.ScheduleSlot{
		Base:     model.Base{ID: id},
		Date:     req.Date,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Kind:     req.Kind,
		Notes:    req.Notes,
	}
	slot, err = h.service.UpdateSlot(c.Request.Context(), slot)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, slot)
}

func (h *Handler) DeleteSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid slot ID", err))
		return
	}

	if err := h.service.DeleteSlot(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) ListSlots(c *gin.Context) {
	var filter model.ScheduleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	slots, err := h.service.ListSlots(c.Request.Context(), &filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, slots)
}

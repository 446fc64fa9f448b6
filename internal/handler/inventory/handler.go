package inventory

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/middleware"
	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/service/inventory"
	"github.com/brightsmile/clinic-api/internal/service/rbac"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
	"github.com/brightsmile/clinic-api/pkg/httputil"
)

type Handler struct {
	service *inventory.Service
}

func NewHandler(service *inventory.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	g := r.Group("/inventory", auth.RequireAuth())
	{
		g.GET("", auth.RequirePermission(rbac.PermInventoryView), h.ListItems)
		g.GET("/:id", auth.RequirePermission(rbac.PermInventoryView), h.GetItem)
		g.POST("", auth.RequirePermission(rbac.PermInventoryCreate), h.CreateItem)
		g.PUT("/:id", auth.RequirePermission(rbac.PermInventoryEdit), h.UpdateItem)
		g.DELETE("/:id", auth.RequirePermission(rbac.PermInventoryDelete), h.DeleteItem)
	}
}

func (h *Handler) CreateItem(c *gin.Context) {
	var req model.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	item := &model.InventoryItem{
		Name:         req.Name,
		Category:     req.Category,
		CurrentStock: req.CurrentStock,
		MinimumStock: req.MinimumStock,
		Unit:         req.Unit,
		UnitCost:     req.UnitCost,
		Supplier:     req.Supplier,
	}
	item, err := h.service.CreateItem(c.Request.Context(), item)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, item)
}

func (h *Handler) GetItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid item ID", err))
		return
	}

	item, err := h.service.GetItem(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, item)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid item ID", err))
		return
	}

	var req model.UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	item := &model.InventoryItem{
		Base:         model.Base{ID: id},
		Name:         req.Name,
		Category:     req.Category,
		CurrentStock: req.CurrentStock,
		MinimumStock: req.MinimumStock,
		Unit:         req.Unit,
		UnitCost:     req.UnitCost,
		Supplier:     req.Supplier,
	}
	item, err = h.service.UpdateItem(c.Request.Context(), item)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, item)
}

func (h *Handler) DeleteItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid item ID", err))
		return
	}

	if err := h.service.DeleteItem(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) ListItems(c *gin.Context) {
	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	items, err := h.service.ListItems(c.Request.Context(), &filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, items)
}

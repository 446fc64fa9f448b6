package billing

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/middleware"
	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/service/billing"
	"github.com/brightsmile/clinic-api/internal/service/rbac"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
	"github.com/brightsmile/clinic-api/pkg/httputil"
)

type Handler struct {
	service *billing.Service
}

func NewHandler(service *billing.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	g := r.Group("/invoices", auth.RequireAuth())
	{
		g.GET("", auth.RequirePermission(rbac.PermInvoiceView), h.ListInvoices)
		g.GET("/:id", auth.RequirePermission(rbac.PermInvoiceView), h.GetInvoice)
		g.POST("", auth.RequirePermission(rbac.PermInvoiceCreate), h.CreateInvoice)
		g.PUT("/:id", auth.RequirePermission(rbac.PermInvoiceEdit), h.UpdateInvoice)
		g.DELETE("/:id", auth.RequirePermission(rbac.PermInvoiceDelete), h.DeleteInvoice)

		g.GET("/:id/payments", auth.RequirePermission(rbac.PermPaymentView), h.ListPayments)
		g.POST("/:id/payments", auth.RequirePermission(rbac.PermPaymentCreate), h.RecordPayment)
	}
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	var req model.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	invoice := &model.Invoice{
		PatientID:   req.PatientID,
		TotalAmount: req.TotalAmount,
		DueAt:       req.DueAt,
		Notes:       req.Notes,
	}
	invoice, err := h.service.CreateInvoice(c.Request.Context(), invoice)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, invoice)
}

func (h *Handler) GetInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid invoice ID", err))
		return
	}

	invoice, err := h.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, invoice)
}

func (h *Handler) UpdateInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid invoice ID", err))
		return
	}

	var req model.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	invoice := &model.Invoice{
		Base:        model.Base{ID: id},
		TotalAmount: req.TotalAmount,
		DueAt:       req.DueAt,
		Notes:       req.Notes,
	}
	invoice, err = h.service.UpdateInvoice(c.Request.Context(), invoice)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, invoice)
}

func (h *Handler) DeleteInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid invoice ID", err))
		return
	}

	if err := h.service.DeleteInvoice(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) ListInvoices(c *gin.Context) {
	var filter model.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	invoices, err := h.service.ListInvoices(c.Request.Context(), &filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, invoices)
}

// RecordPayment posts a payment and returns the invoice with its recomputed
// balance and status.
func (h *Handler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid invoice ID", err))
		return
	}

	var req model.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	payment := &model.Payment{
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
		Notes:     req.Notes,
	}
	invoice, err := h.service.RecordPayment(c.Request.Context(), id, payment)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, invoice)
}

func (h *Handler) ListPayments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid invoice ID", err))
		return
	}

	payments, err := h.service.ListPayments(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, payments)
}

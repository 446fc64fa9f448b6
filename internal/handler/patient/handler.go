package patient

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/middleware"
	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/service/patient"
	"github.com/brightsmile/clinic-api/internal/service/rbac"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
	"github.com/brightsmile/clinic-api/pkg/httputil"
)

type Handler struct {
	service *patient.Service
}

func NewHandler(service *patient.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	g := r.Group("/patients", auth.RequireAuth())
	{
		g.GET("", auth.RequirePermission(rbac.PermPatientView), h.ListPatients)
		g.GET("/:id", auth.RequirePermission(rbac.PermPatientView), h.GetPatient)
		g.POST("", auth.RequirePermission(rbac.PermPatientCreate), h.CreatePatient)
		g.PUT("/:id", auth.RequirePermission(rbac.PermPatientEdit), h.UpdatePatient)
		g.DELETE("/:id", auth.RequirePermission(rbac.PermPatientDelete), h.DeletePatient)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	p := &model.Patient{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		Address:        req.Address,
		Allergies:      req.Allergies,
		MedicalHistory: req.MedicalHistory,
		Notes:          req.Notes,
	}

	p, err := h.service.CreatePatient(c.Request.Context(), p)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, p)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid patient ID", err))
		return
	}

	p, err := h.service.GetPatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid patient ID", err))
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	p := &model.Patient{
		Base:           model.Base{ID: id},
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		Address:        req.Address,
		Allergies:      req.Allergies,
		MedicalHistory: req.MedicalHistory,
		Notes:          req.Notes,
	}

	p, err = h.service.UpdatePatient(c.Request.Context(), p)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid patient ID", err))
		return
	}

	if err := h.service.DeletePatient(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) ListPatients(c *gin.Context) {
	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	patients, err := h.service.ListPatients(c.Request.Context(), &filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patients)
}

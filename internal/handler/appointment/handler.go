package appointment

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/middleware"
	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/service/appointment"
	"github.com/brightsmile/clinic-api/internal/service/notification"
	"github.com/brightsmile/clinic-api/internal/service/patient"
	"github.com/brightsmile/clinic-api/internal/service/rbac"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
	"github.com/brightsmile/clinic-api/pkg/httputil"
)

type Handler struct {
	service    *appointment.Service
	patientSvc *patient.Service
	notifier   *notification.Service
}

func NewHandler(service *appointment.Service, patientSvc *patient.Service, notifier *notification.Service) *Handler {
	return &Handler{
		service:    service,
		patientSvc: patientSvc,
		notifier:   notifier,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	// Public booking-request form: full name and phone are the only
	// mandatory fields.
	r.POST("/appointment-requests", h.CreateAppointmentRequest)

	requests := r.Group("/appointment-requests", auth.RequireAuth())
	{
		requests.GET("", auth.RequirePermission(rbac.PermAppointmentView), h.ListAppointmentRequests)
		requests.PUT("/:id/handled", auth.RequirePermission(rbac.PermAppointmentEdit), h.MarkAppointmentRequestHandled)
	}

	g := r.Group("/appointments", auth.RequireAuth())
	{
		g.GET("", auth.RequirePermission(rbac.PermAppointmentView), h.ListAppointments)
		g.GET("/:id", auth.RequirePermission(rbac.PermAppointmentView), h.GetAppointment)
		g.POST("", auth.RequirePermission(rbac.PermAppointmentCreate), h.CreateAppointment)
		g.PUT("/:id", auth.RequirePermission(rbac.PermAppointmentEdit), h.UpdateAppointment)
		g.DELETE("/:id", auth.RequirePermission(rbac.PermAppointmentDelete), h.DeleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	a := &model.Appointment{
		PatientID:   req.PatientID,
		DentistID:   req.DentistID,
		ScheduledAt: req.ScheduledAt,
		DurationMin: req.DurationMin,
		Reason:      req.Reason,
		Notes:       req.Notes,
	}

	a, err := h.service.CreateAppointment(c.Request.Context(), a)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.notifyBooked(c, a)
	httputil.RespondWithCreated(c, a)
}

// notifyBooked queues the patient notification; it never fails the request.
func (h *Handler) notifyBooked(c *gin.Context, a *model.Appointment) {
	p, err := h.patientSvc.GetPatient(c.Request.Context(), a.PatientID)
	if err != nil {
		return
	}
	dentistName := ""
	if a.DentistName != nil {
		dentistName = *a.DentistName
	}
	h.notifier.AppointmentBooked(c.Request.Context(), &model.AppointmentBookedPayload{
		AppointmentID: a.ID,
		PatientName:   p.Name,
		PatientEmail:  p.Email,
		PatientPhone:  p.Phone,
		DentistName:   dentistName,
		ScheduledAt:   a.ScheduledAt,
	})
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID", err))
		return
	}

	a, err := h.service.GetAppointment(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, a)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID", err))
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	a := &model.Appointment{
		Base:        model.Base{ID: id},
		PatientID:   req.PatientID,
		DentistID:   req.DentistID,
		ScheduledAt: req.ScheduledAt,
		DurationMin: req.DurationMin,
		Status:      req.Status,
		Reason:      req.Reason,
		Notes:       req.Notes,
	}

	a, err = h.service.UpdateAppointment(c.Request.Context(), middleware.CurrentUser(c), a)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, a)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID", err))
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) ListAppointments(c *gin.Context) {
	var filter model.AppointmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), middleware.CurrentUser(c), &filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

// CreateAppointmentRequest handles the public booking form. The record lands
// in a triage queue for the front desk.
func (h *Handler) CreateAppointmentRequest(c *gin.Context) {
	var req model.AppointmentRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	request, err := h.service.CreateRequest(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, request)
}

func (h *Handler) ListAppointmentRequests(c *gin.Context) {
	includeHandled := c.Query("include_handled") == "true"

	requests, err := h.service.ListRequests(c.Request.Context(), includeHandled)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, requests)
}

func (h *Handler) MarkAppointmentRequestHandled(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid request ID", err))
		return
	}

	if err := h.service.MarkRequestHandled(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"handled": true})
}

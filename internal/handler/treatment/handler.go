package treatment

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/middleware"
	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/service/rbac"
	"github.com/brightsmile/clinic-api/internal/service/treatment"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
	"github.com/brightsmile/clinic-api/pkg/httputil"
	"github.com/brightsmile/clinic-api/pkg/upload"
)

type Handler struct {
	service *treatment.Service
	uploads *upload.Store
}

func NewHandler(service *treatment.Service, uploads *upload.Store) *Handler {
	return &Handler{service: service, uploads: uploads}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	plans := r.Group("/treatment-plans", auth.RequireAuth())
	{
		plans.GET("", auth.RequirePermission(rbac.PermTreatmentView), h.ListPlans)
		plans.GET("/:id", auth.RequirePermission(rbac.PermTreatmentView), h.GetPlan)
		plans.POST("", auth.RequirePermission(rbac.PermTreatmentCreate), h.CreatePlan)
		plans.PUT("/:id", auth.RequirePermission(rbac.PermTreatmentEdit), h.UpdatePlan)
		plans.DELETE("/:id", auth.RequirePermission(rbac.PermTreatmentDelete), h.DeletePlan)
	}

	g := r.Group("/treatments", auth.RequireAuth())
	{
		g.GET("", auth.RequirePermission(rbac.PermTreatmentView), h.ListTreatments)
		g.GET("/:id", auth.RequirePermission(rbac.PermTreatmentView), h.GetTreatment)
		g.POST("", auth.RequirePermission(rbac.PermTreatmentCreate), h.CreateTreatment)
		g.PUT("/:id", auth.RequirePermission(rbac.PermTreatmentEdit), h.UpdateTreatment)
		g.DELETE("/:id", auth.RequirePermission(rbac.PermTreatmentDelete), h.DeleteTreatment)

		g.GET("/:id/attachments", auth.RequirePermission(rbac.PermTreatmentView), h.ListAttachments)
		g.POST("/:id/attachments", auth.RequirePermission(rbac.PermTreatmentEdit), h.UploadAttachment)
	}

	attachments := r.Group("/attachments", auth.RequireAuth())
	{
		attachments.DELETE("/:id", auth.RequirePermission(rbac.PermTreatmentEdit), h.DeleteAttachment)
	}
}

func (h *Handler) CreateTreatment(c *gin.Context) {
	var req model.CreateTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	t := &model.Treatment{
		PatientID:     req.PatientID,
		DentistID:     req.DentistID,
		AppointmentID: req.AppointmentID,
		PlanID:        req.PlanID,
		Procedure:     req.Procedure,
		Tooth:         req.Tooth,
		Cost:          req.Cost,
		PerformedAt:   req.PerformedAt,
		Notes:         req.Notes,
	}
	medicines := make([]*model.Medicine, 0, len(req.Medicines))
	for _, m := range req.Medicines {
		medicines = append(medicines, &model.Medicine{
			Name:     m.Name,
			Dosage:   m.Dosage,
			Duration: m.Duration,
		})
	}

	t, err := h.service.CreateTreatment(c.Request.Context(), t, medicines)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, t)
}

func (h *Handler) GetTreatment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid treatment ID", err))
		return
	}

	t, err := h.service.GetTreatment(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, t)
}

func (h *Handler) UpdateTreatment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid treatment ID", err))
		return
	}

	var req model.UpdateTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	t := &model.Treatment{
		Base:        model.Base{ID: id},
		Procedure:   req.Procedure,
		Tooth:       req.Tooth,
		Cost:        req.Cost,
		PerformedAt: req.PerformedAt,
		PlanID:      req.PlanID,
		Notes:       req.Notes,
	}

	t, err = h.service.UpdateTreatment(c.Request.Context(), middleware.CurrentUser(c), t)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, t)
}

func (h *Handler) DeleteTreatment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid treatment ID", err))
		return
	}

	if err := h.service.DeleteTreatment(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) ListTreatments(c *gin.Context) {
	var filter model.TreatmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	treatments, err := h.service.ListTreatments(c.Request.Context(), middleware.CurrentUser(c), &filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, treatments)
}

// UploadAttachment accepts a multipart form with a single "file" part and
// stores it against the treatment.
func (h *Handler) UploadAttachment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid treatment ID", err))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("missing file upload", err))
		return
	}

	path, err := h.uploads.Save(file)
	if err != nil {
		if errors.Is(err, upload.ErrTooLarge) || errors.Is(err, upload.ErrUnsupportedType) {
			httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
			return
		}
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	attachment := &model.Attachment{
		TreatmentID: id,
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		SizeBytes:   file.Size,
		StoragePath: path,
	}
	attachment, err = h.service.AddAttachment(c.Request.Context(), attachment)
	if err != nil {
		// orphaned file on disk is worse than a failed request
		_ = h.uploads.Remove(path)
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, attachment)
}

func (h *Handler) ListAttachments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid treatment ID", err))
		return
	}

	attachments, err := h.service.ListAttachments(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, attachments)
}

func (h *Handler) DeleteAttachment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid attachment ID", err))
		return
	}

	attachment, err := h.service.GetAttachment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if err := h.service.DeleteAttachment(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	_ = h.uploads.Remove(attachment.StoragePath)
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) CreatePlan(c *gin.Context) {
	var req model.CreateTreatmentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	plan := &model.TreatmentPlan{
		PatientID:   req.PatientID,
		DentistID:   req.DentistID,
		Title:       req.Title,
		Description: req.Description,
		TotalCost:   req.TotalCost,
	}
	plan, err := h.service.CreatePlan(c.Request.Context(), plan)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, plan)
}

func (h *Handler) GetPlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid plan ID", err))
		return
	}

	plan, err := h.service.GetPlan(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, plan)
}

func (h *Handler) UpdatePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid plan ID", err))
		return
	}

	var req model.UpdateTreatmentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	plan := &model.TreatmentPlan{
		Base:        model.Base{ID: id},
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		TotalCost:   req.TotalCost,
	}
	plan, err = h.service.UpdatePlan(c.Request.Context(), plan)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, plan)
}

func (h *Handler) DeletePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid plan ID", err))
		return
	}

	if err := h.service.DeletePlan(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) ListPlans(c *gin.Context) {
	var filter model.TreatmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	plans, err := h.service.ListPlans(c.Request.Context(), middleware.CurrentUser(c), &filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, plans)
}

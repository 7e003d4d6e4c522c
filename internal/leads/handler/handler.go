// Package handler exposes the leads module over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"safari_crm_backend/internal/leads/domain"
	"safari_crm_backend/internal/leads/management"
	"safari_crm_backend/internal/leads/transfer"
	"safari_crm_backend/internal/leads/transport"
	"safari_crm_backend/platform/httpkit"
	"safari_crm_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	// importMaxUploadBytes caps the multipart form held in memory.
	importMaxUploadBytes = 8 << 20
)

type Handler struct {
	svc           *management.Service
	importer      *transfer.Importer
	validate      *validator.Validator
	importMaxRows int
}

func New(svc *management.Service, importer *transfer.Importer, validate *validator.Validator, importMaxRows int) *Handler {
	return &Handler{
		svc:           svc,
		importer:      importer,
		validate:      validate,
		importMaxRows: importMaxRows,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, importLimit gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/board", h.Board)
	rg.POST("/refresh", h.Refresh)
	rg.GET("/export", h.Export)
	rg.POST("/import", importLimit, h.Import)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.PUT("/:id/assign", h.Assign)
	rg.POST("/:id/contacted", h.MarkContacted)
	rg.POST("/:id/follow-up", h.ScheduleFollowUp)
}

// RegisterAdminRoutes mounts the store-backed reporting query.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/leads", h.Query)
}

func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	list, err := h.svc.List(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, list)
}

func (h *Handler) Board(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.BoardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	board, err := h.svc.Board(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, board)
}

// Refresh reloads the caller's working set from the store.
func (h *Handler) Refresh(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	leads, err := h.svc.Load(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": leads, "total": len(leads)})
}

func (h *Handler) Query(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	list, err := h.svc.Query(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, list)
}

func (h *Handler) GetByID(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), identity.UserID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Update(c.Request.Context(), identity.UserID(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.UpdateStatus(c.Request.Context(), identity.UserID(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) Assign(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.svc.Assign(c.Request.Context(), identity.UserID(), id, req.AssigneeID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity.UserID(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) MarkContacted(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.svc.MarkContacted(c.Request.Context(), identity.UserID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) ScheduleFollowUp(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.ScheduleFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.ScheduleFollowUp(c.Request.Context(), identity.UserID(), id, req.FollowUpAt, req.Notes)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// Import accepts a multipart CSV upload. The file is parsed in full
// before any row is created; row outcomes come back in the report.
func (h *Handler) Import(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := c.Request.ParseMultipartForm(importMaxUploadBytes); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "expected a multipart file upload", nil)
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing file field", nil)
		return
	}
	defer file.Close()

	rows, err := transfer.ParseLeads(file, h.importMaxRows)
	if httpkit.HandleError(c, err) {
		return
	}

	actorID := identity.UserID()

	// Mirror each created lead into the uploader's board session. The
	// copy keeps the shared importer free of per-request state.
	importer := *h.importer
	importer.OnCreated = func(lead domain.Lead) {
		h.svc.Insert(actorID, lead)
	}

	report := importer.Run(c.Request.Context(), actorID, rows)
	httpkit.OK(c, report)
}

// Export streams the caller's current working set as CSV.
func (h *Handler) Export(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	leads, err := h.svc.WorkingSet(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	filename := transfer.ExportFilename(time.Now())
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := transfer.ExportLeads(c.Writer, leads); err != nil {
		// Headers are already out; log via gin's error sink.
		_ = c.Error(err)
	}
}

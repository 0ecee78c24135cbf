package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/estatehub/internal/errors"
	"github.com/stwalsh4118/estatehub/internal/middleware"
	"github.com/stwalsh4118/estatehub/internal/models"
	"github.com/stwalsh4118/estatehub/internal/services"
)

// ReportHandler handles listing reports and their adjudication.
type ReportHandler struct {
	service services.ModerationService
}

// NewReportHandler creates a new ReportHandler instance.
func NewReportHandler(service services.ModerationService) *ReportHandler {
	return &ReportHandler{
		service: service,
	}
}

// FileReportRequest is the body of a new report against a listing.
type FileReportRequest struct {
	Reason  string `json:"reason" binding:"required,max=200"`
	Details string `json:"details" binding:"max=2000"`
}

// AdjudicateRequest settles a pending report.
type AdjudicateRequest struct {
	Outcome models.ReportStatus `json:"outcome" binding:"required,oneof=resolved rejected"`
	Note    string              `json:"note" binding:"max=2000"`
}

// ReportsQuery represents the query parameters for the report queue.
type ReportsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending resolved rejected"`
}

// ReportResponse represents the response for single-report endpoints.
type ReportResponse struct {
	Report *models.Report `json:"report"`
}

// ReportListResponse represents the response for the report queue.
type ReportListResponse struct {
	Reports []*models.Report `json:"reports"`
	Count   int              `json:"count"`
}

// File handles POST /api/v1/properties/:id/reports.
func (h *ReportHandler) File(c *gin.Context) {
	var req FileReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid report")
		return
	}

	report, err := h.service.FileReport(c.Request.Context(), middleware.GetActor(c).ID, c.Param("id"), req.Reason, req.Details)
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to file report")
		return
	}
	c.JSON(http.StatusCreated, ReportResponse{Report: report})
}

// List handles GET /api/v1/admin/reports.
func (h *ReportHandler) List(c *gin.Context) {
	var q ReportsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierrors.BindError(c, err, "Invalid query parameters")
		return
	}

	var status *models.ReportStatus
	if q.Status != "" {
		s := models.ReportStatus(q.Status)
		status = &s
	}

	reports := h.service.QueryReports(c.Request.Context(), status)
	c.JSON(http.StatusOK, ReportListResponse{Reports: reports, Count: len(reports)})
}

// Adjudicate handles POST /api/v1/admin/reports/:id/adjudicate.
// A report can be adjudicated once; later attempts get 409.
func (h *ReportHandler) Adjudicate(c *gin.Context) {
	var req AdjudicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid adjudication")
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Processing adjudication", map[string]interface{}{
			"report_id": c.Param("id"),
			"outcome":   req.Outcome,
		})
	}

	report, err := h.service.Adjudicate(c.Request.Context(), middleware.GetActor(c).ID, c.Param("id"), req.Outcome, req.Note)
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to adjudicate report")
		return
	}
	c.JSON(http.StatusOK, ReportResponse{Report: report})
}

package handler

import (
	"github.com/gin-gonic/gin"
	auditapp "github.com/rentquote/backend/internal/application/audit"
	reportapp "github.com/rentquote/backend/internal/application/report"
)

// ReportHandler serves the dashboard statistics
type ReportHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(dashboardService *reportapp.DashboardService) *ReportHandler {
	return &ReportHandler{dashboardService: dashboardService}
}

// Dashboard godoc
// @ID           getDashboard
// @Summary      Dashboard statistics
// @Description  Occupancy, rent collection, outstanding balance, quotation pipeline and expiring contracts
// @Tags         reports
// @Produce      json
// @Param        month query string false "Month (YYYY-MM), defaults to the current month"
// @Success      200 {object} APIResponse[report.Dashboard]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req reportapp.DashboardRequest
	if !h.bindQuery(c, &req) {
		return
	}

	dashboard, err := h.dashboardService.Dashboard(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// AuditHandler serves the audit trail
type AuditHandler struct {
	BaseHandler
	auditService *auditapp.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *auditapp.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List godoc
// @ID           listAuditLogs
// @Summary      List audit log entries
// @Description  Domain events recorded for the account, newest first
// @Tags         audit-logs
// @Produce      json
// @Param        event_type query string false "Event type"
// @Param        aggregate_type query string false "Aggregate type"
// @Param        aggregate_id query string false "Aggregate ID" format(uuid)
// @Param        date_from query string false "From (YYYY-MM-DD)"
// @Param        date_to query string false "To (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15) maximum(100)
// @Success      200 {object} APIResponse[[]auditapp.LogResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter auditapp.LogListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	logs, total, err := h.auditService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, logs, total, filter.ToDomain())
}

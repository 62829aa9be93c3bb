package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/supplychain/backend/internal/application/report"
)

// AnalyticsHandler serves the cross-domain analytics views
type AnalyticsHandler struct {
	BaseHandler
	service     *reportapp.ReportService
	defaultDays int
}

// NewAnalyticsHandler creates an AnalyticsHandler. A non-positive
// defaultDays falls back to 30.
func NewAnalyticsHandler(service *reportapp.ReportService, defaultDays int) *AnalyticsHandler {
	if defaultDays <= 0 {
		defaultDays = reportapp.DefaultAnalyticsDays
	}
	return &AnalyticsHandler{service: service, defaultDays: defaultDays}
}

// DashboardSummary returns headline counts across every domain
// GET /analytics/dashboard-summary
func (h *AnalyticsHandler) DashboardSummary(c *gin.Context) {
	summary, err := h.service.DashboardSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// InventoryAnalytics returns stock rankings, low-stock alerts and recent
// ledger entries
// GET /analytics/inventory-analytics?days=30
func (h *AnalyticsHandler) InventoryAnalytics(c *gin.Context) {
	days, err := parseDays(c, h.defaultDays)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	view, err := h.service.InventoryAnalytics(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// FinancialAnalytics returns revenue trends and expense and payment
// breakdowns
// GET /analytics/financial-analytics?days=30
func (h *AnalyticsHandler) FinancialAnalytics(c *gin.Context) {
	days, err := parseDays(c, h.defaultDays)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	view, err := h.service.FinancialAnalytics(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

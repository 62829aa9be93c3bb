package handler

import (
	"github.com/gin-gonic/gin"
	monitoringapp "github.com/supplychain/backend/internal/application/monitoring"
)

// MonitoringHandler serves the health check and the monitoring summaries
type MonitoringHandler struct {
	BaseHandler
	health      *monitoringapp.HealthService
	summaries   *monitoringapp.SummaryService
	defaultDays int
}

// NewMonitoringHandler creates a MonitoringHandler. A non-positive
// defaultDays falls back to 7.
func NewMonitoringHandler(health *monitoringapp.HealthService, summaries *monitoringapp.SummaryService, defaultDays int) *MonitoringHandler {
	if defaultDays <= 0 {
		defaultDays = monitoringapp.DefaultSummaryDays
	}
	return &MonitoringHandler{health: health, summaries: summaries, defaultDays: defaultDays}
}

// HealthCheck probes the database, the cache and the host. Degraded
// components are reported in the body; the status code stays 200.
// GET /optimization/monitoring/health-check
func (h *MonitoringHandler) HealthCheck(c *gin.Context) {
	h.Success(c, h.health.Check(c.Request.Context()))
}

// PerformanceSummary averages the recorded performance observations
// GET /optimization/monitoring/performance-summary?days=7
func (h *MonitoringHandler) PerformanceSummary(c *gin.Context) {
	days, err := parseDays(c, h.defaultDays)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	view, err := h.summaries.PerformanceSummary(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// SecuritySummary counts security events and lists recent critical ones
// GET /optimization/monitoring/security-summary?days=7
func (h *MonitoringHandler) SecuritySummary(c *gin.Context) {
	days, err := parseDays(c, h.defaultDays)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	view, err := h.summaries.SecuritySummary(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

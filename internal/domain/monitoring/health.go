package monitoring

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// Component is a part of the system whose health is checked
type Component string

const (
	ComponentDatabase    Component = "DATABASE"
	ComponentRedis       Component = "REDIS"
	ComponentAPI         Component = "API"
	ComponentWorker      Component = "WORKER"
	ComponentStorage     Component = "STORAGE"
	ComponentExternalAPI Component = "EXTERNAL_API"
)

// Status is a health verdict
type Status string

const (
	StatusHealthy  Status = "HEALTHY"
	StatusWarning  Status = "WARNING"
	StatusCritical Status = "CRITICAL"
	StatusOffline  Status = "OFFLINE"
)

// rank orders statuses by severity
func (s Status) rank() int {
	switch s {
	case StatusWarning:
		return 1
	case StatusCritical, StatusOffline:
		return 2
	default:
		return 0
	}
}

// Worst returns the most severe status, HEALTHY when none are given.
// OFFLINE counts as CRITICAL.
func Worst(statuses ...Status) Status {
	worst := StatusHealthy
	for _, s := range statuses {
		if s.rank() > worst.rank() {
			worst = s
		}
	}
	if worst == StatusOffline {
		return StatusCritical
	}
	return worst
}

// Usage thresholds for host resources, in percent
const (
	UsageWarning  = 80.0
	UsageCritical = 95.0
)

// UsageStatus classifies resource usage percentages against the thresholds
func UsageStatus(percents ...float64) Status {
	status := StatusHealthy
	for _, p := range percents {
		switch {
		case p >= UsageCritical:
			return StatusCritical
		case p >= UsageWarning:
			status = StatusWarning
		}
	}
	return status
}

// SystemHealth is the recorded result of one component check.
// ResponseTime is in milliseconds.
type SystemHealth struct {
	shared.BaseEntity
	Component    Component        `gorm:"type:varchar(20);not null;index" json:"component" binding:"required,oneof=DATABASE REDIS API WORKER STORAGE EXTERNAL_API"`
	Status       Status           `gorm:"type:varchar(20);not null;index" json:"status" binding:"required,oneof=HEALTHY WARNING CRITICAL OFFLINE"`
	ResponseTime *decimal.Decimal `gorm:"type:decimal(10,4)" json:"response_time"`
	ErrorMessage string           `gorm:"type:text" json:"error_message"`
	LastCheck    time.Time        `gorm:"not null;index" json:"last_check"`
	NextCheck    *time.Time       `json:"next_check"`
	Metadata     datatypes.JSON   `json:"metadata"`
}

// TableName returns the table name for GORM
func (SystemHealth) TableName() string {
	return "system_health"
}

// Stamp implements shared.Stamper
func (h *SystemHealth) Stamp(_ uuid.UUID, now time.Time) {
	h.LastCheck = now
}

// Validate implements shared.Validatable
func (h *SystemHealth) Validate() error {
	return shared.NewRules().
		NonNegativePtr("response_time", h.ResponseTime).
		JSON("metadata", h.Metadata, false).
		Err()
}

// RecommendationType is the area a recommendation targets
type RecommendationType string

const (
	RecommendDatabase    RecommendationType = "DATABASE"
	RecommendCache       RecommendationType = "CACHE"
	RecommendAPI         RecommendationType = "API"
	RecommendSecurity    RecommendationType = "SECURITY"
	RecommendPerformance RecommendationType = "PERFORMANCE"
	RecommendScalability RecommendationType = "SCALABILITY"
)

// Recommendation is a curated optimization suggestion
type Recommendation struct {
	shared.BaseEntity
	shared.Authored
	RecommendationType RecommendationType `gorm:"type:varchar(20);not null;index" json:"recommendation_type" binding:"required,oneof=DATABASE CACHE API SECURITY PERFORMANCE SCALABILITY"`
	Priority           Severity           `gorm:"type:varchar(10);not null;index" json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Title              string             `gorm:"type:varchar(200);not null" json:"title" binding:"required,max=200"`
	Description        string             `gorm:"type:text;not null" json:"description" binding:"required"`
	Impact             string             `gorm:"type:text" json:"impact"`
	Implementation     string             `gorm:"type:text" json:"implementation"`
	EstimatedEffort    string             `gorm:"type:varchar(50)" json:"estimated_effort" binding:"max=50"`
	IsImplemented      bool               `gorm:"not null;default:false;index" json:"is_implemented"`
	ImplementedAt      *time.Time         `json:"implemented_at"`
	ImplementedBy      *uuid.UUID         `gorm:"type:uuid" json:"implemented_by"`
}

// TableName returns the table name for GORM
func (Recommendation) TableName() string {
	return "optimization_recommendations"
}

// Normalize implements shared.Normalizer
func (r *Recommendation) Normalize() {
	if r.Priority == "" {
		r.Priority = SeverityMedium
	}
}

// Inherit implements shared.Inheritor
func (r *Recommendation) Inherit(prev *Recommendation) {
	if r.IsImplemented && prev.IsImplemented {
		if r.ImplementedAt == nil {
			r.ImplementedAt = prev.ImplementedAt
		}
		if r.ImplementedBy == nil {
			r.ImplementedBy = prev.ImplementedBy
		}
	}
}

// Stamp implements shared.Stamper
func (r *Recommendation) Stamp(actor uuid.UUID, now time.Time) {
	if !r.IsImplemented {
		return
	}
	if r.ImplementedAt == nil {
		r.ImplementedAt = &now
	}
	if r.ImplementedBy == nil && actor != uuid.Nil {
		r.ImplementedBy = &actor
	}
}

// Repositories groups the persistence ports of the monitoring domain
type Repositories struct {
	PerformanceMetrics  shared.Repository[PerformanceMetric]
	SecurityEvents      shared.Repository[SecurityEvent]
	CachePerformance    shared.Repository[CachePerformance]
	DatabasePerformance shared.Repository[DatabasePerformance]
	RateLimitLogs       shared.Repository[RateLimitLog]
	SystemHealth        shared.Repository[SystemHealth]
	Recommendations     shared.Repository[Recommendation]
}

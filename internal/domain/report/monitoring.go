package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/monitoring"
)

// ApplicationStats averages request-level samples in a window
type ApplicationStats struct {
	AverageResponseTime decimal.Decimal `json:"average_response_time"`
	ErrorRate           decimal.Decimal `json:"error_rate"`
}

// CacheStats averages cache samples in a window
type CacheStats struct {
	AverageHitRate      decimal.Decimal `json:"average_hit_rate"`
	AverageResponseTime decimal.Decimal `json:"average_response_time"`
}

// DatabaseStats averages database samples in a window
type DatabaseStats struct {
	AverageExecutionTime decimal.Decimal `json:"average_execution_time"`
	SlowQueryCount       int64           `json:"slow_query_count"`
}

// PerformanceSummary is the performance view over a window
type PerformanceSummary struct {
	Period      Period           `json:"period"`
	Performance ApplicationStats `json:"performance"`
	Cache       CacheStats       `json:"cache"`
	Database    DatabaseStats    `json:"database"`
}

// EventTypeCount is the number of security events of one type
type EventTypeCount struct {
	EventType string `json:"event_type"`
	Count     int64  `json:"count"`
}

// SeverityCount is the number of security events of one severity
type SeverityCount struct {
	Severity string `json:"severity"`
	Count    int64  `json:"count"`
}

// SecuritySummary is the security view over a window
type SecuritySummary struct {
	Period               Period                     `json:"period"`
	EventsByType         []EventTypeCount           `json:"events_by_type"`
	EventsBySeverity     []SeverityCount            `json:"events_by_severity"`
	RecentCriticalEvents []monitoring.SecurityEvent `json:"recent_critical_events"`
}

// MonitoringRepository runs the aggregate queries behind the monitoring views
type MonitoringRepository interface {
	AverageMetric(ctx context.Context, metricType monitoring.MetricType, since time.Time) (decimal.Decimal, error)
	CacheStats(ctx context.Context, since time.Time) (CacheStats, error)
	DatabaseStats(ctx context.Context, since time.Time) (DatabaseStats, error)
	EventsByType(ctx context.Context, since time.Time) ([]EventTypeCount, error)
	EventsBySeverity(ctx context.Context, since time.Time) ([]SeverityCount, error)
	RecentEvents(ctx context.Context, severity monitoring.Severity, since time.Time, limit int) ([]monitoring.SecurityEvent, error)
}

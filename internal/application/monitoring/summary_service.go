package monitoring

import (
	"context"
	"errors"
	"time"

	"github.com/supplychain/backend/internal/domain/monitoring"
	"github.com/supplychain/backend/internal/domain/report"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Summary defaults
const (
	DefaultSummaryDays   = 7
	RecentCriticalEvents = 5
)

// SummaryService builds the performance and security views over the
// observation logs
type SummaryService struct {
	repo report.MonitoringRepository
	now  func() time.Time
}

// NewSummaryService creates a SummaryService
func NewSummaryService(repo report.MonitoringRepository) *SummaryService {
	return &SummaryService{repo: repo, now: time.Now}
}

// PerformanceSummary averages the application, cache and database samples
// of the last days days
func (s *SummaryService) PerformanceSummary(ctx context.Context, days int) (*report.PerformanceSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "monitoring", "performance_summary", attribute.Int("days", days))
	defer span.End()

	if err := report.ValidateDays(days); err != nil {
		return nil, err
	}
	now := s.now()
	since := now.AddDate(0, 0, -days)
	view := &report.PerformanceSummary{Period: report.NewPeriod(now, days)}

	var err error
	if view.Performance.AverageResponseTime, err = s.repo.AverageMetric(ctx, monitoring.MetricResponseTime, since); err != nil {
		return nil, fail(span, "performance summary", err)
	}
	if view.Performance.ErrorRate, err = s.repo.AverageMetric(ctx, monitoring.MetricErrorRate, since); err != nil {
		return nil, fail(span, "performance summary", err)
	}
	if view.Cache, err = s.repo.CacheStats(ctx, since); err != nil {
		return nil, fail(span, "performance summary", err)
	}
	if view.Database, err = s.repo.DatabaseStats(ctx, since); err != nil {
		return nil, fail(span, "performance summary", err)
	}
	return view, nil
}

// SecuritySummary counts the security events of the last days days and
// lists the most recent critical ones
func (s *SummaryService) SecuritySummary(ctx context.Context, days int) (*report.SecuritySummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "monitoring", "security_summary", attribute.Int("days", days))
	defer span.End()

	if err := report.ValidateDays(days); err != nil {
		return nil, err
	}
	now := s.now()
	since := now.AddDate(0, 0, -days)
	view := &report.SecuritySummary{Period: report.NewPeriod(now, days)}

	var err error
	if view.EventsByType, err = s.repo.EventsByType(ctx, since); err != nil {
		return nil, fail(span, "security summary", err)
	}
	if view.EventsBySeverity, err = s.repo.EventsBySeverity(ctx, since); err != nil {
		return nil, fail(span, "security summary", err)
	}
	if view.RecentCriticalEvents, err = s.repo.RecentEvents(ctx, monitoring.SeverityCritical, since, RecentCriticalEvents); err != nil {
		return nil, fail(span, "security summary", err)
	}
	return view, nil
}

func fail(span trace.Span, view string, err error) error {
	telemetry.RecordError(span, err)
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return &report.AggregationError{View: view, Err: err}
}

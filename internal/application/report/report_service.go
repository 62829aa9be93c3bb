package report

import (
	"context"
	"errors"
	"time"

	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/report"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Analytics limits
const (
	DefaultAnalyticsDays    = 30
	TopProductsLimit        = 10
	RecentTransactionsLimit = 20
)

// ReportService builds the cross-domain analytics views
type ReportService struct {
	repo report.AnalyticsRepository
	now  func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(repo report.AnalyticsRepository) *ReportService {
	return &ReportService{repo: repo, now: time.Now}
}

// DashboardSummary returns headline counts across every domain
func (s *ReportService) DashboardSummary(ctx context.Context) (*report.DashboardSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "analytics", "dashboard_summary")
	defer span.End()

	now := s.now()
	summary := &report.DashboardSummary{LastUpdated: now}

	err := s.collect(
		func() (err error) {
			summary.Inventory, err = s.repo.InventoryStats(ctx, inventory.LowStockThreshold)
			return err
		},
		func() (err error) {
			summary.Orders, err = s.repo.OrderStats(ctx, now)
			return err
		},
		func() (err error) {
			summary.Customers, err = s.repo.CustomerStats(ctx)
			return err
		},
		func() (err error) {
			summary.Finance, err = s.repo.FinanceStats(ctx)
			return err
		},
		func() (err error) {
			summary.Logistics, err = s.repo.LogisticsStats(ctx)
			return err
		},
	)
	if err != nil {
		return nil, s.fail(span, "dashboard summary", err)
	}
	return summary, nil
}

// InventoryAnalytics returns stock rankings, low-stock alerts and the
// ledger entries of the last days days
func (s *ReportService) InventoryAnalytics(ctx context.Context, days int) (*report.InventoryAnalytics, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "analytics", "inventory_analytics", attribute.Int("days", days))
	defer span.End()

	if err := report.ValidateDays(days); err != nil {
		return nil, err
	}
	now := s.now()
	view := &report.InventoryAnalytics{Period: report.NewPeriod(now, days)}
	since := report.WindowStart(now, days)

	err := s.collect(
		func() (err error) {
			view.TopProducts, err = s.repo.TopProducts(ctx, TopProductsLimit)
			return err
		},
		func() (err error) {
			view.LowStockAlerts, err = s.repo.LowStockAlerts(ctx, inventory.LowStockThreshold)
			return err
		},
		func() (err error) {
			view.RecentTransactions, err = s.repo.RecentTransactions(ctx, since, RecentTransactionsLimit)
			return err
		},
	)
	if err != nil {
		return nil, s.fail(span, "inventory analytics", err)
	}
	return view, nil
}

// FinancialAnalytics returns revenue, expense and payment breakdowns for
// the last days days
func (s *ReportService) FinancialAnalytics(ctx context.Context, days int) (*report.FinancialAnalytics, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "analytics", "financial_analytics", attribute.Int("days", days))
	defer span.End()

	if err := report.ValidateDays(days); err != nil {
		return nil, err
	}
	view := &report.FinancialAnalytics{Period: report.NewPeriod(s.now(), days)}
	since := view.Period.StartDate

	err := s.collect(
		func() (err error) {
			view.RevenueTrends, err = s.repo.RevenueTrends(ctx, since)
			return err
		},
		func() (err error) {
			view.ExpenseBreakdown, err = s.repo.ExpenseBreakdown(ctx, since)
			return err
		},
		func() (err error) {
			view.PaymentMethods, err = s.repo.PaymentMethods(ctx, since)
			return err
		},
	)
	if err != nil {
		return nil, s.fail(span, "financial analytics", err)
	}
	return view, nil
}

// collect runs the queries of one view in order and stops at the first
// failure
func (s *ReportService) collect(queries ...func() error) error {
	for _, q := range queries {
		if err := q(); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReportService) fail(span trace.Span, view string, err error) error {
	telemetry.RecordError(span, err)
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return &report.AggregationError{View: view, Err: err}
}

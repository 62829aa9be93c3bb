package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/report"
	"github.com/supplychain/backend/internal/domain/shared"
)

// MockAnalyticsRepository is a mock implementation of AnalyticsRepository
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) InventoryStats(ctx context.Context, threshold int) (report.InventoryStats, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).(report.InventoryStats), args.Error(1)
}

func (m *MockAnalyticsRepository) OrderStats(ctx context.Context, now time.Time) (report.OrderStats, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(report.OrderStats), args.Error(1)
}

func (m *MockAnalyticsRepository) CustomerStats(ctx context.Context) (report.CustomerStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(report.CustomerStats), args.Error(1)
}

func (m *MockAnalyticsRepository) FinanceStats(ctx context.Context) (report.FinanceStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(report.FinanceStats), args.Error(1)
}

func (m *MockAnalyticsRepository) LogisticsStats(ctx context.Context) (report.LogisticsStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(report.LogisticsStats), args.Error(1)
}

func (m *MockAnalyticsRepository) TopProducts(ctx context.Context, limit int) ([]report.TopProduct, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]report.TopProduct), args.Error(1)
}

func (m *MockAnalyticsRepository) LowStockAlerts(ctx context.Context, threshold int) ([]report.LowStockAlert, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]report.LowStockAlert), args.Error(1)
}

func (m *MockAnalyticsRepository) RecentTransactions(ctx context.Context, since time.Time, limit int) ([]report.RecentTransaction, error) {
	args := m.Called(ctx, since, limit)
	return args.Get(0).([]report.RecentTransaction), args.Error(1)
}

func (m *MockAnalyticsRepository) RevenueTrends(ctx context.Context, since shared.Date) ([]report.RevenuePoint, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]report.RevenuePoint), args.Error(1)
}

func (m *MockAnalyticsRepository) ExpenseBreakdown(ctx context.Context, since shared.Date) ([]report.ExpenseSlice, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]report.ExpenseSlice), args.Error(1)
}

func (m *MockAnalyticsRepository) PaymentMethods(ctx context.Context, since shared.Date) ([]report.PaymentMethodTotal, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]report.PaymentMethodTotal), args.Error(1)
}

var fixedNow = time.Date(2026, 5, 31, 15, 30, 0, 0, time.UTC)

func newService(repo report.AnalyticsRepository) *ReportService {
	s := NewReportService(repo)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestReportService_DashboardSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("assembles every domain", func(t *testing.T) {
		repo := new(MockAnalyticsRepository)
		repo.On("InventoryStats", mock.Anything, 10).Return(report.InventoryStats{TotalProducts: 2, TotalInventoryValue: decimal.NewFromInt(58200)}, nil)
		repo.On("OrderStats", mock.Anything, fixedNow).Return(report.OrderStats{TotalOrders: 4, OrdersLast7Days: 1}, nil)
		repo.On("CustomerStats", mock.Anything).Return(report.CustomerStats{TotalCustomers: 3, ActiveCustomers: 2}, nil)
		repo.On("FinanceStats", mock.Anything).Return(report.FinanceStats{TotalInvoices: 1}, nil)
		repo.On("LogisticsStats", mock.Anything).Return(report.LogisticsStats{TotalDrivers: 5, ActiveDrivers: 4}, nil)

		summary, err := newService(repo).DashboardSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), summary.Inventory.TotalProducts)
		assert.Equal(t, int64(4), summary.Orders.TotalOrders)
		assert.Equal(t, int64(2), summary.Customers.ActiveCustomers)
		assert.Equal(t, int64(4), summary.Logistics.ActiveDrivers)
		assert.Equal(t, fixedNow, summary.LastUpdated)
		repo.AssertExpectations(t)
	})

	t.Run("one failing query fails the summary", func(t *testing.T) {
		repo := new(MockAnalyticsRepository)
		repo.On("InventoryStats", mock.Anything, 10).Return(report.InventoryStats{}, nil)
		repo.On("OrderStats", mock.Anything, fixedNow).Return(report.OrderStats{}, errors.New("relation \"orders\" does not exist"))

		summary, err := newService(repo).DashboardSummary(ctx)
		assert.Nil(t, summary)

		var aggErr *report.AggregationError
		require.ErrorAs(t, err, &aggErr)
		assert.Equal(t, `Failed to generate dashboard summary: relation "orders" does not exist`, err.Error())
		repo.AssertNotCalled(t, "CustomerStats", mock.Anything)
	})
}

func TestReportService_InventoryAnalytics(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAnalyticsRepository)
	since := time.Date(2026, 5, 17, 0, 0, 0, 0, time.UTC)
	repo.On("TopProducts", mock.Anything, TopProductsLimit).Return([]report.TopProduct{{Name: "Laptop", TotalQuantity: 58}}, nil)
	repo.On("LowStockAlerts", mock.Anything, 10).Return([]report.LowStockAlert{}, nil)
	repo.On("RecentTransactions", mock.Anything, since, RecentTransactionsLimit).Return([]report.RecentTransaction{}, nil)

	view, err := newService(repo).InventoryAnalytics(ctx, 14)
	require.NoError(t, err)
	assert.Len(t, view.TopProducts, 1)
	assert.Equal(t, 14, view.Period.Days)
	assert.Equal(t, "2026-05-17", view.Period.StartDate.String())
	assert.Equal(t, "2026-05-31", view.Period.EndDate.String())
	repo.AssertExpectations(t)
}

func TestReportService_FinancialAnalytics(t *testing.T) {
	ctx := context.Background()
	start := shared.NewDate(fixedNow).AddDays(-30)

	repo := new(MockAnalyticsRepository)
	repo.On("RevenueTrends", mock.Anything, start).Return([]report.RevenuePoint{}, nil)
	repo.On("ExpenseBreakdown", mock.Anything, start).Return([]report.ExpenseSlice{{Category: "RENT", TotalAmount: decimal.NewFromInt(2000)}}, nil)
	repo.On("PaymentMethods", mock.Anything, start).Return([]report.PaymentMethodTotal{}, errors.New("timeout"))

	_, err := newService(repo).FinancialAnalytics(ctx, DefaultAnalyticsDays)
	require.Error(t, err)
	assert.Equal(t, "Failed to generate financial analytics: timeout", err.Error())
}

func TestValidateDays(t *testing.T) {
	svc := newService(new(MockAnalyticsRepository))
	for _, days := range []int{0, -3} {
		_, err := svc.InventoryAnalytics(context.Background(), days)
		assert.ErrorIs(t, err, shared.ErrValidation)

		_, err = svc.FinancialAnalytics(context.Background(), days)
		assert.ErrorIs(t, err, shared.ErrValidation)
	}
	assert.NoError(t, report.ValidateDays(1))
}

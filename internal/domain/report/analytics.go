// Package report defines the read models of the cross-domain summaries
// and the queries that feed them.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
)

// Period is the window a summary covers
type Period struct {
	StartDate shared.Date `json:"start_date"`
	EndDate   shared.Date `json:"end_date"`
	Days      int         `json:"days"`
}

// NewPeriod returns the window of the given number of days ending on now
func NewPeriod(now time.Time, days int) Period {
	end := shared.NewDate(now)
	return Period{StartDate: end.AddDays(-days), EndDate: end, Days: days}
}

// WindowStart is midnight of the first calendar day of a days-long window
// ending on now's date. Rows are compared by calendar date, so the whole
// first day counts.
func WindowStart(now time.Time, days int) time.Time {
	return shared.NewDate(now).AddDays(-days).Time
}

// InventoryStats summarizes products and stock value
type InventoryStats struct {
	TotalProducts       int64           `json:"total_products"`
	LowStockProducts    int64           `json:"low_stock_products"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
}

// OrderStats counts orders overall and over recent windows
type OrderStats struct {
	TotalOrders      int64 `json:"total_orders"`
	OrdersLast30Days int64 `json:"orders_last_30_days"`
	OrdersLast7Days  int64 `json:"orders_last_7_days"`
}

// CustomerStats counts order-desk customers
type CustomerStats struct {
	TotalCustomers  int64 `json:"total_customers"`
	ActiveCustomers int64 `json:"active_customers"`
}

// FinanceStats summarizes invoicing. TotalRevenue sums PAID invoices and
// PendingPayments sums SENT ones.
type FinanceStats struct {
	TotalInvoices   int64           `json:"total_invoices"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	PendingPayments decimal.Decimal `json:"pending_payments"`
}

// LogisticsStats counts the fleet
type LogisticsStats struct {
	TotalVehicles int64 `json:"total_vehicles"`
	TotalDrivers  int64 `json:"total_drivers"`
	ActiveDrivers int64 `json:"active_drivers"`
}

// DashboardSummary is the headline view across all domains
type DashboardSummary struct {
	Inventory   InventoryStats `json:"inventory"`
	Orders      OrderStats     `json:"orders"`
	Customers   CustomerStats  `json:"customers"`
	Finance     FinanceStats   `json:"finance"`
	Logistics   LogisticsStats `json:"logistics"`
	LastUpdated time.Time      `json:"last_updated"`
}

// UncategorizedName labels products without a category
const UncategorizedName = "Uncategorized"

// TopProduct is a product ranked by quantity on hand across warehouses
type TopProduct struct {
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku"`
	Category      string    `json:"category"`
	TotalQuantity int64     `json:"total_quantity"`
}

// LowStockAlert is a stock level at or below the low-stock threshold
type LowStockAlert struct {
	ID              uuid.UUID `json:"id"`
	Product         string    `json:"product"`
	Warehouse       string    `json:"warehouse"`
	CurrentQuantity int       `json:"current_quantity"`
	Category        string    `json:"category"`
}

// RecentTransaction is a ledger entry in the analytics window
type RecentTransaction struct {
	ID              uuid.UUID   `json:"id"`
	Product         string      `json:"product"`
	Warehouse       string      `json:"warehouse"`
	TransactionType string      `json:"transaction_type"`
	Quantity        int         `json:"quantity"`
	Date            shared.Date `json:"date"`
	CreatedAt       time.Time   `json:"-"`
}

// InventoryAnalytics is the stock-focused analytics view
type InventoryAnalytics struct {
	TopProducts        []TopProduct        `json:"top_products"`
	LowStockAlerts     []LowStockAlert     `json:"low_stock_alerts"`
	RecentTransactions []RecentTransaction `json:"recent_transactions"`
	Period             Period              `json:"period"`
}

// RevenuePoint is revenue from paid invoices on one invoice date
type RevenuePoint struct {
	Date   shared.Date     `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// ExpenseSlice is total spend in one expense category
type ExpenseSlice struct {
	Category    string          `json:"category"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PaymentMethodTotal is the volume received through one payment method
type PaymentMethodTotal struct {
	PaymentMethod string          `json:"payment_method"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Count         int64           `json:"count"`
}

// FinancialAnalytics is the money-focused analytics view
type FinancialAnalytics struct {
	RevenueTrends    []RevenuePoint       `json:"revenue_trends"`
	ExpenseBreakdown []ExpenseSlice       `json:"expense_breakdown"`
	PaymentMethods   []PaymentMethodTotal `json:"payment_methods"`
	Period           Period               `json:"period"`
}

// AnalyticsRepository runs the aggregate queries behind the analytics views
type AnalyticsRepository interface {
	InventoryStats(ctx context.Context, lowStockThreshold int) (InventoryStats, error)
	OrderStats(ctx context.Context, now time.Time) (OrderStats, error)
	CustomerStats(ctx context.Context) (CustomerStats, error)
	FinanceStats(ctx context.Context) (FinanceStats, error)
	LogisticsStats(ctx context.Context) (LogisticsStats, error)

	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	LowStockAlerts(ctx context.Context, threshold int) ([]LowStockAlert, error)
	RecentTransactions(ctx context.Context, since time.Time, limit int) ([]RecentTransaction, error)

	RevenueTrends(ctx context.Context, since shared.Date) ([]RevenuePoint, error)
	ExpenseBreakdown(ctx context.Context, since shared.Date) ([]ExpenseSlice, error)
	PaymentMethods(ctx context.Context, since shared.Date) ([]PaymentMethodTotal, error)
}

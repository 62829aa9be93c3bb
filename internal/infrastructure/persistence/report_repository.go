package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/finance"
	"github.com/supplychain/backend/internal/domain/monitoring"
	"github.com/supplychain/backend/internal/domain/report"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAnalyticsRepository implements report.AnalyticsRepository using GORM
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewGormAnalyticsRepository creates a new GormAnalyticsRepository
func NewGormAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

// InventoryStats counts products and values stock at unit price
func (r *GormAnalyticsRepository) InventoryStats(ctx context.Context, lowStockThreshold int) (report.InventoryStats, error) {
	var stats report.InventoryStats
	db := r.db.WithContext(ctx)

	if err := db.Table("products").Count(&stats.TotalProducts).Error; err != nil {
		return stats, fmt.Errorf("count products: %w", err)
	}
	if err := db.Table("inventory_levels").Where("quantity <= ?", lowStockThreshold).
		Count(&stats.LowStockProducts).Error; err != nil {
		return stats, fmt.Errorf("count low stock: %w", err)
	}

	var value struct{ Total decimal.Decimal }
	if err := db.Table("inventory_levels il").
		Select("COALESCE(SUM(il.quantity * p.unit_price), 0) AS total").
		Joins("JOIN products p ON p.id = il.product_id").
		Scan(&value).Error; err != nil {
		return stats, fmt.Errorf("sum inventory value: %w", err)
	}
	stats.TotalInventoryValue = value.Total
	return stats, nil
}

// OrderStats counts all orders and those created on or after the
// calendar day 30 and 7 days before now
func (r *GormAnalyticsRepository) OrderStats(ctx context.Context, now time.Time) (report.OrderStats, error) {
	var stats report.OrderStats
	db := r.db.WithContext(ctx)

	if err := db.Table("orders").Count(&stats.TotalOrders).Error; err != nil {
		return stats, fmt.Errorf("count orders: %w", err)
	}
	if err := db.Table("orders").Where("created_at >= ?", report.WindowStart(now, 30)).
		Count(&stats.OrdersLast30Days).Error; err != nil {
		return stats, fmt.Errorf("count orders in 30 days: %w", err)
	}
	if err := db.Table("orders").Where("created_at >= ?", report.WindowStart(now, 7)).
		Count(&stats.OrdersLast7Days).Error; err != nil {
		return stats, fmt.Errorf("count orders in 7 days: %w", err)
	}
	return stats, nil
}

// CustomerStats counts order-desk customers
func (r *GormAnalyticsRepository) CustomerStats(ctx context.Context) (report.CustomerStats, error) {
	var stats report.CustomerStats
	db := r.db.WithContext(ctx)

	if err := db.Table("customers").Count(&stats.TotalCustomers).Error; err != nil {
		return stats, fmt.Errorf("count customers: %w", err)
	}
	if err := db.Table("customers").Where("is_active = ?", true).Count(&stats.ActiveCustomers).Error; err != nil {
		return stats, fmt.Errorf("count active customers: %w", err)
	}
	return stats, nil
}

// FinanceStats counts invoices and sums paid and outstanding amounts
func (r *GormAnalyticsRepository) FinanceStats(ctx context.Context) (report.FinanceStats, error) {
	var row struct {
		TotalInvoices   int64
		TotalRevenue    decimal.Decimal
		PendingPayments decimal.Decimal
	}
	err := r.db.WithContext(ctx).Table("invoices").
		Select(`
			COUNT(*) AS total_invoices,
			COALESCE(SUM(CASE WHEN status = ? THEN total_amount ELSE 0 END), 0) AS total_revenue,
			COALESCE(SUM(CASE WHEN status = ? THEN total_amount ELSE 0 END), 0) AS pending_payments
		`, finance.InvoiceStatusPaid, finance.InvoiceStatusSent).
		Scan(&row).Error
	if err != nil {
		return report.FinanceStats{}, fmt.Errorf("sum invoices: %w", err)
	}
	return report.FinanceStats{
		TotalInvoices:   row.TotalInvoices,
		TotalRevenue:    row.TotalRevenue,
		PendingPayments: row.PendingPayments,
	}, nil
}

// LogisticsStats counts vehicles and drivers
func (r *GormAnalyticsRepository) LogisticsStats(ctx context.Context) (report.LogisticsStats, error) {
	var stats report.LogisticsStats
	db := r.db.WithContext(ctx)

	if err := db.Table("vehicles").Count(&stats.TotalVehicles).Error; err != nil {
		return stats, fmt.Errorf("count vehicles: %w", err)
	}
	if err := db.Table("drivers").Count(&stats.TotalDrivers).Error; err != nil {
		return stats, fmt.Errorf("count drivers: %w", err)
	}
	if err := db.Table("drivers").Where("is_active = ?", true).Count(&stats.ActiveDrivers).Error; err != nil {
		return stats, fmt.Errorf("count active drivers: %w", err)
	}
	return stats, nil
}

// TopProducts ranks products by quantity on hand across all warehouses.
// Products without stock rows rank with zero.
func (r *GormAnalyticsRepository) TopProducts(ctx context.Context, limit int) ([]report.TopProduct, error) {
	var rows []struct {
		ProductID     uuid.UUID
		Name          string
		SKU           string `gorm:"column:sku"`
		Category      *string
		TotalQuantity int64
	}
	err := r.db.WithContext(ctx).Table("products p").
		Select("p.id AS product_id, p.name, p.sku, c.name AS category, COALESCE(SUM(il.quantity), 0) AS total_quantity").
		Joins("LEFT JOIN inventory_levels il ON il.product_id = p.id").
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Group("p.id, p.name, p.sku, c.name").
		Order("total_quantity DESC, p.name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("rank products: %w", err)
	}

	products := make([]report.TopProduct, 0, len(rows))
	for _, row := range rows {
		products = append(products, report.TopProduct{
			ProductID:     row.ProductID,
			Name:          row.Name,
			SKU:           row.SKU,
			Category:      categoryName(row.Category),
			TotalQuantity: row.TotalQuantity,
		})
	}
	return products, nil
}

// LowStockAlerts lists stock levels at or below threshold, lowest first
func (r *GormAnalyticsRepository) LowStockAlerts(ctx context.Context, threshold int) ([]report.LowStockAlert, error) {
	var rows []struct {
		ID              uuid.UUID
		Product         string
		Warehouse       string
		CurrentQuantity int
		Category        *string
	}
	err := r.db.WithContext(ctx).Table("inventory_levels il").
		Select("il.id, p.name AS product, w.name AS warehouse, il.quantity AS current_quantity, c.name AS category").
		Joins("JOIN products p ON p.id = il.product_id").
		Joins("JOIN warehouses w ON w.id = il.warehouse_id").
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Where("il.quantity <= ?", threshold).
		Order("il.quantity ASC, p.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}

	alerts := make([]report.LowStockAlert, 0, len(rows))
	for _, row := range rows {
		alerts = append(alerts, report.LowStockAlert{
			ID:              row.ID,
			Product:         row.Product,
			Warehouse:       row.Warehouse,
			CurrentQuantity: row.CurrentQuantity,
			Category:        categoryName(row.Category),
		})
	}
	return alerts, nil
}

// RecentTransactions lists the newest ledger entries created since the given time
func (r *GormAnalyticsRepository) RecentTransactions(ctx context.Context, since time.Time, limit int) ([]report.RecentTransaction, error) {
	var rows []struct {
		ID              uuid.UUID
		Product         string
		Warehouse       string
		TransactionType string
		Quantity        int
		CreatedAt       time.Time
	}
	err := r.db.WithContext(ctx).Table("inventory_transactions t").
		Select("t.id, p.name AS product, w.name AS warehouse, t.transaction_type, t.quantity, t.created_at").
		Joins("JOIN products p ON p.id = t.product_id").
		Joins("JOIN warehouses w ON w.id = t.warehouse_id").
		Where("t.created_at >= ?", since).
		Order("t.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}

	txs := make([]report.RecentTransaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, report.RecentTransaction{
			ID:              row.ID,
			Product:         row.Product,
			Warehouse:       row.Warehouse,
			TransactionType: row.TransactionType,
			Quantity:        row.Quantity,
			Date:            shared.NewDate(row.CreatedAt),
			CreatedAt:       row.CreatedAt,
		})
	}
	return txs, nil
}

// RevenueTrends sums paid invoices per invoice date, oldest first
func (r *GormAnalyticsRepository) RevenueTrends(ctx context.Context, since shared.Date) ([]report.RevenuePoint, error) {
	var rows []struct {
		Date   shared.Date
		Amount decimal.Decimal
	}
	err := r.db.WithContext(ctx).Table("invoices").
		Select("invoice_date AS date, COALESCE(SUM(total_amount), 0) AS amount").
		Where("status = ? AND invoice_date >= ?", finance.InvoiceStatusPaid, since).
		Group("invoice_date").
		Order("invoice_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}

	points := make([]report.RevenuePoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, report.RevenuePoint{Date: row.Date, Amount: row.Amount})
	}
	return points, nil
}

// ExpenseBreakdown sums expenses per category, largest first
func (r *GormAnalyticsRepository) ExpenseBreakdown(ctx context.Context, since shared.Date) ([]report.ExpenseSlice, error) {
	var rows []struct {
		Category    string
		TotalAmount decimal.Decimal
	}
	err := r.db.WithContext(ctx).Table("expenses").
		Select("category, COALESCE(SUM(amount), 0) AS total_amount").
		Where("expense_date >= ?", since).
		Group("category").
		Order("total_amount DESC, category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}

	slices := make([]report.ExpenseSlice, 0, len(rows))
	for _, row := range rows {
		slices = append(slices, report.ExpenseSlice{Category: row.Category, TotalAmount: row.TotalAmount})
	}
	return slices, nil
}

// PaymentMethods sums payments per method, largest first
func (r *GormAnalyticsRepository) PaymentMethods(ctx context.Context, since shared.Date) ([]report.PaymentMethodTotal, error) {
	var rows []struct {
		PaymentMethod string
		TotalAmount   decimal.Decimal
		Count         int64
	}
	err := r.db.WithContext(ctx).Table("payments").
		Select("payment_method, COALESCE(SUM(amount), 0) AS total_amount, COUNT(*) AS count").
		Where("payment_date >= ?", since).
		Group("payment_method").
		Order("total_amount DESC, payment_method ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}

	totals := make([]report.PaymentMethodTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, report.PaymentMethodTotal{
			PaymentMethod: row.PaymentMethod,
			TotalAmount:   row.TotalAmount,
			Count:         row.Count,
		})
	}
	return totals, nil
}

func categoryName(name *string) string {
	if name == nil || *name == "" {
		return report.UncategorizedName
	}
	return *name
}

// GormMonitoringRepository implements report.MonitoringRepository using GORM
type GormMonitoringRepository struct {
	db *gorm.DB
}

// NewGormMonitoringRepository creates a new GormMonitoringRepository
func NewGormMonitoringRepository(db *gorm.DB) *GormMonitoringRepository {
	return &GormMonitoringRepository{db: db}
}

// AverageMetric averages the samples of one metric type since the given time
func (r *GormMonitoringRepository) AverageMetric(ctx context.Context, metricType monitoring.MetricType, since time.Time) (decimal.Decimal, error) {
	var row struct{ Average decimal.Decimal }
	err := r.db.WithContext(ctx).Table("performance_metrics").
		Select("COALESCE(AVG(value), 0) AS average").
		Where("metric_type = ? AND timestamp >= ?", metricType, since).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("average %s: %w", metricType, err)
	}
	return row.Average, nil
}

// CacheStats averages cache samples since the given time
func (r *GormMonitoringRepository) CacheStats(ctx context.Context, since time.Time) (report.CacheStats, error) {
	var row struct {
		AverageHitRate      decimal.Decimal
		AverageResponseTime decimal.Decimal
	}
	err := r.db.WithContext(ctx).Table("cache_performance").
		Select("COALESCE(AVG(hit_rate), 0) AS average_hit_rate, COALESCE(AVG(average_response_time), 0) AS average_response_time").
		Where("timestamp >= ?", since).
		Scan(&row).Error
	if err != nil {
		return report.CacheStats{}, fmt.Errorf("average cache performance: %w", err)
	}
	return report.CacheStats{
		AverageHitRate:      row.AverageHitRate,
		AverageResponseTime: row.AverageResponseTime,
	}, nil
}

// DatabaseStats averages execution time and counts slow statements
func (r *GormMonitoringRepository) DatabaseStats(ctx context.Context, since time.Time) (report.DatabaseStats, error) {
	var row struct {
		AverageExecutionTime decimal.Decimal
		SlowQueryCount       int64
	}
	err := r.db.WithContext(ctx).Table("database_performance").
		Select(`
			COALESCE(AVG(execution_time), 0) AS average_execution_time,
			COALESCE(SUM(CASE WHEN slow_query THEN 1 ELSE 0 END), 0) AS slow_query_count
		`).
		Where("timestamp >= ?", since).
		Scan(&row).Error
	if err != nil {
		return report.DatabaseStats{}, fmt.Errorf("average database performance: %w", err)
	}
	return report.DatabaseStats{
		AverageExecutionTime: row.AverageExecutionTime,
		SlowQueryCount:       row.SlowQueryCount,
	}, nil
}

// EventsByType counts security events per type, most frequent first
func (r *GormMonitoringRepository) EventsByType(ctx context.Context, since time.Time) ([]report.EventTypeCount, error) {
	counts := make([]report.EventTypeCount, 0)
	err := r.db.WithContext(ctx).Table("security_events").
		Select("event_type, COUNT(*) AS count").
		Where("timestamp >= ?", since).
		Group("event_type").
		Order("count DESC, event_type ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count events by type: %w", err)
	}
	return counts, nil
}

// EventsBySeverity counts security events per severity, most frequent first
func (r *GormMonitoringRepository) EventsBySeverity(ctx context.Context, since time.Time) ([]report.SeverityCount, error) {
	counts := make([]report.SeverityCount, 0)
	err := r.db.WithContext(ctx).Table("security_events").
		Select("severity, COUNT(*) AS count").
		Where("timestamp >= ?", since).
		Group("severity").
		Order("count DESC, severity ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count events by severity: %w", err)
	}
	return counts, nil
}

// RecentEvents lists the newest events of one severity
func (r *GormMonitoringRepository) RecentEvents(ctx context.Context, severity monitoring.Severity, since time.Time, limit int) ([]monitoring.SecurityEvent, error) {
	events := make([]monitoring.SecurityEvent, 0)
	err := r.db.WithContext(ctx).
		Where("severity = ? AND timestamp >= ?", severity, since).
		Order("timestamp DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list %s events: %w", severity, err)
	}
	return events, nil
}

package persistence

import (
	"github.com/supplychain/backend/internal/domain/analytics"
	"github.com/supplychain/backend/internal/domain/finance"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/monitoring"
	"github.com/supplychain/backend/internal/domain/order"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/tracking"
	"github.com/supplychain/backend/internal/domain/warehouse"
)

// Models lists every persisted model, parents before children
func Models() []any {
	return []any{
		&inventory.Category{},
		&inventory.Product{},
		&inventory.Warehouse{},
		&inventory.StockLevel{},
		&inventory.Transaction{},

		&partner.Customer{},
		&partner.Supplier{},
		&partner.CustomerContact{},
		&partner.SupplierContact{},
		&partner.CustomerRating{},
		&partner.SupplierRating{},

		&order.Customer{},
		&order.Order{},
		&order.Item{},
		&order.Shipment{},

		&warehouse.Zone{},
		&warehouse.Location{},
		&warehouse.Staff{},

		&logistics.Vehicle{},
		&logistics.Driver{},
		&logistics.Route{},
		&logistics.RouteStop{},

		&tracking.DeliveryUpdate{},
		&tracking.DriverLocation{},
		&tracking.DeliveryAlert{},
		&tracking.AlertShipment{},
		&tracking.AlertRoute{},
		&tracking.DeliveryPerformance{},

		&finance.Invoice{},
		&finance.InvoiceItem{},
		&finance.Payment{},
		&finance.PurchaseOrder{},
		&finance.PurchaseOrderItem{},
		&finance.Expense{},
		&finance.FinancialReport{},

		&analytics.Widget{},
		&analytics.UserDashboard{},
		&analytics.KPIMetric{},
		&analytics.MetricValue{},
		&analytics.ReportTemplate{},
		&analytics.ScheduledReport{},
		&analytics.DataExport{},

		&monitoring.PerformanceMetric{},
		&monitoring.SecurityEvent{},
		&monitoring.CachePerformance{},
		&monitoring.DatabasePerformance{},
		&monitoring.RateLimitLog{},
		&monitoring.SystemHealth{},
		&monitoring.Recommendation{},
	}
}

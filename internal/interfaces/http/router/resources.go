package router

import (
	"github.com/supplychain/backend/internal/application/crud"
	"github.com/supplychain/backend/internal/domain/analytics"
	"github.com/supplychain/backend/internal/domain/finance"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/monitoring"
	"github.com/supplychain/backend/internal/domain/order"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/tracking"
	"github.com/supplychain/backend/internal/domain/warehouse"
	"github.com/supplychain/backend/internal/interfaces/http/handler"
)

// Repositories groups the stores of every domain
type Repositories struct {
	Inventory  inventory.Repositories
	Partner    partner.Repositories
	Order      order.Repositories
	Warehouse  warehouse.Repositories
	Logistics  logistics.Repositories
	Tracking   tracking.Repositories
	Finance    finance.Repositories
	Analytics  analytics.Repositories
	Monitoring monitoring.Repositories
}

// resource builds the CRUD routes of one table
func resource[T any, P crud.Record[T]](repo shared.Repository[T], refs shared.ReferenceChecker, cfg crud.Config) Mounter {
	return handler.NewResourceHandler(crud.NewService[T, P](repo, refs, cfg)).Register
}

func inventoryRoutes(r inventory.Repositories, refs shared.ReferenceChecker) *DomainGroup {
	return NewDomainGroup("inventory", "/inventory").
		Resource("/categories", resource(r.Categories, refs, crud.Config{Resource: "Category"})).
		Resource("/products", resource(r.Products, refs, crud.Config{Resource: "Product"})).
		Resource("/warehouses", resource(r.Warehouses, refs, crud.Config{Resource: "Warehouse"})).
		Resource("/inventory", resource(r.StockLevels, refs, crud.Config{Resource: "Inventory"})).
		Resource("/transactions", resource(r.Transactions, refs, crud.Config{Resource: "Inventory transaction"}))
}

func orderRoutes(r order.Repositories, refs shared.ReferenceChecker) *DomainGroup {
	return NewDomainGroup("orders", "/orders").
		Resource("/order-customers", resource(r.Customers, refs, crud.Config{Resource: "Customer"})).
		Resource("/orders", resource(r.Orders, refs, crud.Config{Resource: "Order"})).
		Resource("/order-items", resource(r.Items, refs, crud.Config{Resource: "Order item"})).
		Resource("/shipments", resource(r.Shipments, refs, crud.Config{Resource: "Shipment"}))
}

func warehouseRoutes(r warehouse.Repositories, refs shared.ReferenceChecker) *DomainGroup {
	return NewDomainGroup("warehouses", "/warehouses").
		Resource("/zones", resource(r.Zones, refs, crud.Config{Resource: "Warehouse zone"})).
		Resource("/locations", resource(r.Locations, refs, crud.Config{Resource: "Warehouse location"})).
		Resource("/staff", resource(r.Staff, refs, crud.Config{Resource: "Warehouse staff"}))
}

func logisticsRoutes(r logistics.Repositories, refs shared.ReferenceChecker) *DomainGroup {
	return NewDomainGroup("logistics", "/logistics").
		Resource("/vehicles", resource(r.Vehicles, refs, crud.Config{Resource: "Vehicle"})).
		Resource("/drivers", resource(r.Drivers, refs, crud.Config{Resource: "Driver"})).
		Resource("/routes", resource(r.Routes, refs, crud.Config{Resource: "Route"})).
		Resource("/route-stops", resource(r.Stops, refs, crud.Config{Resource: "Route stop"}))
}

func trackingRoutes(r tracking.Repositories, refs shared.ReferenceChecker) *DomainGroup {
	return NewDomainGroup("tracking", "/tracking").
		Resource("/delivery-updates", resource(r.Updates, refs, crud.Config{Resource: "Delivery update"})).
		Resource("/driver-locations", resource(r.Locations, refs, crud.Config{Resource: "Driver location"})).
		Resource("/delivery-alerts", resource(r.Alerts, refs, crud.Config{Resource: "Delivery alert"})).
		Resource("/delivery-performance", resource(r.Performance, refs, crud.Config{Resource: "Delivery performance"}))
}

func partnerRoutes(r partner.Repositories, refs shared.ReferenceChecker) *DomainGroup {
	return NewDomainGroup("partners", "/partners").
		Resource("/customers", resource(r.Customers, refs, crud.Config{Resource: "Customer"})).
		Resource("/suppliers", resource(r.Suppliers, refs, crud.Config{Resource: "Supplier"})).
		Resource("/customer-contacts", resource(r.CustomerContacts, refs, crud.Config{Resource: "Customer contact"})).
		Resource("/supplier-contacts", resource(r.SupplierContacts, refs, crud.Config{Resource: "Supplier contact"})).
		Resource("/customer-ratings", resource(r.CustomerRatings, refs, crud.Config{Resource: "Customer rating"})).
		Resource("/supplier-ratings", resource(r.SupplierRatings, refs, crud.Config{Resource: "Supplier rating"}))
}

func financeRoutes(r finance.Repositories, refs shared.ReferenceChecker) *DomainGroup {
	return NewDomainGroup("finance", "/finance").
		Resource("/invoices", resource(r.Invoices, refs, crud.Config{Resource: "Invoice"})).
		Resource("/invoice-items", resource(r.InvoiceItems, refs, crud.Config{Resource: "Invoice item"})).
		Resource("/payments", resource(r.Payments, refs, crud.Config{Resource: "Payment"})).
		Resource("/purchase-orders", resource(r.PurchaseOrders, refs, crud.Config{Resource: "Purchase order"})).
		Resource("/purchase-order-items", resource(r.PurchaseOrderItems, refs, crud.Config{Resource: "Purchase order item"})).
		Resource("/expenses", resource(r.Expenses, refs, crud.Config{Resource: "Expense"})).
		Resource("/financial-reports", resource(r.Reports, refs, crud.Config{Resource: "Financial report"}))
}

func analyticsRoutes(r analytics.Repositories, refs shared.ReferenceChecker, views *handler.AnalyticsHandler) *DomainGroup {
	return NewDomainGroup("analytics", "/analytics").
		GET("/dashboard-summary", views.DashboardSummary).
		GET("/inventory-analytics", views.InventoryAnalytics).
		GET("/financial-analytics", views.FinancialAnalytics).
		Resource("/dashboard-widgets", resource(r.Widgets, refs, crud.Config{Resource: "Dashboard widget"})).
		Resource("/user-dashboards", resource(r.UserDashboards, refs, crud.Config{Resource: "User dashboard", OwnerScoped: true})).
		Resource("/kpi-metrics", resource(r.KPIMetrics, refs, crud.Config{Resource: "KPI metric"})).
		Resource("/metric-values", resource(r.MetricValues, refs, crud.Config{Resource: "Metric value"})).
		Resource("/report-templates", resource(r.ReportTemplates, refs, crud.Config{Resource: "Report template"})).
		Resource("/scheduled-reports", resource(r.ScheduledReports, refs, crud.Config{Resource: "Scheduled report"})).
		Resource("/data-exports", resource(r.DataExports, refs, crud.Config{Resource: "Data export", OwnerScoped: true}))
}

func optimizationRoutes(r monitoring.Repositories, refs shared.ReferenceChecker, views *handler.MonitoringHandler) *DomainGroup {
	return NewDomainGroup("optimization", "/optimization").
		GET("/monitoring/health-check", views.HealthCheck).
		GET("/monitoring/performance-summary", views.PerformanceSummary).
		GET("/monitoring/security-summary", views.SecuritySummary).
		Resource("/performance-metrics", resource(r.PerformanceMetrics, refs, crud.Config{Resource: "Performance metric"})).
		Resource("/security-events", resource(r.SecurityEvents, refs, crud.Config{Resource: "Security event"})).
		Resource("/cache-performance", resource(r.CachePerformance, refs, crud.Config{Resource: "Cache performance"})).
		Resource("/database-performance", resource(r.DatabasePerformance, refs, crud.Config{Resource: "Database performance"})).
		Resource("/rate-limit-logs", resource(r.RateLimitLogs, refs, crud.Config{Resource: "Rate limit log"})).
		Resource("/system-health", resource(r.SystemHealth, refs, crud.Config{Resource: "System health"})).
		Resource("/optimization-recommendations", resource(r.Recommendations, refs, crud.Config{Resource: "Optimization recommendation"}))
}

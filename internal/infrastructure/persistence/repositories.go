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
	"gorm.io/gorm"
)

// NewInventoryRepositories wires the inventory domain
func NewInventoryRepositories(db *gorm.DB) inventory.Repositories {
	return inventory.Repositories{
		Categories: NewGormRepository[inventory.Category](db, QuerySpec{
			Resource:    "Category",
			Search:      Cols("name", "description"),
			Sorts:       SortKeys("name", "created_at"),
			DefaultSort: "name ASC",
		}),
		Products: NewGormRepository[inventory.Product](db, QuerySpec{
			Resource:    "Product",
			Filters:     map[string]FilterField{"category": Ref("category_id"), "is_active": Flag("is_active")},
			Search:      Cols("sku", "name", "description"),
			Sorts:       SortKeys("name", "unit_price", "created_at"),
			DefaultSort: "name ASC",
			Preloads:    []string{"Category"},
		}),
		Warehouses: NewGormRepository[inventory.Warehouse](db, QuerySpec{
			Resource:    "Warehouse",
			Filters:     map[string]FilterField{"is_active": Flag("is_active"), "country": Eq("country"), "state": Eq("state")},
			Search:      Cols("name", "city", "address"),
			Sorts:       SortKeys("name", "city", "capacity"),
			DefaultSort: "name ASC",
		}),
		StockLevels: NewGormRepository[inventory.StockLevel](db, QuerySpec{
			Resource: "Inventory",
			Filters:  map[string]FilterField{"warehouse": Ref("warehouse_id"), "product": Ref("product_id")},
			Search: []SearchField{
				Related("product_id", "products", "name"),
				Related("warehouse_id", "warehouses", "name"),
			},
			Sorts:       SortKeys("quantity", "last_updated"),
			DefaultSort: "created_at DESC",
			Preloads:    []string{"Product", "Warehouse"},
		}),
		Transactions: NewGormRepository[inventory.Transaction](db, QuerySpec{
			Resource: "Inventory transaction",
			Filters: map[string]FilterField{
				"transaction_type": Eq("transaction_type"),
				"warehouse":        Ref("warehouse_id"),
				"product":          Ref("product_id"),
			},
			Search: []SearchField{
				Related("product_id", "products", "name"),
				Related("warehouse_id", "warehouses", "name"),
				{Column: "reference"},
			},
			Sorts:       SortKeys("created_at", "quantity"),
			DefaultSort: "created_at DESC",
			Preloads:    []string{"Product", "Warehouse"},
		}),
	}
}

// NewPartnerRepositories wires the partner domain
func NewPartnerRepositories(db *gorm.DB) partner.Repositories {
	return partner.Repositories{
		Customers: NewGormRepository[partner.Customer](db, QuerySpec{
			Resource: "Customer",
			Filters: map[string]FilterField{
				"customer_type": Eq("customer_type"),
				"status":        Eq("status"),
				"country":       Eq("country"),
			},
			Search:      Cols("name", "email", "phone", "city", "state"),
			Sorts:       SortKeys("name", "created_at", "credit_limit"),
			DefaultSort: "name ASC",
		}),
		Suppliers: NewGormRepository[partner.Supplier](db, QuerySpec{
			Resource: "Supplier",
			Filters: map[string]FilterField{
				"supplier_type": Eq("supplier_type"),
				"status":        Eq("status"),
				"country":       Eq("country"),
			},
			Search:      Cols("name", "email", "phone", "city", "state"),
			Sorts:       SortKeys("name", "created_at", "lead_time_days", "minimum_order"),
			DefaultSort: "name ASC",
		}),
		CustomerContacts: NewGormRepository[partner.CustomerContact](db, QuerySpec{
			Resource: "Customer contact",
			Filters: map[string]FilterField{
				"customer":     Ref("customer_id"),
				"contact_type": Eq("contact_type"),
				"is_active":    Flag("is_active"),
			},
			Search:      append(Cols("first_name", "last_name", "email"), Related("customer_id", "partner_customers", "name")),
			Sorts:       SortKeys("first_name", "last_name", "contact_type"),
			DefaultSort: "customer_id ASC, contact_type ASC",
			Preloads:    []string{"Customer"},
		}),
		SupplierContacts: NewGormRepository[partner.SupplierContact](db, QuerySpec{
			Resource: "Supplier contact",
			Filters: map[string]FilterField{
				"supplier":     Ref("supplier_id"),
				"contact_type": Eq("contact_type"),
				"is_active":    Flag("is_active"),
			},
			Search:      append(Cols("first_name", "last_name", "email"), Related("supplier_id", "suppliers", "name")),
			Sorts:       SortKeys("first_name", "last_name", "contact_type"),
			DefaultSort: "supplier_id ASC, contact_type ASC",
			Preloads:    []string{"Supplier"},
		}),
		CustomerRatings: NewGormRepository[partner.CustomerRating](db, QuerySpec{
			Resource:    "Customer rating",
			Filters:     map[string]FilterField{"customer": Ref("customer_id"), "rating": Num("rating"), "category": Eq("category")},
			Search:      append(Cols("feedback", "category"), Related("customer_id", "partner_customers", "name")),
			Sorts:       SortKeys("rating", "created_at"),
			DefaultSort: "created_at DESC",
			Preloads:    []string{"Customer"},
		}),
		SupplierRatings: NewGormRepository[partner.SupplierRating](db, QuerySpec{
			Resource:    "Supplier rating",
			Filters:     map[string]FilterField{"supplier": Ref("supplier_id"), "rating": Num("rating"), "category": Eq("category")},
			Search:      append(Cols("feedback", "category"), Related("supplier_id", "suppliers", "name")),
			Sorts:       SortKeys("rating", "created_at"),
			DefaultSort: "created_at DESC",
			Preloads:    []string{"Supplier"},
		}),
	}
}

// NewOrderRepositories wires the orders domain
func NewOrderRepositories(db *gorm.DB) order.Repositories {
	return order.Repositories{
		Customers: NewGormRepository[order.Customer](db, QuerySpec{
			Resource:    "Customer",
			Filters:     map[string]FilterField{"is_active": Flag("is_active"), "city": Eq("city"), "state": Eq("state")},
			Search:      Cols("name", "email", "city"),
			Sorts:       SortKeys("name", "created_at"),
			DefaultSort: "name ASC",
		}),
		Orders: NewGormRepository[order.Order](db, QuerySpec{
			Resource:    "Order",
			Filters:     map[string]FilterField{"status": Eq("status"), "customer": Ref("customer_id")},
			Search:      []SearchField{{Column: "order_number"}, Related("customer_id", "customers", "name")},
			Sorts:       SortKeys("created_at", "total_amount"),
			DefaultSort: "created_at DESC",
			Preloads:    []string{"Customer"},
		}),
		Items: NewGormRepository[order.Item](db, QuerySpec{
			Resource: "Order item",
			Filters:  map[string]FilterField{"order": Ref("order_id"), "product": Ref("product_id")},
			Search: []SearchField{
				Related("order_id", "orders", "order_number"),
				Related("product_id", "products", "name"),
			},
			Sorts:       SortKeys("quantity", "unit_price", "total_price"),
			DefaultSort: "created_at ASC",
			Preloads:    []string{"Order", "Product"},
		}),
		Shipments: NewGormRepository[order.Shipment](db, QuerySpec{
			Resource:    "Shipment",
			Filters:     map[string]FilterField{"status": Eq("status"), "shipped_from": Ref("shipped_from_id"), "order": Ref("order_id")},
			Search:      []SearchField{{Column: "tracking_number"}, Related("order_id", "orders", "order_number")},
			Sorts:       SortKeys("created_at", "shipped_date", "delivered_date"),
			DefaultSort: "created_at DESC",
			Preloads:    []string{"Order", "ShippedFrom"},
		}),
	}
}

// NewWarehouseRepositories wires the warehouse layout domain
func NewWarehouseRepositories(db *gorm.DB) warehouse.Repositories {
	return warehouse.Repositories{
		Zones: NewGormRepository[warehouse.Zone](db, QuerySpec{
			Resource:    "Warehouse zone",
			Filters:     map[string]FilterField{"is_active": Flag("is_active")},
			Search:      Cols("name", "description"),
			Sorts:       SortKeys("name", "created_at"),
			DefaultSort: "name ASC",
		}),
		Locations: NewGormRepository[warehouse.Location](db, QuerySpec{
			Resource: "Warehouse location",
			Filters: map[string]FilterField{
				"warehouse":     Ref("warehouse_id"),
				"zone":          Ref("zone_id"),
				"location_type": Eq("location_type"),
				"is_active":     Flag("is_active"),
			},
			Search: []SearchField{
				{Column: "location_code"},
				Related("warehouse_id", "warehouses", "name"),
				Related("zone_id", "warehouse_zones", "name"),
			},
			Sorts:       map[string]string{"warehouse": "warehouse_id", "zone": "zone_id", "location_code": "location_code"},
			DefaultSort: "warehouse_id ASC, zone_id ASC, location_code ASC",
			Preloads:    []string{"Warehouse", "Zone"},
		}),
		Staff: NewGormRepository[warehouse.Staff](db, QuerySpec{
			Resource:    "Warehouse staff",
			Filters:     map[string]FilterField{"warehouse": Ref("warehouse_id"), "role": Eq("role"), "is_active": Flag("is_active")},
			Search:      []SearchField{{Column: "role"}, Related("warehouse_id", "warehouses", "name")},
			Sorts:       map[string]string{"warehouse": "warehouse_id", "created_at": "created_at"},
			DefaultSort: "warehouse_id ASC, created_at ASC",
			Preloads:    []string{"Warehouse"},
		}),
	}
}

// NewLogisticsRepositories wires the fleet and routing domain
func NewLogisticsRepositories(db *gorm.DB) logistics.Repositories {
	return logistics.Repositories{
		Vehicles: NewGormRepository[logistics.Vehicle](db, QuerySpec{
			Resource: "Vehicle",
			Filters: map[string]FilterField{
				"vehicle_type":   Eq("vehicle_type"),
				"current_status": Eq("current_status"),
				"home_warehouse": Ref("home_warehouse_id"),
				"is_active":      Flag("is_active"),
			},
			Search: []SearchField{
				{Column: "vehicle_number"},
				{Column: "license_plate"},
				Related("home_warehouse_id", "warehouses", "name"),
			},
			Sorts:       SortKeys("vehicle_number", "capacity", "fuel_efficiency", "created_at"),
			DefaultSort: "vehicle_number ASC",
			Preloads:    []string{"HomeWarehouse"},
		}),
		Drivers: NewGormRepository[logistics.Driver](db, QuerySpec{
			Resource:    "Driver",
			Filters:     map[string]FilterField{"status": Eq("status"), "city": Eq("city"), "state": Eq("state"), "is_active": Flag("is_active")},
			Search:      Cols("driver_license", "city", "state"),
			Sorts:       SortKeys("driver_license", "experience_years", "created_at"),
			DefaultSort: "driver_license ASC",
		}),
		Routes: NewGormRepository[logistics.Route](db, QuerySpec{
			Resource: "Route",
			Filters: map[string]FilterField{
				"status":          Eq("status"),
				"vehicle":         Ref("vehicle_id"),
				"driver":          Ref("driver_id"),
				"start_warehouse": Ref("start_warehouse_id"),
				"end_warehouse":   Ref("end_warehouse_id"),
			},
			Search: []SearchField{
				{Column: "route_number"},
				Related("vehicle_id", "vehicles", "vehicle_number"),
				Related("driver_id", "drivers", "driver_license"),
			},
			Sorts:       SortKeys("created_at", "planned_start_time", "total_distance"),
			DefaultSort: "created_at DESC",
			Preloads:    []string{"Vehicle", "Driver"},
		}),
		Stops: NewGormRepository[logistics.RouteStop](db, QuerySpec{
			Resource: "Route stop",
			Filters:  map[string]FilterField{"status": Eq("status"), "route": Ref("route_id"), "order": Ref("order_id")},
			Search: []SearchField{
				Related("route_id", "routes", "route_number"),
				Related("order_id", "orders", "order_number"),
			},
			Sorts:       SortKeys("sequence", "estimated_arrival", "actual_arrival"),
			DefaultSort: "route_id ASC, sequence ASC",
			Preloads:    []string{"Route", "Order"},
		}),
	}
}

// NewTrackingRepositories wires the delivery tracking domain
func NewTrackingRepositories(db *gorm.DB) tracking.Repositories {
	return tracking.Repositories{
		Updates: NewGormRepository[tracking.DeliveryUpdate](db, QuerySpec{
			Resource: "Delivery update",
			Filters:  map[string]FilterField{"update_type": Eq("update_type"), "shipment": Ref("shipment_id"), "route": Ref("route_id")},
			Search: []SearchField{
				Related("shipment_id", "shipments", "tracking_number"),
				{Column: "location"},
				{Column: "notes"},
			},
			Sorts:       SortKeys("created_at", "update_type"),
			DefaultSort: "created_at DESC",
			Preloads:    []string{"Shipment"},
		}),
		Locations: NewGormRepository[tracking.DriverLocation](db, QuerySpec{
			Resource:    "Driver location",
			Filters:     map[string]FilterField{"driver": Ref("driver_id"), "route": Ref("route_id")},
			Search:      []SearchField{Related("driver_id", "drivers", "driver_license")},
			Sorts:       SortKeys("timestamp", "latitude", "longitude"),
			DefaultSort: "timestamp DESC",
		}),
		Alerts: NewGormAlertRepository(db),
		Performance: NewGormRepository[tracking.DeliveryPerformance](db, QuerySpec{
			Resource: "Delivery performance",
			Filters:  map[string]FilterField{"driver": Ref("driver_id"), "date": Day("date")},
			Search:   []SearchField{Related("driver_id", "drivers", "driver_license")},
			Sorts: map[string]string{
				"date":             "date",
				"total_deliveries": "total_deliveries",
				"customer_rating":  "customer_rating",
				"success_rate":     "CASE WHEN total_deliveries > 0 THEN successful_deliveries * 100.0 / total_deliveries ELSE 0 END",
			},
			DefaultSort: "date DESC",
			Preloads:    []string{"Driver"},
		}),
	}
}

// NewFinanceRepositories wires the finance domain
func NewFinanceRepositories(db *gorm.DB) finance.Repositories {
	return finance.Repositories{
		Invoices: NewGormRepository[finance.Invoice](db, QuerySpec{
			Resource: "Invoice",
			Filters:  map[string]FilterField{"status": Eq("status"), "customer": Ref("customer_id"), "invoice_date": Day("invoice_date")},
			Search: []SearchField{
				{Column: "invoice_number"},
				Related("customer_id", "customers", "name"),
				Related("order_id", "orders", "order_number"),
			},
			Sorts:       SortKeys("invoice_date", "due_date", "total_amount"),
			DefaultSort: "invoice_date DESC",
			Preloads:    []string{"Order", "Customer"},
		}),
		InvoiceItems: NewGormRepository[finance.InvoiceItem](db, QuerySpec{
			Resource:    "Invoice item",
			Filters:     map[string]FilterField{"invoice": Ref("invoice_id"), "product": Ref("product_id")},
			Search:      []SearchField{Related("product_id", "products", "name")},
			Sorts:       SortKeys("quantity", "unit_price", "total_price"),
			DefaultSort: "invoice_id ASC, product_id ASC",
			Preloads:    []string{"Product"},
		}),
		Payments: NewGormRepository[finance.Payment](db, QuerySpec{
			Resource:    "Payment",
			Filters:     map[string]FilterField{"status": Eq("status"), "payment_method": Eq("payment_method"), "invoice": Ref("invoice_id")},
			Search:      []SearchField{{Column: "reference_number"}, Related("invoice_id", "invoices", "invoice_number")},
			Sorts:       SortKeys("payment_date", "amount"),
			DefaultSort: "payment_date DESC",
			Preloads:    []string{"Invoice"},
		}),
		PurchaseOrders: NewGormRepository[finance.PurchaseOrder](db, QuerySpec{
			Resource:    "Purchase order",
			Filters:     map[string]FilterField{"status": Eq("status"), "supplier": Ref("supplier_id"), "order_date": Day("order_date")},
			Search:      []SearchField{{Column: "po_number"}, Related("supplier_id", "suppliers", "name")},
			Sorts:       SortKeys("order_date", "expected_delivery", "total_amount"),
			DefaultSort: "order_date DESC",
			Preloads:    []string{"Supplier"},
		}),
		PurchaseOrderItems: NewGormRepository[finance.PurchaseOrderItem](db, QuerySpec{
			Resource:    "Purchase order item",
			Filters:     map[string]FilterField{"purchase_order": Ref("purchase_order_id"), "product": Ref("product_id")},
			Search:      []SearchField{Related("product_id", "products", "name")},
			Sorts:       SortKeys("quantity", "unit_cost", "total_cost"),
			DefaultSort: "purchase_order_id ASC, product_id ASC",
			Preloads:    []string{"PurchaseOrder", "Product"},
		}),
		Expenses: NewGormRepository[finance.Expense](db, QuerySpec{
			Resource:    "Expense",
			Filters:     map[string]FilterField{"category": Eq("category"), "status": Eq("status"), "expense_date": Day("expense_date")},
			Search:      Cols("description", "vendor", "receipt_reference"),
			Sorts:       SortKeys("expense_date", "amount"),
			DefaultSort: "expense_date DESC",
		}),
		Reports: NewGormRepository[finance.FinancialReport](db, QuerySpec{
			Resource:    "Financial report",
			Filters:     map[string]FilterField{"report_type": Eq("report_type"), "report_date": Day("report_date")},
			Search:      Cols("report_type", "summary"),
			Sorts:       SortKeys("report_date", "period_start", "period_end"),
			DefaultSort: "report_date DESC",
		}),
	}
}

// NewAnalyticsRepositories wires the analytics domain. User dashboards and
// data exports are scoped to their owner.
func NewAnalyticsRepositories(db *gorm.DB) analytics.Repositories {
	return analytics.Repositories{
		Widgets: NewGormRepository[analytics.Widget](db, QuerySpec{
			Resource:    "Dashboard widget",
			Filters:     map[string]FilterField{"widget_type": Eq("widget_type"), "category": Eq("category"), "is_active": Flag("is_active")},
			Search:      Cols("name", "description"),
			Sorts:       SortKeys("name", "category", "created_at"),
			DefaultSort: "category ASC, name ASC",
		}),
		UserDashboards: NewGormRepository[analytics.UserDashboard](db, QuerySpec{
			Resource:    "User dashboard",
			Filters:     map[string]FilterField{"widget": Ref("widget_id"), "is_visible": Flag("is_visible")},
			Search:      []SearchField{Related("widget_id", "dashboard_widgets", "name")},
			Sorts:       SortKeys("position_y", "position_x"),
			DefaultSort: "position_y ASC, position_x ASC",
			Preloads:    []string{"Widget"},
			OwnerColumn: "user_id",
		}),
		KPIMetrics: NewGormRepository[analytics.KPIMetric](db, QuerySpec{
			Resource:    "KPI metric",
			Filters:     map[string]FilterField{"metric_type": Eq("metric_type"), "category": Eq("category"), "is_active": Flag("is_active")},
			Search:      Cols("name", "description"),
			Sorts:       SortKeys("name", "category", "created_at"),
			DefaultSort: "category ASC, name ASC",
		}),
		MetricValues: NewGormRepository[analytics.MetricValue](db, QuerySpec{
			Resource:    "Metric value",
			Filters:     map[string]FilterField{"metric": Ref("metric_id"), "date": Day("date")},
			Search:      []SearchField{Related("metric_id", "kpi_metrics", "name")},
			Sorts:       SortKeys("date", "value", "timestamp"),
			DefaultSort: "date DESC, timestamp DESC",
			Preloads:    []string{"Metric"},
		}),
		ReportTemplates: NewGormRepository[analytics.ReportTemplate](db, QuerySpec{
			Resource:    "Report template",
			Filters:     map[string]FilterField{"report_type": Eq("report_type"), "is_active": Flag("is_active")},
			Search:      Cols("name", "description"),
			Sorts:       SortKeys("name", "report_type", "created_at"),
			DefaultSort: "report_type ASC, name ASC",
		}),
		ScheduledReports: NewGormRepository[analytics.ScheduledReport](db, QuerySpec{
			Resource: "Scheduled report",
			Filters: map[string]FilterField{
				"frequency":       Eq("frequency"),
				"is_active":       Flag("is_active"),
				"report_template": Ref("report_template_id"),
			},
			Search:      []SearchField{{Column: "name"}, Related("report_template_id", "report_templates", "name")},
			Sorts:       SortKeys("name", "frequency", "next_run"),
			DefaultSort: "name ASC",
			Preloads:    []string{"ReportTemplate"},
		}),
		DataExports: NewGormRepository[analytics.DataExport](db, QuerySpec{
			Resource:    "Data export",
			Filters:     map[string]FilterField{"export_format": Eq("export_format"), "status": Eq("status"), "data_source": Eq("data_source")},
			Search:      Cols("name", "data_source"),
			Sorts:       SortKeys("created_at", "status"),
			DefaultSort: "created_at DESC",
			OwnerColumn: "created_by",
		}),
	}
}

// NewMonitoringRepositories wires the optimization and monitoring domain
func NewMonitoringRepositories(db *gorm.DB) monitoring.Repositories {
	return monitoring.Repositories{
		PerformanceMetrics: NewGormRepository[monitoring.PerformanceMetric](db, QuerySpec{
			Resource:    "Performance metric",
			Filters:     map[string]FilterField{"metric_type": Eq("metric_type"), "endpoint": Eq("endpoint")},
			Search:      Cols("endpoint"),
			Sorts:       SortKeys("timestamp", "value", "metric_type"),
			DefaultSort: "timestamp DESC",
		}),
		SecurityEvents: NewGormRepository[monitoring.SecurityEvent](db, QuerySpec{
			Resource:    "Security event",
			Filters:     map[string]FilterField{"event_type": Eq("event_type"), "severity": Eq("severity"), "user": Ref("user_id")},
			Search:      Cols("description", "endpoint", "ip_address"),
			Sorts:       SortKeys("timestamp", "severity", "event_type"),
			DefaultSort: "timestamp DESC",
		}),
		CachePerformance: NewGormRepository[monitoring.CachePerformance](db, QuerySpec{
			Resource:    "Cache performance",
			Filters:     map[string]FilterField{"cache_type": Eq("cache_type")},
			Search:      Cols("cache_type"),
			Sorts:       SortKeys("timestamp", "hit_rate", "average_response_time"),
			DefaultSort: "timestamp DESC",
		}),
		DatabasePerformance: NewGormRepository[monitoring.DatabasePerformance](db, QuerySpec{
			Resource:    "Database performance",
			Filters:     map[string]FilterField{"query_type": Eq("query_type"), "slow_query": Flag("slow_query"), "table_name": Eq("table_name")},
			Search:      Cols("table_name", "query_hash"),
			Sorts:       SortKeys("timestamp", "execution_time", "rows_affected"),
			DefaultSort: "timestamp DESC",
		}),
		RateLimitLogs: NewGormRepository[monitoring.RateLimitLog](db, QuerySpec{
			Resource:    "Rate limit log",
			Filters:     map[string]FilterField{"limit_type": Eq("limit_type"), "blocked": Flag("blocked"), "user": Ref("user_id")},
			Search:      Cols("endpoint", "ip_address"),
			Sorts:       SortKeys("timestamp", "request_count", "limit_threshold"),
			DefaultSort: "timestamp DESC",
		}),
		SystemHealth: NewGormRepository[monitoring.SystemHealth](db, QuerySpec{
			Resource:    "System health",
			Filters:     map[string]FilterField{"component": Eq("component"), "status": Eq("status")},
			Search:      Cols("component", "error_message"),
			Sorts:       SortKeys("last_check", "status", "component"),
			DefaultSort: "component ASC, last_check DESC",
		}),
		Recommendations: NewGormRepository[monitoring.Recommendation](db, QuerySpec{
			Resource: "Optimization recommendation",
			Filters: map[string]FilterField{
				"recommendation_type": Eq("recommendation_type"),
				"priority":            Eq("priority"),
				"is_implemented":      Flag("is_implemented"),
			},
			Search:      Cols("title", "description", "impact"),
			Sorts:       SortKeys("priority", "created_at", "recommendation_type"),
			DefaultSort: "priority ASC, created_at DESC",
		}),
	}
}

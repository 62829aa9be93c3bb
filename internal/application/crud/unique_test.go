package crud

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/analytics"
	"github.com/supplychain/backend/internal/domain/finance"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/order"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/tracking"
	"github.com/supplychain/backend/internal/infrastructure/persistence"
)

func TestService_UniqueConstraints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := uuid.New()
	day := shared.NewDate(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))

	log := persistence.NewLogisticsRepositories(f.db)
	trk := persistence.NewTrackingRepositories(f.db)
	ord := persistence.NewOrderRepositories(f.db)
	fin := persistence.NewFinanceRepositories(f.db)
	an := persistence.NewAnalyticsRepositories(f.db)
	prt := persistence.NewPartnerRepositories(f.db)

	vehicles := NewService[logistics.Vehicle](log.Vehicles, f.refs, Config{Resource: "Vehicle"})
	drivers := NewService[logistics.Driver](log.Drivers, f.refs, Config{Resource: "Driver"})
	routes := NewService[logistics.Route](log.Routes, f.refs, Config{Resource: "Route"})
	stops := NewService[logistics.RouteStop](log.Stops, f.refs, Config{Resource: "Route stop"})
	performance := NewService[tracking.DeliveryPerformance](trk.Performance, f.refs, Config{Resource: "Delivery performance"})
	shipments := NewService[order.Shipment](ord.Shipments, f.refs, Config{Resource: "Shipment"})
	purchaseOrders := NewService[finance.PurchaseOrder](fin.PurchaseOrders, f.refs, Config{Resource: "Purchase order"})
	suppliers := NewService[partner.Supplier](prt.Suppliers, f.refs, Config{Resource: "Supplier"})
	kpis := NewService[analytics.KPIMetric](an.KPIMetrics, f.refs, Config{Resource: "KPI metric"})
	values := NewService[analytics.MetricValue](an.MetricValues, f.refs, Config{Resource: "Metric value"})

	w := f.warehouse(t, "Fleet Depot")
	o := f.order(t, "ORD-UNIQ")

	seq := 0
	next := func() int { seq++; return seq }

	vehicle, err := vehicles.Create(ctx, actor, &logistics.Vehicle{
		VehicleNumber: "VEH-000", VehicleType: logistics.VehicleTypeVan, LicensePlate: "PLATE-000",
		Capacity: decimal.NewFromInt(800), HomeWarehouseID: w.ID,
	})
	require.NoError(t, err)
	driver, err := drivers.Create(ctx, actor, &logistics.Driver{
		UserID: uuid.New(), DriverLicense: "DL-000", Phone: "+15551234567", Address: "3 Yard Ln",
		City: "Oakland", State: "CA", Country: "USA", PostalCode: "94607",
	})
	require.NoError(t, err)
	start := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	route, err := routes.Create(ctx, actor, &logistics.Route{
		RouteNumber: "RT-000", VehicleID: vehicle.ID, DriverID: driver.ID,
		StartWarehouseID: w.ID, EndWarehouseID: w.ID,
		PlannedStartTime: start, PlannedEndTime: start.Add(6 * time.Hour),
	})
	require.NoError(t, err)
	supplier, err := suppliers.Create(ctx, actor, &partner.Supplier{
		Name: "Parts Co", Email: "sales@parts.test", Phone: "+15557654321", Address: "9 Mill Rd",
		City: "Fresno", State: "CA", PostalCode: "93650",
	})
	require.NoError(t, err)
	kpi, err := kpis.Create(ctx, actor, &analytics.KPIMetric{
		Name: "On-time rate", MetricType: analytics.MetricPercentage, Category: "LOGISTICS",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		create  func() error
		fields  []string
		message string
	}{
		{
			name: "metric value per metric and date",
			create: func() error {
				_, err := values.Create(ctx, actor, &analytics.MetricValue{MetricID: kpi.ID, Date: day, Value: decimal.NewFromInt(int64(next()))})
				return err
			},
			fields:  []string{"metric_id", "date"},
			message: "The fields metric_id, date must make a unique set.",
		},
		{
			name: "delivery performance per driver and date",
			create: func() error {
				_, err := performance.Create(ctx, actor, &tracking.DeliveryPerformance{DriverID: driver.ID, Date: day, TotalDeliveries: next()})
				return err
			},
			fields:  []string{"driver_id", "date"},
			message: "The fields driver_id, date must make a unique set.",
		},
		{
			name: "route stop sequence per route",
			create: func() error {
				_, err := stops.Create(ctx, actor, &logistics.RouteStop{RouteID: route.ID, OrderID: o.ID, Sequence: 1, Notes: fmt.Sprint(next())})
				return err
			},
			fields:  []string{"route_id", "sequence"},
			message: "The fields route_id, sequence must make a unique set.",
		},
		{
			name: "license plate",
			create: func() error {
				_, err := vehicles.Create(ctx, actor, &logistics.Vehicle{
					VehicleNumber: fmt.Sprintf("VEH-%03d", next()), VehicleType: logistics.VehicleTypeTruck,
					LicensePlate: "PLATE-DUP", Capacity: decimal.NewFromInt(1000), HomeWarehouseID: w.ID,
				})
				return err
			},
			fields:  []string{"license_plate"},
			message: "Vehicle with this license plate already exists.",
		},
		{
			name: "tracking number",
			create: func() error {
				_, err := shipments.Create(ctx, actor, &order.Shipment{OrderID: o.ID, TrackingNumber: "TRK-DUP", ShippedFromID: w.ID, Notes: fmt.Sprint(next())})
				return err
			},
			fields:  []string{"tracking_number"},
			message: "Shipment with this tracking number already exists.",
		},
		{
			name: "invoice number",
			create: func() error {
				_, err := f.invoices.Create(ctx, actor, &finance.Invoice{
					InvoiceNumber: "INV-DUP", OrderID: o.ID, CustomerID: o.CustomerID,
					InvoiceDate: day, DueDate: day.AddDays(30), Amounts: finance.Amounts{Subtotal: decimal.NewFromInt(int64(next()))},
				})
				return err
			},
			fields:  []string{"invoice_number"},
			message: "Invoice with this invoice number already exists.",
		},
		{
			name: "purchase order number",
			create: func() error {
				_, err := purchaseOrders.Create(ctx, actor, &finance.PurchaseOrder{
					PONumber: "PO-DUP", SupplierID: supplier.ID, OrderDate: day,
					Amounts: finance.Amounts{Subtotal: decimal.NewFromInt(int64(next()))},
				})
				return err
			},
			fields:  []string{"po_number"},
			message: "Purchase order with this po number already exists.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.create())

			de := requireCode(t, tt.create(), shared.CodeAlreadyExists)
			assert.Equal(t, tt.fields, fields(de))
			assert.Equal(t, tt.message, de.Message)
		})
	}
}

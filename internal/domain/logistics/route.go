package logistics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/order"
	"github.com/supplychain/backend/internal/domain/shared"
)

// RouteStatus is the execution state of a route
type RouteStatus string

const (
	RouteStatusPlanned    RouteStatus = "PLANNED"
	RouteStatusInProgress RouteStatus = "IN_PROGRESS"
	RouteStatusCompleted  RouteStatus = "COMPLETED"
	RouteStatusCancelled  RouteStatus = "CANCELLED"
)

// Route is a planned trip of one vehicle and driver between warehouses
type Route struct {
	shared.BaseEntity
	shared.Authored
	RouteNumber       string           `gorm:"type:varchar(50);not null;uniqueIndex" json:"route_number" binding:"required,max=50"`
	VehicleID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"vehicle_id" binding:"required"`
	DriverID          uuid.UUID        `gorm:"type:uuid;not null;index" json:"driver_id" binding:"required"`
	StartWarehouseID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"start_warehouse_id" binding:"required"`
	EndWarehouseID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"end_warehouse_id" binding:"required"`
	PlannedStartTime  time.Time        `gorm:"not null;index" json:"planned_start_time" binding:"required"`
	PlannedEndTime    time.Time        `gorm:"not null" json:"planned_end_time" binding:"required"`
	ActualStartTime   *time.Time       `json:"actual_start_time"`
	ActualEndTime     *time.Time       `json:"actual_end_time"`
	Status            RouteStatus      `gorm:"type:varchar(20);not null;index" json:"status" binding:"omitempty,oneof=PLANNED IN_PROGRESS COMPLETED CANCELLED"`
	TotalDistance     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_distance"`
	EstimatedFuelCost *decimal.Decimal `gorm:"type:decimal(10,2)" json:"estimated_fuel_cost"`
	VehicleNumber     string           `gorm:"-" json:"vehicle_number,omitempty"`
	DriverLicense     string           `gorm:"-" json:"driver_license,omitempty"`

	Vehicle        *Vehicle             `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"`
	Driver         *Driver              `gorm:"foreignKey:DriverID;constraint:OnDelete:CASCADE" json:"-"`
	StartWarehouse *inventory.Warehouse `gorm:"foreignKey:StartWarehouseID;constraint:OnDelete:CASCADE" json:"-"`
	EndWarehouse   *inventory.Warehouse `gorm:"foreignKey:EndWarehouseID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (Route) TableName() string {
	return "routes"
}

// Normalize implements shared.Normalizer
func (r *Route) Normalize() {
	if r.Status == "" {
		r.Status = RouteStatusPlanned
	}
}

// Validate implements shared.Validatable
func (r *Route) Validate() error {
	return shared.NewRules().
		Check(!r.PlannedEndTime.Before(r.PlannedStartTime), "planned_end_time", "Must not be before planned_start_time").
		NonNegativePtr("total_distance", r.TotalDistance).
		NonNegativePtr("estimated_fuel_cost", r.EstimatedFuelCost).
		Err()
}

// References implements shared.Referencer
func (r *Route) References() []shared.Reference {
	return []shared.Reference{
		{Field: "vehicle_id", Table: "vehicles", ID: r.VehicleID},
		{Field: "driver_id", Table: "drivers", ID: r.DriverID},
		{Field: "start_warehouse_id", Table: "warehouses", ID: r.StartWarehouseID},
		{Field: "end_warehouse_id", Table: "warehouses", ID: r.EndWarehouseID},
	}
}

// UniqueKeys implements shared.UniqueConstrained
func (r *Route) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{shared.Unique("route_number", r.RouteNumber)}
}

// PopulateView fills display fields from loaded associations
func (r *Route) PopulateView() {
	if r.Vehicle != nil {
		r.VehicleNumber = r.Vehicle.VehicleNumber
	}
	if r.Driver != nil {
		r.DriverLicense = r.Driver.DriverLicense
	}
}

// StopStatus is the progress of a route stop
type StopStatus string

const (
	StopStatusPending    StopStatus = "PENDING"
	StopStatusInProgress StopStatus = "IN_PROGRESS"
	StopStatusCompleted  StopStatus = "COMPLETED"
	StopStatusSkipped    StopStatus = "SKIPPED"
)

// RouteStop is a numbered delivery on a route
type RouteStop struct {
	shared.BaseEntity
	RouteID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_route_stops_route_sequence,priority:1" json:"route_id" binding:"required"`
	OrderID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id" binding:"required"`
	Sequence           int        `gorm:"not null;uniqueIndex:idx_route_stops_route_sequence,priority:2" json:"sequence" binding:"required,min=1"`
	EstimatedArrival   *time.Time `json:"estimated_arrival"`
	ActualArrival      *time.Time `json:"actual_arrival"`
	EstimatedDeparture *time.Time `json:"estimated_departure"`
	ActualDeparture    *time.Time `json:"actual_departure"`
	Status             StopStatus `gorm:"type:varchar(20);not null;index" json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED SKIPPED"`
	Notes              string     `gorm:"type:text" json:"notes"`
	RouteNumber        string     `gorm:"-" json:"route_number,omitempty"`
	OrderNumber        string     `gorm:"-" json:"order_number,omitempty"`

	Route *Route       `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE" json:"-"`
	Order *order.Order `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (RouteStop) TableName() string {
	return "route_stops"
}

// Normalize implements shared.Normalizer
func (s *RouteStop) Normalize() {
	if s.Status == "" {
		s.Status = StopStatusPending
	}
}

// References implements shared.Referencer
func (s *RouteStop) References() []shared.Reference {
	return []shared.Reference{
		{Field: "route_id", Table: "routes", ID: s.RouteID},
		{Field: "order_id", Table: "orders", ID: s.OrderID},
	}
}

// UniqueKeys implements shared.UniqueConstrained
func (s *RouteStop) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{
		shared.UniqueTogether("route_id", s.RouteID, "sequence", s.Sequence),
	}
}

// PopulateView fills display fields from loaded associations
func (s *RouteStop) PopulateView() {
	if s.Route != nil {
		s.RouteNumber = s.Route.RouteNumber
	}
	if s.Order != nil {
		s.OrderNumber = s.Order.OrderNumber
	}
}

// Repositories groups the persistence ports of the logistics domain
type Repositories struct {
	Vehicles shared.Repository[Vehicle]
	Drivers  shared.Repository[Driver]
	Routes   shared.Repository[Route]
	Stops    shared.Repository[RouteStop]
}

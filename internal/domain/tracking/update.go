// Package tracking records what happens to shipments and drivers while
// deliveries are under way.
package tracking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/order"
	"github.com/supplychain/backend/internal/domain/shared"
)

// UpdateType is the kind of delivery event
type UpdateType string

const (
	UpdatePickup         UpdateType = "PICKUP"
	UpdateInTransit      UpdateType = "IN_TRANSIT"
	UpdateOutForDelivery UpdateType = "OUT_FOR_DELIVERY"
	UpdateDelivered      UpdateType = "DELIVERED"
	UpdateFailed         UpdateType = "FAILED"
	UpdateReturned       UpdateType = "RETURNED"
)

// coordinates validates an optional latitude/longitude pair
func coordinates(r *shared.Rules, lat, lng *decimal.Decimal) *shared.Rules {
	return r.BetweenPtr("latitude", lat, -90, 90).BetweenPtr("longitude", lng, -180, 180)
}

// optionalRoute builds the reference for a nullable route id
func optionalRoute(id *uuid.UUID) shared.Reference {
	ref := shared.Reference{Field: "route_id", Table: "routes", Optional: true}
	if id != nil {
		ref.ID = *id
	}
	return ref
}

// DeliveryUpdate is an event in the life of a shipment
type DeliveryUpdate struct {
	shared.BaseEntity
	shared.Authored
	ShipmentID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"shipment_id" binding:"required"`
	RouteID        *uuid.UUID       `gorm:"type:uuid;index" json:"route_id"`
	UpdateType     UpdateType       `gorm:"type:varchar(20);not null;index" json:"update_type" binding:"required,oneof=PICKUP IN_TRANSIT OUT_FOR_DELIVERY DELIVERED FAILED RETURNED"`
	Location       string           `gorm:"type:varchar(255)" json:"location" binding:"max=255"`
	Latitude       *decimal.Decimal `gorm:"type:decimal(9,6)" json:"latitude"`
	Longitude      *decimal.Decimal `gorm:"type:decimal(9,6)" json:"longitude"`
	Notes          string           `gorm:"type:text" json:"notes"`
	TrackingNumber string           `gorm:"-" json:"tracking_number,omitempty"`

	Shipment *order.Shipment  `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE" json:"-"`
	Route    *logistics.Route `gorm:"foreignKey:RouteID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName returns the table name for GORM
func (DeliveryUpdate) TableName() string {
	return "delivery_updates"
}

// Validate implements shared.Validatable
func (u *DeliveryUpdate) Validate() error {
	return coordinates(shared.NewRules(), u.Latitude, u.Longitude).Err()
}

// References implements shared.Referencer
func (u *DeliveryUpdate) References() []shared.Reference {
	return []shared.Reference{
		{Field: "shipment_id", Table: "shipments", ID: u.ShipmentID},
		optionalRoute(u.RouteID),
	}
}

// PopulateView fills display fields from loaded associations
func (u *DeliveryUpdate) PopulateView() {
	if u.Shipment != nil {
		u.TrackingNumber = u.Shipment.TrackingNumber
	}
}

// DriverLocation is a position fix reported by a driver
type DriverLocation struct {
	shared.BaseEntity
	DriverID  uuid.UUID        `gorm:"type:uuid;not null;index:idx_driver_locations_driver_time,priority:1" json:"driver_id" binding:"required"`
	RouteID   *uuid.UUID       `gorm:"type:uuid;index" json:"route_id"`
	Latitude  decimal.Decimal  `gorm:"type:decimal(9,6);not null" json:"latitude"`
	Longitude decimal.Decimal  `gorm:"type:decimal(9,6);not null" json:"longitude"`
	Speed     *decimal.Decimal `gorm:"type:decimal(5,2)" json:"speed"`
	Heading   *decimal.Decimal `gorm:"type:decimal(5,2)" json:"heading"`
	Timestamp time.Time        `gorm:"not null;index:idx_driver_locations_driver_time,priority:2" json:"timestamp"`

	Driver *logistics.Driver `gorm:"foreignKey:DriverID;constraint:OnDelete:CASCADE" json:"-"`
	Route  *logistics.Route  `gorm:"foreignKey:RouteID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName returns the table name for GORM
func (DriverLocation) TableName() string {
	return "driver_locations"
}

// StampCreate implements shared.CreateStamper
func (l *DriverLocation) StampCreate(now time.Time) {
	l.Timestamp = now
}

// Inherit implements shared.Inheritor
func (l *DriverLocation) Inherit(prev *DriverLocation) {
	l.Timestamp = prev.Timestamp
}

// Validate implements shared.Validatable
func (l *DriverLocation) Validate() error {
	return coordinates(shared.NewRules(), &l.Latitude, &l.Longitude).
		NonNegativePtr("speed", l.Speed).
		BetweenPtr("heading", l.Heading, 0, 360).
		Err()
}

// References implements shared.Referencer
func (l *DriverLocation) References() []shared.Reference {
	return []shared.Reference{
		{Field: "driver_id", Table: "drivers", ID: l.DriverID},
		optionalRoute(l.RouteID),
	}
}

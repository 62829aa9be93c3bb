package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
)

// ShipmentStatus is the carrier stage of a shipment
type ShipmentStatus string

const (
	ShipmentStatusPreparing ShipmentStatus = "PREPARING"
	ShipmentStatusShipped   ShipmentStatus = "SHIPPED"
	ShipmentStatusInTransit ShipmentStatus = "IN_TRANSIT"
	ShipmentStatusDelivered ShipmentStatus = "DELIVERED"
)

// Shipment is a physical dispatch of an order. An order may have several.
type Shipment struct {
	shared.BaseEntity
	OrderID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id" binding:"required"`
	TrackingNumber string         `gorm:"type:varchar(100);not null;uniqueIndex" json:"tracking_number" binding:"required,max=100"`
	Status         ShipmentStatus `gorm:"type:varchar(20);not null;index" json:"status" binding:"omitempty,oneof=PREPARING SHIPPED IN_TRANSIT DELIVERED"`
	ShippedFromID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"shipped_from_id" binding:"required"`
	ShippedDate    *time.Time     `json:"shipped_date"`
	DeliveredDate  *time.Time     `json:"delivered_date"`
	Notes          string         `gorm:"type:text" json:"notes"`
	OrderNumber    string         `gorm:"-" json:"order_number,omitempty"`
	WarehouseName  string         `gorm:"-" json:"shipped_from_name,omitempty"`

	Order       *Order               `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	ShippedFrom *inventory.Warehouse `gorm:"foreignKey:ShippedFromID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (Shipment) TableName() string {
	return "shipments"
}

// Normalize implements shared.Normalizer
func (s *Shipment) Normalize() {
	if s.Status == "" {
		s.Status = ShipmentStatusPreparing
	}
}

// Validate implements shared.Validatable
func (s *Shipment) Validate() error {
	ok := s.ShippedDate == nil || s.DeliveredDate == nil || !s.DeliveredDate.Before(*s.ShippedDate)
	return shared.NewRules().
		Check(ok, "delivered_date", "Must not be before shipped_date").
		Err()
}

// References implements shared.Referencer
func (s *Shipment) References() []shared.Reference {
	return []shared.Reference{
		{Field: "order_id", Table: "orders", ID: s.OrderID},
		{Field: "shipped_from_id", Table: "warehouses", ID: s.ShippedFromID},
	}
}

// UniqueKeys implements shared.UniqueConstrained
func (s *Shipment) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{shared.Unique("tracking_number", s.TrackingNumber)}
}

// PopulateView fills display fields from loaded associations
func (s *Shipment) PopulateView() {
	if s.Order != nil {
		s.OrderNumber = s.Order.OrderNumber
	}
	if s.ShippedFrom != nil {
		s.WarehouseName = s.ShippedFrom.Name
	}
}

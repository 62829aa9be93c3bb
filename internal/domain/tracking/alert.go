package tracking

import (
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/order"
	"github.com/supplychain/backend/internal/domain/shared"
)

// AlertType is the cause of a delivery alert
type AlertType string

const (
	AlertDelay    AlertType = "DELAY"
	AlertWeather  AlertType = "WEATHER"
	AlertTraffic  AlertType = "TRAFFIC"
	AlertVehicle  AlertType = "VEHICLE"
	AlertDriver   AlertType = "DRIVER"
	AlertCustomer AlertType = "CUSTOMER"
)

// Priority ranks how urgently an alert needs attention
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// DeliveryAlert flags a problem affecting shipments and routes.
// The affected id lists are stored in join tables.
type DeliveryAlert struct {
	shared.BaseEntity
	shared.Authored
	AlertType           AlertType   `gorm:"type:varchar(20);not null;index" json:"alert_type" binding:"required,oneof=DELAY WEATHER TRAFFIC VEHICLE DRIVER CUSTOMER"`
	Priority            Priority    `gorm:"type:varchar(10);not null;index" json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Title               string      `gorm:"type:varchar(200);not null" json:"title" binding:"required,max=200"`
	Message             string      `gorm:"type:text;not null" json:"message" binding:"required"`
	AffectedShipmentIDs []uuid.UUID `gorm:"-" json:"affected_shipments"`
	AffectedRouteIDs    []uuid.UUID `gorm:"-" json:"affected_routes"`
	IsResolved          bool        `gorm:"not null;default:false;index" json:"is_resolved"`
	ResolvedAt          *time.Time  `json:"resolved_at"`
	ResolvedBy          *uuid.UUID  `gorm:"type:uuid" json:"resolved_by"`
}

// TableName returns the table name for GORM
func (DeliveryAlert) TableName() string {
	return "delivery_alerts"
}

// Normalize implements shared.Normalizer
func (a *DeliveryAlert) Normalize() {
	if a.Priority == "" {
		a.Priority = PriorityMedium
	}
	a.AffectedShipmentIDs = dedupe(a.AffectedShipmentIDs)
	a.AffectedRouteIDs = dedupe(a.AffectedRouteIDs)
}

// Inherit implements shared.Inheritor
func (a *DeliveryAlert) Inherit(prev *DeliveryAlert) {
	if a.IsResolved && prev.IsResolved {
		if a.ResolvedAt == nil {
			a.ResolvedAt = prev.ResolvedAt
		}
		if a.ResolvedBy == nil {
			a.ResolvedBy = prev.ResolvedBy
		}
	}
}

// Stamp implements shared.Stamper. Resolving records who and when;
// reopening clears both.
func (a *DeliveryAlert) Stamp(actor uuid.UUID, now time.Time) {
	if !a.IsResolved {
		a.ResolvedAt = nil
		a.ResolvedBy = nil
		return
	}
	if a.ResolvedAt == nil {
		a.ResolvedAt = &now
	}
	if a.ResolvedBy == nil && actor != uuid.Nil {
		a.ResolvedBy = &actor
	}
}

// References implements shared.Referencer
func (a *DeliveryAlert) References() []shared.Reference {
	refs := make([]shared.Reference, 0, len(a.AffectedShipmentIDs)+len(a.AffectedRouteIDs))
	for _, id := range a.AffectedShipmentIDs {
		refs = append(refs, shared.Reference{Field: "affected_shipments", Table: "shipments", ID: id})
	}
	for _, id := range a.AffectedRouteIDs {
		refs = append(refs, shared.Reference{Field: "affected_routes", Table: "routes", ID: id})
	}
	return refs
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// AlertShipment links an alert to an affected shipment
type AlertShipment struct {
	AlertID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID uuid.UUID `gorm:"type:uuid;primaryKey;index"`

	Alert    *DeliveryAlert  `gorm:"foreignKey:AlertID;constraint:OnDelete:CASCADE"`
	Shipment *order.Shipment `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (AlertShipment) TableName() string {
	return "delivery_alert_shipments"
}

// AlertRoute links an alert to an affected route
type AlertRoute struct {
	AlertID uuid.UUID `gorm:"type:uuid;primaryKey"`
	RouteID uuid.UUID `gorm:"type:uuid;primaryKey;index"`

	Alert *DeliveryAlert   `gorm:"foreignKey:AlertID;constraint:OnDelete:CASCADE"`
	Route *logistics.Route `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (AlertRoute) TableName() string {
	return "delivery_alert_routes"
}

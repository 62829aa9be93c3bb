package inventory

import (
	"github.com/supplychain/backend/internal/domain/shared"
)

// Warehouse is a physical storage site
type Warehouse struct {
	shared.BaseEntity
	Name       string `gorm:"type:varchar(200);not null" json:"name" binding:"required,max=200"`
	Address    string `gorm:"type:text;not null" json:"address" binding:"required"`
	City       string `gorm:"type:varchar(100);not null" json:"city" binding:"required,max=100"`
	State      string `gorm:"type:varchar(100);not null" json:"state" binding:"required,max=100"`
	Country    string `gorm:"type:varchar(100);not null" json:"country" binding:"required,max=100"`
	PostalCode string `gorm:"type:varchar(20);not null" json:"postal_code" binding:"required,max=20"`
	// Capacity is measured in units.
	Capacity int   `gorm:"not null" json:"capacity" binding:"gte=0"`
	IsActive *bool `gorm:"not null" json:"is_active"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// Normalize implements shared.Normalizer
func (w *Warehouse) Normalize() {
	if w.IsActive == nil {
		w.IsActive = shared.Ptr(true)
	}
}

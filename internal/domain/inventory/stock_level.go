package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

const (
	// DefaultReorderLevel applies when a stock level is created without one
	DefaultReorderLevel = 10
	// LowStockThreshold is the quantity at or below which stock is reported low
	LowStockThreshold = 10
)

// StockLevel is the on-hand quantity of one product in one warehouse.
// It is maintained independently of the transaction ledger.
type StockLevel struct {
	shared.BaseEntity
	ProductID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_levels_product_warehouse,priority:1" json:"product_id" binding:"required"`
	WarehouseID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_levels_product_warehouse,priority:2;index" json:"warehouse_id" binding:"required"`
	Quantity      int       `gorm:"not null;default:0" json:"quantity"`
	ReorderLevel  *int      `gorm:"not null" json:"reorder_level" binding:"omitempty,gte=0"`
	LastUpdated   time.Time `gorm:"not null" json:"last_updated"`
	ProductName   string    `gorm:"-" json:"product_name,omitempty"`
	ProductSKU    string    `gorm:"-" json:"product_sku,omitempty"`
	WarehouseName string    `gorm:"-" json:"warehouse_name,omitempty"`

	Product   *Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "inventory_levels"
}

// IsLow reports whether the quantity is at or below the low-stock threshold
func (s *StockLevel) IsLow() bool {
	return s.Quantity <= LowStockThreshold
}

// NeedsReorder reports whether the quantity is at or below the reorder level
func (s *StockLevel) NeedsReorder() bool {
	return s.ReorderLevel != nil && s.Quantity <= *s.ReorderLevel
}

// Normalize implements shared.Normalizer
func (s *StockLevel) Normalize() {
	if s.ReorderLevel == nil {
		s.ReorderLevel = shared.Ptr(DefaultReorderLevel)
	}
}

// Stamp implements shared.Stamper
func (s *StockLevel) Stamp(_ uuid.UUID, now time.Time) {
	s.LastUpdated = now
}

// References implements shared.Referencer
func (s *StockLevel) References() []shared.Reference {
	return []shared.Reference{
		{Field: "product_id", Table: "products", ID: s.ProductID},
		{Field: "warehouse_id", Table: "warehouses", ID: s.WarehouseID},
	}
}

// UniqueKeys implements shared.UniqueConstrained
func (s *StockLevel) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{
		shared.UniqueTogether("product_id", s.ProductID, "warehouse_id", s.WarehouseID),
	}
}

// PopulateView fills display fields from loaded associations
func (s *StockLevel) PopulateView() {
	if s.Product != nil {
		s.ProductName = s.Product.Name
		s.ProductSKU = s.Product.SKU
	}
	if s.Warehouse != nil {
		s.WarehouseName = s.Warehouse.Name
	}
}

package inventory

import (
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// TransactionType classifies a stock movement
type TransactionType string

const (
	TransactionTypeIn       TransactionType = "IN"
	TransactionTypeOut      TransactionType = "OUT"
	TransactionTypeAdjust   TransactionType = "ADJUST"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// Transaction is one entry in the stock movement ledger. Recording a
// transaction never changes a StockLevel; the two are kept separately.
type Transaction struct {
	shared.BaseEntity
	shared.Authored
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" binding:"required"`
	WarehouseID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"warehouse_id" binding:"required"`
	TransactionType TransactionType `gorm:"type:varchar(10);not null;index" json:"transaction_type" binding:"required,oneof=IN OUT ADJUST TRANSFER"`
	Quantity        int             `gorm:"not null" json:"quantity" binding:"required"`
	Reference       string          `gorm:"type:varchar(100)" json:"reference" binding:"max=100"`
	Notes           string          `gorm:"type:text" json:"notes"`
	ProductName     string          `gorm:"-" json:"product_name,omitempty"`
	WarehouseName   string          `gorm:"-" json:"warehouse_name,omitempty"`

	Product   *Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "inventory_transactions"
}

// References implements shared.Referencer
func (t *Transaction) References() []shared.Reference {
	return []shared.Reference{
		{Field: "product_id", Table: "products", ID: t.ProductID},
		{Field: "warehouse_id", Table: "warehouses", ID: t.WarehouseID},
	}
}

// PopulateView fills display fields from loaded associations
func (t *Transaction) PopulateView() {
	if t.Product != nil {
		t.ProductName = t.Product.Name
	}
	if t.Warehouse != nil {
		t.WarehouseName = t.Warehouse.Name
	}
}

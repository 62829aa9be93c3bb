package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
)

// POStatus is the fulfilment state of a purchase order
type POStatus string

const (
	POStatusDraft     POStatus = "DRAFT"
	POStatusSent      POStatus = "SENT"
	POStatusConfirmed POStatus = "CONFIRMED"
	POStatusPartial   POStatus = "PARTIAL"
	POStatusCompleted POStatus = "COMPLETED"
	POStatusCancelled POStatus = "CANCELLED"
)

// PurchaseOrder is an order placed with a supplier
type PurchaseOrder struct {
	shared.BaseEntity
	shared.Authored
	PONumber         string      `gorm:"column:po_number;type:varchar(50);not null;uniqueIndex" json:"po_number" binding:"required,max=50"`
	SupplierID       uuid.UUID   `gorm:"type:uuid;not null;index" json:"supplier_id" binding:"required"`
	OrderDate        shared.Date `gorm:"not null;index" json:"order_date"`
	ExpectedDelivery shared.Date `json:"expected_delivery"`
	Status           POStatus    `gorm:"type:varchar(20);not null;index" json:"status" binding:"omitempty,oneof=DRAFT SENT CONFIRMED PARTIAL COMPLETED CANCELLED"`
	Amounts
	Notes        string `gorm:"type:text" json:"notes"`
	SupplierName string `gorm:"-" json:"supplier_name,omitempty"`

	Supplier *partner.Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// Normalize implements shared.Normalizer
func (p *PurchaseOrder) Normalize() {
	if p.Status == "" {
		p.Status = POStatusDraft
	}
	p.recompute()
}

// Validate implements shared.Validatable
func (p *PurchaseOrder) Validate() error {
	r := shared.NewRules().RequiredDate("order_date", p.OrderDate)
	if !p.ExpectedDelivery.IsZero() && !p.OrderDate.IsZero() {
		r.Check(!p.ExpectedDelivery.Before(p.OrderDate.Time), "expected_delivery", "Must not be before order_date")
	}
	return p.rules(r).Err()
}

// References implements shared.Referencer
func (p *PurchaseOrder) References() []shared.Reference {
	return []shared.Reference{{Field: "supplier_id", Table: "suppliers", ID: p.SupplierID}}
}

// UniqueKeys implements shared.UniqueConstrained
func (p *PurchaseOrder) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{shared.Unique("po_number", p.PONumber)}
}

// PopulateView fills display fields from loaded associations
func (p *PurchaseOrder) PopulateView() {
	if p.Supplier != nil {
		p.SupplierName = p.Supplier.Name
	}
}

// PurchaseOrderItem is one ordered product line
type PurchaseOrderItem struct {
	shared.BaseEntity
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id" binding:"required"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" binding:"required"`
	Quantity        int             `gorm:"not null" json:"quantity" binding:"required,min=1"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_cost"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_cost"`
	ProductName     string          `gorm:"-" json:"product_name,omitempty"`
	PONumber        string          `gorm:"-" json:"po_number,omitempty"`

	PurchaseOrder *PurchaseOrder     `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE" json:"-"`
	Product       *inventory.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// Normalize implements shared.Normalizer
func (i *PurchaseOrderItem) Normalize() {
	i.TotalCost = shared.LineTotal(i.Quantity, i.UnitCost)
}

// Validate implements shared.Validatable
func (i *PurchaseOrderItem) Validate() error {
	return shared.NewRules().NonNegative("unit_cost", i.UnitCost).Err()
}

// References implements shared.Referencer
func (i *PurchaseOrderItem) References() []shared.Reference {
	return []shared.Reference{
		{Field: "purchase_order_id", Table: "purchase_orders", ID: i.PurchaseOrderID},
		{Field: "product_id", Table: "products", ID: i.ProductID},
	}
}

// PopulateView fills display fields from loaded associations
func (i *PurchaseOrderItem) PopulateView() {
	if i.Product != nil {
		i.ProductName = i.Product.Name
	}
	if i.PurchaseOrder != nil {
		i.PONumber = i.PurchaseOrder.PONumber
	}
}

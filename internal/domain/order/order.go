package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
)

// Status is the fulfilment stage of an order. Any stage may move to
// CANCELLED; transitions are not enforced.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// Order is a customer's request for goods
type Order struct {
	shared.BaseEntity
	shared.Authored
	OrderNumber     string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"order_number" binding:"required,max=50"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id" binding:"required"`
	Status          Status          `gorm:"type:varchar(20);not null;index" json:"status" binding:"omitempty,oneof=PENDING CONFIRMED PROCESSING SHIPPED DELIVERED CANCELLED"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	ShippingAddress string          `gorm:"type:text;not null" json:"shipping_address" binding:"required"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CustomerName    string          `gorm:"-" json:"customer_name,omitempty"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// Normalize implements shared.Normalizer
func (o *Order) Normalize() {
	if o.Status == "" {
		o.Status = StatusPending
	}
}

// Validate implements shared.Validatable
func (o *Order) Validate() error {
	return shared.NewRules().NonNegative("total_amount", o.TotalAmount).Err()
}

// References implements shared.Referencer
func (o *Order) References() []shared.Reference {
	return []shared.Reference{{Field: "customer_id", Table: "customers", ID: o.CustomerID}}
}

// UniqueKeys implements shared.UniqueConstrained
func (o *Order) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{shared.Unique("order_number", o.OrderNumber)}
}

// PopulateView fills display fields from loaded associations
func (o *Order) PopulateView() {
	if o.Customer != nil {
		o.CustomerName = o.Customer.Name
	}
}

// Item is one product line of an order
type Item struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id" binding:"required"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" binding:"required"`
	Quantity    int             `gorm:"not null" json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	ProductName string          `gorm:"-" json:"product_name,omitempty"`
	OrderNumber string          `gorm:"-" json:"order_number,omitempty"`

	Order   *Order             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Product *inventory.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// Normalize implements shared.Normalizer
func (i *Item) Normalize() {
	i.TotalPrice = shared.LineTotal(i.Quantity, i.UnitPrice)
}

// Validate implements shared.Validatable
func (i *Item) Validate() error {
	return shared.NewRules().NonNegative("unit_price", i.UnitPrice).Err()
}

// References implements shared.Referencer
func (i *Item) References() []shared.Reference {
	return []shared.Reference{
		{Field: "order_id", Table: "orders", ID: i.OrderID},
		{Field: "product_id", Table: "products", ID: i.ProductID},
	}
}

// PopulateView fills display fields from loaded associations
func (i *Item) PopulateView() {
	if i.Product != nil {
		i.ProductName = i.Product.Name
	}
	if i.Order != nil {
		i.OrderNumber = i.Order.OrderNumber
	}
}

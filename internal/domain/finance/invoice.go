// Package finance holds receivables, payables and expense records.
package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/order"
	"github.com/supplychain/backend/internal/domain/shared"
)

// Amounts are the priced components of an invoice or purchase order.
// TotalAmount is always recomputed from the other three.
type Amounts struct {
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	ShippingAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
}

func (a *Amounts) recompute() {
	a.TotalAmount = shared.InvoiceTotal(a.Subtotal, a.TaxAmount, a.ShippingAmount)
}

func (a *Amounts) rules(r *shared.Rules) *shared.Rules {
	return r.NonNegative("subtotal", a.Subtotal).
		NonNegative("tax_amount", a.TaxAmount).
		NonNegative("shipping_amount", a.ShippingAmount)
}

// InvoiceStatus is the collection state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// Invoice bills a customer for an order
type Invoice struct {
	shared.BaseEntity
	shared.Authored
	InvoiceNumber string        `gorm:"type:varchar(50);not null;uniqueIndex" json:"invoice_number" binding:"required,max=50"`
	OrderID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"order_id" binding:"required"`
	CustomerID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"customer_id" binding:"required"`
	InvoiceDate   shared.Date   `gorm:"not null;index" json:"invoice_date"`
	DueDate       shared.Date   `gorm:"not null;index" json:"due_date"`
	Status        InvoiceStatus `gorm:"type:varchar(20);not null;index" json:"status" binding:"omitempty,oneof=DRAFT SENT PAID OVERDUE CANCELLED"`
	Amounts
	Notes        string `gorm:"type:text" json:"notes"`
	OrderNumber  string `gorm:"-" json:"order_number,omitempty"`
	CustomerName string `gorm:"-" json:"customer_name,omitempty"`

	Order    *order.Order    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Customer *order.Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// Normalize implements shared.Normalizer
func (i *Invoice) Normalize() {
	if i.Status == "" {
		i.Status = InvoiceStatusDraft
	}
	i.recompute()
}

// Validate implements shared.Validatable
func (i *Invoice) Validate() error {
	r := shared.NewRules().
		RequiredDate("invoice_date", i.InvoiceDate).
		RequiredDate("due_date", i.DueDate)
	if !i.InvoiceDate.IsZero() && !i.DueDate.IsZero() {
		r.Check(!i.DueDate.Before(i.InvoiceDate.Time), "due_date", "Must not be before invoice_date")
	}
	return i.rules(r).Err()
}

// References implements shared.Referencer
func (i *Invoice) References() []shared.Reference {
	return []shared.Reference{
		{Field: "order_id", Table: "orders", ID: i.OrderID},
		{Field: "customer_id", Table: "customers", ID: i.CustomerID},
	}
}

// UniqueKeys implements shared.UniqueConstrained
func (i *Invoice) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{shared.Unique("invoice_number", i.InvoiceNumber)}
}

// PopulateView fills display fields from loaded associations
func (i *Invoice) PopulateView() {
	if i.Order != nil {
		i.OrderNumber = i.Order.OrderNumber
	}
	if i.Customer != nil {
		i.CustomerName = i.Customer.Name
	}
}

// InvoiceItem is one billed product line
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id" binding:"required"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" binding:"required"`
	Quantity    int             `gorm:"not null" json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	ProductName string          `gorm:"-" json:"product_name,omitempty"`

	Invoice *Invoice           `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"-"`
	Product *inventory.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Normalize implements shared.Normalizer
func (i *InvoiceItem) Normalize() {
	i.TotalPrice = shared.LineTotal(i.Quantity, i.UnitPrice)
}

// Validate implements shared.Validatable
func (i *InvoiceItem) Validate() error {
	return shared.NewRules().NonNegative("unit_price", i.UnitPrice).Err()
}

// References implements shared.Referencer
func (i *InvoiceItem) References() []shared.Reference {
	return []shared.Reference{
		{Field: "invoice_id", Table: "invoices", ID: i.InvoiceID},
		{Field: "product_id", Table: "products", ID: i.ProductID},
	}
}

// PopulateView fills display fields from loaded associations
func (i *InvoiceItem) PopulateView() {
	if i.Product != nil {
		i.ProductName = i.Product.Name
	}
}

// PaymentMethod is how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodACH          PaymentMethod = "ACH"
	PaymentMethodWire         PaymentMethod = "WIRE"
)

// PaymentStatus is the settlement state of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Payment is money received against an invoice. Amounts are not checked
// against the invoice total.
type Payment struct {
	shared.BaseEntity
	shared.Authored
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id" binding:"required"`
	PaymentDate     shared.Date     `gorm:"not null;index" json:"payment_date"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMethod   PaymentMethod   `gorm:"type:varchar(20);not null;index" json:"payment_method" binding:"required,oneof=CASH CHECK CREDIT_CARD BANK_TRANSFER ACH WIRE"`
	ReferenceNumber string          `gorm:"type:varchar(100)" json:"reference_number" binding:"max=100"`
	Status          PaymentStatus   `gorm:"type:varchar(20);not null;index" json:"status" binding:"omitempty,oneof=PENDING COMPLETED FAILED REFUNDED"`
	Notes           string          `gorm:"type:text" json:"notes"`
	InvoiceNumber   string          `gorm:"-" json:"invoice_number,omitempty"`

	Invoice *Invoice `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// Normalize implements shared.Normalizer
func (p *Payment) Normalize() {
	if p.Status == "" {
		p.Status = PaymentStatusPending
	}
}

// Validate implements shared.Validatable
func (p *Payment) Validate() error {
	return shared.NewRules().
		RequiredDate("payment_date", p.PaymentDate).
		NonNegative("amount", p.Amount).
		Err()
}

// References implements shared.Referencer
func (p *Payment) References() []shared.Reference {
	return []shared.Reference{{Field: "invoice_id", Table: "invoices", ID: p.InvoiceID}}
}

// PopulateView fills display fields from loaded associations
func (p *Payment) PopulateView() {
	if p.Invoice != nil {
		p.InvoiceNumber = p.Invoice.InvoiceNumber
	}
}

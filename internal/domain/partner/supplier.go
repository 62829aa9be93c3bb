package partner

import (
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
)

// SupplierType classifies a supplier
type SupplierType string

const (
	SupplierTypeManufacturer SupplierType = "MANUFACTURER"
	SupplierTypeDistributor  SupplierType = "DISTRIBUTOR"
	SupplierTypeWholesaler   SupplierType = "WHOLESALER"
	SupplierTypeService      SupplierType = "SERVICE"
)

// SupplierStatus is the approval state of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "ACTIVE"
	SupplierStatusInactive SupplierStatus = "INACTIVE"
	SupplierStatusApproved SupplierStatus = "APPROVED"
	SupplierStatusPending  SupplierStatus = "PENDING"
)

// DefaultLeadTimeDays applies when a supplier is created without a lead time
const DefaultLeadTimeDays = 7

// Supplier is a partner the business buys from
type Supplier struct {
	shared.BaseEntity
	shared.Authored
	Name         string          `gorm:"type:varchar(200);not null" json:"name" binding:"required,max=200"`
	SupplierType SupplierType    `gorm:"type:varchar(20);not null;index" json:"supplier_type" binding:"omitempty,oneof=MANUFACTURER DISTRIBUTOR WHOLESALER SERVICE"`
	Email        string          `gorm:"type:varchar(254);not null" json:"email" binding:"required,email"`
	Phone        string          `gorm:"type:varchar(20);not null" json:"phone" binding:"required,max=20"`
	Address      string          `gorm:"type:text;not null" json:"address" binding:"required"`
	City         string          `gorm:"type:varchar(100);not null" json:"city" binding:"required,max=100"`
	State        string          `gorm:"type:varchar(100);not null" json:"state" binding:"required,max=100"`
	PostalCode   string          `gorm:"type:varchar(20);not null" json:"postal_code" binding:"required,max=20"`
	Country      string          `gorm:"type:varchar(100);not null;index" json:"country" binding:"max=100"`
	Status       SupplierStatus  `gorm:"type:varchar(20);not null;index" json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE APPROVED PENDING"`
	TaxID        string          `gorm:"type:varchar(50)" json:"tax_id" binding:"max=50"`
	PaymentTerms string          `gorm:"type:varchar(100);not null" json:"payment_terms" binding:"max=100"`
	LeadTimeDays *int            `gorm:"not null" json:"lead_time_days" binding:"omitempty,gte=0"`
	MinimumOrder decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"minimum_order"`
	Notes        string          `gorm:"type:text" json:"notes"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// Normalize implements shared.Normalizer
func (s *Supplier) Normalize() {
	if s.SupplierType == "" {
		s.SupplierType = SupplierTypeDistributor
	}
	if s.Country == "" {
		s.Country = DefaultCountry
	}
	if s.Status == "" {
		s.Status = SupplierStatusPending
	}
	if s.PaymentTerms == "" {
		s.PaymentTerms = DefaultPaymentTerms
	}
	if s.LeadTimeDays == nil {
		s.LeadTimeDays = shared.Ptr(DefaultLeadTimeDays)
	}
}

// Validate implements shared.Validatable
func (s *Supplier) Validate() error {
	return shared.NewRules().
		Check(ValidPhone(s.Phone), "phone", "Enter a valid phone number").
		NonNegative("minimum_order", s.MinimumOrder).
		Err()
}

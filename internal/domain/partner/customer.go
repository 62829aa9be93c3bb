package partner

import (
	"regexp"

	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
)

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// ValidPhone reports whether s is an acceptable phone number
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

const (
	DefaultCountry      = "USA"
	DefaultPaymentTerms = "Net 30"
)

// CustomerType classifies a trading customer
type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "INDIVIDUAL"
	CustomerTypeBusiness   CustomerType = "BUSINESS"
	CustomerTypeWholesale  CustomerType = "WHOLESALE"
	CustomerTypeRetail     CustomerType = "RETAIL"
)

// CustomerStatus is the account standing of a customer
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "ACTIVE"
	CustomerStatusInactive  CustomerStatus = "INACTIVE"
	CustomerStatusSuspended CustomerStatus = "SUSPENDED"
)

// Customer is a trading partner that buys from the business, with
// commercial terms. It is separate from the order-desk customer record.
type Customer struct {
	shared.BaseEntity
	shared.Authored
	Name         string          `gorm:"type:varchar(200);not null" json:"name" binding:"required,max=200"`
	CustomerType CustomerType    `gorm:"type:varchar(20);not null;index" json:"customer_type" binding:"omitempty,oneof=INDIVIDUAL BUSINESS WHOLESALE RETAIL"`
	Email        string          `gorm:"type:varchar(254);not null;uniqueIndex" json:"email" binding:"required,email"`
	Phone        string          `gorm:"type:varchar(20);not null" json:"phone" binding:"required,max=20"`
	Address      string          `gorm:"type:text;not null" json:"address" binding:"required"`
	City         string          `gorm:"type:varchar(100);not null" json:"city" binding:"required,max=100"`
	State        string          `gorm:"type:varchar(100);not null" json:"state" binding:"required,max=100"`
	PostalCode   string          `gorm:"type:varchar(20);not null" json:"postal_code" binding:"required,max=20"`
	Country      string          `gorm:"type:varchar(100);not null;index" json:"country" binding:"max=100"`
	Status       CustomerStatus  `gorm:"type:varchar(20);not null;index" json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
	CreditLimit  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"credit_limit"`
	PaymentTerms string          `gorm:"type:varchar(100);not null" json:"payment_terms" binding:"max=100"`
	Notes        string          `gorm:"type:text" json:"notes"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "partner_customers"
}

// Normalize implements shared.Normalizer
func (c *Customer) Normalize() {
	if c.CustomerType == "" {
		c.CustomerType = CustomerTypeIndividual
	}
	if c.Country == "" {
		c.Country = DefaultCountry
	}
	if c.Status == "" {
		c.Status = CustomerStatusActive
	}
	if c.PaymentTerms == "" {
		c.PaymentTerms = DefaultPaymentTerms
	}
}

// Validate implements shared.Validatable
func (c *Customer) Validate() error {
	return shared.NewRules().
		Check(ValidPhone(c.Phone), "phone", "Enter a valid phone number").
		NonNegative("credit_limit", c.CreditLimit).
		Err()
}

// UniqueKeys implements shared.UniqueConstrained
func (c *Customer) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{shared.Unique("email", c.Email)}
}

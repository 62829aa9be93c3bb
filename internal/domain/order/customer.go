package order

import (
	"github.com/supplychain/backend/internal/domain/shared"
)

// Customer is the order-desk record of who an order ships and bills to
type Customer struct {
	shared.BaseEntity
	Name       string `gorm:"type:varchar(200);not null" json:"name" binding:"required,max=200"`
	Email      string `gorm:"type:varchar(254);not null;uniqueIndex" json:"email" binding:"required,email"`
	Phone      string `gorm:"type:varchar(20)" json:"phone" binding:"max=20"`
	Address    string `gorm:"type:text;not null" json:"address" binding:"required"`
	City       string `gorm:"type:varchar(100);not null;index" json:"city" binding:"required,max=100"`
	State      string `gorm:"type:varchar(100);not null;index" json:"state" binding:"required,max=100"`
	Country    string `gorm:"type:varchar(100);not null" json:"country" binding:"required,max=100"`
	PostalCode string `gorm:"type:varchar(20);not null" json:"postal_code" binding:"required,max=20"`
	IsActive   *bool  `gorm:"not null;index" json:"is_active"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// Normalize implements shared.Normalizer
func (c *Customer) Normalize() {
	if c.IsActive == nil {
		c.IsActive = shared.Ptr(true)
	}
}

// UniqueKeys implements shared.UniqueConstrained
func (c *Customer) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{shared.Unique("email", c.Email)}
}

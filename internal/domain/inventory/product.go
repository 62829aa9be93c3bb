package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
)

// Product is a stock-keeping unit offered by the business
type Product struct {
	shared.BaseEntity
	SKU          string           `gorm:"column:sku;type:varchar(50);not null;uniqueIndex" json:"sku" binding:"required,max=50"`
	Name         string           `gorm:"type:varchar(200);not null" json:"name" binding:"required,max=200"`
	Description  string           `gorm:"type:text" json:"description"`
	CategoryID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id" binding:"required"`
	UnitPrice    decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Weight       *decimal.Decimal `gorm:"type:decimal(8,2)" json:"weight"`
	Dimensions   string           `gorm:"type:varchar(100)" json:"dimensions" binding:"max=100"`
	IsActive     *bool            `gorm:"not null" json:"is_active"`
	CategoryName string           `gorm:"-" json:"category_name,omitempty"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// Normalize implements shared.Normalizer
func (p *Product) Normalize() {
	if p.IsActive == nil {
		p.IsActive = shared.Ptr(true)
	}
}

// Validate implements shared.Validatable
func (p *Product) Validate() error {
	return shared.NewRules().
		NonNegative("unit_price", p.UnitPrice).
		NonNegativePtr("weight", p.Weight).
		Err()
}

// References implements shared.Referencer
func (p *Product) References() []shared.Reference {
	return []shared.Reference{{Field: "category_id", Table: "categories", ID: p.CategoryID}}
}

// UniqueKeys implements shared.UniqueConstrained
func (p *Product) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{shared.Unique("sku", p.SKU)}
}

// PopulateView fills display fields from loaded associations
func (p *Product) PopulateView() {
	if p.Category != nil {
		p.CategoryName = p.Category.Name
	}
}

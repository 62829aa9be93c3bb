package partner

import (
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// Score holds a 1-5 rating with optional feedback
type Score struct {
	Rating   int    `gorm:"not null;index" json:"rating" binding:"required,min=1,max=5"`
	Feedback string `gorm:"type:text" json:"feedback"`
	// Category is a free-form topic such as Delivery, Quality or Service.
	Category string `gorm:"type:varchar(50);index" json:"category" binding:"max=50"`
}

// CustomerRating records satisfaction with a customer relationship
type CustomerRating struct {
	shared.BaseEntity
	shared.Authored
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id" binding:"required"`
	Score
	CustomerName string `gorm:"-" json:"customer_name,omitempty"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (CustomerRating) TableName() string {
	return "customer_ratings"
}

// References implements shared.Referencer
func (r *CustomerRating) References() []shared.Reference {
	return []shared.Reference{{Field: "customer_id", Table: "partner_customers", ID: r.CustomerID}}
}

// PopulateView fills display fields from loaded associations
func (r *CustomerRating) PopulateView() {
	if r.Customer != nil {
		r.CustomerName = r.Customer.Name
	}
}

// SupplierRating records supplier performance
type SupplierRating struct {
	shared.BaseEntity
	shared.Authored
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index" json:"supplier_id" binding:"required"`
	Score
	SupplierName string `gorm:"-" json:"supplier_name,omitempty"`

	Supplier *Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (SupplierRating) TableName() string {
	return "supplier_ratings"
}

// References implements shared.Referencer
func (r *SupplierRating) References() []shared.Reference {
	return []shared.Reference{{Field: "supplier_id", Table: "suppliers", ID: r.SupplierID}}
}

// PopulateView fills display fields from loaded associations
func (r *SupplierRating) PopulateView() {
	if r.Supplier != nil {
		r.SupplierName = r.Supplier.Name
	}
}

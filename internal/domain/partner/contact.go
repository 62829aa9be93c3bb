package partner

import (
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// ContactType is the role a contact person plays for a partner.
// Customers and suppliers accept different subsets.
type ContactType string

const (
	ContactTypePrimary   ContactType = "PRIMARY"
	ContactTypeBilling   ContactType = "BILLING"
	ContactTypeTechnical ContactType = "TECHNICAL"
	ContactTypeEmergency ContactType = "EMERGENCY"
	ContactTypeSales     ContactType = "SALES"
	ContactTypeAccounts  ContactType = "ACCOUNTS"
)

// Contact holds the person fields shared by customer and supplier contacts
type Contact struct {
	ContactType ContactType `gorm:"type:varchar(20);not null;index" json:"contact_type"`
	FirstName   string      `gorm:"type:varchar(100);not null" json:"first_name" binding:"required,max=100"`
	LastName    string      `gorm:"type:varchar(100);not null" json:"last_name" binding:"required,max=100"`
	Email       string      `gorm:"type:varchar(254);not null" json:"email" binding:"required,email"`
	Phone       string      `gorm:"type:varchar(20);not null" json:"phone" binding:"required,max=20"`
	Title       string      `gorm:"type:varchar(100)" json:"title" binding:"max=100"`
	IsActive    *bool       `gorm:"not null" json:"is_active"`
	Notes       string      `gorm:"type:text" json:"notes"`
}

func (c *Contact) normalize() {
	if c.ContactType == "" {
		c.ContactType = ContactTypePrimary
	}
	if c.IsActive == nil {
		c.IsActive = shared.Ptr(true)
	}
}

func (c *Contact) rules(allowed ...ContactType) *shared.Rules {
	ok := false
	for _, t := range allowed {
		if c.ContactType == t {
			ok = true
			break
		}
	}
	return shared.NewRules().
		Check(ok, "contact_type", "Must be one of the contact types accepted for this partner").
		Check(ValidPhone(c.Phone), "phone", "Enter a valid phone number")
}

// CustomerContact is a person reachable at a customer
type CustomerContact struct {
	shared.BaseEntity
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id" binding:"required"`
	Contact
	CustomerName string `gorm:"-" json:"customer_name,omitempty"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (CustomerContact) TableName() string {
	return "customer_contacts"
}

// Normalize implements shared.Normalizer
func (c *CustomerContact) Normalize() {
	c.normalize()
}

// Validate implements shared.Validatable
func (c *CustomerContact) Validate() error {
	return c.rules(ContactTypePrimary, ContactTypeBilling, ContactTypeTechnical, ContactTypeEmergency).Err()
}

// References implements shared.Referencer
func (c *CustomerContact) References() []shared.Reference {
	return []shared.Reference{{Field: "customer_id", Table: "partner_customers", ID: c.CustomerID}}
}

// PopulateView fills display fields from loaded associations
func (c *CustomerContact) PopulateView() {
	if c.Customer != nil {
		c.CustomerName = c.Customer.Name
	}
}

// SupplierContact is a person reachable at a supplier
type SupplierContact struct {
	shared.BaseEntity
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index" json:"supplier_id" binding:"required"`
	Contact
	SupplierName string `gorm:"-" json:"supplier_name,omitempty"`

	Supplier *Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (SupplierContact) TableName() string {
	return "supplier_contacts"
}

// Normalize implements shared.Normalizer
func (c *SupplierContact) Normalize() {
	c.normalize()
}

// Validate implements shared.Validatable
func (c *SupplierContact) Validate() error {
	return c.rules(ContactTypePrimary, ContactTypeSales, ContactTypeTechnical, ContactTypeAccounts).Err()
}

// References implements shared.Referencer
func (c *SupplierContact) References() []shared.Reference {
	return []shared.Reference{{Field: "supplier_id", Table: "suppliers", ID: c.SupplierID}}
}

// PopulateView fills display fields from loaded associations
func (c *SupplierContact) PopulateView() {
	if c.Supplier != nil {
		c.SupplierName = c.Supplier.Name
	}
}

package inventory

import (
	"github.com/supplychain/backend/internal/domain/shared"
)

// Category groups products for browsing and reporting
type Category struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name" binding:"required,max=100"`
	Description string `gorm:"type:text" json:"description"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// UniqueKeys implements shared.UniqueConstrained
func (c *Category) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{shared.Unique("name", c.Name)}
}

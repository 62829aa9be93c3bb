// Package warehouse models the internal layout and staffing of warehouses.
package warehouse

import (
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
)

// Zone is a named area used to group storage locations
type Zone struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(100);not null" json:"name" binding:"required,max=100"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    *bool  `gorm:"not null;index" json:"is_active"`
}

// TableName returns the table name for GORM
func (Zone) TableName() string {
	return "warehouse_zones"
}

// Normalize implements shared.Normalizer
func (z *Zone) Normalize() {
	if z.IsActive == nil {
		z.IsActive = shared.Ptr(true)
	}
}

// LocationType classifies a storage location
type LocationType string

const (
	LocationTypeShelf  LocationType = "SHELF"
	LocationTypeBin    LocationType = "BIN"
	LocationTypePallet LocationType = "PALLET"
	LocationTypeArea   LocationType = "AREA"
)

// Location is an addressable storage position inside a warehouse zone
type Location struct {
	shared.BaseEntity
	WarehouseID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"warehouse_id" binding:"required"`
	ZoneID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"zone_id" binding:"required"`
	LocationCode  string       `gorm:"type:varchar(50);not null;uniqueIndex" json:"location_code" binding:"required,max=50"`
	LocationType  LocationType `gorm:"type:varchar(20);not null;index" json:"location_type" binding:"required,oneof=SHELF BIN PALLET AREA"`
	Capacity      int          `gorm:"not null;default:0" json:"capacity" binding:"gte=0"`
	IsActive      *bool        `gorm:"not null;index" json:"is_active"`
	WarehouseName string       `gorm:"-" json:"warehouse_name,omitempty"`
	ZoneName      string       `gorm:"-" json:"zone_name,omitempty"`

	Warehouse *inventory.Warehouse `gorm:"foreignKey:WarehouseID;constraint:OnDelete:CASCADE" json:"-"`
	Zone      *Zone                `gorm:"foreignKey:ZoneID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "warehouse_locations"
}

// Normalize implements shared.Normalizer
func (l *Location) Normalize() {
	if l.IsActive == nil {
		l.IsActive = shared.Ptr(true)
	}
}

// References implements shared.Referencer
func (l *Location) References() []shared.Reference {
	return []shared.Reference{
		{Field: "warehouse_id", Table: "warehouses", ID: l.WarehouseID},
		{Field: "zone_id", Table: "warehouse_zones", ID: l.ZoneID},
	}
}

// UniqueKeys implements shared.UniqueConstrained
func (l *Location) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{shared.Unique("location_code", l.LocationCode)}
}

// PopulateView fills display fields from loaded associations
func (l *Location) PopulateView() {
	if l.Warehouse != nil {
		l.WarehouseName = l.Warehouse.Name
	}
	if l.Zone != nil {
		l.ZoneName = l.Zone.Name
	}
}

// Staff assigns an identity account to a warehouse. An account holds at
// most one staff record.
type Staff struct {
	shared.BaseEntity
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id" binding:"required"`
	WarehouseID   uuid.UUID `gorm:"type:uuid;not null;index" json:"warehouse_id" binding:"required"`
	Role          string    `gorm:"type:varchar(50);not null" json:"role" binding:"required,max=50"`
	IsActive      *bool     `gorm:"not null;index" json:"is_active"`
	WarehouseName string    `gorm:"-" json:"warehouse_name,omitempty"`

	Warehouse *inventory.Warehouse `gorm:"foreignKey:WarehouseID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (Staff) TableName() string {
	return "warehouse_staff"
}

// Normalize implements shared.Normalizer
func (s *Staff) Normalize() {
	if s.IsActive == nil {
		s.IsActive = shared.Ptr(true)
	}
}

// References implements shared.Referencer
func (s *Staff) References() []shared.Reference {
	return []shared.Reference{{Field: "warehouse_id", Table: "warehouses", ID: s.WarehouseID}}
}

// UniqueKeys implements shared.UniqueConstrained
func (s *Staff) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{shared.Unique("user_id", s.UserID)}
}

// PopulateView fills display fields from loaded associations
func (s *Staff) PopulateView() {
	if s.Warehouse != nil {
		s.WarehouseName = s.Warehouse.Name
	}
}

// Repositories groups the persistence ports of the warehouses domain
type Repositories struct {
	Zones     shared.Repository[Zone]
	Locations shared.Repository[Location]
	Staff     shared.Repository[Staff]
}

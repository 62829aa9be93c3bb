// Package logistics models the delivery fleet: vehicles, drivers and the
// routes they run.
package logistics

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
)

// VehicleType classifies a vehicle
type VehicleType string

const (
	VehicleTypeTruck      VehicleType = "TRUCK"
	VehicleTypeVan        VehicleType = "VAN"
	VehicleTypeCar        VehicleType = "CAR"
	VehicleTypeMotorcycle VehicleType = "MOTORCYCLE"
)

// VehicleStatus is the availability of a vehicle
type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "AVAILABLE"
	VehicleStatusInUse        VehicleStatus = "IN_USE"
	VehicleStatusMaintenance  VehicleStatus = "MAINTENANCE"
	VehicleStatusOutOfService VehicleStatus = "OUT_OF_SERVICE"
)

// Vehicle is a fleet vehicle based at a warehouse
type Vehicle struct {
	shared.BaseEntity
	VehicleNumber   string           `gorm:"type:varchar(50);not null;uniqueIndex" json:"vehicle_number" binding:"required,max=50"`
	VehicleType     VehicleType      `gorm:"type:varchar(20);not null;index" json:"vehicle_type" binding:"required,oneof=TRUCK VAN CAR MOTORCYCLE"`
	LicensePlate    string           `gorm:"type:varchar(20);not null;uniqueIndex" json:"license_plate" binding:"required,max=20"`
	Capacity        decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"capacity"`
	FuelEfficiency  *decimal.Decimal `gorm:"type:decimal(5,2)" json:"fuel_efficiency"`
	CurrentStatus   VehicleStatus    `gorm:"type:varchar(20);not null;index" json:"current_status" binding:"omitempty,oneof=AVAILABLE IN_USE MAINTENANCE OUT_OF_SERVICE"`
	HomeWarehouseID uuid.UUID        `gorm:"type:uuid;not null;index" json:"home_warehouse_id" binding:"required"`
	IsActive        *bool            `gorm:"not null;index" json:"is_active"`
	WarehouseName   string           `gorm:"-" json:"home_warehouse_name,omitempty"`

	HomeWarehouse *inventory.Warehouse `gorm:"foreignKey:HomeWarehouseID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (Vehicle) TableName() string {
	return "vehicles"
}

// Normalize implements shared.Normalizer
func (v *Vehicle) Normalize() {
	if v.CurrentStatus == "" {
		v.CurrentStatus = VehicleStatusAvailable
	}
	if v.IsActive == nil {
		v.IsActive = shared.Ptr(true)
	}
}

// Validate implements shared.Validatable
func (v *Vehicle) Validate() error {
	return shared.NewRules().
		NonNegative("capacity", v.Capacity).
		NonNegativePtr("fuel_efficiency", v.FuelEfficiency).
		Err()
}

// References implements shared.Referencer
func (v *Vehicle) References() []shared.Reference {
	return []shared.Reference{{Field: "home_warehouse_id", Table: "warehouses", ID: v.HomeWarehouseID}}
}

// UniqueKeys implements shared.UniqueConstrained
func (v *Vehicle) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{
		shared.Unique("vehicle_number", v.VehicleNumber),
		shared.Unique("license_plate", v.LicensePlate),
	}
}

// PopulateView fills display fields from loaded associations
func (v *Vehicle) PopulateView() {
	if v.HomeWarehouse != nil {
		v.WarehouseName = v.HomeWarehouse.Name
	}
}

// DriverStatus is the duty state of a driver
type DriverStatus string

const (
	DriverStatusAvailable  DriverStatus = "AVAILABLE"
	DriverStatusOnDelivery DriverStatus = "ON_DELIVERY"
	DriverStatusOffDuty    DriverStatus = "OFF_DUTY"
	DriverStatusSuspended  DriverStatus = "SUSPENDED"
)

// Driver is the delivery profile of one identity account
type Driver struct {
	shared.BaseEntity
	UserID          uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex" json:"user_id" binding:"required"`
	DriverLicense   string       `gorm:"type:varchar(50);not null;uniqueIndex" json:"driver_license" binding:"required,max=50"`
	Phone           string       `gorm:"type:varchar(20);not null" json:"phone" binding:"required,max=20"`
	Address         string       `gorm:"type:text;not null" json:"address" binding:"required"`
	City            string       `gorm:"type:varchar(100);not null" json:"city" binding:"required,max=100"`
	State           string       `gorm:"type:varchar(100);not null" json:"state" binding:"required,max=100"`
	Country         string       `gorm:"type:varchar(100);not null" json:"country" binding:"required,max=100"`
	PostalCode      string       `gorm:"type:varchar(20);not null" json:"postal_code" binding:"required,max=20"`
	Status          DriverStatus `gorm:"type:varchar(20);not null;index" json:"status" binding:"omitempty,oneof=AVAILABLE ON_DELIVERY OFF_DUTY SUSPENDED"`
	ExperienceYears int          `gorm:"not null;default:0" json:"experience_years" binding:"gte=0"`
	IsActive        *bool        `gorm:"not null;index" json:"is_active"`
}

// TableName returns the table name for GORM
func (Driver) TableName() string {
	return "drivers"
}

// Normalize implements shared.Normalizer
func (d *Driver) Normalize() {
	if d.Status == "" {
		d.Status = DriverStatusAvailable
	}
	if d.IsActive == nil {
		d.IsActive = shared.Ptr(true)
	}
}

// Validate implements shared.Validatable
func (d *Driver) Validate() error {
	return shared.NewRules().
		Check(partner.ValidPhone(d.Phone), "phone", "Enter a valid phone number").
		Err()
}

// UniqueKeys implements shared.UniqueConstrained
func (d *Driver) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{
		shared.Unique("user_id", d.UserID),
		shared.Unique("driver_license", d.DriverLicense),
	}
}

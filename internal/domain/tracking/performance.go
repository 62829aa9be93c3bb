package tracking

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/logistics"
	"github.com/supplychain/backend/internal/domain/shared"
)

// SuccessRate is the percentage of deliveries that succeeded, or zero
// when there were none.
func SuccessRate(successful, total int) decimal.Decimal {
	return shared.Percent(int64(successful), int64(total))
}

// DeliveryPerformance is a driver's delivery tally for one day.
// TotalTime is in minutes.
type DeliveryPerformance struct {
	shared.BaseEntity
	DriverID             uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_delivery_performance_driver_date,priority:1" json:"driver_id" binding:"required"`
	Date                 shared.Date      `gorm:"not null;uniqueIndex:idx_delivery_performance_driver_date,priority:2;index" json:"date"`
	TotalDeliveries      int              `gorm:"not null;default:0" json:"total_deliveries" binding:"gte=0"`
	SuccessfulDeliveries int              `gorm:"not null;default:0" json:"successful_deliveries" binding:"gte=0"`
	FailedDeliveries     int              `gorm:"not null;default:0" json:"failed_deliveries" binding:"gte=0"`
	TotalDistance        decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"total_distance"`
	TotalTime            int              `gorm:"not null;default:0" json:"total_time" binding:"gte=0"`
	FuelConsumed         decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"fuel_consumed"`
	CustomerRating       *decimal.Decimal `gorm:"type:decimal(3,2)" json:"customer_rating"`
	SuccessRate          decimal.Decimal  `gorm:"-" json:"success_rate"`
	DriverLicense        string           `gorm:"-" json:"driver_license,omitempty"`

	Driver *logistics.Driver `gorm:"foreignKey:DriverID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (DeliveryPerformance) TableName() string {
	return "delivery_performance"
}

// Validate implements shared.Validatable
func (p *DeliveryPerformance) Validate() error {
	return shared.NewRules().
		RequiredDate("date", p.Date).
		Check(p.SuccessfulDeliveries+p.FailedDeliveries <= p.TotalDeliveries,
			"total_deliveries", "Must be at least successful_deliveries + failed_deliveries").
		NonNegative("total_distance", p.TotalDistance).
		NonNegative("fuel_consumed", p.FuelConsumed).
		BetweenPtr("customer_rating", p.CustomerRating, 0, 5).
		Err()
}

// References implements shared.Referencer
func (p *DeliveryPerformance) References() []shared.Reference {
	return []shared.Reference{{Field: "driver_id", Table: "drivers", ID: p.DriverID}}
}

// UniqueKeys implements shared.UniqueConstrained
func (p *DeliveryPerformance) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{shared.UniqueTogether("driver_id", p.DriverID, "date", p.Date)}
}

// PopulateView fills derived and display fields
func (p *DeliveryPerformance) PopulateView() {
	p.SuccessRate = SuccessRate(p.SuccessfulDeliveries, p.TotalDeliveries)
	if p.Driver != nil {
		p.DriverLicense = p.Driver.DriverLicense
	}
}

// Repositories groups the persistence ports of the tracking domain
type Repositories struct {
	Updates     shared.Repository[DeliveryUpdate]
	Locations   shared.Repository[DriverLocation]
	Alerts      shared.Repository[DeliveryAlert]
	Performance shared.Repository[DeliveryPerformance]
}

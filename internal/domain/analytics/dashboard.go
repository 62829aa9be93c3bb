// Package analytics holds dashboard configuration, KPI definitions,
// report templates and export requests.
package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// WidgetType is the rendering kind of a widget
type WidgetType string

const (
	WidgetChart    WidgetType = "CHART"
	WidgetMetric   WidgetType = "METRIC"
	WidgetTable    WidgetType = "TABLE"
	WidgetKPI      WidgetType = "KPI"
	WidgetTimeline WidgetType = "TIMELINE"
)

// Widget is a reusable dashboard building block
type Widget struct {
	shared.BaseEntity
	shared.Authored
	Name          string         `gorm:"type:varchar(100);not null" json:"name" binding:"required,max=100"`
	WidgetType    WidgetType     `gorm:"type:varchar(20);not null;index" json:"widget_type" binding:"required,oneof=CHART METRIC TABLE KPI TIMELINE"`
	Category      string         `gorm:"type:varchar(20);not null;index" json:"category" binding:"required,oneof=INVENTORY ORDERS FINANCE LOGISTICS PERFORMANCE GENERAL"`
	Description   string         `gorm:"type:text" json:"description"`
	Configuration datatypes.JSON `json:"configuration"`
	IsActive      *bool          `gorm:"not null;index" json:"is_active"`
}

// TableName returns the table name for GORM
func (Widget) TableName() string {
	return "dashboard_widgets"
}

// Normalize implements shared.Normalizer
func (w *Widget) Normalize() {
	if w.IsActive == nil {
		w.IsActive = shared.Ptr(true)
	}
}

// Validate implements shared.Validatable
func (w *Widget) Validate() error {
	return shared.NewRules().JSON("configuration", w.Configuration, false).Err()
}

const (
	DefaultWidgetWidth  = 4
	DefaultWidgetHeight = 3
)

// UserDashboard places a widget on one user's dashboard. Rows belong to
// UserID and are invisible to other users.
type UserDashboard struct {
	shared.BaseEntity
	UserID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_user_dashboards_user_widget,priority:1" json:"user_id"`
	WidgetID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_user_dashboards_user_widget,priority:2;index" json:"widget_id" binding:"required"`
	PositionX      int            `gorm:"not null;default:0" json:"position_x" binding:"gte=0"`
	PositionY      int            `gorm:"not null;default:0" json:"position_y" binding:"gte=0"`
	Width          *int           `gorm:"not null" json:"width" binding:"omitempty,min=1,max=12"`
	Height         *int           `gorm:"not null" json:"height" binding:"omitempty,min=1"`
	IsVisible      *bool          `gorm:"not null" json:"is_visible"`
	CustomSettings datatypes.JSON `json:"custom_settings"`
	WidgetName     string         `gorm:"-" json:"widget_name,omitempty"`

	Widget *Widget `gorm:"foreignKey:WidgetID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (UserDashboard) TableName() string {
	return "user_dashboards"
}

// SetCreator implements shared.Creatable; the creating user owns the row.
func (d *UserDashboard) SetCreator(id uuid.UUID) {
	d.UserID = id
}

// Creator implements shared.Creatable
func (d *UserDashboard) Creator() uuid.UUID {
	return d.UserID
}

// Normalize implements shared.Normalizer
func (d *UserDashboard) Normalize() {
	if d.Width == nil {
		d.Width = shared.Ptr(DefaultWidgetWidth)
	}
	if d.Height == nil {
		d.Height = shared.Ptr(DefaultWidgetHeight)
	}
	if d.IsVisible == nil {
		d.IsVisible = shared.Ptr(true)
	}
}

// Validate implements shared.Validatable
func (d *UserDashboard) Validate() error {
	return shared.NewRules().JSON("custom_settings", d.CustomSettings, false).Err()
}

// References implements shared.Referencer
func (d *UserDashboard) References() []shared.Reference {
	return []shared.Reference{{Field: "widget_id", Table: "dashboard_widgets", ID: d.WidgetID}}
}

// UniqueKeys implements shared.UniqueConstrained
func (d *UserDashboard) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{shared.UniqueTogether("user_id", d.UserID, "widget_id", d.WidgetID)}
}

// PopulateView fills display fields from loaded associations
func (d *UserDashboard) PopulateView() {
	if d.Widget != nil {
		d.WidgetName = d.Widget.Name
	}
}

// MetricType is the unit family of a KPI
type MetricType string

const (
	MetricCount      MetricType = "COUNT"
	MetricPercentage MetricType = "PERCENTAGE"
	MetricCurrency   MetricType = "CURRENCY"
	MetricDuration   MetricType = "DURATION"
	MetricRatio      MetricType = "RATIO"
)

// KPIMetric defines a tracked indicator and its thresholds
type KPIMetric struct {
	shared.BaseEntity
	shared.Authored
	Name              string           `gorm:"type:varchar(100);not null" json:"name" binding:"required,max=100"`
	MetricType        MetricType       `gorm:"type:varchar(20);not null;index" json:"metric_type" binding:"required,oneof=COUNT PERCENTAGE CURRENCY DURATION RATIO"`
	Category          string           `gorm:"type:varchar(20);not null;index" json:"category" binding:"required,oneof=INVENTORY ORDERS FINANCE LOGISTICS CUSTOMER SUPPLIER PERFORMANCE"`
	Description       string           `gorm:"type:text" json:"description"`
	CalculationLogic  string           `gorm:"type:text" json:"calculation_logic"`
	TargetValue       *decimal.Decimal `gorm:"type:decimal(15,2)" json:"target_value"`
	WarningThreshold  *decimal.Decimal `gorm:"type:decimal(15,2)" json:"warning_threshold"`
	CriticalThreshold *decimal.Decimal `gorm:"type:decimal(15,2)" json:"critical_threshold"`
	IsActive          *bool            `gorm:"not null;index" json:"is_active"`
}

// TableName returns the table name for GORM
func (KPIMetric) TableName() string {
	return "kpi_metrics"
}

// Normalize implements shared.Normalizer
func (m *KPIMetric) Normalize() {
	if m.IsActive == nil {
		m.IsActive = shared.Ptr(true)
	}
}

// MetricValue is the recorded value of a KPI on a date. Values are
// supplied by callers and never computed here.
type MetricValue struct {
	shared.BaseEntity
	MetricID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_metric_values_metric_date,priority:1" json:"metric_id" binding:"required"`
	Value      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"value"`
	Date       shared.Date     `gorm:"not null;uniqueIndex:idx_metric_values_metric_date,priority:2;index" json:"date"`
	Timestamp  time.Time       `gorm:"not null" json:"timestamp"`
	Metadata   datatypes.JSON  `json:"metadata"`
	MetricName string          `gorm:"-" json:"metric_name,omitempty"`

	Metric *KPIMetric `gorm:"foreignKey:MetricID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (MetricValue) TableName() string {
	return "metric_values"
}

// StampCreate implements shared.CreateStamper
func (v *MetricValue) StampCreate(now time.Time) {
	v.Timestamp = now
}

// Inherit implements shared.Inheritor
func (v *MetricValue) Inherit(prev *MetricValue) {
	v.Timestamp = prev.Timestamp
}

// Validate implements shared.Validatable
func (v *MetricValue) Validate() error {
	return shared.NewRules().
		RequiredDate("date", v.Date).
		JSON("metadata", v.Metadata, false).
		Err()
}

// References implements shared.Referencer
func (v *MetricValue) References() []shared.Reference {
	return []shared.Reference{{Field: "metric_id", Table: "kpi_metrics", ID: v.MetricID}}
}

// UniqueKeys implements shared.UniqueConstrained
func (v *MetricValue) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{shared.UniqueTogether("metric_id", v.MetricID, "date", v.Date)}
}

// PopulateView fills display fields from loaded associations
func (v *MetricValue) PopulateView() {
	if v.Metric != nil {
		v.MetricName = v.Metric.Name
	}
}

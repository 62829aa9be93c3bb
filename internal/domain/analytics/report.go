package analytics

import (
	"encoding/json"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// ReportTemplate describes how a report is assembled
type ReportTemplate struct {
	shared.BaseEntity
	shared.Authored
	Name           string         `gorm:"type:varchar(100);not null" json:"name" binding:"required,max=100"`
	ReportType     string         `gorm:"type:varchar(20);not null;index" json:"report_type" binding:"required,oneof=INVENTORY ORDER FINANCIAL LOGISTICS PERFORMANCE CUSTOMER SUPPLIER"`
	Description    string         `gorm:"type:text" json:"description"`
	TemplateConfig datatypes.JSON `json:"template_config"`
	Parameters     datatypes.JSON `json:"parameters"`
	IsActive       *bool          `gorm:"not null;index" json:"is_active"`
}

// TableName returns the table name for GORM
func (ReportTemplate) TableName() string {
	return "report_templates"
}

// Normalize implements shared.Normalizer
func (t *ReportTemplate) Normalize() {
	if t.IsActive == nil {
		t.IsActive = shared.Ptr(true)
	}
}

// Validate implements shared.Validatable
func (t *ReportTemplate) Validate() error {
	return shared.NewRules().
		JSON("template_config", t.TemplateConfig, true).
		JSON("parameters", t.Parameters, false).
		Err()
}

// Frequency is how often a scheduled report is due
type Frequency string

const (
	FrequencyDaily     Frequency = "DAILY"
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
)

// ScheduledReport is a recurring delivery of a template to recipients.
// Nothing in this service runs them.
type ScheduledReport struct {
	shared.BaseEntity
	shared.Authored
	Name             string         `gorm:"type:varchar(100);not null" json:"name" binding:"required,max=100"`
	ReportTemplateID uuid.UUID      `gorm:"type:uuid;not null;index" json:"report_template_id" binding:"required"`
	Frequency        Frequency      `gorm:"type:varchar(20);not null;index" json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY QUARTERLY YEARLY"`
	Recipients       datatypes.JSON `json:"recipients"`
	Parameters       datatypes.JSON `json:"parameters"`
	IsActive         *bool          `gorm:"not null;index" json:"is_active"`
	LastRun          *time.Time     `json:"last_run"`
	NextRun          *time.Time     `gorm:"index" json:"next_run"`
	TemplateName     string         `gorm:"-" json:"template_name,omitempty"`

	ReportTemplate *ReportTemplate `gorm:"foreignKey:ReportTemplateID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM
func (ScheduledReport) TableName() string {
	return "scheduled_reports"
}

// Normalize implements shared.Normalizer
func (s *ScheduledReport) Normalize() {
	if s.IsActive == nil {
		s.IsActive = shared.Ptr(true)
	}
	if len(s.Recipients) == 0 {
		s.Recipients = datatypes.JSON("[]")
	}
}

// Validate implements shared.Validatable
func (s *ScheduledReport) Validate() error {
	r := shared.NewRules().JSON("parameters", s.Parameters, false)
	var recipients []string
	if err := json.Unmarshal(s.Recipients, &recipients); err != nil {
		return r.Add("recipients", "Must be a list of email addresses").Err()
	}
	for _, addr := range recipients {
		if _, err := mail.ParseAddress(addr); err != nil {
			r.Add("recipients", "Enter a valid email address: "+addr)
		}
	}
	return r.Err()
}

// References implements shared.Referencer
func (s *ScheduledReport) References() []shared.Reference {
	return []shared.Reference{{Field: "report_template_id", Table: "report_templates", ID: s.ReportTemplateID}}
}

// PopulateView fills display fields from loaded associations
func (s *ScheduledReport) PopulateView() {
	if s.ReportTemplate != nil {
		s.TemplateName = s.ReportTemplate.Name
	}
}

// ExportStatus is the progress of a data export
type ExportStatus string

const (
	ExportPending    ExportStatus = "PENDING"
	ExportProcessing ExportStatus = "PROCESSING"
	ExportCompleted  ExportStatus = "COMPLETED"
	ExportFailed     ExportStatus = "FAILED"
)

// DataExport is a user's request to export a data source. Rows belong to
// the creating user and are invisible to others.
type DataExport struct {
	shared.BaseEntity
	shared.Authored
	Name         string         `gorm:"type:varchar(100);not null" json:"name" binding:"required,max=100"`
	ExportFormat string         `gorm:"type:varchar(10);not null" json:"export_format" binding:"required,oneof=CSV EXCEL JSON PDF"`
	DataSource   string         `gorm:"type:varchar(100);not null" json:"data_source" binding:"required,max=100"`
	Filters      datatypes.JSON `json:"filters"`
	Status       ExportStatus   `gorm:"type:varchar(20);not null;index" json:"status" binding:"omitempty,oneof=PENDING PROCESSING COMPLETED FAILED"`
	FilePath     string         `gorm:"type:varchar(500)" json:"file_path" binding:"max=500"`
	FileSize     *int64         `json:"file_size" binding:"omitempty,gte=0"`
	ErrorMessage string         `gorm:"type:text" json:"error_message"`
	CompletedAt  *time.Time     `json:"completed_at"`
}

// TableName returns the table name for GORM
func (DataExport) TableName() string {
	return "data_exports"
}

// Normalize implements shared.Normalizer
func (e *DataExport) Normalize() {
	if e.Status == "" {
		e.Status = ExportPending
	}
}

// Inherit implements shared.Inheritor
func (e *DataExport) Inherit(prev *DataExport) {
	if e.CompletedAt == nil {
		e.CompletedAt = prev.CompletedAt
	}
}

// Stamp implements shared.Stamper
func (e *DataExport) Stamp(_ uuid.UUID, now time.Time) {
	if e.Status == ExportCompleted && e.CompletedAt == nil {
		e.CompletedAt = &now
	}
}

// Validate implements shared.Validatable
func (e *DataExport) Validate() error {
	return shared.NewRules().JSON("filters", e.Filters, false).Err()
}

// Repositories groups the persistence ports of the analytics domain
type Repositories struct {
	Widgets          shared.Repository[Widget]
	UserDashboards   shared.Repository[UserDashboard]
	KPIMetrics       shared.Repository[KPIMetric]
	MetricValues     shared.Repository[MetricValue]
	ReportTemplates  shared.Repository[ReportTemplate]
	ScheduledReports shared.Repository[ScheduledReport]
	DataExports      shared.Repository[DataExport]
}

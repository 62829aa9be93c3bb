package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// ExpenseCategory classifies operating spend
type ExpenseCategory string

const (
	ExpenseOperations     ExpenseCategory = "OPERATIONS"
	ExpenseMarketing      ExpenseCategory = "MARKETING"
	ExpenseAdministrative ExpenseCategory = "ADMINISTRATIVE"
	ExpenseTravel         ExpenseCategory = "TRAVEL"
	ExpenseUtilities      ExpenseCategory = "UTILITIES"
	ExpenseRent           ExpenseCategory = "RENT"
	ExpenseInsurance      ExpenseCategory = "INSURANCE"
	ExpenseOther          ExpenseCategory = "OTHER"
)

// ExpenseStatus is the approval state of an expense
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "PENDING"
	ExpenseStatusApproved ExpenseStatus = "APPROVED"
	ExpenseStatusPaid     ExpenseStatus = "PAID"
	ExpenseStatusRejected ExpenseStatus = "REJECTED"
)

// Expense is an operating cost awaiting or past approval
type Expense struct {
	shared.BaseEntity
	shared.Authored
	Description      string          `gorm:"type:varchar(255);not null" json:"description" binding:"required,max=255"`
	Category         ExpenseCategory `gorm:"type:varchar(20);not null;index" json:"category" binding:"required,oneof=OPERATIONS MARKETING ADMINISTRATIVE TRAVEL UTILITIES RENT INSURANCE OTHER"`
	Amount           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	ExpenseDate      shared.Date     `gorm:"not null;index" json:"expense_date"`
	Status           ExpenseStatus   `gorm:"type:varchar(20);not null;index" json:"status" binding:"omitempty,oneof=PENDING APPROVED PAID REJECTED"`
	Vendor           string          `gorm:"type:varchar(200)" json:"vendor" binding:"max=200"`
	ReceiptReference string          `gorm:"type:varchar(100)" json:"receipt_reference" binding:"max=100"`
	Notes            string          `gorm:"type:text" json:"notes"`
	ApprovedBy       *uuid.UUID      `gorm:"type:uuid" json:"approved_by"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// Normalize implements shared.Normalizer
func (e *Expense) Normalize() {
	if e.Status == "" {
		e.Status = ExpenseStatusPending
	}
}

// Inherit implements shared.Inheritor
func (e *Expense) Inherit(prev *Expense) {
	if e.ApprovedBy == nil {
		e.ApprovedBy = prev.ApprovedBy
	}
}

// Stamp implements shared.Stamper. Approval records the approver once.
func (e *Expense) Stamp(actor uuid.UUID, _ time.Time) {
	if e.Status == ExpenseStatusApproved && e.ApprovedBy == nil && actor != uuid.Nil {
		e.ApprovedBy = &actor
	}
}

// Validate implements shared.Validatable
func (e *Expense) Validate() error {
	return shared.NewRules().
		RequiredDate("expense_date", e.ExpenseDate).
		NonNegative("amount", e.Amount).
		Err()
}

// ReportType is the kind of financial statement
type ReportType string

const (
	ReportProfitLoss   ReportType = "P&L"
	ReportBalanceSheet ReportType = "BALANCE_SHEET"
	ReportCashFlow     ReportType = "CASH_FLOW"
	ReportRevenue      ReportType = "REVENUE"
	ReportCost         ReportType = "COST"
	ReportCustomer     ReportType = "CUSTOMER"
	ReportSupplier     ReportType = "SUPPLIER"
)

// FinancialReport is a stored statement for a period. ReportData is kept
// as supplied.
type FinancialReport struct {
	shared.BaseEntity
	shared.Authored
	ReportType  ReportType     `gorm:"type:varchar(20);not null;uniqueIndex:idx_financial_reports_type_date,priority:1" json:"report_type" binding:"required,oneof=P&L BALANCE_SHEET CASH_FLOW REVENUE COST CUSTOMER SUPPLIER"`
	ReportDate  shared.Date    `gorm:"not null;uniqueIndex:idx_financial_reports_type_date,priority:2" json:"report_date"`
	PeriodStart shared.Date    `gorm:"not null" json:"period_start"`
	PeriodEnd   shared.Date    `gorm:"not null" json:"period_end"`
	ReportData  datatypes.JSON `json:"report_data"`
	Summary     string         `gorm:"type:text" json:"summary"`
}

// TableName returns the table name for GORM
func (FinancialReport) TableName() string {
	return "financial_reports"
}

// Validate implements shared.Validatable
func (f *FinancialReport) Validate() error {
	r := shared.NewRules().
		RequiredDate("report_date", f.ReportDate).
		RequiredDate("period_start", f.PeriodStart).
		RequiredDate("period_end", f.PeriodEnd).
		JSON("report_data", f.ReportData, true)
	if !f.PeriodStart.IsZero() && !f.PeriodEnd.IsZero() {
		r.Check(!f.PeriodEnd.Before(f.PeriodStart.Time), "period_end", "Must not be before period_start")
	}
	return r.Err()
}

// UniqueKeys implements shared.UniqueConstrained
func (f *FinancialReport) UniqueKeys() []shared.UniqueKey {
	return []shared.UniqueKey{
		shared.UniqueTogether("report_type", f.ReportType, "report_date", f.ReportDate),
	}
}

// Repositories groups the persistence ports of the finance domain
type Repositories struct {
	Invoices           shared.Repository[Invoice]
	InvoiceItems       shared.Repository[InvoiceItem]
	Payments           shared.Repository[Payment]
	PurchaseOrders     shared.Repository[PurchaseOrder]
	PurchaseOrderItems shared.Repository[PurchaseOrderItem]
	Expenses           shared.Repository[Expense]
	Reports            shared.Repository[FinancialReport]
}

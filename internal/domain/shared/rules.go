package shared

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Rules collects field violations so a record reports all of them at once.
type Rules struct {
	details []FieldError
}

// NewRules creates an empty rule set
func NewRules() *Rules {
	return &Rules{}
}

// Add records a violation
func (r *Rules) Add(field, message string) *Rules {
	r.details = append(r.details, FieldError{Field: field, Message: message})
	return r
}

// Check records a violation when ok is false
func (r *Rules) Check(ok bool, field, message string) *Rules {
	if !ok {
		r.Add(field, message)
	}
	return r
}

// NonNegative requires d >= 0
func (r *Rules) NonNegative(field string, d decimal.Decimal) *Rules {
	return r.Check(!d.IsNegative(), field, "Must be greater than or equal to 0")
}

// NonNegativePtr requires d >= 0 when d is set
func (r *Rules) NonNegativePtr(field string, d *decimal.Decimal) *Rules {
	if d == nil {
		return r
	}
	return r.NonNegative(field, *d)
}

// Between requires lo <= d <= hi
func (r *Rules) Between(field string, d decimal.Decimal, lo, hi int64) *Rules {
	ok := d.GreaterThanOrEqual(decimal.NewFromInt(lo)) && d.LessThanOrEqual(decimal.NewFromInt(hi))
	return r.Check(ok, field, fmt.Sprintf("Must be between %d and %d", lo, hi))
}

// BetweenPtr requires lo <= d <= hi when d is set
func (r *Rules) BetweenPtr(field string, d *decimal.Decimal, lo, hi int64) *Rules {
	if d == nil {
		return r
	}
	return r.Between(field, *d, lo, hi)
}

// JSON requires doc to be well-formed when present
func (r *Rules) JSON(field string, doc datatypes.JSON, required bool) *Rules {
	if len(doc) == 0 {
		return r.Check(!required, field, "This field is required")
	}
	return r.Check(json.Valid(doc), field, "Must be a valid JSON document")
}

// Err returns a validation error when any rule failed
func (r *Rules) Err() error {
	if len(r.details) == 0 {
		return nil
	}
	return NewValidationError(r.details...)
}

// RequiredDate requires d to be set
func (r *Rules) RequiredDate(field string, d Date) *Rules {
	return r.Check(!d.IsZero(), field, "This field is required")
}

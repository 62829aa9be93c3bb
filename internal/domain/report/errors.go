package report

import "github.com/supplychain/backend/internal/domain/shared"

// AggregationError reports a failed summary. Its message names the view
// that could not be built.
type AggregationError struct {
	View string
	Err  error
}

func (e *AggregationError) Error() string {
	return "Failed to generate " + e.View + ": " + e.Err.Error()
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}

// ValidateDays rejects a non-positive summary window
func ValidateDays(days int) error {
	if days <= 0 {
		return shared.NewValidationError(shared.FieldError{Field: "days", Message: "Must be a positive integer"})
	}
	return nil
}

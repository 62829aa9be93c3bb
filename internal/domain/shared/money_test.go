package shared

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestInvoiceTotal(t *testing.T) {
	tests := []struct {
		name                    string
		subtotal, tax, shipping string
		want                    string
	}{
		{"sums components", "1500.00", "150.00", "50.00", "1700.00"},
		{"zero extras", "99.99", "0", "0", "99.99"},
		{"rounds to cents", "10.005", "0", "0", "10.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InvoiceTotal(dec(tt.subtotal), dec(tt.tax), dec(tt.shipping))
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestLineTotal(t *testing.T) {
	assert.True(t, LineTotal(3, dec("19.99")).Equal(dec("59.97")))
	assert.True(t, LineTotal(0, dec("19.99")).IsZero())
}

func TestPercent(t *testing.T) {
	assert.True(t, Percent(85, 100).Equal(dec("85")))
	assert.True(t, Percent(1, 3).Equal(dec("33.33")))
	assert.True(t, Percent(5, 0).IsZero())
	assert.True(t, Percent(5, -1).IsZero())
}

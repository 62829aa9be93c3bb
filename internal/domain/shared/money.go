package shared

import "github.com/shopspring/decimal"

// MoneyPlaces is the scale of stored monetary amounts
const MoneyPlaces = 2

// InvoiceTotal is the total of an invoice or purchase order.
func InvoiceTotal(subtotal, tax, shipping decimal.Decimal) decimal.Decimal {
	return subtotal.Add(tax).Add(shipping).Round(MoneyPlaces)
}

// LineTotal is the extended amount of a document line.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(MoneyPlaces)
}

// Percent returns part/whole*100 rounded to two places, or zero when
// whole is not positive.
func Percent(part, whole int64) decimal.Decimal {
	if whole <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(whole)).Round(MoneyPlaces)
}

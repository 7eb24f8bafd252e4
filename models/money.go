package models

import "github.com/shopspring/decimal"

func init() {
	// Clients read currency as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// DecimalOrZero dereferences an optional amount, treating nil as zero
func DecimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

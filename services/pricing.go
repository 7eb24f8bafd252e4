package services

import (
	"github.com/kendall-kelly/jobshop-api/models"
	"github.com/shopspring/decimal"
)

// WarningBasePriceOverwritten is returned alongside a successful write when
// selecting a service replaced a different, previously entered base price.
const WarningBasePriceOverwritten = "base_price_overwritten"

// ComputeFinalPrice returns base + additional, treating missing values as zero.
// Additional charges may be negative (discounts) and are not clamped.
func ComputeFinalPrice(base, additional *decimal.Decimal) decimal.Decimal {
	return models.DecimalOrZero(base).Add(models.DecimalOrZero(additional))
}

// Reprice recomputes the persisted final price from its components
func Reprice(order *models.Order) {
	order.FinalPrice = ComputeFinalPrice(order.BasePrice, order.AdditionalCharges)
}

// ApplyService selects svc for the order and seeds the base price from its
// current list price. Any earlier base price is overwritten; the return value
// reports whether a different non-zero price was replaced.
func ApplyService(order *models.Order, svc models.Service) bool {
	overwrote := order.BasePrice != nil &&
		!order.BasePrice.IsZero() &&
		!order.BasePrice.Equal(svc.Price)

	serviceID := svc.ID
	price := svc.Price
	order.ServiceID = &serviceID
	order.Service = nil
	order.BasePrice = &price
	Reprice(order)

	return overwrote
}

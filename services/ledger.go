package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kendall-kelly/jobshop-api/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewPayment is the validated input for recording a payment
type NewPayment struct {
	Method models.PaymentMethod
	Amount decimal.Decimal
	Date   *time.Time // defaults to today
}

// TotalPaid sums every payment recorded against the order
func TotalPaid(order models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, p := range order.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Outstanding is final price minus total paid. It goes negative on
// over-payment.
func Outstanding(order models.Order) decimal.Decimal {
	return order.FinalPrice.Sub(TotalPaid(order))
}

// PaymentStatusOf classifies the order's payment progress
func PaymentStatusOf(order models.Order) models.PaymentStatus {
	paid := TotalPaid(order)
	switch {
	case order.FinalPrice.Sub(paid).LessThanOrEqual(decimal.Zero):
		return models.FullyPaid
	case paid.IsPositive():
		return models.PartiallyPaid
	default:
		return models.NotPaid
	}
}

// Annotate fills the order's computed payment fields
func Annotate(order *models.Order) {
	order.TotalPaid = TotalPaid(*order)
	order.Outstanding = order.FinalPrice.Sub(order.TotalPaid)
	order.PaymentStatus = PaymentStatusOf(*order)
}

// AddPayment records a payment against an order. Amounts above the
// outstanding balance are accepted.
func (b *OrderBook) AddPayment(ctx context.Context, orderID uint, in NewPayment) (*models.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidPaymentAmount
	}
	if !in.Method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	if _, err := b.orders.Get(ctx, orderID); err != nil {
		return nil, notFoundAs(err, ErrOrderNotFound)
	}

	date := b.now()
	if in.Date != nil {
		date = *in.Date
	}

	payment := &models.Payment{
		OrderID: orderID,
		Method:  in.Method,
		Amount:  in.Amount,
		Date:    calendarDate(date),
	}
	if err := b.payments.Insert(ctx, payment); err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	b.log.WithFields(logrus.Fields{
		"order_id":   orderID,
		"payment_id": payment.ID,
		"method":     payment.Method,
		"amount":     payment.Amount.String(),
	}).Info("Payment recorded")

	b.afterWrite(ctx)
	return payment, nil
}

// Payments lists the payments of one order, oldest first
func (b *OrderBook) Payments(ctx context.Context, orderID uint) ([]models.Payment, error) {
	if _, err := b.orders.Get(ctx, orderID); err != nil {
		return nil, notFoundAs(err, ErrOrderNotFound)
	}
	return b.payments.Select(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("order_id = ?", orderID).Order("date ASC, id ASC")
	})
}

// calendarDate truncates t to midnight UTC of its calendar day
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/kendall-kelly/jobshop-api/models"
	"github.com/kendall-kelly/jobshop-api/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBook(t *testing.T) (*OrderBook, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	book := NewOrderBook(db, testutil.NewTestLogger())
	require.NoError(t, book.Refresh(context.Background()))
	return book, db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "expected %s, got %s", want, got.String())
}

func createOrder(t *testing.T, book *OrderBook, in OrderInput) *models.Order {
	t.Helper()
	if in.ClientName == nil {
		in.ClientName = strPtr("Walk-in")
	}
	order, _, err := book.CreateOrder(context.Background(), in)
	require.NoError(t, err)
	return order
}

func setCreatedAt(t *testing.T, db *gorm.DB, id uint, at time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", id).UpdateColumn("created_at", at).Error)
}

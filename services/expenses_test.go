package services

import (
	"context"
	"testing"
	"time"

	"github.com/kendall-kelly/jobshop-api/models"
	"github.com/kendall-kelly/jobshop-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLedger(t *testing.T) (*ExpenseLedger, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewExpenseLedger(db, testutil.NewTestLogger()), db
}

func TestRecordExpense_SupplierPaymentReducesBalance(t *testing.T) {
	ledger, db := setupLedger(t)
	ctx := context.Background()
	supplier := models.Supplier{Name: "Sri Steels", OutstandingPayment: dec("10000")}
	require.NoError(t, db.Create(&supplier).Error)

	expense, err := ledger.RecordExpense(ctx, NewExpense{
		Type:        models.ExpenseSupplierPayment,
		Description: "March settlement",
		Amount:      dec("4000"),
		SupplierID:  &supplier.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, expense.ID)

	reloaded, err := ledger.Suppliers().Get(ctx, supplier.ID)
	require.NoError(t, err)
	assertDecimal(t, "6000", reloaded.OutstandingPayment)
}

func TestRecordExpense_MissingSupplierLeavesNothing(t *testing.T) {
	ledger, db := setupLedger(t)

	_, err := ledger.RecordExpense(context.Background(), NewExpense{
		Type:       models.ExpenseSupplierPayment,
		Amount:     dec("100"),
		SupplierID: uintPtr(404),
	})
	assert.ErrorIs(t, err, ErrSupplierNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Expense{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecordExpense_OtherTypesKeepBalance(t *testing.T) {
	ledger, db := setupLedger(t)
	ctx := context.Background()
	supplier := models.Supplier{Name: "Acrylic House", OutstandingPayment: dec("2500")}
	require.NoError(t, db.Create(&supplier).Error)

	_, err := ledger.RecordExpense(ctx, NewExpense{
		Type:       models.ExpenseMaterialPurchase,
		Amount:     dec("800"),
		SupplierID: &supplier.ID,
	})
	require.NoError(t, err)

	reloaded, err := ledger.Suppliers().Get(ctx, supplier.ID)
	require.NoError(t, err)
	assertDecimal(t, "2500", reloaded.OutstandingPayment)
}

func TestRecordExpense_Validation(t *testing.T) {
	ledger, _ := setupLedger(t)

	tests := []struct {
		name     string
		input    NewExpense
		expected error
	}{
		{"unknown type", NewExpense{Type: "rent", Amount: dec("10")}, ErrInvalidExpenseType},
		{"zero amount", NewExpense{Type: models.ExpenseBill, Amount: dec("0")}, ErrInvalidExpenseAmount},
		{"supplier payment without supplier", NewExpense{Type: models.ExpenseSupplierPayment, Amount: dec("10")}, ErrSupplierRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.RecordExpense(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.expected)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestListExpenses(t *testing.T) {
	ledger, _ := setupLedger(t)
	ctx := context.Background()
	ledger.now = func() time.Time { return time.Date(2026, 6, 1, 15, 0, 0, 0, time.UTC) }

	older := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err := ledger.RecordExpense(ctx, NewExpense{Type: models.ExpenseBill, Amount: dec("1200"), Description: "Electricity", Date: &older})
	require.NoError(t, err)
	_, err = ledger.RecordExpense(ctx, NewExpense{Type: models.ExpenseOther, Amount: dec("300"), Description: "Tea"})
	require.NoError(t, err)

	all, err := ledger.ListExpenses(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Tea", all[0].Description)
	assert.True(t, all[0].Date.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Electricity", all[1].Description)

	bills := models.ExpenseBill
	filtered, err := ledger.ListExpenses(ctx, &bills)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Electricity", filtered[0].Description)
}

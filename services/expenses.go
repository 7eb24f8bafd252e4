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

// NewExpense is the validated input for recording an expense
type NewExpense struct {
	Type        models.ExpenseType
	Description string
	Amount      decimal.Decimal
	Date        *time.Time // defaults to today
	SupplierID  *uint
}

// ExpenseLedger records expenses and keeps supplier balances in step
type ExpenseLedger struct {
	db        *gorm.DB
	expenses  *Store[models.Expense]
	suppliers *Store[models.Supplier]
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewExpenseLedger creates an ExpenseLedger over db
func NewExpenseLedger(db *gorm.DB, log logrus.FieldLogger) *ExpenseLedger {
	return &ExpenseLedger{
		db:        db,
		expenses:  NewStore[models.Expense](db),
		suppliers: NewStore[models.Supplier](db),
		log:       log,
		now:       time.Now,
	}
}

// Suppliers exposes the supplier table for plain CRUD
func (l *ExpenseLedger) Suppliers() *Store[models.Supplier] {
	return l.suppliers
}

// RecordExpense stores an expense. A supplier payment also reduces the
// supplier's outstanding balance by the amount; both writes share one
// transaction so neither is visible without the other.
func (l *ExpenseLedger) RecordExpense(ctx context.Context, in NewExpense) (*models.Expense, error) {
	if !in.Type.Valid() {
		return nil, ErrInvalidExpenseType
	}
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidExpenseAmount
	}
	if in.Type == models.ExpenseSupplierPayment && in.SupplierID == nil {
		return nil, ErrSupplierRequired
	}

	date := l.now()
	if in.Date != nil {
		date = *in.Date
	}
	expense := &models.Expense{
		Type:        in.Type,
		Description: in.Description,
		Amount:      in.Amount,
		Date:        calendarDate(date),
		SupplierID:  in.SupplierID,
	}

	var balance decimal.Decimal
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var supplier *models.Supplier
		if in.SupplierID != nil {
			s, err := l.suppliers.WithTx(tx).Get(ctx, *in.SupplierID)
			if err != nil {
				return notFoundAs(err, ErrSupplierNotFound)
			}
			supplier = s
		}

		if err := l.expenses.WithTx(tx).Insert(ctx, expense); err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}

		if in.Type != models.ExpenseSupplierPayment {
			return nil
		}
		balance = supplier.OutstandingPayment.Sub(in.Amount)
		err := l.suppliers.WithTx(tx).Update(ctx, supplier.ID, map[string]interface{}{
			"outstanding_payment": balance,
		})
		if err != nil {
			return fmt.Errorf("adjust supplier balance: %w", notFoundAs(err, ErrSupplierNotFound))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry := l.log.WithFields(logrus.Fields{
		"expense_id": expense.ID,
		"type":       expense.Type,
		"amount":     expense.Amount.String(),
	})
	if in.Type == models.ExpenseSupplierPayment {
		entry = entry.WithFields(logrus.Fields{
			"supplier_id":      *in.SupplierID,
			"supplier_balance": balance.String(),
		})
	}
	entry.Info("Expense recorded")

	return expense, nil
}

// ListExpenses returns expenses newest first, optionally of one type
func (l *ExpenseLedger) ListExpenses(ctx context.Context, expenseType *models.ExpenseType) ([]models.Expense, error) {
	return l.expenses.Select(ctx, func(db *gorm.DB) *gorm.DB {
		db = db.Preload("Supplier").Order("date DESC, id DESC")
		if expenseType != nil {
			db = db.Where("type = ?", *expenseType)
		}
		return db
	})
}

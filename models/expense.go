package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseType categorises money leaving the shop
type ExpenseType string

const (
	ExpenseBill             ExpenseType = "bill"
	ExpenseMaterialPurchase ExpenseType = "material_purchase"
	ExpenseSupplierPayment  ExpenseType = "supplier_payment"
	ExpenseOther            ExpenseType = "other"
)

// Valid reports whether t is a known expense type
func (t ExpenseType) Valid() bool {
	switch t {
	case ExpenseBill, ExpenseMaterialPurchase, ExpenseSupplierPayment, ExpenseOther:
		return true
	}
	return false
}

// ParseExpenseType validates a raw expense type
func ParseExpenseType(raw string) (ExpenseType, error) {
	t := ExpenseType(raw)
	if !t.Valid() {
		return "", fmt.Errorf("unknown expense type %q", raw)
	}
	return t, nil
}

// Expense is a bill, purchase or supplier payment
type Expense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Type        ExpenseType     `gorm:"not null;index" json:"type"`
	Description string          `gorm:"type:text" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`
	SupplierID  *uint           `gorm:"index" json:"supplier_id,omitempty"`
	Supplier    *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Expense model
func (Expense) TableName() string {
	return "expenses"
}

// Supplier is a vendor the shop owes money to
type Supplier struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Name               string          `gorm:"not null" json:"name"`
	ContactInfo        string          `json:"contact_info"`
	OutstandingPayment decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"outstanding_payment"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}

package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Material is a stock item (sheet, plate) that orders consume
type Material struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Thickness     float64         `json:"thickness"` // millimetres
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"purchase_price"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"selling_price"`
	CurrentStock  float64         `gorm:"not null;default:0" json:"current_stock"`
	MinQuantity   float64         `gorm:"not null;default:0" json:"min_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Material model
func (Material) TableName() string {
	return "materials"
}

// IsLowStock reports whether stock has fallen under the reorder threshold
func (m Material) IsLowStock() bool {
	return m.CurrentStock < m.MinQuantity
}

// Service is a priced unit of work offered to clients. Its list price only
// seeds the base price of new orders.
type Service struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// MachineStatus is the operating state of a machine
type MachineStatus string

const (
	MachineAvailable   MachineStatus = "available"
	MachineMaintenance MachineStatus = "maintenance"
	MachineUnavailable MachineStatus = "unavailable"
)

// Valid reports whether s is a known machine status
func (s MachineStatus) Valid() bool {
	switch s {
	case MachineAvailable, MachineMaintenance, MachineUnavailable:
		return true
	}
	return false
}

// ParseMachineStatus validates a raw machine status
func ParseMachineStatus(raw string) (MachineStatus, error) {
	s := MachineStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown machine status %q", raw)
	}
	return s, nil
}

// Machine is shop equipment an order can be scheduled on
type Machine struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Model     string         `json:"model"`
	Status    MachineStatus  `gorm:"not null;default:'available'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Machine model
func (Machine) TableName() string {
	return "machines"
}

// Staff is a shop employee that can be assigned to orders
type Staff struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Role        string         `json:"role"`
	ContactInfo string         `json:"contact_info"`
	IsAvailable bool           `gorm:"not null" json:"is_available"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Staff model
func (Staff) TableName() string {
	return "staff"
}

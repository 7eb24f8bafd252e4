package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is a stage of the order pipeline
type OrderStatus string

const (
	StatusLead        OrderStatus = "lead"
	StatusContacted   OrderStatus = "contacted"
	StatusConfirmed   OrderStatus = "confirmed"
	StatusProgressing OrderStatus = "progressing"
	StatusCompleted   OrderStatus = "completed"
	StatusCancelled   OrderStatus = "cancelled"
)

// OrderStatuses lists every stage in pipeline order
var OrderStatuses = []OrderStatus{
	StatusLead,
	StatusContacted,
	StatusConfirmed,
	StatusProgressing,
	StatusCompleted,
	StatusCancelled,
}

var statusLabels = map[OrderStatus]string{
	StatusLead:        "Lead",
	StatusContacted:   "Contacted",
	StatusConfirmed:   "Order Confirmed",
	StatusProgressing: "In Production",
	StatusCompleted:   "Completed",
	StatusCancelled:   "Cancelled",
}

// Valid reports whether s is one of the six pipeline stages
func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the board column title for the stage
func (s OrderStatus) Label() string {
	return statusLabels[s]
}

// ParseOrderStatus validates a raw status value
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return s, nil
}

// PaymentStatus summarises how much of an order has been paid
type PaymentStatus string

const (
	NotPaid       PaymentStatus = "not_paid"
	PartiallyPaid PaymentStatus = "partially_paid"
	FullyPaid     PaymentStatus = "fully_paid"
)

// Order is a customer job moving through the pipeline
type Order struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	ClientName        string           `gorm:"not null;index" json:"client_name"`
	PhoneNumber       string           `json:"phone_number"`
	Location          string           `json:"location"`
	MaterialID        *uint            `gorm:"index" json:"material_id"`
	Material          *Material        `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	MaterialQuantity  *float64         `json:"material_quantity"`
	ServiceID         *uint            `gorm:"index" json:"service_id"`
	Service           *Service         `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	MachineID         *uint            `gorm:"index" json:"machine_id"` // at most one machine per order
	Machine           *Machine         `gorm:"foreignKey:MachineID" json:"machine,omitempty"`
	BasePrice         *decimal.Decimal `gorm:"type:decimal(12,2)" json:"base_price"`
	AdditionalCharges *decimal.Decimal `gorm:"type:decimal(12,2)" json:"additional_charges"` // negative for discounts
	FinalPrice        decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"final_price"`
	Status            OrderStatus      `gorm:"not null;default:'lead';index" json:"status"`
	Assignments       []OrderStaff     `gorm:"foreignKey:OrderID" json:"assignments"`
	Payments          []Payment        `gorm:"foreignKey:OrderID" json:"payments"`
	TotalPaid         decimal.Decimal  `gorm:"-" json:"total_paid"`     // computed from payments
	Outstanding       decimal.Decimal  `gorm:"-" json:"outstanding"`    // computed, may be negative
	PaymentStatus     PaymentStatus    `gorm:"-" json:"payment_status"` // computed
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// StaffIDs returns the ids of the staff assigned to the order
func (o Order) StaffIDs() []uint {
	ids := make([]uint, 0, len(o.Assignments))
	for _, a := range o.Assignments {
		ids = append(ids, a.StaffID)
	}
	return ids
}

// OrderStaff links an order to an assigned staff member
type OrderStaff struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;uniqueIndex:idx_order_staff_pair" json:"order_id"`
	StaffID   uint      `gorm:"not null;uniqueIndex:idx_order_staff_pair;index" json:"staff_id"`
	Staff     *Staff    `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the OrderStaff model
func (OrderStaff) TableName() string {
	return "order_staff"
}

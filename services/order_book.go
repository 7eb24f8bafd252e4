package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kendall-kelly/jobshop-api/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OrderInput carries the editable order fields. Nil means "not provided".
// A zero MaterialID or ServiceID clears the reference on update.
type OrderInput struct {
	ClientName        *string
	PhoneNumber       *string
	Location          *string
	MaterialID        *uint
	MaterialQuantity  *float64
	ServiceID         *uint
	BasePrice         *decimal.Decimal
	AdditionalCharges *decimal.Decimal
	Status            *models.OrderStatus
}

// OrderBook owns the fetched order set. Reads are served from the snapshot;
// every successful write rebuilds it with a full refresh.
type OrderBook struct {
	db        *gorm.DB
	orders    *Store[models.Order]
	payments  *Store[models.Payment]
	services  *Store[models.Service]
	materials *Store[models.Material]
	machines  *Store[models.Machine]
	staff     *Store[models.Staff]
	log       logrus.FieldLogger
	now       func() time.Time

	// refreshMu spans load and swap so an older load never replaces a newer one
	refreshMu sync.Mutex

	mu          sync.RWMutex
	snapshot    []models.Order
	refreshedAt time.Time
}

// NewOrderBook creates an OrderBook over db. Call Refresh before serving reads.
func NewOrderBook(db *gorm.DB, log logrus.FieldLogger) *OrderBook {
	return &OrderBook{
		db:        db,
		orders:    NewStore[models.Order](db),
		payments:  NewStore[models.Payment](db),
		services:  NewStore[models.Service](db),
		materials: NewStore[models.Material](db),
		machines:  NewStore[models.Machine](db),
		staff:     NewStore[models.Staff](db),
		log:       log,
		now:       time.Now,
	}
}

// SetClock overrides the time source (primarily for testing)
func (b *OrderBook) SetClock(now func() time.Time) {
	b.now = now
}

// withRelations preloads every relation the board and reports need, one
// query per relation.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Material").
		Preload("Service").
		Preload("Machine").
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("staff_id ASC")
		}).
		Preload("Assignments.Staff").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC, id ASC")
		})
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}

// Refresh reloads every order and replaces the snapshot wholesale. Refreshes
// run one at a time, so the last one to finish read the latest committed rows.
func (b *OrderBook) Refresh(ctx context.Context) error {
	b.refreshMu.Lock()
	defer b.refreshMu.Unlock()

	orders, err := b.orders.Select(ctx, withRelations, newestFirst)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	for i := range orders {
		if !orders[i].Status.Valid() {
			b.log.WithFields(logrus.Fields{
				"order_id": orders[i].ID,
				"status":   orders[i].Status,
			}).Warn("Order has unknown status, treating as lead")
			orders[i].Status = models.StatusLead
		}
		Annotate(&orders[i])
	}

	b.mu.Lock()
	b.snapshot = orders
	b.refreshedAt = b.now()
	b.mu.Unlock()

	b.log.WithField("orders", len(orders)).Debug("Order snapshot refreshed")
	return nil
}

// Snapshot returns a copy of the current order set, newest first
func (b *OrderBook) Snapshot() []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Order, len(b.snapshot))
	copy(out, b.snapshot)
	return out
}

// RefreshedAt reports when the snapshot was last rebuilt
func (b *OrderBook) RefreshedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.refreshedAt
}

// afterWrite rebuilds the snapshot once a write has succeeded. A failed
// refresh leaves the previous snapshot in place; the write itself stands.
func (b *OrderBook) afterWrite(ctx context.Context) {
	if err := b.Refresh(ctx); err != nil {
		b.log.WithError(err).Error("Failed to refresh order snapshot after write")
	}
}

// Get loads one order straight from the store with all relations
func (b *OrderBook) Get(ctx context.Context, id uint) (*models.Order, error) {
	order, err := b.orders.Get(ctx, id, withRelations)
	if err != nil {
		return nil, notFoundAs(err, ErrOrderNotFound)
	}
	Annotate(order)
	return order, nil
}

// CreateOrder validates and stores a new order. Selecting a service seeds the
// base price from its list price.
func (b *OrderBook) CreateOrder(ctx context.Context, in OrderInput) (*models.Order, []string, error) {
	if in.ClientName == nil || strings.TrimSpace(*in.ClientName) == "" {
		return nil, nil, ErrClientNameRequired
	}

	order := &models.Order{Status: models.StatusLead}
	warnings, err := b.apply(ctx, order, in)
	if err != nil {
		return nil, nil, err
	}

	if err := b.orders.Insert(ctx, order); err != nil {
		return nil, nil, fmt.Errorf("insert order: %w", err)
	}
	b.log.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"status":      order.Status,
		"final_price": order.FinalPrice.String(),
	}).Info("Order created")

	b.afterWrite(ctx)
	created, err := b.Get(ctx, order.ID)
	return created, warnings, err
}

// UpdateOrder applies a partial edit. The final price is recomputed and
// persisted on every edit.
func (b *OrderBook) UpdateOrder(ctx context.Context, id uint, in OrderInput) (*models.Order, []string, error) {
	current, err := b.orders.Get(ctx, id)
	if err != nil {
		return nil, nil, notFoundAs(err, ErrOrderNotFound)
	}
	if in.ClientName != nil && strings.TrimSpace(*in.ClientName) == "" {
		return nil, nil, ErrClientNameRequired
	}

	warnings, err := b.apply(ctx, current, in)
	if err != nil {
		return nil, nil, err
	}

	fields := map[string]interface{}{
		"client_name":        current.ClientName,
		"phone_number":       current.PhoneNumber,
		"location":           current.Location,
		"material_id":        current.MaterialID,
		"material_quantity":  current.MaterialQuantity,
		"service_id":         current.ServiceID,
		"base_price":         current.BasePrice,
		"additional_charges": current.AdditionalCharges,
		"final_price":        current.FinalPrice,
		"status":             current.Status,
	}
	if err := b.orders.Update(ctx, id, fields); err != nil {
		return nil, nil, notFoundAs(err, ErrOrderNotFound)
	}
	b.log.WithFields(logrus.Fields{
		"order_id":    id,
		"final_price": current.FinalPrice.String(),
		"warnings":    warnings,
	}).Info("Order updated")

	b.afterWrite(ctx)
	updated, err := b.Get(ctx, id)
	return updated, warnings, err
}

// DeleteOrder soft-deletes the order. Its payments and staff links are left
// untouched.
func (b *OrderBook) DeleteOrder(ctx context.Context, id uint) error {
	if err := b.orders.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrOrderNotFound)
	}
	b.log.WithField("order_id", id).Info("Order deleted")
	b.afterWrite(ctx)
	return nil
}

// apply validates in and copies it onto order, resolving the material and
// service references and recomputing the final price.
func (b *OrderBook) apply(ctx context.Context, order *models.Order, in OrderInput) ([]string, error) {
	var warnings []string

	if in.MaterialQuantity != nil && *in.MaterialQuantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if in.BasePrice != nil && in.BasePrice.IsNegative() {
		return nil, ErrNegativeBasePrice
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if in.ClientName != nil {
		order.ClientName = strings.TrimSpace(*in.ClientName)
	}
	if in.PhoneNumber != nil {
		order.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.Location != nil {
		order.Location = strings.TrimSpace(*in.Location)
	}
	if in.MaterialQuantity != nil {
		order.MaterialQuantity = in.MaterialQuantity
	}
	if in.BasePrice != nil {
		order.BasePrice = in.BasePrice
	}
	if in.AdditionalCharges != nil {
		order.AdditionalCharges = in.AdditionalCharges
	}
	if in.Status != nil {
		order.Status = *in.Status
	}

	if in.MaterialID != nil {
		if *in.MaterialID == 0 {
			order.MaterialID = nil
		} else {
			if _, err := b.materials.Get(ctx, *in.MaterialID); err != nil {
				return nil, notFoundAs(err, ErrMaterialNotFound)
			}
			materialID := *in.MaterialID
			order.MaterialID = &materialID
		}
		order.Material = nil
	}

	if in.ServiceID != nil {
		switch {
		case *in.ServiceID == 0:
			order.ServiceID = nil
			order.Service = nil
		case order.ServiceID == nil || *order.ServiceID != *in.ServiceID:
			svc, err := b.services.Get(ctx, *in.ServiceID)
			if err != nil {
				return nil, notFoundAs(err, ErrServiceNotFound)
			}
			if ApplyService(order, *svc) {
				warnings = append(warnings, WarningBasePriceOverwritten)
			}
		}
	}

	Reprice(order)
	return warnings, nil
}

package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/kendall-kelly/jobshop-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetAssignedStaff replaces the order's staff links with exactly staffIDs.
// Existing links are removed and one link per distinct id is inserted, so
// repeating the call with the same set is a no-op. An empty set clears.
func (b *OrderBook) SetAssignedStaff(ctx context.Context, orderID uint, staffIDs []uint) (*models.Order, error) {
	ids := distinctIDs(staffIDs)

	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := b.orders.WithTx(tx).Get(ctx, orderID); err != nil {
			return notFoundAs(err, ErrOrderNotFound)
		}

		found, err := b.staff.WithTx(tx).Count(ctx, ids)
		if err != nil {
			return fmt.Errorf("check staff: %w", err)
		}
		if found != int64(len(ids)) {
			return ErrStaffNotFound
		}

		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderStaff{}).Error; err != nil {
			return fmt.Errorf("clear staff links: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		links := make([]models.OrderStaff, 0, len(ids))
		for _, id := range ids {
			links = append(links, models.OrderStaff{OrderID: orderID, StaffID: id})
		}
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("insert staff links: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.log.WithFields(logrus.Fields{
		"order_id":  orderID,
		"staff_ids": ids,
	}).Info("Order staff assigned")

	b.afterWrite(ctx)
	return b.Get(ctx, orderID)
}

// SetAssignedMachine stores machineID on the order row; nil clears it
func (b *OrderBook) SetAssignedMachine(ctx context.Context, orderID uint, machineID *uint) (*models.Order, error) {
	var value interface{}
	if machineID != nil {
		if _, err := b.machines.Get(ctx, *machineID); err != nil {
			return nil, notFoundAs(err, ErrMachineNotFound)
		}
		value = *machineID
	}

	if err := b.orders.Update(ctx, orderID, map[string]interface{}{"machine_id": value}); err != nil {
		return nil, notFoundAs(err, ErrOrderNotFound)
	}
	b.log.WithFields(logrus.Fields{
		"order_id":   orderID,
		"machine_id": value,
	}).Info("Order machine assigned")

	b.afterWrite(ctx)
	return b.Get(ctx, orderID)
}

func distinctIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

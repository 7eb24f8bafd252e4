package services

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/kendall-kelly/jobshop-api/models"
	"github.com/sirupsen/logrus"
)

// BoardColumn is one status grouping of the pipeline board
type BoardColumn struct {
	Status models.OrderStatus `json:"status"`
	Label  string             `json:"label"`
	Count  int                `json:"count"`
	Orders []models.Order     `json:"orders"`
}

// TransitionStatus moves an order to any status. Every pair of stages is a
// legal transition; the write touches only the status column.
func (b *OrderBook) TransitionStatus(ctx context.Context, id uint, to models.OrderStatus) (*models.Order, error) {
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}

	if err := b.orders.Update(ctx, id, map[string]interface{}{"status": to}); err != nil {
		return nil, notFoundAs(err, ErrOrderNotFound)
	}
	b.log.WithFields(logrus.Fields{
		"order_id": id,
		"status":   to,
	}).Info("Order status changed")

	b.afterWrite(ctx)
	return b.Get(ctx, id)
}

// MoveOrder is the board drag-and-drop: dropping a card on another column is
// the same single-field status update as an explicit edit.
func (b *OrderBook) MoveOrder(ctx context.Context, id uint, to models.OrderStatus) (*models.Order, error) {
	return b.TransitionStatus(ctx, id, to)
}

// OrdersInStatus returns the snapshot orders in one status, newest first,
// after applying the search filter.
func (b *OrderBook) OrdersInStatus(status models.OrderStatus, query string) []models.Order {
	return OrdersInStatus(b.Snapshot(), status, query)
}

// Board groups the snapshot into one column per status
func (b *OrderBook) Board(query string) []BoardColumn {
	return BuildBoard(b.Snapshot(), query)
}

// FilterOrders keeps the orders matching the search query
func FilterOrders(orders []models.Order, query string) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if MatchesSearch(o, query) {
			out = append(out, o)
		}
	}
	return out
}

// OrdersInStatus filters by query, then by status, sorted newest first
func OrdersInStatus(orders []models.Order, status models.OrderStatus, query string) []models.Order {
	out := make([]models.Order, 0)
	for _, o := range FilterOrders(orders, query) {
		if o.Status == status {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out
}

// BuildBoard returns every status column in pipeline order, empty ones included
func BuildBoard(orders []models.Order, query string) []BoardColumn {
	filtered := FilterOrders(orders, query)
	sortNewestFirst(filtered)

	grouped := make(map[models.OrderStatus][]models.Order, len(models.OrderStatuses))
	for _, o := range filtered {
		grouped[o.Status] = append(grouped[o.Status], o)
	}

	board := make([]BoardColumn, 0, len(models.OrderStatuses))
	for _, s := range models.OrderStatuses {
		column := grouped[s]
		if column == nil {
			column = []models.Order{}
		}
		board = append(board, BoardColumn{
			Status: s,
			Label:  s.Label(),
			Count:  len(column),
			Orders: column,
		})
	}
	return board
}

// MatchesSearch reports whether the client name contains query
// (case-insensitive) or the phone number contains the query's digits.
// An empty query matches everything.
func MatchesSearch(order models.Order, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(order.ClientName), strings.ToLower(query)) {
		return true
	}
	digits := digitsOnly(query)
	return digits != "" && strings.Contains(digitsOnly(order.PhoneNumber), digits)
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func sortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}

package services

import (
	"sort"
	"strings"
	"time"

	"github.com/kendall-kelly/jobshop-api/models"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar days. Nil bounds are open.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// ParseDateRange parses YYYY-MM-DD bounds; empty strings leave a bound open
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	if from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return DateRange{}, ErrInvalidDate
		}
		r.From = &t
	}
	if to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return DateRange{}, ErrInvalidDate
		}
		r.To = &t
	}
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return DateRange{}, ErrInvalidDateRange
	}
	return r, nil
}

// Contains reports whether t falls on a day inside the range
func (r DateRange) Contains(t time.Time) bool {
	day := calendarDate(t)
	if r.From != nil && day.Before(calendarDate(*r.From)) {
		return false
	}
	if r.To != nil && day.After(calendarDate(*r.To)) {
		return false
	}
	return true
}

// StatusCount is the number of orders in one pipeline stage
type StatusCount struct {
	Status models.OrderStatus `json:"status"`
	Label  string             `json:"label"`
	Count  int                `json:"count"`
}

// MonthlyRevenue is the final price total of orders created in one month
type MonthlyRevenue struct {
	Month   string          `json:"month"` // YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
}

// MaterialUsage is the quantity of one material across orders
type MaterialUsage struct {
	MaterialID uint    `json:"material_id"`
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
}

// StaffUtilization is the number of orders a staff member is assigned to
type StaffUtilization struct {
	StaffID uint   `json:"staff_id"`
	Name    string `json:"name"`
	Orders  int    `json:"orders"`
}

// Summary is the dashboard rollup of an order set
type Summary struct {
	Range            DateRange          `json:"range"`
	OrderCount       int                `json:"order_count"`
	StatusCounts     []StatusCount      `json:"status_counts"`
	TotalRevenue     decimal.Decimal    `json:"total_revenue"`
	ReceivedRevenue  decimal.Decimal    `json:"received_revenue"`
	PendingRevenue   decimal.Decimal    `json:"pending_revenue"`
	TotalCustomers   int                `json:"total_customers"`
	PendingWork      int                `json:"pending_work"`
	CancelledOrders  int                `json:"cancelled_orders"`
	MonthlyRevenue   []MonthlyRevenue   `json:"monthly_revenue"`
	MaterialUsage    []MaterialUsage    `json:"material_usage"`
	StaffUtilization []StaffUtilization `json:"staff_utilization"`
}

// FilterByCreated keeps the orders created inside r
func FilterByCreated(orders []models.Order, r DateRange) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if r.Contains(o.CreatedAt) {
			out = append(out, o)
		}
	}
	return out
}

// Summarize rolls up the orders created inside r. It is a pure read over the
// given set; nothing is fetched.
func Summarize(orders []models.Order, r DateRange) Summary {
	orders = FilterByCreated(orders, r)

	summary := Summary{
		Range:           r,
		OrderCount:      len(orders),
		TotalRevenue:    decimal.Zero,
		ReceivedRevenue: decimal.Zero,
	}

	counts := make(map[models.OrderStatus]int, len(models.OrderStatuses))
	customers := make(map[string]struct{})
	monthly := make(map[string]decimal.Decimal)
	materials := make(map[uint]*MaterialUsage)
	staff := make(map[uint]*StaffUtilization)

	for _, o := range orders {
		counts[o.Status]++
		summary.TotalRevenue = summary.TotalRevenue.Add(o.FinalPrice)
		summary.ReceivedRevenue = summary.ReceivedRevenue.Add(TotalPaid(o))

		if name := strings.ToLower(strings.TrimSpace(o.ClientName)); name != "" {
			customers[name] = struct{}{}
		}

		month := o.CreatedAt.Format("2006-01")
		monthly[month] = monthly[month].Add(o.FinalPrice)

		if o.MaterialID != nil && o.MaterialQuantity != nil {
			usage, ok := materials[*o.MaterialID]
			if !ok {
				usage = &MaterialUsage{MaterialID: *o.MaterialID}
				if o.Material != nil {
					usage.Name = o.Material.Name
				}
				materials[*o.MaterialID] = usage
			}
			usage.Quantity += *o.MaterialQuantity
		}

		for _, a := range o.Assignments {
			util, ok := staff[a.StaffID]
			if !ok {
				util = &StaffUtilization{StaffID: a.StaffID}
				if a.Staff != nil {
					util.Name = a.Staff.Name
				}
				staff[a.StaffID] = util
			}
			util.Orders++
		}
	}

	summary.PendingRevenue = summary.TotalRevenue.Sub(summary.ReceivedRevenue)
	summary.TotalCustomers = len(customers)
	summary.PendingWork = counts[models.StatusConfirmed] + counts[models.StatusProgressing]
	summary.CancelledOrders = counts[models.StatusCancelled]

	summary.StatusCounts = make([]StatusCount, 0, len(models.OrderStatuses))
	for _, s := range models.OrderStatuses {
		summary.StatusCounts = append(summary.StatusCounts, StatusCount{
			Status: s,
			Label:  s.Label(),
			Count:  counts[s],
		})
	}

	summary.MonthlyRevenue = make([]MonthlyRevenue, 0, len(monthly))
	for month, revenue := range monthly {
		summary.MonthlyRevenue = append(summary.MonthlyRevenue, MonthlyRevenue{Month: month, Revenue: revenue})
	}
	sort.Slice(summary.MonthlyRevenue, func(i, j int) bool {
		return summary.MonthlyRevenue[i].Month < summary.MonthlyRevenue[j].Month
	})

	summary.MaterialUsage = make([]MaterialUsage, 0, len(materials))
	for _, usage := range materials {
		summary.MaterialUsage = append(summary.MaterialUsage, *usage)
	}
	sort.Slice(summary.MaterialUsage, func(i, j int) bool {
		return summary.MaterialUsage[i].MaterialID < summary.MaterialUsage[j].MaterialID
	})

	summary.StaffUtilization = make([]StaffUtilization, 0, len(staff))
	for _, util := range staff {
		summary.StaffUtilization = append(summary.StaffUtilization, *util)
	}
	sort.Slice(summary.StaffUtilization, func(i, j int) bool {
		a, b := summary.StaffUtilization[i], summary.StaffUtilization[j]
		if a.Orders != b.Orders {
			return a.Orders > b.Orders
		}
		return a.StaffID < b.StaffID
	})

	return summary
}

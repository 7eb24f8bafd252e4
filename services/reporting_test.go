package services

import (
	"context"
	"testing"
	"time"

	"github.com/kendall-kelly/jobshop-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("", "")
	require.NoError(t, err)
	assert.Nil(t, r.From)
	assert.Nil(t, r.To)

	r, err = ParseDateRange("2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, day(2026, 1, 1), *r.From)
	assert.Equal(t, day(2026, 1, 31), *r.To)

	_, err = ParseDateRange("2026-02-01", "2026-01-01")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = ParseDateRange("01/02/2026", "")
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDateRange_ContainsWholeDays(t *testing.T) {
	r, err := ParseDateRange("2026-01-10", "2026-01-10")
	require.NoError(t, err)

	assert.True(t, r.Contains(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2026, 1, 10, 23, 59, 59, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 1, 9, 23, 59, 59, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)))
	assert.True(t, DateRange{}.Contains(time.Now()))
}

func TestSummarize(t *testing.T) {
	steel := uint(1)
	acrylic := uint(2)
	q1, q2, q3 := 2.0, 3.5, 1.0

	orders := []models.Order{
		{
			ID: 1, ClientName: "Ravi", Status: models.StatusConfirmed, FinalPrice: dec("1000"),
			MaterialID: &steel, Material: &models.Material{Name: "Steel"}, MaterialQuantity: &q1,
			Payments:    []models.Payment{{Amount: dec("400")}},
			Assignments: []models.OrderStaff{{StaffID: 5, Staff: &models.Staff{Name: "Imran"}}},
			CreatedAt:   day(2026, 1, 5),
		},
		{
			ID: 2, ClientName: "ravi ", Status: models.StatusProgressing, FinalPrice: dec("2000"),
			MaterialID: &steel, Material: &models.Material{Name: "Steel"}, MaterialQuantity: &q2,
			Payments: []models.Payment{{Amount: dec("2000")}},
			Assignments: []models.OrderStaff{
				{StaffID: 5, Staff: &models.Staff{Name: "Imran"}},
				{StaffID: 3, Staff: &models.Staff{Name: "Joseph"}},
			},
			CreatedAt: day(2026, 1, 20),
		},
		{
			ID: 3, ClientName: "Meera", Status: models.StatusCancelled, FinalPrice: dec("500"),
			MaterialID: &acrylic, Material: &models.Material{Name: "Acrylic"}, MaterialQuantity: &q3,
			CreatedAt: day(2026, 2, 2),
		},
		{
			ID: 4, ClientName: "Out of range", Status: models.StatusLead, FinalPrice: dec("9999"),
			CreatedAt: day(2025, 12, 31),
		},
	}

	rng, err := ParseDateRange("2026-01-01", "2026-02-28")
	require.NoError(t, err)
	s := Summarize(orders, rng)

	assert.Equal(t, 3, s.OrderCount)
	assertDecimal(t, "3500", s.TotalRevenue)
	assertDecimal(t, "2400", s.ReceivedRevenue)
	assertDecimal(t, "1100", s.PendingRevenue)
	assert.Equal(t, 2, s.TotalCustomers)
	assert.Equal(t, 2, s.PendingWork)
	assert.Equal(t, 1, s.CancelledOrders)

	require.Len(t, s.StatusCounts, len(models.OrderStatuses))
	assert.Equal(t, models.StatusLead, s.StatusCounts[0].Status)
	assert.Equal(t, 0, s.StatusCounts[0].Count)
	assert.Equal(t, 1, s.StatusCounts[2].Count)
	assert.Equal(t, "Cancelled", s.StatusCounts[5].Label)

	require.Len(t, s.MonthlyRevenue, 2)
	assert.Equal(t, "2026-01", s.MonthlyRevenue[0].Month)
	assertDecimal(t, "3000", s.MonthlyRevenue[0].Revenue)
	assert.Equal(t, "2026-02", s.MonthlyRevenue[1].Month)

	require.Len(t, s.MaterialUsage, 2)
	assert.Equal(t, MaterialUsage{MaterialID: 1, Name: "Steel", Quantity: 5.5}, s.MaterialUsage[0])
	assert.Equal(t, "Acrylic", s.MaterialUsage[1].Name)

	require.Len(t, s.StaffUtilization, 2)
	assert.Equal(t, StaffUtilization{StaffID: 5, Name: "Imran", Orders: 2}, s.StaffUtilization[0])
	assert.Equal(t, StaffUtilization{StaffID: 3, Name: "Joseph", Orders: 1}, s.StaffUtilization[1])
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, DateRange{})

	assert.Equal(t, 0, s.OrderCount)
	assertDecimal(t, "0", s.TotalRevenue)
	assertDecimal(t, "0", s.PendingRevenue)
	assert.Len(t, s.StatusCounts, len(models.OrderStatuses))
	assert.NotNil(t, s.MonthlyRevenue)
	assert.NotNil(t, s.MaterialUsage)
	assert.NotNil(t, s.StaffUtilization)
}

func TestReports_SummaryUsesSnapshotAndRange(t *testing.T) {
	book, db := setupBook(t)
	ctx := context.Background()

	inside := createOrder(t, book, OrderInput{BasePrice: decPtr("1000")})
	outside := createOrder(t, book, OrderInput{BasePrice: decPtr("700")})
	setCreatedAt(t, db, inside.ID, time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC))
	setCreatedAt(t, db, outside.ID, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, book.Refresh(ctx))

	reports := NewReports(book, nil, book.log)
	rng, err := ParseDateRange("2026-04-01", "2026-04-30")
	require.NoError(t, err)

	s := reports.Summary(rng)
	assert.Equal(t, 1, s.OrderCount)
	assertDecimal(t, "1000", s.TotalRevenue)

	all := reports.Summary(DateRange{})
	assert.Equal(t, 2, all.OrderCount)
	assertDecimal(t, "1700", all.TotalRevenue)
}

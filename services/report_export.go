package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/kendall-kelly/jobshop-api/models"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	// XLSXContentType is the MIME type of exported workbooks
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	summarySheet = "Summary"
	ordersSheet  = "Orders"

	archiveLinkTTL = time.Hour
)

// ArchivedReport points at an exported workbook kept in the archive
type ArchivedReport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Reports serves dashboard rollups and exports over the order snapshot
type Reports struct {
	book    *OrderBook
	archive ReportArchive // nil when archiving is not configured
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewReports creates a Reports service; archive may be nil
func NewReports(book *OrderBook, archive ReportArchive, log logrus.FieldLogger) *Reports {
	return &Reports{book: book, archive: archive, log: log, now: time.Now}
}

// Summary rolls up the current snapshot over r
func (r *Reports) Summary(rng DateRange) Summary {
	return Summarize(r.book.Snapshot(), rng)
}

// Export builds the workbook for the snapshot orders created inside rng
func (r *Reports) Export(rng DateRange) (*bytes.Buffer, error) {
	orders := r.book.Snapshot()
	return BuildWorkbook(Summarize(orders, rng), FilterByCreated(orders, rng))
}

// Archive exports the workbook, uploads it and returns a temporary link
func (r *Reports) Archive(ctx context.Context, rng DateRange) (*ArchivedReport, error) {
	if r.archive == nil {
		return nil, ErrArchiveUnavailable
	}

	buf, err := r.Export(rng)
	if err != nil {
		return nil, err
	}

	now := r.now()
	key := fmt.Sprintf("reports/%s_analytics.xlsx", now.UTC().Format("20060102_150405"))
	if err := r.archive.Upload(ctx, key, buf.Bytes(), XLSXContentType); err != nil {
		return nil, err
	}
	url, err := r.archive.PresignedURL(ctx, key, archiveLinkTTL)
	if err != nil {
		return nil, err
	}

	r.log.WithFields(logrus.Fields{"key": key, "bytes": buf.Len()}).Info("Analytics report archived")
	return &ArchivedReport{Key: key, URL: url, ExpiresAt: now.Add(archiveLinkTTL)}, nil
}

// BuildWorkbook renders a summary sheet and an order listing sheet
func BuildWorkbook(summary Summary, orders []models.Order) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(ordersSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Orders", summary.OrderCount},
		{"Total customers", summary.TotalCustomers},
		{"Pending work", summary.PendingWork},
		{"Cancelled orders", summary.CancelledOrders},
		{"Total revenue", summary.TotalRevenue.InexactFloat64()},
		{"Received revenue", summary.ReceivedRevenue.InexactFloat64()},
		{"Pending revenue", summary.PendingRevenue.InexactFloat64()},
	}
	for _, sc := range summary.StatusCounts {
		rows = append(rows, []interface{}{sc.Label, sc.Count})
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return nil, err
	}

	rows = [][]interface{}{{
		"ID", "Client", "Phone", "Status", "Final price", "Paid", "Outstanding", "Payment status", "Created",
	}}
	for _, o := range orders {
		paid := TotalPaid(o)
		rows = append(rows, []interface{}{
			o.ID,
			o.ClientName,
			o.PhoneNumber,
			o.Status.Label(),
			o.FinalPrice.InexactFloat64(),
			paid.InexactFloat64(),
			o.FinalPrice.Sub(paid).InexactFloat64(),
			string(PaymentStatusOf(o)),
			o.CreatedAt.Format(dateLayout),
		})
	}
	if err := writeRows(f, ordersSheet, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

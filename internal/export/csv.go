package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

func formatPrice(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// ExportCSV exports tenders to CSV format
func ExportCSV(ctx context.Context, src Source, writer io.Writer, options ExportOptions) error {
	tenders, err := fetchTenders(ctx, src, options)
	if err != nil {
		return err
	}

	csvWriter := csv.NewWriter(writer)

	header := []string{
		"id",
		"title",
		"organization",
		"bid_number",
		"min_bid_price",
		"appraisal_price",
		"status",
		"announcement_date",
		"deadline",
	}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range convertToExportFormat(tenders) {
		row := []string{
			t.ID,
			t.Title,
			t.Organization,
			t.BidNumber,
			formatPrice(t.MinBidPrice),
			formatPrice(t.AppraisalAverage),
			t.Status,
			derefOr(t.AnnouncementDate, ""),
			derefOr(t.Deadline, ""),
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

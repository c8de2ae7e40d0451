package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
)

func TestExportCSV(t *testing.T) {
	client, _ := newClient(t, 3)

	var buf bytes.Buffer
	if err := ExportCSV(context.Background(), client, &buf, ExportOptions{}); err != nil {
		t.Fatalf("ExportCSV() failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse exported CSV: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d", len(records))
	}
	expectedHeader := []string{"id", "title", "organization", "bid_number", "min_bid_price", "appraisal_price", "status", "announcement_date", "deadline"}
	for i, col := range expectedHeader {
		if records[0][i] != col {
			t.Errorf("Expected header column %d to be %s, got %s", i, col, records[0][i])
		}
	}

	row := records[1]
	if row[0] != "T-1" || row[1] != "Tender 1" {
		t.Errorf("unexpected first row %v", row)
	}
	if row[4] != "1000" {
		t.Errorf("Expected min bid price 1000, got %s", row[4])
	}
	if row[5] != "" || row[7] != "" {
		t.Errorf("Expected empty cells for unset values, got %q and %q", row[5], row[7])
	}
	if row[6] != "open" {
		t.Errorf("Expected status open, got %s", row[6])
	}
}

func TestExportCSV_Empty(t *testing.T) {
	client, _ := newClient(t, 0)

	var buf bytes.Buffer
	if err := ExportCSV(context.Background(), client, &buf, ExportOptions{}); err != nil {
		t.Fatalf("ExportCSV() failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse exported CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected header only, got %d records", len(records))
	}
}

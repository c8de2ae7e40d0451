package export

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rodstewart/bidctl/internal/api"
	"github.com/rodstewart/bidctl/internal/models"
	"github.com/rodstewart/bidctl/internal/search"
	"github.com/rodstewart/bidctl/internal/testutil"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

// newClient starts a fake server with n sample tenders and returns a client
// logged in as the seeded account
func newClient(t *testing.T, n int) (*api.Client, *testutil.Server) {
	t.Helper()
	server := testutil.NewServer(t, testutil.SampleTenders(n)...)
	return api.NewClient(server.URL, staticToken(server.TokenFor(testutil.Username))), server
}

func TestConvertToExportFormat(t *testing.T) {
	price := int64(5000)
	deadline := models.DateTime{Time: time.Date(2025, 1, 31, 18, 0, 0, 0, time.Local)}
	tenders := []models.Tender{
		{
			TenderID:     1,
			CltrMnmtNo:   "A-1",
			Title:        "Apartment",
			Organization: "Seoul",
			MinBidPrice:  &price,
			Status:       models.StatusOpen,
			Deadline:     deadline,
		},
		{CltrMnmtNo: "B-2", Status: models.StatusClosed},
	}

	exported := convertToExportFormat(tenders)

	if len(exported) != 2 {
		t.Fatalf("Expected 2 exported tenders, got %d", len(exported))
	}
	if exported[0].ID != "A-1" || exported[0].TenderID != 1 {
		t.Errorf("unexpected ids: %+v", exported[0])
	}
	if exported[0].MinBidPrice == nil || *exported[0].MinBidPrice != 5000 {
		t.Errorf("Expected min bid price 5000, got %v", exported[0].MinBidPrice)
	}
	if exported[0].Status != "open" {
		t.Errorf("Expected status open, got %s", exported[0].Status)
	}
	if exported[0].Deadline == nil || *exported[0].Deadline != "2025-01-31 18:00:00" {
		t.Errorf("unexpected deadline %v", exported[0].Deadline)
	}
	if exported[1].AnnouncementDate != nil || exported[1].MinBidPrice != nil {
		t.Errorf("Expected unset fields to stay nil, got %+v", exported[1])
	}
}

func TestExportJSON_Search(t *testing.T) {
	client, server := newClient(t, 130)

	var buf bytes.Buffer
	err := ExportJSON(context.Background(), client, &buf, ExportOptions{
		Criteria: search.Criteria{Name: "Tender 1"},
	})
	if err != nil {
		t.Fatalf("ExportJSON() failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("Failed to parse exported JSON: %v", err)
	}

	if data.Version != "1" || data.Source != SourceSearch {
		t.Errorf("unexpected envelope: version %s source %s", data.Version, data.Source)
	}
	if data.ExportedAt.IsZero() {
		t.Error("Expected exported_at to be set")
	}
	// "Tender 1", "Tender 10".."Tender 19", "Tender 100".."Tender 130"
	if len(data.Tenders) != 42 {
		t.Errorf("Expected 42 tenders, got %d", len(data.Tenders))
	}
	if got := server.Requests("GET /api/tenders/search"); got != 1 {
		t.Errorf("Expected 1 search request at page size 100, got %d", got)
	}
}

func TestExportJSON_Favorites(t *testing.T) {
	client, server := newClient(t, 5)
	server.SetFavorite("T-2")
	server.SetFavorite("T-5")

	var buf bytes.Buffer
	if err := ExportJSON(context.Background(), client, &buf, ExportOptions{Source: SourceFavorites}); err != nil {
		t.Fatalf("ExportJSON() failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("Failed to parse exported JSON: %v", err)
	}
	if data.Source != SourceFavorites || len(data.Tenders) != 2 {
		t.Fatalf("unexpected export: source %s, %d tenders", data.Source, len(data.Tenders))
	}
	if data.Tenders[0].ID != "T-2" || data.Tenders[1].ID != "T-5" {
		t.Errorf("unexpected ids %s, %s", data.Tenders[0].ID, data.Tenders[1].ID)
	}
}

func TestExportJSON_UnknownSource(t *testing.T) {
	client, _ := newClient(t, 1)

	var buf bytes.Buffer
	if err := ExportJSON(context.Background(), client, &buf, ExportOptions{Source: "bids"}); err == nil {
		t.Error("Expected error for unknown source")
	}
	if buf.Len() != 0 {
		t.Error("Expected nothing written on error")
	}
}

func TestExportJSON_ServerError(t *testing.T) {
	client, server := newClient(t, 3)
	server.Fail("/api/tenders/search", 500)

	var buf bytes.Buffer
	err := ExportJSON(context.Background(), client, &buf, ExportOptions{})
	if api.StatusCode(err) != 500 {
		t.Errorf("Expected 500 error, got %v", err)
	}
}

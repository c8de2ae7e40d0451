package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/rodstewart/bidctl/internal/models"
	"github.com/rodstewart/bidctl/internal/search"
)

// Export sources
const (
	SourceSearch    = "search"
	SourceFavorites = "favorites"
)

// Source is the part of the bid server exports read from
type Source interface {
	FetchAllSearchResults(ctx context.Context, params url.Values) ([]models.Tender, error)
	ListFavorites(ctx context.Context) ([]models.Tender, error)
}

// ExportTender represents a tender in the export format
type ExportTender struct {
	ID               string  `json:"id"`
	TenderID         int64   `json:"tender_id"`
	Title            string  `json:"title"`
	Organization     string  `json:"organization"`
	BidNumber        string  `json:"bid_number"`
	GoodsName        string  `json:"goods_name"`
	MinBidPrice      *int64  `json:"min_bid_price"`
	AppraisalAverage *int64  `json:"appraisal_price"`
	Status           string  `json:"status"`
	AnnouncementDate *string `json:"announcement_date"`
	Deadline         *string `json:"deadline"`
}

// ExportData represents the complete export data structure
type ExportData struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Source     string         `json:"source"`
	Tenders    []ExportTender `json:"tenders"`
}

// ExportOptions configures the export behavior
type ExportOptions struct {
	Source   string
	Criteria search.Criteria
	// BaseURL prefixes tender links in HTML exports
	BaseURL string
}

func formatDate(d models.DateTime) *string {
	if d.IsZero() {
		return nil
	}
	s := d.Format(models.DateTimeLayout)
	return &s
}

// convertToExportFormat converts tender models to export format
func convertToExportFormat(tenders []models.Tender) []ExportTender {
	exported := make([]ExportTender, len(tenders))
	for i, t := range tenders {
		exported[i] = ExportTender{
			ID:               t.CltrMnmtNo,
			TenderID:         t.TenderID,
			Title:            t.Title,
			Organization:     t.Organization,
			BidNumber:        t.BidNumber,
			GoodsName:        t.GoodsName,
			MinBidPrice:      t.MinBidPrice,
			AppraisalAverage: t.AppraisalAverage,
			Status:           t.Status.String(),
			AnnouncementDate: formatDate(t.AnnouncementDate),
			Deadline:         formatDate(t.Deadline),
		}
	}
	return exported
}

// fetchTenders loads every tender of the selected source
func fetchTenders(ctx context.Context, src Source, options ExportOptions) ([]models.Tender, error) {
	switch options.Source {
	case "", SourceSearch:
		return src.FetchAllSearchResults(ctx, options.Criteria.WireParams())
	case SourceFavorites:
		tenders, err := src.ListFavorites(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch favorites: %w", err)
		}
		return tenders, nil
	default:
		return nil, fmt.Errorf("unsupported source: %s (use search or favorites)", options.Source)
	}
}

func sourceName(options ExportOptions) string {
	if options.Source == "" {
		return SourceSearch
	}
	return options.Source
}

// ExportJSON exports tenders to JSON format
func ExportJSON(ctx context.Context, src Source, writer io.Writer, options ExportOptions) error {
	tenders, err := fetchTenders(ctx, src, options)
	if err != nil {
		return err
	}

	data := ExportData{
		Version:    "1",
		ExportedAt: time.Now().UTC(),
		Source:     sourceName(options),
		Tenders:    convertToExportFormat(tenders),
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

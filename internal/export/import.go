// Package export handles importing and exporting tenders in various formats.
package export

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rodstewart/bidctl/internal/models"
)

// ImportResult tracks the outcome of an import operation
type ImportResult struct {
	Added   int
	Skipped int
	Failed  int
	Errors  []ImportError
}

// ImportError represents a single import failure
type ImportError struct {
	Line    int
	Message string
}

// ImportOptions configures the import behavior
type ImportOptions struct {
	Format string // json, html, csv, or auto
	DryRun bool
}

// FavoriteTarget is the part of the bid server favorites are imported into
type FavoriteTarget interface {
	ListFavorites(ctx context.Context) ([]models.Tender, error)
	AddFavorite(ctx context.Context, cltrMnmtNo string) (bool, error)
}

// DetectFormat determines the import format from the file extension
func DetectFormat(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return "json"
	case ".html", ".htm":
		return "html"
	case ".csv":
		return "csv"
	default:
		return ""
	}
}

// entry is one tender id read from an import file
type entry struct {
	line int
	id   string
}

// ImportFavorites favorites every tender listed in an export file that is
// not a favorite yet
func ImportFavorites(ctx context.Context, target FavoriteTarget, filename string, options ImportOptions) (*ImportResult, error) {
	format := options.Format
	if format == "" || format == "auto" {
		format = DetectFormat(filename)
		if format == "" {
			return nil, fmt.Errorf("cannot detect format from file extension. Use --format flag")
		}
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return importFrom(ctx, target, file, format, options)
}

func importFrom(ctx context.Context, target FavoriteTarget, reader io.Reader, format string, options ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	var (
		entries []entry
		err     error
	)
	switch format {
	case "json":
		entries, err = readJSON(reader, result)
	case "html":
		entries, err = readHTML(reader)
	case "csv":
		entries, err = readCSV(reader, result)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, err
	}

	existing, err := target.ListFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing favorites: %w", err)
	}
	favorites := make(map[string]bool, len(existing))
	for _, t := range existing {
		favorites[t.CltrMnmtNo] = true
	}

	for _, e := range entries {
		if favorites[e.id] {
			result.Skipped++
			continue
		}
		if options.DryRun {
			favorites[e.id] = true
			result.Added++
			continue
		}

		ok, err := target.AddFavorite(ctx, e.id)
		if err == nil && !ok {
			err = errors.New("server did not mark the tender as favorite")
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportError{
				Line:    e.line,
				Message: fmt.Sprintf("Failed to add %s: %v", e.id, err),
			})
			continue
		}
		favorites[e.id] = true
		result.Added++
	}

	return result, nil
}

// readJSON reads tender ids from the JSON export format
func readJSON(reader io.Reader, result *ImportResult) ([]entry, error) {
	var data ExportData
	if err := json.NewDecoder(reader).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	var entries []entry
	for i, t := range data.Tenders {
		if strings.TrimSpace(t.ID) == "" {
			result.Failed++
			result.Errors = append(result.Errors, ImportError{
				Line:    i + 1,
				Message: "Missing required field \"id\"",
			})
			continue
		}
		entries = append(entries, entry{line: i + 1, id: strings.TrimSpace(t.ID)})
	}
	return entries, nil
}

// readCSV reads tender ids from the CSV export format
func readCSV(reader io.Reader, result *ImportResult) ([]entry, error) {
	csvReader := csv.NewReader(reader)

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, name := range header {
		colMap[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := colMap["id"]; !ok {
		return nil, fmt.Errorf("CSV header has no \"id\" column")
	}

	var entries []entry
	lineNum := 1
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportError{
				Line:    lineNum,
				Message: fmt.Sprintf("Failed to parse CSV: %v", err),
			})
			continue
		}

		id := strings.TrimSpace(getCSVField(record, colMap, "id"))
		if id == "" {
			result.Failed++
			result.Errors = append(result.Errors, ImportError{
				Line:    lineNum,
				Message: "Missing required field \"id\"",
			})
			continue
		}
		entries = append(entries, entry{line: lineNum, id: id})
	}
	return entries, nil
}

var linkPattern = regexp.MustCompile(`<DT><A[^>]+HREF="([^"]+)"`)

// readHTML reads tender ids from the links of an HTML export
func readHTML(reader io.Reader) ([]entry, error) {
	var entries []entry

	scanner := bufio.NewScanner(reader)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		matches := linkPattern.FindStringSubmatch(scanner.Text())
		if matches == nil {
			continue
		}
		link := html.UnescapeString(matches[1])
		idx := strings.LastIndex(link, "/tenders/")
		if idx < 0 {
			continue
		}
		id, err := url.PathUnescape(link[idx+len("/tenders/"):])
		if err != nil || id == "" {
			continue
		}
		entries = append(entries, entry{line: lineNum, id: id})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read HTML: %w", err)
	}
	return entries, nil
}

// getCSVField safely retrieves a field from a CSV record
func getCSVField(record []string, colMap map[string]int, fieldName string) string {
	if idx, ok := colMap[fieldName]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}

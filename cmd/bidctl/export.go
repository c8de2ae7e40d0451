package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rodstewart/bidctl/internal/export"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tenders",
	Long: `Export search results or your favorites to JSON, HTML or CSV.

Search exports page through every result of the filters given.

Examples:
  bidctl export --sido Seoul > tenders.json
  bidctl export -f csv --status open -o open.csv
  bidctl export --source favorites -f html -o favorites.html`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportFormat  string
	exportOutput  string
	exportSource  string
	exportFilters criteriaFlags
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, html, csv")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSource, "source", export.SourceSearch, "What to export: search, favorites")
	exportFilters.register(exportCmd.Flags())
}

func runExport(cmd *cobra.Command, args []string) error {
	var write func(export.Source, io.Writer, export.ExportOptions) error
	switch exportFormat {
	case "json":
		write = func(src export.Source, w io.Writer, o export.ExportOptions) error {
			return export.ExportJSON(cmd.Context(), src, w, o)
		}
	case "html":
		write = func(src export.Source, w io.Writer, o export.ExportOptions) error {
			return export.ExportHTML(cmd.Context(), src, w, o)
		}
	case "csv":
		write = func(src export.Source, w io.Writer, o export.ExportOptions) error {
			return export.ExportCSV(cmd.Context(), src, w, o)
		}
	default:
		return fmt.Errorf("invalid export format '%s'. Valid formats: json, html, csv", exportFormat)
	}

	switch exportSource {
	case export.SourceSearch, export.SourceFavorites:
	default:
		return fmt.Errorf("invalid export source '%s'. Valid sources: search, favorites", exportSource)
	}
	if exportSource == export.SourceFavorites && exportFilters.changed(cmd.Flags()) {
		return fmt.Errorf("filter flags only apply to --source search")
	}

	criteria, err := exportFilters.criteria()
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	if exportSource == export.SourceFavorites {
		if err := a.requireLogin(); err != nil {
			return err
		}
	}

	var writer *os.File
	if exportOutput == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	options := export.ExportOptions{
		Source:   exportSource,
		Criteria: criteria,
		BaseURL:  a.cfg.URL,
	}
	if err := write(a.client, writer, options); err != nil {
		return err
	}

	if exportOutput != "" {
		fmt.Fprintf(os.Stderr, "Exported tenders to %s\n", exportOutput)
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rodstewart/bidctl/internal/export"
	"github.com/rodstewart/bidctl/internal/models"
)

var (
	importFormat string
	importDryRun bool
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage favorite tenders",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite tenders",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <id>...",
	Short: "Add tenders to favorites",
	Long: `Add one or more tenders to your favorites by management number.

Examples:
  bidctl favorites add 2024-0001-000001
  bidctl favorites add 2024-0001-000001 2024-0001-000002`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFavoritesSet(cmd, args, true)
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <id>...",
	Short: "Remove tenders from favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFavoritesSet(cmd, args, false)
	},
}

var favoritesCheckCmd = &cobra.Command{
	Use:   "check <id>",
	Short: "Check whether a tender is a favorite",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesCheck,
}

var favoritesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add favorites from an export file",
	Long: `Add every tender listed in a JSON, CSV or HTML export file to your favorites.
Tenders that already are favorites are skipped.

Examples:
  bidctl favorites import tenders.json
  bidctl favorites import tenders.csv --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runFavoritesImport,
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesCheckCmd)
	favoritesCmd.AddCommand(favoritesImportCmd)

	favoritesImportCmd.Flags().StringVarP(&importFormat, "format", "f", "auto", "Input format: json, csv, html, auto")
	favoritesImportCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would be added without adding")
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	favorites, err := a.client.ListFavorites(cmd.Context())
	if err != nil {
		return err
	}
	if favorites == nil {
		favorites = []models.Tender{}
	}

	if jsonOutput {
		return outputJSON(favorites)
	}
	if len(favorites) == 0 {
		fmt.Println("No favorites yet")
		return nil
	}
	printTenderRows(favorites, func(string) bool { return true })
	fmt.Printf("\nTotal: %d favorites\n", len(favorites))
	return nil
}

// runFavoritesSet moves every id to the wanted favorite state through the store
func runFavoritesSet(cmd *cobra.Command, args []string, favorite bool) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	tenders := a.newTenderStore()
	results := make(map[string]bool, len(args))
	for _, id := range args {
		got, err := tenders.ToggleFavorite(cmd.Context(), id, !favorite)
		if err != nil {
			return fmt.Errorf("failed to update favorite %s: %w", id, err)
		}
		results[id] = got
	}

	if jsonOutput {
		return outputJSON(results)
	}
	for _, id := range args {
		if results[id] == favorite {
			if favorite {
				fmt.Printf("✓ Added %s to favorites\n", id)
			} else {
				fmt.Printf("✓ Removed %s from favorites\n", id)
			}
			continue
		}
		printFavorite(id, results[id])
	}
	return nil
}

func runFavoritesCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	tenders := a.newTenderStore()
	favorite, err := tenders.CheckSingleFavoriteStatus(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printFavorite(args[0], favorite)
	return nil
}

func runFavoritesImport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	result, err := export.ImportFavorites(cmd.Context(), a.client, args[0], export.ImportOptions{
		Format: importFormat,
		DryRun: importDryRun,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(result)
	}

	prefix := ""
	if importDryRun {
		prefix = "Dry run: "
	}
	fmt.Printf("%sAdded: %d, Skipped: %d, Failed: %d\n", prefix, result.Added, result.Skipped, result.Failed)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "  line %d: %s\n", e.Line, e.Message)
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d entries failed to import", result.Failed)
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rodstewart/bidctl/internal/search"
	"github.com/rodstewart/bidctl/internal/store"
)

var (
	searchFilters criteriaFlags
	searchQuery   string
	searchPage    int
	searchSize    int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search tenders",
	Long: `Search tenders by name, region, price range, bid window and status.

Either give filter flags or a raw query string as it appears in a portal URL.

Examples:
  bidctl search --name apartment --sido Seoul
  bidctl search --from 2025-01-01 --to 2025-01-31 --status open --size 20
  bidctl search --query 'cltrNm=apartment&pageNo=2&numOfRows=20'`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchFilters.register(searchCmd.Flags())
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "Raw query string (cltrNm=...&pageNo=...)")
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", search.DefaultPage, "Page number")
	searchCmd.Flags().IntVarP(&searchSize, "size", "s", search.DefaultPageSize, "Results per page: 10, 20, 50 or 100")
}

// searchQueryFromFlags returns the history entry the flags describe
func searchQueryFromFlags(cmd *cobra.Command) (string, error) {
	flags := cmd.Flags()
	if searchQuery != "" {
		if searchFilters.changed(flags) || flags.Changed("page") || flags.Changed("size") {
			return "", fmt.Errorf("use either --query or filter flags, not both")
		}
		if _, err := search.ParseQuery(searchQuery); err != nil {
			return "", fmt.Errorf("invalid query: %w", err)
		}
		return searchQuery, nil
	}

	c, err := searchFilters.criteria()
	if err != nil {
		return "", err
	}
	if searchPage < 1 {
		return "", fmt.Errorf("%w: %d", search.ErrPageOutOfRange, searchPage)
	}
	if !search.IsValidPageSize(searchSize) {
		return "", fmt.Errorf("%w: %d", search.ErrInvalidPageSize, searchSize)
	}
	return c.WithPage(searchPage).WithPageSize(searchSize).Encode(), nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, err := searchQueryFromFlags(cmd)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	tenders := a.newTenderStore()
	if a.session.IsLoggedIn() {
		if err := tenders.FetchFavoriteIDs(cmd.Context()); err != nil {
			return err
		}
	}

	sync := store.NewSynchronizer(tenders, store.NewHistory(query))
	if err := sync.Start(cmd.Context()); err != nil {
		return err
	}
	defer sync.Stop()

	state := tenders.Snapshot()
	if jsonOutput {
		return outputJSON(newPageOutput(state, state.Criteria.Encode()))
	}
	printTenders(state)
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rodstewart/bidctl/internal/models"
	"github.com/rodstewart/bidctl/internal/search"
)

var tendersPage int

var tendersCmd = &cobra.Command{
	Use:   "tenders",
	Short: "Browse the tender list",
}

var tendersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tenders",
	Long: `List tenders as shown on the portal's landing page, ten per page.

Examples:
  bidctl tenders list
  bidctl tenders list --page 3 --json`,
	Args: cobra.NoArgs,
	RunE: runTendersList,
}

var tendersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a tender",
	Long: `Show the details of a tender by management number. When logged in the
favorite flag is checked as well.

Examples:
  bidctl tenders get 2024-0001-000001`,
	Args: cobra.ExactArgs(1),
	RunE: runTendersGet,
}

func init() {
	rootCmd.AddCommand(tendersCmd)
	tendersCmd.AddCommand(tendersListCmd)
	tendersCmd.AddCommand(tendersGetCmd)

	tendersListCmd.Flags().IntVarP(&tendersPage, "page", "p", search.DefaultPage, "Page number")
}

func runTendersList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if tendersPage < 1 {
		return fmt.Errorf("%w: %d", search.ErrPageOutOfRange, tendersPage)
	}

	tenders := a.newTenderStore()
	if a.session.IsLoggedIn() {
		if err := tenders.FetchFavoriteIDs(cmd.Context()); err != nil {
			return err
		}
	}
	if err := tenders.FetchTenders(cmd.Context(), tendersPage, search.HomePageRows); err != nil {
		return err
	}

	state := tenders.Snapshot()
	if jsonOutput {
		return outputJSON(newPageOutput(state, ""))
	}
	printTenders(state)
	return nil
}

type tenderOutput struct {
	*models.Tender
	IsFavorite *bool `json:"isFavorite,omitempty"`
}

func runTendersGet(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	tender, err := a.client.GetTender(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var favorite *bool
	if a.session.IsLoggedIn() {
		tenders := a.newTenderStore()
		isFav, err := tenders.CheckSingleFavoriteStatus(cmd.Context(), tender.CltrMnmtNo)
		if err != nil {
			return err
		}
		favorite = &isFav
	}

	if jsonOutput {
		return outputJSON(tenderOutput{Tender: tender, IsFavorite: favorite})
	}
	printTender(tender, favorite)
	return nil
}

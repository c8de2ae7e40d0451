package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rodstewart/bidctl/internal/models"
	"github.com/rodstewart/bidctl/internal/store"
)

var bidsCmd = &cobra.Command{
	Use:   "bids",
	Short: "Place bids and review your bid history",
}

var bidsPlaceCmd = &cobra.Command{
	Use:   "place <id> <price>",
	Short: "Place a bid on a tender",
	Long: `Place a bid on an open tender. The price must be higher than the current
minimum bid price.

Examples:
  bidctl bids place 2024-0001-000001 1500000
  bidctl bids place 2024-0001-000001 1,500,000`,
	Args: cobra.ExactArgs(2),
	RunE: runBidsPlace,
}

var bidsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your bids",
	Args:  cobra.NoArgs,
	RunE:  runBidsMine,
}

func init() {
	rootCmd.AddCommand(bidsCmd)
	bidsCmd.AddCommand(bidsPlaceCmd)
	bidsCmd.AddCommand(bidsMineCmd)
}

// parsePrice accepts digits with optional thousands separators
func parsePrice(s string) (int64, error) {
	price, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 10, 64)
	if err != nil {
		return 0, models.ErrInvalidBidPrice
	}
	return price, nil
}

func runBidsPlace(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	price, err := parsePrice(args[1])
	if err != nil {
		return err
	}

	tender, err := a.client.GetTender(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !tender.Status.Biddable() {
		return fmt.Errorf("tender %s is %s and does not accept bids", tender.CltrMnmtNo, tender.Status)
	}

	req := models.BidRequest{CltrMnmtNo: tender.CltrMnmtNo, BidPrice: price}
	if err := req.Validate(tender.MinBidPrice); err != nil {
		return err
	}

	result, err := a.client.PlaceBid(cmd.Context(), req)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(result)
	}
	msg := result.Message
	if msg == "" {
		msg = "bid placed"
	}
	fmt.Printf("✓ %s: %s on %s\n", msg, formatPrice(&result.BidPrice), tender.CltrMnmtNo)
	if p := result.MinBidPrice(); p != nil {
		fmt.Printf("  New minimum bid price: %s\n", formatPrice(p))
	}
	return nil
}

func runBidsMine(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	bids, err := store.NewMyBidsStore(a.client, a.session).FetchMyBids(cmd.Context())
	if err != nil {
		return err
	}
	if bids == nil {
		bids = []models.Bid{}
	}

	if jsonOutput {
		return outputJSON(bids)
	}
	if len(bids) == 0 {
		fmt.Println("No bids yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BID\tTENDER\tTITLE\tPRICE\tSTATUS\tTIME")
	fmt.Fprintln(w, "---\t------\t-----\t-----\t------\t----")
	for _, b := range bids {
		price := b.BidPrice
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			b.BidID,
			b.CltrMnmtNo,
			truncate(b.TenderTitle, 40),
			formatPrice(&price),
			b.TenderStatus,
			b.BidTime,
		)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d bids\n", len(bids))
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/rodstewart/bidctl/internal/models"
	"github.com/rodstewart/bidctl/internal/search"
	"github.com/rodstewart/bidctl/internal/store"
)

// pageOutput is the JSON form of a displayed result page
type pageOutput struct {
	Tenders     []models.Tender `json:"tenders"`
	TotalCount  int             `json:"totalCount"`
	CurrentPage int             `json:"currentPage"`
	PageSize    int             `json:"pageSize"`
	TotalPages  int             `json:"totalPages"`
	Query       string          `json:"query,omitempty"`
	FavoriteIDs []string        `json:"favoriteIds,omitempty"`
}

func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newPageOutput(state store.TenderState, query string) pageOutput {
	tenders := state.Tenders
	if tenders == nil {
		tenders = []models.Tender{}
	}
	return pageOutput{
		Tenders:     tenders,
		TotalCount:  state.TotalCount,
		CurrentPage: state.CurrentPage,
		PageSize:    state.PageSize,
		TotalPages:  state.TotalPages(),
		Query:       query,
		FavoriteIDs: state.FavoriteIDs,
	}
}

func formatPrice(p *int64) string {
	if p == nil {
		return "-"
	}
	s := strconv.FormatInt(*p, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

// printTenders writes the page as a table followed by the pager line
func printTenders(state store.TenderState) {
	if len(state.Tenders) == 0 {
		fmt.Println("No tenders found")
		return
	}
	printTenderRows(state.Tenders, state.IsFavorite)
	printPager(state)
}

func printTenderRows(tenders []models.Tender, isFavorite func(id string) bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "\tID\tTITLE\tORGANIZATION\tMIN BID\tSTATUS\tDEADLINE")
	fmt.Fprintln(w, "\t--\t-----\t------------\t-------\t------\t--------")

	for _, t := range tenders {
		mark := ""
		if isFavorite(t.CltrMnmtNo) {
			mark = "★"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			mark,
			t.CltrMnmtNo,
			truncate(t.Title, 40),
			truncate(t.Organization, 24),
			formatPrice(t.MinBidPrice),
			t.Status,
			t.Deadline,
		)
	}
	w.Flush()
}

// printPager shows the page buttons around the current page
func printPager(state store.TenderState) {
	totalPages := state.TotalPages()
	start, end := search.PageWindow(state.CurrentPage, totalPages)

	var buttons []string
	for p := start; p <= end; p++ {
		if p == state.CurrentPage {
			buttons = append(buttons, fmt.Sprintf("[%d]", p))
		} else {
			buttons = append(buttons, strconv.Itoa(p))
		}
	}
	fmt.Printf("\nPage %d of %d (%d tenders, %d per page)  %s\n",
		state.CurrentPage, max(1, totalPages), state.TotalCount, state.PageSize, strings.Join(buttons, " "))
}

func printTender(t *models.Tender, favorite *bool) {
	fmt.Printf("ID:           %s\n", t.CltrMnmtNo)
	fmt.Printf("Title:        %s\n", t.Title)
	fmt.Printf("Organization: %s\n", t.Organization)
	if t.BidNumber != "" {
		fmt.Printf("Bid number:   %s\n", t.BidNumber)
	}
	if t.GoodsName != "" {
		fmt.Printf("Goods:        %s\n", t.GoodsName)
	}
	fmt.Printf("Min bid:      %s\n", formatPrice(t.MinBidPrice))
	fmt.Printf("Appraisal:    %s\n", formatPrice(t.AppraisalAverage))
	fmt.Printf("Announced:    %s\n", t.AnnouncementDate)
	fmt.Printf("Deadline:     %s\n", t.Deadline)
	fmt.Printf("Status:       %s\n", t.Status)
	if favorite != nil {
		fmt.Printf("Favorite:     %t\n", *favorite)
	}
}

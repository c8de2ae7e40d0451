package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/rodstewart/bidctl/internal/search"
	"github.com/rodstewart/bidctl/internal/store"
)

var browseQuery string

const browseHelp = `Open an interactive shell over the search results. Every search, page and
page-size change is recorded so 'back' and 'forward' revisit earlier results.

Commands:
  search key=value ...   search from page 1 (cltrNm, sido, sgk, emd, goodsPriceFrom, ...)
                         quote values with spaces: cltrNm="two words"
  go <query>             open a raw query string
  page <n>, next, prev   move between pages
  size <n>               results per page: 10, 20, 50 or 100
  back, forward          revisit earlier or later results
  fav <id>               toggle a favorite
  check <id>             check whether a tender is a favorite
  show                   print the current page
  quit                   leave the shell`

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse tenders interactively",
	Long: browseHelp + `

Examples:
  bidctl browse
  bidctl browse --query 'sido=Seoul&numOfRows=20'`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringVarP(&browseQuery, "query", "q", "", "Initial query string")
}

// browser is one interactive session
type browser struct {
	ctx     context.Context
	tenders *store.TenderStore
	sync    *store.Synchronizer
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	b := &browser{ctx: cmd.Context()}
	b.tenders = a.newTenderStore()
	b.sync = store.NewSynchronizer(b.tenders, store.NewHistory(browseQuery))

	if a.session.IsLoggedIn() {
		if err := b.tenders.FetchFavoriteIDs(b.ctx); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
	if err := b.sync.Start(b.ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	defer b.sync.Stop()
	b.show()

	return b.run(os.Stdin)
}

func (b *browser) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("bidctl> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		fields, err := splitArgs(scanner.Text())
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := b.exec(fields[0], fields[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

// exec runs one shell command
func (b *browser) exec(name string, args []string) error {
	switch name {
	case "search":
		c, err := search.FromPairs(args)
		if err != nil {
			return err
		}
		return b.navigated(b.sync.Submit(c))
	case "go":
		if len(args) != 1 {
			return fmt.Errorf("usage: go <query>")
		}
		return b.navigated(b.sync.Navigate(args[0]))
	case "page":
		n, err := intArg(args, "page <n>")
		if err != nil {
			return err
		}
		return b.navigated(b.sync.ChangePage(n))
	case "next", "prev":
		page := b.tenders.Snapshot().CurrentPage + 1
		if name == "prev" {
			page -= 2
		}
		return b.navigated(b.sync.ChangePage(page))
	case "size":
		n, err := intArg(args, "size <n>")
		if err != nil {
			return err
		}
		return b.navigated(b.sync.ChangePageSize(n))
	case "back", "forward":
		move := b.sync.Back
		if name == "forward" {
			move = b.sync.Forward
		}
		moved, err := move()
		if !moved && err == nil {
			fmt.Printf("Nothing to go %s to\n", name)
			return nil
		}
		return b.navigated(err)
	case "fav":
		id, err := idArg(args, "fav <id>")
		if err != nil {
			return err
		}
		state := b.tenders.Snapshot()
		favorite, err := b.tenders.ToggleFavorite(b.ctx, id, state.IsFavorite(id))
		if err != nil {
			return err
		}
		printFavorite(id, favorite)
		return nil
	case "check":
		id, err := idArg(args, "check <id>")
		if err != nil {
			return err
		}
		favorite, err := b.tenders.CheckSingleFavoriteStatus(b.ctx, id)
		if err != nil {
			return err
		}
		printFavorite(id, favorite)
		return nil
	case "show":
		b.show()
		return nil
	case "help":
		fmt.Println(browseHelp)
		return nil
	default:
		return fmt.Errorf("unknown command %q (try 'help')", name)
	}
}

// navigated shows the page after a navigation, successful or not
func (b *browser) navigated(err error) error {
	if err != nil {
		return err
	}
	b.show()
	return nil
}

func (b *browser) show() {
	state := b.tenders.Snapshot()
	if jsonOutput {
		_ = outputJSON(newPageOutput(state, state.Criteria.Encode()))
		return
	}
	if state.Status == store.StatusFailed {
		fmt.Printf("Search failed: %s\n", state.Error)
		return
	}
	printTenders(state)
}

func printFavorite(id string, favorite bool) {
	if jsonOutput {
		_ = outputJSON(map[string]interface{}{"id": id, "isFavorite": favorite})
		return
	}
	if favorite {
		fmt.Printf("★ %s is a favorite\n", id)
	} else {
		fmt.Printf("☆ %s is not a favorite\n", id)
	}
}

func intArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	return n, nil
}

func idArg(args []string, usage string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", fmt.Errorf("usage: %s", usage)
	}
	return args[0], nil
}

// splitArgs splits a shell line on whitespace. Single or double quotes
// group text containing spaces and may start anywhere in a word, so
// cltrNm="two words" is one argument. Quotes are removed.
func splitArgs(line string) ([]string, error) {
	var (
		args   []string
		word   strings.Builder
		inWord bool
		quote  rune
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				word.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				args = append(args, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inWord {
		args = append(args, word.String())
	}
	return args, nil
}

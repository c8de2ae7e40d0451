package search

import (
	"errors"
	"fmt"
)

const (
	// DefaultPage is the page used when none is given
	DefaultPage = 1
	// DefaultPageSize is the page size used when none is given
	DefaultPageSize = 10
	// HomePageRows is the fixed page size of the landing list
	HomePageRows = 10
	// MaxPageButtons bounds the page window shown under a list
	MaxPageButtons = 10
)

// ValidPageSizes are the page sizes the search page offers
var ValidPageSizes = []int{10, 20, 50, 100}

var (
	ErrPageOutOfRange  = errors.New("page out of range")
	ErrInvalidPageSize = errors.New("page size must be one of 10, 20, 50, 100")
)

// IsValidPageSize reports whether size is one of ValidPageSizes
func IsValidPageSize(size int) bool {
	for _, s := range ValidPageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// TotalPages returns ceil(total/size), or 0 for an empty result or a
// non-positive size
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// ClampPage forces page into [1, max(1, totalPages)]
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// ValidatePage rejects pages outside [1, max(1, totalPages)]
func ValidatePage(page, totalPages int) error {
	if page < 1 || page > max(1, totalPages) {
		return fmt.Errorf("%w: %d (1-%d)", ErrPageOutOfRange, page, max(1, totalPages))
	}
	return nil
}

// PageWindow returns the first and last page buttons to show for the
// current page: at most MaxPageButtons, centered on current where possible.
// An empty result yields the single page 1.
func PageWindow(current, totalPages int) (start, end int) {
	totalPages = max(1, totalPages)
	current = ClampPage(current, totalPages)

	start = max(1, current-MaxPageButtons/2)
	end = min(totalPages, start+MaxPageButtons-1)
	if end-start+1 < MaxPageButtons {
		start = max(1, end-MaxPageButtons+1)
	}
	return start, end
}

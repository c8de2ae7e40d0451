package search

import (
	"errors"
	"testing"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{37, 20, 2},
		{100, 100, 1},
		{5, 0, 0},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestClampPage_AlwaysInRange(t *testing.T) {
	for total := 0; total <= 250; total += 7 {
		for _, size := range ValidPageSizes {
			pages := TotalPages(total, size)
			for page := -2; page <= pages+3; page++ {
				got := ClampPage(page, pages)
				if got < 1 || got > max(1, pages) {
					t.Fatalf("ClampPage(%d, %d) = %d out of range", page, pages, got)
				}
				if ValidatePage(got, pages) != nil {
					t.Fatalf("clamped page %d rejected for %d pages", got, pages)
				}
			}
		}
	}
}

func TestValidatePage(t *testing.T) {
	if err := ValidatePage(1, 0); err != nil {
		t.Errorf("expected page 1 valid for empty result, got %v", err)
	}
	if err := ValidatePage(3, 3); err != nil {
		t.Errorf("expected last page valid, got %v", err)
	}
	if err := ValidatePage(4, 3); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("expected ErrPageOutOfRange, got %v", err)
	}
	if err := ValidatePage(0, 3); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("expected ErrPageOutOfRange, got %v", err)
	}
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total     int
		wantStart, wantEnd int
	}{
		{1, 0, 1, 1},
		{1, 3, 1, 3},
		{1, 25, 1, 10},
		{8, 25, 3, 12},
		{25, 25, 16, 25},
		{22, 25, 16, 25},
		{40, 25, 16, 25},
	}

	for _, tt := range tests {
		start, end := PageWindow(tt.current, tt.total)
		if start != tt.wantStart || end != tt.wantEnd {
			t.Errorf("PageWindow(%d, %d) = %d-%d, want %d-%d", tt.current, tt.total, start, end, tt.wantStart, tt.wantEnd)
		}
		if end-start+1 > MaxPageButtons {
			t.Errorf("PageWindow(%d, %d) shows %d buttons", tt.current, tt.total, end-start+1)
		}
	}
}

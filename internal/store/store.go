// Package store holds client-side state fetched from the bid server:
// the tender list with its favorite set, the user's bids, and the
// synchronizer that drives searches from query strings.
package store

import (
	"context"
	"errors"
	"net/url"

	"github.com/rodstewart/bidctl/internal/models"
)

// Status is the lifecycle of an asynchronous store operation
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// ErrSuperseded is returned when a newer request of the same kind was
// issued before this one completed; its response was discarded.
var ErrSuperseded = errors.New("request superseded by a newer one")

// Credentials exposes the session fields stores need
type Credentials interface {
	Token() string
	UserID() string
}

// TenderAPI is the part of the bid server the tender store talks to
type TenderAPI interface {
	ListTenders(ctx context.Context, pageNo, numOfRows int) (*models.TenderPage, error)
	SearchTenders(ctx context.Context, params url.Values) (*models.TenderPage, error)
	ListFavorites(ctx context.Context) ([]models.Tender, error)
	CheckFavorite(ctx context.Context, cltrMnmtNo string) (bool, error)
	AddFavorite(ctx context.Context, cltrMnmtNo string) (bool, error)
	RemoveFavorite(ctx context.Context, cltrMnmtNo string) (bool, error)
}

// BidsAPI is the part of the bid server the bids store talks to
type BidsAPI interface {
	ListMyBids(ctx context.Context) ([]models.Bid, error)
}

package models

import (
	"errors"
	"fmt"
)

// Bid represents an entry of the user's bid history
type Bid struct {
	BidID              int64    `json:"bidId"`
	TenderID           int64    `json:"tenderId"`
	UserID             int64    `json:"userId"`
	BidPrice           int64    `json:"bidPrice"`
	BidTime            DateTime `json:"bidTime"`
	Message            string   `json:"message,omitempty"`
	UpdatedMinBidPrice *int64   `json:"updatedMinBidPrice,omitempty"`
	TenderTitle        string   `json:"tenderTitle"`
	CltrMnmtNo         string   `json:"cltrMnmtNo"`
	TenderStatus       string   `json:"tenderStatus"`
}

// BidRequest represents the request to place a bid
type BidRequest struct {
	CltrMnmtNo string `json:"cltrMnmtNo"`
	BidPrice   int64  `json:"bidPrice"`
}

// BidResult represents the server's answer to a bid placement
type BidResult struct {
	Bid
	NewMinBidPrice *int64 `json:"newMinBidPrice,omitempty"`
}

// MinBidPrice returns the new minimum bid price reported by the server, if any
func (r *BidResult) MinBidPrice() *int64 {
	if r.NewMinBidPrice != nil {
		return r.NewMinBidPrice
	}
	return r.UpdatedMinBidPrice
}

var (
	ErrInvalidBidPrice = errors.New("enter a valid bid price")
	ErrMissingTender   = errors.New("tender management number is required")
)

// Validate checks the request against the tender's current minimum bid price.
// A nil currentMin means no bid has been placed yet.
func (r BidRequest) Validate(currentMin *int64) error {
	if r.CltrMnmtNo == "" {
		return ErrMissingTender
	}
	if r.BidPrice <= 0 {
		return ErrInvalidBidPrice
	}
	if currentMin != nil && *currentMin > 0 && r.BidPrice <= *currentMin {
		return fmt.Errorf("bid price must be higher than the current minimum bid price (%d)", *currentMin)
	}
	return nil
}

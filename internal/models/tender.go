// Package models defines the data models exchanged with the bid server.
package models

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the server's wire format for timestamps
const DateTimeLayout = "2006-01-02 15:04:05"

// DateLayout is the server's wire format for bare dates
const DateLayout = "2006-01-02"

// DateTime is a timestamp encoded as "yyyy-MM-dd HH:mm:ss" (or a bare date).
// A JSON null or empty string decodes to the zero value.
type DateTime struct {
	time.Time
}

// UnmarshalJSON accepts the server's date-time and date formats as well as RFC 3339
func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{DateTimeLayout, DateLayout, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date-time %q", s)
}

// MarshalJSON writes the server's date-time format
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateTimeLayout) + `"`), nil
}

// String formats the timestamp for display, "N/A" when unset
func (d DateTime) String() string {
	if d.IsZero() {
		return "N/A"
	}
	return d.Format(DateTimeLayout)
}

// TenderStatus is the numeric lifecycle code the server derives from a tender's bid window
type TenderStatus int

const (
	StatusUnknown   TenderStatus = 0
	StatusOpen      TenderStatus = 1
	StatusScheduled TenderStatus = 2
	StatusClosed    TenderStatus = 3
)

func (s TenderStatus) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusScheduled:
		return "scheduled"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Biddable reports whether bids are accepted in this status
func (s TenderStatus) Biddable() bool {
	return s == StatusOpen
}

// ParseTenderStatus maps a status name or numeric code to a TenderStatus
func ParseTenderStatus(s string) (TenderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "open":
		return StatusOpen, nil
	case "2", "scheduled":
		return StatusScheduled, nil
	case "3", "closed":
		return StatusClosed, nil
	default:
		return StatusUnknown, fmt.Errorf("invalid status %q (use open, scheduled, closed or 1-3)", s)
	}
}

// Tender represents an auctioned item as returned by the bid server
type Tender struct {
	TenderID         int64        `json:"tenderId"`
	PbctNo           int64        `json:"pbctNo"`
	CltrHstrNo       string       `json:"cltrHstrNo"`
	CltrMnmtNo       string       `json:"cltrMnmtNo"`
	Title            string       `json:"tenderTitle"`
	Organization     string       `json:"organization"`
	BidNumber        string       `json:"bidNumber"`
	GoodsName        string       `json:"goodsName"`
	MinBidPrice      *int64       `json:"minBidPrice"`
	AppraisalAverage *int64       `json:"apslAsesAvgAmt"`
	OpenPriceFrom    *int64       `json:"openPriceFrom"`
	OpenPriceTo      *int64       `json:"openPriceTo"`
	AnnouncementDate DateTime     `json:"announcementDate"`
	Deadline         DateTime     `json:"deadline"`
	Status           TenderStatus `json:"status"`
	Active           bool         `json:"active"`
}

// TenderPage represents a paginated tender list response.
// List endpoints use either "tenders" or "items" for the rows.
type TenderPage struct {
	Tenders    []Tender `json:"tenders"`
	Items      []Tender `json:"items,omitempty"`
	TotalCount int      `json:"totalCount"`
	PageNo     int      `json:"pageNo"`
	NumOfRows  int      `json:"numOfRows"`
}

// Rows returns the tenders of the page regardless of which envelope field carried them
func (p *TenderPage) Rows() []Tender {
	if p == nil {
		return nil
	}
	if len(p.Tenders) > 0 {
		return p.Tenders
	}
	return p.Items
}

// FavoriteStatus is the body returned by the favorite endpoints
type FavoriteStatus struct {
	Success    *bool `json:"success,omitempty"`
	IsFavorite bool  `json:"isFavorite"`
}

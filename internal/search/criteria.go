package search

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query string and wire parameter names
const (
	ParamName           = "cltrNm"
	ParamDisposalMethod = "dpslMtdCd"
	ParamSido           = "sido"
	ParamSgk            = "sgk"
	ParamEmd            = "emd"
	ParamPriceFrom      = "goodsPriceFrom"
	ParamPriceTo        = "goodsPriceTo"
	ParamBeginDate      = "pbctBegnDtm"
	ParamEndDate        = "pbctClsDtm"
	ParamStatus         = "currentStatus"
	ParamPageNo         = "pageNo"
	ParamNumOfRows      = "numOfRows"
)

const (
	startOfDay = "00:00:00"
	endOfDay   = "23:59:59"
)

// Criteria is the set of optional filters plus pagination governing one
// search request. Empty filter fields are unset.
type Criteria struct {
	Name           string
	DisposalMethod string
	Sido           string
	Sgk            string
	Emd            string
	PriceFrom      string
	PriceTo        string
	BeginDate      string
	EndDate        string
	Status         string
	Page           int
	PageSize       int
}

// Normalize returns c with page and page size replaced by their defaults
// when they are out of the accepted domain
func (c Criteria) Normalize() Criteria {
	if c.Page < 1 {
		c.Page = DefaultPage
	}
	if !IsValidPageSize(c.PageSize) {
		c.PageSize = DefaultPageSize
	}
	return c
}

// Filters returns c without its pagination
func (c Criteria) Filters() Criteria {
	c.Page = 0
	c.PageSize = 0
	return c
}

// WithPage returns a copy of c positioned on page
func (c Criteria) WithPage(page int) Criteria {
	c.Page = page
	return c
}

// WithPageSize returns a copy of c using size rows per page
func (c Criteria) WithPageSize(size int) Criteria {
	c.PageSize = size
	return c
}

// Validate checks the fields a user can type freely
func (c Criteria) Validate() error {
	for _, p := range []struct{ name, value string }{
		{ParamPriceFrom, c.PriceFrom},
		{ParamPriceTo, c.PriceTo},
		{ParamStatus, c.Status},
	} {
		if p.value == "" {
			continue
		}
		if _, err := strconv.ParseInt(p.value, 10, 64); err != nil {
			return fmt.Errorf("%s must be a number, got %q", p.name, p.value)
		}
	}
	if c.PageSize != 0 && !IsValidPageSize(c.PageSize) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, c.PageSize)
	}
	return nil
}

func (c Criteria) filterValues() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			values.Set(key, value)
		}
	}
	set(ParamName, c.Name)
	set(ParamDisposalMethod, c.DisposalMethod)
	set(ParamSido, c.Sido)
	set(ParamSgk, c.Sgk)
	set(ParamEmd, c.Emd)
	set(ParamPriceFrom, c.PriceFrom)
	set(ParamPriceTo, c.PriceTo)
	set(ParamBeginDate, c.BeginDate)
	set(ParamEndDate, c.EndDate)
	set(ParamStatus, c.Status)
	return values
}

// Values returns the address-bar form of c: set filters as typed plus
// normalized pageNo and numOfRows
func (c Criteria) Values() url.Values {
	c = c.Normalize()
	values := c.filterValues()
	values.Set(ParamPageNo, strconv.Itoa(c.Page))
	values.Set(ParamNumOfRows, strconv.Itoa(c.PageSize))
	return values
}

// Encode returns the canonical query string of c. Keys are sorted, so two
// criteria are equal exactly when their encodings are.
func (c Criteria) Encode() string {
	return c.Values().Encode()
}

// WireParams returns the outbound search parameters for c. Bare dates get
// a start-of-day or end-of-day time unless a time is already present.
func (c Criteria) WireParams() url.Values {
	values := c.Values()
	if v := values.Get(ParamBeginDate); v != "" {
		values.Set(ParamBeginDate, withTime(v, startOfDay))
	}
	if v := values.Get(ParamEndDate); v != "" {
		values.Set(ParamEndDate, withTime(v, endOfDay))
	}
	return values
}

func withTime(date, clock string) string {
	if strings.Contains(date, " ") {
		return date
	}
	return date + " " + clock
}

// Parse builds criteria from query values. Absent keys stay unset; a
// missing or malformed page defaults to 1 and a missing or unsupported
// page size defaults to 10.
func Parse(values url.Values) Criteria {
	c := Criteria{
		Name:           strings.TrimSpace(values.Get(ParamName)),
		DisposalMethod: strings.TrimSpace(values.Get(ParamDisposalMethod)),
		Sido:           strings.TrimSpace(values.Get(ParamSido)),
		Sgk:            strings.TrimSpace(values.Get(ParamSgk)),
		Emd:            strings.TrimSpace(values.Get(ParamEmd)),
		PriceFrom:      strings.TrimSpace(values.Get(ParamPriceFrom)),
		PriceTo:        strings.TrimSpace(values.Get(ParamPriceTo)),
		BeginDate:      strings.TrimSpace(values.Get(ParamBeginDate)),
		EndDate:        strings.TrimSpace(values.Get(ParamEndDate)),
		Status:         strings.TrimSpace(values.Get(ParamStatus)),
	}
	c.Page, _ = strconv.Atoi(values.Get(ParamPageNo))
	c.PageSize, _ = strconv.Atoi(values.Get(ParamNumOfRows))
	return c.Normalize()
}

// ParseQuery parses a raw query string, with or without a leading "?"
func ParseQuery(raw string) (Criteria, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return Parse(values), fmt.Errorf("invalid query string: %w", err)
	}
	return Parse(values), nil
}

// FromPairs builds criteria from "key=value" arguments, as typed in the
// browse shell. Keys are the query parameter names.
func FromPairs(pairs []string) (Criteria, error) {
	values := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return Criteria{}, fmt.Errorf("invalid filter %q: expected key=value", pair)
		}
		if !knownParam(key) {
			return Criteria{}, fmt.Errorf("unknown filter %q", key)
		}
		values.Set(key, value)
	}
	return Parse(values), nil
}

func knownParam(key string) bool {
	switch key {
	case ParamName, ParamDisposalMethod, ParamSido, ParamSgk, ParamEmd,
		ParamPriceFrom, ParamPriceTo, ParamBeginDate, ParamEndDate, ParamStatus,
		ParamPageNo, ParamNumOfRows:
		return true
	}
	return false
}

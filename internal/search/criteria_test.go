package search

import (
	"errors"
	"net/url"
	"testing"
)

func TestParseQuery_Defaults(t *testing.T) {
	c, err := ParseQuery("")
	if err != nil {
		t.Fatalf("ParseQuery() failed: %v", err)
	}

	if c.Page != 1 {
		t.Errorf("expected page 1, got %d", c.Page)
	}
	if c.PageSize != 10 {
		t.Errorf("expected page size 10, got %d", c.PageSize)
	}
	if c.Filters() != (Criteria{}) {
		t.Errorf("expected no filters, got %+v", c.Filters())
	}
}

func TestParseQuery_Fields(t *testing.T) {
	c, err := ParseQuery("?cltrNm=apt&dpslMtdCd=0001&sido=Seoul&sgk=Gangnam&emd=Yeoksam&goodsPriceFrom=100&goodsPriceTo=900&pbctBegnDtm=2025-01-01&pbctClsDtm=2025-01-31&currentStatus=1&pageNo=3&numOfRows=50")
	if err != nil {
		t.Fatalf("ParseQuery() failed: %v", err)
	}

	want := Criteria{
		Name:           "apt",
		DisposalMethod: "0001",
		Sido:           "Seoul",
		Sgk:            "Gangnam",
		Emd:            "Yeoksam",
		PriceFrom:      "100",
		PriceTo:        "900",
		BeginDate:      "2025-01-01",
		EndDate:        "2025-01-31",
		Status:         "1",
		Page:           3,
		PageSize:       50,
	}
	if c != want {
		t.Errorf("ParseQuery() = %+v, want %+v", c, want)
	}
}

func TestParseQuery_InvalidPagination(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"pageNo=abc&numOfRows=xyz", 1, 10},
		{"pageNo=0&numOfRows=15", 1, 10},
		{"pageNo=-4&numOfRows=100", 1, 100},
		{"pageNo=9", 9, 10},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, err := ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery() failed: %v", err)
			}
			if c.Page != tt.page || c.PageSize != tt.pageSize {
				t.Errorf("expected page %d size %d, got page %d size %d", tt.page, tt.pageSize, c.Page, c.PageSize)
			}
		})
	}
}

func TestCriteria_RoundTrip(t *testing.T) {
	tests := []Criteria{
		{},
		{Name: "land", Page: 2, PageSize: 20},
		{Sido: "Busan", Sgk: "Haeundae", PriceFrom: "5000", Status: "2", Page: 1, PageSize: 100},
		{BeginDate: "2025-01-01 09:00:00", EndDate: "2025-01-31", Page: 4, PageSize: 50},
		{Name: "a&b=c d", Emd: "동", Page: 1, PageSize: 10},
	}

	for _, original := range tests {
		parsed, err := ParseQuery(original.Encode())
		if err != nil {
			t.Fatalf("ParseQuery(%q) failed: %v", original.Encode(), err)
		}
		if parsed != original.Normalize() {
			t.Errorf("round trip of %+v gave %+v", original, parsed)
		}
		if parsed.Encode() != original.Encode() {
			t.Errorf("expected stable encoding, got %q and %q", parsed.Encode(), original.Encode())
		}
	}
}

func TestEncode_Canonical(t *testing.T) {
	a, _ := ParseQuery("sido=Seoul&cltrNm=apt&numOfRows=20&pageNo=2")
	b, _ := ParseQuery("pageNo=2&numOfRows=20&cltrNm=apt&sido=Seoul&emd=")

	if a.Encode() != b.Encode() {
		t.Errorf("expected equal encodings, got %q and %q", a.Encode(), b.Encode())
	}

	want := "cltrNm=apt&numOfRows=20&pageNo=2&sido=Seoul"
	if a.Encode() != want {
		t.Errorf("expected %q, got %q", want, a.Encode())
	}
}

func TestWireParams_DateDefaulting(t *testing.T) {
	tests := []struct {
		name      string
		criteria  Criteria
		wantBegin string
		wantEnd   string
	}{
		{"begin date only", Criteria{BeginDate: "2025-01-01"}, "2025-01-01 00:00:00", ""},
		{"end date only", Criteria{EndDate: "2025-01-31"}, "", "2025-01-31 23:59:59"},
		{"time already present", Criteria{BeginDate: "2025-01-01 12:30:00", EndDate: "2025-01-31 18:00:00"}, "2025-01-01 12:30:00", "2025-01-31 18:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.criteria.WireParams()
			if got := params.Get(ParamBeginDate); got != tt.wantBegin {
				t.Errorf("expected %s '%s', got '%s'", ParamBeginDate, tt.wantBegin, got)
			}
			if got := params.Get(ParamEndDate); got != tt.wantEnd {
				t.Errorf("expected %s '%s', got '%s'", ParamEndDate, tt.wantEnd, got)
			}
			if params.Get(ParamPageNo) != "1" || params.Get(ParamNumOfRows) != "10" {
				t.Errorf("expected default pagination, got %v", params)
			}
		})
	}
}

func TestWireParams_AddressBarUnchanged(t *testing.T) {
	c := Criteria{BeginDate: "2025-01-01"}

	if got := c.Values().Get(ParamBeginDate); got != "2025-01-01" {
		t.Errorf("expected address-bar date as typed, got '%s'", got)
	}
	if got := c.WireParams().Get(ParamBeginDate); got != "2025-01-01 00:00:00" {
		t.Errorf("expected suffixed wire date, got '%s'", got)
	}
}

func TestFromPairs(t *testing.T) {
	c, err := FromPairs([]string{"cltrNm=apt", "numOfRows=20", "goodsPriceTo=9000"})
	if err != nil {
		t.Fatalf("FromPairs() failed: %v", err)
	}
	if c.Name != "apt" || c.PageSize != 20 || c.PriceTo != "9000" {
		t.Errorf("unexpected criteria: %+v", c)
	}

	if _, err := FromPairs([]string{"nope"}); err == nil {
		t.Error("expected error for pair without '='")
	}
	if _, err := FromPairs([]string{"color=red"}); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestValidate(t *testing.T) {
	if err := (Criteria{PriceFrom: "100", Status: "3", PageSize: 50}).Validate(); err != nil {
		t.Errorf("expected valid criteria, got %v", err)
	}
	if err := (Criteria{PriceFrom: "cheap"}).Validate(); err == nil {
		t.Error("expected error for non-numeric price")
	}
	if err := (Criteria{PageSize: 30}).Validate(); !errors.Is(err, ErrInvalidPageSize) {
		t.Errorf("expected ErrInvalidPageSize, got %v", err)
	}
}

func TestParse_IgnoresUnknownKeys(t *testing.T) {
	c := Parse(url.Values{"utm_source": {"mail"}, "sido": {"Seoul"}})
	if c.Sido != "Seoul" {
		t.Errorf("expected sido 'Seoul', got '%s'", c.Sido)
	}
	if c.Encode() != "numOfRows=10&pageNo=1&sido=Seoul" {
		t.Errorf("unexpected encoding %q", c.Encode())
	}
}

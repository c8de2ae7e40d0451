package main

import (
	"strconv"

	"github.com/spf13/pflag"

	"github.com/rodstewart/bidctl/internal/models"
	"github.com/rodstewart/bidctl/internal/search"
)

// criteriaFlags are the search filters shared by search and export
type criteriaFlags struct {
	name      string
	method    string
	sido      string
	sgk       string
	emd       string
	priceFrom string
	priceTo   string
	from      string
	to        string
	status    string
}

func (f *criteriaFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.name, "name", "n", "", "Match tenders whose name contains this text")
	fs.StringVar(&f.method, "method", "", "Disposal method code")
	fs.StringVar(&f.sido, "sido", "", "Province")
	fs.StringVar(&f.sgk, "sgk", "", "City or district")
	fs.StringVar(&f.emd, "emd", "", "Town")
	fs.StringVar(&f.priceFrom, "price-from", "", "Minimum price")
	fs.StringVar(&f.priceTo, "price-to", "", "Maximum price")
	fs.StringVar(&f.from, "from", "", "Bid window start date (YYYY-MM-DD)")
	fs.StringVar(&f.to, "to", "", "Bid window end date (YYYY-MM-DD)")
	fs.StringVar(&f.status, "status", "", "Tender status: open, scheduled, closed or 1-3")
}

// changed reports whether any filter flag was given on the command line
func (f *criteriaFlags) changed(fs *pflag.FlagSet) bool {
	for _, name := range []string{"name", "method", "sido", "sgk", "emd", "price-from", "price-to", "from", "to", "status"} {
		if fs.Changed(name) {
			return true
		}
	}
	return false
}

// criteria converts the flags, mapping status names to their numeric codes
func (f *criteriaFlags) criteria() (search.Criteria, error) {
	c := search.Criteria{
		Name:           f.name,
		DisposalMethod: f.method,
		Sido:           f.sido,
		Sgk:            f.sgk,
		Emd:            f.emd,
		PriceFrom:      f.priceFrom,
		PriceTo:        f.priceTo,
		BeginDate:      f.from,
		EndDate:        f.to,
	}
	if f.status != "" {
		status, err := models.ParseTenderStatus(f.status)
		if err != nil {
			return c, err
		}
		c.Status = strconv.Itoa(int(status))
	}
	return c, c.Validate()
}

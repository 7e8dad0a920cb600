package shipping

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"
)

// RateType selects which carrier rate service a quote comes from.
type RateType string

const (
	Domestic      RateType = "domestic"
	International RateType = "international"
)

// RateOption is an add-on service (insurance, tracking, signature...)
// priced separately from the base rate.
type RateOption struct {
	Name  string
	Price float64
	ID    string
}

func ParseRateOption(name, price, id string) (RateOption, error) {
	p, err := ParsePrice(price)
	if err != nil {
		return RateOption{}, errors.Wrapf(err, "rate option %q", name)
	}
	return RateOption{Name: html.UnescapeString(name), Price: p, ID: id}, nil
}

// RateCalculation is the price of shipping Package with one service method.
type RateCalculation struct {
	Package *Package
	Price   float64
	Method  string
	Type    RateType
	Options []RateOption
}

// NewRateCalculation builds a rate from a numeric price. Method may carry
// HTML entities escaped by the carrier; they are unescaped.
func NewRateCalculation(pkg *Package, price float64, method string, rateType RateType) *RateCalculation {
	if rateType == "" {
		rateType = Domestic
	}
	return &RateCalculation{
		Package: pkg,
		Price:   price,
		Method:  html.UnescapeString(method),
		Type:    rateType,
	}
}

// ParseRateCalculation is NewRateCalculation for a price given as text.
func ParseRateCalculation(pkg *Package, price, method string, rateType RateType) (*RateCalculation, error) {
	p, err := ParsePrice(price)
	if err != nil {
		return nil, errors.Wrapf(err, "rate for %q", method)
	}
	return NewRateCalculation(pkg, p, method, rateType), nil
}

func (r *RateCalculation) AddOptions(options ...RateOption) {
	if len(options) == 0 {
		return
	}
	r.Options = append(r.Options, options...)
}

// Total is the base price plus the named options, summed as exact currency
// amounts. Unknown names are ignored.
func (r *RateCalculation) Total(optionNames ...string) decimal.Decimal {
	total := decimal.NewFromFloat(r.Price)
	for _, name := range optionNames {
		for _, opt := range r.Options {
			if strings.EqualFold(opt.Name, name) {
				total = total.Add(decimal.NewFromFloat(opt.Price))
				break
			}
		}
	}
	return total
}

// ParsePrice parses a carrier price. Non-numeric text is an error, never a
// zero price.
func ParsePrice(text string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse price")
	}
	return p, nil
}

// RateCalculationResponse lists the rates a carrier quoted. A requested
// method missing from the list could not be used for the package.
type RateCalculationResponse struct {
	Rates []*RateCalculation
}

func NewRateCalculationResponse(rates ...*RateCalculation) *RateCalculationResponse {
	r := &RateCalculationResponse{}
	r.Add(rates...)
	return r
}

func (r *RateCalculationResponse) Add(rates ...*RateCalculation) {
	if len(rates) == 0 {
		return
	}
	r.Rates = append(r.Rates, rates...)
}

// Cheapest returns the lowest priced rate, the earliest one on ties, or nil
// when there are no rates.
func (r *RateCalculationResponse) Cheapest() *RateCalculation {
	var cheapest *RateCalculation
	for _, rate := range r.Rates {
		if cheapest == nil || rate.Price < cheapest.Price {
			cheapest = rate
		}
	}
	return cheapest
}

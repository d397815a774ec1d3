package money

import (
	"errors"
	"fmt"
	"strings"
)

// Currency is an ISO 4217 code from the closed set of supported invoice currencies.
type Currency string

const (
	INR Currency = "INR"
	USD Currency = "USD"
	GBP Currency = "GBP"
	AUD Currency = "AUD"
)

// DefaultCurrency is used when a record carries no currency code.
const DefaultCurrency = INR

// ErrUnsupportedCurrency is returned when a code is outside the supported set.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Currencies lists every supported currency in display order.
var Currencies = []Currency{INR, USD, GBP, AUD}

// ParseCurrency normalizes a currency code. An empty code resolves to DefaultCurrency.
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency, nil
	}
	for _, c := range Currencies {
		if string(c) == code {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
}

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	for _, v := range Currencies {
		if c == v {
			return true
		}
	}
	return false
}

// Symbol returns the display symbol. Anything that is not USD, GBP or AUD renders as rupees.
func (c Currency) Symbol() string {
	switch c {
	case USD:
		return "$"
	case GBP:
		return "£"
	case AUD:
		return "A$"
	default:
		return "₹"
	}
}

func (c Currency) String() string {
	return string(c)
}

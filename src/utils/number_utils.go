package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Order matters: "Rs." must be removed before "Rs".
var amountReplacer = strings.NewReplacer(
	",", "",
	" ", "",
	"₹", "",
	"INR", "",
	"Rs.", "",
	"Rs", "",
	"%", "",
)

// ParseAmount converts extracted money text to a decimal. Currency symbols,
// thousands separators and the trailing "/-" seen on Indian invoices are
// tolerated; anything unparseable becomes zero rather than an error.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "/-")
	s = amountReplacer.Replace(s)
	if s == "" || s == "-" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseRate parses a tax rate like "18", "18%" or "18.00 %".
func ParseRate(s string) decimal.Decimal {
	return ParseAmount(s)
}

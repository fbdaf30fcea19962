// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts typed by users
// and formatting exact decimal values for display.
package core

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const currencySymbol = "R$"

// ParseAmount converts a user typed amount into an exact decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and keeps
// every fractional digit; nothing is rounded. Negative values are rejected
// because the sign of an entry comes from its type.
//
// Examples:
//   ParseAmount("12.34")  -> 12.34, nil
//   ParseAmount("12,345") -> 12.345, nil
//   ParseAmount("-1")     -> 0, ErrNegativeAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// FormatCurrency renders d with the R$#,##0.00 pattern, e.g. "R$1,234.50"
// or "-R$50.00". Rounding to cents is half-even.
func FormatCurrency(d decimal.Decimal) string {
	rounded := d.RoundBank(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	fixed := rounded.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	return sign + currencySymbol + groupThousands(intPart) + "." + fracPart
}

func groupThousands(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return humanize.Comma(n)
	}
	// Beyond int64: group by hand.
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

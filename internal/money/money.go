package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is the storefront currency symbol
const Symbol = "€"

// FromMinor converts minor units (cents) to a decimal amount
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// Format renders minor units in the storefront's German locale style, e.g. 123456 -> "€1.234,56".
// Negative amounts keep the sign after the symbol.
func Format(minor int64) string {
	fixed := FromMinor(minor).StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	return Symbol + sign + group(whole) + "," + frac
}

// group inserts thousands separators into a string of digits
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

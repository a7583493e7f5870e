package normalizer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency markers stripped before numeric parsing. Multi-rune markers come
// first so "R$" is not left half-stripped by "$".
var currencyMarkers = []string{"R$", "US$", "USD", "EUR", "GBP", "ZAR", "$", "€", "£"}

var centsFactor = decimal.NewFromInt(100)

// A trailing comma group of fewer than three digits is a decimal comma
// ("99,90"), not a thousands separator. Stripping it would silently scale
// the value a hundredfold, so such input is rejected as unparseable.
var decimalCommaPattern = regexp.MustCompile(`,\d{1,2}$`)

// Cents converts a bill or budget cell from dollars to integer cents,
// rounding half away from zero. ok is false for empty or unparseable input:
// zero and "could not parse" must stay distinguishable downstream.
func Cents(raw string) (int64, bool) {
	d, ok := parseAmount(raw)
	if !ok {
		return 0, false
	}
	return d.Mul(centsFactor).Round(0).IntPart(), true
}

// Magnitude converts a cash-flow cell to its plain numeric value, kept at
// the sheet's own scale. An empty cell is zero and ok: on a dated grid,
// absence of a value means no transaction, not an error. Non-numeric text is
// not ok so the caller can surface it as a row warning instead of coercing
// it to zero.
func Magnitude(raw string) (decimal.Decimal, bool) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, true
	}
	return parseAmount(raw)
}

// parseAmount strips locale formatting and accounting notation from a cell
// and parses what remains as a decimal number.
func parseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, false
	}

	// Accounting notation: a parenthesized value is a negative magnitude.
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	for _, marker := range currencyMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	s = strings.TrimSpace(s)
	if decimalCommaPattern.MatchString(s) {
		return decimal.Decimal{}, false
	}
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

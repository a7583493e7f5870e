// Package normalizer converts raw spreadsheet cell values into typed field
// values. Converters are pure and total: they return a zero value plus an ok
// flag (or an empty string) instead of errors, so callers can fold failures
// into row-level diagnostics without aborting a parse.
package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Spreadsheet date serials count days from this epoch (the 1900 date system
// with the Lotus leap-year bug folded in).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serial values outside this window are treated as ordinary numbers when a
// caller opts into window checking. The window spans roughly 1999-2064, wide
// enough for any real planning sheet and narrow enough that amounts in the
// hundreds or low thousands never masquerade as dates.
const (
	SerialWindowLow  = 40000
	SerialWindowHigh = 60000
)

const isoLayout = "2006-01-02"

var (
	isoPattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4}|\d{2})$`)
)

// fallbackLayouts are tried in order when a value matches none of the
// explicit rules.
var fallbackLayouts = []string{
	"2006/01/02",
	"01-02-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
}

// ISODate normalizes a raw cell value to an ISO YYYY-MM-DD string. It
// returns "" for empty or unrecognizable input and never panics. Numeric
// input is read as a spreadsheet date serial with no window restriction.
func ISODate(raw string) string {
	return isoDate(raw, 0, 0)
}

// ISODateSerialWindow is ISODate with serial bounds: numeric values outside
// [lo, hi] are rejected. Multi-date-column sheets use this so that ordinary
// numeric data in a header row is not misread as a date.
func ISODateSerialWindow(raw string, lo, hi float64) string {
	return isoDate(raw, lo, hi)
}

func isoDate(raw string, lo, hi float64) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if lo != 0 || hi != 0 {
			if serial < lo || serial > hi {
				return ""
			}
		}
		days := int(serial)
		if days <= 0 {
			return ""
		}
		return serialEpoch.AddDate(0, 0, days).Format(isoLayout)
	}

	if isoPattern.MatchString(s) {
		if _, err := time.Parse(isoLayout, s); err != nil {
			return ""
		}
		return s
	}

	if m := slashPattern.FindStringSubmatch(s); m != nil {
		return isoFromSlash(m[1], m[2], m[3])
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoLayout)
		}
	}
	return ""
}

// isoFromSlash normalizes M/D/YYYY and M/D/YY. Two-digit years above 50 read
// as 19xx, the rest as 20xx.
func isoFromSlash(monthStr, dayStr, yearStr string) string {
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)
	year, _ := strconv.Atoi(yearStr)
	if len(yearStr) == 2 {
		if year > 50 {
			year += 1900
		} else {
			year += 2000
		}
	}

	candidate := fmt.Sprintf("%d/%d/%d", month, day, year)
	if _, err := time.Parse("1/2/2006", candidate); err != nil {
		return ""
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format(isoLayout)
}

package value

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ISOLayout is the canonical timestamp rendering of normalized dates.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// timeLayouts are tried in order. Layouts without a zone parse as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05Z07:00",
	"01/02/2006",
	"02/01/2006",
	"02.01.2006",
	"02.01.2006 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.ANSIC,
}

// Normalize converts a string-encoded scalar into its typed form.
// Non-strings pass through unchanged. For strings, first match wins:
// "true"/"false" (any case), a decimal numeric literal, a date/time
// (rendered as ISOLayout in UTC). Anything else is returned as is.
func Normalize(v Value) Value {
	s, ok := v.AsString()
	if !ok {
		return v
	}

	switch strings.ToLower(s) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}

	if n, ok := ParseNumber(s); ok {
		return Number(n)
	}

	if t, ok := ParseTime(s); ok {
		return String(t.UTC().Format(ISOLayout))
	}

	return v
}

// ParseNumber parses a finite decimal literal, ignoring surrounding whitespace.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// ParseTime parses s against the supported date/time layouts.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName maps a display name to a camel-case identifier,
// e.g. "Available Bike-Stands" -> "availableBikeStands",
// "Harvest Time (UTC)" -> "harvestTimeUtc".
func NormalizeName(display string) string {
	words := splitWords(deburr(strings.NewReplacer("'", "", "’", "").Replace(display)))
	if len(words) == 0 {
		return ""
	}

	// Casers are stateful, so each call gets its own.
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)

	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(lower.String(w))
			continue
		}
		b.WriteString(title.String(w))
	}
	return b.String()
}

// deburr strips combining marks: "Café" -> "Cafe".
func deburr(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// splitWords splits on non-alphanumerics, lower->upper transitions,
// the end of an acronym ("XMLHttp" -> "XML", "Http") and letter/digit edges.
func splitWords(s string) []string {
	rs := []rune(s)
	var words []string
	start := -1

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(rs[start:end]))
		}
		start = -1
	}

	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}

		prev := rs[i-1]
		acronymEnd := unicode.IsUpper(prev) && unicode.IsUpper(r) &&
			i+1 < len(rs) && unicode.IsLower(rs[i+1])
		if unicode.IsDigit(r) != unicode.IsDigit(prev) ||
			(unicode.IsLower(prev) && unicode.IsUpper(r)) ||
			acronymEnd {
			flush(i)
			start = i
		}
	}
	flush(len(rs))

	return words
}

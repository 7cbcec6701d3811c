// Package price turns raw price text scraped from storefront pages into
// bounded, validated numeric values, and carries the exclusion heuristics
// that separate a current price from promotional noise.
package price

import (
	"regexp"
	"strconv"
	"strings"
)

// Prices outside this range are never accepted, no matter how confidently
// the markup presented them.
const (
	MinValid = 0.01
	MaxValid = 999.99
)

// patterns is the prioritized ladder of price formats. Most specific first:
// a currency-prefixed amount with cents beats a bare integer that could be a
// pack size. First match wins; a match outside the valid range falls through
// to the next pattern rather than failing the whole text.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\$(\d+\.\d{2})`),      // $12.34
	regexp.MustCompile(`\$(\d+)`),             // $12
	regexp.MustCompile(`(\d+\.\d{2})\s*\$`),   // 12.34 $
	regexp.MustCompile(`(\d+)\s*\$`),          // 12 $
	regexp.MustCompile(`AUD\s*(\d+\.\d{2})`),  // AUD 12.34
	regexp.MustCompile(`AUD\s*(\d+)`),         // AUD 12
	regexp.MustCompile(`(\d+\.\d{2})`),        // 12.34
	regexp.MustCompile(`(\d+)`),               // 12
}

var numberRe = regexp.MustCompile(`\d+\.?\d*`)

// Normalize parses free-form price text into a validated numeric value.
// It reports false when no admissible number is found. Keyword exclusion
// ("was", "save", ...) is deliberately NOT applied here: that is candidate
// selection, an adapter-level concern (see Candidate).
func Normalize(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}

	cleaned := collapseWhitespace(text)

	for _, re := range patterns {
		m := re.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if InRange(v) {
			return v, true
		}
	}

	// No pattern produced an in-range value. Some storefront markup carries
	// no currency symbol at all, so fall back to scanning every numeric
	// substring and take the first admissible one.
	for _, numStr := range numberRe.FindAllString(cleaned, -1) {
		v, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			continue
		}
		if InRange(v) {
			return v, true
		}
	}

	return 0, false
}

// InRange reports whether v is an admissible retail price.
func InRange(v float64) bool {
	return v >= MinValid && v <= MaxValid
}

// Format renders a price as its canonical decimal string ("12.34").
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

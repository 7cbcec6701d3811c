package price

import "strings"

// promoKeywords mark text that quotes a price without being the current
// price: savings callouts, crossed-out originals, recommended retail.
var promoKeywords = []string{"save", "off", "discount", "was", "rrp", "usual"}

// Candidate is raw text located by an extraction strategy, together with
// enough element context (class and inline style) to apply exclusion
// heuristics before the text is trusted as the current price.
type Candidate struct {
	Text  string
	Class string
	Style string
}

// Promotional reports whether the candidate text quotes a promotional or
// historical price rather than the current one.
func (c Candidate) Promotional() bool {
	lower := strings.ToLower(c.Text)
	for _, kw := range promoKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Strikethrough reports whether the element is styled or classed as a
// crossed-out original price.
func (c Candidate) Strikethrough() bool {
	if strings.Contains(strings.ToLower(c.Style), "line-through") {
		return true
	}
	class := strings.ToLower(c.Class)
	return strings.Contains(class, "strike") ||
		strings.Contains(class, "was") ||
		strings.Contains(class, "save")
}

// PerUnit reports whether the text is a unit price ("$1.20 / 100g") rather
// than the item price.
func (c Candidate) PerUnit() bool {
	if strings.Contains(c.Text, "/") {
		return true
	}
	return strings.Contains(strings.ToLower(c.Text), "per")
}

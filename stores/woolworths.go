package stores

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shelfwatch/shelfwatch/models"
	"github.com/shelfwatch/shelfwatch/price"
)

// wooliesLeadSelectors target the element currently holding the lead
// (current/sale) price on Woolworths product pages.
var wooliesLeadSelectors = []string{
	`.product-price_component_price-lead__vlm8f`,
	`div.product-price_component_price-lead__vlm8f`,
	`div[class*="price-lead"]`,
	`div[class*="product-price_component_price-lead"]`,
}

// wooliesPatternSelectors are class/attribute-pattern fallbacks. The :not()
// chains drop strikethrough-styled and was/save-flagged elements up front;
// the Candidate heuristics re-check what the selector can't express.
var wooliesPatternSelectors = []string{
	`div[class*="product-price_component_price-container"] div[class*="price-lead"]`,
	`div[class*="price-container"] div[class*="price-lead"]`,
	`div[data-testid="price-unit"] span:not([style*="line-through"])`,
	`div[class*="ProductPrice"] span:not([class*="save"]):not([class*="was"])`,
	`span[class*="current"]:not([class*="was"]):not([class*="save"]):not([style*="line-through"])`,
	`span[class*="price"]:not([style*="line-through"]):not([class*="was"]):not([class*="save"])`,
}

var wooliesFallbackSelectors = []string{
	`span[class*="price"]:not([class*="was"]):not([class*="strike"])`,
	`.product-price_component_price-lead__vlm8f`,
}

// wooliesEmbeddedPatterns prioritize sale/current price fields in embedded
// page data over the generic price field, which may be the pre-sale price.
var wooliesEmbeddedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"salePrice":\s*"?\$?(\d+\.?\d*)"?`),
	regexp.MustCompile(`"currentPrice":\s*"?\$?(\d+\.?\d*)"?`),
	regexp.MustCompile(`"price":\s*"?\$?(\d+\.?\d*)"?`),
	regexp.MustCompile(`"displayPrice":\s*"?\$?(\d+\.?\d*)"?`),
}

// Price bands observed for the tracked product set. The narrow band brackets
// current sale prices; the wide band bounds any believable current price.
// Inherited heuristic: assumes the sale price is below the crossed-out
// original, which holds on every sampled page but is not guaranteed.
const (
	wooliesBandMin = 1.50
	wooliesBandMax = 6.00
	wooliesSaleMin = 2.00
	wooliesSaleMax = 3.50
)

const (
	wooliesLeadMaxLen      = 20
	wooliesCandidateMaxLen = 30
)

var woolworthsAdapter Adapter = &siteAdapter{
	store: models.StoreWoolworths,
	profile: Profile{
		UserAgent:      "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0",
		Locale:         "en-AU",
		Timezone:       "Australia/Sydney",
		ViewportWidth:  1366,
		ViewportHeight: 768,
		Headers: map[string]string{
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
			"Accept-Language":           "en-AU,en-US;q=0.8,en;q=0.6",
			"Upgrade-Insecure-Requests": "1",
			"Sec-Fetch-Dest":            "document",
			"Sec-Fetch-Mode":            "navigate",
			"Sec-Fetch-Site":            "none",
			"Cache-Control":             "no-cache, no-store, must-revalidate",
			"Pragma":                    "no-cache",
		},
	},
	modal: dismissPlan{closeButton: true, escape: true},
	strategies: []Strategy{
		{Name: "lead-price", Probe: wooliesLeadPrice},
		{Name: "pattern-selectors", Probe: wooliesPatterns},
		{Name: "lowest-candidate", Probe: wooliesLowestCandidate},
		{Name: "embedded-data", Probe: wooliesEmbeddedData},
		{Name: "fallback-selectors", Probe: wooliesFallback},
	},
}

// wooliesLeadPrice tries the known-good lead-price selector, rejecting unit
// prices and promotional text and validating against the sale band.
func wooliesLeadPrice(sess Session) (string, bool) {
	for _, sel := range wooliesLeadSelectors {
		for _, el := range sess.Elements(sel) {
			text := strings.TrimSpace(el.Text)
			if text == "" || !strings.Contains(text, "$") || len(text) >= wooliesLeadMaxLen {
				continue
			}
			c := price.Candidate{Text: text, Class: el.Class, Style: el.Style}
			if c.PerUnit() || c.Promotional() {
				continue
			}
			if v, ok := extractCurrency(text); ok && inWooliesBand(v) {
				return text, true
			}
		}
	}
	return "", false
}

// wooliesPatterns broadens to class/attribute-pattern selectors, including
// the screen-reader price announcement ("Price $2.40"), still excluding
// struck-out and promotional elements.
func wooliesPatterns(sess Session) (string, bool) {
	for _, el := range sess.Elements(`div.sr-only`) {
		text := strings.TrimSpace(el.Text)
		if !strings.Contains(text, "Price $") {
			continue
		}
		c := price.Candidate{Text: text, Class: el.Class, Style: el.Style}
		if c.PerUnit() || c.Promotional() {
			continue
		}
		if v, ok := extractCurrency(text); ok && inWooliesBand(v) {
			return "$" + price.Format(v), true
		}
	}

	for _, sel := range wooliesPatternSelectors {
		for _, el := range sess.Elements(sel) {
			text := strings.TrimSpace(el.Text)
			if text == "" || !strings.Contains(text, "$") || len(text) >= wooliesCandidateMaxLen {
				continue
			}
			c := price.Candidate{Text: text, Class: el.Class, Style: el.Style}
			if c.PerUnit() || c.Promotional() || c.Strikethrough() {
				continue
			}
			if v, ok := extractCurrency(text); ok && inWooliesBand(v) {
				return text, true
			}
		}
	}
	return "", false
}

// wooliesLowestCandidate sweeps every span in the rendered markup, keeps the
// plausible non-promotional candidates inside the sale band, and picks the
// lowest: when both the sale price and the crossed-out original survive the
// filters, the sale price is the smaller of the two.
func wooliesLowestCandidate(sess Session) (string, bool) {
	doc := markupDoc(sess)
	if doc == nil {
		return "", false
	}

	lowest := 0.0
	found := false
	doc.Find("span").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" || !strings.Contains(text, "$") {
			return
		}
		c := price.Candidate{
			Text:  text,
			Class: sel.AttrOr("class", ""),
			Style: sel.AttrOr("style", ""),
		}
		if c.PerUnit() || c.Promotional() || c.Strikethrough() {
			return
		}
		v, ok := extractCurrency(text)
		if !ok || v < wooliesSaleMin || v > wooliesSaleMax {
			return
		}
		if !found || v < lowest {
			lowest = v
			found = true
		}
	})

	if !found {
		return "", false
	}
	return "$" + price.Format(lowest), true
}

func wooliesEmbeddedData(sess Session) (string, bool) {
	html := sess.HTML()
	if html == "" {
		return "", false
	}
	for _, re := range wooliesEmbeddedPatterns {
		for _, m := range re.FindAllStringSubmatch(html, -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if inWooliesBand(v) {
				return "$" + price.Format(v), true
			}
		}
	}
	return "", false
}

func wooliesFallback(sess Session) (string, bool) {
	for _, sel := range wooliesFallbackSelectors {
		for _, el := range sess.Elements(sel) {
			text := strings.TrimSpace(el.Text)
			if text == "" || !strings.Contains(text, "$") {
				continue
			}
			c := price.Candidate{Text: text, Class: el.Class, Style: el.Style}
			if c.PerUnit() {
				continue
			}
			if v, ok := extractCurrency(text); ok && inWooliesBand(v) {
				return text, true
			}
		}
	}
	return "", false
}

func extractCurrency(text string) (float64, bool) {
	m := currencyRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func inWooliesBand(v float64) bool {
	return v >= wooliesBandMin && v <= wooliesBandMax
}

package stores

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shelfwatch/shelfwatch/models"
	"github.com/shelfwatch/shelfwatch/price"
)

// colesModernSelectors are the price-attribute markers on the current Coles
// product page, most specific first.
var colesModernSelectors = []string{
	`[data-testid="price-unit"]`,
	`[data-testid="product-price"]`,
	`[data-testid="price"]`,
	`span[data-testid*="price"]`,
	`div[data-testid*="price"]`,
	`[class*="Price"]`,
	`[class*="price"]`,
	`span[class*="Price"]`,
	`span[class*="price"]`,
}

// colesLegacySelectors are positional selectors from older page revisions,
// kept as a last resort.
var colesLegacySelectors = []string{
	`section.sc-958d17d5-0:nth-child(3) > div:nth-child(1) > span:nth-child(1)`,
	`.price-section span`,
	`.product-price span`,
}

// colesEmbeddedPatterns match the JSON price structures Coles embeds in its
// page payloads, most specific field names first.
var colesEmbeddedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)"price"[^}]*?"value":\s*"?(\d+\.?\d*)"?`),
	regexp.MustCompile(`(?i)"unitPrice"[^}]*?"value":\s*"?(\d+\.?\d*)"?`),
	regexp.MustCompile(`(?i)"displayPrice":\s*"?\$?(\d+\.?\d*)"?`),
	regexp.MustCompile(`(?i)"currentPrice":\s*"?\$?(\d+\.?\d*)"?`),
	regexp.MustCompile(`(?i)"pricing"[^}]*?"price":\s*"?\$?(\d+\.?\d*)"?`),
}

// Broad sanity range for embedded-data matches: wide enough for any grocery
// item, tight enough to reject product IDs and quantities.
const (
	colesEmbeddedMin = 0.50
	colesEmbeddedMax = 200
)

const colesCandidateMaxLen = 50

var colesAdapter Adapter = &siteAdapter{
	store:     models.StoreColes,
	warmupURL: "https://www.coles.com.au",
	profile: Profile{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Locale:         "en-AU",
		Timezone:       "Australia/Sydney",
		ViewportWidth:  1366,
		ViewportHeight: 768,
		Headers: map[string]string{
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8",
			"Accept-Language":           "en-AU,en-US;q=0.9,en;q=0.8",
			"Upgrade-Insecure-Requests": "1",
			"Sec-Fetch-Dest":            "document",
			"Sec-Fetch-Mode":            "navigate",
			"Sec-Fetch-Site":            "none",
			"Cache-Control":             "no-cache",
		},
	},
	modal: dismissPlan{escape: true},
	strategies: []Strategy{
		{Name: "modern-price-attributes", Probe: colesModernAttrs},
		{Name: "broad-text-scan", Probe: colesTextScan},
		{Name: "embedded-data", Probe: colesEmbeddedData},
		{Name: "legacy-selectors", Probe: colesLegacy},
	},
}

// colesModernAttrs scans elements carrying current price-attribute markers
// and accepts the first short, currency-prefixed text.
func colesModernAttrs(sess Session) (string, bool) {
	for _, sel := range colesModernSelectors {
		for _, el := range sess.Elements(sel) {
			if shortPrice(el.Text, colesCandidateMaxLen) {
				return strings.TrimSpace(el.Text), true
			}
		}
	}
	return "", false
}

// colesTextScan walks every text-bearing element in the rendered markup for
// a currency-prefixed number, excluding promotional callouts so a "Save $2"
// badge can't shadow the real price.
func colesTextScan(sess Session) (string, bool) {
	doc := markupDoc(sess)
	if doc == nil {
		return "", false
	}

	var found string
	doc.Find(textElements).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if !shortPrice(text, colesCandidateMaxLen) {
			return true
		}
		c := price.Candidate{
			Text:  text,
			Class: sel.AttrOr("class", ""),
			Style: sel.AttrOr("style", ""),
		}
		if c.Promotional() {
			return true
		}
		found = text
		return false
	})
	return found, found != ""
}

// colesEmbeddedData regex-scans the raw markup for structured price fields
// and accepts the first value inside the broad sanity range.
func colesEmbeddedData(sess Session) (string, bool) {
	html := sess.HTML()
	if html == "" {
		return "", false
	}
	for _, re := range colesEmbeddedPatterns {
		for _, m := range re.FindAllStringSubmatch(html, -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if v >= colesEmbeddedMin && v <= colesEmbeddedMax {
				return "$" + price.Format(v), true
			}
		}
	}
	return "", false
}

func colesLegacy(sess Session) (string, bool) {
	for _, sel := range colesLegacySelectors {
		for _, el := range sess.Elements(sel) {
			text := strings.TrimSpace(el.Text)
			if text != "" && strings.Contains(text, "$") {
				return text, true
			}
		}
	}
	return "", false
}

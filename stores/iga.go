package stores

import (
	"regexp"
	"strings"

	"github.com/shelfwatch/shelfwatch/models"
)

// igaPrimarySelector is the structural selector currently observed to hold
// the price on IGA product pages.
const igaPrimarySelector = `#product-details span[class*="price"]`

// igaGenericSelectors are the fallback price-bearing selectors, broadest
// last. The final entry is a positional utility-class path from the live
// page, escaped for CSS.
var igaGenericSelectors = []string{
	`#product-details span`,
	`.price`,
	`[data-testid*="price"]`,
	`span[class*="price"]`,
	`div[class*="price"]`,
	`.product-price`,
	`#product-details > div > div > div > div.lg\:pt-8 > div > div.flex.items-center.gap-3 > div > span`,
}

// igaXPaths are structural-position queries used when CSS selectors fail.
var igaXPaths = []string{
	`//*[@id="product-details"]/div/div/div/div[2]/div/div[1]/div/span`,
	`//span[contains(text(), "$")]`,
	`//*[contains(@class, "price")]//span`,
	`//div[@id="product-details"]//span[contains(text(), "$")]`,
}

// igaMarkupPatterns match currency text in the raw markup, strictest first.
var igaMarkupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\d+\.\d{2}`),
	regexp.MustCompile(`\$\d+`),
	regexp.MustCompile(`AUD\s*\d+\.\d{2}`),
	regexp.MustCompile(`Price:\s*\$\d+\.\d{2}`),
}

// IGA price text is a bare amount; anything longer is a sentence that
// happens to mention money.
const igaCandidateMaxLen = 20

var igaAdapter Adapter = &siteAdapter{
	store: models.StoreIGA,
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
			"Cache-Control":             "max-age=0",
		},
	},
	modal: dismissPlan{guest: true, closeButton: true, escape: true, clickOutside: true},
	strategies: []Strategy{
		{Name: "primary-structural", Probe: igaPrimary},
		{Name: "generic-selectors", Probe: igaGeneric},
		{Name: "xpath-positions", Probe: igaXPath},
		{Name: "markup-scan", Probe: igaMarkupScan},
	},
}

func igaPrimary(sess Session) (string, bool) {
	return firstIGACandidate(sess.Elements(igaPrimarySelector))
}

func igaGeneric(sess Session) (string, bool) {
	for _, sel := range igaGenericSelectors {
		if text, ok := firstIGACandidate(sess.Elements(sel)); ok {
			return text, true
		}
	}
	return "", false
}

func igaXPath(sess Session) (string, bool) {
	for _, xp := range igaXPaths {
		if text, ok := firstIGACandidate(sess.ElementsX(xp)); ok {
			return text, true
		}
	}
	return "", false
}

func igaMarkupScan(sess Session) (string, bool) {
	html := sess.HTML()
	if html == "" {
		return "", false
	}
	for _, re := range igaMarkupPatterns {
		if m := re.FindString(html); m != "" {
			return m, true
		}
	}
	return "", false
}

func firstIGACandidate(els []Element) (string, bool) {
	for _, el := range els {
		text := strings.TrimSpace(el.Text)
		if text != "" && strings.Contains(text, "$") && len(text) < igaCandidateMaxLen {
			return text, true
		}
	}
	return "", false
}

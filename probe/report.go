package probe

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/shelfwatch/shelfwatch/price"
	"github.com/shelfwatch/shelfwatch/stores"
	"golang.org/x/net/html"
)

const sampleLimit = 3

// SelectorHit is the outcome of evaluating one CSS selector against the
// fetched markup.
type SelectorHit struct {
	Selector string   `json:"selector"`
	Matches  int      `json:"matches"`
	Samples  []string `json:"samples,omitempty"`
	Priced   int      `json:"priced"`
	Err      string   `json:"error,omitempty"`
}

// PatternHit is the outcome of scanning the raw markup with one
// embedded-data pattern.
type PatternHit struct {
	Pattern string `json:"pattern"`
	Matches int    `json:"matches"`
	First   string `json:"first,omitempty"`
}

// Report summarizes how well a storefront's selector inventory holds up
// against a static snapshot of the page.
type Report struct {
	Store     string        `json:"store"`
	URL       string        `json:"url"`
	Title     string        `json:"title"`
	BodyBytes int           `json:"body_bytes"`
	AppShell  bool          `json:"app_shell"`
	Selectors []SelectorHit `json:"selectors"`
	Patterns  []PatternHit  `json:"patterns"`
}

// Run evaluates every selector and pattern in the inventory against the
// fetched markup.
func Run(body []byte, pageURL string, inv stores.Inventory) (*Report, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("probe: parse markup: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	rep := &Report{
		Store:     string(inv.Store),
		URL:       pageURL,
		Title:     extractTitle(body),
		BodyBytes: len(body),
		AppShell:  looksLikeAppShell(body),
	}

	for _, sel := range inv.Selectors {
		rep.Selectors = append(rep.Selectors, evalSelector(doc, sel))
	}
	for _, re := range inv.Patterns {
		rep.Patterns = append(rep.Patterns, evalPattern(body, re))
	}
	return rep, nil
}

// evalSelector compiles and runs one selector, collecting a few sample texts
// and counting how many matches carry a parseable price.
func evalSelector(doc *goquery.Document, sel string) SelectorHit {
	hit := SelectorHit{Selector: sel}

	matcher, err := cascadia.Compile(sel)
	if err != nil {
		hit.Err = err.Error()
		return hit
	}

	doc.FindMatcher(matcher).Each(func(_ int, s *goquery.Selection) {
		hit.Matches++
		text := strings.TrimSpace(s.Text())
		if _, ok := price.Normalize(text); ok {
			hit.Priced++
		}
		if text != "" && len(hit.Samples) < sampleLimit {
			if len(text) > 60 {
				text = text[:60] + "…"
			}
			hit.Samples = append(hit.Samples, text)
		}
	})
	return hit
}

func evalPattern(body []byte, re *regexp.Regexp) PatternHit {
	hit := PatternHit{Pattern: re.String()}
	matches := re.FindAll(body, -1)
	hit.Matches = len(matches)
	if len(matches) > 0 {
		hit.First = string(matches[0])
	}
	return hit
}

// extractTitle pulls the <title> content from raw markup.
func extractTitle(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				if tokenizer.Next() == html.TextToken {
					return strings.TrimSpace(string(tokenizer.Text()))
				}
				return ""
			}
		}
	}
}

var reNoscriptJS = regexp.MustCompile(`(?i)<noscript[^>]*>[^<]*(enable|activate|turn on|requires?)\s+javascript`)

// looksLikeAppShell reports whether the static markup is probably an empty
// client-side shell, meaning live-selector misses are expected and only the
// embedded-data patterns are meaningful.
func looksLikeAppShell(body []byte) bool {
	if reNoscriptJS.Match(body) {
		return true
	}
	return len(visibleText(body)) < 200
}

// visibleText extracts body text with script, style and noscript content
// stripped. Heuristic use only.
func visibleText(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	var buf strings.Builder
	inBody := false
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return buf.String()
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			tag := string(tn)
			if tag == "body" {
				inBody = true
			}
			if tag == "script" || tag == "style" || tag == "noscript" {
				skipDepth++
			}
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			tag := string(tn)
			if tag == "script" || tag == "style" || tag == "noscript" {
				if skipDepth > 0 {
					skipDepth--
				}
			}
		case html.TextToken:
			if inBody && skipDepth == 0 {
				if text := strings.TrimSpace(string(tokenizer.Text())); text != "" {
					buf.WriteString(text)
					buf.WriteByte(' ')
				}
			}
		}
	}
}

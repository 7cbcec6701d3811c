package stores

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// markupDoc parses the session's current rendered HTML into a goquery
// document for strategies that scan broadly across text-bearing elements.
// Returns nil when the snapshot is empty or unparseable; callers treat that
// as "strategy found nothing".
func markupDoc(sess Session) *goquery.Document {
	html := sess.HTML()
	if html == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return doc
}

// textElements is the selector set for paragraph-level text scans.
const textElements = "span, div, p, h1, h2, h3, h4, h5, h6"

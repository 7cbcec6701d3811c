// Package stores contains one extraction adapter per supported storefront.
// Each adapter owns a fixed-priority chain of extraction strategies, a
// browsing profile, and a modal dismissal plan; the chains are ordered from
// most site-specific to most heuristic because no single selector survives
// storefront redesigns.
package stores

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/shelfwatch/shelfwatch/models"
	"github.com/shelfwatch/shelfwatch/price"
)

// Element is the extracted view of one live page element: its text content
// plus the class/style attributes the exclusion heuristics need.
type Element struct {
	Text  string
	Class string
	Style string
}

// Profile is the identity a session presents to a storefront. Realistic
// locale/user-agent/header combinations reduce trivial bot blocking.
type Profile struct {
	UserAgent      string
	Locale         string
	Timezone       string
	ViewportWidth  int
	ViewportHeight int
	Headers        map[string]string
}

// Session is one isolated browsing context over the shared browser. All
// methods except Navigate are best-effort snapshots of live page state;
// they return zero values rather than errors so strategy code stays linear.
type Session interface {
	// Navigate loads the URL using the escalating wait-condition ladder.
	Navigate(ctx context.Context, url string) error

	// WaitStable pauses until the DOM settles or the duration elapses,
	// letting client-rendered prices appear.
	WaitStable(d time.Duration)

	// Elements returns all elements matching the CSS selector.
	Elements(selector string) []Element

	// ElementsX returns all elements matching the XPath expression.
	ElementsX(xpath string) []Element

	// ClickVisible clicks the first visible element matching the selector
	// within the timeout, reporting whether a click happened.
	ClickVisible(selector string, timeout time.Duration) bool

	// ClickVisibleText clicks the first visible element matching the
	// selector whose text matches the regex, within the timeout.
	ClickVisibleText(selector, textRegex string, timeout time.Duration) bool

	// PressEscape sends an Escape key signal to the page.
	PressEscape() error

	// ClickPoint clicks a viewport coordinate (used to click outside
	// overlays).
	ClickPoint(x, y float64) error

	// HTML returns the current rendered markup, or "" if unobtainable.
	HTML() string

	// Title returns the document title, or "" if unobtainable.
	Title() string

	// Close tears down the browsing context. Safe to call exactly once;
	// always deferred by the adapter.
	Close()
}

// Browser hands out isolated sessions. The concrete implementation shares
// one browser process; adapters never mutate it, they only derive sessions.
type Browser interface {
	NewSession(ctx context.Context, profile Profile) (Session, error)
}

// Strategy is one ordered, named extraction step. Probe inspects the live
// page and returns candidate price text, or ok=false when nothing matched.
// The chain stops at the first strategy whose text normalizes successfully.
type Strategy struct {
	Name  string
	Probe func(s Session) (text string, ok bool)
}

// Adapter extracts the current price for one storefront.
type Adapter interface {
	Store() models.Store
	Extract(ctx context.Context, b Browser, url string) models.ScrapeResult
}

// Resolve maps a free-form store name to its adapter.
func Resolve(store string) (Adapter, bool) {
	st, ok := models.ParseStore(store)
	if !ok {
		return nil, false
	}
	switch st {
	case models.StoreColes:
		return colesAdapter, true
	case models.StoreIGA:
		return igaAdapter, true
	case models.StoreWoolworths:
		return woolworthsAdapter, true
	default:
		return nil, false
	}
}

// currencyRe matches a currency-prefixed amount anywhere in candidate text.
var currencyRe = regexp.MustCompile(`\$(\d+\.?\d*)`)

// settleDelay is how long adapters give client-side rendering after modal
// dismissal before running the strategy chain.
const settleDelay = 5 * time.Second

// siteAdapter is the shared shape of all three storefront adapters: derive
// an isolated session, navigate with the escalation ladder, clear modals,
// then walk the strategy chain until a candidate normalizes.
type siteAdapter struct {
	store      models.Store
	profile    Profile
	warmupURL  string // optional homepage visit before the product page
	modal      dismissPlan
	strategies []Strategy
}

func (a *siteAdapter) Store() models.Store { return a.store }

func (a *siteAdapter) Extract(ctx context.Context, b Browser, url string) models.ScrapeResult {
	log := slog.With("store", a.store, "url", url)

	sess, err := b.NewSession(ctx, a.profile)
	if err != nil {
		log.Warn("session setup failed", "error", err)
		return models.ErrorResult(a.store.String(), fmt.Sprintf("Error: %v", err))
	}
	defer sess.Close()

	// Some storefronts behave better when the session has seen the home
	// page first (cookie seeding). Failures here never fail the request.
	if a.warmupURL != "" {
		if warmErr := sess.Navigate(ctx, a.warmupURL); warmErr != nil {
			log.Debug("warmup navigation failed, continuing", "error", warmErr)
		} else {
			sess.WaitStable(3 * time.Second)
		}
	}

	if navErr := sess.Navigate(ctx, url); navErr != nil {
		log.Warn("all navigation attempts failed", "error", navErr)
		return models.ErrorResult(a.store.String(), fmt.Sprintf("Error: %v", navErr))
	}

	dismissOverlays(sess, a.modal, log)
	sess.WaitStable(settleDelay)

	var lastCandidate string
	for _, st := range a.strategies {
		text, ok := st.Probe(sess)
		if !ok {
			continue
		}
		lastCandidate = text
		v, parsed := price.Normalize(text)
		if !parsed {
			log.Debug("candidate did not normalize, trying next strategy",
				"strategy", st.Name, "text", text)
			continue
		}
		log.Info("price extracted", "strategy", st.Name, "price", v)
		return models.SuccessResult(a.store.String(), v)
	}

	return models.ErrorResult(a.store.String(), a.exhaustedMessage(sess, lastCandidate))
}

// exhaustedMessage builds the diagnostic for a failed chain. The page title
// distinguishes "wrong page" (block page, 404) from "price missing".
func (a *siteAdapter) exhaustedMessage(sess Session, lastCandidate string) string {
	if lastCandidate != "" {
		return fmt.Sprintf("Could not parse price from text: %s", lastCandidate)
	}
	if title := strings.TrimSpace(sess.Title()); title != "" {
		return fmt.Sprintf("Price element not found after trying all strategies. Page title: %s", title)
	}
	return "Price element not found on page after trying all strategies"
}

// shortPrice reports whether text looks like a standalone price: contains a
// currency-prefixed number and is short enough to exclude paragraph-level
// false positives.
func shortPrice(text string, maxLen int) bool {
	t := strings.TrimSpace(text)
	return t != "" && strings.Contains(t, "$") && len(t) < maxLen && currencyRe.MatchString(t)
}

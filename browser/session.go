package browser

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/shelfwatch/shelfwatch/models"
	"github.com/shelfwatch/shelfwatch/stores"
	"github.com/ysmood/gson"
)

// session is one isolated browsing context (independent cookies/storage)
// with a single page. It implements stores.Session.
//
// Setup order matters: stealth JS and header/identity overrides only take
// effect for navigations that happen after they are installed, so NewSession
// finishes all of them before handing the session to an adapter.
type session struct {
	incognito *rod.Browser
	page      *rod.Page
	navCfg    []navAttempt
	closed    bool
}

// NewSession derives an isolated incognito context from the shared browser,
// creates its page, and applies the storefront profile: user agent, locale,
// timezone, viewport, extra headers, certificate-error tolerance, and
// stealth masking.
func (b *Browser) NewSession(ctx context.Context, profile stores.Profile) (stores.Session, error) {
	incognito, err := b.browser.Incognito()
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeSession, "failed to create browsing context", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		disposeContext(incognito)
		return nil, models.NewScrapeError(models.ErrCodeSession, "failed to create page", err)
	}

	s := &session{
		incognito: incognito,
		page:      page.Context(ctx),
		navCfg:    navAttemptsFor(b.cfg),
	}

	if err := s.applyProfile(profile); err != nil {
		s.Close()
		return nil, models.NewScrapeError(models.ErrCodeSession, "failed to apply session profile", err)
	}

	return s, nil
}

func (s *session) applyProfile(profile stores.Profile) error {
	if _, err := s.page.EvalOnNewDocument(stealth.JS); err != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
	}

	if profile.UserAgent != "" {
		ua := &proto.NetworkSetUserAgentOverride{UserAgent: profile.UserAgent}
		if profile.Locale != "" {
			ua.AcceptLanguage = profile.Locale
		}
		if err := s.page.SetUserAgent(ua); err != nil {
			return err
		}
	}

	if profile.Timezone != "" {
		// Best-effort: some Chromium builds reject timezone overrides.
		_ = proto.EmulationSetTimezoneOverride{TimezoneID: profile.Timezone}.Call(s.page)
	}

	if profile.ViewportWidth > 0 && profile.ViewportHeight > 0 {
		if err := s.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             profile.ViewportWidth,
			Height:            profile.ViewportHeight,
			DeviceScaleFactor: 1,
		}); err != nil {
			return err
		}
	}

	if len(profile.Headers) > 0 {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(profile.Headers),
		}.Call(s.page)
	}

	// Tolerate store certificate quirks at the target level too; the
	// launcher flag alone does not cover all Chromium versions.
	_ = proto.SecuritySetIgnoreCertificateErrors{Ignore: true}.Call(s.page)

	return nil
}

func (s *session) WaitStable(d time.Duration) {
	p := s.page.Timeout(d)
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("DOM did not converge, proceeding with current state", "error", err)
	}
}

func (s *session) Elements(selector string) []stores.Element {
	els, err := s.page.Elements(selector)
	if err != nil {
		return nil
	}
	return convertElements(els)
}

func (s *session) ElementsX(xpath string) []stores.Element {
	els, err := s.page.ElementsX(xpath)
	if err != nil {
		return nil
	}
	return convertElements(els)
}

func (s *session) ClickVisible(selector string, timeout time.Duration) bool {
	p := s.page.Timeout(timeout)
	el, err := p.Element(selector)
	if err != nil {
		return false
	}
	return clickIfVisible(el)
}

func (s *session) ClickVisibleText(selector, textRegex string, timeout time.Duration) bool {
	p := s.page.Timeout(timeout)
	el, err := p.ElementR(selector, textRegex)
	if err != nil {
		return false
	}
	return clickIfVisible(el)
}

func (s *session) PressEscape() error {
	return s.page.Keyboard.Press(input.Escape)
}

func (s *session) ClickPoint(x, y float64) error {
	if err := s.page.Mouse.MoveTo(proto.Point{X: x, Y: y}); err != nil {
		return err
	}
	return s.page.Mouse.Click(proto.InputMouseButtonLeft, 1)
}

func (s *session) HTML() string {
	html, err := s.page.HTML()
	if err != nil {
		return ""
	}
	return html
}

func (s *session) Title() string {
	res, err := s.page.Eval(`() => document.title`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// Close tears down the page and disposes the incognito context. Idempotent;
// runs even when the owning adapter panics (it is always deferred).
func (s *session) Close() {
	if s.closed {
		return
	}
	s.closed = true

	if err := s.page.Close(); err != nil {
		slog.Debug("page close failed", "error", err)
	}
	disposeContext(s.incognito)
}

func disposeContext(incognito *rod.Browser) {
	if incognito.BrowserContextID == "" {
		return
	}
	err := proto.TargetDisposeBrowserContext{
		BrowserContextID: incognito.BrowserContextID,
	}.Call(incognito)
	if err != nil {
		slog.Debug("browsing context dispose failed", "error", err)
	}
}

func clickIfVisible(el *rod.Element) bool {
	visible, err := el.Visible()
	if err != nil || !visible {
		return false
	}
	return el.Click(proto.InputMouseButtonLeft, 1) == nil
}

func convertElements(els rod.Elements) []stores.Element {
	out := make([]stores.Element, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			continue
		}
		out = append(out, stores.Element{
			Text:  text,
			Class: attrOr(el, "class"),
			Style: attrOr(el, "style"),
		})
	}
	return out
}

func attrOr(el *rod.Element, name string) string {
	v, err := el.Attribute(name)
	if err != nil || v == nil {
		return ""
	}
	return *v
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

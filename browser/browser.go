// Package browser owns the shared headless Chrome process and hands out
// isolated browsing sessions. One Browser exists per batch invocation; it is
// shared read-only across concurrent requests, each of which derives its own
// incognito context so navigations never interfere.
package browser

import (
	"context"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/shelfwatch/shelfwatch/config"
	"github.com/shelfwatch/shelfwatch/models"
	"github.com/shelfwatch/shelfwatch/stores"
)

// Browser wraps one running Chrome process. Safe for concurrent use: the
// only operation callers perform is deriving new sessions.
type Browser struct {
	browser *rod.Browser
	cfg     config.BrowserConfig
}

// Launch starts a headless Chrome process and connects to it. A failure here
// is fatal for the whole batch (ErrCodeBrowserLaunch).
func Launch(cfg config.BrowserConfig) (*Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	// Storefront certificate quirks must not abort navigation, and the
	// automation-controlled blink feature is a trivial bot tell.
	l.Set(flags.Flag("ignore-certificate-errors"))
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserLaunch,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserLaunch,
			"failed to connect to browser",
			err,
		)
	}

	return &Browser{browser: b, cfg: cfg}, nil
}

// Close kills the browser process. Call on every exit path to prevent
// zombie Chrome processes.
func (b *Browser) Close() {
	if err := b.browser.Close(); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
}

// With runs fn with a freshly launched Browser and guarantees teardown on
// every exit path, including a panicking fn.
func With(cfg config.BrowserConfig, fn func(*Browser) error) error {
	b, err := Launch(cfg)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b)
}

// Launcher adapts Launch to the orchestrator's injectable factory shape.
func Launcher(cfg config.BrowserConfig) func(context.Context) (stores.Browser, func(), error) {
	return func(_ context.Context) (stores.Browser, func(), error) {
		b, err := Launch(cfg)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	}
}

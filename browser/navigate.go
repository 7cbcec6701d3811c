package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/shelfwatch/shelfwatch/config"
	"github.com/shelfwatch/shelfwatch/models"
)

// navAttempt is one rung of the navigation ladder: a wait condition paired
// with a timeout. Rungs are tried in order, strictest wait and shortest
// timeout first, and the first success short-circuits the rest.
type navAttempt struct {
	name    string
	wait    func(p *rod.Page) error
	timeout time.Duration
}

func waitDOMStable(p *rod.Page) error {
	return p.WaitDOMStable(300*time.Millisecond, 0.1)
}

func waitLoad(p *rod.Page) error {
	return p.WaitLoad()
}

// navAttemptsFor builds the ladder from configured timeouts. Fewer than
// three configured values fall back to the defaults for the missing rungs.
func navAttemptsFor(cfg config.BrowserConfig) []navAttempt {
	timeouts := cfg.NavTimeouts
	defaults := config.DefaultNavTimeouts()
	for len(timeouts) < len(defaults) {
		timeouts = append(timeouts, defaults[len(timeouts)])
	}
	return []navAttempt{
		{name: "dom-stable", wait: waitDOMStable, timeout: timeouts[0]},
		{name: "full-load", wait: waitLoad, timeout: timeouts[1]},
		{name: "no-wait", wait: nil, timeout: timeouts[2]},
	}
}

// Navigate loads the URL with the escalating strategy ladder. When every
// rung fails, the returned error carries ErrCodeNavigation and the last
// attempt's failure.
func (s *session) Navigate(ctx context.Context, url string) error {
	var lastErr error

	for _, att := range s.navCfg {
		attemptCtx, cancel := context.WithTimeout(ctx, att.timeout)
		p := s.page.Context(attemptCtx)

		err := p.Navigate(url)
		if err == nil && att.wait != nil {
			err = att.wait(p)
		}
		cancel()

		if err == nil {
			slog.Debug("navigation succeeded", "url", url, "attempt", att.name)
			return nil
		}
		lastErr = err
		slog.Debug("navigation attempt failed", "url", url, "attempt", att.name, "error", err)

		// The batch context expiring ends the ladder early; escalating
		// further would just burn the sibling tasks' time.
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}
	}

	return models.NewScrapeError(
		models.ErrCodeNavigation,
		fmt.Sprintf("all navigation strategies failed for %s", url),
		lastErr,
	)
}

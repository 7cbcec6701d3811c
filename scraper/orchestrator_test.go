package scraper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shelfwatch/shelfwatch/models"
	"github.com/shelfwatch/shelfwatch/stores"
)

// stubSession satisfies stores.Session with inert responses: navigation
// succeeds, nothing matches, no markup. Adapters driven over it exhaust
// their chains quickly.
type stubSession struct{}

func (stubSession) Navigate(context.Context, string) error              { return nil }
func (stubSession) WaitStable(time.Duration)                            {}
func (stubSession) Elements(string) []stores.Element                    { return nil }
func (stubSession) ElementsX(string) []stores.Element                   { return nil }
func (stubSession) ClickVisible(string, time.Duration) bool             { return false }
func (stubSession) ClickVisibleText(string, string, time.Duration) bool { return false }
func (stubSession) PressEscape() error                                  { return nil }
func (stubSession) ClickPoint(float64, float64) error                   { return nil }
func (stubSession) HTML() string                                        { return "" }
func (stubSession) Title() string                                       { return "" }
func (stubSession) Close()                                              {}

// stubBrowser counts the sessions handed out.
type stubBrowser struct {
	sessions atomic.Int64
}

func (b *stubBrowser) NewSession(context.Context, stores.Profile) (stores.Session, error) {
	b.sessions.Add(1)
	return stubSession{}, nil
}

// stubLauncher wraps a stubBrowser as a Launcher and records launches and
// releases.
type stubLauncher struct {
	browser  *stubBrowser
	launches atomic.Int64
	releases atomic.Int64
	err      error
}

func (l *stubLauncher) launch(context.Context) (stores.Browser, func(), error) {
	if l.err != nil {
		return nil, nil, l.err
	}
	l.launches.Add(1)
	return l.browser, func() { l.releases.Add(1) }, nil
}

func TestScrapeAll_OrderedResults(t *testing.T) {
	l := &stubLauncher{browser: &stubBrowser{}}
	o := New(l.launch, 3)

	requests := []models.ScrapeRequest{
		{URL: "https://iga.example/p/1", Store: "IGA"},
		{URL: "https://mars.example/p/2", Store: "Mars"},
		{URL: "https://woolworths.example/p/3", Store: "woolworths"},
	}

	results, err := o.ScrapeAll(context.Background(), requests)
	if err != nil {
		t.Fatalf("ScrapeAll: %v", err)
	}
	if len(results) != len(requests) {
		t.Fatalf("got %d results, want %d", len(results), len(requests))
	}

	if results[0].Store != "IGA" {
		t.Errorf("results[0].Store = %q, want IGA", results[0].Store)
	}
	if results[1].Store != "mars" || results[1].Message != "Unsupported store: mars" {
		t.Errorf("results[1] = %+v, want unsupported-store error for mars", results[1])
	}
	if results[2].Store != "Woolworths" {
		t.Errorf("results[2].Store = %q, want Woolworths", results[2].Store)
	}

	for i, r := range results {
		if r.Status != models.StatusError {
			t.Errorf("results[%d].Status = %q, want error against an inert page", i, r.Status)
		}
		if r.Price != nil {
			t.Errorf("results[%d] carries a price on an error result", i)
		}
	}

	if l.releases.Load() != 1 {
		t.Errorf("browser released %d times, want 1", l.releases.Load())
	}
}

func TestScrapeAll_UnsupportedStoreSkipsBrowser(t *testing.T) {
	l := &stubLauncher{browser: &stubBrowser{}}
	o := New(l.launch, 3)

	results, err := o.ScrapeAll(context.Background(), []models.ScrapeRequest{
		{URL: "https://mars.example/p/1", Store: "Mars"},
		{URL: "https://pluto.example/p/2", Store: "pluto mart"},
	})
	if err != nil {
		t.Fatalf("ScrapeAll: %v", err)
	}

	if l.launches.Load() != 0 {
		t.Errorf("browser launched %d times for an all-unsupported batch, want 0", l.launches.Load())
	}
	if l.browser.sessions.Load() != 0 {
		t.Errorf("sessions created: %d, want 0", l.browser.sessions.Load())
	}
	for i, r := range results {
		if r.Status != models.StatusError {
			t.Errorf("results[%d].Status = %q, want error", i, r.Status)
		}
	}
}

func TestScrapeAll_LaunchFailureIsBatchFatal(t *testing.T) {
	l := &stubLauncher{err: errors.New("chrome missing")}
	o := New(l.launch, 3)

	results, err := o.ScrapeAll(context.Background(), []models.ScrapeRequest{
		{URL: "https://iga.example/p/1", Store: "iga"},
	})
	if err == nil {
		t.Fatal("expected a batch-fatal error")
	}
	if results != nil {
		t.Errorf("results = %v, want nil on batch failure", results)
	}
}

func TestScrapeAll_EmptyBatch(t *testing.T) {
	l := &stubLauncher{browser: &stubBrowser{}}
	o := New(l.launch, 3)

	results, err := o.ScrapeAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("ScrapeAll: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
	if l.launches.Load() != 0 {
		t.Error("browser launched for an empty batch")
	}
}

// panicAdapter always panics inside Extract.
type panicAdapter struct{}

func (panicAdapter) Store() models.Store { return models.StoreIGA }
func (panicAdapter) Extract(context.Context, stores.Browser, string) models.ScrapeResult {
	panic("selector engine exploded")
}

func TestExtractOne_PanicIsolated(t *testing.T) {
	res := extractOne(context.Background(), &stubBrowser{}, dispatch{
		idx:     0,
		adapter: panicAdapter{},
		url:     "https://iga.example/p/1",
	})

	if res.Status != models.StatusError {
		t.Fatalf("status = %q, want error", res.Status)
	}
	if res.Message != "Error: selector engine exploded" {
		t.Errorf("message = %q", res.Message)
	}
	if res.Store != "IGA" {
		t.Errorf("store = %q, want IGA", res.Store)
	}
}

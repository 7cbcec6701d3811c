// Package scraper fans extraction requests out over one shared browser
// process, isolating per-request failures and preserving input order in the
// results.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/shelfwatch/shelfwatch/models"
	"github.com/shelfwatch/shelfwatch/stores"
)

// Launcher provides the shared browser for one batch and the release
// function that must run exactly once when the batch completes.
type Launcher func(ctx context.Context) (stores.Browser, func(), error)

// Orchestrator runs batches of extraction requests.
type Orchestrator struct {
	launch        Launcher
	maxConcurrent int
}

// New creates an Orchestrator. maxConcurrent bounds in-flight sessions;
// values below 1 fall back to 5.
func New(launch Launcher, maxConcurrent int) *Orchestrator {
	if maxConcurrent < 1 {
		maxConcurrent = 5
	}
	return &Orchestrator{launch: launch, maxConcurrent: maxConcurrent}
}

// dispatch pairs a request with its resolved adapter and original position.
type dispatch struct {
	idx     int
	adapter stores.Adapter
	url     string
}

// ScrapeAll extracts prices for all requests and returns one result per
// request, in request order, regardless of completion order or individual
// failures. The only batch-fatal error is a browser launch failure; every
// per-request failure becomes an error-status result.
//
// Requests whose store cannot be resolved are answered without any browser
// activity; if no request resolves, the browser is never launched.
func (o *Orchestrator) ScrapeAll(ctx context.Context, requests []models.ScrapeRequest) ([]models.ScrapeResult, error) {
	results := make([]models.ScrapeResult, len(requests))

	var dispatches []dispatch
	for i, req := range requests {
		adapter, ok := stores.Resolve(req.Store)
		if !ok {
			store := strings.ToLower(req.Store)
			results[i] = models.ErrorResult(store, fmt.Sprintf("Unsupported store: %s", store))
			continue
		}
		dispatches = append(dispatches, dispatch{idx: i, adapter: adapter, url: req.URL})
	}

	if len(dispatches) == 0 {
		return results, nil
	}

	b, release, err := o.launch(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	sem := make(chan struct{}, o.maxConcurrent)
	var wg sync.WaitGroup

	for _, d := range dispatches {
		wg.Add(1)
		go func(d dispatch) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[d.idx] = extractOne(ctx, b, d)
		}(d)
	}

	wg.Wait()

	slog.Info("batch finished", "total", len(requests), "dispatched", len(dispatches))
	return results, nil
}

// extractOne runs a single adapter call behind a panic boundary so that no
// request failure, however violent, can reach a sibling task or the caller.
func extractOne(ctx context.Context, b stores.Browser, d dispatch) (result models.ScrapeResult) {
	store := d.adapter.Store().String()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("adapter panicked", "store", store, "url", d.url, "panic", r)
			result = models.ErrorResult(store, fmt.Sprintf("Error: %v", r))
		}
	}()

	return d.adapter.Extract(ctx, b, d.url)
}

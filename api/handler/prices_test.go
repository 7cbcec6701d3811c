package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shelfwatch/shelfwatch/cache"
	"github.com/shelfwatch/shelfwatch/models"
	"github.com/shelfwatch/shelfwatch/scraper"
	"github.com/shelfwatch/shelfwatch/stores"
)

func pricesRouter(launch scraper.Launcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	o := scraper.New(launch, 2)
	cc := cache.New(10, time.Hour)
	r.POST("/prices", Prices(o, cc))
	return r
}

func failingLauncher(context.Context) (stores.Browser, func(), error) {
	return nil, nil, models.NewScrapeError(models.ErrCodeBrowserLaunch,
		"failed to launch browser", errors.New("chrome missing"))
}

// neverLauncher fails the test if the orchestrator tries to launch.
func neverLauncher(t *testing.T) scraper.Launcher {
	return func(context.Context) (stores.Browser, func(), error) {
		t.Fatal("browser launched for a request that must not need one")
		return nil, nil, nil
	}
}

func TestPrices_InvalidBody(t *testing.T) {
	r := pricesRouter(neverLauncher(t))

	req := httptest.NewRequest(http.MethodPost, "/prices", strings.NewReader(`{"items": []}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp models.PricesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Success || resp.Error == nil || resp.Error.Code != models.ErrCodeInvalidInput {
		t.Errorf("resp = %+v", resp)
	}
}

func TestPrices_UnsupportedStoresAnsweredWithoutBrowser(t *testing.T) {
	r := pricesRouter(neverLauncher(t))

	body := `{"items": [
		{"url": "https://mars.example/p/1", "store": "Mars"},
		{"url": "https://pluto.example/p/2", "store": "Pluto"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/prices", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (per-item errors are not transport errors)", w.Code)
	}

	var resp models.PricesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || len(resp.Results) != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Results[0].Message != "Unsupported store: mars" || resp.Results[0].Store != "mars" {
		t.Errorf("results[0] = %+v", resp.Results[0])
	}
}

func TestPrices_LaunchFailureIs503(t *testing.T) {
	r := pricesRouter(failingLauncher)

	body := `{"items": [{"url": "https://iga.example/p/1", "store": "iga"}]}`
	req := httptest.NewRequest(http.MethodPost, "/prices", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}

	var resp models.PricesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != models.ErrCodeBrowserLaunch {
		t.Errorf("resp.Error = %+v", resp.Error)
	}
}

// smoke drives a running shelfwatch instance against real product pages and
// reports per-store extraction health. Run it after selector changes, before
// deploying: a store whose success rate drops is a storefront redesign.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

var (
	apiURL = flag.String("api-url", "http://localhost:8080", "shelfwatch API base URL")
	apiKey = flag.String("api-key", "", "API key for authenticated requests")
	runs   = flag.Int("runs", 3, "number of batches to run")
	items  = flag.String("items", "", "JSON file with the item list (defaults to a built-in sample)")
	output = flag.String("output", "smoke-results.json", "JSON output file path")
)

// sampleItems is the default probe set: one long-lived product per store.
var sampleItems = []item{
	{URL: "https://www.coles.com.au/product/coles-white-sandwich-bread-650g-8599571", Store: "coles"},
	{URL: "https://www.igashop.com.au/product/helgas-wholemeal-bread-750g-130382", Store: "iga"},
	{URL: "https://www.woolworths.com.au/shop/productdetails/151297/wonder-white-bread-sandwich", Store: "woolworths"},
}

type item struct {
	URL   string `json:"url"`
	Store string `json:"store"`
}

type pricesRequest struct {
	Items []item `json:"items"`
}

type scrapeResult struct {
	Price   *float64 `json:"price"`
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Store   string   `json:"store"`
}

type pricesResponse struct {
	Success bool           `json:"success"`
	Results []scrapeResult `json:"results"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type runRecord struct {
	Run       int            `json:"run"`
	LatencyMs int64          `json:"latency_ms"`
	Results   []scrapeResult `json:"results"`
	Error     string         `json:"error,omitempty"`
}

type storeStats struct {
	Store     string   `json:"store"`
	Attempts  int      `json:"attempts"`
	Successes int      `json:"successes"`
	Prices    []string `json:"prices"`
	LastError string   `json:"last_error,omitempty"`
}

type smokeReport struct {
	Timestamp string       `json:"timestamp"`
	APIURL    string       `json:"api_url"`
	Runs      []runRecord  `json:"runs"`
	Stores    []storeStats `json:"stores"`
}

func main() {
	flag.Parse()

	probeItems := sampleItems
	if *items != "" {
		loaded, err := loadItems(*items)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		probeItems = loaded
	}

	fmt.Println("=== shelfwatch smoke ===")
	fmt.Printf("API URL:  %s\n", *apiURL)
	fmt.Printf("Items:    %d\n", len(probeItems))
	fmt.Printf("Batches:  %d\n\n", *runs)

	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		os.Exit(1)
	}

	report := smokeReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		APIURL:    *apiURL,
	}
	stats := map[string]*storeStats{}

	for i := 1; i <= *runs; i++ {
		fmt.Printf("Batch %d/%d ... ", i, *runs)
		rec := runBatch(probeItems, i)
		if rec.Error != "" {
			fmt.Printf("FAILED: %s\n", rec.Error)
		} else {
			ok := 0
			for _, r := range rec.Results {
				if r.Status == "success" {
					ok++
				}
			}
			fmt.Printf("%d/%d priced in %dms\n", ok, len(rec.Results), rec.LatencyMs)
		}
		report.Runs = append(report.Runs, rec)
		accumulate(stats, rec.Results)
	}

	for _, s := range stats {
		report.Stores = append(report.Stores, *s)
	}

	fmt.Println()
	printTable(report.Stores)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func loadItems(path string) ([]item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items file: %w", err)
	}
	var loaded []item
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse items file: %w", err)
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("items file %s is empty", path)
	}
	return loaded, nil
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/api/v1/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func runBatch(probeItems []item, run int) runRecord {
	rec := runRecord{Run: run}

	bodyBytes, err := json.Marshal(pricesRequest{Items: probeItems})
	if err != nil {
		rec.Error = fmt.Sprintf("marshal error: %v", err)
		return rec
	}

	req, err := http.NewRequest("POST", *apiURL+"/api/v1/prices", bytes.NewReader(bodyBytes))
	if err != nil {
		rec.Error = fmt.Sprintf("request error: %v", err)
		return rec
	}
	req.Header.Set("Content-Type", "application/json")
	if *apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+*apiKey)
	}

	// A full batch visits every storefront sequentially in the worst case.
	client := &http.Client{Timeout: 6 * time.Minute}
	start := time.Now()
	resp, err := client.Do(req)
	rec.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		rec.Error = fmt.Sprintf("request failed: %v", err)
		return rec
	}
	defer resp.Body.Close()

	var pr pricesResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		rec.Error = fmt.Sprintf("decode error: %v", err)
		return rec
	}
	if pr.Error != nil {
		rec.Error = pr.Error.Message
		return rec
	}

	rec.Results = pr.Results
	return rec
}

func accumulate(stats map[string]*storeStats, results []scrapeResult) {
	for _, r := range results {
		s, ok := stats[r.Store]
		if !ok {
			s = &storeStats{Store: r.Store}
			stats[r.Store] = s
		}
		s.Attempts++
		if r.Status == "success" && r.Price != nil {
			s.Successes++
			s.Prices = append(s.Prices, fmt.Sprintf("%.2f", *r.Price))
		} else {
			s.LastError = r.Message
		}
	}
}

func printTable(stores []storeStats) {
	fmt.Println(strings.Repeat("─", 80))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Store\tSuccess\tPrices\tLast error\n")
	fmt.Fprintf(w, "─────\t───────\t──────\t──────────\n")

	for _, s := range stores {
		errText := s.LastError
		if len(errText) > 40 {
			errText = errText[:37] + "..."
		}
		fmt.Fprintf(w, "%s\t%d/%d\t%s\t%s\n",
			s.Store, s.Successes, s.Attempts, strings.Join(s.Prices, " "), errText)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 80))
}

func writeJSON(path string, report smokeReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

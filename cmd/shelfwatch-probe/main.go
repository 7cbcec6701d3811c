// shelfwatch-probe fetches a product page statically and reports which of
// the store adapter's price selectors and embedded-data patterns still
// match. Run it when a storefront redesign is suspected, before touching
// the adapter.
//
// Usage:
//
//	shelfwatch-probe -store coles -url https://www.coles.com.au/product/... [-json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shelfwatch/shelfwatch/probe"
	"github.com/shelfwatch/shelfwatch/stores"
)

func main() {
	var (
		storeName = flag.String("store", "", "store name (coles, iga, woolworths)")
		pageURL   = flag.String("url", "", "product page URL to probe")
		timeout   = flag.Duration("timeout", 30*time.Second, "fetch timeout")
		asJSON    = flag.Bool("json", false, "emit the report as JSON")
	)
	flag.Parse()

	if *storeName == "" || *pageURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	inv, ok := stores.InventoryFor(*storeName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown store %q (expected coles, iga or woolworths)\n", *storeName)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	body, err := probe.Fetch(ctx, *pageURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch failed: %v\n", err)
		os.Exit(1)
	}

	rep, err := probe.Run(body, *pageURL, inv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "probe failed: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			fmt.Fprintf(os.Stderr, "encode report: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printReport(rep)
}

func printReport(rep *probe.Report) {
	fmt.Printf("store:  %s\n", rep.Store)
	fmt.Printf("url:    %s\n", rep.URL)
	fmt.Printf("title:  %s\n", rep.Title)
	fmt.Printf("bytes:  %d\n", rep.BodyBytes)
	if rep.AppShell {
		fmt.Println("note:   page looks like a client-side app shell; selector misses are expected, check the patterns below")
	}

	fmt.Println("\nselectors:")
	for _, hit := range rep.Selectors {
		if hit.Err != "" {
			fmt.Printf("  FAIL  %-70s compile error: %s\n", hit.Selector, hit.Err)
			continue
		}
		fmt.Printf("  %4d  %-70s priced=%d\n", hit.Matches, hit.Selector, hit.Priced)
		for _, sample := range hit.Samples {
			fmt.Printf("        · %s\n", sample)
		}
	}

	fmt.Println("\nembedded-data patterns:")
	for _, hit := range rep.Patterns {
		fmt.Printf("  %4d  %s\n", hit.Matches, hit.Pattern)
		if hit.First != "" {
			fmt.Printf("        · %s\n", hit.First)
		}
	}
}

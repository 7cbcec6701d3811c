package probe

import (
	"strings"
	"testing"

	"github.com/shelfwatch/shelfwatch/stores"
)

const igaFixture = `<!DOCTYPE html>
<html>
<head><title>Helga's Wholemeal Bread | IGA Shop Online</title></head>
<body>
  <main>
    <div id="product-details">
      <h1>Helga's Wholemeal Bread 750g</h1>
      <span class="product-price">$6.85</span>
      <p>Baked fresh daily and delivered to your door. Wholemeal goodness
      the whole family can enjoy. Helga's traditional wholemeal is made
      with no artificial colours or flavours and makes a great base for
      sandwiches, toast and everything in between.</p>
    </div>
  </main>
</body>
</html>`

func TestRun_IGAFixture(t *testing.T) {
	inv, ok := stores.InventoryFor("iga")
	if !ok {
		t.Fatal("iga inventory missing")
	}

	rep, err := Run([]byte(igaFixture), "https://example.com/p/1", inv)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(rep.Title, "Wholemeal Bread") {
		t.Errorf("title = %q", rep.Title)
	}

	var priced int
	for _, hit := range rep.Selectors {
		if hit.Err != "" {
			t.Errorf("selector %q failed to compile: %s", hit.Selector, hit.Err)
		}
		priced += hit.Priced
	}
	if priced == 0 {
		t.Error("no selector found a priced element in the fixture")
	}

	var patternHits int
	for _, hit := range rep.Patterns {
		patternHits += hit.Matches
	}
	if patternHits == 0 {
		t.Error("no embedded-data pattern matched $6.85")
	}
}

func TestRun_SelectorCompileErrorIsReported(t *testing.T) {
	inv := stores.Inventory{Selectors: []string{"span[", "span"}}

	rep, err := Run([]byte(igaFixture), "u", inv)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Selectors[0].Err == "" {
		t.Error("invalid selector should report a compile error, not fail the run")
	}
	if rep.Selectors[1].Err != "" {
		t.Errorf("valid selector reported error: %s", rep.Selectors[1].Err)
	}
}

func TestLooksLikeAppShell(t *testing.T) {
	shell := `<html><body><div id="root"></div><script src="/app.js"></script></body></html>`
	if !looksLikeAppShell([]byte(shell)) {
		t.Error("empty root shell should be flagged")
	}

	if looksLikeAppShell([]byte(igaFixture)) {
		t.Error("content-rich page flagged as shell")
	}

	noscript := `<html><body><p>` + strings.Repeat("text ", 100) +
		`</p><noscript>Please enable JavaScript to continue</noscript></body></html>`
	if !looksLikeAppShell([]byte(noscript)) {
		t.Error("noscript JS warning should be flagged")
	}
}

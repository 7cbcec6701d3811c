package stores

import (
	"testing"
)

func TestColesModernAttrs(t *testing.T) {
	sess := &fakeSession{
		elements: map[string][]Element{
			`[data-testid="price-unit"]`: {
				{Text: "$1.20 per 100g unit price information sentence that runs long"},
			},
			`[data-testid="product-price"]`: {
				{Text: "$4.50"},
			},
		},
	}

	text, ok := colesModernAttrs(sess)
	if !ok || text != "$4.50" {
		t.Errorf("got (%q, %v), want ($4.50, true)", text, ok)
	}
}

func TestColesTextScan_SkipsPromotionalBadges(t *testing.T) {
	sess := &fakeSession{
		html: `<html><body>
			<span>Save $2.00</span>
			<div>Was $6.50</div>
			<span>$4.50</span>
		</body></html>`,
	}

	text, ok := colesTextScan(sess)
	if !ok || text != "$4.50" {
		t.Errorf("got (%q, %v), want ($4.50, true)", text, ok)
	}
}

func TestColesEmbeddedData(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
		ok   bool
	}{
		{
			name: "price value field",
			html: `{"price":{"value":4.5,"currency":"AUD"}}`,
			want: "$4.50",
			ok:   true,
		},
		{
			name: "display price string",
			html: `{"displayPrice":"$3.20"}`,
			want: "$3.20",
			ok:   true,
		},
		{
			name: "product id rejected by sanity range",
			html: `{"price":{"value":8273645}}`,
			ok:   false,
		},
		{
			name: "empty markup",
			html: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &fakeSession{html: tt.html}
			got, ok := colesEmbeddedData(sess)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v (got %q)", ok, tt.ok, got)
			}
			if ok && got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIGAGeneric_RejectsLongText(t *testing.T) {
	sess := &fakeSession{
		elements: map[string][]Element{
			`.price`: {
				{Text: "This product costs $4.50 when bought in store today"},
			},
			`span[class*="price"]`: {
				{Text: "$4.50"},
			},
		},
	}

	text, ok := igaGeneric(sess)
	if !ok || text != "$4.50" {
		t.Errorf("got (%q, %v), want ($4.50, true)", text, ok)
	}
}

func TestIGAXPath(t *testing.T) {
	sess := &fakeSession{
		xElements: map[string][]Element{
			`//span[contains(text(), "$")]`: {{Text: "$6.80"}},
		},
	}

	text, ok := igaXPath(sess)
	if !ok || text != "$6.80" {
		t.Errorf("got (%q, %v), want ($6.80, true)", text, ok)
	}
}

func TestIGAMarkupScan_StrictestPatternFirst(t *testing.T) {
	sess := &fakeSession{html: `<div>from $7</div><span>$6.85</span>`}

	text, ok := igaMarkupScan(sess)
	if !ok || text != "$6.85" {
		t.Errorf("got (%q, %v), want ($6.85, true)", text, ok)
	}
}

func TestWooliesLeadPrice(t *testing.T) {
	tests := []struct {
		name string
		el   Element
		want string
		ok   bool
	}{
		{
			name: "sale price in band",
			el:   Element{Text: "$2.40"},
			want: "$2.40",
			ok:   true,
		},
		{
			name: "unit price rejected",
			el:   Element{Text: "$1.20 / 100g"},
			ok:   false,
		},
		{
			name: "out of band rejected",
			el:   Element{Text: "$45.00"},
			ok:   false,
		},
		{
			name: "promotional rejected",
			el:   Element{Text: "Save $2.40"},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &fakeSession{
				elements: map[string][]Element{
					`.product-price_component_price-lead__vlm8f`: {tt.el},
				},
			}
			got, ok := wooliesLeadPrice(sess)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v (got %q)", ok, tt.ok, got)
			}
			if ok && got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWooliesPatterns_ScreenReaderPrice(t *testing.T) {
	sess := &fakeSession{
		elements: map[string][]Element{
			`div.sr-only`: {{Text: "Price $2.40 single item"}},
		},
	}

	text, ok := wooliesPatterns(sess)
	if !ok || text != "$2.40" {
		t.Errorf("got (%q, %v), want ($2.40, true)", text, ok)
	}
}

func TestWooliesLowestCandidate_PicksSaleOverOriginal(t *testing.T) {
	// Both the sale price and the crossed-out original survive as spans; the
	// lower one is the current sale price.
	sess := &fakeSession{
		html: `<html><body>
			<span class="price-current">$3.20</span>
			<span class="price-plain">$2.40</span>
			<span class="price-strike">$3.40</span>
			<span>$1.20 / 100g</span>
			<span>$19.99</span>
		</body></html>`,
	}

	text, ok := wooliesLowestCandidate(sess)
	if !ok || text != "$2.40" {
		t.Errorf("got (%q, %v), want ($2.40, true)", text, ok)
	}
}

func TestWooliesEmbeddedData_SalePriceBeatsPrice(t *testing.T) {
	sess := &fakeSession{
		html: `{"price": 3.40, "salePrice": 2.40}`,
	}

	text, ok := wooliesEmbeddedData(sess)
	if !ok || text != "$2.40" {
		t.Errorf("got (%q, %v), want ($2.40, true)", text, ok)
	}
}

func TestInventoryFor(t *testing.T) {
	for _, store := range []string{"coles", "iga", "woolworths"} {
		inv, ok := InventoryFor(store)
		if !ok {
			t.Errorf("InventoryFor(%q) not found", store)
			continue
		}
		if len(inv.Selectors) == 0 || len(inv.Patterns) == 0 {
			t.Errorf("InventoryFor(%q) returned empty inventory", store)
		}
	}
	if _, ok := InventoryFor("mars"); ok {
		t.Error("InventoryFor(mars) should not resolve")
	}
}

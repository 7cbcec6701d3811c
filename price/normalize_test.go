package price

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
		ok   bool
	}{
		{"currency prefix with cents", "$12.34", 12.34, true},
		{"currency prefix whole dollars", "$12", 12, true},
		{"currency suffix", "12.34 $", 12.34, true},
		{"currency suffix with space", "12 $", 12, true},
		{"aud prefix", "AUD 5.20", 5.20, true},
		{"aud prefix whole dollars", "AUD 5", 5, true},
		{"bare decimal", "3.99", 3.99, true},
		{"bare integer", "7", 7, true},
		{"embedded in sentence", "Now only $4.50 each", 4.50, true},
		{"newlines and spaces collapse", "  $2.80\n each ", 2.80, true},
		{"save text still yields amount", "Save $2.00", 2.00, true},
		{"no number", "free", 0, false},
		{"empty", "", 0, false},
		{"zero rejected", "$0.00", 0, false},
		{"above ceiling rejected", "$1250.00", 0, false},
		{"at ceiling accepted", "$999.99", 999.99, true},
		{"at floor accepted", "$0.01", 0.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.text)
			if ok != tt.ok {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("Normalize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalize_OutOfRangeFallsThrough(t *testing.T) {
	// The leading number (1200) is out of range; scanning must pick up the
	// admissible 4.50 instead of failing the text.
	got, ok := Normalize("item 1200 now 4.50")
	if !ok {
		t.Fatal("expected a price from fallback scan")
	}
	if got != 4.50 {
		t.Errorf("got %v, want 4.50", got)
	}
}

func TestNormalize_PrefersCurrencyOverBareNumber(t *testing.T) {
	// A pack size precedes the price; the currency-prefixed pattern must win.
	got, ok := Normalize("6 pack $8.00")
	if !ok {
		t.Fatal("expected a price")
	}
	if got != 8.00 {
		t.Errorf("got %v, want 8.00", got)
	}
}

func TestInRange(t *testing.T) {
	tests := []struct {
		v    float64
		want bool
	}{
		{0.009, false},
		{0.01, true},
		{5, true},
		{999.99, true},
		{1000, false},
		{-3, false},
	}
	for _, tt := range tests {
		if got := InRange(tt.v); got != tt.want {
			t.Errorf("InRange(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	for _, v := range []float64{0.01, 2.4, 12.34, 999.99} {
		s := Format(v)
		got, ok := Normalize(s)
		if !ok || got != v {
			t.Errorf("Normalize(Format(%v)) = %v, %v", v, got, ok)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(2.4); got != "2.40" {
		t.Errorf("Format(2.4) = %q, want \"2.40\"", got)
	}
}

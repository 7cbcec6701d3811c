package models

import "testing"

func TestParseStore(t *testing.T) {
	tests := []struct {
		input string
		want  Store
		ok    bool
	}{
		{"coles", StoreColes, true},
		{"Coles Express", StoreColes, true},
		{"IGA", StoreIGA, true},
		{"iga xpress ashfield", StoreIGA, true},
		{"woolworths", StoreWoolworths, true},
		{"Woolworths Metro", StoreWoolworths, true},
		{"mars", "", false},
		{"aldi", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseStore(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseStore(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestScrapeError(t *testing.T) {
	err := NewScrapeError(ErrCodeNavigation, "all navigation strategies failed", nil)
	if err.Error() == "" {
		t.Error("error string should not be empty")
	}

	detail := err.ToDetail()
	if detail.Code != ErrCodeNavigation {
		t.Errorf("detail code = %q, want %q", detail.Code, ErrCodeNavigation)
	}
}

func TestResultConstructors(t *testing.T) {
	s := SuccessResult("IGA", 4.50)
	if s.Status != StatusSuccess || s.Price == nil || *s.Price != 4.50 || s.Currency != "$" {
		t.Errorf("SuccessResult = %+v", s)
	}

	e := ErrorResult("mars", "Unsupported store: mars")
	if e.Status != StatusError || e.Price != nil || e.Store != "mars" {
		t.Errorf("ErrorResult = %+v", e)
	}
}

package stores

import (
	"regexp"

	"github.com/shelfwatch/shelfwatch/models"
)

// Inventory lists the markup probes one storefront adapter relies on, in
// chain order. The probe CLI runs these against statically fetched markup to
// diagnose selector drift without launching a browser.
type Inventory struct {
	Store     models.Store
	Selectors []string
	Patterns  []*regexp.Regexp
}

// InventoryFor returns the selector inventory for the given store name.
// XPath probes are omitted: the static probe only evaluates CSS.
func InventoryFor(store string) (Inventory, bool) {
	s, ok := models.ParseStore(store)
	if !ok {
		return Inventory{}, false
	}

	switch s {
	case models.StoreColes:
		return Inventory{
			Store:     s,
			Selectors: joinSelectors(colesModernSelectors, colesLegacySelectors),
			Patterns:  colesEmbeddedPatterns,
		}, true
	case models.StoreIGA:
		return Inventory{
			Store:     s,
			Selectors: joinSelectors([]string{igaPrimarySelector}, igaGenericSelectors),
			Patterns:  igaMarkupPatterns,
		}, true
	case models.StoreWoolworths:
		return Inventory{
			Store:     s,
			Selectors: joinSelectors(wooliesLeadSelectors, wooliesPatternSelectors, wooliesFallbackSelectors),
			Patterns:  wooliesEmbeddedPatterns,
		}, true
	}
	return Inventory{}, false
}

func joinSelectors(lists ...[]string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, sel := range list {
			if _, dup := seen[sel]; dup {
				continue
			}
			seen[sel] = struct{}{}
			out = append(out, sel)
		}
	}
	return out
}

package models

import "strings"

// Store identifies one of the supported storefronts.
type Store string

const (
	StoreColes      Store = "Coles"
	StoreIGA        Store = "IGA"
	StoreWoolworths Store = "Woolworths"
)

// ParseStore resolves a free-form store name to a Store. Matching is
// case-insensitive and substring-based ("iga express" resolves to IGA),
// mirroring how catalog exports label their rows.
func ParseStore(s string) (Store, bool) {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "iga"):
		return StoreIGA, true
	case strings.Contains(lower, "coles"):
		return StoreColes, true
	case strings.Contains(lower, "woolworths"):
		return StoreWoolworths, true
	default:
		return "", false
	}
}

func (s Store) String() string { return string(s) }

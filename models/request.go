package models

// ScrapeRequest is one price-extraction job: a product page URL plus the
// storefront it belongs to. The store string is resolved case-insensitively
// via ParseStore; a request whose store cannot be resolved fails fast with
// an UNSUPPORTED_STORE result and never touches the browser.
type ScrapeRequest struct {
	// URL is the product page to extract a price from. Required.
	URL string `json:"url" binding:"required,url"`

	// Store is the storefront name ("Coles", "IGA", "Woolworths",
	// matched case-insensitively as a substring). Required.
	Store string `json:"store" binding:"required"`
}

// PricesRequest is the payload for POST /api/v1/prices.
type PricesRequest struct {
	// Items is the ordered list of extraction jobs. The response carries
	// exactly one result per item, in the same order.
	Items []ScrapeRequest `json:"items" binding:"required,min=1,max=100,dive"`

	// MaxAgeMs, when > 0, allows serving a cached result no older than
	// this many milliseconds instead of re-scraping.
	MaxAgeMs int `json:"max_age_ms,omitempty" binding:"omitempty,min=0"`
}

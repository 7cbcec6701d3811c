package models

// ScrapeResult is the outcome of one extraction request. Price is non-nil
// iff Status is "success"; Currency is always "$". A result is produced
// exactly once per request and never mutated afterwards.
type ScrapeResult struct {
	Price    *float64 `json:"price"`
	Currency string   `json:"currency"`
	Status   string   `json:"status"` // "success" or "error"
	Message  string   `json:"message"`
	Store    string   `json:"store"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SuccessResult builds a success result for the given store and price.
func SuccessResult(store string, price float64) ScrapeResult {
	p := price
	return ScrapeResult{
		Price:    &p,
		Currency: "$",
		Status:   StatusSuccess,
		Message:  "Price successfully scraped",
		Store:    store,
	}
}

// ErrorResult builds an error result carrying a diagnostic message.
func ErrorResult(store, message string) ScrapeResult {
	return ScrapeResult{
		Currency: "$",
		Status:   StatusError,
		Message:  message,
		Store:    store,
	}
}

// PricesResponse is the response for POST /api/v1/prices. Results are
// one-to-one with the request items, in request order.
type PricesResponse struct {
	Success bool           `json:"success"`
	Results []ScrapeResult `json:"results,omitempty"`
	Error   *ErrorDetail   `json:"error,omitempty"`
}

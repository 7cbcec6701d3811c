package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shelfwatch/shelfwatch/cache"
	"github.com/shelfwatch/shelfwatch/models"
	"github.com/shelfwatch/shelfwatch/scraper"
)

// Prices returns a handler for POST /api/v1/prices.
//
// Flow:
//  1. Parse & validate the ordered item list.
//  2. Serve items from cache when the caller allows a max_age_ms.
//  3. Scrape the remaining items in one batch (ordered, failure-isolated).
//  4. Merge cached and fresh results back into request order, return 200.
//
// A browser launch failure is the only whole-batch error; everything else
// is reported per item.
func Prices(o *scraper.Orchestrator, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PricesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.PricesResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		results := make([]models.ScrapeResult, len(req.Items))

		// Cache pass: collect the items that still need scraping.
		var missing []models.ScrapeRequest
		var missingIdx []int
		for i, item := range req.Items {
			if cc != nil && req.MaxAgeMs > 0 {
				if cached, hit := cc.Get(cache.Key(item.URL, item.Store), req.MaxAgeMs); hit {
					results[i] = cached
					continue
				}
			}
			missing = append(missing, item)
			missingIdx = append(missingIdx, i)
		}

		if len(missing) > 0 {
			fresh, err := o.ScrapeAll(c.Request.Context(), missing)
			if err != nil {
				respondBatchError(c, err)
				return
			}
			for j, r := range fresh {
				results[missingIdx[j]] = r
				if cc != nil {
					cc.Set(cache.Key(missing[j].URL, missing[j].Store), r)
				}
			}
		}

		c.JSON(http.StatusOK, models.PricesResponse{
			Success: true,
			Results: results,
		})
	}
}

// respondBatchError maps a batch-fatal error (browser launch failure) to an
// API response.
func respondBatchError(c *gin.Context, err error) {
	scrapeErr, ok := err.(*models.ScrapeError)
	if !ok {
		scrapeErr = models.NewScrapeError(models.ErrCodeInternal, err.Error(), err)
	}
	c.JSON(http.StatusServiceUnavailable, models.PricesResponse{
		Success: false,
		Error:   scrapeErr.ToDetail(),
	})
}

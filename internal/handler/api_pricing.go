package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/infinitydev4/reenove-sub000/internal/domain"
	"github.com/infinitydev4/reenove-sub000/internal/pricing"
)

// pricingIndexResponse lists the catalog categories.
type pricingIndexResponse struct {
	Categories []domain.Category `json:"categories"`
}

// pricingEntry is one priced line item of a category.
type pricingEntry struct {
	Service string                `json:"service"`
	Pricing domain.ServicePricing `json:"pricing"`
}

// pricingCategoryResponse lists the entries of one category, with an
// optional match when a service description was given.
type pricingCategoryResponse struct {
	Category domain.Category `json:"category"`
	Entries  []pricingEntry  `json:"entries"`
	Match    *pricingMatch   `json:"match,omitempty"`
}

// pricingMatch is the result of matching a service description and,
// when a surface was given, pricing it.
type pricingMatch struct {
	Tier     pricing.MatchTier      `json:"tier"`
	Pricing  domain.ServicePricing  `json:"pricing"`
	Estimate *domain.EstimatedPrice `json:"estimate,omitempty"`
}

// HandlePricingIndex lists the catalog categories.
// GET /api/pricing
func (h *Handler) HandlePricingIndex(w http.ResponseWriter, r *http.Request) {
	JSONWithRequest(w, r, http.StatusOK, pricingIndexResponse{
		Categories: pricing.Categories(),
	})
}

// HandlePricingCategory lists the priced services of a category. With a
// service query parameter the response also carries the matched entry;
// adding surface or description prices it.
// GET /api/pricing/{category}?service=...&surface=...&description=...
func (h *Handler) HandlePricingCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	entries, ok := pricing.Entries(category)
	if !ok {
		APIError(w, r, http.StatusNotFound, "unknown category")
		return
	}

	response := pricingCategoryResponse{
		Category: domain.CanonicalCategory(category),
		Entries:  make([]pricingEntry, 0, len(entries)),
	}
	for _, e := range entries {
		response.Entries = append(response.Entries, pricingEntry{
			Service: e.Key,
			Pricing: e.Pricing,
		})
	}

	if service := r.URL.Query().Get("service"); service != "" {
		start := time.Now()
		p, tier, found := pricing.Find(category, service)
		if found {
			match := &pricingMatch{Tier: tier, Pricing: p}

			surface := r.URL.Query().Get("surface")
			description := r.URL.Query().Get("description")
			if surface != "" || description != "" {
				estimate := pricing.Estimate(p, surface, description)
				match.Estimate = &estimate

				if h.metrics != nil {
					h.metrics.RecordEstimate(string(response.Category), string(tier), time.Since(start))
				}
			}
			response.Match = match
		}
	}

	JSONWithRequest(w, r, http.StatusOK, response)
}

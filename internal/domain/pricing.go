package domain

import "fmt"

// PriceRange is one priced band of a catalog entry.
// Invariant: 0 < Min <= BasePrice <= Max.
type PriceRange struct {
	Min         int    `json:"min"`
	Max         int    `json:"max"`
	Unit        string `json:"unit"`
	BasePrice   int    `json:"base_price"`
	Description string `json:"description"`
}

// Validate checks the PriceRange invariant.
func (p PriceRange) Validate() error {
	if p.Min <= 0 {
		return fmt.Errorf("price range %q: min must be positive, got %d", p.Description, p.Min)
	}
	if p.BasePrice < p.Min || p.BasePrice > p.Max {
		return fmt.Errorf("price range %q: base price %d outside [%d, %d]", p.Description, p.BasePrice, p.Min, p.Max)
	}
	return nil
}

// ServicePricing is one priced catalog line item.
type ServicePricing struct {
	BaseRanges        []PriceRange `json:"base_ranges"`
	Factors           []string     `json:"factors"`
	SurfaceMultiplier bool         `json:"surface_multiplier,omitempty"`
	MinJobPrice       int          `json:"min_job_price,omitempty"`
}

// Validate checks that the entry has at least one range and one factor and
// that every range is coherent.
func (s ServicePricing) Validate() error {
	if len(s.BaseRanges) == 0 {
		return fmt.Errorf("service pricing has no base ranges")
	}
	if len(s.Factors) == 0 {
		return fmt.Errorf("service pricing has no factors")
	}
	for _, r := range s.BaseRanges {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// EstimatedPrice is the output of the estimator.
// Invariant: Min >= 100 and Max >= Min+100.
type EstimatedPrice struct {
	Min     int      `json:"min"`
	Max     int      `json:"max"`
	Factors []string `json:"factors"`
}

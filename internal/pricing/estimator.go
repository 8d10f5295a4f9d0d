package pricing

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/infinitydev4/reenove-sub000/internal/domain"
	"github.com/infinitydev4/reenove-sub000/internal/lexicon"
)

// Estimator floor values: no estimate goes below 100 euros and every
// range spans at least 100 euros.
const (
	minEstimate = 100
	minSpread   = 100
)

// Complexity multiplier adjustments and bounds.
const (
	complexityHighBoost = 0.3
	complexityLowCut    = 0.2
	complexityFloor     = 0.7
	complexityCeil      = 1.8
)

var surfacePattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// Estimate turns a catalog entry plus optional surface and description
// into a bounded price range. Factors are copied from the entry verbatim.
func Estimate(pricing domain.ServicePricing, surfaceText, descriptionText string) domain.EstimatedPrice {
	base := pricing.BaseRanges[0]
	min, max := base.Min, base.Max

	if s, ok := parseSurface(surfaceText); pricing.SurfaceMultiplier && ok {
		min = int(math.Floor(float64(base.Min) * s))
		max = int(math.Ceil(float64(base.Max) * s))
	} else if descriptionText != "" {
		m := complexityMultiplier(descriptionText)
		min = int(math.Floor(float64(min) * m))
		max = int(math.Ceil(float64(max) * m))
	}

	if pricing.MinJobPrice > 0 && min < pricing.MinJobPrice {
		min = pricing.MinJobPrice
	}

	if min < minEstimate {
		min = minEstimate
	}
	if max < min+minSpread {
		max = min + minSpread
	}

	factors := make([]string, len(pricing.Factors))
	copy(factors, pricing.Factors)

	return domain.EstimatedPrice{Min: min, Max: max, Factors: factors}
}

// parseSurface extracts the first positive number from a surface answer
// ("environ 35m²" -> 35). Decimal commas are accepted.
func parseSurface(text string) (float64, bool) {
	token := surfacePattern.FindString(text)
	if token == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", "."), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// complexityMultiplier derives a bounded adjustment from keyword presence
// in the description. Each keyword list contributes at most once no matter
// how many of its words appear.
func complexityMultiplier(description string) float64 {
	folded := lexicon.Fold(description)
	m := 1.0

	for _, kw := range lexicon.HighComplexityKeywords {
		if strings.Contains(folded, kw) {
			m += complexityHighBoost
			break
		}
	}
	for _, kw := range lexicon.LowComplexityKeywords {
		if strings.Contains(folded, kw) {
			m -= complexityLowCut
			break
		}
	}

	if m < complexityFloor {
		m = complexityFloor
	}
	if m > complexityCeil {
		m = complexityCeil
	}
	return m
}

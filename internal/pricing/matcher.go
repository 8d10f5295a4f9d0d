package pricing

import (
	"strings"

	"github.com/infinitydev4/reenove-sub000/internal/domain"
	"github.com/infinitydev4/reenove-sub000/internal/lexicon"
)

// MatchTier records which fallback tier resolved a lookup, for
// diagnostics only.
type MatchTier string

const (
	TierExact     MatchTier = "exact"
	TierSubstring MatchTier = "substring"
	TierKeyword   MatchTier = "keyword"
	TierDefault   MatchTier = "default"
	TierNone      MatchTier = "none"
)

// keywordThreshold is the minimum similarity score for a tier-3 match.
const keywordThreshold = 0.5

// NormalizeServiceKey folds a service name to its matching form:
// lowercase, accent-free, whitespace collapsed.
func NormalizeServiceKey(text string) string {
	return strings.Join(strings.Fields(lexicon.Fold(text)), " ")
}

// Find resolves (category, free-text service description) to a catalog
// entry through tiered fallback: exact key match, substring containment in
// either direction, keyword similarity, then the category's default entry.
// Unknown categories return ok=false.
func Find(category, serviceText string) (domain.ServicePricing, MatchTier, bool) {
	canonical := domain.CanonicalCategory(category)
	entries, ok := catalog[canonical]
	if !ok {
		return domain.ServicePricing{}, TierNone, false
	}

	query := NormalizeServiceKey(serviceText)
	if query != "" {
		// Tier 1: exact.
		for _, e := range entries {
			if e.Key == defaultKey {
				continue
			}
			if NormalizeServiceKey(e.Key) == query {
				return e.Pricing, TierExact, true
			}
		}

		// Tier 2: substring, first declared match wins.
		for _, e := range entries {
			if e.Key == defaultKey {
				continue
			}
			key := NormalizeServiceKey(e.Key)
			if strings.Contains(query, key) || strings.Contains(key, query) {
				return e.Pricing, TierSubstring, true
			}
		}

		// Tier 3: keyword similarity.
		queryKeywords := ExtractKeywords(serviceText)
		if len(queryKeywords) > 0 {
			for _, e := range entries {
				if e.Key == defaultKey {
					continue
				}
				if keywordScore(queryKeywords, ExtractKeywords(e.Key)) >= keywordThreshold {
					return e.Pricing, TierKeyword, true
				}
			}
		}
	}

	// Tier 4: the category's default entry.
	for _, e := range entries {
		if e.Key == defaultKey {
			return e.Pricing, TierDefault, true
		}
	}
	return domain.ServicePricing{}, TierNone, false
}

// ExtractKeywords returns the significant folded words of a text: longer
// than two characters and not a stop word.
func ExtractKeywords(text string) []string {
	words := strings.Fields(lexicon.Fold(text))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ",.!?;:'\"()")
		if len(w) <= 2 || lexicon.StopWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// keywordScore rates the similarity of two keyword sets. Each query
// keyword contributes its best pairing with a key keyword: 1.0 for an
// exact match, 0.8 for the same synonym group, 0.5 when one contains the
// other. The sum is normalized by the larger set size.
func keywordScore(query, key []string) float64 {
	if len(query) == 0 || len(key) == 0 {
		return 0
	}

	var total float64
	for _, q := range query {
		best := 0.0
		for _, k := range key {
			var s float64
			switch {
			case q == k:
				s = 1.0
			case lexicon.SameSynonymGroup(q, k):
				s = 0.8
			case strings.Contains(q, k) || strings.Contains(k, q):
				s = 0.5
			}
			if s > best {
				best = s
			}
		}
		total += best
	}

	larger := len(query)
	if len(key) > larger {
		larger = len(key)
	}
	return total / float64(larger)
}

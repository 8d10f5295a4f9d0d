package pricing

import (
	"testing"
)

func TestNormalizeServiceKey(t *testing.T) {
	if NormalizeServiceKey("Réparer un Robinet") != NormalizeServiceKey("reparer un robinet") {
		t.Error("accent variants should normalize to the same key")
	}
	if got := NormalizeServiceKey("  Pose   de   Faïence  "); got != "pose de faience" {
		t.Errorf("NormalizeServiceKey() = %q", got)
	}
}

func TestFind_ExactMatch(t *testing.T) {
	p, tier, ok := Find("Peinture", "repeindre les murs")
	if !ok {
		t.Fatal("expected a match")
	}
	if tier != TierExact {
		t.Errorf("tier = %q, want exact", tier)
	}
	if p.BaseRanges[0].Unit != "m²" {
		t.Errorf("unit = %q, want m²", p.BaseRanges[0].Unit)
	}
	if !p.SurfaceMultiplier {
		t.Error("expected surface multiplier")
	}
}

func TestFind_ExactMatchIgnoresAccents(t *testing.T) {
	_, tier, ok := Find("Plomberie", "reparer un robinet")
	if !ok || tier != TierExact {
		t.Errorf("tier = %q ok = %v, want exact match despite missing accents", tier, ok)
	}
}

func TestFind_SubstringMatch(t *testing.T) {
	_, tier, ok := Find("Plomberie", "je voudrais réparer un robinet qui goutte")
	if !ok || tier != TierSubstring {
		t.Errorf("tier = %q ok = %v, want substring", tier, ok)
	}
}

func TestFind_KeywordMatch(t *testing.T) {
	// "changer le robinet" is neither exact nor a substring of
	// "réparer un robinet" but shares the robinet keyword.
	p, tier, ok := Find("Plomberie", "changer le robinet")
	if !ok {
		t.Fatal("expected a match")
	}
	if tier != TierKeyword {
		t.Errorf("tier = %q, want keyword", tier)
	}
	if p.BaseRanges[0].BasePrice != 130 {
		t.Errorf("matched wrong entry, base price = %d", p.BaseRanges[0].BasePrice)
	}
}

func TestFind_KeywordFirstDeclaredWins(t *testing.T) {
	// A bare "réparation" scores 0.5 against the first-declared
	// "réparation fuite" entry through its synonym group, so declaration
	// order decides.
	p, tier, ok := Find("Plomberie", "réparation du robinet")
	if !ok || tier != TierKeyword {
		t.Fatalf("tier = %q ok = %v, want keyword", tier, ok)
	}
	if p.BaseRanges[0].BasePrice != 200 {
		t.Errorf("base = %d, want the first-declared entry (200)", p.BaseRanges[0].BasePrice)
	}
}

func TestFind_DefaultFallback(t *testing.T) {
	_, tier, ok := Find("Plomberie", "service inconnu")
	if !ok || tier != TierDefault {
		t.Errorf("tier = %q ok = %v, want default fallback", tier, ok)
	}
}

func TestFind_EmptyServiceReturnsDefaultForEveryCategory(t *testing.T) {
	for _, cat := range Categories() {
		_, tier, ok := Find(string(cat), "")
		if !ok {
			t.Errorf("category %q: empty query should fall back to default", cat)
		}
		if tier != TierDefault {
			t.Errorf("category %q: tier = %q, want default", cat, tier)
		}
	}
}

func TestFind_UnknownCategory(t *testing.T) {
	if _, _, ok := Find("NonexistentCategory", "anything"); ok {
		t.Error("unknown category should not match")
	}
}

func TestFind_AccentVariantCategory(t *testing.T) {
	_, _, ok := Find("Maconnerie", "montage cloison")
	if !ok {
		t.Error("accent-free category spelling should resolve")
	}
	_, _, ok = Find("Maçonnerie", "montage cloison")
	if !ok {
		t.Error("accented category spelling should resolve")
	}
}

func TestVerifyCatalog(t *testing.T) {
	if err := VerifyCatalog(); err != nil {
		t.Fatalf("VerifyCatalog() error = %v", err)
	}
}

func TestCatalogRangesInvariant(t *testing.T) {
	for cat, entries := range catalog {
		for _, e := range entries {
			for _, r := range e.Pricing.BaseRanges {
				if r.Min <= 0 {
					t.Errorf("%s/%s: min %d not positive", cat, e.Key, r.Min)
				}
				if r.BasePrice < r.Min || r.BasePrice > r.Max {
					t.Errorf("%s/%s: base %d outside [%d, %d]", cat, e.Key, r.BasePrice, r.Min, r.Max)
				}
			}
		}
	}
}

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords("réparer les fuites dans la salle de bain")
	want := []string{"reparer", "fuites", "salle", "bain"}
	if len(got) != len(want) {
		t.Fatalf("ExtractKeywords() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keyword[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKeywordScore(t *testing.T) {
	tests := []struct {
		name  string
		query []string
		key   []string
		min   float64
		max   float64
	}{
		{"exact overlap", []string{"robinet"}, []string{"robinet"}, 1.0, 1.0},
		{"synonym group", []string{"reparation"}, []string{"reparer"}, 0.8, 0.8},
		{"containment", []string{"robinets"}, []string{"robinet"}, 0.5, 0.5},
		{"disjoint", []string{"jardin"}, []string{"robinet"}, 0, 0},
		{"normalized by larger set", []string{"reparer"}, []string{"reparer", "robinet", "cuisine"}, 1.0 / 3, 1.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keywordScore(tt.query, tt.key)
			if got < tt.min-1e-9 || got > tt.max+1e-9 {
				t.Errorf("keywordScore() = %v, want in [%v, %v]", got, tt.min, tt.max)
			}
		})
	}
}

func TestFind_TierOrderPrefersExactOverSubstring(t *testing.T) {
	// "peinture plafond" is an exact key; ensure it does not get captured
	// by the earlier-declared "repeindre les murs" keyword tier.
	p, tier, ok := Find("Peinture", "Peinture Plafond")
	if !ok || tier != TierExact {
		t.Fatalf("tier = %q ok = %v, want exact", tier, ok)
	}
	if p.BaseRanges[0].BasePrice != 25 {
		t.Errorf("matched wrong entry, base = %d", p.BaseRanges[0].BasePrice)
	}
}

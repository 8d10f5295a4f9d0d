// Package normalize maps raw user answers onto canonical record values
// using per-field synonym tables and the shared lexicon.
package normalize

import (
	"sort"
	"strings"

	"github.com/infinitydev4/reenove-sub000/internal/domain"
	"github.com/infinitydev4/reenove-sub000/internal/lexicon"
)

// fieldSynonyms maps folded input keys to canonical values, per field.
// Lookup is exact first, then substring containment in either direction.
var fieldSynonyms = map[domain.FieldID]map[string]string{
	domain.FieldCategory: {
		"peinture":            "Peinture",
		"peindre":             "Peinture",
		"repeindre":           "Peinture",
		"plomberie":           "Plomberie",
		"fuite":               "Plomberie",
		"robinet":             "Plomberie",
		"canalisation":        "Plomberie",
		"electricite":         "Électricité",
		"electrique":          "Électricité",
		"prise":               "Électricité",
		"tableau electrique":  "Électricité",
		"maconnerie":          "Maçonnerie",
		"cloison":             "Maçonnerie",
		"mur porteur":         "Maçonnerie",
		"menuiserie":          "Menuiserie",
		"porte":               "Menuiserie",
		"fenetre":             "Menuiserie",
		"parquet":             "Menuiserie",
		"carrelage":           "Carrelage",
		"faience":             "Carrelage",
		"chauffage":           "Chauffage",
		"radiateur":           "Chauffage",
		"chaudiere":           "Chauffage",
		"renovation complete": "Rénovation complète",
		"tout renover":        "Rénovation complète",
	},
	domain.FieldCurrentState: {
		"neuf":           "neuf",
		"tout neuf":      "neuf",
		"bon etat":       "bon état",
		"bon":            "bon état",
		"correct":        "état moyen",
		"moyen":          "état moyen",
		"etat moyen":     "état moyen",
		"mauvais":        "mauvais état",
		"mauvais etat":   "mauvais état",
		"abime":          "mauvais état",
		"vetuste":        "mauvais état",
		"degrade":        "mauvais état",
		"a renover":      "à rénover",
		"tout a refaire": "à rénover",
	},
	domain.FieldUrgency: {
		"urgent":            "urgent",
		"tres urgent":       "urgent",
		"au plus vite":      "urgent",
		"rapidement":        "urgent",
		"cette semaine":     "urgent",
		"sous 1 mois":       "sous 1 mois",
		"dans le mois":      "sous 1 mois",
		"ce mois-ci":        "sous 1 mois",
		"pas presse":        "pas pressé",
		"pas urgent":        "pas pressé",
		"quand vous voulez": "pas pressé",
		"flexible":          "pas pressé",
	},
	domain.FieldMaterials: {
		"standard":        "standard",
		"entree de gamme": "standard",
		"basique":         "standard",
		"milieu de gamme": "milieu de gamme",
		"moyen":           "milieu de gamme",
		"haut de gamme":   "haut de gamme",
		"premium":         "haut de gamme",
		"luxe":            "haut de gamme",
		"je ne sais pas":  "je ne sais pas",
		"aucune idee":     "je ne sais pas",
	},
}

// Value maps raw text to the canonical value for a field. Room types go
// through multi-label extraction; other fields consult their synonym
// table; unmatched input comes back trimmed but otherwise unchanged.
func Value(id domain.FieldID, category domain.Category, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return trimmed
	}

	if id == domain.FieldRoomType {
		return extractRooms(trimmed)
	}

	table, ok := fieldSynonyms[id]
	if !ok {
		return trimmed
	}

	key := lexicon.Fold(trimmed)
	if canonical, ok := table[key]; ok {
		return canonical
	}
	// Sorted scan keeps containment matches deterministic when several
	// synonyms occur in the same answer.
	for _, synonym := range sortedKeys(table) {
		if strings.Contains(key, synonym) || strings.Contains(synonym, key) {
			return table[synonym]
		}
	}
	return trimmed
}

func sortedKeys(table map[string]string) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// extractRooms scans the input against the room vocabulary and collects
// every canonical room found, de-duplicated, in first-match order. When
// nothing matches, the raw text is returned unchanged.
func extractRooms(raw string) string {
	folded := lexicon.Fold(raw)

	type hit struct {
		name  string
		index int
	}
	var hits []hit
	seen := make(map[string]bool)

	for _, room := range lexicon.Rooms {
		best := -1
		for _, variant := range room.Variants {
			if i := strings.Index(folded, variant); i >= 0 && (best == -1 || i < best) {
				best = i
			}
		}
		if best >= 0 && !seen[room.Canonical] {
			seen[room.Canonical] = true
			hits = append(hits, hit{name: room.Canonical, index: best})
		}
	}

	if len(hits) == 0 {
		return raw
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].index < hits[j].index })

	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.name
	}
	return strings.Join(names, ", ")
}

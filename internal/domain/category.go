// Package domain contains the core business entities for the renovation
// quote assistant: project records, conversation state, categories and
// pricing value types.
package domain

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category identifies a renovation trade. The canonical form is lowercase
// and accent-free so that "Maçonnerie" and "Maconnerie" resolve to the
// same value at every table boundary.
type Category string

const (
	CategoryPeinture    Category = "peinture"
	CategoryPlomberie   Category = "plomberie"
	CategoryElectricite Category = "electricite"
	CategoryMaconnerie  Category = "maconnerie"
	CategoryMenuiserie  Category = "menuiserie"
	CategoryCarrelage   Category = "carrelage"
	CategoryChauffage   Category = "chauffage"
	CategoryRenovation  Category = "renovation complete"

	// CategoryDefault is the fallback for inputs that do not resolve to a
	// known trade. Schema and suggestion lookups fall back to it.
	CategoryDefault Category = "default"
)

// AllCategories lists every known trade, excluding the default fallback.
var AllCategories = []Category{
	CategoryPeinture,
	CategoryPlomberie,
	CategoryElectricite,
	CategoryMaconnerie,
	CategoryMenuiserie,
	CategoryCarrelage,
	CategoryChauffage,
	CategoryRenovation,
}

// displayNames maps canonical categories to their user-facing French labels.
var displayNames = map[Category]string{
	CategoryPeinture:    "Peinture",
	CategoryPlomberie:   "Plomberie",
	CategoryElectricite: "Électricité",
	CategoryMaconnerie:  "Maçonnerie",
	CategoryMenuiserie:  "Menuiserie",
	CategoryCarrelage:   "Carrelage",
	CategoryChauffage:   "Chauffage",
	CategoryRenovation:  "Rénovation complète",
	CategoryDefault:     "Autre",
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips diacritics ("Électricité" -> "electricite").
func Fold(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// CanonicalCategory maps a raw category string to its canonical Category.
// Unknown inputs map to CategoryDefault.
func CanonicalCategory(raw string) Category {
	key := strings.Join(strings.Fields(Fold(raw)), " ")
	for _, c := range AllCategories {
		if key == string(c) {
			return c
		}
	}
	// Tolerate the common short form.
	if key == "renovation" {
		return CategoryRenovation
	}
	return CategoryDefault
}

// Display returns the user-facing label for the category.
func (c Category) Display() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return string(c)
}

// VerifyCategoryTable checks at startup that canonicalization does not make
// two declared categories collide (accent-variant duplicate keys would
// silently shadow each other otherwise).
func VerifyCategoryTable() error {
	seen := make(map[string]Category, len(AllCategories))
	for _, c := range AllCategories {
		key := Fold(string(c))
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("categories %q and %q collide on canonical key %q", prev, c, key)
		}
		seen[key] = c
	}
	return nil
}

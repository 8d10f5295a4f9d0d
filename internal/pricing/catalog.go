// Package pricing maps free-text service descriptions onto priced catalog
// entries and turns them into bounded estimates.
package pricing

import (
	"fmt"

	"github.com/infinitydev4/reenove-sub000/internal/domain"
)

// Entry is one priced line item of a category, keyed by its service name.
// Entries keep declaration order because substring and keyword matching
// resolve ties by first declaration.
type Entry struct {
	Key     string
	Pricing domain.ServicePricing
}

// defaultKey is the per-category fallback entry every category must carry.
const defaultKey = "default"

// catalog holds the priced line items per canonical category. All prices
// are in euros.
var catalog = map[domain.Category][]Entry{
	domain.CategoryPeinture: {
		{Key: "repeindre les murs", Pricing: domain.ServicePricing{
			BaseRanges:        []domain.PriceRange{{Min: 15, Max: 20, Unit: "m²", BasePrice: 17, Description: "Peinture des murs, deux couches"}},
			Factors:           []string{"surface à peindre", "état des murs", "nombre de couches"},
			SurfaceMultiplier: true,
			MinJobPrice:       150,
		}},
		{Key: "peinture plafond", Pricing: domain.ServicePricing{
			BaseRanges:        []domain.PriceRange{{Min: 20, Max: 30, Unit: "m²", BasePrice: 25, Description: "Peinture de plafond"}},
			Factors:           []string{"surface", "hauteur sous plafond", "état du support"},
			SurfaceMultiplier: true,
			MinJobPrice:       180,
		}},
		{Key: "pose papier peint", Pricing: domain.ServicePricing{
			BaseRanges:        []domain.PriceRange{{Min: 18, Max: 28, Unit: "m²", BasePrice: 22, Description: "Pose de papier peint"}},
			Factors:           []string{"surface", "type de papier", "préparation des murs"},
			SurfaceMultiplier: true,
		}},
		{Key: defaultKey, Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 300, Max: 1500, Unit: "forfait", BasePrice: 800, Description: "Travaux de peinture"}},
			Factors:    []string{"surface", "état des supports", "gamme de peinture"},
		}},
	},
	domain.CategoryPlomberie: {
		{Key: "réparation fuite", Pricing: domain.ServicePricing{
			BaseRanges:  []domain.PriceRange{{Min: 120, Max: 350, Unit: "forfait", BasePrice: 200, Description: "Recherche et réparation de fuite"}},
			Factors:     []string{"accessibilité", "urgence", "pièces à remplacer"},
			MinJobPrice: 120,
		}},
		{Key: "réparer un robinet", Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 90, Max: 180, Unit: "forfait", BasePrice: 130, Description: "Réparation ou remplacement de robinet"}},
			Factors:    []string{"type de robinetterie", "accessibilité"},
		}},
		{Key: "déboucher canalisation", Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 100, Max: 250, Unit: "forfait", BasePrice: 160, Description: "Débouchage de canalisation"}},
			Factors:    []string{"localisation du bouchon", "accès", "caméra d'inspection"},
		}},
		{Key: "installation chauffe-eau", Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 400, Max: 900, Unit: "forfait", BasePrice: 650, Description: "Pose d'un chauffe-eau"}},
			Factors:    []string{"capacité", "dépose de l'ancien", "mise aux normes"},
		}},
		{Key: defaultKey, Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 110, Max: 400, Unit: "forfait", BasePrice: 220, Description: "Intervention plomberie"}},
			Factors:    []string{"nature de l'intervention", "urgence", "fournitures"},
		}},
	},
	domain.CategoryElectricite: {
		{Key: "installation prises", Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 80, Max: 150, Unit: "unité", BasePrice: 110, Description: "Pose de prise électrique"}},
			Factors:    []string{"nombre de prises", "distance au tableau", "saignées"},
		}},
		{Key: "remplacement tableau électrique", Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 700, Max: 1500, Unit: "forfait", BasePrice: 1100, Description: "Remplacement du tableau électrique"}},
			Factors:    []string{"nombre de circuits", "mise à la terre", "norme NF C 15-100"},
		}},
		{Key: "pose luminaires", Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 60, Max: 140, Unit: "unité", BasePrice: 90, Description: "Pose de luminaire"}},
			Factors:    []string{"type de luminaire", "hauteur", "câblage existant"},
		}},
		{Key: defaultKey, Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 150, Max: 600, Unit: "forfait", BasePrice: 300, Description: "Intervention électricité"}},
			Factors:    []string{"nature de l'intervention", "état de l'installation"},
		}},
	},
	domain.CategoryMaconnerie: {
		{Key: "montage cloison", Pricing: domain.ServicePricing{
			BaseRanges:        []domain.PriceRange{{Min: 40, Max: 70, Unit: "m²", BasePrice: 55, Description: "Montage de cloison placo"}},
			Factors:           []string{"surface", "isolation", "finitions"},
			SurfaceMultiplier: true,
			MinJobPrice:       350,
		}},
		{Key: "ouverture mur porteur", Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 1500, Max: 4000, Unit: "forfait", BasePrice: 2500, Description: "Ouverture dans un mur porteur"}},
			Factors:    []string{"étude structure", "largeur d'ouverture", "reprise de charge"},
		}},
		{Key: "réparation fissures", Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 200, Max: 600, Unit: "forfait", BasePrice: 350, Description: "Reprise de fissures"}},
			Factors:    []string{"profondeur des fissures", "cause structurelle", "surface"},
		}},
		{Key: defaultKey, Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 500, Max: 2500, Unit: "forfait", BasePrice: 1200, Description: "Travaux de maçonnerie"}},
			Factors:    []string{"ampleur des travaux", "accès au chantier", "évacuation des gravats"},
		}},
	},
	domain.CategoryMenuiserie: {
		{Key: "remplacement porte", Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 250, Max: 600, Unit: "forfait", BasePrice: 400, Description: "Remplacement de porte intérieure"}},
			Factors:    []string{"type de porte", "reprise du bâti", "quincaillerie"},
		}},
		{Key: "pose fenêtres", Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 400, Max: 900, Unit: "unité", BasePrice: 600, Description: "Pose de fenêtre double vitrage"}},
			Factors:    []string{"dimensions", "matériau", "dépose de l'existant"},
		}},
		{Key: "pose parquet", Pricing: domain.ServicePricing{
			BaseRanges:        []domain.PriceRange{{Min: 30, Max: 60, Unit: "m²", BasePrice: 45, Description: "Pose de parquet flottant"}},
			Factors:           []string{"surface", "type de pose", "préparation du sol"},
			SurfaceMultiplier: true,
			MinJobPrice:       300,
		}},
		{Key: defaultKey, Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 300, Max: 1200, Unit: "forfait", BasePrice: 600, Description: "Travaux de menuiserie"}},
			Factors:    []string{"essence de bois", "sur-mesure ou standard"},
		}},
	},
	domain.CategoryCarrelage: {
		{Key: "carrelage sol", Pricing: domain.ServicePricing{
			BaseRanges:        []domain.PriceRange{{Min: 40, Max: 90, Unit: "m²", BasePrice: 60, Description: "Pose de carrelage au sol"}},
			Factors:           []string{"surface", "format des carreaux", "ragréage"},
			SurfaceMultiplier: true,
			MinJobPrice:       400,
		}},
		{Key: "faïence murale", Pricing: domain.ServicePricing{
			BaseRanges:        []domain.PriceRange{{Min: 45, Max: 95, Unit: "m²", BasePrice: 65, Description: "Pose de faïence murale"}},
			Factors:           []string{"surface", "découpes", "état du support"},
			SurfaceMultiplier: true,
		}},
		{Key: defaultKey, Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 400, Max: 2000, Unit: "forfait", BasePrice: 900, Description: "Travaux de carrelage"}},
			Factors:    []string{"surface", "gamme de carrelage", "dépose de l'existant"},
		}},
	},
	domain.CategoryChauffage: {
		{Key: "remplacement chaudière", Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 1500, Max: 4500, Unit: "forfait", BasePrice: 2800, Description: "Remplacement de chaudière"}},
			Factors:    []string{"type de chaudière", "puissance", "évacuation des fumées"},
		}},
		{Key: "installation radiateurs", Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 300, Max: 700, Unit: "unité", BasePrice: 450, Description: "Pose de radiateur"}},
			Factors:    []string{"nombre de radiateurs", "type d'émetteur", "raccordement"},
		}},
		{Key: defaultKey, Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 250, Max: 1500, Unit: "forfait", BasePrice: 700, Description: "Intervention chauffage"}},
			Factors:    []string{"nature de l'intervention", "accès", "pièces détachées"},
		}},
	},
	domain.CategoryRenovation: {
		{Key: "rénovation complète", Pricing: domain.ServicePricing{
			BaseRanges:        []domain.PriceRange{{Min: 450, Max: 1200, Unit: "m²", BasePrice: 800, Description: "Rénovation complète tous corps d'état"}},
			Factors:           []string{"surface", "état initial", "gamme des prestations"},
			SurfaceMultiplier: true,
			MinJobPrice:       5000,
		}},
		{Key: "rénovation partielle", Pricing: domain.ServicePricing{
			BaseRanges:        []domain.PriceRange{{Min: 250, Max: 700, Unit: "m²", BasePrice: 450, Description: "Rénovation partielle"}},
			Factors:           []string{"surface", "lots concernés", "état initial"},
			SurfaceMultiplier: true,
			MinJobPrice:       2000,
		}},
		{Key: defaultKey, Pricing: domain.ServicePricing{
			BaseRanges: []domain.PriceRange{{Min: 1000, Max: 10000, Unit: "forfait", BasePrice: 4000, Description: "Projet de rénovation"}},
			Factors:    []string{"ampleur du projet", "corps d'état concernés"},
		}},
	},
}

// Categories returns the canonical categories present in the catalog.
func Categories() []domain.Category {
	out := make([]domain.Category, 0, len(catalog))
	for _, c := range domain.AllCategories {
		if _, ok := catalog[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Entries returns the priced line items of a category in declaration
// order. Unknown categories return ok=false.
func Entries(category string) ([]Entry, bool) {
	entries, ok := catalog[domain.CanonicalCategory(category)]
	return entries, ok
}

// VerifyCatalog checks the catalog invariants at startup: every category
// carries a default entry and every price range is coherent.
func VerifyCatalog() error {
	for category, entries := range catalog {
		hasDefault := false
		for _, e := range entries {
			if e.Key == defaultKey {
				hasDefault = true
			}
			if err := e.Pricing.Validate(); err != nil {
				return fmt.Errorf("catalog %s/%s: %w", category, e.Key, err)
			}
		}
		if !hasDefault {
			return fmt.Errorf("catalog category %s has no default entry", category)
		}
	}
	return nil
}

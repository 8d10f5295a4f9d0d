package schema

import "github.com/infinitydev4/reenove-sub000/internal/domain"

// genericUrgencyOptions is the field-level fallback for urgency when no
// category-specific list exists.
var genericUrgencyOptions = []domain.Option{
	{ID: "urgent", Label: "C'est urgent (sous 1 semaine)", CanonicalValue: "urgent"},
	{ID: "month", Label: "Dans le mois", CanonicalValue: "sous 1 mois"},
	{ID: "flexible", Label: "Pas pressé", CanonicalValue: "pas pressé"},
}

// serviceTypeSuggestions offers per-category starting points for the
// free-text service description.
var serviceTypeSuggestions = map[domain.Category][]domain.Option{
	domain.CategoryPeinture: {
		{ID: "murs", Label: "Repeindre les murs", CanonicalValue: "repeindre les murs"},
		{ID: "plafond", Label: "Peindre le plafond", CanonicalValue: "peinture plafond"},
		{ID: "papier", Label: "Poser du papier peint", CanonicalValue: "pose papier peint"},
	},
	domain.CategoryPlomberie: {
		{ID: "fuite", Label: "Réparer une fuite", CanonicalValue: "réparation fuite"},
		{ID: "robinet", Label: "Réparer un robinet", CanonicalValue: "réparer un robinet"},
		{ID: "deboucher", Label: "Déboucher une canalisation", CanonicalValue: "déboucher canalisation"},
	},
	domain.CategoryElectricite: {
		{ID: "prise", Label: "Installer des prises", CanonicalValue: "installation prises"},
		{ID: "tableau", Label: "Remplacer le tableau électrique", CanonicalValue: "remplacement tableau électrique"},
		{ID: "luminaire", Label: "Poser des luminaires", CanonicalValue: "pose luminaires"},
	},
	domain.CategoryMaconnerie: {
		{ID: "cloison", Label: "Monter une cloison", CanonicalValue: "montage cloison"},
		{ID: "ouverture", Label: "Ouvrir un mur porteur", CanonicalValue: "ouverture mur porteur"},
		{ID: "fissure", Label: "Reboucher des fissures", CanonicalValue: "réparation fissures"},
	},
	domain.CategoryMenuiserie: {
		{ID: "porte", Label: "Remplacer une porte", CanonicalValue: "remplacement porte"},
		{ID: "fenetre", Label: "Poser des fenêtres", CanonicalValue: "pose fenêtres"},
		{ID: "parquet", Label: "Poser du parquet", CanonicalValue: "pose parquet"},
	},
	domain.CategoryCarrelage: {
		{ID: "sol", Label: "Carreler un sol", CanonicalValue: "carrelage sol"},
		{ID: "mural", Label: "Poser de la faïence murale", CanonicalValue: "faïence murale"},
	},
	domain.CategoryChauffage: {
		{ID: "chaudiere", Label: "Remplacer la chaudière", CanonicalValue: "remplacement chaudière"},
		{ID: "radiateur", Label: "Installer des radiateurs", CanonicalValue: "installation radiateurs"},
	},
	domain.CategoryRenovation: {
		{ID: "complete", Label: "Rénovation complète", CanonicalValue: "rénovation complète"},
		{ID: "partielle", Label: "Rénovation partielle", CanonicalValue: "rénovation partielle"},
	},
}

// roomTypeSuggestions offers the most likely rooms per category.
var roomTypeSuggestions = map[domain.Category][]domain.Option{
	domain.CategoryPeinture: {
		{ID: "salon", Label: "Salon", CanonicalValue: "salon"},
		{ID: "chambre", Label: "Chambre", CanonicalValue: "chambre"},
		{ID: "cuisine", Label: "Cuisine", CanonicalValue: "cuisine"},
	},
	domain.CategoryCarrelage: {
		{ID: "sdb", Label: "Salle de bain", CanonicalValue: "salle de bain"},
		{ID: "cuisine", Label: "Cuisine", CanonicalValue: "cuisine"},
	},
}

// genericRoomOptions is the field-level fallback room list.
var genericRoomOptions = []domain.Option{
	{ID: "salon", Label: "Salon", CanonicalValue: "salon"},
	{ID: "cuisine", Label: "Cuisine", CanonicalValue: "cuisine"},
	{ID: "sdb", Label: "Salle de bain", CanonicalValue: "salle de bain"},
	{ID: "chambre", Label: "Chambre", CanonicalValue: "chambre"},
}

// categorySuggestions keyed by field, then category. Fields absent from
// this table fall back to their field-level generic list; fields with no
// generic list either are free text and get no suggestions.
var categorySuggestions = map[domain.FieldID]map[domain.Category][]domain.Option{
	domain.FieldServiceType: serviceTypeSuggestions,
	domain.FieldRoomType:    roomTypeSuggestions,
}

// genericSuggestions is the field-level fallback tier.
var genericSuggestions = map[domain.FieldID][]domain.Option{
	domain.FieldCategory: categoryOptions(),
	domain.FieldUrgency:  genericUrgencyOptions,
	domain.FieldRoomType: genericRoomOptions,
	domain.FieldCurrentState: {
		{ID: "bon", Label: "Bon état", CanonicalValue: "bon état"},
		{ID: "moyen", Label: "État moyen", CanonicalValue: "état moyen"},
		{ID: "mauvais", Label: "Mauvais état", CanonicalValue: "mauvais état"},
	},
	domain.FieldMaterials: {
		{ID: "standard", Label: "Standard", CanonicalValue: "standard"},
		{ID: "milieu", Label: "Milieu de gamme", CanonicalValue: "milieu de gamme"},
		{ID: "haut", Label: "Haut de gamme", CanonicalValue: "haut de gamme"},
	},
}

// SuggestionsFor returns the bounded option list for a (field, category)
// pair: category-specific first, field-level generic second, empty for
// free-text fields with no list.
func SuggestionsFor(id domain.FieldID, category domain.Category) []domain.Option {
	if byCategory, ok := categorySuggestions[id]; ok {
		if opts, ok := byCategory[category]; ok {
			return cloneOptions(opts)
		}
	}
	if opts, ok := genericSuggestions[id]; ok {
		return cloneOptions(opts)
	}
	return nil
}

func cloneOptions(opts []domain.Option) []domain.Option {
	out := make([]domain.Option, len(opts))
	copy(out, opts)
	return out
}

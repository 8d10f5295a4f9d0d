// Package schema is the read-only field registry: which fields exist, what
// they ask, which are required per category, when a stored answer is good
// enough, and which suggestions to offer.
package schema

import (
	"github.com/infinitydev4/reenove-sub000/internal/domain"
)

// fieldConfigs is the static metadata for every known field.
var fieldConfigs = map[domain.FieldID]domain.FieldConfig{
	domain.FieldCategory: {
		ID:               domain.FieldCategory,
		DisplayName:      "Type de travaux",
		QuestionTemplate: "Quel type de travaux souhaitez-vous réaliser ?",
		AnswerKind:       domain.AnswerSingleChoice,
		Options:          categoryOptions(),
		Required:         true,
	},
	domain.FieldServiceType: {
		ID:               domain.FieldServiceType,
		DisplayName:      "Prestation",
		QuestionTemplate: "Pouvez-vous préciser la prestation souhaitée ?",
		AnswerKind:       domain.AnswerFreeText,
		Required:         true,
	},
	domain.FieldDescription: {
		ID:               domain.FieldDescription,
		DisplayName:      "Description du projet",
		QuestionTemplate: "Décrivez votre projet en quelques mots.",
		AnswerKind:       domain.AnswerFreeText,
		Required:         true,
	},
	domain.FieldSurface: {
		ID:               domain.FieldSurface,
		DisplayName:      "Surface concernée",
		QuestionTemplate: "Quelle est la surface concernée (en m²) ?",
		AnswerKind:       domain.AnswerFreeText,
	},
	domain.FieldRoomType: {
		ID:               domain.FieldRoomType,
		DisplayName:      "Pièce(s) concernée(s)",
		QuestionTemplate: "Quelle(s) pièce(s) sont concernées par les travaux ?",
		AnswerKind:       domain.AnswerMultipleChoice,
	},
	domain.FieldCurrentState: {
		ID:               domain.FieldCurrentState,
		DisplayName:      "État actuel",
		QuestionTemplate: "Quel est l'état actuel ?",
		AnswerKind:       domain.AnswerSingleChoice,
		Options: []domain.Option{
			{ID: "neuf", Label: "Neuf", CanonicalValue: "neuf"},
			{ID: "bon", Label: "Bon état", CanonicalValue: "bon état"},
			{ID: "moyen", Label: "État moyen", CanonicalValue: "état moyen"},
			{ID: "mauvais", Label: "Mauvais état", CanonicalValue: "mauvais état"},
			{ID: "a_renover", Label: "À rénover entièrement", CanonicalValue: "à rénover"},
		},
	},
	domain.FieldUrgency: {
		ID:               domain.FieldUrgency,
		DisplayName:      "Urgence",
		QuestionTemplate: "Quand souhaitez-vous démarrer les travaux ?",
		AnswerKind:       domain.AnswerSingleChoice,
		Options:          genericUrgencyOptions,
	},
	domain.FieldMaterials: {
		ID:               domain.FieldMaterials,
		DisplayName:      "Matériaux",
		QuestionTemplate: "Quelle gamme de matériaux envisagez-vous ?",
		AnswerKind:       domain.AnswerSingleChoice,
		Options: []domain.Option{
			{ID: "standard", Label: "Standard", CanonicalValue: "standard"},
			{ID: "milieu", Label: "Milieu de gamme", CanonicalValue: "milieu de gamme"},
			{ID: "haut", Label: "Haut de gamme", CanonicalValue: "haut de gamme"},
			{ID: "nsp", Label: "Je ne sais pas encore", CanonicalValue: "je ne sais pas"},
		},
	},
	domain.FieldPhotos: {
		ID:               domain.FieldPhotos,
		DisplayName:      "Photos",
		QuestionTemplate: "Avez-vous des photos à nous transmettre ? (facultatif)",
		AnswerKind:       domain.AnswerFreeText,
	},
	domain.FieldLocation: {
		ID:               domain.FieldLocation,
		DisplayName:      "Localisation",
		QuestionTemplate: "Où se situe le chantier (ville et code postal) ?",
		AnswerKind:       domain.AnswerFreeText,
		Required:         true,
	},
}

func categoryOptions() []domain.Option {
	opts := make([]domain.Option, 0, len(domain.AllCategories))
	for _, c := range domain.AllCategories {
		opts = append(opts, domain.Option{
			ID:             string(c),
			Label:          c.Display(),
			CanonicalValue: c.Display(),
		})
	}
	return opts
}

// baseRequired is mandatory for every category, in asking order.
var baseRequired = []domain.FieldID{
	domain.FieldCategory,
	domain.FieldServiceType,
	domain.FieldDescription,
}

// conditionalFields lists the category-specific fields asked after the
// base ones. The "default" entry serves unmatched categories.
var conditionalFields = map[domain.Category][]domain.FieldID{
	domain.CategoryPeinture:    {domain.FieldSurface, domain.FieldRoomType, domain.FieldCurrentState},
	domain.CategoryPlomberie:   {domain.FieldUrgency, domain.FieldCurrentState},
	domain.CategoryElectricite: {domain.FieldUrgency, domain.FieldRoomType},
	domain.CategoryMaconnerie:  {domain.FieldSurface, domain.FieldMaterials},
	domain.CategoryMenuiserie:  {domain.FieldMaterials, domain.FieldRoomType},
	domain.CategoryCarrelage:   {domain.FieldSurface, domain.FieldRoomType, domain.FieldMaterials},
	domain.CategoryChauffage:   {domain.FieldCurrentState, domain.FieldUrgency},
	domain.CategoryRenovation:  {domain.FieldSurface, domain.FieldRoomType},
	domain.CategoryDefault:     {domain.FieldSurface},
}

// FieldConfigFor returns the metadata of a field.
func FieldConfigFor(id domain.FieldID) (domain.FieldConfig, bool) {
	cfg, ok := fieldConfigs[id]
	return cfg, ok
}

// BaseRequiredFields returns the fields mandatory for every category, in
// asking order.
func BaseRequiredFields() []domain.FieldID {
	out := make([]domain.FieldID, len(baseRequired))
	copy(out, baseRequired)
	return out
}

// ConditionalFieldsFor returns the category-specific fields, falling back
// to the default set for unmatched categories.
func ConditionalFieldsFor(category domain.Category) []domain.FieldID {
	fields, ok := conditionalFields[category]
	if !ok {
		fields = conditionalFields[domain.CategoryDefault]
	}
	out := make([]domain.FieldID, len(fields))
	copy(out, fields)
	return out
}

// RequiredFieldsFor returns the complete canonical asking order for a
// category: base required, conditional, then photos and finally location.
// Location is always last, regardless of category.
func RequiredFieldsFor(category domain.Category) []domain.FieldID {
	out := BaseRequiredFields()
	out = append(out, ConditionalFieldsFor(category)...)
	out = append(out, domain.FieldPhotos, domain.FieldLocation)
	return out
}

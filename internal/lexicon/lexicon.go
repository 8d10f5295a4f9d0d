// Package lexicon holds the shared French vocabulary tables: synonym
// groups, stop words, room names and complexity keywords. Both the value
// normalizer and the pricing keyword scorer read from here so the two
// never drift apart.
package lexicon

import "github.com/infinitydev4/reenove-sub000/internal/domain"

// SynonymGroups clusters keywords that mean the same thing for matching
// purposes. All entries are canonical (lowercase, accent-free) forms.
var SynonymGroups = [][]string{
	{"reparer", "reparation", "repare", "refaire", "fixer", "remettre"},
	{"installer", "installation", "pose", "poser", "monter", "montage"},
	{"peindre", "peinture", "repeindre", "peint"},
	{"remplacer", "remplacement", "changer", "changement"},
	{"renover", "renovation", "rafraichir"},
	{"fuite", "fuit", "coule", "ecoulement"},
	{"deboucher", "bouche", "bouchee", "engorge"},
	{"casser", "casse", "cassee", "abattre", "demolir"},
	{"carreler", "carrelage", "faience"},
	{"isoler", "isolation"},
}

// groupIndex maps each keyword to its group id for O(1) lookup.
var groupIndex = func() map[string]int {
	idx := make(map[string]int)
	for i, group := range SynonymGroups {
		for _, w := range group {
			idx[w] = i
		}
	}
	return idx
}()

// SameSynonymGroup reports whether two canonical keywords belong to the
// same synonym group.
func SameSynonymGroup(a, b string) bool {
	ga, oka := groupIndex[a]
	gb, okb := groupIndex[b]
	return oka && okb && ga == gb
}

// StopWords are short function words excluded from keyword scoring.
// Words of length <= 2 are filtered before this list is consulted.
var StopWords = map[string]bool{
	"les": true, "des": true, "une": true, "mon": true, "mes": true,
	"pour": true, "dans": true, "sur": true, "avec": true, "chez": true,
	"est": true, "son": true, "ses": true, "aux": true, "par": true,
	"que": true, "qui": true, "tout": true, "tous": true,
}

// Room is one entry of the curated room vocabulary: a canonical name and
// its synonym variants. Variants are matched as substrings against the
// canonicalized input.
type Room struct {
	Canonical string
	Variants  []string
}

// Rooms is the curated room-name vocabulary. Variants include the common
// abbreviations ("sdb") and near-synonyms ("sejour" for "salon").
var Rooms = []Room{
	{Canonical: "salon", Variants: []string{"salon", "sejour", "piece a vivre", "living"}},
	{Canonical: "cuisine", Variants: []string{"cuisine"}},
	{Canonical: "salle de bain", Variants: []string{"salle de bain", "salle de bains", "sdb", "salle d'eau"}},
	{Canonical: "chambre", Variants: []string{"chambre"}},
	{Canonical: "toilettes", Variants: []string{"toilettes", "toilette", "wc"}},
	{Canonical: "couloir", Variants: []string{"couloir"}},
	{Canonical: "entrée", Variants: []string{"entree"}},
	{Canonical: "bureau", Variants: []string{"bureau"}},
	{Canonical: "cave", Variants: []string{"cave", "sous-sol", "sous sol"}},
	{Canonical: "garage", Variants: []string{"garage"}},
	{Canonical: "grenier", Variants: []string{"grenier", "combles"}},
	{Canonical: "terrasse", Variants: []string{"terrasse"}},
	{Canonical: "balcon", Variants: []string{"balcon"}},
}

// FillerWords are validation fillers stripped by the clean pass regardless
// of field ("Exactement, 35m²" -> "35m²").
var FillerWords = []string{
	"exactement", "parfait", "effectivement", "tout a fait",
	"c'est ca", "voila", "oui c'est ca", "absolument",
}

// PhotoSkipPhrases are answers that count as an explicit photo opt-out.
var PhotoSkipPhrases = []string{
	"non", "pas d'image", "pas d'images", "pas de photo", "pas de photos",
	"plus tard", "sans photo", "aucune", "je n'en ai pas", "skip",
}

// HighComplexityKeywords raise the estimator's complexity multiplier.
var HighComplexityKeywords = []string{
	"complexe", "difficile", "complique", "ancien", "vetuste",
	"humidite", "moisissure", "fissure", "degat", "degats",
	"plusieurs pieces", "grande surface", "urgent",
}

// LowComplexityKeywords lower the estimator's complexity multiplier.
var LowComplexityKeywords = []string{
	"simple", "petit", "petite", "rapide", "leger", "retouche", "facile",
}

// Fold is re-exported so lexicon consumers canonicalize with the same
// function used at category boundaries.
func Fold(s string) string {
	return domain.Fold(s)
}

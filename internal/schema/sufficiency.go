package schema

import (
	"regexp"
	"strings"

	"github.com/infinitydev4/reenove-sub000/internal/domain"
	"github.com/infinitydev4/reenove-sub000/internal/lexicon"
)

// minDescriptionLength is the shortest free-text description accepted.
const minDescriptionLength = 5

var postalCodePattern = regexp.MustCompile(`\b\d{5}\b`)

// enumeratedAnswers lists the known canonical answers for fields that only
// accept values from a closed set. Matching is folded and bidirectional
// (equals, contains, or is contained by).
var enumeratedAnswers = map[domain.FieldID][]string{
	domain.FieldCategory:     categoryAnswers(),
	domain.FieldCurrentState: {"neuf", "bon etat", "etat moyen", "mauvais etat", "a renover"},
	domain.FieldUrgency:      {"urgent", "sous 1 mois", "pas presse"},
	domain.FieldMaterials:    {"standard", "milieu de gamme", "haut de gamme", "je ne sais pas"},
}

func categoryAnswers() []string {
	answers := make([]string, 0, len(domain.AllCategories))
	for _, c := range domain.AllCategories {
		answers = append(answers, string(c))
	}
	return answers
}

// IsSufficient decides whether a stored value counts as answered enough to
// stop asking about the field. Rules are evaluated in order: free-text
// length, enumerated match, photo opt-out, location heuristic, then plain
// non-emptiness.
func IsSufficient(id domain.FieldID, value domain.FieldValue) bool {
	if id == domain.FieldDescription {
		return len(strings.TrimSpace(value.String())) > minDescriptionLength
	}

	if answers, ok := enumeratedAnswers[id]; ok {
		return matchesEnumerated(value.String(), answers)
	}

	if id == domain.FieldPhotos {
		return photoSufficient(value)
	}

	if id == domain.FieldLocation {
		return locationSufficient(value.String())
	}

	return !value.IsEmpty()
}

func matchesEnumerated(raw string, answers []string) bool {
	v := strings.TrimSpace(lexicon.Fold(raw))
	if v == "" {
		return false
	}
	for _, a := range answers {
		if v == a || strings.Contains(v, a) || strings.Contains(a, v) {
			return true
		}
	}
	return false
}

func photoSufficient(value domain.FieldValue) bool {
	if value.IsList() {
		return len(value.List) > 0
	}
	v := strings.TrimSpace(lexicon.Fold(value.Text))
	for _, skip := range lexicon.PhotoSkipPhrases {
		if v == lexicon.Fold(skip) {
			return true
		}
	}
	return false
}

// locationSufficient is a loose proxy for "valid address": more than 3
// characters plus a comma, a 5-digit postal token, or at least two words.
// Single-word localities are rejected on purpose until the business rule
// is clarified.
func locationSufficient(raw string) bool {
	v := strings.TrimSpace(raw)
	if len(v) <= 3 {
		return false
	}
	if strings.Contains(v, ",") {
		return true
	}
	if postalCodePattern.MatchString(v) {
		return true
	}
	return len(strings.Fields(v)) >= 2
}

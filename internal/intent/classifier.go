// Package intent labels user turns with one of the seven conversation
// intents. A deterministic fast path answers for closed-choice fields;
// everything else goes to the generative collaborator, and any failure
// degrades to complete_answer so a turn is never lost.
package intent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/infinitydev4/reenove-sub000/internal/domain"
	"github.com/infinitydev4/reenove-sub000/internal/lexicon"
	"github.com/infinitydev4/reenove-sub000/internal/schema"
)

// maxFastPathOptions bounds the closed sets eligible for the fast path;
// larger option lists are too ambiguous for a pure string match.
const maxFastPathOptions = 10

// Generator is the text-generation collaborator used for ambiguous turns.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Classifier labels user turns. A nil generator selects the fully
// deterministic strategy chosen at construction time.
type Classifier struct {
	gen    Generator
	logger *zap.Logger
}

// New creates a classifier. gen may be nil for the deterministic
// fallback strategy.
func New(gen Generator, logger *zap.Logger) *Classifier {
	return &Classifier{gen: gen, logger: logger}
}

// Classify returns the intent of a user turn given the conversation
// state. Empty input always classifies as complete_answer.
func (c *Classifier) Classify(ctx context.Context, input string, state domain.ConversationState) domain.Intent {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return domain.IntentCompleteAnswer
	}

	if c.matchesFocusOption(trimmed, state.CurrentFocus) {
		return domain.IntentCompleteAnswer
	}

	if ReferencesSuggestions(trimmed) && state.LastSuggestions != "" {
		return domain.IntentValidatesSuggestions
	}

	if c.gen == nil {
		return domain.IntentCompleteAnswer
	}

	reply, err := c.gen.GenerateText(ctx, buildPrompt(trimmed, state))
	if err != nil {
		c.logger.Warn("intent classification failed, defaulting to complete_answer", zap.Error(err))
		return domain.IntentCompleteAnswer
	}
	return parseReply(reply)
}

// matchesFocusOption is the fast path: the focused field has a small
// closed set of canonical answers and the input matches one of them
// exactly or partially.
func (c *Classifier) matchesFocusOption(input string, focus domain.FieldID) bool {
	if focus == "" {
		return false
	}
	cfg, ok := schema.FieldConfigFor(focus)
	if !ok || len(cfg.Options) == 0 || len(cfg.Options) > maxFastPathOptions {
		return false
	}

	folded := lexicon.Fold(input)
	for _, opt := range cfg.Options {
		canonical := lexicon.Fold(opt.CanonicalValue)
		label := lexicon.Fold(opt.Label)
		if folded == canonical || folded == label {
			return true
		}
		if strings.Contains(folded, canonical) || strings.Contains(canonical, folded) {
			return true
		}
	}
	return false
}

// suggestionRefPhrases are phrasings that point back at earlier numbered
// suggestions.
var suggestionRefPhrases = []string{
	"le point", "point 1", "point 2", "point 3",
	"la premiere", "la deuxieme", "la troisieme",
	"ces exemples", "cet exemple", "la premiere option",
	"comme vous avez dit", "celle que vous proposez",
}

// ReferencesSuggestions reports whether the input refers to previously
// offered numbered suggestions.
func ReferencesSuggestions(input string) bool {
	folded := lexicon.Fold(input)
	for _, p := range suggestionRefPhrases {
		if strings.Contains(folded, p) {
			return true
		}
	}
	return false
}

func buildPrompt(input string, state domain.ConversationState) string {
	var b strings.Builder
	b.WriteString("Tu classifies le message d'un utilisateur dans un assistant de devis travaux.\n")
	b.WriteString("Réponds UNIQUEMENT par l'un de ces libellés :\n")
	for _, it := range domain.KnownIntents {
		b.WriteString("- ")
		b.WriteString(string(it))
		b.WriteString("\n")
	}
	b.WriteString("\nRègles :\n")
	b.WriteString("- Si le message valide des suggestions numérotées précédentes (\"le point 2\", \"ces exemples\"), réponds validates_suggestions.\n")
	b.WriteString("- Si le message répond à la question posée, réponds complete_answer.\n")
	b.WriteString("- Si l'utilisateur demande de l'aide ou des exemples, réponds need_help ou suggestion_request.\n")
	if state.CurrentFocus != "" {
		if cfg, ok := schema.FieldConfigFor(state.CurrentFocus); ok {
			b.WriteString("\nQuestion en cours : ")
			b.WriteString(cfg.QuestionTemplate)
			b.WriteString("\n")
		}
	}
	b.WriteString("\nMessage : ")
	b.WriteString(input)
	return b.String()
}

// parseReply extracts a taxonomy label from the collaborator reply,
// tolerating surrounding prose. Unrecognized replies default to
// complete_answer.
func parseReply(reply string) domain.Intent {
	folded := strings.ToLower(strings.TrimSpace(reply))
	// validates_suggestions first: it contains no other label, while a
	// verbose reply may mention several.
	for _, it := range domain.KnownIntents {
		if folded == string(it) {
			return it
		}
	}
	for _, it := range domain.KnownIntents {
		if strings.Contains(folded, string(it)) {
			return it
		}
	}
	return domain.IntentCompleteAnswer
}

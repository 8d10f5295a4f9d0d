package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/infinitydev4/reenove-sub000/internal/domain"
	"github.com/infinitydev4/reenove-sub000/internal/schema"
)

type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) GenerateText(_ context.Context, _ string) (string, error) {
	return s.reply, s.err
}

func TestScriptedAssistant_AskQuestion(t *testing.T) {
	a := NewScriptedAssistant()
	cfg, _ := schema.FieldConfigFor(domain.FieldSurface)

	got := a.AskQuestion(context.Background(), cfg, domain.NewProjectRecord())
	if got != cfg.QuestionTemplate {
		t.Errorf("AskQuestion() = %q, want the template verbatim", got)
	}
}

func TestScriptedAssistant_Summarize(t *testing.T) {
	a := NewScriptedAssistant()
	record := domain.NewProjectRecord()
	record.Set(domain.FieldCategory, domain.TextValue("Peinture"))
	record.Set(domain.FieldServiceType, domain.TextValue("repeindre les murs"))
	record.Set(domain.FieldSurface, domain.TextValue("35m²"))

	got := a.Summarize(context.Background(), record, domain.EstimatedPrice{
		Min: 525, Max: 700, Factors: []string{"surface", "état des murs"},
	})

	for _, want := range []string{"Peinture", "repeindre les murs", "525", "700", "état des murs"} {
		if !strings.Contains(got, want) {
			t.Errorf("Summarize() missing %q in %q", want, got)
		}
	}
}

func TestGenerativeAssistant_UsesGeneratedText(t *testing.T) {
	a := NewGenerativeAssistant(&stubGenerator{reply: "Quelle surface faut-il repeindre ?"}, zap.NewNop())
	cfg, _ := schema.FieldConfigFor(domain.FieldSurface)

	got := a.AskQuestion(context.Background(), cfg, domain.NewProjectRecord())
	if got != "Quelle surface faut-il repeindre ?" {
		t.Errorf("AskQuestion() = %q", got)
	}
}

func TestGenerativeAssistant_FallsBackOnError(t *testing.T) {
	a := NewGenerativeAssistant(&stubGenerator{err: errors.New("upstream down")}, zap.NewNop())
	cfg, _ := schema.FieldConfigFor(domain.FieldSurface)

	got := a.AskQuestion(context.Background(), cfg, domain.NewProjectRecord())
	if got != cfg.QuestionTemplate {
		t.Errorf("AskQuestion() = %q, want the scripted fallback", got)
	}
}

func TestGenerativeAssistant_FallsBackOnEmptyReply(t *testing.T) {
	a := NewGenerativeAssistant(&stubGenerator{reply: "  "}, zap.NewNop())
	cfg, _ := schema.FieldConfigFor(domain.FieldLocation)

	got := a.Clarify(context.Background(), cfg, "ici")
	if !strings.Contains(got, cfg.QuestionTemplate) {
		t.Errorf("Clarify() = %q, want the scripted fallback", got)
	}
}

func TestGenerativeAssistant_SuggestKeepsNumberedList(t *testing.T) {
	a := NewGenerativeAssistant(&stubGenerator{reply: "Voici des idées :"}, zap.NewNop())
	cfg, _ := schema.FieldConfigFor(domain.FieldServiceType)
	options := schema.SuggestionsFor(domain.FieldServiceType, domain.CategoryPeinture)

	got := a.Suggest(context.Background(), cfg, options)
	if !strings.Contains(got, RenderSuggestions(options)) {
		t.Errorf("Suggest() must embed the numbered list verbatim, got %q", got)
	}
}

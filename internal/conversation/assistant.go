package conversation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/infinitydev4/reenove-sub000/internal/domain"
)

// Generator is the text-generation collaborator behind the generative
// assistant.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Assistant produces the user-facing French phrasing for each turn
// action. The strategy is chosen once at construction: generative
// (Claude-backed) or scripted (canned templates, no network).
type Assistant interface {
	// AskQuestion phrases the question for the next field.
	AskQuestion(ctx context.Context, field domain.FieldConfig, record domain.ProjectRecord) string

	// Clarify re-asks the focused field after an inadequate answer.
	Clarify(ctx context.Context, field domain.FieldConfig, input string) string

	// Suggest presents numbered example answers for the focused field.
	Suggest(ctx context.Context, field domain.FieldConfig, options []domain.Option) string

	// Answer replies to an off-script user question, then steers back to
	// the current question.
	Answer(ctx context.Context, input string, field domain.FieldConfig) string

	// Summarize presents the completed record and its estimate.
	Summarize(ctx context.Context, record domain.ProjectRecord, estimate domain.EstimatedPrice) string
}

// RenderSuggestions formats options as the numbered list shown to the
// user and stored in the conversation state.
func RenderSuggestions(options []domain.Option) string {
	var b strings.Builder
	for i, opt := range options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt.Label)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ScriptedAssistant phrases every turn from fixed French templates.
type ScriptedAssistant struct{}

// NewScriptedAssistant creates the deterministic assistant.
func NewScriptedAssistant() *ScriptedAssistant {
	return &ScriptedAssistant{}
}

func (a *ScriptedAssistant) AskQuestion(_ context.Context, field domain.FieldConfig, _ domain.ProjectRecord) string {
	return field.QuestionTemplate
}

func (a *ScriptedAssistant) Clarify(_ context.Context, field domain.FieldConfig, _ string) string {
	return fmt.Sprintf("Je n'ai pas bien compris. %s", field.QuestionTemplate)
}

func (a *ScriptedAssistant) Suggest(_ context.Context, field domain.FieldConfig, options []domain.Option) string {
	return fmt.Sprintf("Voici quelques exemples pour vous aider :\n%s\nLequel correspond le mieux à votre projet ?",
		RenderSuggestions(options))
}

func (a *ScriptedAssistant) Answer(_ context.Context, _ string, field domain.FieldConfig) string {
	if field.QuestionTemplate == "" {
		return "Je suis là pour préparer votre devis travaux. Décrivez-moi votre projet."
	}
	return fmt.Sprintf("Bonne question ! Pour avancer sur votre devis : %s", field.QuestionTemplate)
}

func (a *ScriptedAssistant) Summarize(_ context.Context, record domain.ProjectRecord, estimate domain.EstimatedPrice) string {
	var b strings.Builder
	b.WriteString("Voici le récapitulatif de votre projet :\n")
	fmt.Fprintf(&b, "- Travaux : %s\n", record.Get(domain.FieldCategory).String())
	fmt.Fprintf(&b, "- Prestation : %s\n", record.Get(domain.FieldServiceType).String())
	if v := record.Get(domain.FieldSurface); !v.IsEmpty() {
		fmt.Fprintf(&b, "- Surface : %s\n", v.String())
	}
	if v := record.Get(domain.FieldLocation); !v.IsEmpty() {
		fmt.Fprintf(&b, "- Localisation : %s\n", v.String())
	}
	fmt.Fprintf(&b, "Estimation indicative : entre %d € et %d €.", estimate.Min, estimate.Max)
	if len(estimate.Factors) > 0 {
		fmt.Fprintf(&b, "\nLe prix final dépendra notamment de : %s.", strings.Join(estimate.Factors, ", "))
	}
	return b.String()
}

// GenerativeAssistant phrases turns with the text-generation
// collaborator and falls back to the scripted templates whenever a call
// fails, so the conversation never stalls.
type GenerativeAssistant struct {
	gen      Generator
	fallback *ScriptedAssistant
	logger   *zap.Logger
}

// NewGenerativeAssistant creates the Claude-backed assistant.
func NewGenerativeAssistant(gen Generator, logger *zap.Logger) *GenerativeAssistant {
	return &GenerativeAssistant{
		gen:      gen,
		fallback: NewScriptedAssistant(),
		logger:   logger,
	}
}

func (a *GenerativeAssistant) generate(ctx context.Context, prompt, scripted string) string {
	reply, err := a.gen.GenerateText(ctx, prompt)
	if err != nil || strings.TrimSpace(reply) == "" {
		a.logger.Warn("assistant generation failed, using scripted phrasing", zap.Error(err))
		return scripted
	}
	return strings.TrimSpace(reply)
}

func (a *GenerativeAssistant) AskQuestion(ctx context.Context, field domain.FieldConfig, record domain.ProjectRecord) string {
	return a.generate(ctx,
		askQuestionPrompt(field, record),
		a.fallback.AskQuestion(ctx, field, record))
}

func (a *GenerativeAssistant) Clarify(ctx context.Context, field domain.FieldConfig, input string) string {
	return a.generate(ctx,
		clarifyPrompt(field, input),
		a.fallback.Clarify(ctx, field, input))
}

func (a *GenerativeAssistant) Suggest(ctx context.Context, field domain.FieldConfig, options []domain.Option) string {
	// The numbered list must appear verbatim so a later "le point 2" can
	// be resolved; only the surrounding phrasing is generated.
	intro := a.generate(ctx,
		suggestIntroPrompt(field),
		"Voici quelques exemples pour vous aider :")
	return fmt.Sprintf("%s\n%s\nLequel correspond le mieux à votre projet ?",
		intro, RenderSuggestions(options))
}

func (a *GenerativeAssistant) Answer(ctx context.Context, input string, field domain.FieldConfig) string {
	return a.generate(ctx,
		answerPrompt(input, field),
		a.fallback.Answer(ctx, input, field))
}

func (a *GenerativeAssistant) Summarize(ctx context.Context, record domain.ProjectRecord, estimate domain.EstimatedPrice) string {
	scripted := a.fallback.Summarize(ctx, record, estimate)
	return a.generate(ctx, summarizePrompt(scripted), scripted)
}

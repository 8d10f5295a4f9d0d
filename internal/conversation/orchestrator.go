package conversation

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/infinitydev4/reenove-sub000/internal/ai"
	"github.com/infinitydev4/reenove-sub000/internal/domain"
	"github.com/infinitydev4/reenove-sub000/internal/memory"
	"github.com/infinitydev4/reenove-sub000/internal/normalize"
	"github.com/infinitydev4/reenove-sub000/internal/pricing"
	"github.com/infinitydev4/reenove-sub000/internal/resolve"
	"github.com/infinitydev4/reenove-sub000/internal/sanitize"
	"github.com/infinitydev4/reenove-sub000/internal/schema"
)

// noAnalysisAvailable is stored when every photo of a turn failed to
// fetch or analyze.
const noAnalysisAvailable = "aucune analyse disponible"

// defaultMaxImagesPerTurn caps photo batches when no limit is
// configured.
const defaultMaxImagesPerTurn = 5

// IntentClassifier labels a user turn.
type IntentClassifier interface {
	Classify(ctx context.Context, input string, state domain.ConversationState) domain.Intent
}

// PhotoAnalyzer fetches and analyzes project photos.
type PhotoAnalyzer interface {
	FetchImage(ctx context.Context, url string) (ai.EncodedImage, error)
	AnalyzeImages(ctx context.Context, images []ai.EncodedImage, prompt string) (string, error)
}

// TurnInput is one user turn.
type TurnInput struct {
	SessionID uuid.UUID `json:"session_id"`
	Message   string    `json:"message"`
	ImageURLs []string  `json:"image_urls,omitempty"`
}

// TurnResult is everything the transport layer needs to answer a turn.
type TurnResult struct {
	SessionID     uuid.UUID                `json:"session_id"`
	Action        domain.TurnAction        `json:"action"`
	Reply         string                   `json:"reply"`
	Field         domain.FieldID           `json:"field,omitempty"`
	Suggestions   []domain.Option          `json:"suggestions,omitempty"`
	Intent        domain.Intent            `json:"intent"`
	Record        domain.ProjectRecord     `json:"record"`
	State         domain.ConversationState `json:"state"`
	Estimate      *domain.EstimatedPrice   `json:"estimate,omitempty"`
	PhotoAnalysis string                   `json:"photo_analysis,omitempty"`
}

// Orchestrator drives one conversation turn end to end: log, analyze
// photos, classify, update the record, resolve the next action, and
// phrase the reply. All collaborator failures degrade to scripted
// behavior; a turn never errors out to the user.
type Orchestrator struct {
	store      *Store
	classifier IntentClassifier
	assistant  Assistant
	vision     PhotoAnalyzer
	log        memory.Log
	sanitizer  *sanitize.Sanitizer
	logger     *zap.Logger
	maxImages  int
}

// NewOrchestrator wires the turn pipeline. vision may be nil when the
// scripted strategy runs without an API client.
func NewOrchestrator(
	store *Store,
	classifier IntentClassifier,
	assistant Assistant,
	vision PhotoAnalyzer,
	log memory.Log,
	maxImages int,
	logger *zap.Logger,
) *Orchestrator {
	if maxImages <= 0 {
		maxImages = defaultMaxImagesPerTurn
	}
	return &Orchestrator{
		store:      store,
		classifier: classifier,
		assistant:  assistant,
		vision:     vision,
		log:        log,
		sanitizer:  sanitize.NewDefault(),
		logger:     logger,
		maxImages:  maxImages,
	}
}

// ProcessTurn handles one user turn.
func (o *Orchestrator) ProcessTurn(ctx context.Context, input TurnInput) *TurnResult {
	sess := o.store.GetOrCreate(input.SessionID)

	// One turn at a time per session: concurrent turns for the same id
	// queue up instead of interleaving record writes.
	sess.mu.Lock()
	defer sess.mu.Unlock()

	msg := strings.TrimSpace(input.Message)
	if msg == "" && len(input.ImageURLs) == 0 {
		// Empty turn: repeat the current step without touching the record.
		turnIntent := sess.State.LastIntent
		if turnIntent == "" {
			turnIntent = domain.IntentCompleteAnswer
		}
		return o.finishTurn(ctx, sess, turnIntent, "", "")
	}

	o.appendLog(ctx, sess.ID, memory.RoleUser, input.Message)

	var analysis string
	if len(input.ImageURLs) > 0 {
		analysis = o.handlePhotos(ctx, sess, input.ImageURLs)
	}

	turnIntent := domain.IntentCompleteAnswer
	if msg != "" {
		turnIntent = o.classifier.Classify(ctx, input.Message, sess.State)
		o.applyIntent(ctx, sess, turnIntent, msg)
	}

	result := o.finishTurn(ctx, sess, turnIntent, msg, analysis)
	o.appendLog(ctx, sess.ID, memory.RoleAssistant, result.Reply)
	return result
}

// Reset restarts a session from an empty record.
func (o *Orchestrator) Reset(ctx context.Context, sessionID uuid.UUID) *TurnResult {
	sess := o.store.Reset(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return o.finishTurn(ctx, sess, domain.IntentCompleteAnswer, "", "")
}

// Session exposes a read-only view for the transport layer.
func (o *Orchestrator) Session(sessionID uuid.UUID) (*Session, bool) {
	return o.store.Get(sessionID)
}

// applyIntent mutates the session according to the classified intent.
func (o *Orchestrator) applyIntent(ctx context.Context, sess *Session, turnIntent domain.Intent, answer string) {
	switch turnIntent {
	case domain.IntentCompleteAnswer:
		o.storeAnswer(sess, answer)
		sess.State.Mode = domain.ModeGuided

	case domain.IntentValidatesSuggestions:
		if opt, ok := pickSuggestion(answer, sess.LastOptions); ok {
			o.storeAnswer(sess, opt.CanonicalValue)
		} else {
			o.storeAnswer(sess, answer)
		}
		sess.State.Mode = domain.ModeGuided
		sess.State.LastSuggestions = ""
		sess.LastOptions = nil

	case domain.IntentNeedHelp, domain.IntentUncertainty, domain.IntentSuggestionRequest:
		sess.State.Mode = domain.ModeHelping
		sess.State.HelpCount++

	case domain.IntentQuestionBack, domain.IntentClarification:
		sess.State.Mode = domain.ModeFree
	}

	sess.State.LastIntent = turnIntent
}

// storeAnswer normalizes and writes the answer into the focused field.
// Without a focus the answer seeds the description.
func (o *Orchestrator) storeAnswer(sess *Session, answer string) {
	focus := sess.State.CurrentFocus
	if focus == "" {
		focus = domain.FieldDescription
		if !resolve.Resolved(sess.Record, domain.FieldCategory) {
			// An opening message usually names the trade; try that first.
			v := normalize.Value(domain.FieldCategory, sess.Record.Category(), answer)
			if domain.CanonicalCategory(v) != domain.CategoryDefault {
				sess.Record.Set(domain.FieldCategory, domain.TextValue(v))
			}
		}
	}

	// Synonym lookup sees the full answer; quotes and validation fillers
	// are stripped from whatever it yields. An answer that is nothing
	// but filler leaves the field untouched.
	value := normalize.Clean(normalize.Value(focus, sess.Record.Category(), answer))
	if value == "" {
		return
	}
	sess.Record.Set(focus, domain.TextValue(value))
}

// handlePhotos records the photo URLs and runs the vision analysis.
// Images that fail to fetch are skipped one by one; if every image
// fails or no analyzer is wired, a fixed notice replaces the analysis.
func (o *Orchestrator) handlePhotos(ctx context.Context, sess *Session, urls []string) string {
	if len(urls) > o.maxImages {
		urls = urls[:o.maxImages]
	}
	sess.Record.Set(domain.FieldPhotos, domain.ListValue(urls))

	if o.vision == nil {
		return noAnalysisAvailable
	}

	images := make([]ai.EncodedImage, 0, len(urls))
	for _, url := range urls {
		img, err := o.vision.FetchImage(ctx, url)
		if err != nil {
			o.logger.Warn("skipping photo",
				zap.String("url", o.sanitizer.String(url)),
				zap.Error(err),
			)
			continue
		}
		images = append(images, img)
	}
	if len(images) == 0 {
		return noAnalysisAvailable
	}

	analysis, err := o.vision.AnalyzeImages(ctx, images, photoAnalysisPrompt)
	if err != nil {
		o.logger.Warn("photo analysis failed", zap.Error(err))
		return noAnalysisAvailable
	}
	return analysis
}

// finishTurn resolves the next action from the updated record and
// phrases the reply.
func (o *Orchestrator) finishTurn(ctx context.Context, sess *Session, turnIntent domain.Intent, userInput, analysis string) *TurnResult {
	result := &TurnResult{
		SessionID:     sess.ID,
		Intent:        turnIntent,
		PhotoAnalysis: analysis,
	}

	category := sess.Record.Category()

	// Helping mode answers with suggestions for the focused field before
	// the resolution runs again.
	if sess.State.Mode == domain.ModeHelping && sess.State.CurrentFocus != "" {
		if o.offerSuggestions(ctx, sess, result) {
			return o.snapshot(sess, result)
		}
		// No suggestion table covers this field; fall back to re-asking.
		sess.State.Mode = domain.ModeGuided
	}

	if sess.State.Mode == domain.ModeFree {
		var cfg domain.FieldConfig
		if sess.State.CurrentFocus != "" {
			cfg, _ = schema.FieldConfigFor(sess.State.CurrentFocus)
		}
		result.Action = domain.ActionFreeTalk
		result.Field = sess.State.CurrentFocus
		result.Reply = o.assistant.Answer(ctx, userInput, cfg)
		sess.State.Mode = domain.ModeGuided
		return o.snapshot(sess, result)
	}

	res := resolve.Next(sess.Record, category)
	if res.Action == resolve.ActionValidate {
		estimate := o.estimate(sess.Record)
		sess.State.IsComplete = true
		sess.State.CurrentFocus = ""
		result.Action = domain.ActionValidate
		result.Estimate = &estimate
		result.Reply = o.assistant.Summarize(ctx, sess.Record, estimate)
		return o.snapshot(sess, result)
	}

	cfg, _ := schema.FieldConfigFor(res.Target)
	result.Field = res.Target

	// Re-asking the same field means the last answer did not pass the
	// sufficiency check: clarify instead of repeating the question.
	if res.Target == sess.State.CurrentFocus && turnIntent == domain.IntentCompleteAnswer && sess.Record.Has(res.Target) {
		result.Action = domain.ActionClarify
		result.Reply = o.assistant.Clarify(ctx, cfg, sess.Record.Get(res.Target).String())
	} else {
		result.Action = domain.ActionAskNext
		result.Reply = o.assistant.AskQuestion(ctx, cfg, sess.Record)
	}

	sess.State.CurrentFocus = res.Target
	return o.snapshot(sess, result)
}

// offerSuggestions fills the result with suggestions for the focused
// field. Returns false when no table covers the field, in which case
// the caller falls back to clarification.
func (o *Orchestrator) offerSuggestions(ctx context.Context, sess *Session, result *TurnResult) bool {
	focus := sess.State.CurrentFocus
	options := schema.SuggestionsFor(focus, sess.Record.Category())
	if len(options) == 0 {
		return false
	}

	cfg, _ := schema.FieldConfigFor(focus)
	sess.LastOptions = options
	sess.State.LastSuggestions = RenderSuggestions(options)
	sess.State.Mode = domain.ModeGuided

	result.Action = domain.ActionSuggest
	result.Field = focus
	result.Suggestions = options
	result.Reply = o.assistant.Suggest(ctx, cfg, options)
	return true
}

// estimate matches the record against the catalog and prices it.
func (o *Orchestrator) estimate(record domain.ProjectRecord) domain.EstimatedPrice {
	category := record.Get(domain.FieldCategory).String()
	service := record.Get(domain.FieldServiceType).String()

	p, tier, ok := pricing.Find(category, service)
	if !ok {
		// Closed category enum plus per-category defaults make this
		// unreachable for a validated record; guard anyway.
		o.logger.Error("no catalog entry for validated record",
			zap.String("category", category),
		)
		return domain.EstimatedPrice{Min: 100, Max: 200}
	}

	o.logger.Info("estimate computed",
		zap.String("category", category),
		zap.String("tier", string(tier)),
	)

	return pricing.Estimate(p,
		record.Get(domain.FieldSurface).String(),
		record.Get(domain.FieldDescription).String(),
	)
}

func (o *Orchestrator) snapshot(sess *Session, result *TurnResult) *TurnResult {
	result.Record = sess.Record.Clone()
	result.State = sess.State
	return result
}

func (o *Orchestrator) appendLog(ctx context.Context, sessionID uuid.UUID, role memory.Role, content string) {
	if o.log == nil || content == "" {
		return
	}
	entry := memory.NewEntry(sessionID, role, o.sanitizer.String(content))
	if err := o.log.Append(ctx, entry); err != nil {
		o.logger.Warn("failed to append conversation log", zap.Error(err))
	}
}

var suggestionNumberPattern = regexp.MustCompile(`[1-9]\d?`)

// pickSuggestion resolves "le point 2" style references against the
// options last offered. Without a usable number the first option wins.
func pickSuggestion(input string, options []domain.Option) (domain.Option, bool) {
	if len(options) == 0 {
		return domain.Option{}, false
	}
	if token := suggestionNumberPattern.FindString(input); token != "" {
		if n, err := strconv.Atoi(token); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], true
		}
	}
	return options[0], true
}

package domain

// Intent labels what a user turn is trying to do.
type Intent string

const (
	IntentCompleteAnswer       Intent = "complete_answer"
	IntentValidatesSuggestions Intent = "validates_suggestions"
	IntentNeedHelp             Intent = "need_help"
	IntentUncertainty          Intent = "uncertainty"
	IntentQuestionBack         Intent = "question_back"
	IntentClarification        Intent = "clarification"
	IntentSuggestionRequest    Intent = "suggestion_request"
)

// KnownIntents is the closed taxonomy the classifier may return.
var KnownIntents = []Intent{
	IntentCompleteAnswer,
	IntentValidatesSuggestions,
	IntentNeedHelp,
	IntentUncertainty,
	IntentQuestionBack,
	IntentClarification,
	IntentSuggestionRequest,
}

// ParseIntent maps a raw label onto the taxonomy, defaulting to
// complete_answer for anything unrecognized.
func ParseIntent(raw string) Intent {
	for _, it := range KnownIntents {
		if string(it) == raw {
			return it
		}
	}
	return IntentCompleteAnswer
}

// Mode is the conversation mode.
type Mode string

const (
	ModeGuided  Mode = "guided"
	ModeFree    Mode = "free"
	ModeHelping Mode = "helping"
)

// ConversationState is the per-session bookkeeping mutated by the
// orchestrator on every turn.
type ConversationState struct {
	CurrentFocus    FieldID `json:"current_focus,omitempty"`
	LastIntent      Intent  `json:"last_intent,omitempty"`
	Mode            Mode    `json:"mode"`
	HelpCount       int     `json:"help_count"`
	LastSuggestions string  `json:"last_suggestions,omitempty"`
	IsComplete      bool    `json:"is_complete"`
}

// NewConversationState returns the state of a fresh session.
func NewConversationState() ConversationState {
	return ConversationState{Mode: ModeGuided}
}

// TurnAction is the orchestrator's dispatch decision for a turn.
type TurnAction string

const (
	ActionAskNext  TurnAction = "ask_next"
	ActionClarify  TurnAction = "clarify"
	ActionSuggest  TurnAction = "suggest"
	ActionValidate TurnAction = "validate"
	ActionFreeTalk TurnAction = "free_talk"
)

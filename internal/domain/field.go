package domain

// FieldID identifies a single slot of the project record.
type FieldID string

const (
	FieldCategory     FieldID = "category"
	FieldServiceType  FieldID = "service_type"
	FieldDescription  FieldID = "description"
	FieldSurface      FieldID = "surface"
	FieldRoomType     FieldID = "room_type"
	FieldCurrentState FieldID = "current_state"
	FieldUrgency      FieldID = "urgency"
	FieldMaterials    FieldID = "materials"
	FieldPhotos       FieldID = "photos"
	FieldLocation     FieldID = "location"
)

// AnswerKind describes the expected shape of an answer.
type AnswerKind string

const (
	AnswerSingleChoice   AnswerKind = "single-choice"
	AnswerMultipleChoice AnswerKind = "multiple-choice"
	AnswerFreeText       AnswerKind = "free-text"
)

// Option is one entry of a multiple-choice suggestion list.
type Option struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	CanonicalValue string `json:"canonical_value"`
}

// FieldConfig is the immutable metadata of a record field, loaded once from
// the schema registry.
type FieldConfig struct {
	ID               FieldID
	DisplayName      string
	QuestionTemplate string
	AnswerKind       AnswerKind
	Options          []Option
	Required         bool
}

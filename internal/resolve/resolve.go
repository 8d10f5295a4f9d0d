// Package resolve computes, from the current project record, the single
// next action of the guided conversation. It is a pure function of the
// record and category; all ordering rules live here.
package resolve

import (
	"github.com/infinitydev4/reenove-sub000/internal/domain"
	"github.com/infinitydev4/reenove-sub000/internal/schema"
)

// Action is the engine's decision for the turn.
type Action string

const (
	// ActionAskNext asks the user about Target.
	ActionAskNext Action = "ask_next"
	// ActionValidate signals that the record is complete and estimation
	// can run.
	ActionValidate Action = "validate"
)

// Resolution is the engine output: what to do and, for ask_next, which
// field to ask about.
type Resolution struct {
	Action Action
	Target domain.FieldID
}

// Next returns the next action for the record. A field counts as missing
// until its stored value passes the sufficiency check, so an answered
// field is never re-asked (anti-repetition) while an inadequate answer is.
//
// Ordering: base required fields in schema order, then the category's
// conditional fields, then the optional photo field, and location strictly
// last.
func Next(record domain.ProjectRecord, category domain.Category) Resolution {
	for _, id := range schema.BaseRequiredFields() {
		if missing(record, id) {
			return Resolution{Action: ActionAskNext, Target: id}
		}
	}

	for _, id := range schema.ConditionalFieldsFor(category) {
		if missing(record, id) {
			return Resolution{Action: ActionAskNext, Target: id}
		}
	}

	if missing(record, domain.FieldPhotos) {
		return Resolution{Action: ActionAskNext, Target: domain.FieldPhotos}
	}

	if missing(record, domain.FieldLocation) {
		return Resolution{Action: ActionAskNext, Target: domain.FieldLocation}
	}

	return Resolution{Action: ActionValidate}
}

// Resolved reports whether the field already holds a sufficient answer.
func Resolved(record domain.ProjectRecord, id domain.FieldID) bool {
	return !missing(record, id)
}

func missing(record domain.ProjectRecord, id domain.FieldID) bool {
	v, ok := record[id]
	if !ok {
		return true
	}
	return !schema.IsSufficient(id, v)
}

package domain

import "strings"

// FieldValue holds a stored answer: a plain string for most fields, a list
// for multi-valued ones (photo references, room types).
type FieldValue struct {
	Text string   `json:"text,omitempty"`
	List []string `json:"list,omitempty"`
}

// IsList returns true when the value carries a list.
func (v FieldValue) IsList() bool {
	return v.List != nil
}

// String renders the value as display text.
func (v FieldValue) String() string {
	if v.IsList() {
		return strings.Join(v.List, ", ")
	}
	return v.Text
}

// IsEmpty reports whether the value carries no content at all.
func (v FieldValue) IsEmpty() bool {
	if v.IsList() {
		return len(v.List) == 0
	}
	return strings.TrimSpace(v.Text) == ""
}

// TextValue builds a plain string value.
func TextValue(s string) FieldValue {
	return FieldValue{Text: s}
}

// ListValue builds a list value.
func ListValue(items []string) FieldValue {
	return FieldValue{List: items}
}

// ProjectRecord is the in-progress structured representation of the user's
// renovation project. Keys are unique; the record only grows during a
// session and shrinks solely on explicit reset.
type ProjectRecord map[FieldID]FieldValue

// NewProjectRecord returns an empty record.
func NewProjectRecord() ProjectRecord {
	return make(ProjectRecord)
}

// Has reports whether the field holds a non-empty value.
func (r ProjectRecord) Has(id FieldID) bool {
	v, ok := r[id]
	return ok && !v.IsEmpty()
}

// Get returns the stored value, or a zero value when absent.
func (r ProjectRecord) Get(id FieldID) FieldValue {
	return r[id]
}

// Set stores a value. Empty values are ignored so the record stays
// monotonic.
func (r ProjectRecord) Set(id FieldID, v FieldValue) {
	if v.IsEmpty() {
		return
	}
	r[id] = v
}

// Category resolves the record's category field to its canonical form,
// or CategoryDefault when unset.
func (r ProjectRecord) Category() Category {
	if !r.Has(FieldCategory) {
		return CategoryDefault
	}
	return CanonicalCategory(r.Get(FieldCategory).String())
}

// Clone returns a deep copy, used to hand records to callers without
// exposing session-internal state to mutation.
func (r ProjectRecord) Clone() ProjectRecord {
	out := make(ProjectRecord, len(r))
	for k, v := range r {
		if v.IsList() {
			list := make([]string, len(v.List))
			copy(list, v.List)
			out[k] = FieldValue{List: list}
			continue
		}
		out[k] = v
	}
	return out
}

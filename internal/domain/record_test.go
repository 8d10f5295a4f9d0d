package domain

import "testing"

func TestProjectRecordSet_IgnoresEmpty(t *testing.T) {
	r := NewProjectRecord()
	r.Set(FieldDescription, TextValue("   "))
	if r.Has(FieldDescription) {
		t.Error("empty value should not be stored")
	}

	r.Set(FieldDescription, TextValue("refaire la peinture"))
	if !r.Has(FieldDescription) {
		t.Error("non-empty value should be stored")
	}
}

func TestProjectRecordCategory(t *testing.T) {
	r := NewProjectRecord()
	if got := r.Category(); got != CategoryDefault {
		t.Errorf("empty record Category() = %q, want default", got)
	}

	r.Set(FieldCategory, TextValue("Maçonnerie"))
	if got := r.Category(); got != CategoryMaconnerie {
		t.Errorf("Category() = %q, want %q", got, CategoryMaconnerie)
	}
}

func TestProjectRecordClone(t *testing.T) {
	r := NewProjectRecord()
	r.Set(FieldPhotos, ListValue([]string{"a.jpg", "b.jpg"}))

	c := r.Clone()
	c[FieldPhotos].List[0] = "mutated"
	if r.Get(FieldPhotos).List[0] != "a.jpg" {
		t.Error("Clone() shares list backing array with original")
	}
}

func TestFieldValueString(t *testing.T) {
	if got := ListValue([]string{"salon", "cuisine"}).String(); got != "salon, cuisine" {
		t.Errorf("String() = %q", got)
	}
	if got := TextValue("35m²").String(); got != "35m²" {
		t.Errorf("String() = %q", got)
	}
}

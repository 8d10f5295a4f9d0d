package resolve

import (
	"testing"

	"github.com/infinitydev4/reenove-sub000/internal/domain"
	"github.com/infinitydev4/reenove-sub000/internal/schema"
)

func sufficientRecord(t *testing.T, category domain.Category) domain.ProjectRecord {
	t.Helper()
	r := domain.NewProjectRecord()
	r.Set(domain.FieldCategory, domain.TextValue(category.Display()))
	r.Set(domain.FieldServiceType, domain.TextValue("repeindre les murs"))
	r.Set(domain.FieldDescription, domain.TextValue("refaire toute la peinture du salon"))
	r.Set(domain.FieldSurface, domain.TextValue("35m²"))
	r.Set(domain.FieldRoomType, domain.TextValue("salon"))
	r.Set(domain.FieldCurrentState, domain.TextValue("bon état"))
	r.Set(domain.FieldUrgency, domain.TextValue("urgent"))
	r.Set(domain.FieldMaterials, domain.TextValue("standard"))
	r.Set(domain.FieldPhotos, domain.TextValue("non"))
	r.Set(domain.FieldLocation, domain.TextValue("Paris, 75011"))
	return r
}

func TestNext_EmptyRecordAsksCategory(t *testing.T) {
	res := Next(domain.NewProjectRecord(), domain.CategoryDefault)
	if res.Action != ActionAskNext || res.Target != domain.FieldCategory {
		t.Errorf("Next() = %+v, want ask_next category", res)
	}
}

func TestNext_SchemaOrder(t *testing.T) {
	r := domain.NewProjectRecord()
	r.Set(domain.FieldCategory, domain.TextValue("Peinture"))

	res := Next(r, domain.CategoryPeinture)
	if res.Target != domain.FieldServiceType {
		t.Errorf("after category, Next() targets %q, want service_type", res.Target)
	}

	r.Set(domain.FieldServiceType, domain.TextValue("repeindre les murs"))
	res = Next(r, domain.CategoryPeinture)
	if res.Target != domain.FieldDescription {
		t.Errorf("after service_type, Next() targets %q, want description", res.Target)
	}

	r.Set(domain.FieldDescription, domain.TextValue("refaire les murs du salon"))
	res = Next(r, domain.CategoryPeinture)
	if res.Target != domain.FieldSurface {
		t.Errorf("after description, Next() targets %q, want surface (first conditional)", res.Target)
	}
}

func TestNext_PhotosBeforeLocation(t *testing.T) {
	r := sufficientRecord(t, domain.CategoryPeinture)
	delete(r, domain.FieldPhotos)
	delete(r, domain.FieldLocation)

	res := Next(r, domain.CategoryPeinture)
	if res.Action != ActionAskNext || res.Target != domain.FieldPhotos {
		t.Errorf("Next() = %+v, want ask_next photos before location", res)
	}
}

func TestNext_LocationLast(t *testing.T) {
	r := sufficientRecord(t, domain.CategoryPeinture)
	delete(r, domain.FieldLocation)

	res := Next(r, domain.CategoryPeinture)
	if res.Action != ActionAskNext || res.Target != domain.FieldLocation {
		t.Errorf("Next() = %+v, want ask_next location", res)
	}
}

func TestNext_CompleteRecordValidates(t *testing.T) {
	for _, cat := range append([]domain.Category{domain.CategoryDefault}, domain.AllCategories...) {
		r := sufficientRecord(t, cat)
		res := Next(r, cat)
		if res.Action != ActionValidate {
			t.Errorf("category %q: Next() = %+v, want validate", cat, res)
		}
	}
}

// Validate must be returned for a complete record no matter which field
// was last in focus; Next is a pure function of the record.
func TestNext_ValidateIsIdempotent(t *testing.T) {
	r := sufficientRecord(t, domain.CategoryCarrelage)
	for i := 0; i < 3; i++ {
		if res := Next(r, domain.CategoryCarrelage); res.Action != ActionValidate {
			t.Fatalf("call %d: Next() = %+v, want validate", i, res)
		}
	}
}

func TestNext_InsufficientAnswerIsReasked(t *testing.T) {
	r := sufficientRecord(t, domain.CategoryPeinture)
	// Too short to satisfy the description rule.
	r[domain.FieldDescription] = domain.TextValue("ok")

	res := Next(r, domain.CategoryPeinture)
	if res.Target != domain.FieldDescription {
		t.Errorf("Next() targets %q, want description re-asked", res.Target)
	}
}

func TestNext_UnknownCategoryFallsBackToDefaultConditionals(t *testing.T) {
	r := domain.NewProjectRecord()
	r.Set(domain.FieldCategory, domain.TextValue("Peinture"))
	r.Set(domain.FieldServiceType, domain.TextValue("quelque chose"))
	r.Set(domain.FieldDescription, domain.TextValue("description assez longue"))

	res := Next(r, "jardinage")
	want := schema.ConditionalFieldsFor(domain.CategoryDefault)[0]
	if res.Target != want {
		t.Errorf("Next() targets %q, want %q", res.Target, want)
	}
}

func TestResolved(t *testing.T) {
	r := domain.NewProjectRecord()
	if Resolved(r, domain.FieldCategory) {
		t.Error("absent field should not be resolved")
	}
	r.Set(domain.FieldCategory, domain.TextValue("Peinture"))
	if !Resolved(r, domain.FieldCategory) {
		t.Error("sufficient field should be resolved")
	}
}

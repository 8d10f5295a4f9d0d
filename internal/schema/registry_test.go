package schema

import (
	"testing"

	"github.com/infinitydev4/reenove-sub000/internal/domain"
)

func TestRequiredFieldsFor_Order(t *testing.T) {
	fields := RequiredFieldsFor(domain.CategoryPeinture)

	want := []domain.FieldID{
		domain.FieldCategory,
		domain.FieldServiceType,
		domain.FieldDescription,
		domain.FieldSurface,
		domain.FieldRoomType,
		domain.FieldCurrentState,
		domain.FieldPhotos,
		domain.FieldLocation,
	}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d: %v", len(fields), len(want), fields)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("field[%d] = %q, want %q", i, fields[i], want[i])
		}
	}
}

func TestRequiredFieldsFor_LocationAlwaysLast(t *testing.T) {
	categories := append([]domain.Category{domain.CategoryDefault, "inexistant"}, domain.AllCategories...)
	for _, cat := range categories {
		fields := RequiredFieldsFor(cat)
		if len(fields) == 0 {
			t.Fatalf("category %q has no fields", cat)
		}
		if fields[len(fields)-1] != domain.FieldLocation {
			t.Errorf("category %q: last field = %q, want location", cat, fields[len(fields)-1])
		}
		if fields[len(fields)-2] != domain.FieldPhotos {
			t.Errorf("category %q: second to last = %q, want photos", cat, fields[len(fields)-2])
		}
	}
}

func TestRequiredFieldsFor_UnknownCategoryUsesDefault(t *testing.T) {
	unknown := RequiredFieldsFor("jardinage")
	def := RequiredFieldsFor(domain.CategoryDefault)

	if len(unknown) != len(def) {
		t.Fatalf("unknown category list length %d, default %d", len(unknown), len(def))
	}
	for i := range def {
		if unknown[i] != def[i] {
			t.Errorf("field[%d] = %q, want %q", i, unknown[i], def[i])
		}
	}
}

func TestFieldConfigFor(t *testing.T) {
	cfg, ok := FieldConfigFor(domain.FieldUrgency)
	if !ok {
		t.Fatal("urgency config not found")
	}
	if cfg.AnswerKind != domain.AnswerSingleChoice {
		t.Errorf("urgency answer kind = %q", cfg.AnswerKind)
	}
	if len(cfg.Options) != 3 {
		t.Errorf("urgency options = %d, want 3", len(cfg.Options))
	}

	if _, ok := FieldConfigFor("nonexistent"); ok {
		t.Error("nonexistent field should not be found")
	}
}

func TestEveryRequiredFieldHasConfig(t *testing.T) {
	for _, cat := range append(domain.AllCategories, domain.CategoryDefault) {
		for _, id := range RequiredFieldsFor(cat) {
			if _, ok := FieldConfigFor(id); !ok {
				t.Errorf("category %q references field %q with no config", cat, id)
			}
		}
	}
}

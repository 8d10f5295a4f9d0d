package domain

import "testing"

func TestCanonicalCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{"Peinture", CategoryPeinture},
		{"peinture", CategoryPeinture},
		{"Maçonnerie", CategoryMaconnerie},
		{"Maconnerie", CategoryMaconnerie},
		{"MAÇONNERIE", CategoryMaconnerie},
		{"Électricité", CategoryElectricite},
		{"electricite", CategoryElectricite},
		{"Rénovation complète", CategoryRenovation},
		{"  renovation   complete  ", CategoryRenovation},
		{"renovation", CategoryRenovation},
		{"jardinage", CategoryDefault},
		{"", CategoryDefault},
	}

	for _, tt := range tests {
		if got := CanonicalCategory(tt.input); got != tt.want {
			t.Errorf("CanonicalCategory(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Réparer un Robinet", "reparer un robinet"},
		{"Électricité", "electricite"},
		{"déjà", "deja"},
		{"plain ascii", "plain ascii"},
	}

	for _, tt := range tests {
		if got := Fold(tt.input); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestVerifyCategoryTable(t *testing.T) {
	if err := VerifyCategoryTable(); err != nil {
		t.Fatalf("VerifyCategoryTable() error = %v", err)
	}
}

func TestCategoryDisplay(t *testing.T) {
	if got := CategoryMaconnerie.Display(); got != "Maçonnerie" {
		t.Errorf("Display() = %q, want %q", got, "Maçonnerie")
	}
	if got := Category("unknown").Display(); got != "unknown" {
		t.Errorf("Display() fallback = %q, want raw value", got)
	}
}

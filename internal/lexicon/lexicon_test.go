package lexicon

import "testing"

func TestSameSynonymGroup(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"reparer", "reparation", true},
		{"reparer", "repare", true},
		{"installer", "pose", true},
		{"reparer", "installer", false},
		{"reparer", "inconnu", false},
		{"inconnu", "inconnu", false},
	}

	for _, tt := range tests {
		if got := SameSynonymGroup(tt.a, tt.b); got != tt.want {
			t.Errorf("SameSynonymGroup(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRoomsHaveCanonicalVariant(t *testing.T) {
	for _, room := range Rooms {
		if len(room.Variants) == 0 {
			t.Errorf("room %q has no variants", room.Canonical)
		}
	}
}

func TestSynonymGroupsAreCanonical(t *testing.T) {
	for _, group := range SynonymGroups {
		for _, w := range group {
			if Fold(w) != w {
				t.Errorf("synonym %q is not in canonical folded form", w)
			}
		}
	}
}

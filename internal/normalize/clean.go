package normalize

import (
	"strings"

	"github.com/infinitydev4/reenove-sub000/internal/lexicon"
)

const quoteCutset = "\"'«»“”‘’ \t"
const edgePunct = ",.!…"

// Clean strips wrapping quote characters and leading/trailing validation
// filler words ("Exactement, 35m²" -> "35m²"). It runs after Value and
// never reintroduces quotes.
func Clean(raw string) string {
	s := strings.Trim(raw, quoteCutset)
	words := strings.Fields(s)

	for changed := true; changed && len(words) > 0; {
		changed = false
		for _, filler := range fillerVariants {
			if rest, ok := cutPrefix(words, filler); ok {
				words = rest
				changed = true
			}
			if rest, ok := cutSuffix(words, filler); ok {
				words = rest
				changed = true
			}
		}
	}

	return strings.Trim(strings.Join(words, " "), quoteCutset)
}

// fillerVariants holds the filler phrases pre-split into folded words.
var fillerVariants = func() [][]string {
	out := make([][]string, 0, len(lexicon.FillerWords))
	for _, w := range lexicon.FillerWords {
		out = append(out, strings.Fields(lexicon.Fold(w)))
	}
	return out
}()

func foldWord(w string) string {
	return strings.Trim(lexicon.Fold(w), edgePunct)
}

func cutPrefix(words []string, filler []string) ([]string, bool) {
	if len(filler) == 0 || len(words) < len(filler) {
		return words, false
	}
	for i, fw := range filler {
		if foldWord(words[i]) != fw {
			return words, false
		}
	}
	return words[len(filler):], true
}

func cutSuffix(words []string, filler []string) ([]string, bool) {
	if len(filler) == 0 || len(words) < len(filler) {
		return words, false
	}
	offset := len(words) - len(filler)
	for i, fw := range filler {
		if foldWord(words[offset+i]) != fw {
			return words, false
		}
	}
	return words[:offset], true
}

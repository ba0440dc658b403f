package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// NormalizeWord lowercases a word via Unicode case folding and strips
// punctuation and symbol runes, producing the canonical comparison form used
// throughout indexing.
func NormalizeWord(text string) string {
	folded := foldCaser.String(text)
	var out strings.Builder
	out.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

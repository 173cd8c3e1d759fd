package wordlist

import (
	"strings"
	"unicode"
)

// FilterFunc reports whether a word belongs in a drill for a language.
type FilterFunc func(string) bool

// drillRunes maps a language to the runes its drill words may use. Words
// outside the set would ask for characters the practice layout does not
// target.
var drillRunes = map[string]*unicode.RangeTable{
	"en": {R16: []unicode.Range16{{Lo: 'a', Hi: 'z', Stride: 1}}},
}

// FilterForLang returns the drill filter for a language. Languages without
// a rune set keep every word.
func FilterForLang(lang string) FilterFunc {
	table, ok := drillRunes[strings.ToLower(lang)]
	if !ok {
		return func(string) bool { return true }
	}
	return func(word string) bool {
		if word == "" {
			return false
		}
		for _, r := range word {
			if !unicode.Is(table, r) {
				return false
			}
		}
		return true
	}
}

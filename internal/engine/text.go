// Package engine implements the typing session core: target text model,
// session state machine, keystroke matching, live metrics, and per-key
// weakness tracking. The engine is synchronous and unsynchronized; one
// caller owns a Session and serializes Submit against queries.
package engine

import "unicode"

// CharClass categorizes an expected character for matching policy.
type CharClass int

const (
	ClassLetter CharClass = iota
	ClassDigit
	ClassPunct
	ClassWhitespace
	ClassOther
)

// String returns a short label for the class.
func (c CharClass) String() string {
	switch c {
	case ClassLetter:
		return "letter"
	case ClassDigit:
		return "digit"
	case ClassPunct:
		return "punct"
	case ClassWhitespace:
		return "whitespace"
	default:
		return "other"
	}
}

// Classify maps a rune to its character class.
func Classify(r rune) CharClass {
	switch {
	case unicode.IsLetter(r):
		return ClassLetter
	case unicode.IsDigit(r):
		return ClassDigit
	case unicode.IsSpace(r):
		return ClassWhitespace
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return ClassPunct
	default:
		return ClassOther
	}
}

// ExpectedChar is one position of the target text.
type ExpectedChar struct {
	Value rune
	Class CharClass
}

// Target is the immutable, indexed practice text. A Target is built once and
// never mutated after a session starts.
type Target struct {
	chars []ExpectedChar
}

// NewTarget builds a Target from the given text.
func NewTarget(text string) Target {
	runes := []rune(text)
	chars := make([]ExpectedChar, len(runes))
	for i, r := range runes {
		chars[i] = ExpectedChar{Value: r, Class: Classify(r)}
	}
	return Target{chars: chars}
}

// Len returns the number of logical characters.
func (t Target) Len() int {
	return len(t.chars)
}

// At returns the expected character at index i. i must be in [0, Len).
func (t Target) At(i int) ExpectedChar {
	return t.chars[i]
}

// String reassembles the target text.
func (t Target) String() string {
	runes := make([]rune, len(t.chars))
	for i, c := range t.chars {
		runes[i] = c.Value
	}
	return string(runes)
}

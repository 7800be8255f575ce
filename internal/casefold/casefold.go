// Package casefold decides whether an observed correction should be stored
// in lowercase.
//
// "Teh" -> "The" is usually an ordinary word capitalized by sentence
// position and should be stored as "teh" -> "the". "Bayex" -> "Bayeux" is a
// proper noun and must keep its case. The only signal used is whether the
// lowercase correction is a valid word according to an Oracle.
package casefold

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Oracle answers whether a word is spelled correctly.
type Oracle interface {
	IsValidWord(word string) bool
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(word string) bool

// IsValidWord implements Oracle.
func (f OracleFunc) IsValidWord(word string) bool {
	return f(word)
}

// Shape is the capitalization pattern of a word.
type Shape int

const (
	// Other is any shape not covered below, including all-lowercase words.
	Other Shape = iota
	// Capitalized is an uppercase first letter followed by lowercase only.
	Capitalized
	// Upper is all uppercase, including single uppercase letters.
	Upper
)

// ShapeOf classifies word. A single uppercase letter is Upper.
func ShapeOf(word string) Shape {
	first, size := utf8.DecodeRuneInString(word)
	if word == "" || !unicode.IsUpper(first) {
		return Other
	}
	rest := word[size:]
	switch {
	case rest == upper(rest):
		return Upper
	case rest == Lower(rest):
		return Capitalized
	default:
		return Other
	}
}

// Foldable reports whether word is non-empty, starts uppercase, and is
// otherwise entirely lowercase or entirely uppercase.
func Foldable(word string) bool {
	return ShapeOf(word) != Other
}

// Normalize returns the pair to store. Both words are lowercased when the
// oracle is present, both are foldable, and the oracle accepts the lowercase
// correction; otherwise they are returned unchanged.
func Normalize(misspelling, corrected string, oracle Oracle) (string, string) {
	if oracle == nil {
		return misspelling, corrected
	}
	if !Foldable(misspelling) || !Foldable(corrected) {
		return misspelling, corrected
	}
	lowered := Lower(corrected)
	if !oracle.IsValidWord(lowered) {
		return misspelling, corrected
	}
	return Lower(misspelling), lowered
}

// Apply reshapes replacement to follow the capitalization of typed, so a
// rule stored as "teh" -> "the" turns "Teh" into "The" and "TEH" into "THE".
func Apply(typed, replacement string) string {
	switch ShapeOf(typed) {
	case Upper:
		if utf8.RuneCountInString(typed) == 1 {
			return capitalize(replacement)
		}
		return upper(replacement)
	case Capitalized:
		return capitalize(replacement)
	default:
		return replacement
	}
}

// Lower returns the NFC-normalized lowercase form of word.
func Lower(word string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(word))
}

func upper(word string) string {
	return cases.Upper(language.Und).String(norm.NFC.String(word))
}

func capitalize(word string) string {
	first, size := utf8.DecodeRuneInString(word)
	if first == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(first)) + word[size:]
}

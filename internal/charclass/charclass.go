// Package charclass classifies characters for word motions and text objects.
package charclass

import (
	"strings"
	"unicode"
)

// Class is the category a character belongs to for word boundaries.
type Class uint8

const (
	Whitespace Class = iota
	Punctuation
	Word
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case Whitespace:
		return "whitespace"
	case Punctuation:
		return "punctuation"
	case Word:
		return "word"
	default:
		return "unknown"
	}
}

// Classifier categorizes runes. The zero value treats letters, digits and
// '_' as word characters.
type Classifier struct {
	// WordChars lists extra runes that count as word characters (vim's
	// 'iskeyword' additions), e.g. "-" for lisp-style identifiers.
	WordChars string

	// IgnorePunctuation folds punctuation into the word class, which gives
	// the WORD motions (W, E, B).
	IgnorePunctuation bool
}

// WithIgnorePunctuation returns a copy with IgnorePunctuation set.
func (c Classifier) WithIgnorePunctuation(ignore bool) Classifier {
	c.IgnorePunctuation = ignore
	return c
}

// Classify returns the class of r.
func (c Classifier) Classify(r rune) Class {
	switch {
	case unicode.IsSpace(r):
		return Whitespace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return Word
	case c.WordChars != "" && strings.ContainsRune(c.WordChars, r):
		return Word
	case c.IgnorePunctuation:
		return Word
	default:
		return Punctuation
	}
}

// IsWhitespace reports whether r is whitespace.
func IsWhitespace(r rune) bool {
	return unicode.IsSpace(r)
}

// IsWord reports whether r is a word character under c.
func (c Classifier) IsWord(r rune) bool {
	return c.Classify(r) == Word
}

// IsSubwordStart reports whether a subword starts at right given the
// character before it: after an underscore run, or a lower-to-upper
// camelCase step.
func IsSubwordStart(left, right rune) bool {
	return (left == '_' && right != '_') ||
		(unicode.IsLower(left) && unicode.IsUpper(right))
}

// IsSubwordEnd reports whether a subword ends at left given the character
// after it: before an underscore, or at a lower-to-upper camelCase step.
func IsSubwordEnd(left, right rune) bool {
	return (left != '_' && right == '_') ||
		(unicode.IsLower(left) && unicode.IsUpper(right))
}

// Package textobj locates vim text objects (iw, a", i(, it, ip, ii, ...)
// around a cursor.
package textobj

import "fmt"

// Object is a closed set of text object kinds. Every variant is a value
// type declared in this package.
type Object interface {
	isObject()
}

// Word is a run of one character class (iw, aw). IgnorePunctuation selects
// WORD (iW, aW).
type Word struct{ IgnorePunctuation bool }

// Subword is a camelCase or snake_case segment of a word.
type Subword struct{ IgnorePunctuation bool }

// Sentence ends at '.', '!' or '?' followed by whitespace, or at a blank
// line (is, as).
type Sentence struct{}

// Paragraph is a run of non-blank (or blank) lines (ip, ap).
type Paragraph struct{}

// Quotes is a quoted string on one line (i", a', i`).
type Quotes struct{ Char rune }

// Brackets is a pair of distinct delimiters with nesting (i(, a{, i<).
type Brackets struct{ Open, Close rune }

// AnyBrackets is the innermost of (), [] and {} (ib, ab).
type AnyBrackets struct{}

// Tag is an XML/HTML element (it, at).
type Tag struct{}

// Indent is a block of lines indented at least as deep as the cursor line
// (ii, ai, aI). IncludeBelow also takes the line after the block when
// selecting around.
type Indent struct{ IncludeBelow bool }

func (Word) isObject()        {}
func (Subword) isObject()     {}
func (Sentence) isObject()    {}
func (Paragraph) isObject()   {}
func (Quotes) isObject()      {}
func (Brackets) isObject()    {}
func (AnyBrackets) isObject() {}
func (Tag) isObject()         {}
func (Indent) isObject()      {}

// Standard bracket pairs.
var (
	Parens         = Brackets{Open: '(', Close: ')'}
	SquareBrackets = Brackets{Open: '[', Close: ']'}
	CurlyBrackets  = Brackets{Open: '{', Close: '}'}
	AngleBrackets  = Brackets{Open: '<', Close: '>'}
)

// Linewise reports whether obj selects whole lines.
func Linewise(obj Object) bool {
	switch obj.(type) {
	case Paragraph, Indent:
		return true
	case Word, Subword, Sentence, Quotes, Brackets, AnyBrackets, Tag:
		return false
	}
	panic(fmt.Sprintf("textobj: unknown kind %T", obj))
}

// Name returns a short human-readable name for obj.
func Name(obj Object) string {
	switch v := obj.(type) {
	case Word:
		if v.IgnorePunctuation {
			return "WORD"
		}
		return "word"
	case Subword:
		if v.IgnorePunctuation {
			return "SUBWORD"
		}
		return "subword"
	case Sentence:
		return "sentence"
	case Paragraph:
		return "paragraph"
	case Quotes:
		return fmt.Sprintf("quotes(%c)", v.Char)
	case Brackets:
		return fmt.Sprintf("brackets(%c%c)", v.Open, v.Close)
	case AnyBrackets:
		return "any-brackets"
	case Tag:
		return "tag"
	case Indent:
		if v.IncludeBelow {
			return "indent(below)"
		}
		return "indent"
	}
	panic(fmt.Sprintf("textobj: unknown kind %T", obj))
}

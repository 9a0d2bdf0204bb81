package textobj

import (
	"fmt"

	"github.com/dshills/vimchange/internal/charclass"
	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/engine/cursor"
	"github.com/dshills/vimchange/internal/scan"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Expand finds obj around the head of sel and returns a forward selection
// over it. around selects the "a" variant, otherwise the "i" variant.
// When no instance of obj encloses (or, for quotes, follows) the head,
// Expand returns sel unchanged and false.
//
// Linewise objects span whole lines including the final newline, when there
// is one.
func Expand(buf buffer.Reader, cls charclass.Classifier, sel cursor.Selection, obj Object, around bool) (cursor.Selection, bool) {
	s := scan.New(buf, objectClassifier(cls, obj))
	head := buf.ClipOffset(sel.Head, buffer.BiasLeft)

	start, end, ok := find(s, head, obj, around)
	if !ok {
		return sel, false
	}
	return cursor.NewSelection(start, end), true
}

func objectClassifier(cls charclass.Classifier, obj Object) charclass.Classifier {
	switch v := obj.(type) {
	case Word:
		return cls.WithIgnorePunctuation(v.IgnorePunctuation)
	case Subword:
		return cls.WithIgnorePunctuation(v.IgnorePunctuation)
	}
	return cls
}

func find(s scan.Scanner, head ByteOffset, obj Object, around bool) (ByteOffset, ByteOffset, bool) {
	switch v := obj.(type) {
	case Word:
		return findWord(s, head, around, false)
	case Subword:
		return findWord(s, head, around, true)
	case Sentence:
		return findSentence(s, head, around)
	case Paragraph:
		return findParagraph(s, head, around)
	case Quotes:
		return findQuotes(s, head, v.Char, around)
	case Brackets:
		return findBrackets(s, head, v, around)
	case AnyBrackets:
		return findAnyBrackets(s, head, around)
	case Tag:
		return findTag(s, head, around)
	case Indent:
		return findIndent(s, head, around, v.IncludeBelow)
	}
	panic(fmt.Sprintf("textobj: unknown kind %T", obj))
}

// linesRange spans lines first..last including the newline after last.
func linesRange(s scan.Scanner, first, last uint32) (ByteOffset, ByteOffset) {
	start := s.Buf.LineStartOffset(first)
	if last >= s.LastLine() {
		return start, s.Len()
	}
	return start, s.Buf.LineStartOffset(last + 1)
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

// trailingBlanks returns the end of the blank run starting at off.
func trailingBlanks(s scan.Scanner, off, limit ByteOffset) ByteOffset {
	return s.SkipBlanks(off, limit)
}

// leadingBlanks returns the start of the blank run ending at off.
func leadingBlanks(s scan.Scanner, off, limit ByteOffset) ByteOffset {
	for off > limit && isBlank(s.Rune(s.Prev(off))) {
		off = s.Prev(off)
	}
	return off
}

// aroundBlanks grows [start, end) by the trailing blank run, or by the
// leading one when nothing trails.
func aroundBlanks(s scan.Scanner, start, end ByteOffset) (ByteOffset, ByteOffset) {
	if t := trailingBlanks(s, end, s.LineEnd(start)); t > end {
		return start, t
	}
	return leadingBlanks(s, start, s.LineStart(start)), end
}

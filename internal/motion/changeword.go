package motion

import (
	"github.com/dshills/vimchange/internal/charclass"
	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/engine/cursor"
	"github.com/dshills/vimchange/internal/scan"
)

// ExpandChangeWord computes the range of a change over the next word (cw).
//
// With a count of one and the head on a non-whitespace character, the
// range ends at the word (or subword) containing the head: one space past
// it when exactly a space follows, otherwise one character past it, never
// crossing a newline. In every other case it is the plain
// NextWordStart/NextSubwordStart operator range.
func ExpandChangeWord(buf buffer.Reader, cls charclass.Classifier, sel cursor.Selection, count int, ignorePunctuation, subword bool) (cursor.Selection, bool) {
	count = NormalizeCount(count)
	cls = cls.WithIgnorePunctuation(ignorePunctuation)
	s := scan.New(buf, cls)
	head := buf.ClipOffset(sel.Head, buffer.BiasLeft)

	if count > 1 || head >= s.Len() || s.Class(head) == charclass.Whitespace {
		var m Motion = NextWordStart{IgnorePunctuation: ignorePunctuation}
		if subword {
			m = NextSubwordStart{IgnorePunctuation: ignorePunctuation}
		}
		return Expand(buf, cls, sel, m, count, true)
	}

	wordEnd := wordRunEnd(s, head, subword)
	end := wordEnd
	switch r := s.Rune(wordEnd); {
	case r == ' ':
		end = wordEnd + 1
	case wordEnd < s.Len() && r != '\n':
		end = s.Next(wordEnd)
	}

	anchor := buf.ClipOffset(sel.Anchor, buffer.BiasLeft)
	return cursor.NewSelection(min(anchor, head), max(anchor, end)), true
}

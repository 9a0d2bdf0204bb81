package textobj

import (
	"github.com/dshills/vimchange/internal/charclass"
	"github.com/dshills/vimchange/internal/scan"
)

// findWord selects the class run around head on its line. On whitespace the
// inner object is the blank run and around adds the word after it.
func findWord(s scan.Scanner, head ByteOffset, around, subword bool) (ByteOffset, ByteOffset, bool) {
	if head >= s.Len() || s.Rune(head) == '\n' {
		return 0, 0, false
	}
	lineStart, lineEnd := s.LineStart(head), s.LineEnd(head)
	start, end := runBounds(s, head, lineStart, lineEnd, subword)
	if !around {
		return start, end, true
	}

	if s.Class(head) == charclass.Whitespace {
		if end < lineEnd {
			_, end = runBounds(s, end, lineStart, lineEnd, subword)
		}
		return start, end, true
	}
	start, end = aroundBlanks(s, start, end)
	return start, end, true
}

// runBounds returns the run of p's class containing p, limited to
// [lineStart, lineEnd).
func runBounds(s scan.Scanner, p, lineStart, lineEnd ByteOffset, subword bool) (ByteOffset, ByteOffset) {
	c := s.Class(p)
	split := subword && c == charclass.Word

	start := p
	for start > lineStart {
		pv := s.Prev(start)
		if s.Class(pv) != c || (split && charclass.IsSubwordStart(s.Rune(pv), s.Rune(start))) {
			break
		}
		start = pv
	}

	end := s.Next(p)
	for end < lineEnd && s.Class(end) == c {
		if split && charclass.IsSubwordEnd(s.Rune(s.Prev(end)), s.Rune(end)) {
			break
		}
		end = s.Next(end)
	}
	return start, end
}

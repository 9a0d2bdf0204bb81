// Package scan provides grapheme-aware stepping and classification over a
// buffer, shared by motions and text objects.
package scan

import (
	"github.com/dshills/vimchange/internal/charclass"
	"github.com/dshills/vimchange/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Scanner reads a buffer one grapheme cluster at a time. Positions outside
// the buffer read as the zero rune, which classifies as whitespace.
type Scanner struct {
	Buf buffer.Reader
	Cls charclass.Classifier
}

// New returns a Scanner over buf.
func New(buf buffer.Reader, cls charclass.Classifier) Scanner {
	return Scanner{Buf: buf, Cls: cls}
}

// Len returns the buffer length.
func (s Scanner) Len() ByteOffset {
	return s.Buf.Len()
}

// Rune returns the rune starting at off, or 0 outside the buffer.
func (s Scanner) Rune(off ByteOffset) rune {
	r, size := s.Buf.RuneAt(off)
	if size == 0 {
		return 0
	}
	return r
}

// Class returns the class of the grapheme at off. The buffer end classifies
// as whitespace.
func (s Scanner) Class(off ByteOffset) charclass.Class {
	if off < 0 || off >= s.Buf.Len() {
		return charclass.Whitespace
	}
	return s.Cls.Classify(s.Rune(off))
}

// Next returns the offset of the grapheme after the one at off.
func (s Scanner) Next(off ByteOffset) ByteOffset {
	return s.Buf.NextGrapheme(off)
}

// Prev returns the offset of the grapheme before off.
func (s Scanner) Prev(off ByteOffset) ByteOffset {
	return s.Buf.PrevGrapheme(off)
}

// Line returns the line containing off.
func (s Scanner) Line(off ByteOffset) uint32 {
	return s.Buf.LineOf(off)
}

// LineStart returns the start of the line containing off.
func (s Scanner) LineStart(off ByteOffset) ByteOffset {
	return s.Buf.LineStartOffset(s.Buf.LineOf(off))
}

// LineEnd returns the end of the content of the line containing off.
func (s Scanner) LineEnd(off ByteOffset) ByteOffset {
	return s.Buf.LineEndOffset(s.Buf.LineOf(off))
}

// LastLine returns the index of the last line.
func (s Scanner) LastLine() uint32 {
	return s.Buf.LineCount() - 1
}

// IsEmptyLine reports whether off is the start of a line with no content.
func (s Scanner) IsEmptyLine(off ByteOffset) bool {
	line := s.Buf.LineOf(off)
	start := s.Buf.LineStartOffset(line)
	return off == start && s.Buf.LineEndOffset(line) == start
}

// LineIsEmpty reports whether line has no content.
func (s Scanner) LineIsEmpty(line uint32) bool {
	return s.Buf.LineStartOffset(line) == s.Buf.LineEndOffset(line)
}

// LineIsBlank reports whether line holds only whitespace.
func (s Scanner) LineIsBlank(line uint32) bool {
	start, end := s.Buf.LineStartOffset(line), s.Buf.LineEndOffset(line)
	for r, off := range s.Buf.CharsAt(start) {
		if off >= end {
			break
		}
		if !charclass.IsWhitespace(r) {
			return false
		}
	}
	return true
}

// FirstNonBlank returns the first non-whitespace offset on line, or the
// line end when the line is blank.
func (s Scanner) FirstNonBlank(line uint32) ByteOffset {
	start, end := s.Buf.LineStartOffset(line), s.Buf.LineEndOffset(line)
	for r, off := range s.Buf.CharsAt(start) {
		if off >= end || (r != ' ' && r != '\t') {
			return min(off, end)
		}
	}
	return end
}

// Indent returns the width of the leading blank run of line in bytes.
func (s Scanner) Indent(line uint32) ByteOffset {
	return s.FirstNonBlank(line) - s.Buf.LineStartOffset(line)
}

// SkipBlanks advances off past spaces and tabs, never crossing a newline or
// limit.
func (s Scanner) SkipBlanks(off, limit ByteOffset) ByteOffset {
	for off < limit {
		r := s.Rune(off)
		if r != ' ' && r != '\t' {
			break
		}
		off = s.Next(off)
	}
	return min(off, limit)
}

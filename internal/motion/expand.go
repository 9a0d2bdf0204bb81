package motion

import (
	"fmt"

	"github.com/dshills/vimchange/internal/charclass"
	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/engine/cursor"
	"github.com/dshills/vimchange/internal/scan"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// NormalizeCount maps an absent or non-positive count to 1.
func NormalizeCount(count int) int {
	if count <= 0 {
		return 1
	}
	return count
}

// Expand evaluates m count times from the head of sel and returns the
// selection spanning from sel's anchor to the motion target, plus whether
// the motion succeeded. A motion that cannot move (or finds no target)
// fails and returns sel unchanged; CurrentLine, StartOfDocument and
// EndOfDocument never fail. sel itself is never modified.
//
// Charwise motions span [min(anchor, target), max(anchor, target)), one
// grapheme further for inclusive kinds. Linewise motions span every line
// they touch, excluding the final newline. With forOperator set, CharRight
// may reach the line end and NextWordStart/NextSubwordStart never consume
// the newline before the line they land on.
func Expand(buf buffer.Reader, cls charclass.Classifier, sel cursor.Selection, m Motion, count int, forOperator bool) (cursor.Selection, bool) {
	count = NormalizeCount(count)
	s := scan.New(buf, wordClassifier(cls, m))
	anchor := buf.ClipOffset(sel.Anchor, buffer.BiasLeft)
	head := buf.ClipOffset(sel.Head, buffer.BiasLeft)

	target, ok := evaluate(s, head, m, count, forOperator)
	if !ok || (target == head && !isInfallible(m)) {
		return sel, false
	}

	if IsLinewise(m) {
		start, end := linewiseRange(s, anchor, target)
		if _, ok := m.(CurrentLine); ok {
			start = s.SkipBlanks(start, end)
		}
		return orient(anchor, target, start, end), true
	}

	start, end := min(anchor, target), max(anchor, target)
	if IsInclusive(m) && end < s.Len() {
		end = s.Next(end)
	}
	if forOperator && isWordStartKind(m) {
		if tl := s.Line(target); target > anchor && tl > s.Line(start) {
			end = max(buf.LineEndOffset(tl-1), start)
		}
	}
	return orient(anchor, target, start, end), true
}

// Target returns where m moves a cursor at head, for hosts that move
// cursors rather than build ranges. forOperator has the same meaning as in
// Expand. ok is false when the cursor cannot move.
func Target(buf buffer.Reader, cls charclass.Classifier, head ByteOffset, m Motion, count int, forOperator bool) (ByteOffset, bool) {
	count = NormalizeCount(count)
	s := scan.New(buf, wordClassifier(cls, m))
	head = buf.ClipOffset(head, buffer.BiasLeft)

	target, ok := evaluate(s, head, m, count, forOperator)
	if !ok || target == head {
		return head, false
	}
	return target, true
}

// orient builds a selection over [start, end) facing the direction of the
// motion.
func orient(anchor, target, start, end ByteOffset) cursor.Selection {
	if target < anchor {
		return cursor.NewSelection(end, start)
	}
	return cursor.NewSelection(start, end)
}

func linewiseRange(s scan.Scanner, a, b ByteOffset) (ByteOffset, ByteOffset) {
	first, last := s.Line(min(a, b)), s.Line(max(a, b))
	return s.Buf.LineStartOffset(first), s.Buf.LineEndOffset(last)
}

func isWordStartKind(m Motion) bool {
	switch m.(type) {
	case NextWordStart, NextSubwordStart:
		return true
	}
	return false
}

// wordClassifier applies the IgnorePunctuation flag carried by word kinds.
func wordClassifier(cls charclass.Classifier, m Motion) charclass.Classifier {
	switch v := m.(type) {
	case NextWordStart:
		return cls.WithIgnorePunctuation(v.IgnorePunctuation)
	case NextWordEnd:
		return cls.WithIgnorePunctuation(v.IgnorePunctuation)
	case PreviousWordStart:
		return cls.WithIgnorePunctuation(v.IgnorePunctuation)
	case PreviousWordEnd:
		return cls.WithIgnorePunctuation(v.IgnorePunctuation)
	case NextSubwordStart:
		return cls.WithIgnorePunctuation(v.IgnorePunctuation)
	case NextSubwordEnd:
		return cls.WithIgnorePunctuation(v.IgnorePunctuation)
	case PreviousSubwordStart:
		return cls.WithIgnorePunctuation(v.IgnorePunctuation)
	}
	return cls
}

// evaluate returns the target of m from head. ok is false only for kinds
// that search and find nothing.
func evaluate(s scan.Scanner, head ByteOffset, m Motion, count int, forOperator bool) (ByteOffset, bool) {
	switch v := m.(type) {
	case FindForward:
		return findForward(s, head, v, count)
	case FindBackward:
		return findBackward(s, head, v, count)
	case Matching:
		return matchingBracket(s, head)
	case CurrentLine:
		line := lineAfter(s, head, count)
		return s.Buf.LineStartOffset(line) + (head - s.LineStart(head)), true
	case StartOfDocument:
		return s.FirstNonBlank(0), true
	case EndOfDocument:
		return s.FirstNonBlank(s.LastLine()), true
	case LineEnd:
		line := lineAfter(s, head, count)
		return s.Buf.LineEndOffset(line), true
	}

	p := head
	for range count {
		next := step(s, p, m, forOperator)
		if next == p {
			break
		}
		p = next
	}
	return p, true
}

// lineAfter returns the line count-1 lines below head, clamped to the last
// line.
func lineAfter(s scan.Scanner, head ByteOffset, count int) uint32 {
	line := uint64(s.Line(head)) + uint64(count-1)
	return uint32(min(line, uint64(s.LastLine())))
}

// step applies one repetition of a repeatable motion.
func step(s scan.Scanner, p ByteOffset, m Motion, forOperator bool) ByteOffset {
	switch m.(type) {
	case CharLeft:
		if p <= s.LineStart(p) {
			return p
		}
		return s.Prev(p)
	case CharRight:
		end := s.LineEnd(p)
		if p >= end {
			return p
		}
		next := s.Next(p)
		if next >= end && !forOperator {
			return p
		}
		return next
	case WrappingLeft:
		return s.Prev(p)
	case WrappingRight:
		return s.Next(p)
	case Up:
		return verticalStep(s, p, -1)
	case Down:
		return verticalStep(s, p, 1)
	case NextWordStart:
		return nextWordStart(s, p, false)
	case NextSubwordStart:
		return nextWordStart(s, p, true)
	case NextWordEnd:
		return nextWordEnd(s, p, false)
	case NextSubwordEnd:
		return nextWordEnd(s, p, true)
	case PreviousWordStart:
		return previousWordStart(s, p, false)
	case PreviousSubwordStart:
		return previousWordStart(s, p, true)
	case PreviousWordEnd:
		return previousWordEnd(s, p)
	case LineStart:
		return s.LineStart(p)
	case FirstNonWhitespace:
		return s.FirstNonBlank(s.Line(p))
	case NextLineStart:
		if s.Line(p) >= s.LastLine() {
			return p
		}
		return s.FirstNonBlank(s.Line(p) + 1)
	case PreviousLineStart:
		if s.Line(p) == 0 {
			return p
		}
		return s.FirstNonBlank(s.Line(p) - 1)
	case StartOfParagraph:
		return paragraphBackward(s, p)
	case EndOfParagraph:
		return paragraphForward(s, p)
	}
	panic(fmt.Sprintf("motion: %T is not a stepping motion", m))
}

// verticalStep moves p by delta lines keeping its byte column, clamped to
// the target line and snapped to a grapheme boundary.
func verticalStep(s scan.Scanner, p ByteOffset, delta int) ByteOffset {
	line := int64(s.Line(p)) + int64(delta)
	if line < 0 || line > int64(s.LastLine()) {
		return p
	}
	col := p - s.LineStart(p)
	start := s.Buf.LineStartOffset(uint32(line))
	end := s.Buf.LineEndOffset(uint32(line))
	return s.Buf.ClipOffset(min(start+col, end), buffer.BiasLeft)
}

func paragraphForward(s scan.Scanner, p ByteOffset) ByteOffset {
	line, last := s.Line(p), s.LastLine()
	for line < last && s.LineIsEmpty(line) {
		line++
	}
	for line < last && !s.LineIsEmpty(line) {
		line++
	}
	if s.LineIsEmpty(line) && s.Buf.LineStartOffset(line) > p {
		return s.Buf.LineStartOffset(line)
	}
	return s.Len()
}

func paragraphBackward(s scan.Scanner, p ByteOffset) ByteOffset {
	line := s.Line(p)
	for line > 0 && s.LineIsEmpty(line) {
		line--
	}
	for line > 0 && !s.LineIsEmpty(line) {
		line--
	}
	return s.Buf.LineStartOffset(line)
}

func findForward(s scan.Scanner, head ByteOffset, f FindForward, count int) (ByteOffset, bool) {
	end := s.LineEnd(head)
	found := 0
	for r, off := range s.Buf.CharsAt(s.Next(head)) {
		if off >= end {
			break
		}
		if r == f.Char {
			found++
			if found == count {
				if f.Before {
					return s.Prev(off), true
				}
				return off, true
			}
		}
	}
	return head, false
}

func findBackward(s scan.Scanner, head ByteOffset, f FindBackward, count int) (ByteOffset, bool) {
	start := s.LineStart(head)
	found := 0
	for r, off := range s.Buf.CharsBefore(head) {
		if off < start {
			break
		}
		if r == f.Char {
			found++
			if found == count {
				if f.After {
					return s.Next(off), true
				}
				return off, true
			}
		}
	}
	return head, false
}

var bracketPairs = map[rune]rune{
	'(': ')', '[': ']', '{': '}',
	')': '(', ']': '[', '}': '{',
}

func isOpenBracket(r rune) bool { return r == '(' || r == '[' || r == '{' }

// matchingBracket finds the first bracket at or after head on its line and
// returns the offset of its partner.
func matchingBracket(s scan.Scanner, head ByteOffset) (ByteOffset, bool) {
	end := s.LineEnd(head)
	for r, off := range s.Buf.CharsAt(head) {
		if off >= end {
			break
		}
		partner, ok := bracketPairs[r]
		if !ok {
			continue
		}
		if isOpenBracket(r) {
			return scanForClose(s, off, r, partner)
		}
		return scanForOpen(s, off, partner, r)
	}
	return head, false
}

func scanForClose(s scan.Scanner, from ByteOffset, open, close rune) (ByteOffset, bool) {
	depth := 0
	for r, off := range s.Buf.CharsAt(from) {
		switch r {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return off, true
			}
		}
	}
	return from, false
}

func scanForOpen(s scan.Scanner, from ByteOffset, open, close rune) (ByteOffset, bool) {
	depth := 0
	for r, off := range s.Buf.CharsBefore(s.Next(from)) {
		switch r {
		case close:
			depth++
		case open:
			depth--
			if depth == 0 {
				return off, true
			}
		}
	}
	return from, false
}

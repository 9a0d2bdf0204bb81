package textobj

import (
	"strings"

	"github.com/dshills/vimchange/internal/charclass"
	"github.com/dshills/vimchange/internal/scan"
)

// sentence is one sentence of a paragraph: text in [start, end) followed by
// whitespace up to next.
type sentence struct {
	start, end, next ByteOffset
}

// findSentence splits the paragraph around head into sentences. Whitespace
// after a sentence belongs to it.
func findSentence(s scan.Scanner, head ByteOffset, around bool) (ByteOffset, ByteOffset, bool) {
	if s.Len() == 0 {
		return 0, 0, false
	}
	line := s.Line(head)
	if s.LineIsBlank(line) {
		return 0, 0, false
	}
	first, last := lineRun(s, line, false)
	sentences := splitSentences(s, s.Buf.LineStartOffset(first), s.Buf.LineEndOffset(last))

	i := 0
	for i < len(sentences)-1 && head >= sentences[i].next {
		i++
	}
	cur := sentences[i]
	switch {
	case !around:
		return cur.start, cur.end, true
	case cur.next > cur.end:
		return cur.start, cur.next, true
	case i > 0:
		return sentences[i-1].end, cur.end, true
	}
	return cur.start, cur.end, true
}

func splitSentences(s scan.Scanner, start, end ByteOffset) []sentence {
	var out []sentence
	p := skipSpace(s, start, end)
	for p < end {
		e := sentenceEnd(s, p, end)
		next := skipSpace(s, e, end)
		out = append(out, sentence{p, e, next})
		p = next
	}
	return out
}

func skipSpace(s scan.Scanner, p, limit ByteOffset) ByteOffset {
	for p < limit && charclass.IsWhitespace(s.Rune(p)) {
		p = s.Next(p)
	}
	return p
}

// sentenceEnd returns the end of the sentence starting at p: just past a
// terminator and any closing punctuation that is followed by whitespace or
// the paragraph end.
func sentenceEnd(s scan.Scanner, p, limit ByteOffset) ByteOffset {
	for q := p; q < limit; q = s.Next(q) {
		if !strings.ContainsRune(".!?", s.Rune(q)) {
			continue
		}
		e := s.Next(q)
		for e < limit && strings.ContainsRune(`)]"'`, s.Rune(e)) {
			e = s.Next(e)
		}
		if e >= limit || charclass.IsWhitespace(s.Rune(e)) {
			return e
		}
	}
	return limit
}

// findParagraph selects the run of lines sharing head's blankness. Around
// adds the following run, or the preceding blank run at the buffer end.
func findParagraph(s scan.Scanner, head ByteOffset, around bool) (ByteOffset, ByteOffset, bool) {
	if s.Len() == 0 {
		return 0, 0, false
	}
	line := s.Line(head)
	blank := s.LineIsBlank(line)
	first, last := lineRun(s, line, blank)
	if around {
		switch {
		case last < s.LastLine():
			_, last = lineRun(s, last+1, !blank)
		case first > 0 && !blank:
			first, _ = lineRun(s, first-1, true)
		}
	}
	start, end := linesRange(s, first, last)
	return start, end, true
}

// lineRun returns the run of lines around line whose blankness is blank.
func lineRun(s scan.Scanner, line uint32, blank bool) (uint32, uint32) {
	first, last := line, line
	for first > 0 && s.LineIsBlank(first-1) == blank {
		first--
	}
	for last < s.LastLine() && s.LineIsBlank(last+1) == blank {
		last++
	}
	return first, last
}

// findIndent selects the lines around head indented at least as deeply as
// head's line. Blank lines inside the block are included, blank lines at its
// edges are not. On a blank line the nearest non-blank line below (else
// above) sets the depth.
func findIndent(s scan.Scanner, head ByteOffset, around, includeBelow bool) (ByteOffset, ByteOffset, bool) {
	ref, ok := nearestNonBlank(s, s.Line(head))
	if !ok {
		return 0, 0, false
	}
	depth := s.Indent(ref)
	within := func(line uint32) bool {
		return s.LineIsBlank(line) || s.Indent(line) >= depth
	}

	first, last := ref, ref
	for first > 0 && within(first-1) {
		first--
	}
	for last < s.LastLine() && within(last+1) {
		last++
	}
	for first < ref && s.LineIsBlank(first) {
		first++
	}
	for last > ref && s.LineIsBlank(last) {
		last--
	}

	if around {
		if first > 0 {
			first--
		}
		if includeBelow && last < s.LastLine() {
			last++
		}
	}
	start, end := linesRange(s, first, last)
	return start, end, true
}

func nearestNonBlank(s scan.Scanner, line uint32) (uint32, bool) {
	for l := line; l <= s.LastLine(); l++ {
		if !s.LineIsBlank(l) {
			return l, true
		}
	}
	for l := int64(line) - 1; l >= 0; l-- {
		if !s.LineIsBlank(uint32(l)) {
			return uint32(l), true
		}
	}
	return 0, false
}

package textobj

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/vimchange/internal/scan"
)

// findQuotes pairs unescaped quote characters left to right from the line
// start and picks the pair holding head, or else the first pair after it.
func findQuotes(s scan.Scanner, head ByteOffset, quote rune, around bool) (ByteOffset, ByteOffset, bool) {
	lineStart, lineEnd := s.LineStart(head), s.LineEnd(head)

	var quotes []ByteOffset
	backslashes := 0
	for r, off := range s.Buf.CharsAt(lineStart) {
		if off >= lineEnd {
			break
		}
		if r == quote && backslashes%2 == 0 {
			quotes = append(quotes, off)
		}
		if r == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
	}

	width := ByteOffset(utf8.RuneLen(quote))
	for i := 0; i+1 < len(quotes); i += 2 {
		open, close := quotes[i], quotes[i+1]
		if close < head {
			continue
		}
		if !around {
			return open + width, close, true
		}
		start, end := aroundBlanks(s, open, close+width)
		return start, end, true
	}
	return 0, 0, false
}

// findBrackets selects the innermost pair enclosing head. A head on either
// bracket counts as enclosed.
func findBrackets(s scan.Scanner, head ByteOffset, b Brackets, around bool) (ByteOffset, ByteOffset, bool) {
	open, close, ok := enclosingPair(s, head, b.Open, b.Close)
	if !ok {
		return 0, 0, false
	}
	if around {
		return open, close + ByteOffset(utf8.RuneLen(b.Close)), true
	}
	return innerBrackets(s, open+ByteOffset(utf8.RuneLen(b.Open)), close)
}

func findAnyBrackets(s scan.Scanner, head ByteOffset, around bool) (ByteOffset, ByteOffset, bool) {
	var best Brackets
	bestOpen, bestClose := ByteOffset(-1), ByteOffset(-1)
	for _, b := range []Brackets{Parens, SquareBrackets, CurlyBrackets} {
		open, close, ok := enclosingPair(s, head, b.Open, b.Close)
		if !ok {
			continue
		}
		if bestOpen < 0 || close-open < bestClose-bestOpen {
			best, bestOpen, bestClose = b, open, close
		}
	}
	if bestOpen < 0 {
		return 0, 0, false
	}
	if around {
		return bestOpen, bestClose + 1, true
	}
	return innerBrackets(s, bestOpen+ByteOffset(utf8.RuneLen(best.Open)), bestClose)
}

// innerBrackets trims the newline after an opening bracket that ends its
// line and the indentation before a closing bracket that starts its line.
// The newline before that closing line stays, leaving one line to type on.
func innerBrackets(s scan.Scanner, start, close ByteOffset) (ByteOffset, ByteOffset, bool) {
	if s.Rune(start) != '\n' {
		return start, close, true
	}
	closeLine := s.LineStart(close)
	if s.SkipBlanks(closeLine, close) != close || s.Line(close) <= s.Line(start)+1 {
		return start, close, true
	}
	return start + 1, closeLine - 1, true
}

func enclosingPair(s scan.Scanner, head ByteOffset, open, close rune) (ByteOffset, ByteOffset, bool) {
	o, ok := findOpen(s, head, open, close)
	if !ok {
		return 0, 0, false
	}
	c, ok := findClose(s, o, open, close)
	if !ok {
		return 0, 0, false
	}
	return o, c, true
}

func findOpen(s scan.Scanner, head ByteOffset, open, close rune) (ByteOffset, bool) {
	if head < s.Len() && s.Rune(head) == open {
		return head, true
	}
	depth := 0
	for r, off := range s.Buf.CharsBefore(head) {
		switch r {
		case close:
			depth++
		case open:
			if depth == 0 {
				return off, true
			}
			depth--
		}
	}
	return 0, false
}

func findClose(s scan.Scanner, from ByteOffset, open, close rune) (ByteOffset, bool) {
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
	return 0, false
}

// tagPair is a matched element: the opening tag spans [openStart, openEnd)
// and the closing tag [closeStart, closeEnd).
type tagPair struct {
	openStart, openEnd   ByteOffset
	closeStart, closeEnd ByteOffset
}

type openTag struct {
	name       string
	start, end ByteOffset
}

// findTag selects the innermost element containing head.
func findTag(s scan.Scanner, head ByteOffset, around bool) (ByteOffset, ByteOffset, bool) {
	var best tagPair
	found := false
	for _, p := range tagPairs(s.Buf.TextRange(0, s.Len())) {
		if head < p.openStart || head >= p.closeEnd {
			continue
		}
		if !found || p.openStart > best.openStart {
			best, found = p, true
		}
	}
	if !found {
		return 0, 0, false
	}
	if around {
		return best.openStart, best.closeEnd, true
	}
	return best.openEnd, best.closeStart, true
}

// tagPairs tokenizes text into tags and matches them with a stack.
// Comments, declarations, processing instructions and self-closing tags are
// skipped; a closing tag discards unmatched opening tags above its partner.
func tagPairs(text string) []tagPair {
	var (
		pairs []tagPair
		stack []openTag
	)
	for i := 0; i < len(text); i++ {
		if text[i] != '<' {
			continue
		}
		j := strings.IndexByte(text[i:], '>')
		if j < 0 {
			break
		}
		j += i
		body := text[i+1 : j]
		start, end := ByteOffset(i), ByteOffset(j+1)

		switch {
		case body == "" || body[0] == '!' || body[0] == '?' || strings.HasSuffix(body, "/"):
		case body[0] == '/':
			name := tagName(body[1:])
			for k := len(stack) - 1; k >= 0; k-- {
				if stack[k].name == name {
					pairs = append(pairs, tagPair{stack[k].start, stack[k].end, start, end})
					stack = stack[:k]
					break
				}
			}
		default:
			if name := tagName(body); name != "" {
				stack = append(stack, openTag{name, start, end})
			} else {
				continue
			}
		}
		i = j
	}
	return pairs
}

func tagName(body string) string {
	end := strings.IndexFunc(body, func(r rune) bool {
		return unicode.IsSpace(r) || r == '/' || r == '>'
	})
	if end < 0 {
		end = len(body)
	}
	name := body[:end]
	if name == "" {
		return ""
	}
	if r, _ := utf8.DecodeRuneInString(name); !unicode.IsLetter(r) {
		return ""
	}
	return name
}

package motion

import (
	"github.com/dshills/vimchange/internal/charclass"
	"github.com/dshills/vimchange/internal/scan"
)

// nextWordStart returns the start of the next word after p (w). Empty lines
// count as words.
func nextWordStart(s scan.Scanner, p ByteOffset, subword bool) ByteOffset {
	n := s.Len()
	if p >= n {
		return n
	}

	q := p
	if c := s.Class(p); c != charclass.Whitespace {
		left := s.Rune(q)
		q = s.Next(q)
		for q < n && s.Class(q) == c {
			right := s.Rune(q)
			if subword && c == charclass.Word && charclass.IsSubwordStart(left, right) {
				return q
			}
			left = right
			q = s.Next(q)
		}
	}
	for q < n && s.Class(q) == charclass.Whitespace {
		if q != p && s.IsEmptyLine(q) {
			return q
		}
		q = s.Next(q)
	}
	return q
}

// nextWordEnd returns the last character of the word ending after p (e).
func nextWordEnd(s scan.Scanner, p ByteOffset, subword bool) ByteOffset {
	n := s.Len()
	q := s.Next(p)
	for q < n && s.Class(q) == charclass.Whitespace {
		q = s.Next(q)
	}
	if q >= n {
		return p
	}

	c := s.Class(q)
	left := s.Rune(q)
	for {
		nx := s.Next(q)
		if nx >= n || s.Class(nx) != c {
			return q
		}
		right := s.Rune(nx)
		if subword && c == charclass.Word && charclass.IsSubwordEnd(left, right) {
			return q
		}
		left = right
		q = nx
	}
}

// previousWordStart returns the start of the word before p (b). Empty lines
// count as words.
func previousWordStart(s scan.Scanner, p ByteOffset, subword bool) ByteOffset {
	if p <= 0 {
		return 0
	}

	q := s.Prev(p)
	for q > 0 && s.Class(q) == charclass.Whitespace {
		if s.IsEmptyLine(q) {
			return q
		}
		q = s.Prev(q)
	}

	c := s.Class(q)
	if c == charclass.Whitespace {
		return q
	}
	for q > 0 {
		pv := s.Prev(q)
		if s.Class(pv) != c {
			break
		}
		if subword && c == charclass.Word && charclass.IsSubwordStart(s.Rune(pv), s.Rune(q)) {
			break
		}
		q = pv
	}
	return q
}

// previousWordEnd returns the last character of the word before the one
// containing p (ge). Empty lines count as words.
func previousWordEnd(s scan.Scanner, p ByteOffset) ByteOffset {
	if p <= 0 {
		return 0
	}

	q := min(p, s.Len())
	if c := s.Class(q); q < s.Len() && c != charclass.Whitespace {
		for q > 0 && s.Class(s.Prev(q)) == c {
			q = s.Prev(q)
		}
	}
	if q == 0 {
		return 0
	}

	q = s.Prev(q)
	for q > 0 && s.Class(q) == charclass.Whitespace {
		if s.IsEmptyLine(q) {
			return q
		}
		q = s.Prev(q)
	}
	return q
}

// wordRunEnd returns the exclusive end of the word (or subword) run that
// contains p.
func wordRunEnd(s scan.Scanner, p ByteOffset, subword bool) ByteOffset {
	n := s.Len()
	c := s.Class(p)
	left := s.Rune(p)
	q := s.Next(p)
	for q < n && s.Class(q) == c {
		right := s.Rune(q)
		if subword && c == charclass.Word && charclass.IsSubwordEnd(left, right) {
			break
		}
		left = right
		q = s.Next(q)
	}
	return q
}

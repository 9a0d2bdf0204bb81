// Package motion evaluates vim motions against a buffer and turns them into
// the selection an operator acts on.
package motion

import "fmt"

// Motion is a closed set of motion kinds. Every variant is a value type
// declared in this package.
type Motion interface {
	isMotion()
}

// Character motions.
type (
	CharLeft      struct{} // h
	CharRight     struct{} // l
	WrappingLeft  struct{} // <BS>, crosses line starts
	WrappingRight struct{} // <Space>, crosses line ends
	Up            struct{} // k
	Down          struct{} // j
)

// Word motions. IgnorePunctuation selects the WORD variants.
type (
	NextWordStart        struct{ IgnorePunctuation bool } // w, W
	NextWordEnd          struct{ IgnorePunctuation bool } // e, E
	PreviousWordStart    struct{ IgnorePunctuation bool } // b, B
	PreviousWordEnd      struct{ IgnorePunctuation bool } // ge, gE
	NextSubwordStart     struct{ IgnorePunctuation bool }
	NextSubwordEnd       struct{ IgnorePunctuation bool }
	PreviousSubwordStart struct{ IgnorePunctuation bool }
)

// Line and document motions.
type (
	LineStart          struct{} // 0
	FirstNonWhitespace struct{} // ^
	LineEnd            struct{} // $
	CurrentLine        struct{} // the motion doubled operators use (cc)
	NextLineStart      struct{} // +
	PreviousLineStart  struct{} // -
	StartOfDocument    struct{} // gg
	EndOfDocument      struct{} // G
	StartOfParagraph   struct{} // {
	EndOfParagraph     struct{} // }
)

// FindForward moves to the next Char on the line (f), or just before it
// when Before is set (t).
type FindForward struct {
	Char   rune
	Before bool
}

// FindBackward moves to the previous Char on the line (F), or just after it
// when After is set (T).
type FindBackward struct {
	Char  rune
	After bool
}

// Matching jumps to the bracket matching the next bracket on the line (%).
type Matching struct{}

func (CharLeft) isMotion()             {}
func (CharRight) isMotion()            {}
func (WrappingLeft) isMotion()         {}
func (WrappingRight) isMotion()        {}
func (Up) isMotion()                   {}
func (Down) isMotion()                 {}
func (NextWordStart) isMotion()        {}
func (NextWordEnd) isMotion()          {}
func (PreviousWordStart) isMotion()    {}
func (PreviousWordEnd) isMotion()      {}
func (NextSubwordStart) isMotion()     {}
func (NextSubwordEnd) isMotion()       {}
func (PreviousSubwordStart) isMotion() {}
func (LineStart) isMotion()            {}
func (FirstNonWhitespace) isMotion()   {}
func (LineEnd) isMotion()              {}
func (CurrentLine) isMotion()          {}
func (NextLineStart) isMotion()        {}
func (PreviousLineStart) isMotion()    {}
func (StartOfDocument) isMotion()      {}
func (EndOfDocument) isMotion()        {}
func (StartOfParagraph) isMotion()     {}
func (EndOfParagraph) isMotion()       {}
func (FindForward) isMotion()          {}
func (FindBackward) isMotion()         {}
func (Matching) isMotion()             {}

// IsLinewise reports whether m captures whole lines.
func IsLinewise(m Motion) bool {
	switch m.(type) {
	case Up, Down, CurrentLine, NextLineStart, PreviousLineStart,
		StartOfDocument, EndOfDocument:
		return true
	case CharLeft, CharRight, WrappingLeft, WrappingRight,
		NextWordStart, NextWordEnd, PreviousWordStart, PreviousWordEnd,
		NextSubwordStart, NextSubwordEnd, PreviousSubwordStart,
		LineStart, FirstNonWhitespace, LineEnd,
		StartOfParagraph, EndOfParagraph,
		FindForward, FindBackward, Matching:
		return false
	}
	panic(fmt.Sprintf("motion: unknown kind %T", m))
}

// IsInclusive reports whether a charwise m includes the character at its
// target.
func IsInclusive(m Motion) bool {
	switch m.(type) {
	case NextWordEnd, PreviousWordEnd, NextSubwordEnd, FindForward, Matching:
		return true
	case CharLeft, CharRight, WrappingLeft, WrappingRight, Up, Down,
		NextWordStart, PreviousWordStart, NextSubwordStart, PreviousSubwordStart,
		LineStart, FirstNonWhitespace, LineEnd, CurrentLine,
		NextLineStart, PreviousLineStart, StartOfDocument, EndOfDocument,
		StartOfParagraph, EndOfParagraph, FindBackward:
		return false
	}
	panic(fmt.Sprintf("motion: unknown kind %T", m))
}

// AlwaysCompletesChange reports whether a change with m enters Insert mode
// even when the motion could not move. This is an explicit table rather
// than a property derived from the motion.
func AlwaysCompletesChange(m Motion) bool {
	switch m.(type) {
	case CharLeft, CharRight, LineEnd, WrappingLeft, LineStart:
		return true
	}
	return false
}

// isInfallible reports kinds that succeed even without moving.
func isInfallible(m Motion) bool {
	switch m.(type) {
	case CurrentLine, StartOfDocument, EndOfDocument:
		return true
	}
	return false
}

// Name returns a short human-readable name for m.
func Name(m Motion) string {
	switch v := m.(type) {
	case CharLeft:
		return "char-left"
	case CharRight:
		return "char-right"
	case WrappingLeft:
		return "wrapping-left"
	case WrappingRight:
		return "wrapping-right"
	case Up:
		return "up"
	case Down:
		return "down"
	case NextWordStart:
		return bigName("next-word-start", v.IgnorePunctuation)
	case NextWordEnd:
		return bigName("next-word-end", v.IgnorePunctuation)
	case PreviousWordStart:
		return bigName("previous-word-start", v.IgnorePunctuation)
	case PreviousWordEnd:
		return bigName("previous-word-end", v.IgnorePunctuation)
	case NextSubwordStart:
		return bigName("next-subword-start", v.IgnorePunctuation)
	case NextSubwordEnd:
		return bigName("next-subword-end", v.IgnorePunctuation)
	case PreviousSubwordStart:
		return bigName("previous-subword-start", v.IgnorePunctuation)
	case LineStart:
		return "line-start"
	case FirstNonWhitespace:
		return "first-non-whitespace"
	case LineEnd:
		return "line-end"
	case CurrentLine:
		return "current-line"
	case NextLineStart:
		return "next-line-start"
	case PreviousLineStart:
		return "previous-line-start"
	case StartOfDocument:
		return "start-of-document"
	case EndOfDocument:
		return "end-of-document"
	case StartOfParagraph:
		return "start-of-paragraph"
	case EndOfParagraph:
		return "end-of-paragraph"
	case FindForward:
		if v.Before {
			return fmt.Sprintf("till-forward(%q)", v.Char)
		}
		return fmt.Sprintf("find-forward(%q)", v.Char)
	case FindBackward:
		if v.After {
			return fmt.Sprintf("till-backward(%q)", v.Char)
		}
		return fmt.Sprintf("find-backward(%q)", v.Char)
	case Matching:
		return "matching"
	}
	panic(fmt.Sprintf("motion: unknown kind %T", m))
}

func bigName(name string, big bool) string {
	if big {
		return name + "(big)"
	}
	return name
}

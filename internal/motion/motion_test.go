package motion

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/vimchange/internal/charclass"
	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/engine/cursor"
)

type span struct {
	start, end ByteOffset
}

func expand(t *testing.T, text string, head ByteOffset, m Motion, count int, forOperator bool) (span, bool) {
	t.Helper()
	buf := buffer.NewSnapshot(text)
	sel, ok := Expand(buf, charclass.Classifier{}, cursor.NewCursorSelection(head), m, count, forOperator)
	return span{sel.Start(), sel.End()}, ok
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		head   ByteOffset
		motion Motion
		count  int
		op     bool
		want   span
	}{
		{"w", "foo bar baz", 0, NextWordStart{}, 1, true, span{0, 4}},
		{"2w", "foo bar baz", 0, NextWordStart{}, 2, true, span{0, 8}},
		{"zero count is one", "foo bar baz", 0, NextWordStart{}, 0, true, span{0, 4}},
		{"w punctuation", "foo.bar", 0, NextWordStart{}, 1, true, span{0, 3}},
		{"W ignores punctuation", "foo.bar baz", 0, NextWordStart{IgnorePunctuation: true}, 1, true, span{0, 8}},
		{"w keeps newline for operator", "foo   \n  bar", 3, NextWordStart{}, 1, true, span{3, 6}},
		{"w crosses newline as motion", "foo   \n  bar", 3, NextWordStart{}, 1, false, span{3, 9}},
		{"w stops at empty line", "a\n\nb", 0, NextWordStart{}, 1, false, span{0, 2}},
		{"w at end of buffer", "foo", 1, NextWordStart{}, 1, true, span{1, 3}},
		{"e", "foo bar", 0, NextWordEnd{}, 1, true, span{0, 3}},
		{"2e", "foo bar", 0, NextWordEnd{}, 2, true, span{0, 7}},
		{"b", "foo bar", 4, PreviousWordStart{}, 1, true, span{0, 4}},
		{"b inside word", "foo bar", 5, PreviousWordStart{}, 1, true, span{4, 5}},
		{"b stops at empty line", "a\n\nb", 3, PreviousWordStart{}, 1, true, span{2, 3}},
		{"ge", "foo bar", 5, PreviousWordEnd{}, 1, true, span{2, 6}},
		{"subword start", "fooBar_baz", 0, NextSubwordStart{}, 1, true, span{0, 3}},
		{"subword start twice", "fooBar_baz", 0, NextSubwordStart{}, 2, true, span{0, 7}},
		{"subword end", "fooBar", 0, NextSubwordEnd{}, 1, true, span{0, 3}},
		{"previous subword start", "fooBar", 5, PreviousSubwordStart{}, 1, true, span{3, 5}},
		{"char right operator", "ab", 1, CharRight{}, 1, true, span{1, 2}},
		{"char left", "ab", 1, CharLeft{}, 1, true, span{0, 1}},
		{"wrapping left crosses line", "ab\ncd", 3, WrappingLeft{}, 1, true, span{2, 3}},
		{"wrapping right crosses line", "ab\ncd", 2, WrappingRight{}, 1, true, span{2, 3}},
		{"line end", "hello world", 6, LineEnd{}, 1, true, span{6, 11}},
		{"line start", "hello world", 6, LineStart{}, 1, true, span{0, 6}},
		{"first non whitespace", "   x", 0, FirstNonWhitespace{}, 1, true, span{0, 3}},
		{"current line keeps indent", "  brown fox", 5, CurrentLine{}, 1, true, span{2, 11}},
		{"current line count", "a\n  b\nc", 2, CurrentLine{}, 2, true, span{4, 7}},
		{"current line count clamps", "ab", 0, CurrentLine{}, 5, true, span{0, 2}},
		{"down", "abc\nde", 2, Down{}, 1, true, span{0, 6}},
		{"up", "abc\nde", 5, Up{}, 1, true, span{0, 6}},
		{"next line start", "ab\n  cd", 0, NextLineStart{}, 1, true, span{0, 7}},
		{"previous line start", "ab\n  cd", 6, PreviousLineStart{}, 1, true, span{0, 7}},
		{"start of document", "ab\ncd", 4, StartOfDocument{}, 1, true, span{0, 5}},
		{"start of document ignores count", "ab\ncd\nef", 7, StartOfDocument{}, 3, true, span{0, 8}},
		{"end of document", "ab\ncd", 0, EndOfDocument{}, 1, true, span{0, 5}},
		{"end of paragraph", "a\n\nb", 0, EndOfParagraph{}, 1, true, span{0, 2}},
		{"end of paragraph at last", "a\nb", 0, EndOfParagraph{}, 1, true, span{0, 3}},
		{"start of paragraph", "a\n\nb", 3, StartOfParagraph{}, 1, true, span{2, 3}},
		{"find forward", "a,b,c", 0, FindForward{Char: ','}, 1, true, span{0, 2}},
		{"find forward count", "a,b,c", 0, FindForward{Char: ','}, 2, true, span{0, 4}},
		{"till forward", "a,b,c", 0, FindForward{Char: ',', Before: true}, 2, true, span{0, 3}},
		{"find backward", "a,b,c", 4, FindBackward{Char: ','}, 1, true, span{3, 4}},
		{"find backward count", "a,b,c", 4, FindBackward{Char: ','}, 2, true, span{1, 4}},
		{"till backward", "a,b,c", 4, FindBackward{Char: ',', After: true}, 2, true, span{2, 4}},
		{"matching forward", "f(a[b]c)", 0, Matching{}, 1, true, span{0, 8}},
		{"matching backward", "f(a[b]c)", 7, Matching{}, 1, true, span{1, 8}},
		{"matching across lines", "{\n x\n}", 0, Matching{}, 1, true, span{0, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := expand(t, tt.text, tt.head, tt.motion, tt.count, tt.op)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandFailures(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		head   ByteOffset
		motion Motion
		op     bool
	}{
		{"char left at line start", "ab\ncd", 3, CharLeft{}, true},
		{"char right on last char", "ab", 1, CharRight{}, false},
		{"char right at line end", "ab\ncd", 2, CharRight{}, true},
		{"line end at line end", "ab", 2, LineEnd{}, true},
		{"line start at line start", "ab", 0, LineStart{}, true},
		{"up on first line", "ab\ncd", 1, Up{}, true},
		{"down on last line", "ab\ncd", 4, Down{}, true},
		{"next line start on last line", "ab", 0, NextLineStart{}, true},
		{"b at start", "ab", 0, PreviousWordStart{}, true},
		{"e on last char", "ab", 1, NextWordEnd{}, true},
		{"find missing", "a,b", 0, FindForward{Char: 'z'}, true},
		{"find stays on line", "ab\n,", 0, FindForward{Char: ','}, true},
		{"till adjacent", "a,b", 0, FindForward{Char: ',', Before: true}, true},
		{"find backward missing", "a,b", 2, FindBackward{Char: 'z'}, true},
		{"matching without bracket", "abc", 0, Matching{}, true},
		{"matching unbalanced", "(abc", 0, Matching{}, true},
		{"empty buffer", "", 0, NextWordStart{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.NewSnapshot(tt.text)
			sel := cursor.NewCursorSelection(tt.head)
			got, ok := Expand(buf, charclass.Classifier{}, sel, tt.motion, 1, tt.op)
			assert.False(t, ok)
			assert.Equal(t, sel, got, "failed expansion must return the selection unchanged")
		})
	}
}

func TestExpandInfallibleKinds(t *testing.T) {
	for _, m := range []Motion{CurrentLine{}, StartOfDocument{}, EndOfDocument{}} {
		_, ok := expand(t, "", 0, m, 1, true)
		assert.True(t, ok, Name(m))
	}
}

func TestExpandKeepsAnchor(t *testing.T) {
	buf := buffer.NewSnapshot("foo bar baz")
	sel := cursor.NewSelection(1, 4)

	got, ok := Expand(buf, charclass.Classifier{}, sel, NextWordStart{}, 1, true)
	require.True(t, ok)
	assert.Equal(t, cursor.NewSelection(1, 8), got)
	assert.Equal(t, cursor.NewSelection(1, 4), sel)
}

func TestExpandBackwardOrientation(t *testing.T) {
	buf := buffer.NewSnapshot("foo bar")
	got, ok := Expand(buf, charclass.Classifier{}, cursor.NewCursorSelection(4), PreviousWordStart{}, 1, true)
	require.True(t, ok)
	assert.Equal(t, ByteOffset(0), got.Head)
	assert.Equal(t, ByteOffset(4), got.Anchor)
}

func TestExpandGraphemes(t *testing.T) {
	// e + combining acute is a single cluster.
	text := "xe\u0301y"
	got, ok := expand(t, text, 1, CharRight{}, 1, false)
	require.True(t, ok)
	assert.Equal(t, span{1, 4}, got)

	got, ok = expand(t, text, 4, CharLeft{}, 1, false)
	require.True(t, ok)
	assert.Equal(t, span{1, 4}, got)
}

func TestExpandWordChars(t *testing.T) {
	buf := buffer.NewSnapshot("foo-bar baz")
	cls := charclass.Classifier{WordChars: "-"}
	got, ok := Expand(buf, cls, cursor.NewCursorSelection(0), NextWordStart{}, 1, true)
	require.True(t, ok)
	assert.Equal(t, cursor.NewSelection(0, 8), got)
}

func TestExpandChangeWord(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		head    ByteOffset
		count   int
		big     bool
		subword bool
		want    span
	}{
		{"space after word", "Test test", 0, 1, false, false, span{0, 5}},
		{"punctuation after word", "Test-test", 0, 1, false, false, span{0, 5}},
		{"count falls back to w", "foo bar baz", 0, 2, false, false, span{0, 8}},
		{"newline not crossed", "Test\nfoo", 0, 1, false, false, span{0, 4}},
		{"end of buffer", "foo", 0, 1, false, false, span{0, 3}},
		{"mid word", "foobar baz", 3, 1, false, false, span{3, 7}},
		{"only one space consumed", "foo  bar", 0, 1, false, false, span{0, 4}},
		{"whitespace head falls back", "a  b", 1, 1, false, false, span{1, 3}},
		{"big word", "foo.bar baz", 0, 1, true, false, span{0, 8}},
		{"subword", "fooBar baz", 0, 1, false, true, span{0, 4}},
		{"subword before space", "barFoo baz", 3, 1, false, true, span{3, 7}},
		{"subword count falls back", "fooBar_baz", 0, 2, false, true, span{0, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.NewSnapshot(tt.text)
			sel, ok := ExpandChangeWord(buf, charclass.Classifier{}, cursor.NewCursorSelection(tt.head), tt.count, tt.big, tt.subword)
			assert.True(t, ok)
			assert.Equal(t, tt.want, span{sel.Start(), sel.End()})
		})
	}
}

func TestTarget(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		head        ByteOffset
		m           Motion
		forOperator bool
		want        ByteOffset
		wantOK      bool
	}{
		{"down keeps column", "abc\ndef", 1, Down{}, false, 5, true},
		{"up keeps column", "abc\ndef", 5, Up{}, false, 1, true},
		{"up on first line", "abc\ndef", 1, Up{}, false, 1, false},
		{"right stops before line end", "abc", 2, CharRight{}, false, 2, false},
		{"right reaches line end for operators", "abc", 2, CharRight{}, true, 3, true},
		{"left", "abc", 2, CharLeft{}, false, 1, true},
		{"word", "foo bar", 0, NextWordStart{}, false, 4, true},
		{"current line does not move", "abc", 1, CurrentLine{}, false, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Target(buffer.NewSnapshot(tt.text), charclass.Classifier{}, tt.head, tt.m, 1, tt.forOperator)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandLargeCounts(t *testing.T) {
	const text = "aaa\nbbb\nccc"

	got, ok := expand(t, text, 4, CurrentLine{}, math.MaxInt, true)
	require.True(t, ok)
	assert.Equal(t, span{4, 11}, got, "cc clamps to the last line")

	got, ok = expand(t, text, 4, LineEnd{}, math.MaxInt, true)
	require.True(t, ok)
	assert.Equal(t, span{4, 11}, got, "c$ clamps to the last line")

	for _, m := range []Motion{NextWordStart{}, PreviousWordStart{}, Down{}, CharRight{}, EndOfParagraph{}} {
		start := time.Now()
		want, wantOK := expand(t, text, 4, m, 50, true)
		got, ok := expand(t, text, 4, m, math.MaxInt32, true)
		assert.Equal(t, wantOK, ok, Name(m))
		assert.Equal(t, want, got, Name(m))
		assert.Less(t, time.Since(start), time.Second, Name(m))
	}
}

func TestAlwaysCompletesChange(t *testing.T) {
	forced := []Motion{CharLeft{}, CharRight{}, LineEnd{}, WrappingLeft{}, LineStart{}}
	for _, m := range forced {
		assert.True(t, AlwaysCompletesChange(m), Name(m))
	}
	for _, m := range []Motion{WrappingRight{}, NextWordStart{}, CurrentLine{}, Up{}, FirstNonWhitespace{}} {
		assert.False(t, AlwaysCompletesChange(m), Name(m))
	}
}

func TestLinewiseAndInclusiveTables(t *testing.T) {
	assert.True(t, IsLinewise(CurrentLine{}))
	assert.True(t, IsLinewise(EndOfDocument{}))
	assert.False(t, IsLinewise(NextWordStart{}))
	assert.True(t, IsInclusive(NextWordEnd{}))
	assert.True(t, IsInclusive(FindForward{Char: 'x'}))
	assert.False(t, IsInclusive(FindBackward{Char: 'x'}))
	assert.False(t, IsInclusive(LineEnd{}))
}

var allMotions = []Motion{
	CharLeft{}, CharRight{}, WrappingLeft{}, WrappingRight{}, Up{}, Down{},
	NextWordStart{}, NextWordStart{IgnorePunctuation: true}, NextWordEnd{},
	PreviousWordStart{}, PreviousWordEnd{IgnorePunctuation: true},
	NextSubwordStart{}, NextSubwordEnd{}, PreviousSubwordStart{},
	LineStart{}, FirstNonWhitespace{}, LineEnd{}, CurrentLine{},
	NextLineStart{}, PreviousLineStart{}, StartOfDocument{}, EndOfDocument{},
	StartOfParagraph{}, EndOfParagraph{},
	FindForward{Char: 'a'}, FindForward{Char: ' ', Before: true},
	FindBackward{Char: 'a'}, FindBackward{Char: '_', After: true}, Matching{},
}

func genText(t *rapid.T) string {
	runes := rapid.SliceOfN(rapid.SampledFrom([]rune("aB_ -.\n\t(){}[]é")), 0, 40).Draw(t, "text")
	return string(runes)
}

func TestExpandStaysInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := genText(t)
		buf := buffer.NewSnapshot(text)
		head := buf.ClipOffset(ByteOffset(rapid.IntRange(0, len(text)).Draw(t, "head")), buffer.BiasLeft)
		m := rapid.SampledFrom(allMotions).Draw(t, "motion")
		count := rapid.IntRange(-1, 4).Draw(t, "count")
		op := rapid.Bool().Draw(t, "op")

		sel, _ := Expand(buf, charclass.Classifier{}, cursor.NewCursorSelection(head), m, count, op)
		if sel.Start() < 0 || sel.End() > buf.Len() {
			t.Fatalf("%s from %d in %q gave %v", Name(m), head, text, sel)
		}
		if sel.Start() > sel.End() {
			t.Fatalf("inverted selection %v", sel)
		}
	})
}

func TestExpandChangeWordStaysInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := genText(t)
		buf := buffer.NewSnapshot(text)
		head := buf.ClipOffset(ByteOffset(rapid.IntRange(0, len(text)).Draw(t, "head")), buffer.BiasLeft)
		count := rapid.IntRange(0, 3).Draw(t, "count")

		sel, _ := ExpandChangeWord(buf, charclass.Classifier{}, cursor.NewCursorSelection(head), count,
			rapid.Bool().Draw(t, "big"), rapid.Bool().Draw(t, "subword"))
		if sel.Start() < 0 || sel.End() > buf.Len() {
			t.Fatalf("change word from %d in %q gave %v", head, text, sel)
		}
		if sel.Start() != head {
			t.Fatalf("change word must start at the head: %v", sel)
		}
	})
}

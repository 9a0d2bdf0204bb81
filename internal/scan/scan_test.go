package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/vimchange/internal/charclass"
	"github.com/dshills/vimchange/internal/engine/buffer"
)

func newScanner(text string) Scanner {
	return New(buffer.NewSnapshot(text), charclass.Classifier{})
}

func TestScannerClass(t *testing.T) {
	s := newScanner("a.b c")

	assert.Equal(t, charclass.Word, s.Class(0))
	assert.Equal(t, charclass.Punctuation, s.Class(1))
	assert.Equal(t, charclass.Whitespace, s.Class(3))
	assert.Equal(t, charclass.Whitespace, s.Class(5), "buffer end")
	assert.Equal(t, charclass.Whitespace, s.Class(-1))
	assert.Equal(t, rune(0), s.Rune(5))
}

func TestScannerGraphemeSteps(t *testing.T) {
	s := newScanner("xe\u0301y")

	assert.Equal(t, ByteOffset(1), s.Next(0))
	assert.Equal(t, ByteOffset(4), s.Next(1))
	assert.Equal(t, ByteOffset(1), s.Prev(4))
	assert.Equal(t, ByteOffset(5), s.Next(5))
	assert.Equal(t, ByteOffset(0), s.Prev(0))
}

func TestScannerLines(t *testing.T) {
	s := newScanner("ab\n\n  \n\tcd")

	assert.Equal(t, uint32(3), s.LastLine())
	assert.Equal(t, uint32(0), s.Line(2))
	assert.Equal(t, ByteOffset(4), s.LineStart(5))
	assert.Equal(t, ByteOffset(6), s.LineEnd(4))

	assert.False(t, s.IsEmptyLine(0))
	assert.True(t, s.IsEmptyLine(3))
	assert.False(t, s.IsEmptyLine(4))

	assert.True(t, s.LineIsEmpty(1))
	assert.False(t, s.LineIsEmpty(2))
	assert.True(t, s.LineIsBlank(2))
	assert.False(t, s.LineIsBlank(3))

	assert.Equal(t, ByteOffset(8), s.FirstNonBlank(3))
	assert.Equal(t, ByteOffset(6), s.FirstNonBlank(2), "blank line yields its end")
	assert.Equal(t, ByteOffset(1), s.Indent(3))
	assert.Equal(t, ByteOffset(0), s.Indent(0))
}

func TestScannerSkipBlanks(t *testing.T) {
	s := newScanner("  \tx\n  ")

	assert.Equal(t, ByteOffset(3), s.SkipBlanks(0, 4))
	assert.Equal(t, ByteOffset(2), s.SkipBlanks(0, 2))
	assert.Equal(t, ByteOffset(4), s.SkipBlanks(4, 7), "stops at newline")
	assert.Equal(t, ByteOffset(7), s.SkipBlanks(5, 7))
}

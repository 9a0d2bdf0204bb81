package textobj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/dshills/vimchange/internal/charclass"
	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/engine/cursor"
)

type span struct {
	start, end ByteOffset
}

func TestExpand(t *testing.T) {
	const quoted = `say "hi there" ok`
	const nested = "f(a, (b))"
	const block = "{\n    x\n}"
	const markup = "<div><p>hi</p></div>"
	const prose = "Hello world. Foo bar! Baz"
	const paras = "a\nb\n\nc"
	const indented = "def f():\n    a\n\n    b\nc"

	tests := []struct {
		name   string
		text   string
		head   ByteOffset
		obj    Object
		around bool
		want   span
	}{
		{"iw", "foo bar baz", 5, Word{}, false, span{4, 7}},
		{"aw takes trailing blanks", "foo bar baz", 5, Word{}, true, span{4, 8}},
		{"aw takes leading blanks at line end", "foo bar", 5, Word{}, true, span{3, 7}},
		{"iw on blanks", "foo bar", 3, Word{}, false, span{3, 4}},
		{"aw on blanks takes next word", "foo bar", 3, Word{}, true, span{3, 7}},
		{"iw stops at punctuation", "foo.bar", 1, Word{}, false, span{0, 3}},
		{"iw on punctuation", "foo.bar", 3, Word{}, false, span{3, 4}},
		{"iW", "foo.bar baz", 1, Word{IgnorePunctuation: true}, false, span{0, 7}},
		{"iw stays on line", "foo\nbar baz", 5, Word{}, false, span{4, 7}},
		{"subword camel", "fooBar_baz", 4, Subword{}, false, span{3, 6}},
		{"subword snake", "fooBar_baz", 8, Subword{}, false, span{7, 10}},

		{"i\"", quoted, 6, Quotes{Char: '"'}, false, span{5, 13}},
		{"a\" takes trailing blanks", quoted, 6, Quotes{Char: '"'}, true, span{4, 15}},
		{"i\" before quotes", quoted, 1, Quotes{Char: '"'}, false, span{5, 13}},
		{"i\" skips escaped quote", `"a\"b"`, 2, Quotes{Char: '"'}, false, span{1, 5}},
		{"a\" takes leading blanks at line end", `x "ab"`, 3, Quotes{Char: '"'}, true, span{1, 6}},
		{"i' empty", "''", 0, Quotes{Char: '\''}, false, span{1, 1}},

		{"i( innermost", nested, 6, Parens, false, span{6, 7}},
		{"a( innermost", nested, 6, Parens, true, span{5, 8}},
		{"i( outer", nested, 2, Parens, false, span{2, 8}},
		{"i( on closing bracket", nested, 8, Parens, false, span{2, 8}},
		{"i( on opening bracket", nested, 1, Parens, false, span{2, 8}},
		{"i{ multi-line keeps a line", block, 6, CurlyBrackets, false, span{2, 7}},
		{"a{ multi-line", block, 6, CurlyBrackets, true, span{0, 9}},
		{"i< generic", "x<T>", 2, AngleBrackets, false, span{2, 3}},
		{"ib picks innermost", "[a(b)c]", 3, AnyBrackets{}, false, span{3, 4}},
		{"ib falls back to outer", "[a(b)c]", 5, AnyBrackets{}, false, span{1, 6}},
		{"ab", "[a(b)c]", 5, AnyBrackets{}, true, span{0, 7}},

		{"it", markup, 8, Tag{}, false, span{8, 10}},
		{"at", markup, 8, Tag{}, true, span{5, 14}},
		{"it from outer tag", markup, 2, Tag{}, false, span{5, 14}},
		{"it skips self-closing", "<a><br/>x</a>", 8, Tag{}, false, span{3, 9}},

		{"is", prose, 14, Sentence{}, false, span{13, 21}},
		{"as takes trailing space", prose, 14, Sentence{}, true, span{13, 22}},
		{"as takes leading space at end", prose, 23, Sentence{}, true, span{21, 25}},
		{"is from gap", prose, 12, Sentence{}, false, span{0, 12}},
		{"is within paragraph", "One. Two\n\nThree.", 5, Sentence{}, false, span{5, 8}},

		{"ip", paras, 0, Paragraph{}, false, span{0, 4}},
		{"ap takes following blanks", paras, 0, Paragraph{}, true, span{0, 5}},
		{"ap at end takes preceding blanks", paras, 5, Paragraph{}, true, span{4, 6}},
		{"ip on blank", paras, 4, Paragraph{}, false, span{4, 5}},
		{"ap on blank takes next paragraph", paras, 4, Paragraph{}, true, span{4, 6}},

		{"ii", indented, 13, Indent{}, false, span{9, 22}},
		{"ai", indented, 13, Indent{}, true, span{0, 22}},
		{"aI", indented, 13, Indent{IncludeBelow: true}, true, span{0, 23}},
		{"ii from blank line", indented, 15, Indent{}, false, span{9, 22}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.NewSnapshot(tt.text)
			sel, ok := Expand(buf, charclass.Classifier{}, cursor.NewCursorSelection(tt.head), tt.obj, tt.around)
			assert.True(t, ok)
			assert.Equal(t, tt.want, span{sel.Start(), sel.End()})
			assert.False(t, sel.IsBackward())
		})
	}
}

func TestExpandNotFound(t *testing.T) {
	tests := []struct {
		name string
		text string
		head ByteOffset
		obj  Object
	}{
		{"word on newline", "a\nb", 1, Word{}},
		{"word in empty buffer", "", 0, Word{}},
		{"quotes after cursor only", `"a" b`, 4, Quotes{Char: '"'}},
		{"single quote char", `a "b`, 0, Quotes{Char: '"'}},
		{"quotes on another line", "\"a\"\nb", 4, Quotes{Char: '"'}},
		{"no brackets", "abc", 1, Parens},
		{"closed brackets before", "(x) y", 4, Parens},
		{"unbalanced", "(ab", 1, Parens},
		{"any brackets none", "abc", 1, AnyBrackets{}},
		{"no tags", "a < b > c", 4, Tag{}},
		{"sentence on blank line", "a.\n\nb.", 3, Sentence{}},
		{"paragraph in empty buffer", "", 0, Paragraph{}},
		{"indent in blank buffer", "\n  \n", 1, Indent{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.NewSnapshot(tt.text)
			sel := cursor.NewSelection(0, tt.head)
			got, ok := Expand(buf, charclass.Classifier{}, sel, tt.obj, false)
			assert.False(t, ok)
			assert.Equal(t, sel, got)
		})
	}
}

func TestLinewise(t *testing.T) {
	assert.True(t, Linewise(Paragraph{}))
	assert.True(t, Linewise(Indent{}))
	for _, obj := range []Object{Word{}, Subword{}, Sentence{}, Quotes{Char: '"'}, Parens, AnyBrackets{}, Tag{}} {
		assert.False(t, Linewise(obj), Name(obj))
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "WORD", Name(Word{IgnorePunctuation: true}))
	assert.Equal(t, `quotes(")`, Name(Quotes{Char: '"'}))
	assert.Equal(t, "brackets({})", Name(CurlyBrackets))
	assert.Equal(t, "indent(below)", Name(Indent{IncludeBelow: true}))
}

var allObjects = []Object{
	Word{}, Word{IgnorePunctuation: true}, Subword{}, Sentence{}, Paragraph{},
	Quotes{Char: '"'}, Quotes{Char: '\''}, Parens, SquareBrackets, CurlyBrackets,
	AngleBrackets, AnyBrackets{}, Tag{}, Indent{}, Indent{IncludeBelow: true},
}

func TestExpandStaysInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := string(rapid.SliceOfN(rapid.SampledFrom([]rune("ab_B .!\n\t\"'(){}[]<>/\\")), 0, 40).Draw(t, "text"))
		buf := buffer.NewSnapshot(text)
		head := ByteOffset(rapid.IntRange(0, len(text)).Draw(t, "head"))
		obj := rapid.SampledFrom(allObjects).Draw(t, "obj")
		around := rapid.Bool().Draw(t, "around")

		sel := cursor.NewCursorSelection(head)
		got, ok := Expand(buf, charclass.Classifier{}, sel, obj, around)
		if !ok {
			if got != sel {
				t.Fatalf("failed expansion changed the selection: %v", got)
			}
			return
		}
		if got.Start() < 0 || got.End() > buf.Len() || got.Anchor > got.Head {
			t.Fatalf("%s around=%v at %d in %q gave %v", Name(obj), around, head, text, got)
		}
	})
}

package script

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimchange/internal/engine"
	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/mode"
)

func newHost(t *testing.T, text string, opts ...Option) (*Host, *engine.Engine) {
	t.Helper()
	e := engine.New(engine.WithContent(text))
	h := NewHost(e, opts...)
	t.Cleanup(h.Close)
	return h, e
}

func TestChangeWord(t *testing.T) {
	h, e := newHost(t, "Test test")

	err := h.Run(context.Background(), "cw", `
		vc.set_cursors(0)
		local ok, m = vc.change("w")
		assert(ok, "change failed")
		assert(m == "insert", "mode " .. m)
		assert(vc.register() == "Test ")
	`)
	require.NoError(t, err)
	assert.Equal(t, "test", e.Text())
	assert.Equal(t, mode.Insert, e.Mode())
}

func TestChangeCounts(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"argument", `vc.change("w", 2)`},
		{"prefix", `vc.change("2w")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, e := newHost(t, "foo bar baz")
			require.NoError(t, h.Run(context.Background(), tt.name, tt.code))
			assert.Equal(t, "baz", e.Text())
		})
	}
}

func TestChangeLargeCount(t *testing.T) {
	h, e := newHost(t, "aaa\nbbb\nccc", WithTimeout(time.Second))

	err := h.Run(context.Background(), "large count", `
		vc.set_cursors(0)
		vc.change("w", 100)
		local small = vc.text()
		vc.undo()
		vc.change("w", 2^53)
		assert(vc.text() == small, vc.text())
		vc.undo()
		vc.set_cursors(4)
		vc.change("cc", 2^53)
	`)
	require.NoError(t, err)
	assert.Equal(t, "aaa\n", e.Text())
}

func TestChangeObjectWithRegister(t *testing.T) {
	h, e := newHost(t, "f(a, b) g(c)")

	err := h.Run(context.Background(), "ci(", `
		vc.set_cursors({2, 10})
		local ok = vc.change_object("i(", "a")
		assert(ok)
		local text, linewise = vc.register("a")
		assert(text == "a, b\nc", text)
		assert(linewise == false)
		local cur = vc.cursors()
		assert(#cur == 2 and cur[1] == 2 and cur[2] == 6)
	`)
	require.NoError(t, err)
	assert.Equal(t, "f() g()", e.Text())
}

func TestChangeObjectNotFound(t *testing.T) {
	h, e := newHost(t, "no brackets")

	err := h.Run(context.Background(), "ci(", `
		local ok, m = vc.change("i(")
		assert(not ok)
		assert(m == "normal")
		assert(vc.register() == nil)
	`)
	require.NoError(t, err)
	assert.Equal(t, "no brackets", e.Text())
}

func TestInsertGroupUndo(t *testing.T) {
	h, e := newHost(t, "")

	err := h.Run(context.Background(), "typing", `
		vc.group("typing", function()
			vc.insert("a")
			vc.insert("b")
		end)
		assert(vc.text() == "ab")
		assert(vc.undo())
		assert(vc.text() == "")
		assert(not vc.undo())
		assert(vc.redo())
		assert(not vc.redo())
	`)
	require.NoError(t, err)
	assert.Equal(t, "ab", e.Text())
	assert.Equal(t, 1, e.UndoCount())
}

func TestGroupPropagatesErrors(t *testing.T) {
	h, _ := newHost(t, "")

	err := h.Run(context.Background(), "group", `
		vc.group("bad", function() error("boom") end)
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestEscapeAndMode(t *testing.T) {
	h, e := newHost(t, "abc")

	err := h.Run(context.Background(), "mode", `
		assert(vc.mode() == "normal")
		vc.change("cc")
		assert(vc.mode() == "insert")
		vc.escape()
		assert(vc.mode() == "normal")
	`)
	require.NoError(t, err)
	assert.Equal(t, mode.Normal, e.Mode())
	assert.Equal(t, "", e.Text())
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	h, _ := newHost(t, "hello", WithOutput(&out))

	require.NoError(t, h.Run(context.Background(), "print", `print(vc.text(), #vc.cursors())`))
	assert.Equal(t, "hello\t1\n", out.String())
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"unknown descriptor", `vc.change("zz")`, "unknown descriptor"},
		{"motion as object", `vc.change_object("w")`, "unknown descriptor"},
		{"bad register", `vc.change("w", 1, "##")`, "invalid register"},
		{"no cursors", `vc.set_cursors({})`, "at least one cursor"},
		{"non-number cursor", `vc.set_cursors({"x"})`, "numbers"},
		{"read-only register", `vc.change("w", 1, ".")`, "read-only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHost(t, "foo bar")
			err := h.Run(context.Background(), tt.name, tt.code)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSandbox(t *testing.T) {
	h, _ := newHost(t, "")

	err := h.Run(context.Background(), "sandbox", `
		assert(dofile == nil)
		assert(loadfile == nil)
		assert(load == nil)
		assert(io == nil)
		assert(os == nil)
		assert(string.upper("x") == "X")
		assert(math.max(1, 2) == 2)
		assert(table.concat({"a", "b"}) == "ab")
	`)
	require.NoError(t, err)
}

func TestTimeout(t *testing.T) {
	h, _ := newHost(t, "", WithTimeout(50*time.Millisecond))

	start := time.Now()
	err := h.Run(context.Background(), "loop", `while true do end`)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunFile(t *testing.T) {
	h, e := newHost(t, "one two")
	path := filepath.Join(t.TempDir(), "change.lua")
	require.NoError(t, os.WriteFile(path, []byte(`vc.set_cursors(4); vc.change("$")`), 0o644))

	require.NoError(t, h.RunFile(context.Background(), path))
	assert.Equal(t, "one ", e.Text())
	assert.Equal(t, []buffer.ByteOffset{4}, e.Cursors())
}

func TestRunFileMissing(t *testing.T) {
	h, _ := newHost(t, "")
	err := h.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClosed(t *testing.T) {
	h, _ := newHost(t, "")
	h.Close()
	assert.ErrorIs(t, h.Run(context.Background(), "x", "return"), ErrClosed)
}

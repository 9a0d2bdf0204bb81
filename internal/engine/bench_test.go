package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/engine/history"
)

// ============================================================================
// Setup Helpers
// ============================================================================

var errBench = errors.New("bench")

func setupLargeEngine(b *testing.B, lines int) *Engine {
	b.Helper()
	var sb strings.Builder
	line := strings.Repeat("x", 80) + "\n"
	for i := 0; i < lines; i++ {
		sb.WriteString(line)
	}
	return New(WithContent(sb.String()))
}

// lineStarts places one cursor at the start of each of the first n lines.
func lineStarts(e *Engine, n int) []ByteOffset {
	snap := e.Snapshot()
	offsets := make([]ByteOffset, n)
	for i := range offsets {
		offsets[i] = snap.LineStartOffset(uint32(i))
	}
	return offsets
}

// ============================================================================
// Read Operation Benchmarks
// ============================================================================

func BenchmarkEngineText(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Text()
	}
}

func BenchmarkEngineSelections(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	_ = e.SetCursors(lineStarts(e, 1000)...)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Selections()
	}
}

// ============================================================================
// Write Operation Benchmarks
// ============================================================================

func BenchmarkEngineInsert(b *testing.B) {
	e := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Insert("x")
	}
}

func BenchmarkEngineInsertMultiCursor(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	_ = e.SetCursors(lineStarts(e, 100)...)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Insert("x")
	}
}

func BenchmarkEngineTransactionRollback(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	cmd := func() history.Command {
		return history.NewDeleteRangesCommand([]Range{buffer.NewRange(0, 10)})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Transaction("bench", func(tx *Tx) error {
			if err := tx.Execute(cmd()); err != nil {
				return err
			}
			return errBench
		})
	}
}

// ============================================================================
// Undo/Redo Benchmarks
// ============================================================================

func BenchmarkEngineUndoRedo(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	_ = e.SetCursors(lineStarts(e, 100)...)
	_ = e.Insert("x")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Undo()
		_ = e.Redo()
	}
}

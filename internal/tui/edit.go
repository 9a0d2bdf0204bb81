package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vimchange/internal/engine"
	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/engine/cursor"
	"github.com/dshills/vimchange/internal/engine/history"
	"github.com/dshills/vimchange/internal/mode"
	"github.com/dshills/vimchange/internal/motion"
)

func arrowMotion(k tcell.Key) motion.Motion {
	switch k {
	case tcell.KeyLeft:
		return motion.CharLeft{}
	case tcell.KeyUp:
		return motion.Up{}
	case tcell.KeyDown:
		return motion.Down{}
	default:
		return motion.CharRight{}
	}
}

// moveCursors moves every cursor by m. Cursors that cannot move stay.
func moveCursors(e *engine.Engine, m motion.Motion) error {
	snap, cls := e.Snapshot(), e.Classifier()
	sels := e.Selections()
	moved := make([]cursor.Selection, len(sels))
	insert := e.Mode() == mode.Insert
	for i, sel := range sels {
		head, _ := motion.Target(snap, cls, sel.Head, m, 1, insert)
		moved[i] = cursor.NewCursorSelection(head)
	}
	return e.SetSelections(moved...)
}

// addCursorBelow adds a cursor one line below the last one.
func addCursorBelow(e *engine.Engine) error {
	sels := e.Selections()
	last := sels[len(sels)-1]
	head, ok := motion.Target(e.Snapshot(), e.Classifier(), last.Head, motion.Down{}, 1, false)
	if !ok {
		return nil
	}
	return e.SetSelections(append(sels, cursor.NewCursorSelection(head))...)
}

// deleteBackward removes the grapheme before each cursor, or the selected
// text, as one undo step.
func deleteBackward(e *engine.Engine) error {
	return e.Transaction("backspace", func(tx *engine.Tx) error {
		snap := tx.Buffer().Snapshot()
		sels := tx.Selections().All()

		ranges := make([]buffer.Range, 0, len(sels))
		for _, sel := range sels {
			if !sel.IsEmpty() {
				ranges = append(ranges, sel.Range())
			} else if sel.Head > 0 {
				ranges = append(ranges, buffer.NewRange(snap.PrevGrapheme(sel.Head), sel.Head))
			}
		}
		merged := buffer.MergeRanges(ranges)
		if len(merged) == 0 {
			return nil
		}
		if err := tx.Execute(history.NewDeleteRangesCommand(merged)); err != nil {
			return err
		}
		tx.Selections().Map(func(_ cursor.ID, sel cursor.Selection) cursor.Selection {
			return cursor.NewCursorSelection(cursor.AdjustForDeletions(sel.End(), merged))
		})
		return nil
	})
}

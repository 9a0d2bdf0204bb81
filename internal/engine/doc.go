// Package engine is the editing session facade: one buffer, its
// selections, the register file, the current mode and undo history behind
// a single lock.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - buffer: immutable snapshots with grapheme-aware offsets
//   - cursor: ordered multi-selection sets with stable IDs
//   - history: undoable commands grouped into transactions
//
// # Transactions
//
// Every mutation runs inside Transaction. The callback receives a Tx that
// reads the buffer, edits selections, executes commands and writes
// registers. When the callback returns nil the whole transaction becomes
// one undo step and the mode chosen with Tx.SetMode takes effect. When it
// returns an error everything is rolled back.
//
//	err := e.Transaction("change", func(tx *engine.Tx) error {
//		if err := tx.Execute(history.NewDeleteRangesCommand(ranges)); err != nil {
//			return err
//		}
//		tx.SetMode(mode.Insert)
//		return nil
//	})
//
// # Observers
//
// Subscribe registers a callback that is told about each committed change
// after the lock is released.
//
// # Thread Safety
//
// All Engine operations are safe for concurrent use. A Tx must not be
// retained after its callback returns.
package engine

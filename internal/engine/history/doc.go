// Package history provides undo/redo for the change engine.
//
// The history system uses the Command pattern to encapsulate edit operations,
// enabling them to be executed, undone, and redone. Key concepts:
//
// # Operations
//
// An Operation records one replaced range with its old and new text.
// An OperationList holds operations applied together against the same
// original text.
//
// # Commands
//
// Commands implement the Command interface with Execute and Undo methods
// over a Target (buffer, selections and registers):
//   - DeleteRangesCommand: delete disjoint ranges in a single edit
//   - InsertCommand: insert text at every selection
//   - Transaction: one undo step, restoring selections and registers
//
// # History Stack
//
//	h := history.NewHistory(1000) // Max 1000 undo entries
//	h.Push(tx)
//	h.Undo(target)
//	h.Redo(target)
//
// # Command Grouping
//
// Several transactions can be grouped as a single undo unit:
//
//	h.BeginGroup("script")
//	// ... several transactions ...
//	h.EndGroup()
package history

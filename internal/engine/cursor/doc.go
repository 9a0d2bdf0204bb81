// Package cursor provides selections and the multi-selection set the change
// engine operates on.
//
// Selection Model:
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The current cursor position (where typing would occur)
//
// When Anchor == Head, the selection represents just a cursor with no
// selected text. Start and End are always derived, so Start <= End holds by
// construction.
//
// Multi-Selection Support:
//
// SelectionSet keeps selections in the order they were given, each with a
// stable ID. It never sorts or merges them; operations that need disjoint
// ranges (such as deleting text under every selection) compute the union
// themselves with buffer.MergeRanges and map each selection through the
// deletions with AdjustForDeletions.
//
// Basic usage:
//
//	ss := cursor.NewSelectionSetAt(0, 12)
//	ss.Map(func(id cursor.ID, sel cursor.Selection) cursor.Selection {
//	    return sel.Extend(sel.Head + 4)
//	})
//
// Thread Safety:
//
// Selection is an immutable value type and safe for concurrent use.
// SelectionSet is not thread-safe and should be protected by external
// synchronization if accessed concurrently.
package cursor

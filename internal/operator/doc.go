// Package operator implements the vim change operator over every selection
// of an engine session.
//
// A change runs in three phases inside one engine transaction:
//
//   - Expanding: each selection is grown by a motion or text object.
//   - Mutating: the union of the grown selections is written to a register
//     and deleted, and every selection collapses to an insertion point.
//   - ModeTransition: the session enters Insert mode on success, Normal
//     otherwise.
//
// The whole change is one undo step. An error at any phase rolls it back
// and leaves the session in Normal mode.
//
//	res := operator.ChangeMotion(e, motion.NextWordStart{}, 1)
//	res = operator.ChangeObject(e, textobj.Parens, false, operator.WithRegister('a'))
package operator

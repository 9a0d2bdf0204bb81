package history

import (
	"time"

	"github.com/dshills/vimchange/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Operation represents a single undoable edit.
// It captures all information needed to undo or redo the edit.
type Operation struct {
	Range   Range  // Range that was modified (in original document)
	OldText string // Text that was replaced (for undo)
	NewText string // Text that was inserted (for redo)

	Timestamp time.Time
}

// NewOperation creates a new operation.
func NewOperation(r Range, oldText, newText string) *Operation {
	return &Operation{
		Range:     r,
		OldText:   oldText,
		NewText:   newText,
		Timestamp: time.Now(),
	}
}

// IsDelete returns true if this operation is a pure deletion.
func (op *Operation) IsDelete() bool {
	return !op.Range.IsEmpty() && len(op.NewText) == 0
}

// BytesDelta returns the change in document length.
func (op *Operation) BytesDelta() int {
	return len(op.NewText) - int(op.Range.Len())
}

// NewRange returns the range of the text after the operation.
func (op *Operation) NewRange() Range {
	return Range{
		Start: op.Range.Start,
		End:   op.Range.Start + ByteOffset(len(op.NewText)),
	}
}

// Invert returns an operation that undoes this one.
func (op *Operation) Invert() *Operation {
	return &Operation{
		Range:     op.NewRange(),
		OldText:   op.NewText,
		NewText:   op.OldText,
		Timestamp: time.Now(),
	}
}

// Edit returns the buffer edit that applies this operation.
func (op *Operation) Edit() buffer.Edit {
	return buffer.Edit{Range: op.Range, NewText: op.NewText}
}

// OperationInfo provides read-only info about a history entry.
// Used for displaying undo/redo history to users.
type OperationInfo struct {
	ID          string
	Description string
	Timestamp   time.Time
}

// OperationList is a collection of operations applied together against the
// same original text, ordered by ascending offset.
type OperationList []*Operation

// Edits returns the list as buffer edits in reverse order, ready for
// buffer.ApplyEdits.
func (ops OperationList) Edits() []buffer.Edit {
	edits := make([]buffer.Edit, len(ops))
	for i, op := range ops {
		edits[len(ops)-1-i] = op.Edit()
	}
	return edits
}

// InverseEdits returns the edits that undo the whole list, in reverse order.
// Each inverse range is expressed in post-edit coordinates.
func (ops OperationList) InverseEdits() []buffer.Edit {
	edits := make([]buffer.Edit, len(ops))
	var shift ByteOffset
	for i, op := range ops {
		inv := op.Invert()
		inv.Range.Start += shift
		inv.Range.End += shift
		edits[len(ops)-1-i] = inv.Edit()
		shift += ByteOffset(op.BytesDelta())
	}
	return edits
}

// TotalBytesDelta returns the total change in document length.
func (ops OperationList) TotalBytesDelta() int {
	total := 0
	for _, op := range ops {
		total += op.BytesDelta()
	}
	return total
}

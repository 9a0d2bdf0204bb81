package cursor

import "github.com/dshills/vimchange/internal/engine/buffer"

// TransformOffset updates an offset after an edit.
// Returns the new offset position.
//
// Transformation rules:
//   - If edit is entirely before offset: adjust offset by the edit's delta
//   - If edit starts at or after offset: offset unchanged
//   - If edit spans offset: move offset to end of new text
func TransformOffset(offset ByteOffset, edit buffer.Edit) ByteOffset {
	if edit.Range.End <= offset {
		return offset + edit.Delta()
	}
	if edit.Range.Start >= offset {
		return offset
	}
	return edit.Range.Start + ByteOffset(len(edit.NewText))
}

// TransformSelection updates a selection after an edit.
// Both anchor and head are transformed independently.
func TransformSelection(sel Selection, edit buffer.Edit) Selection {
	return Selection{
		Anchor: TransformOffset(sel.Anchor, edit),
		Head:   TransformOffset(sel.Head, edit),
	}
}

// AdjustForDeletion handles the special case of transforming offsets
// when text is deleted. If the offset is within the deleted range,
// it moves to the start of the deletion.
func AdjustForDeletion(offset ByteOffset, deleteRange Range) ByteOffset {
	if offset <= deleteRange.Start {
		return offset
	}
	if offset < deleteRange.End {
		return deleteRange.Start
	}
	return offset - deleteRange.Len()
}

// AdjustForDeletions maps offset through a set of deletions that are applied
// together against the same original text. ranges must be disjoint.
func AdjustForDeletions(offset ByteOffset, ranges []Range) ByteOffset {
	result := offset
	for _, r := range ranges {
		switch {
		case offset >= r.End:
			result -= r.Len()
		case offset > r.Start:
			result -= offset - r.Start
		}
	}
	return result
}

// DeletionEdits converts disjoint ranges into delete edits in reverse order,
// ready for buffer.ApplyEdits.
func DeletionEdits(ranges []Range) []buffer.Edit {
	edits := make([]buffer.Edit, 0, len(ranges))
	for i := len(ranges) - 1; i >= 0; i-- {
		edits = append(edits, buffer.NewDelete(ranges[i].Start, ranges[i].End))
	}
	return edits
}

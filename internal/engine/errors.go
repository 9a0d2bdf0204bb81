package engine

import (
	"errors"

	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrOffsetOutOfRange indicates an offset is outside the valid buffer range.
	ErrOffsetOutOfRange = buffer.ErrOffsetOutOfRange

	// ErrRangeInvalid indicates an invalid range (e.g., end < start).
	ErrRangeInvalid = buffer.ErrRangeInvalid

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrReadOnly indicates an operation was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")

	// ErrNoCursors indicates a request to leave the session without cursors.
	ErrNoCursors = errors.New("at least one cursor is required")
)

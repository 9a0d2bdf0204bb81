package buffer

import (
	"errors"
	"io"
	"iter"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in reverse order")
)

// Buffer holds the editable document text.
// Every write replaces the current immutable Snapshot, so readers that took a
// snapshot keep a consistent view. All methods are thread-safe.
type Buffer struct {
	mu   sync.RWMutex
	snap *Snapshot
}

var _ Reader = (*Buffer)(nil)

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{snap: newSnapshot("", NewRevisionID())}
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string) *Buffer {
	return &Buffer{snap: newSnapshot(normalizeLineEndings(s), NewRevisionID())}
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader) (*Buffer, error) {
	// CRLF pairs may straddle read boundaries, so normalize after reading.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data)), nil
}

func (b *Buffer) current() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string { return b.current().Text() }

// TextRange returns text in the given byte range.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	return b.current().TextRange(start, end)
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset { return b.current().Len() }

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 { return b.current().LineCount() }

// LineText returns the text of a specific line (without newline).
func (b *Buffer) LineText(line uint32) string { return b.current().LineText(line) }

// LineLen returns the length of a specific line in bytes (without newline).
func (b *Buffer) LineLen(line uint32) int { return b.current().LineLen(line) }

// LineOf returns the line containing offset.
func (b *Buffer) LineOf(offset ByteOffset) uint32 { return b.current().LineOf(offset) }

// ByteAt returns the byte at the given offset.
func (b *Buffer) ByteAt(offset ByteOffset) (byte, bool) { return b.current().ByteAt(offset) }

// RuneAt returns the rune at the given byte offset.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (b *Buffer) RuneAt(offset ByteOffset) (rune, int) { return b.current().RuneAt(offset) }

// CharsAt iterates runes forward from offset over the current revision.
func (b *Buffer) CharsAt(offset ByteOffset) iter.Seq2[rune, ByteOffset] {
	return b.current().CharsAt(offset)
}

// CharsBefore iterates runes backward from offset over the current revision.
func (b *Buffer) CharsBefore(offset ByteOffset) iter.Seq2[rune, ByteOffset] {
	return b.current().CharsBefore(offset)
}

// ClipOffset clamps offset and snaps it to a grapheme boundary.
func (b *Buffer) ClipOffset(offset ByteOffset, bias Bias) ByteOffset {
	return b.current().ClipOffset(offset, bias)
}

// NextGrapheme returns the end of the grapheme cluster at offset.
func (b *Buffer) NextGrapheme(offset ByteOffset) ByteOffset {
	return b.current().NextGrapheme(offset)
}

// PrevGrapheme returns the start of the grapheme cluster ending at offset.
func (b *Buffer) PrevGrapheme(offset ByteOffset) ByteOffset {
	return b.current().PrevGrapheme(offset)
}

// Coordinate Conversion

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point { return b.current().OffsetToPoint(offset) }

// PointToOffset converts line/column to byte offset.
func (b *Buffer) PointToOffset(point Point) ByteOffset { return b.current().PointToOffset(point) }

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	return b.current().LineStartOffset(line)
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	return b.current().LineEndOffset(line)
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	res, err := b.ApplyEdit(NewInsert(offset, text))
	if err != nil {
		if errors.Is(err, ErrRangeInvalid) {
			return 0, ErrOffsetOutOfRange
		}
		return 0, err
	}
	return res.NewRange.End, nil
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.ApplyEdit(NewDelete(start, end))
	return err
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	res, err := b.ApplyEdit(Edit{Range: Range{Start: start, End: end}, NewText: text})
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// ApplyEdit applies a single edit to the buffer.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validRange(edit.Range) {
		return EditResult{}, ErrRangeInvalid
	}

	old := b.snap.text
	text := normalizeLineEndings(edit.NewText)
	b.snap = newSnapshot(old[:edit.Range.Start]+text+old[edit.Range.End:], NewRevisionID())

	return EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: edit.Range.Start + ByteOffset(len(text))},
		OldText:  old[edit.Range.Start:edit.Range.End],
	}, nil
}

// ApplyEdits applies multiple edits atomically.
// Edits must be in reverse order (highest offset first) to maintain validity.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
	}
	for _, edit := range edits {
		if !b.validRange(edit.Range) {
			return ErrRangeInvalid
		}
	}

	// Walk lowest-first so the output can be assembled in one pass.
	old := b.snap.text
	var sb strings.Builder
	sb.Grow(len(old))
	var pos ByteOffset
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		sb.WriteString(old[pos:e.Range.Start])
		sb.WriteString(normalizeLineEndings(e.NewText))
		pos = e.Range.End
	}
	sb.WriteString(old[pos:])

	b.snap = newSnapshot(sb.String(), NewRevisionID())
	return nil
}

// SetText replaces the whole buffer content.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap = newSnapshot(normalizeLineEndings(text), NewRevisionID())
}

func (b *Buffer) validRange(r Range) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End <= b.snap.Len()
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID { return b.current().RevisionID() }

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool { return b.current().IsEmpty() }

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot { return b.current() }

package cursor

import (
	"slices"
	"sync/atomic"
)

// ID identifies a selection for the lifetime of a SelectionSet.
// IDs survive edits, so a selection can be tracked across a change.
type ID uint64

var idCounter uint64

func nextID() ID {
	return ID(atomic.AddUint64(&idCounter, 1))
}

// Entry pairs a selection with its stable ID.
type Entry struct {
	ID        ID
	Selection Selection
}

// SelectionSet manages multiple selections in insertion order.
// Unlike an editor-facing cursor set it never sorts or merges: two
// selections may overlap and each keeps its identity. The first entry is
// the primary selection.
//
// SelectionSet is not thread-safe; the engine guards it.
type SelectionSet struct {
	entries []Entry
}

// NewSelectionSet creates a set holding the given selections. An empty call
// yields a single cursor at offset 0.
func NewSelectionSet(selections ...Selection) *SelectionSet {
	if len(selections) == 0 {
		selections = []Selection{NewCursorSelection(0)}
	}
	ss := &SelectionSet{entries: make([]Entry, len(selections))}
	for i, sel := range selections {
		ss.entries[i] = Entry{ID: nextID(), Selection: sel}
	}
	return ss
}

// NewSelectionSetAt creates a set with one collapsed cursor per offset.
func NewSelectionSetAt(offsets ...ByteOffset) *SelectionSet {
	sels := make([]Selection, len(offsets))
	for i, off := range offsets {
		sels[i] = NewCursorSelection(off)
	}
	return NewSelectionSet(sels...)
}

// Len returns the number of selections.
func (ss *SelectionSet) Len() int {
	return len(ss.entries)
}

// Primary returns the first selection.
func (ss *SelectionSet) Primary() Selection {
	if len(ss.entries) == 0 {
		return Selection{}
	}
	return ss.entries[0].Selection
}

// All returns a copy of all selections in list order.
func (ss *SelectionSet) All() []Selection {
	result := make([]Selection, len(ss.entries))
	for i, e := range ss.entries {
		result[i] = e.Selection
	}
	return result
}

// Entries returns a copy of all entries in list order.
func (ss *SelectionSet) Entries() []Entry {
	return slices.Clone(ss.entries)
}

// IDs returns the selection IDs in list order.
func (ss *SelectionSet) IDs() []ID {
	ids := make([]ID, len(ss.entries))
	for i, e := range ss.entries {
		ids[i] = e.ID
	}
	return ids
}

// Get returns the selection with the given ID.
func (ss *SelectionSet) Get(id ID) (Selection, bool) {
	for _, e := range ss.entries {
		if e.ID == id {
			return e.Selection, true
		}
	}
	return Selection{}, false
}

// At returns the selection at list index i.
func (ss *SelectionSet) At(i int) (Selection, bool) {
	if i < 0 || i >= len(ss.entries) {
		return Selection{}, false
	}
	return ss.entries[i].Selection, true
}

// ReplaceAll replaces every selection in list order, keeping IDs.
// It panics if len(selections) differs from Len, which is a caller bug.
func (ss *SelectionSet) ReplaceAll(selections []Selection) {
	if len(selections) != len(ss.entries) {
		panic("cursor: ReplaceAll length mismatch")
	}
	for i := range ss.entries {
		ss.entries[i].Selection = selections[i]
	}
}

// Map applies fn to every selection in list order and stores the results.
func (ss *SelectionSet) Map(fn func(id ID, sel Selection) Selection) {
	for i, e := range ss.entries {
		ss.entries[i].Selection = fn(e.ID, e.Selection)
	}
}

// Reset replaces the whole set with fresh selections and new IDs.
func (ss *SelectionSet) Reset(selections ...Selection) {
	*ss = *NewSelectionSet(selections...)
}

// Clone returns an independent copy with the same IDs.
func (ss *SelectionSet) Clone() *SelectionSet {
	return &SelectionSet{entries: slices.Clone(ss.entries)}
}

// Restore overwrites the set with a previously captured list of entries.
func (ss *SelectionSet) Restore(entries []Entry) {
	ss.entries = slices.Clone(entries)
}

// Clamp clamps every selection to [0, maxOffset].
func (ss *SelectionSet) Clamp(maxOffset ByteOffset) {
	ss.Map(func(_ ID, sel Selection) Selection { return sel.Clamp(maxOffset) })
}

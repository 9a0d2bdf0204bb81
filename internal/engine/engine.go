package engine

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dshills/vimchange/internal/charclass"
	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/engine/cursor"
	"github.com/dshills/vimchange/internal/engine/history"
	"github.com/dshills/vimchange/internal/log"
	"github.com/dshills/vimchange/internal/mode"
	"github.com/dshills/vimchange/internal/register"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the buffer.
	ByteOffset = buffer.ByteOffset

	// Range represents a byte range in the buffer.
	Range = buffer.Range

	// Selection represents a cursor selection.
	Selection = cursor.Selection

	// Command is an undoable edit command.
	Command = history.Command
)

// Engine is one editing session: a buffer, its selections, the register
// file, the current mode and undo history.
//
// All methods are safe for concurrent use. Mutations run one at a time
// through Transaction, which holds the session lock from the first edit
// until the mode is set.
type Engine struct {
	mu sync.Mutex

	buf     *buffer.Buffer
	sels    *cursor.SelectionSet
	regs    *register.Store
	modes   *mode.Manager
	history *history.History
	cls     charclass.Classifier

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int

	// Configuration
	maxUndoEntries  int
	defaultRegister rune
	readOnly        bool
	clipboard       register.ClipboardProvider

	// Initialization
	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	e.buf = buffer.NewBufferFromString(e.initContent)
	return e
}

// NewFromReader creates an Engine from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := newEngine(opts)
	buf, err := buffer.NewBufferFromReader(r)
	if err != nil {
		return nil, err
	}
	e.buf = buf
	return e, nil
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		maxUndoEntries:  DefaultMaxUndoEntries,
		defaultRegister: register.Unnamed,
		observers:       make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.sels = cursor.NewSelectionSetAt(0)
	e.regs = register.NewStore()
	if e.clipboard != nil {
		e.regs.SetClipboard(e.clipboard)
	}
	e.history = history.NewHistory(e.maxUndoEntries)
	e.modes = mode.NewManager()
	e.modes.OnChange(func(from, to mode.Mode) {
		log.Debug(log.CatMode, "mode changed", "from", from, "to", to)
	})
	return e
}

// target returns the state commands edit. Callers hold e.mu.
func (e *Engine) target() history.Target {
	return history.Target{Buffer: e.buf, Selections: e.sels, Registers: e.regs}
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the entire buffer content.
func (e *Engine) Text() string {
	return e.buf.Text()
}

// TextRange returns text in the given byte range.
func (e *Engine) TextRange(start, end ByteOffset) string {
	return e.buf.TextRange(start, end)
}

// Len returns the total byte length of the buffer.
func (e *Engine) Len() ByteOffset {
	return e.buf.Len()
}

// Snapshot returns an immutable view of the current buffer.
func (e *Engine) Snapshot() *buffer.Snapshot {
	return e.buf.Snapshot()
}

// Selections returns a copy of the selections in list order.
func (e *Engine) Selections() []Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sels.All()
}

// Cursors returns the head of every selection in list order.
func (e *Engine) Cursors() []ByteOffset {
	sels := e.Selections()
	heads := make([]ByteOffset, len(sels))
	for i, s := range sels {
		heads[i] = s.Head
	}
	return heads
}

// Mode returns the current editing mode.
func (e *Engine) Mode() mode.Mode {
	return e.modes.Current()
}

// Registers returns the session's register file.
func (e *Engine) Registers() *register.Store {
	return e.regs
}

// DefaultRegister returns the register changes write to when none is named.
func (e *Engine) DefaultRegister() rune {
	return e.defaultRegister
}

// Classifier returns the character classifier.
func (e *Engine) Classifier() charclass.Classifier {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cls
}

// IsReadOnly returns true if the engine is read-only.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// ============================================================================
// Session State
// ============================================================================

// SetClassifier replaces the character classifier, e.g. after a config
// reload.
func (e *Engine) SetClassifier(cls charclass.Classifier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cls = cls
}

// SetCursors replaces the selections with one cursor per offset. Offsets are
// clamped to the buffer and snapped to grapheme boundaries.
func (e *Engine) SetCursors(offsets ...ByteOffset) error {
	sels := make([]Selection, len(offsets))
	for i, off := range offsets {
		sels[i] = cursor.NewCursorSelection(off)
	}
	return e.SetSelections(sels...)
}

// SetSelections replaces the selections, clamping both ends of each.
func (e *Engine) SetSelections(sels ...Selection) error {
	if len(sels) == 0 {
		return ErrNoCursors
	}
	e.mu.Lock()
	clipped := make([]Selection, len(sels))
	for i, s := range sels {
		clipped[i] = cursor.NewSelection(
			e.buf.ClipOffset(s.Anchor, buffer.BiasLeft),
			e.buf.ClipOffset(s.Head, buffer.BiasLeft),
		)
	}
	e.sels.Reset(clipped...)
	e.mu.Unlock()

	e.notify(Event{Kind: EventSelection, Mode: e.modes.Current(), Revision: e.buf.RevisionID()})
	return nil
}

// Escape returns to Normal mode.
func (e *Engine) Escape() {
	e.mu.Lock()
	e.modes.SetMode(mode.Normal)
	e.mu.Unlock()

	e.notify(Event{Kind: EventMode, Mode: mode.Normal, Revision: e.buf.RevisionID()})
}

// SetContent replaces all content and resets selections, mode and history.
// Registers survive.
func (e *Engine) SetContent(content string) error {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return ErrReadOnly
	}
	e.buf.SetText(content)
	e.sels.Reset(cursor.NewCursorSelection(0))
	e.history.Clear()
	e.modes.SetMode(mode.Normal)
	e.mu.Unlock()

	e.notify(Event{Kind: EventChange, Mode: mode.Normal, Revision: e.buf.RevisionID()})
	return nil
}

// ============================================================================
// Transactions
// ============================================================================

// Transaction runs fn with exclusive access to the session. Every command
// fn executes, every register write and the final selections form one undo
// step. If fn returns an error the commands are undone, selections and
// registers are restored, and the error is returned wrapped.
//
// Observers are notified once, after the lock is released, with the final
// state.
func (e *Engine) Transaction(name string, fn func(tx *Tx) error) error {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return ErrReadOnly
	}

	htx := history.NewTransaction(name)
	htx.SelectionsBefore = e.sels.Entries()
	htx.RegistersBefore = e.regs.Snapshot()
	tx := &Tx{engine: e, htx: htx, mode: e.modes.Current()}

	if err := fn(tx); err != nil {
		rollbackErr := htx.Undo(e.target())
		e.mu.Unlock()
		log.ErrorErr(log.CatEngine, "transaction rolled back", err, "name", name, "id", htx.ID)
		if rollbackErr != nil {
			return fmt.Errorf("%s: %w", name, errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("%s: %w", name, err)
	}

	htx.SelectionsAfter = e.sels.Entries()
	htx.RegistersAfter = e.regs.Snapshot()
	changed := !htx.IsEmpty()
	if changed {
		e.history.Push(htx)
	}
	e.modes.SetMode(tx.mode)
	ev := Event{
		Kind:     EventChange,
		TxID:     htx.ID,
		Name:     name,
		Changed:  changed,
		Mode:     tx.mode,
		Revision: e.buf.RevisionID(),
	}
	e.mu.Unlock()

	log.Debug(log.CatEngine, "transaction committed",
		"name", name, "id", htx.ID, "commands", len(htx.Commands), "changed", changed)
	e.notify(ev)
	return nil
}

// Insert types text at every selection, replacing selected text, as one
// undo step. The text is also stored in the last-inserted register.
func (e *Engine) Insert(text string) error {
	return e.Transaction("insert", func(tx *Tx) error {
		if err := tx.Execute(history.NewInsertCommand(text)); err != nil {
			return err
		}
		if text != "" {
			tx.Registers().SetLastInserted(text)
		}
		return nil
	})
}

// Group runs fn so that every transaction it commits undoes as one step.
// Nested groups join the outermost one.
func (e *Engine) Group(name string, fn func() error) error {
	if e.history.IsGrouping() {
		return fn()
	}
	e.history.BeginGroup(name)
	defer e.history.EndGroup()
	return fn()
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

// Undo undoes the last transaction and returns to Normal mode.
func (e *Engine) Undo() error {
	return e.step(EventUndo, e.history.Undo)
}

// Redo redoes the last undone transaction and returns to Normal mode.
func (e *Engine) Redo() error {
	return e.step(EventRedo, e.history.Redo)
}

func (e *Engine) step(kind EventKind, apply func(history.Target) error) error {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return ErrReadOnly
	}
	if err := apply(e.target()); err != nil {
		e.mu.Unlock()
		return err
	}
	e.modes.SetMode(mode.Normal)
	ev := Event{Kind: kind, Changed: true, Mode: mode.Normal, Revision: e.buf.RevisionID()}
	e.mu.Unlock()

	e.notify(ev)
	return nil
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoCount returns the number of available undo operations.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// RedoCount returns the number of available redo operations.
func (e *Engine) RedoCount() int {
	return e.history.RedoCount()
}

// UndoInfo describes the undo stack, most recent last.
func (e *Engine) UndoInfo() []history.OperationInfo {
	return e.history.UndoInfo()
}

// ClearHistory removes all undo/redo history.
func (e *Engine) ClearHistory() {
	e.history.Clear()
}

package history

import (
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/engine/cursor"
	"github.com/dshills/vimchange/internal/register"
)

// Target is the session state a command edits.
type Target struct {
	Buffer     *buffer.Buffer
	Selections *cursor.SelectionSet
	Registers  *register.Store
}

// Command represents a composable edit action that can be executed and undone.
type Command interface {
	// Execute performs the command and returns an error if it fails.
	Execute(t Target) error

	// Undo reverses the command and returns an error if it fails.
	Undo(t Target) error

	// Description returns a human-readable description of the command.
	Description() string
}

// DeleteRangesCommand deletes a set of disjoint ranges in one buffer edit.
// Selections are left to the enclosing Transaction.
type DeleteRangesCommand struct {
	Ranges     []Range // disjoint, ascending
	operations OperationList
}

// NewDeleteRangesCommand creates a delete command over already merged ranges.
func NewDeleteRangesCommand(ranges []Range) *DeleteRangesCommand {
	return &DeleteRangesCommand{Ranges: ranges}
}

// Execute deletes every range.
func (c *DeleteRangesCommand) Execute(t Target) error {
	ops := make(OperationList, 0, len(c.Ranges))
	for _, r := range c.Ranges {
		ops = append(ops, NewOperation(r, t.Buffer.TextRange(r.Start, r.End), ""))
	}
	if err := t.Buffer.ApplyEdits(ops.Edits()); err != nil {
		return fmt.Errorf("delete %d ranges: %w", len(c.Ranges), err)
	}
	c.operations = ops
	return nil
}

// Undo reinserts the deleted text.
func (c *DeleteRangesCommand) Undo(t Target) error {
	if err := t.Buffer.ApplyEdits(c.operations.InverseEdits()); err != nil {
		return fmt.Errorf("undo delete: %w", err)
	}
	return nil
}

// Description returns a human-readable description.
func (c *DeleteRangesCommand) Description() string {
	if len(c.Ranges) == 1 {
		return fmt.Sprintf("Delete %s", c.Ranges[0])
	}
	return fmt.Sprintf("Delete %d ranges", len(c.Ranges))
}

// Operations returns the recorded operations after Execute.
func (c *DeleteRangesCommand) Operations() OperationList {
	return c.operations
}

// InsertCommand inserts text at all selection positions, replacing any
// selected text. Selections that touch or overlap share one insertion.
type InsertCommand struct {
	Text       string
	operations OperationList
}

// NewInsertCommand creates a new insert command.
func NewInsertCommand(text string) *InsertCommand {
	return &InsertCommand{Text: text}
}

// Execute inserts text and moves every selection after its insertion.
func (c *InsertCommand) Execute(t Target) error {
	c.operations = nil
	if c.Text == "" {
		return nil
	}

	sels := t.Selections.All()
	targets := insertionRanges(sels)

	ops := make(OperationList, len(targets))
	for i, r := range targets {
		ops[i] = NewOperation(r, t.Buffer.TextRange(r.Start, r.End), c.Text)
	}
	if err := t.Buffer.ApplyEdits(ops.Edits()); err != nil {
		return fmt.Errorf("insert %q: %w", c.Text, err)
	}
	c.operations = ops

	textLen := ByteOffset(len(c.Text))
	t.Selections.Map(func(_ cursor.ID, sel cursor.Selection) cursor.Selection {
		var shift ByteOffset
		for _, r := range targets {
			if sel.Start() >= r.Start && sel.Start() <= r.End {
				return cursor.NewCursorSelection(r.Start + shift + textLen)
			}
			shift += textLen - r.Len()
		}
		return cursor.NewCursorSelection(sel.Start() + shift)
	})
	return nil
}

// Operations returns the recorded operations after Execute.
func (c *InsertCommand) Operations() OperationList {
	return c.operations
}

// Undo removes the inserted text.
func (c *InsertCommand) Undo(t Target) error {
	if err := t.Buffer.ApplyEdits(c.operations.InverseEdits()); err != nil {
		return fmt.Errorf("undo insert: %w", err)
	}
	return nil
}

// Description returns a human-readable description.
func (c *InsertCommand) Description() string {
	if utf8.RuneCountInString(c.Text) <= 20 {
		return fmt.Sprintf("Insert %q", c.Text)
	}
	return fmt.Sprintf("Insert %d characters", utf8.RuneCountInString(c.Text))
}

// insertionRanges merges selection ranges that overlap or touch, keeping
// empty ones, in ascending order.
func insertionRanges(sels []cursor.Selection) []Range {
	ranges := make([]Range, len(sels))
	for i, s := range sels {
		ranges[i] = s.Range()
	}
	slices.SortFunc(ranges, func(a, b Range) int {
		if a.Start != b.Start {
			return int(a.Start - b.Start)
		}
		return int(a.End - b.End)
	})
	var out []Range
	for _, r := range ranges {
		if n := len(out); n > 0 && r.Start <= out[n-1].End {
			out[n-1] = out[n-1].Union(r)
			continue
		}
		out = append(out, r)
	}
	return out
}

// Transaction is one undo step: the commands applied by a single engine
// transaction plus the selection and register state around them.
// Nil state fields are not restored, which lets a Transaction group other
// Transactions.
type Transaction struct {
	ID        uuid.UUID
	Name      string
	Commands  []Command
	Timestamp time.Time

	SelectionsBefore []cursor.Entry
	SelectionsAfter  []cursor.Entry
	RegistersBefore  register.Snapshot
	RegistersAfter   register.Snapshot
}

// NewTransaction creates an empty transaction.
func NewTransaction(name string) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		Name:      name,
		Timestamp: time.Now(),
	}
}

// Add adds a command to the transaction.
func (tx *Transaction) Add(cmd Command) {
	tx.Commands = append(tx.Commands, cmd)
}

// IsEmpty returns true if the transaction has no commands and changes no
// register.
func (tx *Transaction) IsEmpty() bool {
	return len(tx.Commands) == 0 && !tx.registersChanged()
}

func (tx *Transaction) registersChanged() bool {
	if tx.RegistersBefore == nil && tx.RegistersAfter == nil {
		return false
	}
	if len(tx.RegistersBefore) != len(tx.RegistersAfter) {
		return true
	}
	for k, v := range tx.RegistersBefore {
		if after, ok := tx.RegistersAfter[k]; !ok || after != v {
			return true
		}
	}
	return false
}

// Execute replays the transaction (redo).
func (tx *Transaction) Execute(t Target) error {
	if tx.SelectionsBefore != nil {
		t.Selections.Restore(tx.SelectionsBefore)
	}
	for i, cmd := range tx.Commands {
		if err := cmd.Execute(t); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = tx.Commands[j].Undo(t)
			}
			return err
		}
	}
	if tx.SelectionsAfter != nil {
		t.Selections.Restore(tx.SelectionsAfter)
	}
	if tx.RegistersAfter != nil && t.Registers != nil {
		t.Registers.Restore(tx.RegistersAfter)
	}
	return nil
}

// Undo reverses every command and restores the captured state.
func (tx *Transaction) Undo(t Target) error {
	for i := len(tx.Commands) - 1; i >= 0; i-- {
		if err := tx.Commands[i].Undo(t); err != nil {
			return err
		}
	}
	if tx.SelectionsBefore != nil {
		t.Selections.Restore(tx.SelectionsBefore)
	}
	if tx.RegistersBefore != nil && t.Registers != nil {
		t.Registers.Restore(tx.RegistersBefore)
	}
	return nil
}

// Description returns the transaction name.
func (tx *Transaction) Description() string {
	if tx.Name != "" {
		return tx.Name
	}
	return fmt.Sprintf("%d commands", len(tx.Commands))
}

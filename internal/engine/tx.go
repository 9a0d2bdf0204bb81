package engine

import (
	"github.com/google/uuid"

	"github.com/dshills/vimchange/internal/charclass"
	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/engine/cursor"
	"github.com/dshills/vimchange/internal/engine/history"
	"github.com/dshills/vimchange/internal/mode"
	"github.com/dshills/vimchange/internal/register"
)

// Tx is the handle a Transaction callback edits the session through. It is
// only valid inside the callback.
type Tx struct {
	engine *Engine
	htx    *history.Transaction
	mode   mode.Mode
}

// ID returns the transaction ID, which is also the undo entry's ID.
func (tx *Tx) ID() uuid.UUID {
	return tx.htx.ID
}

// Buffer returns the buffer for reading. Edits go through Execute.
func (tx *Tx) Buffer() *buffer.Buffer {
	return tx.engine.buf
}

// Selections returns the live selection set.
func (tx *Tx) Selections() *cursor.SelectionSet {
	return tx.engine.sels
}

// Registers returns the register file. Writes are captured by the undo
// step.
func (tx *Tx) Registers() *register.Store {
	return tx.engine.regs
}

// Classifier returns the session's character classifier.
func (tx *Tx) Classifier() charclass.Classifier {
	return tx.engine.cls
}

// DefaultRegister returns the register used when none is named.
func (tx *Tx) DefaultRegister() rune {
	return tx.engine.defaultRegister
}

// Execute runs cmd against the session and records it in the transaction.
// Commands that report no operations are not recorded.
func (tx *Tx) Execute(cmd Command) error {
	if err := cmd.Execute(tx.engine.target()); err != nil {
		return err
	}
	if rec, ok := cmd.(recorder); ok && len(rec.Operations()) == 0 {
		return nil
	}
	tx.htx.Add(cmd)
	return nil
}

// recorder is implemented by commands that expose the edits they applied.
type recorder interface {
	Operations() history.OperationList
}

// SetMode sets the mode the session enters when the transaction commits.
// Tx implements mode.Sink.
func (tx *Tx) SetMode(m mode.Mode) {
	tx.mode = m
}

// Mode returns the mode the transaction will commit with.
func (tx *Tx) Mode() mode.Mode {
	return tx.mode
}

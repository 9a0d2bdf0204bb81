package engine

import (
	"slices"

	"github.com/google/uuid"

	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/mode"
)

// EventKind identifies what produced an Event.
type EventKind uint8

const (
	// EventChange is a committed transaction or a content reset.
	EventChange EventKind = iota
	// EventUndo is an undo step.
	EventUndo
	// EventRedo is a redo step.
	EventRedo
	// EventMode is a mode change outside a transaction.
	EventMode
	// EventSelection is a selection reset outside a transaction.
	EventSelection
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventChange:
		return "change"
	case EventUndo:
		return "undo"
	case EventRedo:
		return "redo"
	case EventMode:
		return "mode"
	case EventSelection:
		return "selection"
	default:
		return "unknown"
	}
}

// Event describes a state change observers are told about.
type Event struct {
	Kind EventKind

	// TxID and Name identify the transaction for EventChange. TxID is
	// uuid.Nil for changes made outside a transaction.
	TxID uuid.UUID
	Name string

	// Changed is false for a transaction that edited nothing.
	Changed bool

	Mode     mode.Mode
	Revision buffer.RevisionID
}

// Observer receives events. It runs on the goroutine that made the change,
// after the session lock is released, so it may call back into the Engine.
type Observer func(Event)

// Subscribe registers fn and returns a function that removes it.
func (e *Engine) Subscribe(fn Observer) (unsubscribe func()) {
	e.obsMu.Lock()
	id := e.nextObs
	e.nextObs++
	e.observers[id] = fn
	e.obsMu.Unlock()

	return func() {
		e.obsMu.Lock()
		delete(e.observers, id)
		e.obsMu.Unlock()
	}
}

func (e *Engine) notify(ev Event) {
	e.obsMu.Lock()
	ids := make([]int, 0, len(e.observers))
	for id := range e.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]Observer, len(ids))
	for i, id := range ids {
		fns[i] = e.observers[id]
	}
	e.obsMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

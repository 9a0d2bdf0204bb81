package operator

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/vimchange/internal/charclass"
	"github.com/dshills/vimchange/internal/engine"
	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/engine/cursor"
	"github.com/dshills/vimchange/internal/engine/history"
	"github.com/dshills/vimchange/internal/log"
	"github.com/dshills/vimchange/internal/mode"
	"github.com/dshills/vimchange/internal/motion"
	"github.com/dshills/vimchange/internal/register"
	"github.com/dshills/vimchange/internal/textobj"
)

// State is a phase of a change invocation.
type State uint8

const (
	Idle State = iota
	Expanding
	Mutating
	ModeTransition
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Expanding:
		return "expanding"
	case Mutating:
		return "mutating"
	case ModeTransition:
		return "mode-transition"
	default:
		return "unknown"
	}
}

// Result describes a finished change.
type Result struct {
	// State is the last phase reached. A committed change always ends in
	// ModeTransition; a rolled back one reports the phase that failed.
	State State

	Success bool
	Mode    mode.Mode

	// Deleted holds the removed ranges in buffer order, in offsets of the
	// text before the change.
	Deleted []buffer.Range

	// Register is what was written to the target register. It is the zero
	// value when nothing was written.
	Register register.Content

	// TxID identifies the undo step. It is uuid.Nil when nothing was
	// recorded.
	TxID uuid.UUID

	// Err is set when the change was rolled back.
	Err error
}

// Option configures a single change.
type Option func(*options)

type options struct {
	register    rune
	hasRegister bool
}

// WithRegister writes the removed text to the named register instead of
// the session default.
func WithRegister(name rune) Option {
	return func(o *options) {
		o.register = name
		o.hasRegister = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// expandFunc expands one selection. ok reports whether a range was found.
type expandFunc func(buf buffer.Reader, cls charclass.Classifier, sel cursor.Selection) (cursor.Selection, bool)

// ChangeMotion replaces the text each selection's motion covers and enters
// Insert mode when at least one selection moved, or when m always completes
// a change.
func ChangeMotion(e *engine.Engine, m motion.Motion, count int, opts ...Option) Result {
	expand := func(buf buffer.Reader, cls charclass.Classifier, sel cursor.Selection) (cursor.Selection, bool) {
		switch v := m.(type) {
		case motion.NextWordStart:
			return motion.ExpandChangeWord(buf, cls, sel, count, v.IgnorePunctuation, false)
		case motion.NextSubwordStart:
			return motion.ExpandChangeWord(buf, cls, sel, count, v.IgnorePunctuation, true)
		}
		return motion.Expand(buf, cls, sel, m, count, true)
	}
	return run(e, plan{
		name:     "change " + motion.Name(m),
		expand:   expand,
		linewise: motion.IsLinewise(m),
		forced:   motion.AlwaysCompletesChange(m),
	}, buildOptions(opts))
}

// ChangeObject replaces the text object around each selection. Nothing is
// changed when no selection has an enclosing object.
func ChangeObject(e *engine.Engine, obj textobj.Object, around bool, opts ...Option) Result {
	linewise := textobj.Linewise(obj)
	expand := func(buf buffer.Reader, cls charclass.Classifier, sel cursor.Selection) (cursor.Selection, bool) {
		found, ok := textobj.Expand(buf, cls, sel, obj, around)
		if ok && linewise {
			found = keepFinalNewline(buf, found)
		}
		return found, ok
	}
	prefix := "i"
	if around {
		prefix = "a"
	}
	return run(e, plan{
		name:         "change " + prefix + " " + textobj.Name(obj),
		expand:       expand,
		linewise:     linewise,
		requireFound: true,
	}, buildOptions(opts))
}

// plan is one change request.
type plan struct {
	name     string
	expand   expandFunc
	linewise bool

	// forced changes enter Insert mode even when nothing expanded.
	forced bool

	// requireFound leaves the session untouched when nothing expanded.
	requireFound bool
}

// keepFinalNewline trims the newline ending a linewise range so an empty
// line remains to insert on.
func keepFinalNewline(buf buffer.Reader, sel cursor.Selection) cursor.Selection {
	start, end := sel.Start(), sel.End()
	if end > start {
		if buf.TextRange(end-1, end) == "\n" {
			end--
		}
	}
	return cursor.NewSelection(start, end)
}

func run(e *engine.Engine, p plan, o options) Result {
	res := Result{State: Idle, Mode: mode.Normal}

	err := e.Transaction(p.name, func(tx *engine.Tx) error {
		res.State = Expanding
		buf, cls := tx.Buffer().Snapshot(), tx.Classifier()
		sels := tx.Selections().All()

		expanded := make([]cursor.Selection, len(sels))
		ranges := make([]buffer.Range, len(sels))
		anyFound := false
		for i, sel := range sels {
			next, ok := p.expand(buf, cls, sel)
			if ok {
				anyFound = true
			}
			expanded[i] = next
			ranges[i] = next.Range()
		}
		res.Success = anyFound || p.forced

		if p.requireFound && !anyFound {
			log.Debug(log.CatOperator, "nothing to change", "name", p.name, "cursors", len(sels))
			res.State = ModeTransition
			res.Mode = mode.Transition(false)
			tx.SetMode(res.Mode)
			return nil
		}

		res.State = Mutating
		merged := buffer.MergeRanges(ranges)
		edited := len(merged) > 0 || (anyFound && p.linewise)
		if edited {
			content := registerContent(buf, merged, p.linewise)
			if err := writeRegister(tx, o, content); err != nil {
				return err
			}
			res.Register = content
		}
		if len(merged) > 0 {
			if err := tx.Execute(history.NewDeleteRangesCommand(merged)); err != nil {
				return err
			}
		}
		res.Deleted = merged

		collapsed := make([]cursor.Selection, len(expanded))
		for i, sel := range expanded {
			collapsed[i] = cursor.NewCursorSelection(cursor.AdjustForDeletions(sel.Start(), merged))
		}
		tx.Selections().ReplaceAll(collapsed)

		res.State = ModeTransition
		res.Mode = mode.Transition(res.Success)
		var sink mode.Sink = tx
		sink.SetMode(res.Mode)
		if edited {
			res.TxID = tx.ID()
		}
		return nil
	})
	if err != nil {
		log.ErrorErr(log.CatOperator, "change rolled back", err, "name", p.name, "state", res.State)
		e.Escape()
		res.Success = false
		res.Mode = mode.Normal
		res.Deleted = nil
		res.Register = register.Content{}
		res.TxID = uuid.Nil
		res.Err = err
		return res
	}

	log.Debug(log.CatOperator, "change applied",
		"name", p.name, "success", res.Success, "ranges", len(res.Deleted), "mode", res.Mode)
	return res
}

// registerContent joins the text of merged ranges with newlines. Linewise
// content always ends in a newline.
func registerContent(buf buffer.Reader, merged []buffer.Range, linewise bool) register.Content {
	parts := make([]string, len(merged))
	for i, r := range merged {
		parts[i] = buf.TextRange(r.Start, r.End)
	}
	text := strings.Join(parts, "\n")
	if linewise {
		text += "\n"
	}
	return register.Content{Text: text, Linewise: linewise}
}

func writeRegister(tx *engine.Tx, o options, c register.Content) error {
	name := tx.DefaultRegister()
	if o.hasRegister {
		name = o.register
	}

	var writeErr error
	sink := tx.Registers().Sink(name, func(err error) { writeErr = err })
	sink.WriteChange(c)
	if writeErr != nil {
		return fmt.Errorf("register %q: %w", name, writeErr)
	}
	return nil
}

package engine

import (
	"github.com/dshills/vimchange/internal/charclass"
	"github.com/dshills/vimchange/internal/config"
	"github.com/dshills/vimchange/internal/register"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries = config.DefaultMaxUndoEntries
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}

// WithClassifier sets the character classifier used by motions and objects.
func WithClassifier(cls charclass.Classifier) Option {
	return func(e *Engine) {
		e.cls = cls
	}
}

// WithClipboard backs the + and * registers with cb.
func WithClipboard(cb register.ClipboardProvider) Option {
	return func(e *Engine) {
		e.clipboard = cb
	}
}

// WithDefaultRegister sets the register changes write to when none is
// named.
func WithDefaultRegister(name rune) Option {
	return func(e *Engine) {
		if register.IsValid(name) {
			e.defaultRegister = name
		}
	}
}

// WithConfig applies the editor section of cfg.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		e.cls = charclass.Classifier{WordChars: cfg.Editor.WordChars}
		WithMaxUndoEntries(cfg.Editor.MaxUndoEntries)(e)
		WithDefaultRegister(cfg.Register())(e)
		if cfg.Editor.Clipboard {
			if cb := register.NewSystemClipboard(); cb != nil {
				e.clipboard = cb
			} else {
				e.clipboard = &register.MemoryClipboard{}
			}
		}
	}
}

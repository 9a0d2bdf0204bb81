package config

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dshills/vimchange/internal/log"
	"github.com/dshills/vimchange/internal/register"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries  = 1000
	DefaultRegister        = `"`
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	maxWordCharsRuneLength = 256
)

// Config is the vimchange configuration.
type Config struct {
	Editor EditorConfig `toml:"editor" yaml:"editor"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// EditorConfig holds the settings the engine reads.
type EditorConfig struct {
	// WordChars lists extra word characters, e.g. "-" for lisp buffers.
	WordChars string `toml:"word_chars" yaml:"word_chars"`

	// MaxUndoEntries bounds the undo stack.
	MaxUndoEntries int `toml:"max_undo_entries" yaml:"max_undo_entries"`

	// DefaultRegister receives changed text when no register is named.
	DefaultRegister string `toml:"default_register" yaml:"default_register"`

	// Clipboard backs the + and * registers with the system clipboard.
	Clipboard bool `toml:"clipboard" yaml:"clipboard"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	File   string `toml:"file" yaml:"file"`
	Format string `toml:"format" yaml:"format"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Editor: EditorConfig{
			MaxUndoEntries:  DefaultMaxUndoEntries,
			DefaultRegister: DefaultRegister,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Register returns the default register name.
func (c Config) Register() rune {
	r, _ := utf8.DecodeRuneInString(c.Editor.DefaultRegister)
	return r
}

// LogOptions converts the log section into logger options.
func (c Config) LogOptions() (log.Options, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.Options{}, err
	}
	return log.Options{Level: level, Path: c.Log.File, Format: c.Log.Format}, nil
}

// Validate checks every setting and joins all failures.
func (c Config) Validate() error {
	var errs []error

	if c.Editor.MaxUndoEntries <= 0 {
		errs = append(errs, &ValidationError{
			Path:    "editor.max_undo_entries",
			Message: "must be positive",
			Value:   c.Editor.MaxUndoEntries,
		})
	}
	if utf8.RuneCountInString(c.Editor.WordChars) > maxWordCharsRuneLength {
		errs = append(errs, &ValidationError{
			Path:    "editor.word_chars",
			Message: fmt.Sprintf("at most %d characters", maxWordCharsRuneLength),
			Value:   c.Editor.WordChars,
		})
	}
	if utf8.RuneCountInString(c.Editor.DefaultRegister) != 1 || !register.IsValid(c.Register()) {
		errs = append(errs, &ValidationError{
			Path:    "editor.default_register",
			Message: "must name one register",
			Value:   c.Editor.DefaultRegister,
		})
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, &ValidationError{
			Path:    "log.level",
			Message: err.Error(),
			Value:   c.Log.Level,
		})
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, &ValidationError{
			Path:    "log.format",
			Message: `must be "text" or "json"`,
			Value:   c.Log.Format,
		})
	}

	return errors.Join(errs...)
}

// Package log provides leveled, category-tagged structured logging.
// Logging is disabled until Init is called; the CLI enables it from the
// [log] config section.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel parses a level name such as "debug" or "WARN".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Category groups related log messages.
type Category string

const (
	CatEngine   Category = "engine"   // Session transactions, undo/redo
	CatOperator Category = "operator" // Change orchestration
	CatMode     Category = "mode"     // Mode transitions
	CatRegister Category = "register" // Register writes, clipboard
	CatConfig   Category = "config"   // Configuration loading/watching
	CatScript   Category = "script"   // Lua scripting host
	CatUI       Category = "ui"       // Terminal demo
)

// Options configures Init.
type Options struct {
	Level  Level
	Path   string // log file; empty writes to Writer or stderr
	Format string // "text" (default) or "json"
	Writer io.Writer
}

// Logger provides structured logging.
type Logger struct {
	mu     sync.Mutex
	file   *os.File
	level  *slog.LevelVar
	logger *slog.Logger
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// Init initializes the global logger.
// Returns a cleanup function to close the log file.
func Init(opts Options) (func(), error) {
	l, err := newLogger(opts)
	if err != nil {
		return nil, err
	}

	defaultMu.Lock()
	prev := defaultLogger
	defaultLogger = l
	defaultMu.Unlock()
	prev.close()

	return func() {
		defaultMu.Lock()
		if defaultLogger == l {
			defaultLogger = nil
		}
		defaultMu.Unlock()
		l.close()
	}, nil
}

func newLogger(opts Options) (*Logger, error) {
	l := &Logger{level: new(slog.LevelVar)}
	l.level.Set(opts.Level.slog())

	w := opts.Writer
	if opts.Path != "" {
		f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: path comes from user config
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		w = f
	}
	if w == nil {
		w = os.Stderr
	}

	hopts := &slog.HandlerOptions{Level: l.level}
	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "json":
		h = slog.NewJSONHandler(w, hopts)
	case "", "text":
		h = slog.NewTextHandler(w, hopts)
	default:
		l.close()
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	l.logger = slog.New(h)
	return l, nil
}

func (l *Logger) close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}

// Enabled reports whether a logger is installed.
func Enabled() bool {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger != nil
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultLogger != nil {
		defaultLogger.level.Set(level.slog())
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	log(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	log(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	log(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	log(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	log(LevelError, cat, msg, fields...)
}

func log(level Level, cat Category, msg string, fields ...any) {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l == nil {
		return
	}
	args := make([]any, 0, len(fields)+2)
	args = append(args, "cat", string(cat))
	args = append(args, fields...)
	l.logger.Log(context.Background(), level.slog(), msg, args...)
}

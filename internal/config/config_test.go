package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/vimchange/internal/log"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Defaults().Validate() = %v", err)
	}
	if cfg.Register() != '"' {
		t.Errorf("Register() = %q, want unnamed", cfg.Register())
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vimchange.toml", `
[editor]
word_chars = "-"
default_register = "a"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Editor.WordChars != "-" {
		t.Errorf("WordChars = %q, want \"-\"", cfg.Editor.WordChars)
	}
	if cfg.Register() != 'a' {
		t.Errorf("Register() = %q, want 'a'", cfg.Register())
	}
	if cfg.Editor.MaxUndoEntries != DefaultMaxUndoEntries {
		t.Errorf("MaxUndoEntries = %d, want default %d", cfg.Editor.MaxUndoEntries, DefaultMaxUndoEntries)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vimchange.yml", `
editor:
  max_undo_entries: 50
  clipboard: true
log:
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Editor.MaxUndoEntries != 50 || !cfg.Editor.Clipboard {
		t.Errorf("Editor = %+v", cfg.Editor)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Defaults() {
		t.Errorf("Load(missing) = %+v, want defaults", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		path   string
		target error
	}{
		{
			name:   "unsupported extension",
			path:   writeFile(t, dir, "vimchange.json", "{}"),
			target: ErrUnsupportedFormat,
		},
		{
			name:   "invalid register",
			path:   writeFile(t, dir, "bad-register.toml", "[editor]\ndefault_register = \"ab\"\n"),
			target: ErrValidationFailed,
		},
		{
			name:   "invalid undo limit",
			path:   writeFile(t, dir, "bad-undo.yaml", "editor:\n  max_undo_entries: 0\n"),
			target: ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if !errors.Is(err, tt.target) {
				t.Errorf("Load() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestLoadParseError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.toml", "[editor\n")

	_, err := Load(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if perr.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", perr.Path, path)
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Editor.MaxUndoEntries = -1
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() error = %v, want *ValidationError", err)
	}
	for _, path := range []string{"editor.max_undo_entries", "log.level", "log.format"} {
		if !strings.Contains(err.Error(), path) {
			t.Errorf("Validate() error %q should mention %s", err, path)
		}
	}
}

func TestLogOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Log.Level = "warn"
	cfg.Log.File = "/tmp/vimchange.log"

	opts, err := cfg.LogOptions()
	if err != nil {
		t.Fatalf("LogOptions() error = %v", err)
	}
	if opts.Level != log.LevelWarn || opts.Path != cfg.Log.File || opts.Format != "text" {
		t.Errorf("LogOptions() = %+v", opts)
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "vimchange.toml", "[editor]\nword_chars = \"-\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan Config, 4)
	err := Watch(ctx, path, 20*time.Millisecond, func(cfg Config, err error) {
		if err == nil {
			reloads <- cfg
		}
	})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	writeFile(t, dir, "vimchange.toml", "[editor]\nword_chars = \"-$\"\n")

	select {
	case cfg := <-reloads:
		if cfg.Editor.WordChars != "-$" {
			t.Errorf("reloaded WordChars = %q, want \"-$\"", cfg.Editor.WordChars)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "vimchange.toml", "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan struct{}, 4)
	if err := Watch(ctx, path, 10*time.Millisecond, func(Config, error) { reloads <- struct{}{} }); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	writeFile(t, dir, "other.toml", "x")

	select {
	case <-reloads:
		t.Error("unrelated file triggered a reload")
	case <-time.After(200 * time.Millisecond):
	}
}

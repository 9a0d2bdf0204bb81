// Package register implements the vim register file that change operations
// write removed text into.
package register

import (
	"maps"
	"strings"
	"sync"
	"unicode"
)

// Well-known register names.
const (
	Unnamed      = '"'
	SmallDelete  = '-'
	BlackHole    = '_'
	LastInserted = '.'
	FileName     = '%'
	Clipboard    = '+'
	Selection    = '*'
)

// Kind categorizes registers by their behavior.
type Kind uint8

const (
	KindUnnamed Kind = iota
	KindNamed
	KindNumbered
	KindSmallDelete
	KindBlackHole
	KindLastInserted
	KindFileName
	KindClipboard
	KindInvalid
)

// KindOf returns the kind of register for a given name.
func KindOf(name rune) Kind {
	switch {
	case name == Unnamed:
		return KindUnnamed
	case name >= 'a' && name <= 'z', name >= 'A' && name <= 'Z':
		return KindNamed
	case name >= '0' && name <= '9':
		return KindNumbered
	case name == SmallDelete:
		return KindSmallDelete
	case name == BlackHole:
		return KindBlackHole
	case name == LastInserted:
		return KindLastInserted
	case name == FileName:
		return KindFileName
	case name == Clipboard, name == Selection:
		return KindClipboard
	default:
		return KindInvalid
	}
}

// IsValid returns true if the register name is valid.
func IsValid(name rune) bool {
	return KindOf(name) != KindInvalid
}

// Content is the text held by a register.
type Content struct {
	Text     string
	Linewise bool
}

// Sink receives the text removed by a change.
type Sink interface {
	WriteChange(c Content)
}

// ClipboardProvider abstracts system clipboard access.
type ClipboardProvider interface {
	Get() (string, error)
	Set(content string) error
}

// Snapshot is a copy of every stored register except the clipboard ones.
type Snapshot map[rune]Content

// Store manages all registers. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	registers map[rune]Content
	clipboard ClipboardProvider
}

// NewStore creates an empty register store.
func NewStore() *Store {
	return &Store{registers: make(map[rune]Content)}
}

// SetClipboard sets the clipboard provider used by the + and * registers.
// A nil provider makes them behave like ordinary registers.
func (s *Store) SetClipboard(cb ClipboardProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clipboard = cb
}

func (s *Store) clipboardProvider() ClipboardProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clipboard
}

// Get returns the content of a register. Uppercase names read the lowercase
// register.
func (s *Store) Get(name rune) (Content, bool) {
	if !IsValid(name) {
		return Content{}, false
	}
	name = unicode.ToLower(name)

	if KindOf(name) == KindClipboard {
		if cb := s.clipboardProvider(); cb != nil {
			text, err := cb.Get()
			if err != nil {
				return Content{}, false
			}
			return Content{Text: text, Linewise: strings.HasSuffix(text, "\n")}, true
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.registers[name]
	return c, ok
}

// Set stores content in a register. Uppercase named registers append.
// Read-only and black hole registers ignore writes.
func (s *Store) Set(name rune, c Content) error {
	switch KindOf(name) {
	case KindInvalid:
		return ErrInvalidRegister
	case KindBlackHole:
		return nil
	case KindClipboard:
		if cb := s.clipboardProvider(); cb != nil {
			return cb.Set(c.Text)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if unicode.IsUpper(name) {
		name = unicode.ToLower(name)
		if prev, ok := s.registers[name]; ok {
			if prev.Linewise && !strings.HasSuffix(prev.Text, "\n") {
				prev.Text += "\n"
			}
			c = Content{Text: prev.Text + c.Text, Linewise: prev.Linewise || c.Linewise}
		}
	}
	s.registers[name] = c
	return nil
}

// WriteChange records text removed by a change or delete into the named
// register following vim's rules:
//   - the black hole register discards it;
//   - an explicit register receives it and the unnamed register mirrors it;
//   - otherwise multi-line or linewise text rotates the numbered registers
//     1-9, and anything else goes to the small delete register.
func (s *Store) WriteChange(name rune, c Content) error {
	if name == 0 {
		name = Unnamed
	}
	switch KindOf(name) {
	case KindInvalid:
		return ErrInvalidRegister
	case KindBlackHole:
		return nil
	case KindLastInserted, KindFileName:
		return ErrReadOnly
	case KindUnnamed:
		s.mu.Lock()
		defer s.mu.Unlock()
		if c.Linewise || strings.Contains(c.Text, "\n") {
			s.rotateLocked(c)
		} else {
			s.registers[SmallDelete] = c
		}
		s.registers[Unnamed] = c
		return nil
	}

	if err := s.Set(name, c); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registers[Unnamed] = c
	return nil
}

// rotateLocked shifts 1..8 into 2..9 and stores c in 1.
func (s *Store) rotateLocked(c Content) {
	for i := '9'; i > '1'; i-- {
		if prev, ok := s.registers[i-1]; ok {
			s.registers[i] = prev
		}
	}
	s.registers['1'] = c
}

// SetLastInserted updates the last inserted text register.
func (s *Store) SetLastInserted(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registers[LastInserted] = Content{Text: text}
}

// SetFileName updates the filename register.
func (s *Store) SetFileName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registers[FileName] = Content{Text: name}
}

// Snapshot captures every stored register. Clipboard registers backed by a
// provider live outside the store and are not captured.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.registers)
}

// Restore replaces the stored registers with a snapshot.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registers = maps.Clone(snap)
	if s.registers == nil {
		s.registers = make(map[rune]Content)
	}
}

// Sink returns a Sink that writes changes into the named register.
// Errors are reported through onErr when it is non-nil.
func (s *Store) Sink(name rune, onErr func(error)) Sink {
	return storeSink{store: s, name: name, onErr: onErr}
}

type storeSink struct {
	store *Store
	name  rune
	onErr func(error)
}

func (ss storeSink) WriteChange(c Content) {
	if err := ss.store.WriteChange(ss.name, c); err != nil && ss.onErr != nil {
		ss.onErr(err)
	}
}

// Package mode holds the editing mode a change leaves the session in.
package mode

// Mode is the editing mode of a session.
type Mode uint8

const (
	// Normal is the command mode.
	Normal Mode = iota

	// Insert is the text entry mode a completed change enters.
	Insert
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Insert:
		return "insert"
	default:
		return "unknown"
	}
}

// DisplayName returns the status line label.
func (m Mode) DisplayName() string {
	switch m {
	case Normal:
		return "NORMAL"
	case Insert:
		return "-- INSERT --"
	default:
		return ""
	}
}

// CursorStyle returns the cursor style hosts draw in m.
func (m Mode) CursorStyle() CursorStyle {
	if m == Insert {
		return CursorBar
	}
	return CursorBlock
}

// Transition returns the mode a change ends in: Insert when it succeeded,
// Normal otherwise.
func Transition(success bool) Mode {
	if success {
		return Insert
	}
	return Normal
}

// Sink receives the mode a change ends in.
type Sink interface {
	SetMode(Mode)
}

// CursorStyle defines the visual appearance of the cursor.
type CursorStyle uint8

const (
	// CursorBlock is a full-cell block cursor (normal mode).
	CursorBlock CursorStyle = iota

	// CursorBar is a thin vertical bar cursor (insert mode).
	CursorBar
)

// String returns a human-readable cursor style name.
func (c CursorStyle) String() string {
	switch c {
	case CursorBlock:
		return "block"
	case CursorBar:
		return "bar"
	default:
		return "unknown"
	}
}

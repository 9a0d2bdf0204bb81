package register

import "github.com/atotto/clipboard"

// SystemClipboard is a ClipboardProvider backed by the OS clipboard.
type SystemClipboard struct{}

// NewSystemClipboard returns the OS clipboard provider, or nil when the
// platform has no clipboard utility available.
func NewSystemClipboard() ClipboardProvider {
	if clipboard.Unsupported {
		return nil
	}
	return SystemClipboard{}
}

// Get returns the current clipboard content.
func (SystemClipboard) Get() (string, error) {
	return clipboard.ReadAll()
}

// Set sets the clipboard content.
func (SystemClipboard) Set(content string) error {
	return clipboard.WriteAll(content)
}

// MemoryClipboard is an in-process ClipboardProvider, used when the system
// clipboard is disabled and in tests.
type MemoryClipboard struct {
	Text string
}

// Get returns the stored text.
func (m *MemoryClipboard) Get() (string, error) {
	return m.Text, nil
}

// Set stores text.
func (m *MemoryClipboard) Set(content string) error {
	m.Text = content
	return nil
}

package mode

import "sync"

// ChangeCallback is called when the mode changes.
type ChangeCallback func(from, to Mode)

// Manager tracks the current mode and notifies callbacks on change. It
// implements Sink.
type Manager struct {
	mu sync.RWMutex

	current  Mode
	previous Mode

	callbacks []ChangeCallback
}

// NewManager creates a manager in Normal mode.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the current mode.
func (m *Manager) Current() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Previous returns the mode before the last change.
func (m *Manager) Previous() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previous
}

// SetMode switches to mode. Callbacks run outside the lock and only when
// the mode actually changes.
func (m *Manager) SetMode(mode Mode) {
	m.mu.Lock()
	from := m.current
	if from == mode {
		m.mu.Unlock()
		return
	}
	m.previous = from
	m.current = mode
	callbacks := make([]ChangeCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb(from, mode)
	}
}

// OnChange registers a callback for mode changes.
func (m *Manager) OnChange(cb ChangeCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// IsMode returns true if the current mode is mode.
func (m *Manager) IsMode(mode Mode) bool {
	return m.Current() == mode
}

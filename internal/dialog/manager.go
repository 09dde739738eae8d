package dialog

import (
	"fmt"
	"sync"
)

// ID names a dialog, e.g. "vehicles.create" or "vehicles.delete:<rowKey>".
type ID string

// Manager owns the single "which dialog is active" value of the admin shell. It is created once
// at the application root and passed down; dialogs never keep their own global flags.
type Manager struct {
	mu     sync.Mutex
	active *ID
}

func NewManager() *Manager {
	return &Manager{}
}

// Active returns the active dialog id, or false when none is active.
func (m *Manager) Active() (ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return "", false
	}
	return *m.active, true
}

// Open activates id. Opening while another dialog is active is an error; reopening the same id is not.
func (m *Manager) Open(id ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil && *m.active != id {
		return fmt.Errorf("dialog %q is already active", *m.active)
	}
	m.active = &id
	return nil
}

// Close deactivates id; closing a dialog that is not active does nothing.
func (m *Manager) Close(id ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil && *m.active == id {
		m.active = nil
	}
}

// Show opens d through the manager.
func (m *Manager) Show(d *Dialog, initial map[string]any) error {
	if err := m.Open(d.ID()); err != nil {
		return err
	}
	d.Open(initial)
	return nil
}

// Dismiss closes d and releases the active slot when the dialog actually closed.
func (m *Manager) Dismiss(d *Dialog) CloseResult {
	res := d.RequestClose()
	if res == CloseDone {
		m.Close(d.ID())
	}
	return res
}

// Release frees the slot once d has closed on its own (successful submit, confirmed leave).
func (m *Manager) Release(d *Dialog) {
	if d.State() == Closed {
		m.Close(d.ID())
	}
}

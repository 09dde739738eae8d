// Package dialog holds the state of row-action dialogs and the root-owned manager that
// decides which dialog, if any, is active.
package dialog

import (
	"context"
	"errors"
	"maps"
	"reflect"
	"sync"

	"facilities/internal/domain"
)

type State int

const (
	Closed State = iota
	Open
	Submitting
	OpenWithError
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case Submitting:
		return "submitting"
	case OpenWithError:
		return "open-with-error"
	default:
		return "unknown"
	}
}

// CloseResult tells the caller what a close attempt did.
type CloseResult int

const (
	CloseDone CloseResult = iota
	// CloseNeedsConfirm means there are unsaved edits; ask "leave without saving?".
	CloseNeedsConfirm
	// CloseRefused means a submission is in flight.
	CloseRefused
)

var (
	ErrNotOpen    = errors.New("dialog is not open")
	ErrSubmitting = errors.New("dialog is already submitting")
)

// Dialog is the state machine closed -> open -> submitting -> closed | open-with-error.
type Dialog struct {
	mu      sync.Mutex
	id      ID
	state   State
	initial map[string]any
	values  map[string]any
	message string
}

func New(id ID) *Dialog {
	return &Dialog{id: id}
}

func (d *Dialog) ID() ID { return d.id }

func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Error is the user-facing message of the last failed submission.
func (d *Dialog) Error() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.message
}

// Open shows the dialog with the given initial form values.
func (d *Dialog) Open(initial map[string]any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Submitting {
		return
	}
	d.state = Open
	d.initial = maps.Clone(initial)
	d.values = maps.Clone(initial)
	if d.values == nil {
		d.values = map[string]any{}
	}
	d.message = ""
}

func (d *Dialog) SetField(name string, value any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Closed || d.state == Submitting {
		return
	}
	d.values[name] = value
}

func (d *Dialog) Values() map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()
	return maps.Clone(d.values)
}

// DirtyFields lists fields whose value differs from the initial one.
func (d *Dialog) DirtyFields() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dirtyLocked()
}

func (d *Dialog) dirtyLocked() []string {
	out := []string{}
	for k, v := range d.values {
		if iv, ok := d.initial[k]; !ok || !reflect.DeepEqual(iv, v) {
			out = append(out, k)
		}
	}
	return out
}

func (d *Dialog) Dirty() bool {
	return len(d.DirtyFields()) > 0
}

// RequestClose is an explicit close (cancel button, escape). Unsaved edits require confirmation.
func (d *Dialog) RequestClose() CloseResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case Closed:
		return CloseDone
	case Submitting:
		return CloseRefused
	}
	if len(d.dirtyLocked()) > 0 {
		return CloseNeedsConfirm
	}
	d.resetLocked()
	return CloseDone
}

// OutsideClick dismisses the dialog like RequestClose; it never dismisses while submitting.
func (d *Dialog) OutsideClick() CloseResult {
	return d.RequestClose()
}

// ConfirmLeave discards unsaved edits and closes.
func (d *Dialog) ConfirmLeave() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Submitting {
		return
	}
	d.resetLocked()
}

func (d *Dialog) resetLocked() {
	d.state = Closed
	d.initial = nil
	d.values = nil
	d.message = ""
}

// Submit runs the mutation. Success closes the dialog; failure keeps it open with the
// user-facing message for the error.
func (d *Dialog) Submit(ctx context.Context, fn func(ctx context.Context, values map[string]any) error) error {
	d.mu.Lock()
	switch d.state {
	case Closed:
		d.mu.Unlock()
		return ErrNotOpen
	case Submitting:
		d.mu.Unlock()
		return ErrSubmitting
	}
	d.state = Submitting
	values := maps.Clone(d.values)
	d.mu.Unlock()

	err := fn(ctx, values)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.state = OpenWithError
		d.message = domain.UserMessage(err)
		return err
	}
	d.resetLocked()
	return nil
}

package dialog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilities/internal/domain"
)

func TestDialogLifecycle(t *testing.T) {
	d := New("vehicles.create")
	assert.Equal(t, Closed, d.State())

	d.Open(map[string]any{"name": ""})
	assert.Equal(t, Open, d.State())
	assert.False(t, d.Dirty())

	d.SetField("name", "Van 1")
	assert.Equal(t, []string{"name"}, d.DirtyFields())

	var got map[string]any
	err := d.Submit(context.Background(), func(_ context.Context, v map[string]any) error {
		got = v
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Van 1", got["name"])
	assert.Equal(t, Closed, d.State())
}

func TestDialogErrorKeepsOpenWithUserMessage(t *testing.T) {
	d := New("departments.create")
	d.Open(nil)

	err := d.Submit(context.Background(), func(context.Context, map[string]any) error {
		return domain.ConflictError{Msg: "department name already exists"}
	})
	require.Error(t, err)
	assert.Equal(t, OpenWithError, d.State())
	assert.Equal(t, "department name already exists", d.Error())

	err = d.Submit(context.Background(), func(context.Context, map[string]any) error {
		return errors.New("dial tcp 10.0.0.3:3306: connection refused")
	})
	require.Error(t, err)
	assert.Equal(t, domain.GenericMessage, d.Error())

	require.NoError(t, d.Submit(context.Background(), func(context.Context, map[string]any) error { return nil }))
	assert.Equal(t, Closed, d.State())
	assert.Empty(t, d.Error())
}

func TestDialogCloseNeedsConfirmWhenDirty(t *testing.T) {
	d := New("users.update")
	d.Open(map[string]any{"firstName": "Ana"})

	d.SetField("firstName", "Anna")
	assert.Equal(t, CloseNeedsConfirm, d.RequestClose())
	assert.Equal(t, Open, d.State())

	d.SetField("firstName", "Ana")
	assert.Equal(t, CloseDone, d.RequestClose())
	assert.Equal(t, Closed, d.State())

	d.Open(map[string]any{"firstName": "Ana"})
	d.SetField("firstName", "Anna")
	d.ConfirmLeave()
	assert.Equal(t, Closed, d.State())
}

func TestDialogPendingSuppressesDismissal(t *testing.T) {
	d := New("vehicles.status")
	d.Open(nil)

	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = d.Submit(context.Background(), func(context.Context, map[string]any) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	assert.Equal(t, Submitting, d.State())
	assert.Equal(t, CloseRefused, d.OutsideClick())
	assert.ErrorIs(t, d.Submit(context.Background(), func(context.Context, map[string]any) error { return nil }), ErrSubmitting)

	close(release)
	wg.Wait()
	assert.Equal(t, Closed, d.State())
}

func TestSubmitClosedDialog(t *testing.T) {
	d := New("roles.delete")
	assert.ErrorIs(t, d.Submit(context.Background(), func(context.Context, map[string]any) error { return nil }), ErrNotOpen)
}

func TestManagerSingleActiveDialog(t *testing.T) {
	m := NewManager()
	create := New("vehicles.create")
	del := New("vehicles.delete")

	require.NoError(t, m.Show(create, nil))
	id, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, ID("vehicles.create"), id)

	assert.Error(t, m.Show(del, nil))
	assert.Equal(t, Closed, del.State())

	create.SetField("name", "Bus")
	assert.Equal(t, CloseNeedsConfirm, m.Dismiss(create))
	_, ok = m.Active()
	assert.True(t, ok)

	create.ConfirmLeave()
	m.Release(create)
	_, ok = m.Active()
	assert.False(t, ok)

	require.NoError(t, m.Show(del, nil))
	m.Close("someone-else")
	id, _ = m.Active()
	assert.Equal(t, ID("vehicles.delete"), id)
}

func TestStepper(t *testing.T) {
	s := NewStepper("")
	assert.Equal(t, SelectPrerequisite, s.Phase())
	s.Choose("dept-1")
	assert.Equal(t, FillForm, s.Phase())
	assert.Equal(t, "dept-1", s.Prerequisite())
	s.Back()
	assert.Equal(t, SelectPrerequisite, s.Phase())

	assert.Equal(t, FillForm, NewStepper("dept-2").Phase())
}

package revalidate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestPublishReachesEverySubscriber(t *testing.T) {
	h := NewHub(nil)
	a, cancelA := h.Subscribe(4)
	defer cancelA()
	b, cancelB := h.Subscribe(4)
	defer cancelB()

	h.Publish("/vehicles")

	assert.Equal(t, "/vehicles", recv(t, a).Path)
	ev := recv(t, b)
	assert.Equal(t, "/vehicles", ev.Path)
	assert.False(t, ev.At.IsZero())
}

func TestPublishIgnoresEmptyPath(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe(1)
	defer cancel()

	h.Publish("  ")
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	h := NewHub(nil)
	_, cancel := h.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for n := 0; n < 10; n++ {
			h.Publish("/departments")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestCancelUnsubscribes(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe(1)
	require.Equal(t, 1, h.SubscribersCount())

	cancel()
	cancel()
	assert.Equal(t, 0, h.SubscribersCount())
	_, ok := <-ch
	assert.False(t, ok)

	h.Publish("/users")
}

func TestCloseEndsSubscriptions(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe(1)
	h.Close()
	_, ok := <-ch
	assert.False(t, ok)
	cancel()

	late, _ := h.Subscribe(1)
	_, ok = <-late
	assert.False(t, ok)
}

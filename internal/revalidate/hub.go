// Package revalidate fans out "this list path changed" events to every open screen.
package revalidate

import (
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"facilities/internal/utils"
)

// DefaultBuffer is the per-subscriber channel size.
const DefaultBuffer = 16

// Event says that data shown under Path is stale.
type Event struct {
	Path string    `json:"path"`
	At   time.Time `json:"at"`
}

type subscriber struct {
	ch chan Event
}

// Hub delivers published paths to all subscribers. A subscriber whose buffer is full misses the
// event; the next one it receives still triggers a refetch.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	log    *logrus.Logger
	closed bool
}

func NewHub(log *logrus.Logger) *Hub {
	if log == nil {
		log = utils.Log
	}
	return &Hub{subs: map[*subscriber]struct{}{}, log: log}
}

// Publish notifies subscribers that path changed. Empty paths are ignored.
func (h *Hub) Publish(path string) {
	path = strings.TrimSpace(path)
	if h == nil || path == "" {
		return
	}
	ev := Event{Path: path, At: utils.NowUTC()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	dropped := 0
	for s := range h.subs {
		select {
		case s.ch <- ev:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.log.WithFields(logrus.Fields{"path": path, "dropped": dropped}).Warn("revalidate: slow subscribers skipped")
	}
}

// Subscribe returns a channel of events and the func that releases it.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	s := &subscriber{ch: make(chan Event, buffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(s.ch)
		return s.ch, func() {}
	}
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[s]; ok {
				delete(h.subs, s)
				close(s.ch)
			}
		})
	}
}

func (h *Hub) SubscribersCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription; later publishes are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for s := range h.subs {
		close(s.ch)
		delete(h.subs, s)
	}
}

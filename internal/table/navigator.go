package table

import (
	"net/url"
	"sync"
	"time"
)

// DefaultDebounce is the delay applied to free-text filter navigation.
const DefaultDebounce = 300 * time.Millisecond

// Navigator pushes serialized query state to the URL. Free-text changes are debounced so typing
// does not storm the fetchers; every other change is pushed at once and supersedes a pending one.
type Navigator struct {
	mu      sync.Mutex
	delay   time.Duration
	push    func(url.Values)
	timer   *time.Timer
	pending url.Values
	gen     uint64
}

func NewNavigator(delay time.Duration, push func(url.Values)) *Navigator {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Navigator{delay: delay, push: push}
}

// Push navigates immediately and drops any pending debounced navigation.
func (n *Navigator) Push(v url.Values) {
	n.mu.Lock()
	n.stopLocked()
	n.mu.Unlock()
	n.push(v)
}

// Debounce schedules v, replacing whatever was pending.
func (n *Navigator) Debounce(v url.Values) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.stopLocked()
	n.pending = v
	gen := n.gen
	n.timer = time.AfterFunc(n.delay, func() { n.fire(gen) })
}

func (n *Navigator) fire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen {
		n.mu.Unlock()
		return
	}
	v := n.pending
	n.pending = nil
	n.timer = nil
	n.mu.Unlock()
	if v != nil {
		n.push(v)
	}
}

// Flush pushes the pending navigation now, if any.
func (n *Navigator) Flush() {
	n.mu.Lock()
	v := n.pending
	n.stopLocked()
	n.mu.Unlock()
	if v != nil {
		n.push(v)
	}
}

// Stop drops the pending navigation.
func (n *Navigator) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopLocked()
}

func (n *Navigator) stopLocked() {
	n.gen++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.pending = nil
}

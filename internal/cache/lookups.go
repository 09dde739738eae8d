// Package cache keeps the small option lists (departments, roles, ...) that comboboxes and facet
// filters need, keyed by logical name.
package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"facilities/internal/domain"
)

const (
	KeyDepartments = "departments"
	KeyRoles       = "roles"
	KeySections    = "sections"
	KeyCategories  = "categories"
	KeyVehicles    = "vehicles"
	KeyVenues      = "venues"
)

// DefaultTTL applies when NewLookups gets a non-positive ttl.
const DefaultTTL = 5 * time.Minute

var lookupRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "facilities",
	Subsystem: "lookup_cache",
	Name:      "requests_total",
	Help:      "Total number of lookup cache reads broken down by key and hit/miss.",
}, []string{"key", "result"})

func recordRequest(key string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	lookupRequests.WithLabelValues(key, result).Inc()
}

// Loader fetches the option list for one key.
type Loader func(ctx context.Context) ([]domain.Option, error)

type entry struct {
	options []domain.Option
	expires time.Time
}

// Lookups is a TTL cache with one in-flight load per key.
type Lookups struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]entry
	gen     map[string]uint64
}

func NewLookups(ttl time.Duration) *Lookups {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Lookups{
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]entry{},
		gen:     map[string]uint64{},
	}
}

// Get returns the cached options for key or loads them. Callers get their own copy.
func (l *Lookups) Get(ctx context.Context, key string, load Loader) ([]domain.Option, error) {
	l.mu.Lock()
	e, ok := l.entries[key]
	gen := l.gen[key]
	l.mu.Unlock()

	if ok && l.now().Before(e.expires) {
		recordRequest(key, true)
		return slices.Clone(e.options), nil
	}
	recordRequest(key, false)

	v, err, _ := l.group.Do(key, func() (any, error) {
		opts, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if opts == nil {
			opts = []domain.Option{}
		}
		l.mu.Lock()
		// an Invalidate during the load makes this result stale
		if l.gen[key] == gen {
			l.entries[key] = entry{options: opts, expires: l.now().Add(l.ttl)}
		}
		l.mu.Unlock()
		return opts, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]domain.Option)), nil
}

// Invalidate drops the given keys; the next Get reloads them.
func (l *Lookups) Invalidate(keys ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range keys {
		delete(l.entries, k)
		l.gen[k]++
		l.group.Forget(k)
	}
}

// Purge drops every key.
func (l *Lookups) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.entries {
		l.gen[k]++
		l.group.Forget(k)
	}
	clear(l.entries)
}

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilities/internal/domain"
)

func countingLoader(calls *int32, opts ...domain.Option) Loader {
	return func(context.Context) ([]domain.Option, error) {
		atomic.AddInt32(calls, 1)
		return opts, nil
	}
}

func TestGetCachesUntilTTL(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLookups(time.Minute)
	l.now = func() time.Time { return now }

	var calls int32
	load := countingLoader(&calls, domain.Option{ID: "d1", Name: "IT"})

	got, err := l.Get(context.Background(), KeyDepartments, load)
	require.NoError(t, err)
	assert.Equal(t, []domain.Option{{ID: "d1", Name: "IT"}}, got)

	_, err = l.Get(context.Background(), KeyDepartments, load)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	now = now.Add(2 * time.Minute)
	_, err = l.Get(context.Background(), KeyDepartments, load)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestInvalidateForcesReload(t *testing.T) {
	l := NewLookups(time.Hour)
	var calls int32
	load := countingLoader(&calls)

	_, _ = l.Get(context.Background(), KeyRoles, load)
	l.Invalidate(KeyRoles, KeyCategories)
	got, err := l.Get(context.Background(), KeyRoles, load)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestErrorsAreNotCached(t *testing.T) {
	l := NewLookups(time.Hour)
	boom := errors.New("db down")
	_, err := l.Get(context.Background(), KeyVenues, func(context.Context) ([]domain.Option, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	var calls int32
	_, err = l.Get(context.Background(), KeyVenues, countingLoader(&calls))
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls)
}

func TestConcurrentMissesShareOneLoad(t *testing.T) {
	l := NewLookups(time.Hour)
	var calls int32
	release := make(chan struct{})
	load := func(context.Context) ([]domain.Option, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []domain.Option{{ID: "v1", Name: "Van"}}, nil
	}

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := l.Get(context.Background(), KeyVehicles, load)
			assert.NoError(t, err)
			assert.Len(t, got, 1)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestCallersGetCopies(t *testing.T) {
	l := NewLookups(time.Hour)
	var calls int32
	load := countingLoader(&calls, domain.Option{ID: "c1", Name: "Tools"})

	got, _ := l.Get(context.Background(), KeyCategories, load)
	got[0].Name = "changed"
	again, _ := l.Get(context.Background(), KeyCategories, load)
	assert.Equal(t, "Tools", again[0].Name)
}

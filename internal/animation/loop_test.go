package animation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRunsUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	h := Start(context.Background(), 120, func(time.Duration) { calls.Add(1) })

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	h.Cancel()

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "no frames after Cancel returns")
	assert.Equal(t, int(after), h.Frames())

	select {
	case <-h.Done():
	default:
		t.Fatal("Done not closed after Cancel")
	}
	assert.NotPanics(t, h.Cancel)
}

func TestLoopElapsedIsMonotonic(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []time.Duration
	)
	h := Start(context.Background(), 120, func(d time.Duration) {
		mu.Lock()
		seen = append(seen, d)
		mu.Unlock()
	})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 5
	}, time.Second, 5*time.Millisecond)
	h.Cancel()

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1])
	}
	assert.GreaterOrEqual(t, seen[0], time.Duration(0))
}

func TestLoopStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := Start(ctx, 60, func(time.Duration) {})
	cancel()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("loop ignored context cancellation")
	}
}

func TestLoopDefaultsFPS(t *testing.T) {
	var calls atomic.Int32
	h := Start(context.Background(), 0, func(time.Duration) { calls.Add(1) })
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	h.Cancel()
}

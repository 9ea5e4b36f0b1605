// Package animation drives a per-frame callback at a fixed refresh rate
// until cancelled.
package animation

import (
	"context"
	"sync"
	"time"
)

// FrameFunc draws one frame. elapsed is measured from the first frame.
type FrameFunc func(elapsed time.Duration)

// Handle controls a running loop.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	mu     sync.Mutex
	frames int
}

// Start schedules fn once per refresh tick at fps until ctx is done or the
// returned handle is cancelled. The first frame is drawn immediately.
func Start(ctx context.Context, fps int, fn FrameFunc) *Handle {
	if fps <= 0 {
		fps = 60
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	go h.run(ctx, time.Second/time.Duration(fps), fn)
	return h
}

func (h *Handle) run(ctx context.Context, interval time.Duration, fn FrameFunc) {
	defer close(h.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		if ctx.Err() != nil {
			return
		}
		fn(time.Since(start))
		h.mu.Lock()
		h.frames++
		h.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Cancel stops the loop and waits for an in-flight frame to finish, so no
// frame runs after Cancel returns. Safe to call repeatedly.
func (h *Handle) Cancel() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Frames returns how many frames have been drawn.
func (h *Handle) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

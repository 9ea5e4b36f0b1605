package capture

import (
	"fmt"
	"sync"
	"time"
)

// Stream samples a Source at a fixed frame rate.
type Stream struct {
	src     Source
	fps     int
	frameCh chan *Frame
	stopCh  chan struct{}

	mu       sync.Mutex
	running  bool
	started  bool
	stopOnce sync.Once
}

// NewStream creates a live pixel stream for src at the given FPS.
func NewStream(src Source, fps int) (*Stream, error) {
	if src == nil {
		return nil, fmt.Errorf("capture: nil source")
	}
	if fps <= 0 || fps > 120 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidFPS, fps)
	}
	return &Stream{
		src:     src,
		fps:     fps,
		frameCh: make(chan *Frame, 2),
		stopCh:  make(chan struct{}),
	}, nil
}

// FPS returns the sampling rate.
func (s *Stream) FPS() int {
	return s.fps
}

// FrameInterval is the time between two samples.
func (s *Stream) FrameInterval() time.Duration {
	return time.Second / time.Duration(s.fps)
}

// Start begins sampling. A stream can only be started once.
func (s *Stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("already running")
	}
	s.started = true
	s.running = true
	go s.loop()
	return nil
}

// Stop ends sampling and closes Frames once the loop exits. Safe to call
// more than once, and before Start.
func (s *Stream) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		started := s.started
		s.started = true
		s.running = false
		s.mu.Unlock()

		close(s.stopCh)
		if !started {
			close(s.frameCh)
		}
	})
}

// Running reports whether the stream is sampling.
func (s *Stream) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Frames delivers sampled frames. Frames are dropped when the reader lags.
func (s *Stream) Frames() <-chan *Frame {
	return s.frameCh
}

func (s *Stream) loop() {
	ticker := time.NewTicker(s.FrameInterval())
	defer ticker.Stop()
	defer close(s.frameCh)

	index := 0
	emit := func() {
		img := s.src.Snapshot()
		if img == nil {
			return
		}
		select {
		case s.frameCh <- &Frame{Image: img, Index: index, Timestamp: time.Now()}:
			index++
		default:
		}
	}

	// first frame right away so even an instant stop has something to encode
	emit()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			emit()
		}
	}
}

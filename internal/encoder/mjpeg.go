package encoder

import (
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4/pkg/media"
)

// MJPEGEncoder produces a Motion-JPEG stream: one JPEG chunk per frame.
// Concatenated chunks form a raw MJPEG file that ffmpeg and most players read.
type MJPEGEncoder struct {
	callbacks

	stream FrameSource
	jpeg   *JPEGEncoder

	mu      sync.Mutex
	state   State
	started bool
	done    chan struct{}
	errs    int
}

// NewMJPEGEncoder binds an encoder to stream.
func NewMJPEGEncoder(stream FrameSource, opts Options) (*MJPEGEncoder, error) {
	if stream == nil {
		return nil, fmt.Errorf("mjpeg: nil stream")
	}
	if opts.MimeType != "" && BaseType(opts.MimeType) != MimeMJPEG {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, opts.MimeType)
	}
	quality := opts.Quality
	if quality == 0 {
		quality = qualityForBitrate(opts.BitsPerSecond)
	}
	return &MJPEGEncoder{
		stream: stream,
		jpeg:   NewJPEGEncoder(quality),
		done:   make(chan struct{}),
	}, nil
}

func (e *MJPEGEncoder) MimeType() string { return MimeMJPEG }

func (e *MJPEGEncoder) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// DroppedFrames counts frames that failed to encode.
func (e *MJPEGEncoder) DroppedFrames() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errs
}

func (e *MJPEGEncoder) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return ErrAlreadyStarted
	}
	e.started = true
	e.state = StateRecording
	go e.run()
	return nil
}

func (e *MJPEGEncoder) run() {
	defer close(e.done)
	interval := e.stream.FrameInterval()
	for frame := range e.stream.Frames() {
		data, err := e.jpeg.Encode(frame.Image)
		if err != nil {
			e.mu.Lock()
			e.errs++
			e.mu.Unlock()
			continue
		}
		e.emit(media.Sample{
			Data:      data,
			Timestamp: frame.Timestamp,
			Duration:  interval,
		})
	}
}

// Stop ends the stream, waits for the last frame to be encoded and fires the
// stop callback.
func (e *MJPEGEncoder) Stop() {
	e.mu.Lock()
	started := e.started
	e.state = StateInactive
	e.mu.Unlock()

	e.stream.Stop()
	if !started {
		return
	}
	<-e.done
	e.stopped()
}

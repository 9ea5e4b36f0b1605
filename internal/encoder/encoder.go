package encoder

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/pion/webrtc/v4/pkg/media"

	"github.com/junsooki/reelstudio/internal/capture"
)

// Media types the studio knows how to produce.
const (
	MimeWebMVP9 = "video/webm;codecs=vp9"
	MimeWebMVP8 = "video/webm;codecs=vp8"
	MimeWebM    = "video/webm"
	MimeMJPEG   = "video/x-motion-jpeg"
)

var (
	ErrUnsupportedType = errors.New("encoder: unsupported media type")
	ErrAlreadyStarted  = errors.New("encoder: already started")
)

// State is the lifecycle state of a streaming encoder.
type State int

const (
	StateInactive State = iota
	StateRecording
)

func (s State) String() string {
	switch s {
	case StateRecording:
		return "recording"
	default:
		return "inactive"
	}
}

// FrameSource is a live pixel stream. *capture.Stream implements it.
type FrameSource interface {
	Frames() <-chan *capture.Frame
	FrameInterval() time.Duration
	Stop()
}

// Options configures a streaming encoder.
type Options struct {
	MimeType      string // "" lets the platform pick its default
	BitsPerSecond int
	Quality       int // JPEG quality for MJPEG; 0 derives it from BitsPerSecond
}

// Encoder turns a live pixel stream into encoded chunks.
//
// Chunks are delivered to the OnData callback from the encoder's own
// goroutine in production order. Stop flushes pending output, delivers the
// remaining chunks and then fires the OnStop callback exactly once.
type Encoder interface {
	MimeType() string
	State() State
	OnData(fn func(media.Sample))
	OnStop(fn func())
	Start() error
	Stop()
}

// SelectMimeType returns the first entry of prefs the platform supports, or
// "" when none match.
func SelectMimeType(prefs []string, supported func(string) bool) string {
	for _, p := range prefs {
		if supported(p) {
			return p
		}
	}
	return ""
}

// BaseType strips codec parameters: "video/webm;codecs=vp9" -> "video/webm".
func BaseType(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.TrimSpace(base)
}

// Extension returns the file extension for a media type.
func Extension(mimeType string) string {
	switch BaseType(mimeType) {
	case MimeWebM:
		return ".webm"
	case MimeMJPEG:
		return ".mjpeg"
	default:
		return ".bin"
	}
}

// callbacks holds the data/stop handlers shared by the encoders.
type callbacks struct {
	mu       sync.Mutex
	onData   func(media.Sample)
	onStop   func()
	stopOnce sync.Once
}

func (c *callbacks) OnData(fn func(media.Sample)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onData = fn
}

func (c *callbacks) OnStop(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStop = fn
}

func (c *callbacks) emit(s media.Sample) {
	c.mu.Lock()
	fn := c.onData
	c.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

func (c *callbacks) stopped() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		fn := c.onStop
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

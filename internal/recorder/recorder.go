// Package recorder bridges a live drawing surface to a streaming encoder and
// assembles the encoded chunks into a downloadable artifact.
package recorder

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pion/webrtc/v4/pkg/media"

	"github.com/junsooki/reelstudio/internal/capture"
	"github.com/junsooki/reelstudio/internal/encoder"
)

// Status messages shown to the user.
const (
	MsgReady       = "Ready to record."
	MsgNotReady    = "Surface is not ready yet."
	MsgUnsupported = "Streaming capture is not supported on this platform."
	MsgRecording   = "Recording…"
	MsgFailed      = "Failed to start recording."
	MsgSaved       = "Recording saved."
)

// Surface is anything that can hand out a live pixel stream.
type Surface interface {
	CaptureStream(fps int) (*capture.Stream, error)
}

// State is the user-visible recorder state.
type State struct {
	Recording bool
	Message   string
}

// Option configures a Controller.
type Option func(*Controller)

// WithFPS sets the capture frame rate.
func WithFPS(fps int) Option {
	return func(c *Controller) { c.fps = fps }
}

// WithBitrate sets the encoder target bitrate.
func WithBitrate(bps int) Option {
	return func(c *Controller) { c.bitrate = bps }
}

// WithQuality pins the MJPEG quality instead of deriving it from the bitrate.
func WithQuality(q int) Option {
	return func(c *Controller) { c.quality = q }
}

// WithCodecs sets the ordered media type preference.
func WithCodecs(prefs []string) Option {
	return func(c *Controller) { c.codecs = append([]string(nil), prefs...) }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// session is one recording's chunk accumulator. Chunks are appended only
// while open.
type session struct {
	id     uuid.UUID
	open   bool
	chunks []media.Sample
}

// Controller records a surface. At most one session is active at a time.
type Controller struct {
	platform encoder.Platform
	fps      int
	bitrate  int
	quality  int
	codecs   []string
	logger   *log.Logger

	mu       sync.Mutex
	state    State
	enc      encoder.Encoder
	sess     *session
	starting bool
	onChange func(State)
}

// New creates an idle controller.
func New(platform encoder.Platform, opts ...Option) *Controller {
	c := &Controller{
		platform: platform,
		fps:      60,
		bitrate:  6_000_000,
		codecs:   []string{encoder.MimeWebMVP9, encoder.MimeWebMVP8, encoder.MimeWebM},
		logger:   log.Default(),
		state:    State{Message: MsgReady},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnChange registers an observer for state transitions. It is called without
// the controller lock held.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Start begins recording surface. Failures never propagate: they leave the
// controller idle with a descriptive status, and the caller may retry.
func (c *Controller) Start(surface Surface) State {
	if isNil(surface) {
		return c.setIdle(MsgNotReady)
	}
	if c.platform == nil || !c.platform.SupportsStreamCapture() || !c.platform.SupportsEncoding() {
		return c.setIdle(MsgUnsupported)
	}

	c.mu.Lock()
	if c.enc != nil || c.starting {
		st := c.state
		c.mu.Unlock()
		c.logger.Warn("start ignored, already recording")
		return st
	}
	c.starting = true
	c.mu.Unlock()

	enc, sess, err := c.setup(surface)

	c.mu.Lock()
	c.starting = false
	if err != nil {
		c.mu.Unlock()
		c.logger.Error("start recording", "err", err)
		return c.setIdle(MsgFailed)
	}
	c.enc = enc
	c.sess = sess
	c.state = State{Recording: true, Message: MsgRecording}
	st := c.state
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(st)
	}
	c.logger.Info("recording started", "session", sess.id, "type", enc.MimeType(), "fps", c.fps, "bitrate", c.bitrate)
	return st
}

// setup builds the stream and encoder and starts encoding. A panic from the
// platform is reported like any other setup error.
func (c *Controller) setup(surface Surface) (enc encoder.Encoder, sess *session, err error) {
	var stream *capture.Stream
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during setup: %v", r)
		}
		if err == nil {
			return
		}
		if sess != nil {
			c.mu.Lock()
			sess.open = false
			c.mu.Unlock()
		}
		if enc != nil {
			enc.Stop()
		} else if stream != nil {
			stream.Stop()
		}
		enc, sess = nil, nil
	}()

	stream, err = surface.CaptureStream(c.fps)
	if err != nil {
		return nil, nil, fmt.Errorf("capture stream: %w", err)
	}
	if stream == nil {
		return nil, nil, fmt.Errorf("capture stream: surface returned no stream")
	}

	mimeType := encoder.SelectMimeType(c.codecs, c.platform.IsTypeSupported)
	enc, err = c.platform.NewEncoder(stream, encoder.Options{
		MimeType:      mimeType,
		BitsPerSecond: c.bitrate,
		Quality:       c.quality,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("new encoder: %w", err)
	}

	sess = &session{id: uuid.New(), open: true}
	enc.OnData(func(s media.Sample) {
		if len(s.Data) == 0 {
			return
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if sess.open {
			sess.chunks = append(sess.chunks, s)
		}
	})
	enc.OnStop(func() {
		c.mu.Lock()
		if c.sess != sess || !c.state.Recording {
			c.mu.Unlock()
			return
		}
		c.state.Recording = false
		st := c.state
		fn := c.onChange
		c.mu.Unlock()
		if fn != nil {
			fn(st)
		}
	})

	if err = enc.Start(); err != nil {
		return enc, sess, fmt.Errorf("start encoder: %w", err)
	}
	return enc, sess, nil
}

// Stop ends the active session and returns its artifact, or nil when nothing
// is recording.
func (c *Controller) Stop() *Artifact {
	c.mu.Lock()
	enc, sess := c.enc, c.sess
	if enc == nil {
		c.mu.Unlock()
		return nil
	}
	c.enc = nil
	c.sess = nil
	c.mu.Unlock()

	if enc.State() != encoder.StateInactive {
		enc.Stop()
	}

	c.mu.Lock()
	sess.open = false
	artifact := assemble(sess.id, enc.MimeType(), sess.chunks)
	sess.chunks = nil
	var (
		st State
		fn func(State)
	)
	if c.enc == nil && !c.starting {
		c.state = State{Message: MsgSaved}
		st, fn = c.state, c.onChange
	}
	c.mu.Unlock()
	if fn != nil {
		fn(st)
	}

	c.logger.Info("recording saved", "session", sess.id, "chunks", artifact.Chunks, "bytes", artifact.Size())
	return artifact
}

// Active reports whether a session holds an encoder. It can be true while
// State().Recording is false, when the encoder stopped on its own and the
// session still waits for Stop to collect the artifact.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enc != nil
}

// PendingChunks is the number of chunks accumulated in the active session.
func (c *Controller) PendingChunks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return 0
	}
	return len(c.sess.chunks)
}

// setIdle reports a failed or refused start. A live session keeps its state.
func (c *Controller) setIdle(msg string) State {
	c.mu.Lock()
	if c.enc != nil || c.starting {
		st := c.state
		c.mu.Unlock()
		return st
	}
	c.state = State{Message: msg}
	st := c.state
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(st)
	}
	return st
}

func isNil(s Surface) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

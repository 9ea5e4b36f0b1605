package recorder

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/reelstudio/internal/capture"
	"github.com/junsooki/reelstudio/internal/encoder"
	"github.com/junsooki/reelstudio/internal/logging"
	"github.com/junsooki/reelstudio/internal/surface"
)

// ============================================================================
// Test helpers
// ============================================================================

type fakePlatform struct {
	noCapture  bool
	noEncoding bool
	supported  map[string]bool
	newErr     error
	panicMsg   string
	startErr   error

	mu       sync.Mutex
	lastOpts encoder.Options
	encoders []*fakeEncoder
}

func (p *fakePlatform) SupportsStreamCapture() bool { return !p.noCapture }
func (p *fakePlatform) SupportsEncoding() bool      { return !p.noEncoding }
func (p *fakePlatform) IsTypeSupported(m string) bool {
	return p.supported[m]
}

func (p *fakePlatform) NewEncoder(stream encoder.FrameSource, opts encoder.Options) (encoder.Encoder, error) {
	if p.panicMsg != "" {
		panic(p.panicMsg)
	}
	if p.newErr != nil {
		return nil, p.newErr
	}
	mime := opts.MimeType
	if mime == "" {
		mime = "video/webm"
	}
	e := &fakeEncoder{mime: mime, stream: stream, startErr: p.startErr}
	p.mu.Lock()
	p.lastOpts = opts
	p.encoders = append(p.encoders, e)
	p.mu.Unlock()
	return e, nil
}

// fakeEncoder emits chunks only when told to.
type fakeEncoder struct {
	mime     string
	stream   encoder.FrameSource
	startErr error

	mu     sync.Mutex
	state  encoder.State
	onData func(media.Sample)
	onStop func()
	stops  int
}

func (e *fakeEncoder) MimeType() string { return e.mime }
func (e *fakeEncoder) State() encoder.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}
func (e *fakeEncoder) OnData(fn func(media.Sample)) { e.onData = fn }
func (e *fakeEncoder) OnStop(fn func())             { e.onStop = fn }
func (e *fakeEncoder) Start() error {
	if e.startErr != nil {
		return e.startErr
	}
	e.mu.Lock()
	e.state = encoder.StateRecording
	e.mu.Unlock()
	return nil
}
func (e *fakeEncoder) Stop() {
	e.mu.Lock()
	e.state = encoder.StateInactive
	e.stops++
	e.mu.Unlock()
	e.stream.Stop()
	if e.onStop != nil {
		e.onStop()
	}
}
func (e *fakeEncoder) emit(data string) { e.onData(media.Sample{Data: []byte(data)}) }

// finish simulates the encoder ending by itself.
func (e *fakeEncoder) finish() {
	e.mu.Lock()
	e.state = encoder.StateInactive
	e.mu.Unlock()
	e.onStop()
}

type failingSurface struct{}

func (failingSurface) CaptureStream(int) (*capture.Stream, error) {
	return nil, errors.New("no pixels")
}

func newSurface() *surface.Surface {
	return surface.New(16, 16, 1)
}

func newController(p encoder.Platform, opts ...Option) *Controller {
	return New(p, append([]Option{WithLogger(logging.Discard())}, opts...)...)
}

// ============================================================================
// Start
// ============================================================================

func TestNewControllerIsIdle(t *testing.T) {
	c := newController(&fakePlatform{})
	assert.Equal(t, State{Message: MsgReady}, c.State())
	assert.False(t, c.Active())
}

func TestStartNilSurface(t *testing.T) {
	c := newController(&fakePlatform{})

	st := c.Start(nil)
	assert.False(t, st.Recording)
	assert.Equal(t, MsgNotReady, st.Message)

	var typedNil *surface.Surface
	st = c.Start(typedNil)
	assert.False(t, st.Recording)
	assert.Contains(t, strings.ToLower(st.Message), "not ready")
}

func TestStartUnsupportedPlatform(t *testing.T) {
	tests := []struct {
		name     string
		platform encoder.Platform
	}{
		{"no stream capture", &fakePlatform{noCapture: true}},
		{"no encoder", &fakePlatform{noEncoding: true}},
		{"no platform", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(tt.platform)
			st := c.Start(newSurface())
			assert.False(t, st.Recording)
			assert.Equal(t, MsgUnsupported, st.Message)
			assert.False(t, c.Active())
		})
	}
}

func TestStartSetupFailures(t *testing.T) {
	tests := []struct {
		name     string
		platform *fakePlatform
		surface  Surface
	}{
		{"capture stream error", &fakePlatform{}, failingSurface{}},
		{"encoder construction error", &fakePlatform{newErr: errors.New("boom")}, newSurface()},
		{"encoder start error", &fakePlatform{startErr: errors.New("busy")}, newSurface()},
		{"platform panics", &fakePlatform{panicMsg: "kaput"}, newSurface()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(tt.platform)
			var st State
			require.NotPanics(t, func() { st = c.Start(tt.surface) })
			assert.False(t, st.Recording)
			assert.Equal(t, MsgFailed, st.Message)
			assert.False(t, c.Active())
			assert.Nil(t, c.Stop())
		})
	}
}

func TestStartNegotiatesMimeType(t *testing.T) {
	p := &fakePlatform{supported: map[string]bool{encoder.MimeWebMVP8: true, encoder.MimeWebM: true}}
	c := newController(p, WithBitrate(1234), WithFPS(30))

	st := c.Start(newSurface())
	require.True(t, st.Recording)
	assert.Equal(t, MsgRecording, st.Message)
	assert.Equal(t, encoder.MimeWebMVP8, p.lastOpts.MimeType)
	assert.Equal(t, 1234, p.lastOpts.BitsPerSecond)
	c.Stop()
}

func TestStartFallsBackToDefaultType(t *testing.T) {
	p := &fakePlatform{}
	c := newController(p)
	require.True(t, c.Start(newSurface()).Recording)
	assert.Equal(t, "", p.lastOpts.MimeType)

	a := c.Stop()
	require.NotNil(t, a)
	assert.Equal(t, "video/webm", a.MimeType, "artifact is tagged with what the encoder produced")
}

func TestStartWhileRecordingIsIgnored(t *testing.T) {
	p := &fakePlatform{}
	c := newController(p)
	require.True(t, c.Start(newSurface()).Recording)

	st := c.Start(newSurface())
	assert.True(t, st.Recording)
	assert.Len(t, p.encoders, 1, "only one session at a time")

	st = c.Start(nil)
	assert.True(t, st.Recording, "a live session keeps its state")
	c.Stop()
}

// ============================================================================
// Stop
// ============================================================================

func TestStopWithoutStart(t *testing.T) {
	c := newController(&fakePlatform{})
	var a *Artifact
	require.NotPanics(t, func() { a = c.Stop() })
	assert.Nil(t, a)
	assert.Equal(t, MsgReady, c.State().Message)
}

func TestStopAssemblesChunksInOrder(t *testing.T) {
	p := &fakePlatform{}
	c := newController(p)
	require.True(t, c.Start(newSurface()).Recording)

	enc := p.encoders[0]
	enc.emit("ab")
	enc.emit("")
	enc.emit("cd")
	enc.emit("e")
	assert.Equal(t, 3, c.PendingChunks(), "empty chunks are skipped")

	a := c.Stop()
	require.NotNil(t, a)
	assert.Equal(t, "abcde", string(a.Bytes()))
	assert.Equal(t, 3, a.Chunks)
	assert.Equal(t, 0, c.PendingChunks())
	assert.Equal(t, State{Message: MsgSaved}, c.State())
	assert.Equal(t, 1, enc.stops)
}

func TestStopTwice(t *testing.T) {
	p := &fakePlatform{}
	c := newController(p)
	c.Start(newSurface())
	p.encoders[0].emit("x")

	require.NotNil(t, c.Stop())
	assert.Nil(t, c.Stop())
}

func TestChunksAfterStopAreDropped(t *testing.T) {
	p := &fakePlatform{}
	c := newController(p)
	c.Start(newSurface())
	enc := p.encoders[0]
	enc.emit("x")
	c.Stop()

	enc.emit("late")
	assert.Equal(t, 0, c.PendingChunks())

	c.Start(newSurface())
	enc.emit("stale session")
	assert.Equal(t, 0, c.PendingChunks(), "an old encoder cannot write into a new session")
	p.encoders[1].emit("fresh")
	assert.Equal(t, 1, c.PendingChunks())
	c.Stop()
}

func TestEncoderStoppingOnItsOwn(t *testing.T) {
	p := &fakePlatform{}
	c := newController(p)

	var mu sync.Mutex
	var seen []State
	c.OnChange(func(st State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, st)
	})

	c.Start(newSurface())
	enc := p.encoders[0]
	enc.emit("abc")
	enc.finish()

	assert.False(t, c.State().Recording)
	assert.True(t, c.Active(), "artifact still waits to be collected")

	a := c.Stop()
	require.NotNil(t, a)
	assert.Equal(t, "abc", string(a.Bytes()))
	assert.Equal(t, 0, enc.stops, "an inactive encoder is not stopped again")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 3)
	assert.True(t, seen[0].Recording)
	assert.False(t, seen[1].Recording)
	assert.Equal(t, MsgSaved, seen[2].Message)
}

// ============================================================================
// End to end with the in-process MJPEG encoder
// ============================================================================

func TestStartStopProducesVideoArtifact(t *testing.T) {
	c := newController(encoder.NewLocalPlatform(""), WithFPS(60))
	s := newSurface()

	st := c.Start(s)
	require.True(t, st.Recording, st.Message)
	time.Sleep(50 * time.Millisecond)

	a := c.Stop()
	require.NotNil(t, a)
	assert.NotZero(t, a.Size())
	assert.True(t, strings.HasPrefix(a.MimeType, "video/"), a.MimeType)
	assert.Equal(t, encoder.MimeMJPEG, a.MimeType)
	assert.Equal(t, ".mjpeg", a.Extension())
	assert.Equal(t, 0, c.PendingChunks())
	assert.False(t, c.State().Recording)
}

func TestImmediateStopStillHasAFrame(t *testing.T) {
	c := newController(encoder.NewLocalPlatform(""))
	require.True(t, c.Start(newSurface()).Recording)
	a := c.Stop()
	require.NotNil(t, a)
	assert.NotZero(t, a.Size())
}

func TestConcurrentStartStop(t *testing.T) {
	c := newController(encoder.NewLocalPlatform(""))
	s := newSurface()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); c.Start(s) }()
		go func() { defer wg.Done(); c.Stop() }()
	}
	wg.Wait()
	c.Stop()
	assert.False(t, c.Active())
	assert.Equal(t, 0, c.PendingChunks())
}

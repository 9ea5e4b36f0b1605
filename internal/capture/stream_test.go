package capture

import (
	"image"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	img   *image.RGBA
	calls atomic.Int32
}

func (s *staticSource) Snapshot() *image.RGBA {
	s.calls.Add(1)
	return s.img
}

func drain(ch <-chan *Frame) []*Frame {
	var out []*Frame
	for f := range ch {
		out = append(out, f)
	}
	return out
}

func TestNewStreamValidation(t *testing.T) {
	src := &staticSource{img: image.NewRGBA(image.Rect(0, 0, 1, 1))}

	_, err := NewStream(src, 0)
	assert.ErrorIs(t, err, ErrInvalidFPS)
	_, err = NewStream(src, 121)
	assert.ErrorIs(t, err, ErrInvalidFPS)
	_, err = NewStream(nil, 30)
	assert.Error(t, err)

	s, err := NewStream(src, 60)
	require.NoError(t, err)
	assert.Equal(t, 60, s.FPS())
	assert.Equal(t, time.Second/60, s.FrameInterval())
}

func TestStreamEmitsFirstFrameImmediately(t *testing.T) {
	src := &staticSource{img: image.NewRGBA(image.Rect(0, 0, 2, 2))}
	s, err := NewStream(src, 1)
	require.NoError(t, err)
	require.NoError(t, s.Start())

	select {
	case f := <-s.Frames():
		require.NotNil(t, f)
		assert.Equal(t, 0, f.Index)
		assert.Same(t, src.img, f.Image)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("no frame before the first tick")
	}
	s.Stop()
	drain(s.Frames())
}

func TestStreamStopClosesFrames(t *testing.T) {
	src := &staticSource{img: image.NewRGBA(image.Rect(0, 0, 2, 2))}
	s, err := NewStream(src, 120)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	assert.True(t, s.Running())

	time.Sleep(30 * time.Millisecond)
	s.Stop()
	s.Stop()
	assert.False(t, s.Running())

	frames := drain(s.Frames())
	require.NotEmpty(t, frames)
	for i, f := range frames {
		assert.Equal(t, i, f.Index, "indices are contiguous for delivered frames")
	}
}

func TestStreamStartTwice(t *testing.T) {
	src := &staticSource{img: image.NewRGBA(image.Rect(0, 0, 1, 1))}
	s, err := NewStream(src, 30)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	assert.Error(t, s.Start())
	s.Stop()
	drain(s.Frames())
}

func TestStreamStopBeforeStart(t *testing.T) {
	src := &staticSource{img: image.NewRGBA(image.Rect(0, 0, 1, 1))}
	s, err := NewStream(src, 30)
	require.NoError(t, err)
	s.Stop()
	assert.Empty(t, drain(s.Frames()))
	assert.Error(t, s.Start())
}

func TestStreamSkipsNilSnapshots(t *testing.T) {
	src := &staticSource{}
	s, err := NewStream(src, 120)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	assert.Empty(t, drain(s.Frames()))
	assert.Greater(t, src.calls.Load(), int32(0))
}

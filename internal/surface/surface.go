// Package surface is the fixed-size pixel buffer the scene is painted into
// and the capture stream reads from.
package surface

import (
	"image"
	"image/draw"
	"math"
	"sync"

	"github.com/fogleman/gg"

	"github.com/junsooki/reelstudio/internal/capture"
)

// Surface is a double-buffered drawing surface. The render loop paints into
// the back buffer through Context and publishes it with Present; readers only
// ever see presented frames.
type Surface struct {
	width  int
	height int
	ratio  float64

	mu       sync.RWMutex
	back     *image.RGBA
	front    *image.RGBA
	dc       *gg.Context
	detached bool
}

// New allocates a width x height logical surface scaled by ratio.
func New(width, height int, ratio float64) *Surface {
	if ratio <= 0 {
		ratio = 1
	}
	pw := int(math.Round(float64(width) * ratio))
	ph := int(math.Round(float64(height) * ratio))
	back := image.NewRGBA(image.Rect(0, 0, pw, ph))
	return &Surface{
		width:  width,
		height: height,
		ratio:  ratio,
		back:   back,
		front:  image.NewRGBA(back.Rect),
		dc:     gg.NewContextForRGBA(back),
	}
}

// Size returns the logical size.
func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

// PixelSize returns the backing buffer size.
func (s *Surface) PixelSize() (int, int) {
	return s.back.Rect.Dx(), s.back.Rect.Dy()
}

// Ratio returns the device pixel ratio.
func (s *Surface) Ratio() float64 {
	return s.ratio
}

// Context returns the drawing context of the back buffer, or nil once the
// surface is detached. Only one goroutine may draw at a time.
func (s *Surface) Context() *gg.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.detached {
		return nil
	}
	return s.dc
}

// Present publishes the back buffer.
func (s *Surface) Present() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return
	}
	copy(s.front.Pix, s.back.Pix)
}

// Snapshot returns a copy of the last presented frame, or nil when detached.
func (s *Surface) Snapshot() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.detached {
		return nil
	}
	img := image.NewRGBA(s.front.Rect)
	draw.Draw(img, img.Rect, s.front, image.Point{}, draw.Src)
	return img
}

// CaptureStream starts a live pixel stream of presented frames.
func (s *Surface) CaptureStream(fps int) (*capture.Stream, error) {
	stream, err := capture.NewStream(s, fps)
	if err != nil {
		return nil, err
	}
	if err := stream.Start(); err != nil {
		return nil, err
	}
	return stream, nil
}

// Detach makes the surface unavailable to drawing and capture.
func (s *Surface) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = true
}

// Detached reports whether Detach was called.
func (s *Surface) Detached() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detached
}

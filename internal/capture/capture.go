package capture

import (
	"errors"
	"image"
	"time"
)

// ErrInvalidFPS is returned for frame rates outside 1-120.
var ErrInvalidFPS = errors.New("capture: fps must be 1-120")

// Frame represents a captured surface frame.
type Frame struct {
	Image     *image.RGBA
	Index     int
	Timestamp time.Time
}

// Source provides the most recently presented surface frame. Snapshot
// returns nil when the surface has nothing to offer.
type Source interface {
	Snapshot() *image.RGBA
}

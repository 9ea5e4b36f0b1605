// Package decoder reads recorded Motion-JPEG takes back into frames, for
// picking the reel's cover image.
package decoder

import (
	"errors"
	"fmt"
	"image"
)

// ErrNoFrame is returned when a take holds no complete frame at the
// requested position.
var ErrNoFrame = errors.New("decoder: no frame in stream")

// Decoder decodes one encoded frame.
type Decoder interface {
	Decode(data []byte) (*image.RGBA, error)
}

// FrameAt decodes frame n (zero based) of a Motion-JPEG take.
func FrameAt(dec Decoder, data []byte, n int) (*image.RGBA, error) {
	if n < 0 {
		return nil, fmt.Errorf("frame index %d: %w", n, ErrNoFrame)
	}
	frames := SplitMJPEG(data)
	if n >= len(frames) {
		return nil, fmt.Errorf("frame %d of %d: %w", n, len(frames), ErrNoFrame)
	}
	return dec.Decode(frames[n])
}

// CoverFrame decodes the first frame of a take.
func CoverFrame(dec Decoder, data []byte) (*image.RGBA, error) {
	return FrameAt(dec, data, 0)
}

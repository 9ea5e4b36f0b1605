package encoder

import (
	"bytes"
	"image"
	"image/jpeg"
)

// FrameEncoder encodes a single image into bytes.
type FrameEncoder interface {
	Encode(img *image.RGBA) ([]byte, error)
	SetQuality(quality int)
}

// JPEGEncoder encodes frames as JPEG.
type JPEGEncoder struct {
	quality int
}

// NewJPEGEncoder creates a JPEG encoder with the given quality (1-100).
func NewJPEGEncoder(quality int) *JPEGEncoder {
	e := &JPEGEncoder{}
	e.SetQuality(quality)
	return e
}

func (e *JPEGEncoder) SetQuality(quality int) {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	e.quality = quality
}

// Quality returns the clamped quality.
func (e *JPEGEncoder) Quality() int {
	return e.quality
}

func (e *JPEGEncoder) Encode(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(256 * 1024) // pre-allocate 256KB
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// qualityForBitrate maps a target bitrate onto JPEG quality: 6 Mbps is 60.
func qualityForBitrate(bps int) int {
	q := bps / 100_000
	if q < 10 {
		q = 10
	}
	if q > 95 {
		q = 95
	}
	return q
}

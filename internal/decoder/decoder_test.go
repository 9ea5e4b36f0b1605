package decoder

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jpegOf(t *testing.T, c color.RGBA, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestJPEGDecoder(t *testing.T) {
	img, err := NewJPEGDecoder().Decode(jpegOf(t, color.RGBA{200, 10, 10, 255}, 8, 4))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
	r := img.RGBAAt(4, 2).R
	assert.InDelta(t, 200, int(r), 12)

	_, err = NewJPEGDecoder().Decode([]byte("not a jpeg"))
	assert.Error(t, err)
}

func TestSplitMJPEG(t *testing.T) {
	a := jpegOf(t, color.RGBA{255, 0, 0, 255}, 4, 4)
	b := jpegOf(t, color.RGBA{0, 0, 255, 255}, 4, 4)
	stream := append(append(append([]byte(nil), a...), b...), 0xFF, 0xD8, 0x00)

	frames := SplitMJPEG(stream)
	require.Len(t, frames, 2, "partial trailing frame dropped")
	assert.Equal(t, a, frames[0])
	assert.Equal(t, b, frames[1])

	assert.Empty(t, SplitMJPEG(nil))
	assert.Empty(t, SplitMJPEG([]byte{1, 2, 3}))
}

func TestCoverFrame(t *testing.T) {
	a := jpegOf(t, color.RGBA{0, 255, 0, 255}, 6, 6)
	b := jpegOf(t, color.RGBA{0, 0, 255, 255}, 6, 6)

	img, err := CoverFrame(NewJPEGDecoder(), append(append([]byte(nil), a...), b...))
	require.NoError(t, err)
	px := img.RGBAAt(3, 3)
	assert.Greater(t, px.G, px.B, "first frame wins")

	_, err = CoverFrame(NewJPEGDecoder(), []byte("webm bytes"))
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestFrameAt(t *testing.T) {
	a := jpegOf(t, color.RGBA{0, 255, 0, 255}, 6, 6)
	b := jpegOf(t, color.RGBA{0, 0, 255, 255}, 6, 6)
	take := append(append([]byte(nil), a...), b...)
	require.Equal(t, 2, CountFrames(take))

	img, err := FrameAt(NewJPEGDecoder(), take, 1)
	require.NoError(t, err)
	px := img.RGBAAt(3, 3)
	assert.Greater(t, px.B, px.G, "second frame")

	_, err = FrameAt(NewJPEGDecoder(), take, 2)
	assert.ErrorIs(t, err, ErrNoFrame)
	_, err = FrameAt(NewJPEGDecoder(), take, -1)
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestToRGBAOrigin(t *testing.T) {
	src := image.NewGray(image.Rect(2, 3, 6, 5))
	out := toRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 4, 2), out.Bounds())
}

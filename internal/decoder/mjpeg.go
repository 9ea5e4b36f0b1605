package decoder

import "bytes"

var (
	soi = []byte{0xFF, 0xD8}
	eoi = []byte{0xFF, 0xD9}
)

// SplitMJPEG cuts a raw Motion-JPEG stream into its JPEG frames. Trailing
// partial frames are dropped.
func SplitMJPEG(data []byte) [][]byte {
	var frames [][]byte
	for {
		start := bytes.Index(data, soi)
		if start < 0 {
			return frames
		}
		end := bytes.Index(data[start+len(soi):], eoi)
		if end < 0 {
			return frames
		}
		end += start + len(soi) + len(eoi)
		frames = append(frames, data[start:end])
		data = data[end:]
	}
}

// CountFrames reports how many complete frames a take holds.
func CountFrames(data []byte) int {
	return len(SplitMJPEG(data))
}

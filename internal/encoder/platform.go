package encoder

import "fmt"

// Platform reports which capture and encoding capabilities are available
// and builds encoders for them.
type Platform interface {
	SupportsStreamCapture() bool
	SupportsEncoding() bool
	IsTypeSupported(mimeType string) bool
	NewEncoder(stream FrameSource, opts Options) (Encoder, error)
}

// LocalPlatform encodes Motion-JPEG in-process and WebM through ffmpeg when
// a binary is available.
type LocalPlatform struct {
	ffmpeg string
}

// NewLocalPlatform creates a platform. ffmpegPath may be "" when no ffmpeg
// binary is installed.
func NewLocalPlatform(ffmpegPath string) *LocalPlatform {
	return &LocalPlatform{ffmpeg: ffmpegPath}
}

func (p *LocalPlatform) SupportsStreamCapture() bool { return true }

func (p *LocalPlatform) SupportsEncoding() bool { return true }

// HasFFmpeg reports whether WebM output is available.
func (p *LocalPlatform) HasFFmpeg() bool { return p.ffmpeg != "" }

func (p *LocalPlatform) IsTypeSupported(mimeType string) bool {
	if mimeType == MimeMJPEG {
		return true
	}
	_, ok := webmCodecs[mimeType]
	return ok && p.HasFFmpeg()
}

// NewEncoder builds the encoder for opts.MimeType. An empty type selects the
// platform default: WebM when ffmpeg is present, Motion-JPEG otherwise.
func (p *LocalPlatform) NewEncoder(stream FrameSource, opts Options) (Encoder, error) {
	switch {
	case opts.MimeType == "" && p.HasFFmpeg():
		opts.MimeType = MimeWebM
	case opts.MimeType == "":
		opts.MimeType = MimeMJPEG
	}
	if !p.IsTypeSupported(opts.MimeType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, opts.MimeType)
	}
	if opts.MimeType == MimeMJPEG {
		return NewMJPEGEncoder(stream, opts)
	}
	return NewFFmpegEncoder(p.ffmpeg, stream, opts)
}

package encoder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/pion/webrtc/v4/pkg/media"
	"golang.org/x/sync/errgroup"

	"github.com/junsooki/reelstudio/internal/capture"
)

const ffmpegReadSize = 64 * 1024

// FFmpegEncoder pipes raw RGBA frames into an ffmpeg child process and emits
// its WebM output as chunks. The process is spawned on the first frame, once
// the frame size is known.
type FFmpegEncoder struct {
	callbacks

	path     string
	mimeType string
	bitrate  int
	stream   FrameSource

	mu      sync.Mutex
	state   State
	started bool
	done    chan struct{}
	err     error
}

// NewFFmpegEncoder binds an ffmpeg-backed WebM encoder to stream.
func NewFFmpegEncoder(path string, stream FrameSource, opts Options) (*FFmpegEncoder, error) {
	if path == "" {
		return nil, fmt.Errorf("ffmpeg: no binary")
	}
	if stream == nil {
		return nil, fmt.Errorf("ffmpeg: nil stream")
	}
	mimeType := opts.MimeType
	if mimeType == "" {
		mimeType = MimeWebM
	}
	if _, ok := webmCodecs[mimeType]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
	return &FFmpegEncoder{
		path:     path,
		mimeType: mimeType,
		bitrate:  opts.BitsPerSecond,
		stream:   stream,
		done:     make(chan struct{}),
	}, nil
}

var webmCodecs = map[string]string{
	MimeWebMVP9: "libvpx-vp9",
	MimeWebMVP8: "libvpx",
	MimeWebM:    "libvpx",
}

func (e *FFmpegEncoder) MimeType() string { return e.mimeType }

func (e *FFmpegEncoder) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err reports why encoding ended early, if it did.
func (e *FFmpegEncoder) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *FFmpegEncoder) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return ErrAlreadyStarted
	}
	e.started = true
	e.state = StateRecording
	go e.run()
	return nil
}

// Stop ends the stream, lets ffmpeg finalise the container and fires the stop
// callback after the last chunk.
func (e *FFmpegEncoder) Stop() {
	e.mu.Lock()
	started := e.started
	e.state = StateInactive
	e.mu.Unlock()

	e.stream.Stop()
	if !started {
		return
	}
	<-e.done
	e.stopped()
}

func (e *FFmpegEncoder) run() {
	defer close(e.done)

	frames := e.stream.Frames()
	first, ok := <-frames
	if !ok {
		return
	}
	if err := e.encode(first, frames); err != nil {
		e.mu.Lock()
		e.err = err
		e.state = StateInactive
		e.mu.Unlock()
		// a dead encoder stops itself, like a recorder that errored out
		e.stream.Stop()
		for range frames {
		}
		e.stopped()
	}
}

func (e *FFmpegEncoder) args(w, h int) []string {
	fps := int(1e9 / e.stream.FrameInterval().Nanoseconds())
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "rawvideo", "-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", w, h),
		"-r", strconv.Itoa(fps),
		"-i", "pipe:0",
		"-c:v", webmCodecs[e.mimeType],
		"-deadline", "realtime",
	}
	if e.bitrate > 0 {
		args = append(args, "-b:v", strconv.Itoa(e.bitrate))
	}
	return append(args, "-f", "webm", "pipe:1")
}

func (e *FFmpegEncoder) encode(first *capture.Frame, frames <-chan *capture.Frame) error {
	bounds := first.Image.Rect
	cmd := exec.Command(e.path, e.args(bounds.Dx(), bounds.Dy())...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start: %w", err)
	}

	var g errgroup.Group
	g.Go(func() error {
		defer stdin.Close()
		if _, err := stdin.Write(first.Image.Pix); err != nil {
			return fmt.Errorf("ffmpeg write: %w", err)
		}
		for f := range frames {
			if f.Image.Rect != bounds {
				continue
			}
			if _, err := stdin.Write(f.Image.Pix); err != nil {
				return fmt.Errorf("ffmpeg write: %w", err)
			}
		}
		return nil
	})
	g.Go(func() error {
		buf := make([]byte, ffmpegReadSize)
		for {
			n, err := stdout.Read(buf)
			if n > 0 {
				e.emit(media.Sample{Data: append([]byte(nil), buf[:n]...)})
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("ffmpeg read: %w", err)
			}
		}
	})

	pumpErr := g.Wait()
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return pumpErr
}

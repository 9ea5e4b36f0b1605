// Package studio is the host that owns the drawing surface, the scene loop
// and the recorder, and exposes the user actions.
package studio

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/junsooki/reelstudio/internal/animation"
	"github.com/junsooki/reelstudio/internal/config"
	"github.com/junsooki/reelstudio/internal/encoder"
	"github.com/junsooki/reelstudio/internal/recorder"
	"github.com/junsooki/reelstudio/internal/scene"
	"github.com/junsooki/reelstudio/internal/surface"
)

var (
	ErrNoArtifact = errors.New("studio: nothing recorded yet")
	ErrNotMounted = errors.New("studio: surface not mounted")
)

// Studio wires the scene renderer and the capture controller together.
type Studio struct {
	cfg      *config.Config
	logger   *log.Logger
	recorder *recorder.Controller

	mu       sync.Mutex
	surface  *surface.Surface
	renderer *scene.Renderer
	loop     *animation.Handle
	tagline  int
	latest   *recorder.Artifact
}

// New creates an unmounted studio.
func New(cfg *config.Config, platform encoder.Platform, logger *log.Logger) *Studio {
	if logger == nil {
		logger = log.Default()
	}
	rec := recorder.New(platform,
		recorder.WithFPS(cfg.CaptureFPS),
		recorder.WithBitrate(cfg.Bitrate),
		recorder.WithQuality(cfg.Quality),
		recorder.WithCodecs(cfg.Codecs),
		recorder.WithLogger(logger.WithPrefix("recorder")),
	)
	return &Studio{cfg: cfg, logger: logger, recorder: rec}
}

// Mount creates the surface, seeds the scene once and starts the frame loop.
// Mounting twice is a no-op.
func (s *Studio) Mount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.surface != nil {
		return nil
	}

	seed := uint64(s.cfg.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	params := scene.NewSeededParams(seed, float64(s.cfg.Width), float64(s.cfg.Height))
	renderer, err := scene.NewRenderer(params, s.cfg.Width, s.cfg.Height)
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}

	surf := surface.New(s.cfg.Width, s.cfg.Height, s.cfg.PixelRatio)
	// a capture started right after Mount must never see a blank front buffer
	renderer.Frame(surf, 0)
	surf.Present()
	s.surface = surf
	s.renderer = renderer
	s.loop = animation.Start(ctx, s.cfg.RenderFPS, func(elapsed time.Duration) {
		renderer.Frame(surf, elapsed.Seconds())
		surf.Present()
	})

	pw, ph := surf.PixelSize()
	s.logger.Info("surface mounted", "size", fmt.Sprintf("%dx%d", pw, ph), "seed", seed, "fps", s.cfg.RenderFPS)
	return nil
}

// Unmount cancels the frame loop and detaches the surface. A recording in
// progress is stopped and kept as the latest take.
func (s *Studio) Unmount() {
	s.mu.Lock()
	surf, loop := s.surface, s.loop
	s.surface, s.loop, s.renderer = nil, nil, nil
	s.mu.Unlock()
	if surf == nil {
		return
	}

	loop.Cancel()
	if s.recorder.Active() {
		s.keep(s.recorder.Stop())
	}
	surf.Detach()
	s.logger.Info("surface unmounted", "frames", loop.Frames())
}

// Close unmounts and releases the latest take.
func (s *Studio) Close() {
	s.Unmount()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest != nil {
		s.latest.Release()
		s.latest = nil
	}
}

// ToggleRecording starts a capture when idle and stops it when recording.
func (s *Studio) ToggleRecording() recorder.State {
	if s.recorder.Active() {
		s.keep(s.recorder.Stop())
		return s.recorder.State()
	}

	s.mu.Lock()
	surf := s.surface
	s.mu.Unlock()
	if surf == nil {
		return s.recorder.Start(nil)
	}
	return s.recorder.Start(surf)
}

// keep makes a the latest take, releasing the one it replaces.
func (s *Studio) keep(a *recorder.Artifact) {
	if a == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest != nil && s.latest != a {
		s.latest.Release()
	}
	s.latest = a
}

// Status returns the recorder state.
func (s *Studio) Status() recorder.State {
	return s.recorder.State()
}

// Recorder exposes the capture controller.
func (s *Studio) Recorder() *recorder.Controller {
	return s.recorder
}

// Latest returns the most recent take, or nil.
func (s *Studio) Latest() *recorder.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// SaveLatest writes the latest take into dir and returns its path.
func (s *Studio) SaveLatest(dir string) (string, error) {
	a := s.Latest()
	if a == nil || a.Released() {
		return "", ErrNoArtifact
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("save take: %w", err)
	}
	path := filepath.Join(dir, a.FileName(config.ArtifactBaseName))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("save take: %w", err)
	}
	if _, err := a.WriteTo(f); err != nil {
		f.Close()
		return "", fmt.Errorf("save take: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("save take: %w", err)
	}
	s.logger.Info("take saved", "path", path, "bytes", a.Size(), "type", a.MimeType)
	return path, nil
}

// ShuffleTagline advances to the next hero tagline and returns it.
func (s *Studio) ShuffleTagline() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tagline = (s.tagline + 1) % len(Taglines)
	return Taglines[s.tagline]
}

// Tagline returns the current hero tagline.
func (s *Studio) Tagline() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Taglines[s.tagline]
}

// Script returns the shot list for the current tagline.
func (s *Studio) Script() []Beat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildScript(s.tagline)
}

// Snapshot returns the last presented frame, or nil when unmounted.
func (s *Studio) Snapshot() *image.RGBA {
	s.mu.Lock()
	surf := s.surface
	s.mu.Unlock()
	if surf == nil {
		return nil
	}
	return surf.Snapshot()
}

// Params returns the seeded scene layout of the current mount.
func (s *Studio) Params() (scene.Params, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.renderer == nil {
		return scene.Params{}, ErrNotMounted
	}
	return s.renderer.Params(), nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/BurntSushi/toml"
)

const (
	// CanvasWidth and CanvasHeight are the logical surface size (9:16 reel).
	CanvasWidth  = 1080
	CanvasHeight = 1920

	// ArtifactBaseName is the file name (without extension) of a saved take.
	ArtifactBaseName = "ai-cover-the-world"
)

// DefaultCodecs is the ordered media type preference for captures.
var DefaultCodecs = []string{
	"video/webm;codecs=vp9",
	"video/webm;codecs=vp8",
	"video/webm",
}

// Config holds all runtime configuration.
type Config struct {
	Width      int      `toml:"width"`
	Height     int      `toml:"height"`
	PixelRatio float64  `toml:"pixel_ratio"`
	RenderFPS  int      `toml:"render_fps"`
	CaptureFPS int      `toml:"capture_fps"`
	Bitrate    int      `toml:"bitrate"`
	Quality    int      `toml:"quality"`
	Codecs     []string `toml:"codecs"`
	FFmpegPath string   `toml:"ffmpeg"`
	OutputDir  string   `toml:"output_dir"`
	Seed       int64    `toml:"seed"` // 0 = random per mount
}

// Default returns the configuration the studio ships with.
func Default() *Config {
	return &Config{
		Width:      CanvasWidth,
		Height:     CanvasHeight,
		PixelRatio: 1,
		RenderFPS:  60,
		CaptureFPS: 60,
		Bitrate:    6_000_000,
		Codecs:     append([]string(nil), DefaultCodecs...),
		OutputDir:  ".",
	}
}

// Load reads a TOML file on top of the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("surface size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.PixelRatio <= 0 || c.PixelRatio > 4 {
		errs = append(errs, fmt.Errorf("pixel_ratio must be in (0, 4], got %g", c.PixelRatio))
	}
	if c.RenderFPS <= 0 || c.RenderFPS > 120 {
		errs = append(errs, fmt.Errorf("render_fps must be 1-120, got %d", c.RenderFPS))
	}
	if c.CaptureFPS <= 0 || c.CaptureFPS > 120 {
		errs = append(errs, fmt.Errorf("capture_fps must be 1-120, got %d", c.CaptureFPS))
	}
	if c.Bitrate <= 0 {
		errs = append(errs, fmt.Errorf("bitrate must be positive, got %d", c.Bitrate))
	}
	if c.Quality < 0 || c.Quality > 100 {
		errs = append(errs, fmt.Errorf("quality must be 0-100, got %d", c.Quality))
	}
	return errors.Join(errs...)
}

// FFmpeg resolves the ffmpeg binary, returning "" when none is available.
func (c *Config) FFmpeg() string {
	name := c.FFmpegPath
	if name == "" {
		name = "ffmpeg"
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return ""
	}
	return path
}

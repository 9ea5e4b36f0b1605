// Package cli implements the reelstudio command-line interface.
//
// # Commands
//
//   - run: open the studio window (the default)
//   - record: capture a take headlessly and save it
//   - frame: render a single frame of the scene to PNG
//   - cover: extract the cover frame of a Motion-JPEG take
//
// All commands accept --config (TOML), --seed and --ratio on top of the
// defaults, and --verbose for debug logging. The logger travels through
// context.Context.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/junsooki/reelstudio/internal/config"
	"github.com/junsooki/reelstudio/internal/logging"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	verbose    bool
	seed       int64
	ratio      float64
}

// Execute runs the reelstudio CLI.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "reelstudio",
		Short:        "Reelstudio animates and records the AI Cover the World reel",
		Long:         `Reelstudio renders an animated 9:16 title scene and records it to a video file, either in a preview window or headlessly.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			ctx := logging.WithLogger(cmd.Context(), logging.New(os.Stderr, level))
			cmd.SetContext(ctx)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStudio(cmd, opts)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("reelstudio %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	pf.Int64Var(&opts.seed, "seed", 0, "scene layout seed (0 = random)")
	pf.Float64Var(&opts.ratio, "ratio", 1, "pixel ratio of the surface")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newRecordCmd(opts))
	root.AddCommand(newFrameCmd(opts))
	root.AddCommand(newCoverCmd())

	return root
}

// config loads the config file and applies the flags the user set explicitly.
func (o *options) config(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = o.seed
	}
	if flags.Changed("ratio") {
		cfg.PixelRatio = o.ratio
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

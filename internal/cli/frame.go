package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/junsooki/reelstudio/internal/logging"
	"github.com/junsooki/reelstudio/internal/scene"
	"github.com/junsooki/reelstudio/internal/surface"
)

type frameOpts struct {
	at  time.Duration
	out string
}

func newFrameCmd(root *options) *cobra.Command {
	opts := &frameOpts{}

	cmd := &cobra.Command{
		Use:     "frame",
		Short:   "Render a single frame of the scene to PNG",
		Example: `  reelstudio frame --at 2.5s --out still.png --seed 7`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrame(cmd, root, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.at, "at", 0, "elapsed time of the frame")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "frame.png", "output PNG file")

	return cmd
}

func runFrame(cmd *cobra.Command, root *options, opts *frameOpts) error {
	cfg, err := root.config(cmd)
	if err != nil {
		return err
	}
	seed := uint64(cfg.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	renderer, err := scene.NewRenderer(scene.NewSeededParams(seed, float64(cfg.Width), float64(cfg.Height)), cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	surf := surface.New(cfg.Width, cfg.Height, cfg.PixelRatio)
	defer surf.Detach()

	renderer.Frame(surf, opts.at.Seconds())
	if err := surf.Context().SavePNG(opts.out); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	logging.FromContext(cmd.Context()).Debug("frame rendered", "at", opts.at, "seed", seed, "out", opts.out)
	fmt.Fprintln(cmd.OutOrStdout(), opts.out)
	return nil
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/junsooki/reelstudio/internal/display"
	"github.com/junsooki/reelstudio/internal/encoder"
	"github.com/junsooki/reelstudio/internal/logging"
	"github.com/junsooki/reelstudio/internal/studio"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the studio window",
		Long: `Open the studio window with a live preview of the scene.

Keys: R starts or stops a recording, T shuffles the hook, D saves the latest
take to the output directory, Esc or Q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStudio(cmd, opts)
		},
	}
}

func runStudio(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.config(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	st := studio.New(cfg, encoder.NewLocalPlatform(cfg.FFmpeg()), logger)
	defer st.Close()
	if err := st.Mount(ctx); err != nil {
		return err
	}

	d := display.NewEbitenDisplay(st, cfg.OutputDir, logger.WithPrefix("display"))
	return d.Run()
}

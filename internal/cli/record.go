package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/junsooki/reelstudio/internal/encoder"
	"github.com/junsooki/reelstudio/internal/logging"
	"github.com/junsooki/reelstudio/internal/studio"
)

type recordOpts struct {
	out      string
	duration time.Duration
}

func newRecordCmd(root *options) *cobra.Command {
	opts := &recordOpts{}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a take without opening a window",
		Long: `Record a take of the scene headlessly and save it to the output directory.

Recording stops after --duration, or on interrupt when no duration is given.`,
		Example: `  reelstudio record --duration 6s
  reelstudio record --out takes/ --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory (default: config output_dir)")
	cmd.Flags().DurationVarP(&opts.duration, "duration", "d", 0, "stop after this long (0 = until interrupted)")

	return cmd
}

func runRecord(cmd *cobra.Command, root *options, opts *recordOpts) error {
	if opts.duration < 0 {
		return fmt.Errorf("duration must not be negative, got %s", opts.duration)
	}
	cfg, err := root.config(cmd)
	if err != nil {
		return err
	}
	if opts.out != "" {
		cfg.OutputDir = opts.out
	}
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	st := studio.New(cfg, encoder.NewLocalPlatform(cfg.FFmpeg()), logger)
	defer st.Close()
	if err := st.Mount(ctx); err != nil {
		return err
	}

	state := st.ToggleRecording()
	if !state.Recording {
		return errors.New(state.Message)
	}

	var deadline <-chan time.Time
	if opts.duration > 0 {
		timer := time.NewTimer(opts.duration)
		defer timer.Stop()
		deadline = timer.C
	}
	select {
	case <-deadline:
	case <-ctx.Done():
		logger.Info("interrupted, finishing take")
	}

	// an encoder that died on its own leaves Recording false but still holds the take
	if st.Recorder().Active() {
		st.ToggleRecording()
	}
	path, err := st.SaveLatest(cfg.OutputDir)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

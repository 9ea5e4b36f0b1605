package cli

import (
	"fmt"
	"os"

	"github.com/fogleman/gg"
	"github.com/spf13/cobra"

	"github.com/junsooki/reelstudio/internal/decoder"
	"github.com/junsooki/reelstudio/internal/logging"
)

func newCoverCmd() *cobra.Command {
	var (
		out   string
		index int
	)

	cmd := &cobra.Command{
		Use:   "cover ARTIFACT",
		Short: "Extract the cover frame of a Motion-JPEG take",
		Long: `Extract a frame of a Motion-JPEG take (the first by default) as a PNG cover image.

WebM takes are not supported; record with codecs = ["video/x-motion-jpeg"]
to get a take this command can read.`,
		Example: `  reelstudio cover ai-cover-the-world.mjpeg --out cover.png`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCover(cmd, args[0], out, index)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "cover.png", "output PNG file")
	cmd.Flags().IntVar(&index, "frame", 0, "zero-based frame to extract")

	return cmd
}

func runCover(cmd *cobra.Command, artifact, out string, index int) error {
	data, err := os.ReadFile(artifact)
	if err != nil {
		return fmt.Errorf("read take: %w", err)
	}
	img, err := decoder.FrameAt(decoder.NewJPEGDecoder(), data, index)
	if err != nil {
		return fmt.Errorf("%s: %w", artifact, err)
	}
	if err := gg.SavePNG(out, img); err != nil {
		return fmt.Errorf("write cover: %w", err)
	}
	b := img.Bounds()
	logging.FromContext(cmd.Context()).Debug("cover extracted", "take", artifact, "frame", index, "of", decoder.CountFrames(data), "size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()))
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"io"

	"video-cutter/domain/video"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe <file>",
	Short: "Print the duration of a video",
	Long: `Print the container duration of a video as HH:MM:SS.mmm.

The duration comes from ffprobe. Builds with the opencv tag fall back to
frame count / fps when ffprobe is unavailable. Prints "unknown" when
neither works; the exit status is 0 either way.`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	prober := newProber(newLocator(GetConfig(), logger), logger)
	return RunProbeWithDependencies(cmd.Context(), prober, args[0], cmd.OutOrStdout())
}

// RunProbeWithDependencies prints the probed duration of path
func RunProbeWithDependencies(ctx context.Context, prober video.DurationProber, path string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	seconds, ok := prober.Duration(ctx, path)
	if !ok {
		fmt.Fprintln(out, "unknown")
		return nil
	}
	fmt.Fprintln(out, video.FormatTimestamp(seconds))
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"io"

	"video-cutter/domain/video"
	"video-cutter/infrastructure/ffmpeg"

	"github.com/spf13/cobra"
)

// Versioner reports the version banner of an encoder binary
type Versioner interface {
	Version(ctx context.Context, toolPath string) (string, error)
}

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Show which ffmpeg, ffprobe and mpv would be used",
	Long: `Resolve the external tools the same way a cut does: the configured
path first, then next to the program, the working directory, the
configured search directories and finally PATH.

Fails when ffmpeg cannot be found, printing where to get it.`,
	Args: cobra.NoArgs,
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	loc := newLocator(GetConfig(), logger)
	trimmer := ffmpeg.NewTrimmer(ffmpeg.WithLogger(logger))
	return RunLocateWithDependencies(cmd.Context(), loc, trimmer, cmd.OutOrStdout())
}

// RunLocateWithDependencies prints the resolved tool paths.
// Only a missing ffmpeg is an error; the other tools are optional.
func RunLocateWithDependencies(ctx context.Context, loc video.ToolLocator, versioner Versioner, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ffmpegPath, ffmpegErr := loc.Locate(video.ToolFFmpeg)
	if ffmpegErr != nil {
		fmt.Fprintf(out, "%-8s not found\n", video.ToolFFmpeg)
	} else {
		fmt.Fprintf(out, "%-8s %s\n", video.ToolFFmpeg, ffmpegPath)
		if v, err := versioner.Version(ctx, ffmpegPath); err == nil && v != "" {
			fmt.Fprintf(out, "%-8s %s\n", "", v)
		}
	}

	for _, name := range []string{video.ToolFFprobe, toolMpv} {
		if p, err := loc.Locate(name); err == nil {
			fmt.Fprintf(out, "%-8s %s\n", name, p)
		} else {
			fmt.Fprintf(out, "%-8s not found\n", name)
		}
	}

	return ffmpegErr
}

var _ Versioner = (*ffmpeg.Trimmer)(nil)

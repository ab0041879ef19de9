package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"video-cutter/infrastructure/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
	Long: `Show the effective configuration or where it is read from.

Examples:
  video-cutter config show
  video-cutter config path
  video-cutter --config ./cutter.yaml config show`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

// --- SHOW command ---

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunConfigShowWithDependencies(GetConfig(), cmd.OutOrStdout())
	},
}

// RunConfigShowWithDependencies prints cfg as a KEY/VALUE table
func RunConfigShowWithDependencies(cfg *config.Config, out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "KEY\tVALUE")
	rows := []struct {
		key   string
		value string
	}{
		{"tools.ffmpeg", orSearch(cfg.Tools.FFmpeg)},
		{"tools.ffprobe", orSearch(cfg.Tools.FFprobe)},
		{"tools.mpv", orSearch(cfg.Tools.Mpv)},
		{"tools.search_dirs", strings.Join(cfg.Tools.SearchDirs, ",")},
		{"session.path", orDefault(cfg.Session.Path)},
		{"logging.level", cfg.Logging.Level},
		{"logging.format", cfg.Logging.Format},
		{"preview.loop_margin_ms", fmt.Sprint(cfg.Preview.LoopMarginMs)},
		{"preview.seek_step_ms", fmt.Sprint(cfg.Preview.SeekStepMs)},
		{"drive.credentials_file", cfg.Drive.CredentialsFile},
		{"drive.token_file", cfg.Drive.TokenFile},
		{"drive.folder_id", cfg.Drive.FolderID},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r.key, r.value)
	}

	return w.Flush()
}

func orSearch(path string) string {
	if path == "" {
		return "(search)"
	}
	return path
}

func orDefault(path string) string {
	if path == "" {
		return "(default)"
	}
	return path
}

// --- PATH command ---

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), cfgFile)
		return nil
	},
}

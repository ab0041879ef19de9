package cmd

import (
	"fmt"
	"os"

	"video-cutter/infrastructure/config"
	"video-cutter/infrastructure/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "video-cutter <input> <start> <end>",
	Short: "Cut a time range out of a video with ffmpeg",
	Long: `video-cutter copies the [start, end) range of a video into a new file
without re-encoding, using ffmpeg's stream copy.

Timestamps are plain seconds (12.5) or MM:SS / HH:MM:SS(.mmm).
Without -o the clip is written next to the input as <name>_<start>s_<end>s<ext>.
Run without arguments in a terminal to be prompted for the values.

Examples:
  video-cutter movie.mp4 10 20
  video-cutter talk.mkv 1:05 0:02:10.250 -o highlight.mkv
  video-cutter preview talk.mkv`,
	Args:              cutArgs,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runCut,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/video-cutter/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initConfig loads the configuration and builds the logger
func initConfig(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		cfgFile = config.DefaultPath()
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}

	l, err := logging.New(level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	logger = l.With(zap.String("command", cmd.Name()))
	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	if cfg == nil {
		return config.Defaults()
	}
	return cfg
}

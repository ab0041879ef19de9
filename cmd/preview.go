package cmd

import (
	"context"
	"time"

	appvideo "video-cutter/application/video"
	"video-cutter/infrastructure/filesystem"
	"video-cutter/infrastructure/locator"
	"video-cutter/infrastructure/mpv"
	"video-cutter/infrastructure/session"
	"video-cutter/infrastructure/watch"
	"video-cutter/ui/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Pick a range interactively with an mpv preview",
	Long: `Open the interactive cutter in the terminal.

Choose a video, edit the start and end times and watch the selected
range loop in mpv. Press c to cut the range into a new file. The last
file and times are restored on the next start.

Keys:
  o          open a video
  tab, s, e  edit the start / end time
  space, p   pause or resume
  left/right seek by the configured step
  r          restart the loop
  c, enter   cut
  q          quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	c := GetConfig()
	loc := newLocator(c, logger)

	sessionPath := c.Session.Path
	if sessionPath == "" {
		p, err := session.DefaultPath()
		if err != nil {
			return err
		}
		sessionPath = p
	}

	previewCfg := tui.Config{
		Runner:     appvideo.NewRunner(newCutService(loc, logger, nil)), // stderr would corrupt the screen
		Durations:  appvideo.NewDurationCache(newProber(loc, logger)),
		Session:    session.NewFileStore(sessionPath, logger),
		Files:      filesystem.NewChecker(),
		Watch:      watchFile(logger),
		LoopMargin: time.Duration(c.Preview.LoopMarginMs) * time.Millisecond,
		SeekStep:   time.Duration(c.Preview.SeekStepMs) * time.Millisecond,
		Logger:     logger,
	}
	if len(args) == 1 {
		previewCfg.File = args[0]
	}

	if mpvPath, err := loc.Locate(toolMpv); err == nil {
		previewCfg.OpenPlayer = openPlayer(mpvPath)
	} else {
		logger.Info("preview playback disabled", zap.Error(err))
		previewCfg.PlayerHint = "Playback unavailable: " + locator.NotFound(toolMpv).Error()
	}

	return tui.Run(cmd.Context(), previewCfg)
}

// openPlayer launches mpv at mpvPath for each preview
func openPlayer(mpvPath string) tui.PlayerFactory {
	return func(ctx context.Context, path string, w mpv.Window) (tui.Player, error) {
		p, err := mpv.Launch(ctx, mpvPath, path, w)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

// watchFile reports writes to the previewed file through fsnotify
func watchFile(l *zap.Logger) tui.WatchFunc {
	return func(ctx context.Context, path string, changes chan<- string) error {
		return watch.NewFile(path, watch.WithLogger(l)).Run(ctx, changes)
	}
}

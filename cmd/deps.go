package cmd

import (
	"io"

	appvideo "video-cutter/application/video"
	"video-cutter/domain/video"
	"video-cutter/infrastructure/config"
	"video-cutter/infrastructure/ffmpeg"
	"video-cutter/infrastructure/filesystem"
	"video-cutter/infrastructure/locator"
	"video-cutter/infrastructure/opencv"

	"go.uber.org/zap"
)

// toolMpv is the preview player executable
const toolMpv = "mpv"

// newLocator builds the tool locator from the tools section
func newLocator(c *config.Config, l *zap.Logger) *locator.Locator {
	return locator.New(
		locator.WithConfiguredPath(video.ToolFFmpeg, c.Tools.FFmpeg),
		locator.WithConfiguredPath(video.ToolFFprobe, c.Tools.FFprobe),
		locator.WithConfiguredPath(toolMpv, c.Tools.Mpv),
		locator.WithSearchDirs(c.Tools.SearchDirs...),
		locator.WithLogger(l),
	)
}

// newProber chains ffprobe with the OpenCV frame counter when it is compiled in
func newProber(loc video.ToolLocator, l *zap.Logger) *ffmpeg.Prober {
	opts := []ffmpeg.ProberOption{ffmpeg.WithProberLogger(l)}
	if opencv.Available() {
		opts = append(opts, ffmpeg.WithFallback(opencv.NewProber(l)))
	}
	return ffmpeg.NewProber(loc, opts...)
}

// newTrimmer runs ffmpeg, forwarding its diagnostics to stderr (nil discards them)
func newTrimmer(l *zap.Logger, stderr io.Writer) *ffmpeg.Trimmer {
	return ffmpeg.NewTrimmer(
		ffmpeg.WithCommandRunner(&ffmpeg.ExecCommandRunner{Stderr: stderr}),
		ffmpeg.WithLogger(l),
	)
}

// newCutService wires the production cut orchestrator
func newCutService(loc video.ToolLocator, l *zap.Logger, stderr io.Writer) *appvideo.CutService {
	return appvideo.NewCutService(
		loc,
		newTrimmer(l, stderr),
		filesystem.NewChecker(),
		appvideo.WithLogger(l),
	)
}

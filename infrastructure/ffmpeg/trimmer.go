package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"

	"video-cutter/domain/video"

	"go.uber.org/zap"
)

// Trimmer implements video.Trimmer using ffmpeg stream copy
type Trimmer struct {
	runner CommandRunner
	logger *zap.Logger
}

// TrimmerOption is a functional option for configuring Trimmer
type TrimmerOption func(*Trimmer)

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) TrimmerOption {
	return func(t *Trimmer) {
		t.runner = runner
	}
}

// WithLogger sets the logger used to trace invocations
func WithLogger(logger *zap.Logger) TrimmerOption {
	return func(t *Trimmer) {
		t.logger = logger
	}
}

// NewTrimmer creates a new FFmpeg-based trimmer
func NewTrimmer(opts ...TrimmerOption) *Trimmer {
	t := &Trimmer{
		runner: &ExecCommandRunner{},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// BuildArgs returns the ffmpeg argument vector for a request.
// Order matters: the seek flags precede -i so ffmpeg seeks the input.
func BuildArgs(req *video.TrimRequest) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y", // Overwrite output file if it exists
		"-ss", req.StartTimestamp(),
		"-to", req.EndTimestamp(),
		"-i", req.InputPath,
		"-c", "copy", // Stream copy, no re-encode
		req.OutputPath,
	}
}

// Trim implements video.Trimmer
func (t *Trimmer) Trim(ctx context.Context, toolPath string, req *video.TrimRequest) error {
	args := BuildArgs(req)
	t.logger.Debug("running ffmpeg", zap.String("path", toolPath), zap.Strings("args", args))

	if err := t.runner.Run(ctx, toolPath, args...); err != nil {
		return &video.ExecutionError{
			Message: "ffmpeg could not produce the clip.",
			Remedy:  "Check that the video and timestamps are valid.",
			Err:     fmt.Errorf("ffmpeg trim failed: %w", err),
		}
	}

	return nil
}

// Version returns the first line of `ffmpeg -version` for the tool at toolPath
func (t *Trimmer) Version(ctx context.Context, toolPath string) (string, error) {
	out, err := t.runner.Output(ctx, toolPath, "-version")
	if err != nil {
		return "", fmt.Errorf("ffmpeg not executable: %w", err)
	}

	line, _, _ := bufio.NewReader(bytes.NewReader(out)).ReadLine()
	return string(line), nil
}

// Ensure Trimmer implements video.Trimmer
var _ video.Trimmer = (*Trimmer)(nil)

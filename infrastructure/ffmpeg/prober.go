package ffmpeg

import (
	"context"
	"math"
	"strconv"
	"strings"

	"video-cutter/domain/video"

	"go.uber.org/zap"
)

// probeArgs asks ffprobe for the bare container duration in seconds
var probeArgs = []string{
	"-v", "error",
	"-show_entries", "format=duration",
	"-of", "default=noprint_wrappers=1:nokey=1",
}

// Prober implements video.DurationProber using ffprobe
type Prober struct {
	locator  video.ToolLocator
	runner   CommandRunner
	fallback video.DurationProber
	logger   *zap.Logger
}

// ProberOption is a functional option for configuring Prober
type ProberOption func(*Prober)

// WithProberCommandRunner sets a custom command runner (for testing)
func WithProberCommandRunner(runner CommandRunner) ProberOption {
	return func(p *Prober) {
		p.runner = runner
	}
}

// WithFallback sets a prober consulted when ffprobe cannot tell the duration
func WithFallback(fallback video.DurationProber) ProberOption {
	return func(p *Prober) {
		p.fallback = fallback
	}
}

// WithProberLogger sets the logger used to report probe failures
func WithProberLogger(logger *zap.Logger) ProberOption {
	return func(p *Prober) {
		p.logger = logger
	}
}

// NewProber creates a new ffprobe-based duration prober
func NewProber(locator video.ToolLocator, opts ...ProberOption) *Prober {
	p := &Prober{
		locator: locator,
		runner:  &ExecCommandRunner{},
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Duration implements video.DurationProber. Every failure is reported as unknown.
func (p *Prober) Duration(ctx context.Context, path string) (float64, bool) {
	if seconds, ok := p.probe(ctx, path); ok {
		return seconds, true
	}
	if p.fallback != nil {
		return p.fallback.Duration(ctx, path)
	}
	return 0, false
}

func (p *Prober) probe(ctx context.Context, path string) (float64, bool) {
	toolPath, err := p.locator.Locate(video.ToolFFprobe)
	if err != nil {
		p.logger.Debug("duration unknown: ffprobe unavailable", zap.Error(err))
		return 0, false
	}

	args := append(append([]string{}, probeArgs...), path)
	out, err := p.runner.Output(ctx, toolPath, args...)
	if err != nil {
		p.logger.Debug("duration unknown: ffprobe failed", zap.String("file", path), zap.Error(err))
		return 0, false
	}

	seconds, ok := ParseDuration(string(out))
	if !ok {
		p.logger.Debug("duration unknown: unparseable ffprobe output", zap.String("file", path), zap.String("output", string(out)))
	}
	return seconds, ok
}

// ParseDuration parses ffprobe's plain numeric duration output
func ParseDuration(out string) (float64, bool) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, false
	}
	return seconds, true
}

// Ensure Prober implements video.DurationProber
var _ video.DurationProber = (*Prober)(nil)

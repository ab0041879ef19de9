//go:build opencv

package opencv

import (
	"context"

	"video-cutter/domain/video"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// Prober estimates a video's duration from its frame count and frame rate.
// It backs up ffprobe when that tool is missing.
type Prober struct {
	logger *zap.Logger
}

// NewProber creates a GoCV-based duration prober
func NewProber(logger *zap.Logger) *Prober {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{logger: logger}
}

// Available reports whether this build carries the OpenCV prober
func Available() bool {
	return true
}

// Duration implements video.DurationProber
func (p *Prober) Duration(ctx context.Context, path string) (float64, bool) {
	if ctx.Err() != nil {
		return 0, false
	}

	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		p.logger.Debug("duration unknown: opencv could not open file", zap.String("file", path), zap.Error(err))
		return 0, false
	}
	defer vc.Close()

	frames := vc.Get(gocv.VideoCaptureFrameCount)
	fps := vc.Get(gocv.VideoCaptureFPS)

	seconds, ok := FromFrames(frames, fps)
	if !ok {
		p.logger.Debug("duration unknown: opencv reported no frame rate", zap.String("file", path))
	}
	return seconds, ok
}

// Ensure Prober implements video.DurationProber
var _ video.DurationProber = (*Prober)(nil)

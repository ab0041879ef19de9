//go:build !opencv

package opencv

import (
	"context"

	"video-cutter/domain/video"

	"go.uber.org/zap"
)

// Prober is a stub when GoCV/OpenCV is not available
type Prober struct{}

// NewProber creates a stub prober (requires building with -tags=opencv)
func NewProber(logger *zap.Logger) *Prober {
	return &Prober{}
}

// Available reports whether this build carries the OpenCV prober
func Available() bool {
	return false
}

// Duration always reports an unknown duration in stub mode
func (p *Prober) Duration(ctx context.Context, path string) (float64, bool) {
	return 0, false
}

// Ensure Prober implements video.DurationProber
var _ video.DurationProber = (*Prober)(nil)

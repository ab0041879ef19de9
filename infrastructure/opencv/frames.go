package opencv

import "math"

// FromFrames converts a frame count and frame rate to seconds
func FromFrames(frames, fps float64) (float64, bool) {
	if fps <= 0 || frames <= 0 || math.IsNaN(frames) || math.IsNaN(fps) || math.IsInf(frames, 0) || math.IsInf(fps, 0) {
		return 0, false
	}
	return frames / fps, true
}

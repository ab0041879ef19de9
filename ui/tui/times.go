package tui

import (
	"strings"

	"video-cutter/domain/video"
)

// Field identifies the time input the user edited last
type Field int

const (
	FieldStart Field = iota
	FieldEnd
)

// defaultEndText is used when the duration of the selected file is unknown
const defaultEndText = "00:00:10"

// Range is a preview window in whole milliseconds
type Range struct {
	StartMs int64
	EndMs   int64
}

// StartText renders the start bound as HH:MM:SS.mmm
func (r Range) StartText() string {
	return video.FormatTimestamp(float64(r.StartMs) / 1000)
}

// EndText renders the end bound as HH:MM:SS.mmm
func (r Range) EndText() string {
	return video.FormatTimestamp(float64(r.EndMs) / 1000)
}

// Normalize turns the raw field text into a usable range.
// Unparsable start becomes 0 and unparsable end becomes start+1s. With a known
// duration both bounds are clamped to it. When the bounds cross, the bound the
// user did not edit moves by one millisecond.
func Normalize(startText, endText string, duration float64, known bool, edited Field) Range {
	startMs := int64(0)
	if s := strings.TrimSpace(startText); s != "" {
		if v, err := video.ParseTimestamp(s); err == nil {
			startMs = video.Millis(v)
		}
	}

	endMs := startMs + 1000
	if s := strings.TrimSpace(endText); s != "" {
		if v, err := video.ParseTimestamp(s); err == nil {
			endMs = video.Millis(v)
		}
	}

	if startMs < 0 {
		startMs = 0
	}

	if known {
		durationMs := video.Millis(duration)
		endMs = min(endMs, durationMs)
		if startMs >= durationMs {
			startMs = max(0, durationMs-1000)
			endMs = durationMs
		}
	}

	if startMs >= endMs {
		if edited == FieldStart {
			endMs = startMs + 1
		} else {
			startMs = max(0, endMs-1)
		}
	}

	return Range{StartMs: startMs, EndMs: endMs}
}

// DefaultTimes returns the field text for a freshly selected file
func DefaultTimes(duration float64, known bool) (start, end string) {
	if known {
		return "00:00:00", video.FormatTimestamp(duration)
	}
	return "00:00:00", defaultEndText
}

// LoopEnd is the last position played before jumping back to the start
func LoopEnd(r Range, marginMs int64) int64 {
	return max(r.StartMs, r.EndMs-marginMs)
}

// ClampSeek moves positionMs by deltaMs while staying inside the loop window
func ClampSeek(positionMs, deltaMs int64, r Range, marginMs int64) int64 {
	target := positionMs + deltaMs
	return min(LoopEnd(r, marginMs), max(r.StartMs, target))
}

// SuggestedOutput is the save-as default for a cut of path
func SuggestedOutput(path string) string {
	return video.DeriveOutputPath(path, "recorte")
}

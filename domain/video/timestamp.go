package video

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// timestampSeparator splits segmented timestamps (MM:SS, HH:MM:SS)
const timestampSeparator = ":"

// MaxSeconds is the largest timestamp accepted or rendered.
// Whole milliseconds up to this bound are exact in a float64.
const MaxSeconds = 1e12

// ParseTimestamp parses seconds ("12.5") or a segmented timestamp
// ("SS", "MM:SS", "HH:MM:SS.mmm") into float seconds
func ParseTimestamp(s string) (float64, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return 0, &FormatError{Value: s, Reason: "empty timestamp"}
	}

	if !strings.Contains(value, timestampSeparator) {
		seconds, err := parseField(value)
		if err != nil {
			return 0, &FormatError{Value: value, Reason: "invalid seconds value"}
		}
		return checkRange(value, seconds)
	}

	parts := strings.Split(value, timestampSeparator)
	if len(parts) > 3 {
		return 0, &FormatError{Value: value, Reason: "use SS, MM:SS or HH:MM:SS"}
	}

	fields := make([]float64, len(parts))
	for i, part := range parts {
		f, err := parseField(strings.TrimSpace(part))
		if err != nil {
			return 0, &FormatError{Value: value, Reason: fmt.Sprintf("invalid field %q", part)}
		}
		if f < 0 {
			return 0, &FormatError{Value: value, Reason: fmt.Sprintf("negative field %q", part)}
		}
		fields[i] = f
	}

	var hours, minutes, seconds float64
	switch len(fields) {
	case 3:
		hours, minutes, seconds = fields[0], fields[1], fields[2]
	case 2:
		minutes, seconds = fields[0], fields[1]
	}

	return checkRange(value, hours*3600+minutes*60+seconds)
}

func checkRange(value string, seconds float64) (float64, error) {
	if math.Abs(seconds) > MaxSeconds {
		return 0, &FormatError{Value: value, Reason: "out of range"}
	}
	return seconds, nil
}

// parseField parses a single numeric field, rejecting NaN and infinities
func parseField(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return f, nil
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm, rounded to the millisecond.
// This is the form passed to ffmpeg and shown to the user.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	seconds = min(seconds, MaxSeconds)

	millis := int64(math.Round(seconds * 1000))
	hours := millis / 3_600_000
	millis %= 3_600_000
	minutes := millis / 60_000
	millis %= 60_000

	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, float64(millis)/1000)
}

// Millis converts seconds to the nearest whole millisecond.
// Rounding keeps Millis(parse(FormatTimestamp(ms))) stable across repeated edits.
func Millis(seconds float64) int64 {
	if math.IsNaN(seconds) {
		return 0
	}
	seconds = max(-MaxSeconds, min(seconds, MaxSeconds))
	return int64(math.Round(seconds * 1000))
}

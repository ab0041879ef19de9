package video

import (
	"fmt"
	"path/filepath"
	"strings"
)

// TrimRequest represents a validated request to cut [Start, End) out of InputPath
type TrimRequest struct {
	InputPath  string
	Start      float64
	End        float64
	OutputPath string
}

// NewTrimRequest parses the start and end text and validates the range.
// An empty output selects the derived "<stem>_<start>s_<end>s<ext>" sibling path.
func NewTrimRequest(inputPath, startText, endText, outputPath string) (*TrimRequest, error) {
	start, err := ParseTimestamp(startText)
	if err != nil {
		return nil, &ValidationError{Field: "start", Message: "invalid start time", Err: err}
	}

	end, err := ParseTimestamp(endText)
	if err != nil {
		return nil, &ValidationError{Field: "end", Message: "invalid end time", Err: err}
	}

	req := &TrimRequest{
		InputPath:  inputPath,
		Start:      start,
		End:        end,
		OutputPath: outputPath,
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.OutputPath == "" {
		req.OutputPath = DeriveOutputPath(inputPath, RangeSuffix(start, end))
	}

	return req, nil
}

// Validate checks the time range invariants
func (r *TrimRequest) Validate() error {
	if r.InputPath == "" {
		return &ValidationError{Field: "input", Message: "input path is required"}
	}

	if r.Start < 0 || r.End < 0 {
		return &ValidationError{Message: "times must be greater than or equal to 0"}
	}

	if r.End <= r.Start {
		return &ValidationError{
			Field:   "end",
			Message: fmt.Sprintf("end time %s must be greater than start time %s", FormatTimestamp(r.End), FormatTimestamp(r.Start)),
		}
	}

	return nil
}

// StartTimestamp returns the start in HH:MM:SS.mmm form
func (r *TrimRequest) StartTimestamp() string {
	return FormatTimestamp(r.Start)
}

// EndTimestamp returns the end in HH:MM:SS.mmm form
func (r *TrimRequest) EndTimestamp() string {
	return FormatTimestamp(r.End)
}

// RangeSuffix builds the default output suffix from the truncated start and end seconds
func RangeSuffix(start, end float64) string {
	return fmt.Sprintf("%ds_%ds", int64(start), int64(end))
}

// DeriveOutputPath returns "<dir>/<stem>_<suffix><ext>" for the given input path.
// Collisions are not checked; ffmpeg runs with -y.
func DeriveOutputPath(inputPath, suffix string) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		// dotfiles such as ".clip" have no extension
		stem, ext = base, ""
	}

	return filepath.Join(dir, stem+"_"+suffix+ext)
}

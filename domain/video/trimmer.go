package video

import "context"

// Trimmer defines the interface for video trimming operations
// This is a port that can be implemented by different infrastructure adapters
type Trimmer interface {
	// Trim cuts req.InputPath into req.OutputPath using the encoder at toolPath
	Trim(ctx context.Context, toolPath string, req *TrimRequest) error
}

// FileChecker defines the interface for checking input files
type FileChecker interface {
	// IsRegularFile returns true if path exists and is a regular file
	IsRegularFile(path string) bool
}

// ToolLocator resolves an external executable by its base name ("ffmpeg", "ffprobe")
type ToolLocator interface {
	Locate(name string) (string, error)
}

// DurationProber reports the container duration of a video in seconds.
// ok is false when the duration is unknown; probers never fail loudly.
type DurationProber interface {
	Duration(ctx context.Context, path string) (seconds float64, ok bool)
}

// Tool names resolved through a ToolLocator
const (
	ToolFFmpeg  = "ffmpeg"
	ToolFFprobe = "ffprobe"
)

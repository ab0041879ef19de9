package filesystem

import (
	"os"

	"video-cutter/domain/video"
)

// Checker implements video.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// IsRegularFile returns true if path exists and is a regular file (symlinks are followed)
func (c *Checker) IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Ensure Checker implements video.FileChecker
var _ video.FileChecker = (*Checker)(nil)

package locator

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"video-cutter/domain/video"

	"go.uber.org/zap"
)

// BundleDirEnv names the directory a self-extracting bundle unpacks its tools into
const BundleDirEnv = "VIDEO_CUTTER_BUNDLE_DIR"

// ErrNotFound is wrapped when no candidate location holds the tool
var ErrNotFound = errors.New("executable not found")

const (
	FFmpegDownloadURL = "https://ffmpeg.org/download.html"
	MpvInstallURL     = "https://mpv.io/installation/"
)

// installURLs maps tool names to their download pages
var installURLs = map[string]string{
	video.ToolFFmpeg:  FFmpegDownloadURL,
	video.ToolFFprobe: FFmpegDownloadURL,
	"mpv":             MpvInstallURL,
}

// Locator finds external executables, preferring copies bundled with the
// application over the ones on PATH
type Locator struct {
	configured map[string]string
	searchDirs []string
	goos       string
	executable func() (string, error)
	getwd      func() (string, error)
	getenv     func(string) string
	lookPath   func(string) (string, error)
	logger     *zap.Logger
}

// Option is a functional option for configuring Locator
type Option func(*Locator)

// WithConfiguredPath pins the location of a tool; it is tried first
func WithConfiguredPath(name, path string) Option {
	return func(l *Locator) {
		if path != "" {
			l.configured[name] = path
		}
	}
}

// WithSearchDirs adds directories tried after the bundle and vendor locations
func WithSearchDirs(dirs ...string) Option {
	return func(l *Locator) {
		l.searchDirs = append(l.searchDirs, dirs...)
	}
}

// WithGOOS overrides the target operating system (for testing)
func WithGOOS(goos string) Option {
	return func(l *Locator) {
		l.goos = goos
	}
}

// WithExecutable overrides how the running executable is resolved (for testing)
func WithExecutable(fn func() (string, error)) Option {
	return func(l *Locator) {
		l.executable = fn
	}
}

// WithWorkingDir overrides how the working directory is resolved (for testing)
func WithWorkingDir(fn func() (string, error)) Option {
	return func(l *Locator) {
		l.getwd = fn
	}
}

// WithEnv overrides environment lookups (for testing)
func WithEnv(fn func(string) string) Option {
	return func(l *Locator) {
		l.getenv = fn
	}
}

// WithLookPath overrides the PATH lookup (for testing)
func WithLookPath(fn func(string) (string, error)) Option {
	return func(l *Locator) {
		l.lookPath = fn
	}
}

// WithLogger sets the logger used to report candidate checks
func WithLogger(logger *zap.Logger) Option {
	return func(l *Locator) {
		l.logger = logger
	}
}

// New creates a Locator for the current platform
func New(opts ...Option) *Locator {
	l := &Locator{
		configured: make(map[string]string),
		goos:       runtime.GOOS,
		executable: os.Executable,
		getwd:      os.Getwd,
		getenv:     os.Getenv,
		lookPath:   exec.LookPath,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// ExecutableName returns the platform file name for a tool
func (l *Locator) ExecutableName(name string) string {
	if l.goos == "windows" {
		return name + ".exe"
	}
	return name
}

// Candidates returns the filesystem locations checked before PATH, in order
func (l *Locator) Candidates(name string) []string {
	exe := l.ExecutableName(name)
	var candidates []string

	addDir := func(dir string) {
		if dir == "" {
			return
		}
		candidates = append(candidates,
			filepath.Join(dir, exe),
			filepath.Join(dir, "ffmpeg", "bin", exe),
		)
	}

	if p, ok := l.configured[name]; ok {
		candidates = append(candidates, p)
	}

	if self, err := l.executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(self); err == nil {
			self = resolved
		}
		addDir(filepath.Dir(self))
	}

	addDir(l.getenv(BundleDirEnv))

	if wd, err := l.getwd(); err == nil {
		addDir(wd)
		candidates = append(candidates,
			filepath.Join(wd, "vendors", "ffmpeg", "bin", exe),
			filepath.Join(filepath.Dir(wd), "vendors", "ffmpeg", "bin", exe),
		)
	}

	for _, dir := range l.searchDirs {
		addDir(dir)
	}

	return candidates
}

// Locate returns the absolute path of the first existing regular file named
// after the tool, falling back to PATH
func (l *Locator) Locate(name string) (string, error) {
	for _, candidate := range l.Candidates(name) {
		if isRegularFile(candidate) {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				abs = candidate
			}
			l.logger.Debug("tool located", zap.String("tool", name), zap.String("path", abs))
			return abs, nil
		}
		l.logger.Debug("tool candidate missing", zap.String("tool", name), zap.String("path", candidate))
	}

	if p, err := l.lookPath(l.ExecutableName(name)); err == nil {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		l.logger.Debug("tool located on PATH", zap.String("tool", name), zap.String("path", p))
		return p, nil
	}

	return "", NotFound(name)
}

// NotFound builds the user-facing error for a missing tool
func NotFound(name string) error {
	url, ok := installURLs[name]
	if !ok {
		url = FFmpegDownloadURL
	}
	return &video.ExecutionError{
		Message: fmt.Sprintf("%s was not found.", name),
		Remedy:  fmt.Sprintf("Place %s next to the executable or install it and add it to PATH. Downloads: %s", name, url),
		Err:     fmt.Errorf("%w: %s", ErrNotFound, name),
	}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Ensure Locator implements video.ToolLocator
var _ video.ToolLocator = (*Locator)(nil)

package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultQuiet is how long a file must stay untouched before a change is reported
const DefaultQuiet = 250 * time.Millisecond

// File watches a single file for writes, replacements and removal.
// The parent directory is watched so editors that rename over the file are seen.
type File struct {
	path   string
	quiet  time.Duration
	logger *zap.Logger
}

// Option configures a File watcher
type Option func(*File)

// WithQuiet sets the debounce window
func WithQuiet(d time.Duration) Option {
	return func(f *File) {
		f.quiet = d
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(f *File) {
		f.logger = l
	}
}

// NewFile creates a watcher for path
func NewFile(path string, opts ...Option) *File {
	f := &File{
		path:   filepath.Clean(path),
		quiet:  DefaultQuiet,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the watched file
func (f *File) Path() string {
	return f.path
}

// Run sends the file path on changes after each burst of events settles.
// It blocks until ctx is cancelled.
func (f *File) Run(ctx context.Context, changes chan<- string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return err
	}

	timer := time.NewTimer(f.quiet)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				f.logger.Debug("file event", zap.String("path", f.path), zap.String("op", event.Op.String()))
				timer.Reset(f.quiet)
			}

		case <-timer.C:
			select {
			case changes <- f.path:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Debug("watch error", zap.Error(err))
		}
	}
}

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"video-cutter/domain/session"

	"go.uber.org/zap"
)

// FileName is the session file kept in the user's home directory
const FileName = ".video_cutter_session.json"

// FileStore persists session.State as a single JSON object
type FileStore struct {
	path   string
	logger *zap.Logger
}

// DefaultPath returns ~/.video_cutter_session.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// NewFileStore returns a store backed by path
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the session file. A missing or corrupt file yields a zero State.
func (s *FileStore) Load() session.State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("ignoring unreadable session file", zap.String("path", s.path), zap.Error(err))
		}
		return session.State{}
	}

	var st session.State
	if err := json.Unmarshal(data, &st); err != nil {
		s.logger.Debug("ignoring corrupt session file", zap.String("path", s.path), zap.Error(err))
		return session.State{}
	}
	return st
}

// Save marshals st to JSON and writes it atomically via a temp file + os.Rename
func (s *FileStore) Save(st session.State) (err error) {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(dir, "video-cutter-session-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	return nil
}

// Ensure FileStore implements session.Store
var _ session.Store = (*FileStore)(nil)

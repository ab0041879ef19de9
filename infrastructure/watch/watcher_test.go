package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFile_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 1)
	w := NewFile(path, WithQuiet(20*time.Millisecond))
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, changes) }()

	// give the watcher time to register before writing
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case got := <-changes:
			if got != filepath.Clean(path) {
				t.Errorf("change path = %q, want %q", got, path)
			}
			cancel()
			if err := <-done; err != nil {
				t.Errorf("Run() error = %v", err)
			}
			return
		case <-tick.C:
			if err := os.WriteFile(path, []byte("ab"), 0644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
}

func TestFile_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()

	changes := make(chan string, 1)
	w := NewFile(path, WithQuiet(10*time.Millisecond))
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, changes) }()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.mp4"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	<-done
	select {
	case got := <-changes:
		t.Errorf("unexpected change for %q", got)
	default:
	}
}

func TestFile_MissingDirectory(t *testing.T) {
	w := NewFile(filepath.Join(t.TempDir(), "nope", "clip.mp4"))
	if err := w.Run(context.Background(), make(chan string)); err == nil {
		t.Error("Run() expected error for missing directory")
	}
}

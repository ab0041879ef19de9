package session_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"

	domain "video-cutter/domain/session"
	"video-cutter/infrastructure/session"
)

func TestFileStore_LoadMissingFile(t *testing.T) {
	store := session.NewFileStore(filepath.Join(t.TempDir(), "absent.json"), nil)

	if got := store.Load(); !got.IsZero() {
		t.Errorf("Load() = %+v, want zero state", got)
	}
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := session.NewFileStore(path, nil).Load(); !got.IsZero() {
		t.Errorf("Load() = %+v, want zero state", got)
	}
}

func TestFileStore_WireFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := session.NewFileStore(path, nil)

	st := domain.State{File: "/v/a.mp4", Start: "00:00:01.000", End: "00:00:09.000", LastDir: "/v"}
	if err := store.Save(st); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("session file is not a flat JSON object: %v", err)
	}
	want := map[string]string{"file": "/v/a.mp4", "start": "00:00:01.000", "end": "00:00:09.000", "last_dir": "/v"}
	for k, v := range want {
		if raw[k] != v {
			t.Errorf("field %q = %q, want %q", k, raw[k], v)
		}
	}
	if len(raw) != len(want) {
		t.Errorf("session file has %d fields, want %d", len(raw), len(want))
	}
}

func TestFileStore_SaveOverwritesWholesale(t *testing.T) {
	dir := t.TempDir()
	store := session.NewFileStore(filepath.Join(dir, "session.json"), nil)

	if err := store.Save(domain.State{File: "/a.mp4", Start: "1", End: "2", LastDir: "/"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(domain.State{LastDir: "/videos"}); err != nil {
		t.Fatal(err)
	}

	got := store.Load()
	if got != (domain.State{LastDir: "/videos"}) {
		t.Errorf("Load() = %+v, want only last_dir", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (no stray temp files)", len(entries))
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := session.NewFileStore(path, nil)

	rapid.Check(t, func(t *rapid.T) {
		st := domain.State{
			File:    rapid.String().Draw(t, "file"),
			Start:   rapid.String().Draw(t, "start"),
			End:     rapid.String().Draw(t, "end"),
			LastDir: rapid.String().Draw(t, "last_dir"),
		}

		if err := store.Save(st); err != nil {
			t.Fatalf("Save() unexpected error: %v", err)
		}
		if got := store.Load(); got != st {
			t.Fatalf("Load() = %+v, want %+v", got, st)
		}
	})
}

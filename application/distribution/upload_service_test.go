package distribution

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"video-cutter/domain/distribution"
)

// mockDriveClient implements distribution.DriveClient for testing
type mockDriveClient struct {
	files       map[string]*distribution.FileInfo // keyed by fileName
	findErr     error
	uploadErr   error
	deleted     []string
	uploadedReq []distribution.UploadRequest
}

func newMockDriveClient() *mockDriveClient {
	return &mockDriveClient{files: make(map[string]*distribution.FileInfo)}
}

func (m *mockDriveClient) FindFileByName(ctx context.Context, folderID, name string) (*distribution.FileInfo, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.files[name], nil
}

func (m *mockDriveClient) UploadAndShare(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploadedReq = append(m.uploadedReq, req)
	return &distribution.UploadResult{
		FileID:       "id-" + req.FileName,
		FileName:     req.FileName,
		ShareableURL: "https://drive.google.com/file/d/id-" + req.FileName + "/view",
	}, nil
}

func (m *mockDriveClient) DeletePermanently(ctx context.Context, fileID string) error {
	m.deleted = append(m.deleted, fileID)
	return nil
}

func writeClip(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, bytes.Repeat([]byte{0}, 2048), 0644); err != nil {
		t.Fatalf("failed to write clip: %v", err)
	}
	return path
}

func TestUploadService_UploadClip(t *testing.T) {
	clip := writeClip(t, "talk_10s_20s.mkv")
	client := newMockDriveClient()
	var out bytes.Buffer

	svc := NewUploadService(client, "folder-1", &out)
	result, err := svc.UploadClip(context.Background(), clip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ShareableURL != "https://drive.google.com/file/d/id-talk_10s_20s.mkv/view" {
		t.Errorf("ShareableURL = %q", result.ShareableURL)
	}
	if len(client.uploadedReq) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(client.uploadedReq))
	}
	req := client.uploadedReq[0]
	if req.MimeType != distribution.MimeTypeMKV {
		t.Errorf("MimeType = %q, want %q", req.MimeType, distribution.MimeTypeMKV)
	}
	if req.FolderID != "folder-1" || req.FileName != "talk_10s_20s.mkv" || req.LocalPath != clip {
		t.Errorf("unexpected request: %+v", req)
	}
	if !strings.Contains(out.String(), "Uploading talk_10s_20s.mkv (2.0 kB)") {
		t.Errorf("output = %q", out.String())
	}
	if len(client.deleted) != 0 {
		t.Errorf("nothing should be deleted, got %v", client.deleted)
	}
}

func TestUploadService_ReplacesExisting(t *testing.T) {
	clip := writeClip(t, "clip.mp4")
	client := newMockDriveClient()
	client.files["clip.mp4"] = &distribution.FileInfo{ID: "old-id", Name: "clip.mp4", Size: 5_000_000}
	var out bytes.Buffer

	_, err := NewUploadService(client, "", &out).UploadClip(context.Background(), clip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(client.deleted) != 1 || client.deleted[0] != "old-id" {
		t.Errorf("deleted = %v, want [old-id]", client.deleted)
	}
	if !strings.Contains(out.String(), "Replacing existing clip.mp4 (5.0 MB)") {
		t.Errorf("output = %q", out.String())
	}
}

func TestUploadService_Errors(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T, m *mockDriveClient) string
		errMsg string
	}{
		{
			name: "missing file",
			setup: func(t *testing.T, m *mockDriveClient) string {
				return filepath.Join(t.TempDir(), "missing.mp4")
			},
			errMsg: "file does not exist",
		},
		{
			name: "directory",
			setup: func(t *testing.T, m *mockDriveClient) string {
				return t.TempDir()
			},
			errMsg: "not a regular file",
		},
		{
			name: "lookup fails",
			setup: func(t *testing.T, m *mockDriveClient) string {
				m.findErr = errors.New("403")
				return writeClip(t, "a.mp4")
			},
			errMsg: "failed to check for existing file",
		},
		{
			name: "upload fails",
			setup: func(t *testing.T, m *mockDriveClient) string {
				m.uploadErr = errors.New("quota")
				return writeClip(t, "a.mp4")
			},
			errMsg: "failed to upload and share a.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMockDriveClient()
			path := tt.setup(t, client)

			_, err := NewUploadService(client, "f", nil).UploadClip(context.Background(), path)
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %v, want containing %q", err, tt.errMsg)
			}
		})
	}
}

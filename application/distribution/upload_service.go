package distribution

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"video-cutter/domain/distribution"

	"github.com/dustin/go-humanize"
)

// UploadService handles clip uploads to Google Drive
type UploadService struct {
	driveClient distribution.DriveClient
	folderID    string
	output      io.Writer
}

// NewUploadService creates a new upload service
func NewUploadService(client distribution.DriveClient, folderID string, output io.Writer) *UploadService {
	if output == nil {
		output = io.Discard
	}
	return &UploadService{
		driveClient: client,
		folderID:    folderID,
		output:      output,
	}
}

// UploadClip uploads a clip and makes it readable by anyone with the link.
// A file of the same name in the folder is replaced.
func (s *UploadService) UploadClip(ctx context.Context, clipPath string) (*distribution.UploadResult, error) {
	info, err := os.Stat(clipPath)
	if err != nil {
		return nil, fmt.Errorf("file does not exist: %s", clipPath)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", clipPath)
	}

	fileName := filepath.Base(clipPath)

	// Check for existing file with same name and delete if found
	existing, err := s.driveClient.FindFileByName(ctx, s.folderID, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing file: %w", err)
	}
	if existing != nil {
		fmt.Fprintf(s.output, "Replacing existing %s (%s)\n", existing.Name, humanize.Bytes(uint64(existing.Size)))
		if err := s.driveClient.DeletePermanently(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete existing file %s: %w", existing.Name, err)
		}
	}

	req := distribution.UploadRequest{
		LocalPath: clipPath,
		FileName:  fileName,
		FolderID:  s.folderID,
		MimeType:  distribution.MimeTypeFor(clipPath),
	}

	fmt.Fprintf(s.output, "Uploading %s (%s)...\n", fileName, humanize.Bytes(uint64(info.Size())))

	result, err := s.driveClient.UploadAndShare(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload and share %s: %w", fileName, err)
	}

	return result, nil
}

package distribution

import (
	"path/filepath"
	"strings"
)

// UploadRequest contains the parameters needed to upload a clip to Google Drive
type UploadRequest struct {
	LocalPath string // Full path to the local file
	FileName  string // Target filename in Google Drive
	FolderID  string // Target folder ID in Google Drive
	MimeType  string // MIME type of the file
}

// UploadResult contains the result of a successful upload
type UploadResult struct {
	FileID       string // Google Drive file ID
	FileName     string // Name of the uploaded file
	ShareableURL string // URL for sharing the file
	Size         int64  // Size of the uploaded file in bytes
}

// MIME types for the containers the cutter produces
const (
	MimeTypeMP4     = "video/mp4"
	MimeTypeMOV     = "video/quicktime"
	MimeTypeMKV     = "video/x-matroska"
	MimeTypeAVI     = "video/x-msvideo"
	MimeTypeWebM    = "video/webm"
	MimeTypeDefault = "application/octet-stream"
)

var mimeTypesByExt = map[string]string{
	".mp4":  MimeTypeMP4,
	".m4v":  MimeTypeMP4,
	".mov":  MimeTypeMOV,
	".mkv":  MimeTypeMKV,
	".avi":  MimeTypeAVI,
	".webm": MimeTypeWebM,
}

// MimeTypeFor returns the MIME type for a clip based on its extension
func MimeTypeFor(path string) string {
	if mt, ok := mimeTypesByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return MimeTypeDefault
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	appdist "video-cutter/application/distribution"
	"video-cutter/domain/distribution"
	"video-cutter/infrastructure/config"
	"video-cutter/infrastructure/drive"

	"github.com/spf13/cobra"
)

// ClipUploader uploads a finished clip and returns its shareable link
type ClipUploader interface {
	UploadClip(ctx context.Context, clipPath string) (*distribution.UploadResult, error)
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a clip to Google Drive with public sharing",
	Long: `Upload a clip to the configured Google Drive folder and make it
readable by anyone with the link.

A file with the same name in the folder is replaced. The first run opens
a browser for authorization and stores the token in drive.token_file.

Example:
  video-cutter upload movie_10s_20s.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	uploader, err := newUploadService(cmd.Context(), GetConfig(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return RunUploadWithDependencies(cmd.Context(), uploader, args[0], cmd.OutOrStdout())
}

// newUploadService creates the Drive-backed upload service from the drive section
func newUploadService(ctx context.Context, c *config.Config, out io.Writer) (*appdist.UploadService, error) {
	if c.Drive.CredentialsFile == "" {
		return nil, fmt.Errorf("drive.credentials_file is not configured; run 'video-cutter setup' first")
	}

	tokenFile := c.Drive.TokenFile
	if tokenFile == "" {
		tokenFile = filepath.Join(filepath.Dir(c.Drive.CredentialsFile), "token.json")
	}

	client, err := drive.NewClientWithOAuth(ctx, c.Drive.CredentialsFile, tokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Drive client: %w", err)
	}
	return appdist.NewUploadService(client, c.Drive.FolderID, out), nil
}

// RunUploadWithDependencies runs the upload command with injected dependencies (for testing)
func RunUploadWithDependencies(ctx context.Context, uploader ClipUploader, clipPath string, output io.Writer) error {
	result, err := uploader.UploadClip(ctx, clipPath)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Fprintf(output, "Upload complete!\n")
	fmt.Fprintf(output, "  File ID: %s\n", result.FileID)
	fmt.Fprintf(output, "  Shareable URL: %s\n", result.ShareableURL)
	return nil
}

var _ ClipUploader = (*appdist.UploadService)(nil)

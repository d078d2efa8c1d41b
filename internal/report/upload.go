package report

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/vk/hpmbench/internal/ctxlog"
)

// Upload sends the file at path to a pre-signed URL with an HTTP PUT, as
// object stores such as S3 expect. A nil client uses http.DefaultClient.
func Upload(ctx context.Context, client *http.Client, path, url string) error {
	logger := ctxlog.FromContext(ctx).With("action", "upload")
	if client == nil {
		client = http.DefaultClient
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open report '%s': %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to get file stats for '%s': %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, file)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	logger.Info("Uploading report", "source", path, "size", stat.Size(), "contentType", contentType)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload failed with status: %s", resp.Status)
	}

	logger.Info("Successfully uploaded report", "status", resp.Status)
	return nil
}

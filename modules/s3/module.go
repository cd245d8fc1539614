// Package s3 uploads exported artifacts to pre-signed object storage URLs.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/vk/shiftgrid/internal/ctxlog"
	"github.com/vk/shiftgrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// httpClient is shared by all uploads to reuse TCP connections.
var httpClient = &http.Client{}

// Register registers the uploader with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterUploader(Upload)
}

// Upload PUTs body to a pre-signed URL.
func Upload(ctx context.Context, url, contentType string, body []byte) error {
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create S3 upload request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	logger.Info("Uploading artifact to S3", "size", len(body), "contentType", contentType)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute S3 upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("S3 upload failed with status: %s", resp.Status)
	}

	logger.Info("Successfully uploaded artifact", "status", resp.Status)
	return nil
}

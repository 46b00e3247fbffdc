package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"caricature-preview-server/modules/common/config"
)

// Bucket names used by the external-store variant
const (
	BucketUploads  = "uploads"
	BucketPreviews = "previews"
)

type Client struct {
	httpClient *http.Client
}

// NewClient - Supabase Storage client (raw REST, service-key auth)
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// UploadBytes - upload an object into a bucket
func (c *Client) UploadBytes(ctx context.Context, bucket, path, contentType string, data []byte) error {
	cfg := config.GetConfig()

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", cfg.SupabaseURL, bucket, path)

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SupabaseServiceKey)
	req.Header.Set("Content-Type", contentType)
	// overwrite on re-upload so a re-run replaces the object
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	log.Printf("📤 Uploaded %s/%s (%d bytes)", bucket, path, len(data))
	return nil
}

// DownloadBytes - fetch an object back from a bucket
func (c *Client) DownloadBytes(ctx context.Context, bucket, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.PublicURL(bucket, path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("download failed with status %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object data: %w", err)
	}

	log.Printf("📥 Downloaded %s/%s (%d bytes)", bucket, path, len(data))
	return data, nil
}

// PublicURL - public object URL; SUPABASE_STORAGE_BASE_URL overrides the
// default construction (CDN fronting, self-hosted gateways)
func (c *Client) PublicURL(bucket, path string) string {
	cfg := config.GetConfig()
	if cfg.SupabaseStorageBaseURL != "" {
		return strings.TrimRight(cfg.SupabaseStorageBaseURL, "/") + "/" + bucket + "/" + path
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", cfg.SupabaseURL, bucket, path)
}

package pipeline

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"caricature-preview-server/modules/common/config"
	"caricature-preview-server/modules/common/gemini"
)

// Upscaler - client for the external super-resolution endpoint
type Upscaler struct {
	endpoint   string
	apiKey     string
	scale      int
	httpClient *http.Client
}

// NewUpscaler - upscaler from config; endpoint and key are validated at load time
func NewUpscaler(cfg *config.Config) *Upscaler {
	return &Upscaler{
		endpoint: cfg.UpscaleEndpoint,
		apiKey:   cfg.UpscaleAPIKey,
		scale:    cfg.UpscaleScale,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type upscaleRequest struct {
	Image string `json:"image"`
	Scale int    `json:"scale"`
}

type upscaleResponse struct {
	Image string `json:"image"`
	Error string `json:"error,omitempty"`
}

// Upscale - POST the image to the super-resolution endpoint and return the result.
// A 429 response surfaces as RateLimitError so the retry wrapper can catch it.
func (u *Upscaler) Upscale(ctx context.Context, imageBytes []byte) ([]byte, error) {
	payload, err := json.Marshal(upscaleRequest{
		Image: base64.StdEncoding.EncodeToString(imageBytes),
		Scale: u.scale,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal upscale request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", u.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create upscale request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upscale request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upscale response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &gemini.RateLimitError{Err: fmt.Errorf("upscale API returned 429: %s", string(body))}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upscale API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed upscaleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse upscale response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("upscale API error: %s", parsed.Error)
	}

	decoded, err := base64.StdEncoding.DecodeString(parsed.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to decode upscaled image: %w", err)
	}

	log.Printf("✅ [Upscale] %d bytes in, %d bytes out (scale=%d)", len(imageBytes), len(decoded), u.scale)
	return decoded, nil
}

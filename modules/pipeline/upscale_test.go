package pipeline

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caricature-preview-server/modules/common/gemini"
)

func testUpscaler(endpoint string, scale int) *Upscaler {
	return &Upscaler{
		endpoint:   endpoint,
		apiKey:     "test-key",
		scale:      scale,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestUpscaleRoundTrip(t *testing.T) {
	input := []byte("fake-image-bytes")
	output := []byte("bigger-fake-image-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req upscaleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.Scale)

		decoded, err := base64.StdEncoding.DecodeString(req.Image)
		require.NoError(t, err)
		assert.Equal(t, input, decoded)

		json.NewEncoder(w).Encode(upscaleResponse{
			Image: base64.StdEncoding.EncodeToString(output),
		})
	}))
	defer server.Close()

	got, err := testUpscaler(server.URL, 2).Upscale(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, output, got)
}

func TestUpscaleRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := testUpscaler(server.URL, 2).Upscale(context.Background(), []byte("img"))
	require.Error(t, err)

	var rateLimited *gemini.RateLimitError
	assert.True(t, errors.As(err, &rateLimited))
}

func TestUpscaleServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testUpscaler(server.URL, 2).Upscale(context.Background(), []byte("img"))
	require.Error(t, err)

	var rateLimited *gemini.RateLimitError
	assert.False(t, errors.As(err, &rateLimited))
	assert.Contains(t, err.Error(), "status 500")
}

func TestUpscaleAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(upscaleResponse{Error: "scale unsupported"})
	}))
	defer server.Close()

	_, err := testUpscaler(server.URL, 9).Upscale(context.Background(), []byte("img"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scale unsupported")
}

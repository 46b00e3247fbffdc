package gemini

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"

	"caricature-preview-server/modules/common/config"
)

// NewClient - genai client for the configured backend.
// GEMINI_BACKEND=vertex routes through Vertex AI (ADC credentials),
// anything else uses the Gemini API with an API key.
func NewClient(ctx context.Context) (*genai.Client, error) {
	cfg := config.GetConfig()

	var clientConfig *genai.ClientConfig
	if cfg.GeminiBackend == "vertex" {
		log.Printf("✅ [Gemini] Using Vertex backend (project=%s, location=%s)", cfg.GCPProject, cfg.GCPLocation)
		clientConfig = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.GCPProject,
			Location: cfg.GCPLocation,
		}
	} else {
		clientConfig = &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return client, nil
}

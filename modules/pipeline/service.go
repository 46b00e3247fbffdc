package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"google.golang.org/genai"

	"caricature-preview-server/modules/common/apperr"
	"caricature-preview-server/modules/common/config"
	"caricature-preview-server/modules/common/gemini"
)

// ErrEmptyResult - model call succeeded but returned no image candidates
var ErrEmptyResult = errors.New("model returned no image candidates")

// Request - one stylization call against the generation model
type Request struct {
	ImageBytes  []byte
	Prompt      string
	Negative    string
	AspectRatio string
	Model       string
	ModelParams map[string]interface{}
}

// Service - two-stage preview pipeline: stylize, then optionally upscale
type Service struct {
	client   *genai.Client
	upscaler *Upscaler
}

// NewService - pipeline service bound to the configured genai backend
func NewService(ctx context.Context) (*Service, error) {
	client, err := gemini.NewClient(ctx)
	if err != nil {
		return nil, err
	}

	cfg := config.GetConfig()
	svc := &Service{client: client}
	if cfg.UpscaleEnabled {
		svc.upscaler = NewUpscaler(cfg)
		log.Printf("✅ [Pipeline] Upscale stage enabled (endpoint=%s)", cfg.UpscaleEndpoint)
	}
	return svc, nil
}

// GeneratePreview - run the full pipeline on a normalized input image.
// Rate-limited vendor errors are retried with exponential backoff; all
// other failures propagate on the first attempt.
func (s *Service) GeneratePreview(ctx context.Context, req Request) ([]byte, error) {
	cfg := config.GetConfig()

	stylized, err := gemini.DoWithRetry(ctx, "Stylize", cfg.RetryMaxAttempts, cfg.RetryBaseDelay,
		func(ctx context.Context) ([]byte, error) {
			return s.stylize(ctx, req)
		})
	if err != nil {
		return nil, err
	}

	if s.upscaler == nil {
		return stylized, nil
	}

	upscaled, err := gemini.DoWithRetry(ctx, "Upscale", cfg.RetryMaxAttempts, cfg.RetryBaseDelay,
		func(ctx context.Context) ([]byte, error) {
			return s.upscaler.Upscale(ctx, stylized)
		})
	if err != nil {
		return nil, err
	}
	return upscaled, nil
}

// stylize - single GenerateContent call, first inline image candidate wins
func (s *Service) stylize(ctx context.Context, req Request) ([]byte, error) {
	cfg := config.GetConfig()

	model := req.Model
	if model == "" {
		model = cfg.GeminiModel
	}

	prompt := req.Prompt
	if req.Negative != "" {
		prompt = fmt.Sprintf("%s\n\nAvoid: %s", prompt, req.Negative)
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(req.ImageBytes, "image/png"),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{{Parts: parts, Role: "user"}}

	genConfig := &genai.GenerateContentConfig{}
	if req.AspectRatio != "" {
		genConfig.ImageConfig = &genai.ImageConfig{AspectRatio: req.AspectRatio}
	}
	if temp, ok := req.ModelParams["temperature"].(float64); ok {
		t := float32(temp)
		genConfig.Temperature = &t
	}

	result, err := s.client.Models.GenerateContent(ctx, model, contents, genConfig)
	if err != nil {
		return nil, gemini.ClassifyVendorErr(err)
	}

	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				log.Printf("✅ [Stylize] Got %d bytes from %s", len(part.InlineData.Data), model)
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, apperr.Vendor("model returned no image", ErrEmptyResult)
}

package project

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"caricature-preview-server/modules/common/apperr"
	"caricature-preview-server/modules/common/model"
	"caricature-preview-server/modules/common/utils"
	"caricature-preview-server/modules/pipeline"
	"caricature-preview-server/modules/prompt"
	"caricature-preview-server/modules/watermark"
)

// Generator - the stylize+upscale pipeline, narrowed for testability
type Generator interface {
	GeneratePreview(ctx context.Context, req pipeline.Request) ([]byte, error)
}

// Service - project lifecycle: created -> uploaded -> preview_ready
type Service struct {
	store   Store
	gen     Generator
	prompts prompt.Provider
	hub     *Hub
}

// NewService - lifecycle service over a store, the generation pipeline and a prompt provider
func NewService(store Store, gen Generator, prompts prompt.Provider, hub *Hub) *Service {
	return &Service{store: store, gen: gen, prompts: prompts, hub: hub}
}

// CreateRequest - POST /projects body. style_id accepts either a plain
// style id ("S02") or a compact token with a tier suffix ("S02B").
type CreateRequest struct {
	StyleID      string `json:"style_id"`
	Exaggeration string `json:"exaggeration,omitempty"`
	Background   string `json:"background,omitempty"`
	AspectRatio  string `json:"aspect_ratio,omitempty"`
	Filename     string `json:"filename,omitempty"`
	MimeType     string `json:"mime_type,omitempty"`
}

// Create - new project in the created state; the style id is parsed
// leniently, unknown pieces fall back to defaults
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Project, error) {
	sel := prompt.ParseStyleToken(req.StyleID)
	if req.Exaggeration != "" {
		sel.Exaggeration = req.Exaggeration
	}
	if req.Background != "" {
		sel.BackgroundID = req.Background
	}

	aspectRatio := req.AspectRatio
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}

	p := &model.Project{
		ID:           uuid.New().String(),
		StyleID:      sel.StyleID,
		Exaggeration: sel.Exaggeration,
		BackgroundID: sel.BackgroundID,
		AspectRatio:  aspectRatio,
		Filename:     req.Filename,
		MimeType:     req.MimeType,
		Status:       model.StatusCreated,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	log.Printf("✅ [Project] Created %s (style=%s, tier=%s, bg=%s)", p.ID, p.StyleID, p.Exaggeration, p.BackgroundID)
	s.hub.Publish(p.ID, p.Status, nil)
	return p, nil
}

// Upload - attach the user photo. Empty bodies are rejected and the
// project stays in its current state.
func (s *Service) Upload(ctx context.Context, id string, data []byte, mimeType string) (*model.Project, error) {
	if len(data) == 0 {
		return nil, apperr.Validation("upload body is empty")
	}

	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveUpload(ctx, id, data, mimeType); err != nil {
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, id, model.StatusUploaded, nil); err != nil {
		return nil, err
	}
	p.Status = model.StatusUploaded
	p.MimeType = mimeType

	log.Printf("✅ [Project] Upload stored for %s (%d bytes, %s)", id, len(data), mimeType)
	s.hub.Publish(id, p.Status, nil)
	return p, nil
}

// CompleteRequest - POST /projects/{id}/upload-complete body; every field
// optionally overrides what was chosen at create time
type CompleteRequest struct {
	StyleID      string `json:"style_id,omitempty"`
	Exaggeration string `json:"exaggeration,omitempty"`
	Background   string `json:"background,omitempty"`
}

// Complete - run the preview pipeline for an uploaded project.
// Fails without a state transition when no upload exists.
func (s *Service) Complete(ctx context.Context, id string, req CompleteRequest) (*model.Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == model.StatusCreated {
		return nil, apperr.Validation("project has no upload yet: " + id)
	}
	if p.Status == model.StatusPreviewReady {
		return p, nil
	}

	original, err := s.store.GetUpload(ctx, id)
	if err != nil {
		return nil, err
	}

	normalized, err := utils.NormalizeToSquare(original)
	if err != nil {
		return nil, err
	}

	sel := prompt.Selector{
		StyleID:      p.StyleID,
		Exaggeration: p.Exaggeration,
		BackgroundID: p.BackgroundID,
	}
	if req.StyleID != "" {
		sel.StyleID = prompt.ParseStyleToken(req.StyleID).StyleID
	}
	if req.Exaggeration != "" {
		sel.Exaggeration = req.Exaggeration
	}
	if req.Background != "" {
		sel.BackgroundID = req.Background
	}

	built := prompt.Build(s.prompts.Snapshot(), sel)

	generated, err := s.gen.GeneratePreview(ctx, pipeline.Request{
		ImageBytes:  normalized,
		Prompt:      built.Prompt,
		Negative:    built.NegativePrompt,
		AspectRatio: p.AspectRatio,
		Model:       built.Model,
		ModelParams: built.ModelParams,
	})
	if err != nil {
		return nil, err
	}

	preview, err := watermark.Apply(generated)
	if err != nil {
		return nil, err
	}

	previewURL, err := s.store.SavePreview(ctx, id, preview)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, id, model.StatusPreviewReady, &previewURL); err != nil {
		return nil, err
	}
	p.Status = model.StatusPreviewReady
	p.PreviewURL = &previewURL

	log.Printf("✅ [Project] Preview ready for %s", id)
	s.hub.Publish(id, p.Status, &previewURL)
	return p, nil
}

// Get - current project state
func (s *Service) Get(ctx context.Context, id string) (*model.Project, error) {
	return s.store.GetProject(ctx, id)
}

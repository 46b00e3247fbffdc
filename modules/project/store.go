package project

import (
	"context"

	"caricature-preview-server/modules/common/model"
)

// Store - project persistence behind the lifecycle service.
// Backends: in-memory (default), Redis, or Supabase.
type Store interface {
	// CreateProject - persist a new project in the created state
	CreateProject(ctx context.Context, p *model.Project) error

	// GetProject - fetch by id; NotFound when missing or expired
	GetProject(ctx context.Context, id string) (*model.Project, error)

	// SaveUpload - store the raw uploaded image bytes for a project
	SaveUpload(ctx context.Context, id string, data []byte, mimeType string) error

	// GetUpload - fetch the uploaded bytes; NotFound when nothing was uploaded
	GetUpload(ctx context.Context, id string) ([]byte, error)

	// SavePreview - store the finished preview, returning a URL the client can fetch
	SavePreview(ctx context.Context, id string, data []byte) (string, error)

	// UpdateStatus - advance the lifecycle status, optionally recording the preview URL
	UpdateStatus(ctx context.Context, id string, status string, previewURL *string) error
}

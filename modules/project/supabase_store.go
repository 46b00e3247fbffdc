package project

import (
	"context"
	"fmt"

	"caricature-preview-server/modules/common/database"
	"caricature-preview-server/modules/common/model"
	"caricature-preview-server/modules/common/storage"
)

// SupabaseStore - durable store: rows in Postgres, bytes in Supabase Storage
type SupabaseStore struct {
	db      *database.Client
	storage *storage.Client
}

// NewSupabaseStore - store over existing database and storage clients
func NewSupabaseStore(db *database.Client, st *storage.Client) *SupabaseStore {
	return &SupabaseStore{db: db, storage: st}
}

func (s *SupabaseStore) CreateProject(ctx context.Context, p *model.Project) error {
	return s.db.InsertProject(ctx, p)
}

func (s *SupabaseStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return s.db.FetchProject(ctx, id)
}

func (s *SupabaseStore) SaveUpload(ctx context.Context, id string, data []byte, mimeType string) error {
	if _, err := s.db.FetchProject(ctx, id); err != nil {
		return err
	}
	path := fmt.Sprintf("%s/original", id)
	if err := s.storage.UploadBytes(ctx, storage.BucketUploads, path, mimeType, data); err != nil {
		return fmt.Errorf("failed to upload original: %w", err)
	}
	return nil
}

func (s *SupabaseStore) GetUpload(ctx context.Context, id string) ([]byte, error) {
	path := fmt.Sprintf("%s/original", id)
	return s.storage.DownloadBytes(ctx, storage.BucketUploads, path)
}

func (s *SupabaseStore) SavePreview(ctx context.Context, id string, data []byte) (string, error) {
	path := fmt.Sprintf("%s/preview.webp", id)
	if err := s.storage.UploadBytes(ctx, storage.BucketPreviews, path, "image/webp", data); err != nil {
		return "", fmt.Errorf("failed to upload preview: %w", err)
	}
	return s.storage.PublicURL(storage.BucketPreviews, path), nil
}

func (s *SupabaseStore) UpdateStatus(ctx context.Context, id string, status string, previewURL *string) error {
	return s.db.UpdateProject(ctx, id, status, previewURL)
}

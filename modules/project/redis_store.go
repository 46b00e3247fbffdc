package project

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"caricature-preview-server/modules/common/apperr"
	"caricature-preview-server/modules/common/model"
)

// RedisStore - project store on Redis; expiry is native via key TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore - store over an already-connected client
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func projectKey(id string) string { return "project:" + id }
func uploadKey(id string) string  { return "upload:" + id }
func previewKey(id string) string { return "preview:" + id }

func (s *RedisStore) CreateProject(ctx context.Context, p *model.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := s.client.Set(ctx, projectKey(p.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store project: %w", err)
	}
	return nil
}

func (s *RedisStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	data, err := s.client.Get(ctx, projectKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFound("project not found: " + id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}

	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}
	return &p, nil
}

func (s *RedisStore) SaveUpload(ctx context.Context, id string, data []byte, mimeType string) error {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, uploadKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store upload: %w", err)
	}
	p.MimeType = mimeType
	return s.CreateProject(ctx, p)
}

func (s *RedisStore) GetUpload(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, uploadKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFound("no upload for project: " + id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upload: %w", err)
	}
	return data, nil
}

func (s *RedisStore) SavePreview(ctx context.Context, id string, data []byte) (string, error) {
	if _, err := s.GetProject(ctx, id); err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, previewKey(id), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store preview: %w", err)
	}
	return fmt.Sprintf("data:image/webp;base64,%s", base64.StdEncoding.EncodeToString(data)), nil
}

func (s *RedisStore) UpdateStatus(ctx context.Context, id string, status string, previewURL *string) error {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}
	p.Status = status
	if previewURL != nil {
		p.PreviewURL = previewURL
	}
	return s.CreateProject(ctx, p)
}

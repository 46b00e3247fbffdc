package project

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"sync"
	"time"

	"caricature-preview-server/modules/common/apperr"
	"caricature-preview-server/modules/common/model"
)

// MemoryStore - in-process store with periodic expiry.
// Previews are served inline as data URLs since nothing persists them.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*model.Project
	uploads  map[string][]byte
	previews map[string][]byte
	maxAge   time.Duration
}

// NewMemoryStore - empty store; entries older than maxAge are swept
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]*model.Project),
		uploads:  make(map[string][]byte),
		previews: make(map[string][]byte),
		maxAge:   maxAge,
	}
}

func (s *MemoryStore) CreateProject(ctx context.Context, p *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *p
	s.projects[p.ID] = &clone
	return nil
}

func (s *MemoryStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, apperr.NotFound("project not found: " + id)
	}
	clone := *p
	return &clone, nil
}

func (s *MemoryStore) SaveUpload(ctx context.Context, id string, data []byte, mimeType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return apperr.NotFound("project not found: " + id)
	}
	s.uploads[id] = data
	s.projects[id].MimeType = mimeType
	return nil
}

func (s *MemoryStore) GetUpload(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.uploads[id]
	if !ok {
		return nil, apperr.NotFound("no upload for project: " + id)
	}
	return data, nil
}

func (s *MemoryStore) SavePreview(ctx context.Context, id string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return "", apperr.NotFound("project not found: " + id)
	}
	s.previews[id] = data
	return fmt.Sprintf("data:image/webp;base64,%s", base64.StdEncoding.EncodeToString(data)), nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, status string, previewURL *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return apperr.NotFound("project not found: " + id)
	}
	p.Status = status
	if previewURL != nil {
		p.PreviewURL = previewURL
	}
	return nil
}

// sweep - drop everything older than maxAge relative to now
func (s *MemoryStore) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, p := range s.projects {
		if now.Sub(p.CreatedAt) > s.maxAge {
			delete(s.projects, id)
			delete(s.uploads, id)
			delete(s.previews, id)
			removed++
		}
	}
	return removed
}

// StartSweeper - background expiry loop
func (s *MemoryStore) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if removed := s.sweep(time.Now()); removed > 0 {
				log.Printf("🧹 [Store] Swept %d expired projects", removed)
			}
		}
	}()
}

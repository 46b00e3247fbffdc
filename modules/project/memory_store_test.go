package project

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caricature-preview-server/modules/common/apperr"
	"caricature-preview-server/modules/common/model"
)

func newTestProject(id string, createdAt time.Time) *model.Project {
	return &model.Project{
		ID:           id,
		StyleID:      "S01",
		Exaggeration: "medium",
		BackgroundID: "BG01",
		AspectRatio:  "1:1",
		Status:       model.StatusCreated,
		CreatedAt:    createdAt,
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(30 * time.Minute)

	p := newTestProject("p1", time.Now())
	require.NoError(t, store.CreateProject(ctx, p))

	got, err := store.GetProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCreated, got.Status)

	require.NoError(t, store.SaveUpload(ctx, "p1", []byte("photo"), "image/jpeg"))
	upload, err := store.GetUpload(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []byte("photo"), upload)

	url, err := store.SavePreview(ctx, "p1", []byte("webp-bytes"))
	require.NoError(t, err)
	assert.Contains(t, url, "data:image/webp;base64,")

	require.NoError(t, store.UpdateStatus(ctx, "p1", model.StatusPreviewReady, &url))
	got, err = store.GetProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPreviewReady, got.Status)
	require.NotNil(t, got.PreviewURL)
	assert.Equal(t, url, *got.PreviewURL)
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(30 * time.Minute)

	_, err := store.GetProject(ctx, "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = store.GetUpload(ctx, "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	err = store.SaveUpload(ctx, "missing", []byte("x"), "image/png")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(30 * time.Minute)

	start := time.Now()
	require.NoError(t, store.CreateProject(ctx, newTestProject("old", start)))
	require.NoError(t, store.SaveUpload(ctx, "old", []byte("photo"), "image/jpeg"))

	// still present 10 minutes in
	removed := store.sweep(start.Add(10 * time.Minute))
	assert.Equal(t, 0, removed)
	_, err := store.GetProject(ctx, "old")
	require.NoError(t, err)

	// expired past the 30 minute cap
	removed = store.sweep(start.Add(31 * time.Minute))
	assert.Equal(t, 1, removed)
	_, err = store.GetProject(ctx, "old")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	_, err = store.GetUpload(ctx, "old")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	require.NoError(t, store.CreateProject(ctx, newTestProject("p1", time.Now())))

	got, err := store.GetProject(ctx, "p1")
	require.NoError(t, err)
	got.Status = "mutated"

	fresh, err := store.GetProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCreated, fresh.Status)
}

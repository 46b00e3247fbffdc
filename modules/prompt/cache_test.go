package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caricature-preview-server/modules/common/model"
)

type fakeLoader struct {
	styles []model.Style
	fail   bool
	calls  int
}

func (f *fakeLoader) LoadPromptTables(ctx context.Context) ([]model.Style, []model.ExaggerationLevel, []model.Background, []model.PromptConfigRow, error) {
	f.calls++
	if f.fail {
		return nil, nil, nil, nil, errors.New("connection refused")
	}
	levels := []model.ExaggerationLevel{{ID: TierMedium, Name: "Medium", Text: "medium level"}}
	backgrounds := []model.Background{{ID: DefaultBackgroundID, Name: "Studio", Text: "studio background"}}
	config := []model.PromptConfigRow{{Key: ConfigIdentityBlock, Value: "identity"}}
	return f.styles, levels, backgrounds, config, nil
}

func TestCachedProviderInitialLoadFailure(t *testing.T) {
	_, err := NewCachedProvider(context.Background(), &fakeLoader{fail: true})
	require.Error(t, err)
}

func TestCachedProviderReloadSwapsSnapshot(t *testing.T) {
	loader := &fakeLoader{styles: []model.Style{{ID: "S01", Name: "One", Text: "one"}}}
	provider, err := NewCachedProvider(context.Background(), loader)
	require.NoError(t, err)

	first := provider.Snapshot()
	assert.Len(t, first.Styles, 1)

	loader.styles = append(loader.styles, model.Style{ID: "S02", Name: "Two", Text: "two"})
	_, err = provider.Reload(context.Background())
	require.NoError(t, err)

	second := provider.Snapshot()
	assert.Len(t, second.Styles, 2)
	// the earlier snapshot is untouched
	assert.Len(t, first.Styles, 1)
	assert.False(t, second.LoadedAt.Before(first.LoadedAt))
}

func TestCachedProviderFailedReloadKeepsPrevious(t *testing.T) {
	loader := &fakeLoader{styles: []model.Style{{ID: "S01", Name: "One", Text: "one"}}}
	provider, err := NewCachedProvider(context.Background(), loader)
	require.NoError(t, err)

	before := provider.Snapshot()
	loader.fail = true
	_, err = provider.Reload(context.Background())
	require.Error(t, err)

	assert.Same(t, before, provider.Snapshot())
}

package prompt

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"caricature-preview-server/modules/common/model"
)

// Provider - read access to the current prompt tables plus an on-demand reload
type Provider interface {
	Snapshot() *Snapshot
	Reload(ctx context.Context) (*Snapshot, error)
}

// StaticProvider - compiled-in catalog; Reload re-serves the same tables
type StaticProvider struct {
	snap *Snapshot
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{snap: StaticSnapshot()}
}

func (p *StaticProvider) Snapshot() *Snapshot {
	return p.snap
}

func (p *StaticProvider) Reload(ctx context.Context) (*Snapshot, error) {
	return p.snap, nil
}

// Loader - source of the four prompt tables (the Supabase database client)
type Loader interface {
	LoadPromptTables(ctx context.Context) ([]model.Style, []model.ExaggerationLevel, []model.Background, []model.PromptConfigRow, error)
}

// CachedProvider - database-backed prompt tables behind an atomically swapped
// snapshot. Readers never see a half-loaded cache; a failed reload keeps the
// previous snapshot and is reported via logs only.
type CachedProvider struct {
	loader  Loader
	current atomic.Value // *Snapshot
}

// NewCachedProvider - loads once up front; startup fails if the first load does
func NewCachedProvider(ctx context.Context, loader Loader) (*CachedProvider, error) {
	p := &CachedProvider{loader: loader}
	if _, err := p.Reload(ctx); err != nil {
		return nil, fmt.Errorf("initial prompt load failed: %w", err)
	}
	return p, nil
}

func (p *CachedProvider) Snapshot() *Snapshot {
	return p.current.Load().(*Snapshot)
}

// Reload - rebuild the whole snapshot from the database and swap it in
func (p *CachedProvider) Reload(ctx context.Context) (*Snapshot, error) {
	styles, levels, backgrounds, configRows, err := p.loader.LoadPromptTables(ctx)
	if err != nil {
		return nil, err
	}

	config := make(map[string]string, len(configRows))
	for _, row := range configRows {
		config[row.Key] = row.Value
	}

	snap := buildSnapshot(styles, levels, backgrounds, config, time.Now().UTC())
	p.current.Store(snap)

	log.Printf("✅ Prompt cache reloaded: %d styles, %d levels, %d backgrounds, %d config keys",
		len(snap.Styles), len(snap.Levels), len(snap.Backgrounds), len(snap.Config))
	return snap, nil
}

// StartReloader - periodic background refresh.
// Failures never reach callers; the previous snapshot stays live.
func (p *CachedProvider) StartReloader(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := p.Reload(ctx); err != nil {
				log.Printf("⚠️  Prompt cache reload failed, keeping previous snapshot: %v", err)
			}
			cancel()
		}
	}()

	log.Printf("🔄 Started prompt cache reloader (every %s)", interval)
}

package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/supabase-community/supabase-go"

	"caricature-preview-server/modules/common/apperr"
	"caricature-preview-server/modules/common/config"
	"caricature-preview-server/modules/common/model"
)

type Client struct {
	supabase *supabase.Client
}

// NewClient - Supabase database client
func NewClient() (*Client, error) {
	cfg := config.GetConfig()

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	return &Client{supabase: supabaseClient}, nil
}

// LoadPromptTables - read all four prompt tables wholesale.
// The prompt cache swaps them in as one snapshot.
func (c *Client) LoadPromptTables(ctx context.Context) ([]model.Style, []model.ExaggerationLevel, []model.Background, []model.PromptConfigRow, error) {
	var styles []model.Style
	if err := c.selectAll("styles", &styles); err != nil {
		return nil, nil, nil, nil, err
	}

	var levels []model.ExaggerationLevel
	if err := c.selectAll("exaggeration_levels", &levels); err != nil {
		return nil, nil, nil, nil, err
	}

	var backgrounds []model.Background
	if err := c.selectAll("backgrounds", &backgrounds); err != nil {
		return nil, nil, nil, nil, err
	}

	var configRows []model.PromptConfigRow
	if err := c.selectAll("prompt_config", &configRows); err != nil {
		return nil, nil, nil, nil, err
	}

	log.Printf("🔍 Prompt tables loaded: %d styles, %d levels, %d backgrounds, %d config rows",
		len(styles), len(levels), len(backgrounds), len(configRows))
	return styles, levels, backgrounds, configRows, nil
}

func (c *Client) selectAll(table string, dest interface{}) error {
	data, _, err := c.supabase.From(table).Select("*", "exact", false).Execute()
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", table, err)
	}
	return nil
}

// InsertProject - persist a freshly created project record
func (c *Client) InsertProject(ctx context.Context, p *model.Project) error {
	insertData := map[string]interface{}{
		"project_id":        p.ID,
		"style_id":          p.StyleID,
		"exaggeration_tier": p.Exaggeration,
		"background_id":     p.BackgroundID,
		"aspect_ratio":      p.AspectRatio,
		"filename":          p.Filename,
		"mime_type":         p.MimeType,
		"status":            p.Status,
		"created_at":        p.CreatedAt,
	}

	_, _, err := c.supabase.From("projects").
		Insert(insertData, false, "", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert project record: %w", err)
	}

	log.Printf("💾 Project record created: %s", p.ID)
	return nil
}

// FetchProject - load a project row by id
func (c *Client) FetchProject(ctx context.Context, id string) (*model.Project, error) {
	var rows []model.Project

	data, _, err := c.supabase.From("projects").
		Select("*", "exact", false).
		Eq("project_id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse project response: %w", err)
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound(fmt.Sprintf("project not found: %s", id))
	}

	return &rows[0], nil
}

// UpdateProject - update status and, when set, the preview URL
func (c *Client) UpdateProject(ctx context.Context, id string, status string, previewURL *string) error {
	updateData := map[string]interface{}{
		"status": status,
	}
	if previewURL != nil {
		updateData["preview_url"] = *previewURL
	}

	_, _, err := c.supabase.From("projects").
		Update(updateData, "", "").
		Eq("project_id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", id, err)
	}

	log.Printf("📝 Project %s status updated to: %s", id, status)
	return nil
}

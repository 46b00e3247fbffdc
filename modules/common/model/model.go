package model

import "time"

// Project - one end-to-end preview request, tracked from create to preview_ready
type Project struct {
	ID           string     `json:"project_id"`
	StyleID      string     `json:"style_id"`
	Exaggeration string     `json:"exaggeration_tier"`
	BackgroundID string     `json:"background_id"`
	AspectRatio  string     `json:"aspect_ratio"`
	Filename     string     `json:"filename"`
	MimeType     string     `json:"mime_type"`
	Status       string     `json:"status"`
	PreviewURL   *string    `json:"preview_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Style - styles table row
type Style struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Text        string                 `json:"text"`
	Model       string                 `json:"model,omitempty"`
	ModelParams map[string]interface{} `json:"model_params,omitempty"`
}

// ExaggerationLevel - exaggeration_levels table row
type ExaggerationLevel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// Background - backgrounds table row
type Background struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// PromptConfigRow - prompt_config table row (key/value)
type PromptConfigRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

const (
	StatusCreated      = "created"
	StatusUploaded     = "uploaded"
	StatusPreviewReady = "preview_ready"
)

package prompt

import (
	"strings"

	"caricature-preview-server/modules/common/model"
)

// Built - the composed prompt pair handed to the generation pipeline
type Built struct {
	Prompt         string
	NegativePrompt string
	Model          string
	ModelParams    map[string]interface{}
}

// Build - compose the final prompt from a resolved selector.
// Lookups fall back to the default id, then to an empty stand-in; composition
// never fails on an unknown id. Block order: identity, exaggeration, style,
// background, technical; joined with normalized whitespace and trimmed.
func Build(snap *Snapshot, sel Selector) Built {
	style := lookupStyle(snap, sel.StyleID)
	level := lookupLevel(snap, sel.Exaggeration)
	background := lookupBackground(snap, sel.BackgroundID)

	blocks := []string{
		snap.Config[ConfigIdentityBlock],
		level.Text,
		style.Text,
		background.Text,
		snap.Config[ConfigTechnicalBlock],
	}

	var parts []string
	for _, block := range blocks {
		if trimmed := strings.TrimSpace(block); trimmed != "" {
			parts = append(parts, strings.Join(strings.Fields(trimmed), " "))
		}
	}

	return Built{
		Prompt:         strings.Join(parts, " "),
		NegativePrompt: strings.TrimSpace(snap.Config[ConfigNegativePrompt]),
		Model:          style.Model,
		ModelParams:    style.ModelParams,
	}
}

func lookupStyle(snap *Snapshot, id string) model.Style {
	if s, ok := snap.Styles[id]; ok {
		return s
	}
	if s, ok := snap.Styles[DefaultStyleID]; ok {
		return s
	}
	return model.Style{ID: id}
}

func lookupLevel(snap *Snapshot, id string) model.ExaggerationLevel {
	if l, ok := snap.Levels[id]; ok {
		return l
	}
	if l, ok := snap.Levels[TierMedium]; ok {
		return l
	}
	return model.ExaggerationLevel{ID: id}
}

func lookupBackground(snap *Snapshot, id string) model.Background {
	if b, ok := snap.Backgrounds[id]; ok {
		return b
	}
	if b, ok := snap.Backgrounds[DefaultBackgroundID]; ok {
		return b
	}
	return model.Background{ID: id}
}

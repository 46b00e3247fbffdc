package prompt

import (
	"time"

	"caricature-preview-server/modules/common/model"
)

// Snapshot - one fully-built, immutable view of all prompt tables.
// Readers always get a complete snapshot; reloads swap the whole thing.
type Snapshot struct {
	Styles      map[string]model.Style
	Levels      map[string]model.ExaggerationLevel
	Backgrounds map[string]model.Background
	Config      map[string]string
	LoadedAt    time.Time
}

// prompt_config keys
const (
	ConfigIdentityBlock  = "identity_block"
	ConfigTechnicalBlock = "technical_block"
	ConfigNegativePrompt = "negative_prompt"
)

// StaticSnapshot - the compiled-in prompt catalog
func StaticSnapshot() *Snapshot {
	styles := []model.Style{
		{ID: "S01", Name: "Classic Caricature", Text: "Hand-drawn caricature illustration, bold confident ink outlines, warm watercolor shading, playful editorial-cartoon energy."},
		{ID: "S02", Name: "3D Toon", Text: "Stylized 3D animated-movie character render, soft subsurface skin, oversized expressive eyes, cinematic rim lighting.", ModelParams: map[string]interface{}{"temperature": 0.45}},
		{ID: "S03", Name: "Comic Ink", Text: "Black-and-white comic book inking, dramatic cross-hatching, halftone dot shading, strong chiaroscuro."},
		{ID: "S04", Name: "Pop Art", Text: "Pop art portrait, flat saturated color blocks, thick black contour lines, Ben-Day dots, 1960s screen-print aesthetic."},
		{ID: "S05", Name: "Pencil Sketch", Text: "Loose graphite pencil caricature sketch, visible construction lines, smudged shading, sketchbook paper texture."},
		{ID: "S06", Name: "Watercolor", Text: "Soft watercolor caricature, wet-on-wet color bleeds, gentle pastel palette, white paper showing through."},
		{ID: "S07", Name: "Pixel Portrait", Text: "Retro pixel-art portrait, chunky 32x32-style pixels upscaled crisply, limited 16-color palette, dithered shading."},
		{ID: "S08", Name: "Oil Painting", Text: "Classical oil painting caricature, thick impasto brushwork, rich glazed color depth, gallery-portrait lighting."},
	}

	levels := []model.ExaggerationLevel{
		{ID: TierMild, Name: "Mild", Text: "Subtle, tasteful exaggeration: gently emphasize the most recognizable features while keeping natural proportions."},
		{ID: TierMedium, Name: "Medium", Text: "Clear caricature exaggeration: noticeably amplify distinctive features and expression while keeping the person instantly recognizable."},
		{ID: TierBold, Name: "Bold", Text: "Strong, playful exaggeration: dramatically enlarge signature features, squash-and-stretch proportions, maximum comedic energy."},
	}

	backgrounds := []model.Background{
		{ID: "BG01", Name: "Studio", Text: "Clean soft-gradient studio backdrop, subtle vignette, nothing competing with the subject."},
		{ID: "BG02", Name: "City", Text: "Blurred lively city street at golden hour, warm bokeh lights behind the subject."},
		{ID: "BG03", Name: "Beach", Text: "Sunny beach scene, turquoise water and soft sand, light haze, vacation mood."},
		{ID: "BG04", Name: "Abstract", Text: "Energetic abstract background of brush strokes and color splashes matching the portrait palette."},
	}

	config := map[string]string{
		ConfigIdentityBlock:  "Caricature portrait of the person in the reference photo. Preserve their identity: keep face shape, skin tone, hairstyle, facial hair and distinguishing features clearly recognizable.",
		ConfigTechnicalBlock: "Single unified composition, subject centered, head and shoulders framing. High detail, clean edges, no text, no watermark, no signature, no frame.",
		ConfigNegativePrompt: "photorealistic photo, deformed anatomy, extra limbs, distorted hands, text, watermark, logo, signature, collage, split frame, low quality, blurry",
	}

	return buildSnapshot(styles, levels, backgrounds, config, time.Time{})
}

func buildSnapshot(styles []model.Style, levels []model.ExaggerationLevel, backgrounds []model.Background, config map[string]string, loadedAt time.Time) *Snapshot {
	snap := &Snapshot{
		Styles:      make(map[string]model.Style, len(styles)),
		Levels:      make(map[string]model.ExaggerationLevel, len(levels)),
		Backgrounds: make(map[string]model.Background, len(backgrounds)),
		Config:      config,
		LoadedAt:    loadedAt,
	}
	for _, s := range styles {
		snap.Styles[s.ID] = s
	}
	for _, l := range levels {
		snap.Levels[l.ID] = l
	}
	for _, b := range backgrounds {
		snap.Backgrounds[b.ID] = b
	}
	return snap
}

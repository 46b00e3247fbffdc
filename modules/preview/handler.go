package preview

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"caricature-preview-server/modules/common/apperr"
	"caricature-preview-server/modules/common/utils"
	"caricature-preview-server/modules/pipeline"
	"caricature-preview-server/modules/prompt"
	"caricature-preview-server/modules/watermark"
)

// Generator - the stylize+upscale pipeline, narrowed for testability
type Generator interface {
	GeneratePreview(ctx context.Context, req pipeline.Request) ([]byte, error)
}

// Handler - one-shot preview endpoint, no project state involved
type Handler struct {
	gen     Generator
	prompts prompt.Provider
}

func NewHandler(gen Generator, prompts prompt.Provider) *Handler {
	return &Handler{gen: gen, prompts: prompts}
}

// RegisterRoutes - wire the stateless preview endpoint
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/preview", h.HandlePreview).Methods("POST", "OPTIONS")
}

// PreviewRequest - POST /preview body
type PreviewRequest struct {
	ImageBase64 string `json:"image_base64"`
	StyleID     string `json:"style_id"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

// PreviewResponse - watermarked result, inline
type PreviewResponse struct {
	PreviewBase64 string `json:"preview_base64"`
	MimeType      string `json:"mime_type"`
}

// HandlePreview - POST /preview: decode, normalize, stylize, watermark, return
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteJSON(w, apperr.Validation("invalid JSON body"))
		return
	}
	if req.ImageBase64 == "" {
		apperr.WriteJSON(w, apperr.Validation("image_base64 is required"))
		return
	}

	imageBytes, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		apperr.WriteJSON(w, apperr.Validation("image_base64 is not valid base64"))
		return
	}

	normalized, err := utils.NormalizeToSquare(imageBytes)
	if err != nil {
		apperr.WriteJSON(w, err)
		return
	}

	sel := prompt.ParseStyleToken(req.StyleID)
	built := prompt.Build(h.prompts.Snapshot(), sel)

	aspectRatio := req.AspectRatio
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}

	generated, err := h.gen.GeneratePreview(r.Context(), pipeline.Request{
		ImageBytes:  normalized,
		Prompt:      built.Prompt,
		Negative:    built.NegativePrompt,
		AspectRatio: aspectRatio,
		Model:       built.Model,
		ModelParams: built.ModelParams,
	})
	if err != nil {
		log.Printf("❌ [Preview] Generation failed: %v", err)
		apperr.WriteJSON(w, err)
		return
	}

	watermarked, err := watermark.Apply(generated)
	if err != nil {
		apperr.WriteJSON(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PreviewResponse{
		PreviewBase64: utils.ConvertImageToBase64(watermarked),
		MimeType:      "image/webp",
	})
}

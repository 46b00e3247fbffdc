package project

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"caricature-preview-server/modules/common/apperr"
	"caricature-preview-server/modules/common/model"
)

// Handler - project lifecycle HTTP endpoints
type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// RegisterRoutes - wire lifecycle endpoints
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/projects", h.HandleCreate).Methods("POST", "OPTIONS")
	r.HandleFunc("/projects/{id}", h.HandleGet).Methods("GET")
	r.HandleFunc("/projects/{id}/upload", h.HandleUpload).Methods("PUT", "OPTIONS")
	r.HandleFunc("/projects/{id}/upload-complete", h.HandleComplete).Methods("POST", "OPTIONS")
	r.HandleFunc("/projects/{id}/events", h.hub.HandleEvents).Methods("GET")
}

// CreateResponse - POST /projects payload
type CreateResponse struct {
	ProjectID string `json:"project_id"`
	Status    string `json:"status"`
	UploadURL string `json:"upload_url"`
}

// HandleCreate - POST /projects
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req CreateRequest
	if r.Body != nil {
		// empty body is fine, every field has a default
		json.NewDecoder(r.Body).Decode(&req)
	}

	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		apperr.WriteJSON(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateResponse{
		ProjectID: p.ID,
		Status:    p.Status,
		UploadURL: "/projects/" + p.ID + "/upload",
	})
}

// HandleGet - GET /projects/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		apperr.WriteJSON(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// HandleUpload - PUT /projects/{id}/upload, raw image bytes in the body
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	id := mux.Vars(r)["id"]

	data, err := io.ReadAll(r.Body)
	if err != nil {
		apperr.WriteJSON(w, apperr.Validation("failed to read upload body"))
		return
	}

	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	p, err := h.service.Upload(r.Context(), id, data, mimeType)
	if err != nil {
		log.Printf("⚠️  [Project] Upload rejected for %s: %v", id, err)
		apperr.WriteJSON(w, err)
		return
	}

	writeProjectStatus(w, p)
}

// HandleComplete - POST /projects/{id}/upload-complete, runs the preview pipeline
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	id := mux.Vars(r)["id"]

	var req CompleteRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	p, err := h.service.Complete(r.Context(), id, req)
	if err != nil {
		log.Printf("❌ [Project] Complete failed for %s: %v", id, err)
		apperr.WriteJSON(w, err)
		return
	}

	writeProjectStatus(w, p)
}

// StatusResponse - upload/complete payload
type StatusResponse struct {
	ProjectID  string  `json:"project_id"`
	Status     string  `json:"status"`
	PreviewURL *string `json:"preview_url,omitempty"`
}

func writeProjectStatus(w http.ResponseWriter, p *model.Project) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StatusResponse{
		ProjectID:  p.ID,
		Status:     p.Status,
		PreviewURL: p.PreviewURL,
	})
}

package prompt

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
)

// Handler - style listing and manual prompt reload endpoints
type Handler struct {
	provider Provider
}

type styleEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StylesResponse - GET /styles payload
type StylesResponse struct {
	Styles             []styleEntry `json:"styles"`
	ExaggerationLevels []styleEntry `json:"exaggeration_levels"`
	Backgrounds        []styleEntry `json:"backgrounds"`
}

// ReloadResponse - POST /reload-prompts payload
type ReloadResponse struct {
	Success  bool       `json:"success"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
	Error    string     `json:"error,omitempty"`
}

func NewHandler(provider Provider) *Handler {
	return &Handler{provider: provider}
}

// RegisterRoutes - wire prompt endpoints
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/styles", h.HandleStyles).Methods("GET")
	r.HandleFunc("/reload-prompts", h.HandleReload).Methods("POST", "OPTIONS")
}

// HandleStyles - GET /styles
func (h *Handler) HandleStyles(w http.ResponseWriter, r *http.Request) {
	snap := h.provider.Snapshot()

	resp := StylesResponse{}
	for id, s := range snap.Styles {
		resp.Styles = append(resp.Styles, styleEntry{ID: id, Name: s.Name})
	}
	for id, l := range snap.Levels {
		resp.ExaggerationLevels = append(resp.ExaggerationLevels, styleEntry{ID: id, Name: l.Name})
	}
	for id, b := range snap.Backgrounds {
		resp.Backgrounds = append(resp.Backgrounds, styleEntry{ID: id, Name: b.Name})
	}
	sortEntries(resp.Styles)
	sortEntries(resp.ExaggerationLevels)
	sortEntries(resp.Backgrounds)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleReload - POST /reload-prompts, out-of-band cache refresh
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	snap, err := h.provider.Reload(r.Context())
	if err != nil {
		log.Printf("⚠️  Manual prompt reload failed: %v", err)
		json.NewEncoder(w).Encode(ReloadResponse{Success: false, Error: err.Error()})
		return
	}

	loadedAt := snap.LoadedAt
	json.NewEncoder(w).Encode(ReloadResponse{Success: true, LoadedAt: &loadedAt})
}

func sortEntries(entries []styleEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
}

package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"caricature-preview-server/modules/common/config"
	"caricature-preview-server/modules/common/database"
	redisconn "caricature-preview-server/modules/common/redis"
	"caricature-preview-server/modules/common/storage"
	"caricature-preview-server/modules/pipeline"
	"caricature-preview-server/modules/preview"
	"caricature-preview-server/modules/project"
	"caricature-preview-server/modules/prompt"
)

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":      true,
		"service": "caricature-preview-server",
	})
}

// CORS middleware
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// buildPromptProvider - static catalog or Supabase-backed cache per config
func buildPromptProvider(ctx context.Context, cfg *config.Config, db *database.Client) prompt.Provider {
	if cfg.PromptSource != "supabase" {
		log.Printf("✅ [Prompts] Using static catalog")
		return prompt.NewStaticProvider()
	}

	provider, err := prompt.NewCachedProvider(ctx, db)
	if err != nil {
		log.Fatalf("❌ Failed to load prompt tables: %v", err)
	}
	provider.StartReloader(cfg.PromptReloadInterval)
	log.Printf("✅ [Prompts] Supabase catalog loaded, reloading every %v", cfg.PromptReloadInterval)
	return provider
}

// buildProjectStore - memory, redis or supabase backend per config
func buildProjectStore(cfg *config.Config, db *database.Client, st *storage.Client) project.Store {
	switch cfg.ProjectStore {
	case "redis":
		client, err := redisconn.Connect(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to connect to Redis: %v", err)
		}
		log.Printf("✅ [Store] Using Redis backend (TTL %v)", cfg.ProjectMaxAge)
		return project.NewRedisStore(client, cfg.ProjectMaxAge)
	case "supabase":
		log.Printf("✅ [Store] Using Supabase backend")
		return project.NewSupabaseStore(db, st)
	default:
		store := project.NewMemoryStore(cfg.ProjectMaxAge)
		store.StartSweeper(cfg.SweepInterval)
		log.Printf("✅ [Store] Using in-memory backend (max age %v, sweep %v)", cfg.ProjectMaxAge, cfg.SweepInterval)
		return store
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Supabase is only dialed when a backend actually needs it
	var db *database.Client
	var st *storage.Client
	if cfg.PromptSource == "supabase" || cfg.ProjectStore == "supabase" {
		db, err = database.NewClient()
		if err != nil {
			log.Fatalf("❌ Failed to create Supabase client: %v", err)
		}
		st = storage.NewClient()
	}

	prompts := buildPromptProvider(ctx, cfg, db)
	store := buildProjectStore(cfg, db, st)

	gen, err := pipeline.NewService(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to create generation pipeline: %v", err)
	}

	hub := project.NewHub()
	projectService := project.NewService(store, gen, prompts, hub)

	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")

	prompt.NewHandler(prompts).RegisterRoutes(r)
	project.NewHandler(projectService, hub).RegisterRoutes(r)
	preview.NewHandler(gen, prompts).RegisterRoutes(r)

	log.Printf("🚀 Caricature Preview Server starting on port %s", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("🎨 Styles: http://localhost:%s/styles", cfg.Port)
	log.Printf("📡 Events: ws://localhost:%s/projects/{id}/events", cfg.Port)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

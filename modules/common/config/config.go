package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config - all environment-driven settings for the preview server
type Config struct {
	// Server
	Port string

	// Gemini API
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBackend string // "gemini" or "vertex"
	GCPProject    string
	GCPLocation   string

	// Supabase
	SupabaseURL            string
	SupabaseServiceKey     string
	SupabaseStorageBaseURL string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Project store backend: "memory", "redis" or "supabase"
	ProjectStore  string
	ProjectMaxAge time.Duration
	SweepInterval time.Duration

	// Prompt source: "static" or "supabase"
	PromptSource         string
	PromptReloadInterval time.Duration

	// Upscaler
	UpscaleEnabled  bool
	UpscaleEndpoint string
	UpscaleAPIKey   string
	UpscaleScale    int

	// Vendor call retry
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
}

var globalConfig *Config

// LoadConfig - load environment variables, failing fast on missing credentials
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	useTLS := true
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	globalConfig = &Config{
		Port: getEnv("PORT", "8080"),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiBackend: getEnv("GEMINI_BACKEND", "gemini"),
		GCPProject:    getEnv("GCP_PROJECT", ""),
		GCPLocation:   getEnv("GCP_LOCATION", "us-central1"),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:     getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBaseURL: getEnv("SUPABASE_STORAGE_BASE_URL", ""),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		ProjectStore:  getEnv("PROJECT_STORE", "memory"),
		ProjectMaxAge: getDuration("PROJECT_MAX_AGE", 30*time.Minute),
		SweepInterval: getDuration("SWEEP_INTERVAL", 10*time.Minute),

		PromptSource:         getEnv("PROMPT_SOURCE", "static"),
		PromptReloadInterval: getDuration("PROMPT_RELOAD_INTERVAL", 5*time.Minute),

		UpscaleEnabled:  getBool("UPSCALE_ENABLED", false),
		UpscaleEndpoint: getEnv("UPSCALE_API_ENDPOINT", ""),
		UpscaleAPIKey:   getEnv("UPSCALE_API_KEY", ""),
		UpscaleScale:    getInt("UPSCALE_SCALE", 2),

		RetryMaxAttempts: getInt("RETRY_MAX_ATTEMPTS", 3),
		RetryBaseDelay:   getDuration("RETRY_BASE_DELAY", 5*time.Second),
	}

	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Gemini: %s (backend: %s)", globalConfig.GeminiModel, globalConfig.GeminiBackend)
	log.Printf("   Project store: %s", globalConfig.ProjectStore)
	log.Printf("   Prompt source: %s (reload: %s)", globalConfig.PromptSource, globalConfig.PromptReloadInterval)
	log.Printf("   Upscale: %v (scale: %dx)", globalConfig.UpscaleEnabled, globalConfig.UpscaleScale)

	return globalConfig, nil
}

// GetConfig - access the loaded configuration
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// SetConfigForTest - swap in a config without touching the environment
func SetConfigForTest(c *Config) {
	globalConfig = c
}

// validate - required credentials depend on the selected backends
func (c *Config) validate() error {
	if c.GeminiAPIKey == "" && c.GeminiBackend != "vertex" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.GeminiBackend == "vertex" && c.GCPProject == "" {
		return fmt.Errorf("GCP_PROJECT is required when GEMINI_BACKEND=vertex")
	}
	if c.ProjectStore == "supabase" || c.PromptSource == "supabase" {
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required")
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
		}
	}
	if c.ProjectStore == "redis" && c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required when PROJECT_STORE=redis")
	}
	if c.UpscaleEnabled && c.UpscaleEndpoint == "" {
		return fmt.Errorf("UPSCALE_API_ENDPOINT is required when UPSCALE_ENABLED=true")
	}
	if c.RetryMaxAttempts < 1 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// getEnv - environment variable with default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetRedisAddr - Redis connection string
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

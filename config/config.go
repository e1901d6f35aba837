// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration.
type Config struct {
	// SupabaseURL and SupabaseKey address the platform's database, storage
	// and edge functions.
	SupabaseURL string
	SupabaseKey string

	// RealtimeURL and RealtimeModel select the voice provider endpoint.
	RealtimeURL   string
	RealtimeModel string

	// RedisAddr enables the Redis session store when non-empty; the
	// in-memory store is used otherwise.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// QdrantURL enables knowledge retrieval when non-empty.
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string

	// DocumentBucket is the storage bucket for generated documents.
	DocumentBucket string

	// LogLevel is a logrus level name; defaults to info.
	LogLevel string

	// LogJSON switches the log formatter to JSON.
	LogJSON bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present.
func Load() (*Config, error) {
	// Missing .env just means the environment is already populated.
	_ = godotenv.Load(".env")

	cfg := &Config{
		SupabaseURL:      os.Getenv("SUPABASE_URL"),
		SupabaseKey:      os.Getenv("SUPABASE_ANON_KEY"),
		RealtimeURL:      getEnvDefault("REALTIME_URL", "wss://api.openai.com/v1/realtime"),
		RealtimeModel:    getEnvDefault("REALTIME_MODEL", "gpt-4o-realtime-preview-2024-12-17"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		QdrantURL:        os.Getenv("QDRANT_URL"),
		QdrantAPIKey:     os.Getenv("QDRANT_API_KEY"),
		QdrantCollection: getEnvDefault("QDRANT_COLLECTION", "iasted-knowledge"),
		DocumentBucket:   getEnvDefault("DOCUMENT_BUCKET", "generated-documents"),
		LogLevel:         getEnvDefault("LOG_LEVEL", "info"),
		LogJSON:          getEnvBool("LOG_JSON"),
	}

	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", raw, err)
		}
		cfg.RedisDB = db
	}

	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY are required")
	}

	return cfg, nil
}

// ChatEndpoint is the text-mode completion edge function URL.
func (c *Config) ChatEndpoint() string {
	return c.SupabaseURL + "/functions/v1/chat-iasted"
}

func getEnvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && value
}

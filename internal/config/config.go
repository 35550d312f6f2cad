// Package config provides centralized configuration for the lumina server.
// All configurable values are loaded from environment variables with sensible defaults.
package config

import (
	"os"
	"time"

	"github.com/luminastudio/lumina/internal/engine"
	"github.com/luminastudio/lumina/internal/model"
)

// Config holds all server configuration values.
type Config struct {
	// Port is the HTTP server listen port.
	Port string

	// DBPath is the path to the SQLite gallery database file.
	DBPath string

	// GeminiKey is the API key for the Google Gemini service.
	GeminiKey string

	// TextModel is the model identifier for analysis, prompt enhancement
	// and prompt-idea generation.
	TextModel string

	// BatchPolicy controls multi-image failure handling: "atomic" or "partial".
	BatchPolicy engine.BatchPolicy

	// HTTPTimeout bounds one orchestrated operation, including fan-out.
	HTTPTimeout time.Duration

	// CORSOrigin is the allowed CORS origin. Defaults to "*".
	CORSOrigin string
}

// Load reads configuration from environment variables, applying defaults.
func Load() Config {
	return Config{
		Port:        envOr("PORT", "8080"),
		DBPath:      envOr("DB_PATH", "lumina.db"),
		GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		TextModel:   envOr("GEMINI_TEXT_MODEL", model.ModelGeminiFlash),
		BatchPolicy: batchPolicy(envOr("BATCH_POLICY", string(engine.PolicyAtomic))),
		HTTPTimeout: envDuration("HTTP_TIMEOUT", 120*time.Second),
		CORSOrigin:  envOr("CORS_ORIGIN", "*"),
	}
}

// UseStubs returns true when no API key is configured.
func (c Config) UseStubs() bool {
	return c.GeminiKey == ""
}

func batchPolicy(v string) engine.BatchPolicy {
	if v == string(engine.PolicyPartial) {
		return engine.PolicyPartial
	}
	return engine.PolicyAtomic
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

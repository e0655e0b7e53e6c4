// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/planweave/planweave/internal/llm"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// LLM identifies the model endpoint used for plan generation and voice
	// extraction. Optional: with no provider configured, plan generation is
	// rejected and voice parsing runs on local heuristics only.
	LLM llm.Provider

	// GeocodeURL is the geocoding collaborator endpoint. Optional.
	GeocodeURL string

	// RouteURL is the driving-route collaborator endpoint. Optional: without
	// it, routes are estimated from straight-line distance.
	RouteURL string

	// GeoAPIKey authenticates requests to the geo collaborators.
	GeoAPIKey string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		LLM:         loadProvider(),
		GeocodeURL:  os.Getenv("GEOCODE_URL"),
		RouteURL:    os.Getenv("ROUTE_URL"),
		GeoAPIKey:   os.Getenv("GEO_API_KEY"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// loadProvider builds the model provider settings. LLM_PROVIDER may name a
// known preset (openai, deepseek, moonshot) whose endpoint and model act as
// defaults; LLM_BASE_URL and LLM_MODEL override either way, and LLM_API_KEY
// always comes from the environment.
func loadProvider() llm.Provider {
	name := getEnv("LLM_PROVIDER", "openai")
	p, ok := llm.Preset(name)
	if !ok {
		p = llm.Provider{Name: name}
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		p.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		p.Model = v
	}
	p.APIKey = os.Getenv("LLM_API_KEY")
	return p
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
)

// Provider identifies a generation backend variant. The set is closed and
// the selection happens once at startup; it never changes at runtime.
type Provider string

const (
	ProviderGemini  Provider = "gemini"  // hosted API
	ProviderOllama  Provider = "ollama"  // local server over HTTP
	ProviderBuiltin Provider = "builtin" // in-process model
)

// Config holds the configuration for the application.
type Config struct {
	Provider Provider

	GeminiAPIKey string
	GeminiModel  string

	OllamaBaseURL string
	OllamaModel   string

	// DataFilePath is the preference/history store file.
	DataFilePath string
	// MetricsDBPath is the SQLite database recording backend calls.
	MetricsDBPath string

	// Grocery cart credentials. The integration is mocked, but the cart
	// client still refuses to run without them, as the real one would.
	GroceryAPIKey string
	GroceryUserID string
}

// NewFromEnv creates a new Config object from environment variables.
// Only the provider selection is validated here; a missing API key for the
// selected provider surfaces later as a "generation unavailable" result so
// the planner can fall back instead of refusing to start.
func NewFromEnv() (*Config, error) {
	provider := Provider(os.Getenv("LLM_PROVIDER"))
	if provider == "" {
		provider = ProviderGemini
	}
	switch provider {
	case ProviderGemini, ProviderOllama, ProviderBuiltin:
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (want gemini, ollama or builtin)", provider)
	}

	return &Config{
		Provider:      provider,
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   envOr("GEMINI_MODEL", "gemini-pro"),
		OllamaBaseURL: envOr("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   envOr("OLLAMA_MODEL", "llama3"),
		DataFilePath:  envOr("DATA_FILE", "preferences.json"),
		MetricsDBPath: envOr("METRICS_DB_PATH", "data/metrics.db"),
		GroceryAPIKey: os.Getenv("GROCERY_API_KEY"),
		GroceryUserID: os.Getenv("GROCERY_USER_ID"),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

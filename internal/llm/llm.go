// Package llm provides a uniform interface over interchangeable text
// generation backends. Callers never learn which backend variant is behind
// the interface, and every backend failure collapses to ErrUnavailable.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"family-meal-planner/internal/config"
	"family-meal-planner/internal/extract"
)

// Message roles understood by every backend variant.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrUnavailable is the single signal for any backend failure: missing
// credentials, connection failure, backend-reported error, or a malformed
// payload. Adapters log the detail and surface only this.
var ErrUnavailable = errors.New("generation backend unavailable")

// Message is one turn of a chat-style generation request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tune a single generation call.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// DefaultOptions matches the defaults used across the planner's prompts.
func DefaultOptions() Options {
	return Options{Temperature: 0.7, MaxTokens: 1000}
}

// TextGenerator generates raw text from an ordered message sequence.
// Each call is a single best-effort attempt with no retries.
type TextGenerator interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}

// NewFromConfig selects the backend variant once at startup. The variant set
// is closed: hosted API (gemini), local server (ollama), in-process model
// (builtin).
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (TextGenerator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg, logger)
	case config.ProviderOllama:
		return NewOllamaClient(cfg, logger), nil
	case config.ProviderBuiltin:
		return NewBuiltinModel(logger), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}

// CompleteStructured requests machine-parseable output: it runs a
// system/user prompt pair through the generator and recovers a JSON value
// from the response, tolerating fenced, partial, or decorated JSON. The
// user prompt doubles as fallback context for the extractor.
func CompleteStructured(
	ctx context.Context,
	gen TextGenerator,
	systemPrompt, userPrompt string,
	opts Options,
) (json.RawMessage, error) {
	text, err := gen.Complete(ctx, []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: userPrompt},
	}, opts)
	if err != nil {
		return nil, err
	}
	return extract.Document(text, userPrompt)
}

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"family-meal-planner/internal/config"
)

// geminiClient is the hosted-API backend variant.
type geminiClient struct {
	client       *genai.Client
	defaultModel string
	logger       *zap.Logger
}

// NewGeminiClient creates the hosted backend. A missing API key does not
// fail startup: the client is created in an unavailable state and every
// call reports ErrUnavailable, letting the planner use its local fallback.
func NewGeminiClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (TextGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("no Gemini API key configured, generation will be unavailable")
		return &geminiClient{defaultModel: cfg.GeminiModel, logger: logger}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiClient{
		client:       client,
		defaultModel: cfg.GeminiModel,
		logger:       logger,
	}, nil
}

// Complete sends the message sequence to the Gemini API. System messages
// become the model's system instruction; the remaining turns are joined
// into the prompt text.
func (c *geminiClient) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	if c.client == nil {
		return "", ErrUnavailable
	}

	name := opts.Model
	if name == "" {
		name = c.defaultModel
	}
	model := c.client.GenerativeModel(name)
	model.SetTemperature(float32(opts.Temperature))
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}

	system, prompt := splitSystem(messages)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.logger.Warn("gemini call failed", zap.String("model", name), zap.Error(err))
		return "", ErrUnavailable
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		c.logger.Warn("gemini returned no content", zap.String("model", name))
		return "", ErrUnavailable
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		c.logger.Warn("gemini returned non-text content", zap.String("model", name))
		return "", ErrUnavailable
	}

	return strings.TrimSpace(string(text)), nil
}

// Close closes the underlying Gemini client.
func (c *geminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// splitSystem separates system instructions from the conversational turns.
func splitSystem(messages []Message) (system string, prompt string) {
	var sys, rest []string
	for _, m := range messages {
		if m.Role == RoleSystem {
			sys = append(sys, m.Content)
			continue
		}
		rest = append(rest, m.Content)
	}
	return strings.Join(sys, "\n\n"), strings.Join(rest, "\n\n")
}

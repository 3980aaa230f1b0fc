package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"family-meal-planner/internal/config"
)

// ollamaClient is the local-server backend variant, talking to an Ollama
// instance over its chat API.
type ollamaClient struct {
	baseURL      string
	defaultModel string
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewOllamaClient creates the local-server backend.
func NewOllamaClient(cfg *config.Config, logger *zap.Logger) TextGenerator {
	return &ollamaClient{
		baseURL:      strings.TrimRight(cfg.OllamaBaseURL, "/"),
		defaultModel: cfg.OllamaModel,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Complete posts the chat request to the local server. Connection errors,
// non-200 statuses and undecodable payloads all collapse to ErrUnavailable.
func (c *ollamaClient) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = c.defaultModel
	}

	reqBody := map[string]any{
		"model":    model,
		"messages": messages,
		"stream":   false,
		"options": map[string]any{
			"temperature": opts.Temperature,
			"num_predict": opts.MaxTokens,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		c.logger.Warn("failed to marshal ollama request", zap.Error(err))
		return "", ErrUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewBuffer(jsonBody))
	if err != nil {
		c.logger.Warn("failed to create ollama request", zap.Error(err))
		return "", ErrUnavailable
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("ollama call failed", zap.String("url", c.baseURL), zap.Error(err))
		return "", ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		c.logger.Warn("ollama api error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(bodyBytes)))
		return "", ErrUnavailable
	}

	var chatResp struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		c.logger.Warn("failed to decode ollama response", zap.Error(err))
		return "", ErrUnavailable
	}

	content := strings.TrimSpace(chatResp.Message.Content)
	if content == "" {
		c.logger.Warn("ollama returned no content", zap.String("model", model))
		return "", ErrUnavailable
	}
	return content, nil
}

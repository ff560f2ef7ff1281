package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrProvider wraps any failure of the upstream model call. The raw
// provider response is logged, never returned to the end user.
var ErrProvider = errors.New("model provider request failed")

// Provider produces a completion for a fully built grading prompt.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderConfig holds the model parameters for the grading completion.
type ProviderConfig struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type openAIProvider struct {
	cfg     ProviderConfig
	secrets SecretSource
	client  *http.Client
	logger  zerolog.Logger
}

// NewOpenAIProvider builds a chat-completions client. The credential is
// resolved from the secret source on every call, never stored.
func NewOpenAIProvider(cfg ProviderConfig, secrets SecretSource, logger zerolog.Logger) Provider {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &openAIProvider{
		cfg:     cfg,
		secrets: secrets,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *openAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	apiKey, err := p.secrets.APIKey()
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: p.cfg.Temperature,
		MaxTokens:   p.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		p.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(raw)).
			Msg("Model provider returned an error")
		return "", fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrProvider, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrProvider)
	}

	return completion.Choices[0].Message.Content, nil
}

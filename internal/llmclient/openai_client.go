package llmclient

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

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lumenplan/dayplanner/api/schemas"
	"github.com/lumenplan/dayplanner/internal/config"
)

const hostedBaseURL = "https://api.openai.com"

// OpenAIClient implements schemas.CompletionClient against any
// OpenAI-compatible chat completions endpoint, which covers both the local
// provider (LM Studio, Ollama, llama.cpp server) and the hosted API. The
// client never retries; the caller decides whether a failure is fatal.
type OpenAIClient struct {
	baseURL    string
	model      string
	apiKey     string
	cfg        config.ModelConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// -- Chat completions wire structures --

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// NewOpenAIClient initializes a client for the configured provider.
func NewOpenAIClient(cfg config.ModelConfig, logger *zap.Logger) (*OpenAIClient, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Provider == config.ProviderOpenAI {
		if cfg.APIKey == "" {
			return nil, NewAIError(ErrCodeNotConnected, "hosted provider requires an API key", nil)
		}
		baseURL = hostedBaseURL
	}
	if baseURL == "" {
		return nil, NewAIError(ErrCodeNotConnected, "no endpoint configured", nil)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &OpenAIClient{
		baseURL: baseURL,
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		cfg:     cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		limiter: limiter,
		logger:  logger.Named("llm_client"),
	}, nil
}

// Complete sends one chat completion request and returns the raw text of the
// first choice.
func (c *OpenAIClient) Complete(ctx context.Context, req schemas.CompletionRequest) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", NewAIError(ErrCodeTimeout, "cancelled while waiting for rate limiter", err)
		}
	}

	temperature := c.cfg.Temperature
	if req.Options.Temperature != nil {
		temperature = *req.Options.Temperature
	}
	maxTokens := req.Options.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxTokens
	}

	payload := chatRequest{
		Model:       c.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Stream:      false,
	}
	if req.SystemPrompt != "" {
		payload.Messages = append(payload.Messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	payload.Messages = append(payload.Messages, chatMessage{Role: "user", Content: req.UserPrompt})

	body, err := json.Marshal(payload)
	if err != nil {
		return "", NewAIError(ErrCodeRequestFailed, "failed to marshal request payload", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", NewAIError(ErrCodeRequestFailed, "failed to create HTTP request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.Provider == config.ProviderOpenAI {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return "", NewAIError(ErrCodeTimeout, fmt.Sprintf("request exceeded %s", c.cfg.RequestTimeout), err)
		}
		return "", NewAIError(ErrCodeNotConnected, "provider unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewAIError(ErrCodeInvalidResponse, "failed to read response body", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", NewAIError(ErrCodeNotConnected, fmt.Sprintf("provider rejected credentials (status %d)", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", NewAIError(ErrCodeRequestFailed, fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(string(respBody), 200)), nil)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", NewAIError(ErrCodeInvalidResponse, "malformed completion envelope", err)
	}
	if len(parsed.Choices) == 0 {
		return "", NewAIError(ErrCodeInvalidResponse, "completion envelope has no choices", nil)
	}

	c.logger.Debug("Completion finished",
		zap.Duration("duration", time.Since(start)),
		zap.Int("prompt_tokens", parsed.Usage.PromptTokens),
		zap.Int("completion_tokens", parsed.Usage.CompletionTokens),
		zap.String("finish_reason", parsed.Choices[0].FinishReason),
	)

	return parsed.Choices[0].Message.Content, nil
}

// Close releases client resources.
func (c *OpenAIClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// BaseURL exposes the resolved endpoint, used by the health monitor so both
// point at the same server.
func (c *OpenAIClient) BaseURL() string { return c.baseURL }

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

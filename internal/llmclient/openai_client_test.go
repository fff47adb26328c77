package llmclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lumenplan/dayplanner/api/schemas"
	"github.com/lumenplan/dayplanner/internal/config"
)

func floatPtr(v float64) *float64 { return &v }

func localConfig(baseURL string) config.ModelConfig {
	return config.ModelConfig{
		Provider:       config.ProviderLocal,
		BaseURL:        baseURL,
		Model:          "test-model",
		RequestTimeout: 5 * time.Second,
	}
}

func completionEnvelope(content string) string {
	env := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
	data, _ := json.Marshal(env)
	return string(data)
}

func TestCompleteSuccess(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(completionEnvelope(`{"intent": "schedule"}`)))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(localConfig(server.URL), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer client.Close()

	got, err := client.Complete(context.Background(), schemas.CompletionRequest{
		SystemPrompt: "You classify messages.",
		UserPrompt:   "Schedule a workout at 7am",
		Options:      schemas.CompletionOptions{Temperature: floatPtr(0.2), MaxTokens: 500},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"intent": "schedule"}`, got)

	assert.Empty(t, gotAuth, "local provider must not send credentials")
	assert.Equal(t, "test-model", gotBody.Model)
	assert.False(t, gotBody.Stream)
	assert.InDelta(t, 0.2, gotBody.Temperature, 1e-9)
	assert.Equal(t, 500, gotBody.MaxTokens)
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Equal(t, "user", gotBody.Messages[1].Role)
}

func TestCompleteUsesConfiguredGenerationDefaults(t *testing.T) {
	var gotBody chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(completionEnvelope("ok")))
	}))
	defer server.Close()

	cfg := localConfig(server.URL)
	cfg.Temperature = 0.7
	cfg.MaxTokens = 1000

	client, err := NewOpenAIClient(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), schemas.CompletionRequest{UserPrompt: "hi"})
	require.NoError(t, err)
	assert.InDelta(t, 0.7, gotBody.Temperature, 1e-9)
	assert.Equal(t, 1000, gotBody.MaxTokens)
}

func TestCompleteHonorsExplicitZeroTemperature(t *testing.T) {
	var gotBody chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(completionEnvelope("ok")))
	}))
	defer server.Close()

	cfg := localConfig(server.URL)
	cfg.Temperature = 0.7

	client, err := NewOpenAIClient(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), schemas.CompletionRequest{
		UserPrompt: "hi",
		Options:    schemas.CompletionOptions{Temperature: floatPtr(0)},
	})
	require.NoError(t, err)
	assert.Zero(t, gotBody.Temperature, "an explicit zero temperature must not fall back to the configured default")
}

func TestCompleteErrorMapping(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		expected ErrorCode
	}{
		{name: "unauthorized means not connected", status: http.StatusUnauthorized, body: "{}", expected: ErrCodeNotConnected},
		{name: "forbidden means not connected", status: http.StatusForbidden, body: "{}", expected: ErrCodeNotConnected},
		{name: "server error means request failed", status: http.StatusInternalServerError, body: "boom", expected: ErrCodeRequestFailed},
		{name: "rate limited means request failed", status: http.StatusTooManyRequests, body: "slow down", expected: ErrCodeRequestFailed},
		{name: "garbage envelope means invalid response", status: http.StatusOK, body: "<html>nope</html>", expected: ErrCodeInvalidResponse},
		{name: "empty choices means invalid response", status: http.StatusOK, body: `{"choices": []}`, expected: ErrCodeInvalidResponse},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client, err := NewOpenAIClient(localConfig(server.URL), zaptest.NewLogger(t))
			require.NoError(t, err)

			_, err = client.Complete(context.Background(), schemas.CompletionRequest{UserPrompt: "hi"})
			require.Error(t, err)
			assert.Equal(t, tc.expected, CodeOf(err))
		})
	}
}

func TestCompleteUnreachableProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client, err := NewOpenAIClient(localConfig(server.URL), zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), schemas.CompletionRequest{UserPrompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, ErrCodeNotConnected, CodeOf(err))
}

func TestCompleteTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(completionEnvelope("too late")))
	}))
	defer server.Close()

	cfg := localConfig(server.URL)
	cfg.RequestTimeout = 20 * time.Millisecond

	client, err := NewOpenAIClient(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), schemas.CompletionRequest{UserPrompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, ErrCodeTimeout, CodeOf(err))
}

func TestCompleteNeverRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewOpenAIClient(localConfig(server.URL), zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), schemas.CompletionRequest{UserPrompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "a failed completion must not be retried")
}

func TestNewOpenAIClientValidation(t *testing.T) {
	t.Run("hosted provider without key is rejected", func(t *testing.T) {
		cfg := config.ModelConfig{Provider: config.ProviderOpenAI, RequestTimeout: time.Second}
		_, err := NewOpenAIClient(cfg, zaptest.NewLogger(t))
		require.Error(t, err)
		assert.Equal(t, ErrCodeNotConnected, CodeOf(err))
	})

	t.Run("hosted provider ignores base url", func(t *testing.T) {
		cfg := config.ModelConfig{
			Provider:       config.ProviderOpenAI,
			BaseURL:        "http://localhost:1234",
			APIKey:         "sk-test",
			RequestTimeout: time.Second,
		}
		client, err := NewOpenAIClient(cfg, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.Equal(t, "https://api.openai.com", client.BaseURL())
	})

	t.Run("local provider without base url is rejected", func(t *testing.T) {
		cfg := config.ModelConfig{Provider: config.ProviderLocal, RequestTimeout: time.Second}
		_, err := NewOpenAIClient(cfg, zaptest.NewLogger(t))
		require.Error(t, err)
	})

	t.Run("trailing slash is trimmed", func(t *testing.T) {
		cfg := localConfig("http://localhost:1234/")
		client, err := NewOpenAIClient(cfg, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:1234", client.BaseURL())
	})
}

func TestFactory(t *testing.T) {
	client, err := NewClient(localConfig("http://localhost:1234"), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer client.Close()

	_, ok := client.(*OpenAIClient)
	assert.True(t, ok)
}

package schemas

import (
	"context"
	"time"
)

// CompletionOptions tunes a single generation call.
type CompletionOptions struct {
	// Temperature is nil when the caller wants the configured default; a
	// pointer so an explicit zero is distinguishable from unset. Lower is
	// more deterministic.
	Temperature *float64 `json:"temperature,omitempty"`
	// MaxTokens is the completion length cap; zero means the configured
	// default.
	MaxTokens int `json:"max_tokens"`
}

// CompletionRequest is one prompt to the configured language model.
type CompletionRequest struct {
	SystemPrompt string            `json:"system_prompt"`
	UserPrompt   string            `json:"user_prompt"`
	Options      CompletionOptions `json:"options"`
}

// CompletionClient turns a prompt into raw completion text from one
// configured provider. Implementations own connectivity, timeout and auth;
// they never retry on their own, the caller decides what a failure means.
type CompletionClient interface {
	// Complete produces a text completion. Errors are *AIError values from
	// the llmclient package so callers can distinguish connectivity from
	// protocol failures.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// HealthStatus is a point-in-time snapshot of provider reachability, produced
// by the connectivity monitor and passed into the pipeline. It replaces an
// observable global flag: the probe task is the only writer.
type HealthStatus struct {
	Connected bool      `json:"connected"`
	CheckedAt time.Time `json:"checked_at"`
	// Detail carries the probe failure reason when Connected is false.
	Detail string `json:"detail,omitempty"`
}

// HealthSource exposes the monitor's latest status to the pipeline without
// sharing its internals.
type HealthSource interface {
	Status() HealthStatus
}

// InsightSource supplies optional pattern-learning enrichment: short
// human-readable observations about the user's habits. The pipeline treats
// these as opaque strings appended to the classifier prompt.
type InsightSource interface {
	Insights(ctx context.Context, limit int) []string
}

package llmclient

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lumenplan/dayplanner/api/schemas"
	"github.com/lumenplan/dayplanner/internal/config"
)

// NewClient builds the completion client for the configured provider. Both
// providers speak the OpenAI chat completions wire format, so they share one
// implementation; the factory keeps the door open for providers that do not.
func NewClient(cfg config.ModelConfig, logger *zap.Logger) (schemas.CompletionClient, error) {
	switch cfg.Provider {
	case config.ProviderLocal, config.ProviderOpenAI:
		return NewOpenAIClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown completion provider %q (supported: %s, %s)",
			cfg.Provider, config.ProviderLocal, config.ProviderOpenAI)
	}
}

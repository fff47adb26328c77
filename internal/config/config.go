package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/lumenplan/dayplanner/api/schemas"
)

// Provider names the kind of completion endpoint the assistant talks to.
type Provider string

const (
	// ProviderLocal is an OpenAI-compatible server on the local machine
	// (LM Studio, Ollama's compatibility endpoint, llama.cpp's server).
	ProviderLocal Provider = "local"
	// ProviderOpenAI is the hosted OpenAI API; requires an API key.
	ProviderOpenAI Provider = "openai"
)

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// ModelConfig describes the completion endpoint and generation parameters.
type ModelConfig struct {
	Provider Provider `mapstructure:"provider" yaml:"provider"`
	// BaseURL is used by the local provider; the hosted provider has a fixed
	// endpoint and ignores it.
	BaseURL     string  `mapstructure:"base_url" yaml:"base_url"`
	Model       string  `mapstructure:"model" yaml:"model"`
	APIKey      string  `mapstructure:"api_key" yaml:"-"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	// RequestTimeout bounds one completion call; ProbeTimeout bounds one
	// connectivity probe; ProbeInterval is the poll period.
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	ProbeTimeout   time.Duration `mapstructure:"probe_timeout" yaml:"probe_timeout"`
	ProbeInterval  time.Duration `mapstructure:"probe_interval" yaml:"probe_interval"`
	// RequestsPerSecond throttles outbound completion calls; zero disables
	// the limiter.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
}

// AssistantConfig holds the pipeline policy knobs.
type AssistantConfig struct {
	Model ModelConfig `mapstructure:"model" yaml:"model"`
	// Thresholds is the single auto-apply confidence table, keyed by action
	// kind. Both the classifier prompt and the dispatcher gate read it, so
	// the two can never drift apart.
	Thresholds map[string]float64 `mapstructure:"thresholds" yaml:"thresholds"`
	// MaxInsights caps how many pattern insights are folded into the
	// classifier prompt.
	MaxInsights int `mapstructure:"max_insights" yaml:"max_insights"`
}

// Threshold returns the auto-apply floor for an action, falling back to the
// shipped default when the table has no entry.
func (a AssistantConfig) Threshold(action schemas.AssistantAction) float64 {
	if v, ok := a.Thresholds[string(action)]; ok {
		return v
	}
	return defaultThresholds[action]
}

// defaultThresholds are the design defaults; deployments may override any
// entry via assistant.thresholds.*.
var defaultThresholds = map[schemas.AssistantAction]float64{
	schemas.ActionCreateEvent:       0.7,
	schemas.ActionCreateGoal:        0.8,
	schemas.ActionCreatePillar:      0.85,
	schemas.ActionCreateChain:       0.75,
	schemas.ActionSuggestActivities: 0.6,
	schemas.ActionGeneralChat:       0,
}

// StoreConfig locates the planner database.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// Config is the whole application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Assistant AssistantConfig `mapstructure:"assistant" yaml:"assistant"`
	Store     StoreConfig     `mapstructure:"store" yaml:"store"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "dayplanner")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Model --
	v.SetDefault("assistant.model.provider", string(ProviderLocal))
	v.SetDefault("assistant.model.base_url", "http://localhost:1234")
	v.SetDefault("assistant.model.model", "local-model")
	v.SetDefault("assistant.model.temperature", 0.7)
	v.SetDefault("assistant.model.max_tokens", 1000)
	v.SetDefault("assistant.model.request_timeout", "30s")
	v.SetDefault("assistant.model.probe_timeout", "5s")
	v.SetDefault("assistant.model.probe_interval", "30s")
	v.SetDefault("assistant.model.requests_per_second", 2.0)

	// -- Assistant --
	v.SetDefault("assistant.max_insights", 5)

	// -- Store --
	v.SetDefault("store.path", "dayplanner.db")
}

// NewDefaultConfig returns a configuration populated with defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewFromViper(v)
	if err != nil {
		// Defaults must always validate; anything else is a programming error.
		panic(fmt.Sprintf("failed to build default config: %v", err))
	}
	return cfg
}

// NewFromViper unmarshals and validates a configuration from a viper
// instance. The API key is additionally bound to DAYPLANNER_OPENAI_API_KEY so
// secrets stay out of config files.
func NewFromViper(v *viper.Viper) (*Config, error) {
	v.BindEnv("assistant.model.api_key", "DAYPLANNER_OPENAI_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	m := c.Assistant.Model
	switch m.Provider {
	case ProviderLocal:
		if m.BaseURL == "" {
			return fmt.Errorf("assistant.model.base_url is required for the local provider")
		}
	case ProviderOpenAI:
		if m.APIKey == "" {
			return fmt.Errorf("assistant.model.api_key is required for the openai provider (set DAYPLANNER_OPENAI_API_KEY)")
		}
	default:
		return fmt.Errorf("unknown assistant.model.provider %q (supported: local, openai)", m.Provider)
	}
	if m.RequestTimeout <= 0 {
		return fmt.Errorf("assistant.model.request_timeout must be positive")
	}
	if m.ProbeInterval <= 0 {
		return fmt.Errorf("assistant.model.probe_interval must be positive")
	}
	for action, threshold := range c.Assistant.Thresholds {
		if !schemas.AssistantAction(action).Valid() {
			return fmt.Errorf("assistant.thresholds: unknown action %q", action)
		}
		if threshold < 0 || threshold > 1 {
			return fmt.Errorf("assistant.thresholds.%s: %v outside [0,1]", action, threshold)
		}
	}
	return nil
}

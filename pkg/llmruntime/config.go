package llmruntime

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config overrides the built-in defaults.
// Environment variables still take precedence over the values here.
type Config struct {
	// DefaultProvider is used when neither the argument nor the
	// environment selects a provider: gemini|openai
	DefaultProvider string `json:"default_provider,omitempty" yaml:"default_provider,omitempty" validate:"omitempty,oneof=gemini openai"`
	// DotEnv specifies dotenv files to read variables from.
	// The process environment takes precedence.
	DotEnv []string `json:"dotenv,omitempty" yaml:"dotenv,omitempty"`

	Gemini ProviderConfig `json:"gemini" yaml:"gemini"`
	OpenAI ProviderConfig `json:"openai" yaml:"openai"`
}

// ProviderConfig specifies per-provider defaults
type ProviderConfig struct {
	DefaultModel string `json:"default_model,omitempty" yaml:"default_model,omitempty"`
	// DefaultTemperature is used when no temperature variable is set.
	DefaultTemperature *float64 `json:"default_temperature,omitempty" yaml:"default_temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	// DefaultMaxTokens is used when no token limit variable is set,
	// zero omits the limit.
	DefaultMaxTokens *int `json:"default_max_tokens,omitempty" yaml:"default_max_tokens,omitempty" validate:"omitempty,gte=0"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultProvider: string(DefaultProvider),
		Gemini: ProviderConfig{
			DefaultModel:       DefaultGeminiModel,
			DefaultTemperature: ptr(0.0),
			DefaultMaxTokens:   ptr(DefaultGeminiMaxOutputTokens),
		},
		OpenAI: ProviderConfig{
			DefaultModel:       DefaultOpenAIModel,
			DefaultTemperature: ptr(0.0),
			DefaultMaxTokens:   ptr(DefaultOpenAIMaxTokens),
		},
	}
}

// LoadConfig from file, the missing values are taken from DefaultConfig
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		if err := configloader.UnmarshalAndExpand(file, cfg); err != nil {
			return nil, errors.Mark(errors.WithMessagef(err, "failed to load %s", file), ErrConfig)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg.withDefaults(), nil
}

// Validate checks the config values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Mark(errors.WithMessage(err, "invalid configuration"), ErrConfig)
	}
	return nil
}

func (c *Config) withDefaults() *Config {
	def := DefaultConfig()
	res := *c
	res.DefaultProvider = values.StringsCoalesce(c.DefaultProvider, def.DefaultProvider)
	res.Gemini = c.Gemini.withDefaults(def.Gemini)
	res.OpenAI = c.OpenAI.withDefaults(def.OpenAI)
	return &res
}

func (c *Config) provider(p Provider) ProviderConfig {
	if p == OpenAI {
		return c.OpenAI
	}
	return c.Gemini
}

func (c ProviderConfig) withDefaults(def ProviderConfig) ProviderConfig {
	c.DefaultModel = values.StringsCoalesce(c.DefaultModel, def.DefaultModel)
	if c.DefaultTemperature == nil {
		c.DefaultTemperature = def.DefaultTemperature
	}
	if c.DefaultMaxTokens == nil {
		c.DefaultMaxTokens = def.DefaultMaxTokens
	}
	return c
}

func ptr[T any](v T) *T {
	return &v
}

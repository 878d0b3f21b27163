package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig

	// Timeout bounds a single completion. Calls are never retried.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI-specific configuration. BaseURL points the
// client at any OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// DefaultConfig returns the Anthropic provider with a small, fast model
// for every vendor.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Timeout:    60 * time.Second,
	}
}

// envBinding ties one INTERVIEWZ_* variable to a Config field.
type envBinding struct {
	name string
	set  func(*Config, string) error
}

var envBindings = []envBinding{
	{"INTERVIEWZ_LLM_PROVIDER", func(c *Config, v string) error { c.Provider = v; return nil }},
	{"INTERVIEWZ_ANTHROPIC_API_KEY", func(c *Config, v string) error { c.Anthropic.APIKey = v; return nil }},
	{"INTERVIEWZ_ANTHROPIC_MODEL", func(c *Config, v string) error { c.Anthropic.Model = v; return nil }},
	{"INTERVIEWZ_OPENAI_API_KEY", func(c *Config, v string) error { c.OpenAI.APIKey = v; return nil }},
	{"INTERVIEWZ_OPENAI_MODEL", func(c *Config, v string) error { c.OpenAI.Model = v; return nil }},
	{"INTERVIEWZ_OPENAI_BASE_URL", func(c *Config, v string) error { c.OpenAI.BaseURL = v; return nil }},
	{"INTERVIEWZ_GEMINI_API_KEY", func(c *Config, v string) error { c.Gemini.APIKey = v; return nil }},
	{"INTERVIEWZ_GEMINI_MODEL", func(c *Config, v string) error { c.Gemini.Model = v; return nil }},
	{"INTERVIEWZ_OPENROUTER_API_KEY", func(c *Config, v string) error { c.OpenRouter.APIKey = v; return nil }},
	{"INTERVIEWZ_OPENROUTER_MODEL", func(c *Config, v string) error { c.OpenRouter.Model = v; return nil }},
	{"INTERVIEWZ_LLM_TIMEOUT", func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Timeout = d
		return nil
	}},
}

// ConfigFromEnv builds a Config from INTERVIEWZ_* variables over the
// defaults. Malformed values are ignored.
func ConfigFromEnv() Config {
	cfg, _ := configFromLookup(os.LookupEnv)
	return cfg
}

// configFromLookup applies every set variable and reports the names of
// those that failed to parse.
func configFromLookup(lookup func(string) (string, bool)) (Config, []string) {
	cfg := DefaultConfig()
	var bad []string
	for _, b := range envBindings {
		v, ok := lookup(b.name)
		if !ok || v == "" {
			continue
		}
		if err := b.set(&cfg, v); err != nil {
			bad = append(bad, b.name)
		}
	}
	return cfg, bad
}

// vendorKeys lists the vendors' own key variables in discovery order.
var vendorKeys = []struct {
	env      string
	provider string
}{
	{"GEMINI_API_KEY", ProviderGemini},
	{"OPENAI_API_KEY", ProviderOpenAI},
	{"ANTHROPIC_API_KEY", ProviderAnthropic},
	{"OPENROUTER_API_KEY", ProviderOpenRouter},
}

// DiscoverConfig selects the first provider whose vendor key variable
// (GEMINI_API_KEY, OPENAI_API_KEY, ...) is set.
func DiscoverConfig() (Config, bool) {
	return discoverFromLookup(os.LookupEnv)
}

func discoverFromLookup(lookup func(string) (string, bool)) (Config, bool) {
	for _, vk := range vendorKeys {
		key, ok := lookup(vk.env)
		if !ok || key == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = vk.provider
		cfg.setKey(key)
		return cfg, true
	}
	return Config{}, false
}

func (c *Config) setKey(key string) {
	switch c.Provider {
	case ProviderAnthropic:
		c.Anthropic.APIKey = key
	case ProviderOpenAI:
		c.OpenAI.APIKey = key
	case ProviderGemini:
		c.Gemini.APIKey = key
	case ProviderOpenRouter:
		c.OpenRouter.APIKey = key
	}
}

func (c Config) apiKey() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	case ProviderGemini:
		return c.Gemini.APIKey
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey
	}
	return ""
}

// Validate checks that the selected provider is known and has its API key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.apiKey() == "" {
			return fmt.Errorf("INTERVIEWZ_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}

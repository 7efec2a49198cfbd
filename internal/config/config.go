// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/opinity/proposal-generator/internal/llm"
	"github.com/opinity/proposal-generator/internal/types"
)

// Defaults
const (
	DefaultPort               = 8080
	DefaultLanguage           = "en"
	DefaultVariant            = "extended"
	DefaultLogMode            = "dev"
	DefaultRateLimitPerMinute = 10
	DefaultMaxAudioBytes      = 20 << 20
)

// Config represents the application configuration. It can be loaded from a JSON or
// YAML file; environment variables override file values.
type Config struct {
	APIKey       string `json:"api_key,omitempty" yaml:"api_key,omitempty"`               // Gemini API key
	OpenAIAPIKey string `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty"` // OpenAI API key
	Provider     string `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=gemini openai"`
	Model        string `json:"model,omitempty" yaml:"model,omitempty"` // Overrides the standard tier model

	Port     int    `json:"port,omitempty" yaml:"port,omitempty" validate:"min=1,max=65535"`
	Language string `json:"language,omitempty" yaml:"language,omitempty" validate:"oneof=en nl"`
	Variant  string `json:"variant,omitempty" yaml:"variant,omitempty" validate:"oneof=basic extended"`
	LogMode  string `json:"log_mode,omitempty" yaml:"log_mode,omitempty" validate:"oneof=dev development prod production"`

	LinkedInEnrich     bool  `json:"linkedin_enrich,omitempty" yaml:"linkedin_enrich,omitempty"` // Fetch the profile headline
	UseBrowser         bool  `json:"use_browser,omitempty" yaml:"use_browser,omitempty"`         // Headless fallback for the profile fetch
	RateLimitPerMinute *int  `json:"rate_limit_per_minute,omitempty" yaml:"rate_limit_per_minute,omitempty" validate:"omitempty,min=0"` // 0 disables limiting
	MaxAudioBytes      int64 `json:"max_audio_bytes,omitempty" yaml:"max_audio_bytes,omitempty" validate:"min=1"`
	Verbose            bool  `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Provider:           string(llm.ProviderGemini),
		Port:               DefaultPort,
		Language:           DefaultLanguage,
		Variant:            DefaultVariant,
		LogMode:            DefaultLogMode,
		RateLimitPerMinute: intPtr(DefaultRateLimitPerMinute),
		MaxAudioBytes:      DefaultMaxAudioBytes,
	}
}

// LoadConfig loads configuration from a JSON or YAML file (chosen by extension).
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load reads the optional file at path, applies the process environment, fills defaults
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields from environment variables. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("GEMINI_API_KEY", &c.APIKey)
	str("OPENAI_API_KEY", &c.OpenAIAPIKey)
	str("LLM_PROVIDER", &c.Provider)
	str("LLM_MODEL", &c.Model)
	str("PROPOSAL_LANGUAGE", &c.Language)
	str("PROPOSAL_VARIANT", &c.Variant)
	str("LOG_MODE", &c.LogMode)

	var errs []error
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config error: PORT must be a number: %w", err))
		}
		c.Port = port
	}
	if v, ok := lookup("RATE_LIMIT_PER_MINUTE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config error: RATE_LIMIT_PER_MINUTE must be a number: %w", err))
		}
		c.RateLimitPerMinute = &n
	}
	if v, ok := lookup("LINKEDIN_ENRICH"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config error: LINKEDIN_ENRICH must be a boolean: %w", err))
		}
		c.LinkedInEnrich = b
	}
	return errors.Join(errs...)
}

// Validate checks that the configuration has valid values.
// A missing API key is not an error here; generation reports it when it is needed.
func (c *Config) Validate() error {
	err := types.Validator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config error: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("'%s' is invalid (%s=%s, got %v)", strings.ToLower(fe.Field()), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.OpenAIAPIKey == "" {
		result.OpenAIAPIKey = defaults.OpenAIAPIKey
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Language == "" {
		result.Language = defaults.Language
	}
	if result.Variant == "" {
		result.Variant = defaults.Variant
	}
	if result.LogMode == "" {
		result.LogMode = defaults.LogMode
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	switch {
	case result.RateLimitPerMinute != nil:
		result.RateLimitPerMinute = intPtr(*result.RateLimitPerMinute)
	case defaults.RateLimitPerMinute != nil:
		result.RateLimitPerMinute = intPtr(*defaults.RateLimitPerMinute)
	}
	if result.MaxAudioBytes == 0 {
		result.MaxAudioBytes = defaults.MaxAudioBytes
	}

	// Bool fields: cannot distinguish unset from false, so they are not merged

	return result
}

// RateLimit returns the POST requests allowed per client and minute; 0 means unlimited.
func (c *Config) RateLimit() int {
	if c.RateLimitPerMinute == nil {
		return DefaultRateLimitPerMinute
	}
	return *c.RateLimitPerMinute
}

func intPtr(n int) *int { return &n }

// LLMConfig returns the model configuration for the selected provider.
func (c *Config) LLMConfig() *llm.Config {
	provider, err := llm.ParseProvider(c.Provider)
	if err != nil {
		provider = llm.ProviderGemini
	}
	cfg := llm.ConfigFor(provider)
	if c.Model != "" {
		cfg = cfg.WithModel(llm.TierStandard, c.Model)
	}
	return cfg
}

// ProviderAPIKey returns the key of the selected provider.
func (c *Config) ProviderAPIKey() string {
	if c.Provider == string(llm.ProviderOpenAI) {
		return c.OpenAIAPIKey
	}
	return c.APIKey
}

// ProposalLanguage returns the configured default language.
func (c *Config) ProposalLanguage() types.Language {
	lang, err := types.ParseLanguage(c.Language)
	if err != nil {
		return types.LanguageEnglish
	}
	return lang
}

// ProposalVariant returns the configured proposal variant.
func (c *Config) ProposalVariant() types.SchemaVariant {
	v, err := types.ParseVariant(c.Variant)
	if err != nil {
		return types.VariantExtended
	}
	return v
}

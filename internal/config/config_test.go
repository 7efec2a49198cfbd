package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opinity/proposal-generator/internal/llm"
	"github.com/opinity/proposal-generator/internal/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"api_key": "gem-key",
		"language": "nl",
		"port": 9090,
		"linkedin_enrich": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "gem-key", cfg.APIKey)
	assert.Equal(t, "nl", cfg.Language)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.LinkedInEnrich)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "provider: openai\nmodel: gpt-4o\nvariant: basic\nrate_limit_per_minute: 3\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "basic", cfg.Variant)
	require.NotNil(t, cfg.RateLimitPerMinute)
	assert.Equal(t, 3, cfg.RateLimit())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeFile(t, "config.yml", "port: [unclosed")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestApplyEnv(t *testing.T) {
	cfg := &Config{APIKey: "from-file", Port: 1}
	err := cfg.ApplyEnv(envMap(map[string]string{
		"GEMINI_API_KEY":        "from-env",
		"OPENAI_API_KEY":        "sk-test",
		"LLM_PROVIDER":          "openai",
		"PORT":                  "3000",
		"PROPOSAL_LANGUAGE":     "nl",
		"LINKEDIN_ENRICH":       "true",
		"RATE_LIMIT_PER_MINUTE": "42",
		"LLM_MODEL":             "",
	}))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "nl", cfg.Language)
	assert.True(t, cfg.LinkedInEnrich)
	assert.Equal(t, 42, cfg.RateLimit())
	assert.Empty(t, cfg.Model)
}

func TestApplyEnv_BadNumbers(t *testing.T) {
	cfg := &Config{}
	err := cfg.ApplyEnv(envMap(map[string]string{"PORT": "eighty", "LINKEDIN_ENRICH": "maybe"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "LINKEDIN_ENRICH")
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Language: "nl"}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "nl", merged.Language)
	assert.Equal(t, DefaultPort, merged.Port)
	assert.Equal(t, DefaultVariant, merged.Variant)
	assert.Equal(t, "gemini", merged.Provider)
	assert.Equal(t, int64(DefaultMaxAudioBytes), merged.MaxAudioBytes)
	assert.NoError(t, merged.Validate())
}

func TestRateLimit_ZeroDisables(t *testing.T) {
	t.Run("env zero survives defaults", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{"RATE_LIMIT_PER_MINUTE": "0"})))

		merged := cfg.MergeWithDefaults(Defaults())
		require.NoError(t, merged.Validate())
		assert.Equal(t, 0, merged.RateLimit())
	})

	t.Run("yaml zero survives defaults", func(t *testing.T) {
		cfg, err := LoadConfig(writeFile(t, "config.yaml", "rate_limit_per_minute: 0\n"))
		require.NoError(t, err)

		merged := cfg.MergeWithDefaults(Defaults())
		assert.Equal(t, 0, merged.RateLimit())
	})

	t.Run("unset uses default", func(t *testing.T) {
		merged := (&Config{}).MergeWithDefaults(Defaults())
		assert.Equal(t, DefaultRateLimitPerMinute, merged.RateLimit())
		assert.Equal(t, DefaultRateLimitPerMinute, (&Config{}).RateLimit())
	})

	t.Run("negative rejected", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{"RATE_LIMIT_PER_MINUTE": "-5"})))
		merged := cfg.MergeWithDefaults(Defaults())
		assert.ErrorContains(t, merged.Validate(), "'ratelimitperminute'")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"missing key is fine", func(c *Config) { c.APIKey = "" }, ""},
		{"bad language", func(c *Config) { c.Language = "fr" }, "'language'"},
		{"bad variant", func(c *Config) { c.Variant = "huge" }, "'variant'"},
		{"bad provider", func(c *Config) { c.Provider = "llama" }, "'provider'"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "'port'"},
		{"bad rate", func(c *Config) { c.RateLimitPerMinute = intPtr(-1) }, "'ratelimitperminute'"},
		{"rate limit disabled", func(c *Config) { c.RateLimitPerMinute = intPtr(0) }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, "config.json", `{"language": "nl", "port": 9000}`)
	t.Setenv("PORT", "9100")
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "nl", cfg.Language)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "env-key", cfg.ProviderAPIKey())
	assert.Equal(t, types.LanguageDutch, cfg.ProposalLanguage())
	assert.Equal(t, types.VariantExtended, cfg.ProposalVariant())
}

func TestLLMConfig(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, llm.ProviderGemini, cfg.LLMConfig().Provider)

	cfg.Provider = "openai"
	cfg.OpenAIAPIKey = "sk"
	cfg.Model = "gpt-4o"
	lc := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderOpenAI, lc.Provider)
	assert.Equal(t, "gpt-4o", lc.GetModel(llm.TierStandard))
	assert.Equal(t, "whisper-1", lc.TranscriptionModel)
	assert.Equal(t, "sk", cfg.ProviderAPIKey())
}

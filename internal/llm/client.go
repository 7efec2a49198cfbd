package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoContent is returned when the provider answered without any text.
var ErrNoContent = errors.New("no text content in response")

// StructuredRequest asks the model for a JSON document matching ResponseSchema.
type StructuredRequest struct {
	SystemInstruction string
	Prompt            string
	ResponseSchema    *Schema
	// SchemaName identifies the schema for providers that require a name
	SchemaName  string
	Temperature float32
}

// AudioRequest asks the model to turn an audio clip into text.
type AudioRequest struct {
	Audio       []byte
	MIMEType    string
	Instruction string
	// Language is an ISO-639-1 hint (en, nl)
	Language string
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateStructured returns the raw JSON text produced for req
	GenerateStructured(ctx context.Context, req StructuredRequest, tier ModelTier) (string, error)
	// Transcribe returns the transcript of an audio clip
	Transcribe(ctx context.Context, req AudioRequest, tier ModelTier) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// Factory creates a Client for an API key. Callers create one client per
// operation and close it when done.
type Factory func(ctx context.Context, config *Config, apiKey string) (Client, error)

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	switch config.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey), nil
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// Package transcription converts recorded voice notes to text through the LLM provider.
package transcription

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/opinity/proposal-generator/internal/audio"
	"github.com/opinity/proposal-generator/internal/llm"
	"github.com/opinity/proposal-generator/internal/logger"
	"github.com/opinity/proposal-generator/internal/prompts"
	"github.com/opinity/proposal-generator/internal/proposal"
	"github.com/opinity/proposal-generator/internal/types"
)

// Transcriber turns audio clips into verbatim text.
type Transcriber struct {
	apiKey    string
	config    *llm.Config
	newClient llm.Factory
	log       *logger.Logger
}

// Option configures a Transcriber
type Option func(*Transcriber)

// WithClientFactory replaces the function used to build LLM clients.
func WithClientFactory(f llm.Factory) Option {
	return func(t *Transcriber) { t.newClient = f }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(t *Transcriber) { t.log = l }
}

// New creates a Transcriber. A nil config uses the default provider configuration.
func New(apiKey string, config *llm.Config, opts ...Option) *Transcriber {
	if config == nil {
		config = llm.DefaultConfig()
	}
	t := &Transcriber{
		apiKey:    apiKey,
		config:    config,
		newClient: llm.NewClient,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe decodes base64 audio and transcribes it. The input is not validated:
// undecodable data surfaces as a ServiceError, the same as a provider rejection.
// An answer without text yields "" and a nil error.
func (t *Transcriber) Transcribe(ctx context.Context, base64Audio string, lang types.Language) (string, error) {
	if t.apiKey == "" {
		return "", &proposal.ConfigurationError{Message: proposal.MissingKeyMessage}
	}

	data, err := base64.StdEncoding.DecodeString(base64Audio)
	if err != nil {
		return "", &proposal.ServiceError{Message: "audio payload could not be decoded", Cause: err}
	}
	return t.transcribe(ctx, &audio.Clip{Data: data, MIMEType: audio.DetectMIME(data)}, lang)
}

// TranscribeClip transcribes an already captured clip using its detected MIME type.
func (t *Transcriber) TranscribeClip(ctx context.Context, clip *audio.Clip, lang types.Language) (string, error) {
	if t.apiKey == "" {
		return "", &proposal.ConfigurationError{Message: proposal.MissingKeyMessage}
	}
	return t.transcribe(ctx, clip, lang)
}

func (t *Transcriber) transcribe(ctx context.Context, clip *audio.Clip, lang types.Language) (string, error) {
	if lang == "" {
		lang = types.LanguageEnglish
	}

	client, err := t.newClient(ctx, t.config, t.apiKey)
	if err != nil {
		return "", &proposal.ServiceError{Message: "failed to create LLM client", Cause: err}
	}
	defer func() { _ = client.Close() }()

	t.log.Info("transcribing voice note", "bytes", clip.Size(), "mime_type", clip.MIMEType, "language", string(lang))

	text, err := client.Transcribe(ctx, llm.AudioRequest{
		Audio:       clip.Data,
		MIMEType:    clip.MIMEType,
		Instruction: BuildInstruction(lang),
		Language:    string(lang),
	}, llm.TierStandard)
	if err != nil {
		if errors.Is(err, llm.ErrNoContent) {
			t.log.Info("no transcription available")
			return "", nil
		}
		t.log.Error("transcription failed", "error", err)
		return "", &proposal.ServiceError{Message: "failed to transcribe audio", Cause: err}
	}
	return text, nil
}

// BuildInstruction returns the instruction sent alongside the audio.
func BuildInstruction(lang types.Language) string {
	return prompts.Format(prompts.MustGet("transcription.json", "transcribe-notes"), map[string]string{
		"LanguageName": lang.Name(),
	})
}

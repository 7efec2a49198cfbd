package main

import (
	"fmt"

	"github.com/opinity/proposal-generator/internal/config"
	"github.com/opinity/proposal-generator/internal/fetch"
	"github.com/opinity/proposal-generator/internal/linkedin"
	"github.com/opinity/proposal-generator/internal/llm"
	"github.com/opinity/proposal-generator/internal/logger"
	"github.com/opinity/proposal-generator/internal/proposal"
	"github.com/opinity/proposal-generator/internal/session"
	"github.com/opinity/proposal-generator/internal/transcription"
	"github.com/opinity/proposal-generator/internal/types"
)

// newLLMClient builds provider clients for every command
var newLLMClient llm.Factory = llm.NewClient

// loadSettings loads the config file named by --config, the environment and the defaults.
func loadSettings() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func newTranscriber(cfg *config.Config, log *logger.Logger) *transcription.Transcriber {
	return transcription.New(cfg.ProviderAPIKey(), cfg.LLMConfig(),
		transcription.WithClientFactory(newLLMClient),
		transcription.WithLogger(log),
	)
}

// newWorkflow wires the generator, transcriber and LinkedIn audience hint around a fresh session.
func newWorkflow(cfg *config.Config, lang types.Language, variant types.SchemaVariant, log *logger.Logger) *session.Workflow {
	gen := proposal.NewGenerator(cfg.ProviderAPIKey(), cfg.LLMConfig(),
		proposal.WithClientFactory(newLLMClient),
		proposal.WithLogger(log),
	)

	opts := []session.WorkflowOption{
		session.WithTranscriber(newTranscriber(cfg, log)),
		session.WithVariant(variant),
		session.WithLogger(log),
	}
	// The slug is always classified; the profile headline is only fetched when enabled
	var fetcher fetch.Renderer
	if cfg.LinkedInEnrich {
		fetcher = &fetch.SummaryFetcher{
			Options:        fetch.DefaultOptions(),
			Browser:        cfg.UseBrowser,
			BrowserTimeout: fetch.DefaultBrowserTimeout,
		}
	}
	opts = append(opts, session.WithEnricher(linkedin.NewEnricher(fetcher, log)))

	return session.NewWorkflow(session.New(lang, log), gen, opts...)
}

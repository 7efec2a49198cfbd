package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opinity/proposal-generator/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the proposal form server",
	Long:  `Start an HTTP server that serves the intake form and the JSON API for generating, transcribing and exporting proposals.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config, default 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadSettings()
	if err != nil {
		return err
	}
	defer log.Sync()

	if servePort != 0 {
		cfg.Port = servePort
	}
	if cfg.ProviderAPIKey() == "" {
		log.Warn("no API key configured; generation requests will be refused", "provider", cfg.Provider)
	}

	wf := newWorkflow(cfg, cfg.ProposalLanguage(), cfg.ProposalVariant(), log)
	srv, err := server.New(server.Config{
		Port:               cfg.Port,
		RateLimitPerMinute: cfg.RateLimit(),
		MaxAudioBytes:      cfg.MaxAudioBytes,
	}, wf, server.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(cmd.Context())
}

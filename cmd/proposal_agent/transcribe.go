package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opinity/proposal-generator/internal/audio"
	"github.com/opinity/proposal-generator/internal/types"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcribe a recorded voice note",
	Long:  "Sends an audio file to the configured AI provider and prints the verbatim transcript.",
	RunE:  runTranscribe,
}

var (
	transcribeAudioFile string
	transcribeLang      string
)

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeAudioFile, "audio", "a", "", "Path to the audio file (required)")
	transcribeCmd.Flags().StringVar(&transcribeLang, "lang", "", "Spoken language: en or nl (default from config)")

	if err := transcribeCmd.MarkFlagRequired("audio"); err != nil {
		panic(fmt.Sprintf("failed to mark audio flag as required: %v", err))
	}

	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadSettings()
	if err != nil {
		return err
	}
	defer log.Sync()

	lang := cfg.ProposalLanguage()
	if transcribeLang != "" {
		if lang, err = types.ParseLanguage(transcribeLang); err != nil {
			return err
		}
	}

	file, err := os.Open(transcribeAudioFile)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer func() { _ = file.Close() }()

	clip, err := audio.Capture(file, cfg.MaxAudioBytes)
	if err != nil {
		return fmt.Errorf("failed to read audio file %s: %w", transcribeAudioFile, err)
	}
	log.Debug("audio captured", "bytes", clip.Size(), "mime", clip.MIMEType)

	transcript, err := newTranscriber(cfg, log).TranscribeClip(cmd.Context(), clip, lang)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), transcript)
	return err
}

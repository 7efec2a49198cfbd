package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opinity/proposal-generator/internal/budget"
	"github.com/opinity/proposal-generator/internal/export"
	"github.com/opinity/proposal-generator/internal/observability"
	"github.com/opinity/proposal-generator/internal/session"
	"github.com/opinity/proposal-generator/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a proposal from a notes file",
	Long:  "Runs one generation for the intake notes in a file and writes the requested exports (PDF, Azure DevOps JSON and CSV) to an output directory.",
	RunE:  runGenerate,
}

var (
	generateInputFile string
	generateEngineers int
	generateHours     int
	generateLinkedIn  string
	generateLang      string
	generateVariant   string
	generateOutDir    string
	generateFormats   string
	generateVerbose   bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateInputFile, "in", "i", "", "Path to the intake notes text file (required)")
	generateCmd.Flags().IntVar(&generateEngineers, "engineers", session.DefaultEngineers, "Number of engineers in the budget")
	generateCmd.Flags().IntVar(&generateHours, "hours", session.DefaultHours, "Hours per engineer in the budget")
	generateCmd.Flags().StringVar(&generateLinkedIn, "linkedin", "", "LinkedIn profile URL of the client contact")
	generateCmd.Flags().StringVar(&generateLang, "lang", "", "Output language: en or nl (default from config)")
	generateCmd.Flags().StringVar(&generateVariant, "variant", "", "Proposal variant: basic or extended (default from config)")
	generateCmd.Flags().StringVarP(&generateOutDir, "out-dir", "o", ".", "Directory for the exported files")
	generateCmd.Flags().StringVar(&generateFormats, "format", "pdf,json,csv", "Comma-separated exports: pdf, json, csv, bundle")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print the budget and a proposal summary")

	if err := generateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	printer := observability.NewPrinter(cmd.OutOrStdout())

	formats, err := parseFormats(generateFormats)
	if err != nil {
		return err
	}

	notes, err := os.ReadFile(generateInputFile)
	if err != nil {
		return fmt.Errorf("failed to read notes file %s: %w", generateInputFile, err)
	}

	cfg, log, err := loadSettings()
	if err != nil {
		return err
	}
	defer log.Sync()

	lang := cfg.ProposalLanguage()
	if generateLang != "" {
		if lang, err = types.ParseLanguage(generateLang); err != nil {
			return err
		}
	}
	variant := cfg.ProposalVariant()
	if generateVariant != "" {
		if variant, err = types.ParseVariant(generateVariant); err != nil {
			return err
		}
	}

	genCfg := types.GenerationConfig{
		LinkedInURL: strings.TrimSpace(generateLinkedIn),
		Engineers:   generateEngineers,
		Hours:       generateHours,
	}
	if generateVerbose || cfg.Verbose {
		printer.PrintBudget(budget.EstimateFor(genCfg, lang))
	}

	wf := newWorkflow(cfg, lang, variant, log)
	p, err := wf.Run(cmd.Context(), string(notes), genCfg)
	if err != nil {
		if errors.Is(err, session.ErrEmptyNotes) {
			return fmt.Errorf("notes file %s is empty: %w", generateInputFile, err)
		}
		if msg := wf.Session().Snapshot().ErrorMessage; msg != "" && msg != err.Error() {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}

	if generateVerbose || cfg.Verbose {
		printer.PrintProposal(p)
	}

	if err := os.MkdirAll(generateOutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, f := range formats {
		if f.RequiresExtended() && !p.IsExtended() {
			printer.Info("skipping %s export: the %s variant has no backlog", f, p.Variant)
			continue
		}
		path := filepath.Join(generateOutDir, f.FileName())
		if err := writeExport(cmd, path, f, p); err != nil {
			return err
		}
		written = append(written, path)
	}

	printer.PrintArtifacts(written)
	printer.Success("proposal %s generated", p.GenerationID)
	return nil
}

func writeExport(cmd *cobra.Command, path string, f export.Format, p *types.Proposal) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := export.Render(cmd.Context(), file, f, p, p.GeneratedAt); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// parseFormats splits a comma-separated list into unique export formats, keeping order.
func parseFormats(list string) ([]export.Format, error) {
	var formats []export.Format
	seen := make(map[export.Format]bool)
	for _, item := range strings.Split(list, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		f, err := export.ParseFormat(item)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("no export format given")
	}
	return formats, nil
}

// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/opinity/proposal-generator/internal/budget"
	"github.com/opinity/proposal-generator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	titleColor   = color.New(color.FgBlue, color.Bold)
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Success prints a green status line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Success(format string, args ...any) {
	successColor.Fprintf(p.out, "✔ "+format+"\n", args...)
}

// Error prints a red status line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Error(format string, args ...any) {
	errorColor.Fprintf(p.out, "✘ "+format+"\n", args...)
}

// Info prints a cyan status line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Info(format string, args ...any) {
	infoColor.Fprintf(p.out, "› "+format+"\n", args...)
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(titleColor.Sprint(title), utf8.RuneCountInString(title)))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		line = truncate(line, boxWidth-4)
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, utf8.RuneCountInString(line)))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintBudget outputs the budget estimate of a generation.
func (p *Printer) PrintBudget(est budget.Estimate) {
	content := fmt.Sprintf("Engineers:  %d\nHours:      %d\nRate:       €%d/hr\nTotal:      %s",
		est.Engineers, est.Hours, est.Rate, est.Formatted)
	p.printBox("BUDGET ESTIMATE", content)
}

// PrintProposal outputs a human-readable summary of a generated proposal.
func (p *Printer) PrintProposal(prop *types.Proposal) {
	if prop == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generation: %s\n", prop.GenerationID))
	sb.WriteString(fmt.Sprintf("Variant:    %s\n", prop.Variant))
	sb.WriteString(fmt.Sprintf("Language:   %s\n", prop.Language))
	sb.WriteString("\n")

	d := prop.Data
	for _, s := range []struct{ label, text string }{
		{"Challenge", d.Challenge},
		{"Approach", d.Approach},
		{"Solution", d.Solution},
		{"Trinity", d.TrinityFocus},
		{"Investment", d.Investment},
		{"VSM", d.VSMSession},
		{"DORA", d.DoraMetrics},
	} {
		if s.text == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-11s %s\n", s.label+":", firstLine(s.text)))
	}

	if export := d.AzureDevOpsExport; export != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Backlog (%d stories):\n", len(export.UserStories)))
		count := min(len(export.UserStories), maxItemsToShow)
		for i := 0; i < count; i++ {
			story := export.UserStories[i]
			sb.WriteString(fmt.Sprintf("  • %s [%s] %s\n", story.ID, story.Priority, story.Title))
		}
		if len(export.UserStories) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(export.UserStories)-maxItemsToShow))
		}
	}

	p.printBox("GENERATED PROPOSAL", strings.TrimRight(sb.String(), "\n"))
}

// PrintArtifacts lists written export files.
func (p *Printer) PrintArtifacts(paths []string) {
	if len(paths) == 0 {
		return
	}
	p.printBox("EXPORTS", strings.Join(paths, "\n"))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// truncate shortens s to at most width runes.
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// pad right-pads s (whose visible length is visible) to the inner box width.
func pad(s string, visible int) string {
	if visible >= boxWidth-4 {
		return s
	}
	return s + strings.Repeat(" ", boxWidth-4-visible)
}

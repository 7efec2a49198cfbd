package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/opinity/proposal-generator/internal/types"
)

// CSVHeader is the first line of the backlog CSV.
const CSVHeader = "ID,Title,Description,Priority,Acceptance Criteria"

// CriteriaSeparator joins acceptance criteria inside one cell.
const CriteriaSeparator = "; "

// RenderCSV writes one row per user story. Title, description and criteria are
// always quoted; id and priority only when they need it. Rows end with \n except the last.
func RenderCSV(w io.Writer, p *types.Proposal) error {
	export, err := backlog(p)
	if err != nil {
		return err
	}

	rows := make([]string, 0, len(export.UserStories)+1)
	rows = append(rows, CSVHeader)
	for _, story := range export.UserStories {
		rows = append(rows, CSVRow(story))
	}

	if _, err := io.WriteString(w, strings.Join(rows, "\n")); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// CSVRow renders one user story.
func CSVRow(story types.UserStory) string {
	return strings.Join([]string{
		quoteIfNeeded(story.ID),
		quote(story.Title),
		quote(story.Description),
		quoteIfNeeded(string(story.Priority)),
		quote(strings.Join(story.AcceptanceCriteria, CriteriaSeparator)),
	}, ",")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return quote(s)
	}
	return s
}

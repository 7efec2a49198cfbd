package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/opinity/proposal-generator/internal/types"
)

type azureDevOpsDocument struct {
	ProjectMission string            `json:"projectMission"`
	UserStories    []types.UserStory `json:"userStories"`
	Metadata       documentMetadata  `json:"metadata"`
}

type documentMetadata struct {
	Generated    string `json:"generated"`
	Language     string `json:"language"`
	ProposalType string `json:"proposalType"`
}

// RenderJSON writes the backlog with generation metadata, indented by two spaces.
func RenderJSON(w io.Writer, p *types.Proposal, now time.Time) error {
	export, err := backlog(p)
	if err != nil {
		return err
	}

	doc := azureDevOpsDocument{
		ProjectMission: export.ProjectMission,
		UserStories:    export.UserStories,
		Metadata: documentMetadata{
			Generated:    now.UTC().Format(time.RFC3339),
			Language:     string(p.Language),
			ProposalType: string(p.Variant),
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode backlog: %w", err)
	}
	return nil
}

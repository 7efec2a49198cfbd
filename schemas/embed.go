// Package schemas embeds the JSON Schema documents that generated proposals are validated against.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var files embed.FS

// File names of the embedded schemas
const (
	ProposalBasic    = "proposal_basic.schema.json"
	ProposalExtended = "proposal_extended.schema.json"
)

// Read returns the raw content of an embedded schema file.
func Read(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("schema %s not embedded: %w", name, err)
	}
	return string(data), nil
}

// Names lists every embedded schema file.
func Names() []string {
	return []string{ProposalBasic, ProposalExtended}
}

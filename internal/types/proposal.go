// Package types provides type definitions for structured data used throughout the proposal generator.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Language selects both the output language of a proposal and the locale used for number formatting.
type Language string

const (
	// LanguageEnglish produces English proposals with en-US number formatting
	LanguageEnglish Language = "en"
	// LanguageDutch produces Dutch proposals with nl-NL number formatting
	LanguageDutch Language = "nl"
)

// ParseLanguage converts a user supplied language code into a Language.
// An empty string yields English.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case "":
		return LanguageEnglish, nil
	case LanguageEnglish, LanguageDutch:
		return Language(s), nil
	default:
		return "", fmt.Errorf("unsupported language %q (expected en or nl)", s)
	}
}

// Name returns the English name of the language, as used in prompt directives.
func (l Language) Name() string {
	if l == LanguageDutch {
		return "Dutch"
	}
	return "English"
}

// SchemaVariant identifies which shape of ProposalData a generation requests.
type SchemaVariant string

const (
	// VariantBasic is the deprecated five-section proposal
	VariantBasic SchemaVariant = "basic"
	// VariantExtended adds the VSM session, DORA metrics and an Azure DevOps backlog
	VariantExtended SchemaVariant = "extended"
)

// ParseVariant converts a variant name into a SchemaVariant. An empty string yields VariantExtended.
func ParseVariant(s string) (SchemaVariant, error) {
	switch SchemaVariant(s) {
	case "":
		return VariantExtended, nil
	case VariantBasic, VariantExtended:
		return SchemaVariant(s), nil
	default:
		return "", fmt.Errorf("unsupported proposal variant %q (expected basic or extended)", s)
	}
}

// Priority is the backlog priority of a user story.
type Priority string

// Priority values accepted in generated user stories
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// GenerationConfig holds the numeric and audience inputs of one form submission.
type GenerationConfig struct {
	LinkedInURL string `json:"linkedInUrl"`
	Engineers   int    `json:"engineers" validate:"min=1"`
	Hours       int    `json:"hours" validate:"min=1"`
}

// UserStory is a single Azure DevOps backlog item.
type UserStory struct {
	ID                 string   `json:"id" validate:"notblank"`
	Title              string   `json:"title" validate:"notblank"`
	Description        string   `json:"description" validate:"notblank"`
	AcceptanceCriteria []string `json:"acceptanceCriteria" validate:"min=1,dive,notblank"`
	Priority           Priority `json:"priority" validate:"oneof=High Medium Low"`
}

// AzureDevOpsExport is the backlog section of an extended proposal.
type AzureDevOpsExport struct {
	ProjectMission string      `json:"projectMission" validate:"notblank"`
	UserStories    []UserStory `json:"userStories" validate:"min=1,unique=ID,dive"`
}

// ProposalData is the structured result of one generation call.
// The last three fields are only populated for VariantExtended.
type ProposalData struct {
	Challenge    string `json:"challenge" validate:"notblank"`
	Approach     string `json:"approach" validate:"notblank"`
	Solution     string `json:"solution" validate:"notblank"`
	TrinityFocus string `json:"trinityFocus" validate:"notblank"`
	Investment   string `json:"investment" validate:"notblank"`

	VSMSession        string             `json:"vsmSession,omitempty"`
	DoraMetrics       string             `json:"doraMetrics,omitempty"`
	AzureDevOpsExport *AzureDevOpsExport `json:"azureDevOpsExport,omitempty"`
}

// Proposal is a validated ProposalData together with the request context it was generated for.
type Proposal struct {
	GenerationID uuid.UUID     `json:"generation_id"`
	Variant      SchemaVariant `json:"variant"`
	Language     Language      `json:"language"`
	GeneratedAt  time.Time     `json:"generated_at"`
	Data         ProposalData  `json:"data"`
}

// IsExtended reports whether the proposal carries the extended sections.
func (p *Proposal) IsExtended() bool {
	return p.Variant == VariantExtended && p.Data.AzureDevOpsExport != nil
}

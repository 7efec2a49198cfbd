// Package proposal turns meeting notes into a validated structured proposal with a single LLM call.
package proposal

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opinity/proposal-generator/internal/budget"
	"github.com/opinity/proposal-generator/internal/llm"
	"github.com/opinity/proposal-generator/internal/logger"
	"github.com/opinity/proposal-generator/internal/prompts"
	"github.com/opinity/proposal-generator/internal/schemas"
	"github.com/opinity/proposal-generator/internal/types"
)

// Temperature is the sampling temperature of proposal generation.
const Temperature = 0.7

// MissingKeyMessage is shown verbatim to the user when no API key is configured.
const MissingKeyMessage = "API Key is missing."

const promptFile = "proposal.json"

// Request is the input of one generation.
type Request struct {
	Notes    string
	Language types.Language
	Config   types.GenerationConfig
	Variant  types.SchemaVariant
	// AudienceHint optionally sharpens the tone directive derived from the LinkedIn URL
	AudienceHint string
}

// Generator calls the LLM to produce proposals.
type Generator struct {
	apiKey    string
	config    *llm.Config
	newClient llm.Factory
	log       *logger.Logger
	now       func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithClientFactory replaces the function used to build LLM clients.
func WithClientFactory(f llm.Factory) Option {
	return func(g *Generator) { g.newClient = f }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithClock sets the time source used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a Generator. A nil config uses the default provider configuration.
func NewGenerator(apiKey string, config *llm.Config, opts ...Option) *Generator {
	if config == nil {
		config = llm.DefaultConfig()
	}
	g := &Generator{
		apiKey:    apiKey,
		config:    config,
		newClient: llm.NewClient,
		log:       logger.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a proposal for req. It makes exactly one model call and never retries.
func (g *Generator) Generate(ctx context.Context, req Request) (*types.Proposal, error) {
	if g.apiKey == "" {
		return nil, &ConfigurationError{Message: MissingKeyMessage}
	}
	if strings.TrimSpace(req.Notes) == "" {
		return nil, &InputError{Field: "notes", Message: "notes must not be blank"}
	}
	if err := req.Config.Validate(); err != nil {
		return nil, &InputError{Field: "config", Message: err.Error()}
	}
	if req.Language == "" {
		req.Language = types.LanguageEnglish
	}
	if req.Variant == "" {
		req.Variant = types.VariantExtended
	}

	id := uuid.New()
	log := g.log.With("generation_id", id.String(), "variant", string(req.Variant), "language", string(req.Language))

	client, err := g.newClient(ctx, g.config, g.apiKey)
	if err != nil {
		return nil, &ServiceError{Message: "failed to create LLM client", Cause: err}
	}
	defer func() { _ = client.Close() }()

	log.Info("generating proposal",
		"model", client.GetModel(llm.TierStandard),
		"engineers", req.Config.Engineers,
		"hours", req.Config.Hours,
		"notes_chars", len(req.Notes),
	)

	started := g.now()
	text, err := client.GenerateStructured(ctx, llm.StructuredRequest{
		SystemInstruction: BuildSystemInstruction(req.Language, req.Variant),
		Prompt:            BuildPrompt(req),
		ResponseSchema:    ResponseSchema(req.Variant),
		SchemaName:        schemaName(req.Variant),
		Temperature:       Temperature,
	}, llm.TierStandard)
	if err != nil {
		if errors.Is(err, llm.ErrNoContent) {
			log.Warn("empty response from model")
			return nil, &EmptyResponseError{Cause: err}
		}
		log.Error("model call failed", "error", err)
		return nil, &ServiceError{Message: "failed to generate proposal", Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		log.Warn("empty response from model")
		return nil, &EmptyResponseError{}
	}

	data, err := parseResponse(text, req.Variant)
	if err != nil {
		log.Warn("model returned malformed proposal", "error", err)
		return nil, err
	}

	log.Info("proposal generated", "duration_ms", g.now().Sub(started).Milliseconds())

	return &types.Proposal{
		GenerationID: id,
		Variant:      req.Variant,
		Language:     req.Language,
		GeneratedAt:  g.now(),
		Data:         *data,
	}, nil
}

// parseResponse checks the raw text against the variant schema, decodes it and applies the semantic rules.
func parseResponse(text string, variant types.SchemaVariant) (*types.ProposalData, error) {
	if err := schemas.ValidateProposal(variant, text); err != nil {
		var docErr *schemas.DocumentError
		var schemaErr *schemas.ValidationError
		switch {
		case errors.As(err, &docErr):
			return nil, &MalformedResponseError{Message: "response is not valid JSON", Cause: err}
		case errors.As(err, &schemaErr):
			fields := make([]FieldError, 0, len(schemaErr.Errors))
			for _, fe := range schemaErr.Errors {
				fields = append(fields, FieldError{Field: fe.Field, Message: fe.Message})
			}
			return nil, &MalformedResponseError{Message: "response does not match the proposal schema", Fields: fields, Cause: err}
		default:
			return nil, err
		}
	}

	var data types.ProposalData
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, &MalformedResponseError{Message: "failed to decode proposal", Cause: err}
	}

	if err := data.Validate(variant); err != nil {
		var verr *types.ValidationError
		if errors.As(err, &verr) {
			fields := make([]FieldError, 0, len(verr.Errors))
			for _, fe := range verr.Errors {
				fields = append(fields, FieldError{Field: fe.Field, Message: fe.Message})
			}
			return nil, &MalformedResponseError{Message: "proposal failed validation", Fields: fields, Cause: err}
		}
		return nil, &MalformedResponseError{Message: "proposal failed validation", Cause: err}
	}

	if variant == types.VariantBasic {
		data.VSMSession = ""
		data.DoraMetrics = ""
		data.AzureDevOpsExport = nil
	}
	return &data, nil
}

// BuildSystemInstruction returns the persona and content rules for a language and variant.
func BuildSystemInstruction(lang types.Language, variant types.SchemaVariant) string {
	vsmPrice := "€" + strconv.Itoa(budget.VSMSessionPrice)

	extended := ""
	if variant == types.VariantExtended {
		extended = prompts.Format(prompts.MustGet(promptFile, "extended-rules"), map[string]string{
			"VSMPrice": vsmPrice,
		})
	}

	return prompts.Format(prompts.MustGet(promptFile, "system-instruction"), map[string]string{
		"VSMPrice":            vsmPrice,
		"ExtendedRules":       extended,
		"LanguageInstruction": prompts.MustGetLocalized(promptFile, "language-instruction", string(lang)),
	})
}

// BuildPrompt returns the user prompt: raw notes, the budget block, the optional
// audience directive and the output language.
func BuildPrompt(req Request) string {
	estimate := budget.EstimateFor(req.Config, req.Language)

	budgetContext := prompts.Format(prompts.MustGet(promptFile, "budget-context"), map[string]string{
		"Engineers": strconv.Itoa(estimate.Engineers),
		"Hours":     strconv.Itoa(estimate.Hours),
		"Budget":    estimate.Formatted,
		"Rate":      "€" + strconv.Itoa(estimate.Rate),
	})

	linkedInContext := ""
	if url := strings.TrimSpace(req.Config.LinkedInURL); url != "" {
		hint := ""
		if req.AudienceHint != "" {
			hint = "\n" + req.AudienceHint
		}
		linkedInContext = prompts.Format(prompts.MustGet(promptFile, "linkedin-context"), map[string]string{
			"LinkedInURL":  url,
			"AudienceHint": hint,
		})
	}

	return prompts.Format(prompts.MustGet(promptFile, "user-prompt"), map[string]string{
		"Notes":           req.Notes,
		"BudgetContext":   budgetContext,
		"LinkedInContext": linkedInContext,
		"LanguageName":    req.Language.Name(),
	})
}

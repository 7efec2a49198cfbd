// Package schemas provides JSON Schema validation of structured model output.
package schemas

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/opinity/proposal-generator/internal/types"
	schemafiles "github.com/opinity/proposal-generator/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// DocumentError is returned when the document is not JSON at all
type DocumentError struct {
	Message string
	Cause   error
}

func (e *DocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid JSON document: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid JSON document: %s", e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

var (
	compiled   = make(map[string]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// SchemaFor returns the embedded schema file name for a proposal variant.
func SchemaFor(variant types.SchemaVariant) string {
	if variant == types.VariantBasic {
		return schemafiles.ProposalBasic
	}
	return schemafiles.ProposalExtended
}

// ValidateProposal validates raw model output against the embedded schema of the variant.
func ValidateProposal(variant types.SchemaVariant, jsonContent string) error {
	schema, err := load(SchemaFor(variant))
	if err != nil {
		return err
	}
	return validate(schema, jsonContent)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaContent))
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema compilation failed",
			Cause:   err,
		}
	}
	return validate(schema, jsonContent)
}

func load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if schema, ok := compiled[name]; ok {
		return schema, nil
	}

	content, err := schemafiles.Read(name)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema not found", Cause: err}
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema compilation failed", Cause: err}
	}
	compiled[name] = schema
	return schema, nil
}

func validate(schema *gojsonschema.Schema, jsonContent string) error {
	if strings.TrimSpace(jsonContent) == "" {
		return &DocumentError{Message: "document is empty"}
	}
	if !json.Valid([]byte(jsonContent)) {
		var v any
		return &DocumentError{Message: "document is not valid JSON", Cause: json.Unmarshal([]byte(jsonContent), &v)}
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &DocumentError{Message: "document could not be loaded", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

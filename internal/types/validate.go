//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the custom rules used by this package registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
	})
	return validate
}

// FieldError describes one rule a value broke.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every field that failed validation
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for _, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %s: %s;", err.Field, err.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Validate checks the generation config (engineers and hours must be positive).
func (c GenerationConfig) Validate() error {
	return toValidationError(Validator().Struct(c))
}

// Validate checks a user story in isolation.
func (s *UserStory) Validate() error {
	return toValidationError(Validator().Struct(s))
}

// Validate checks the proposal data against the rules of the given variant.
// Every required field must be a non-blank string; the extended variant also needs
// a backlog with at least one fully populated story and unique story ids.
func (d *ProposalData) Validate(variant SchemaVariant) error {
	var fieldErrs []FieldError

	v := Validator()
	if err := v.StructExcept(d, "AzureDevOpsExport"); err != nil {
		fieldErrs = append(fieldErrs, collect(err)...)
	}

	if variant == VariantExtended {
		if err := v.Var(d.VSMSession, "notblank"); err != nil {
			fieldErrs = append(fieldErrs, FieldError{Field: "vsmSession", Message: "is required"})
		}
		if err := v.Var(d.DoraMetrics, "notblank"); err != nil {
			fieldErrs = append(fieldErrs, FieldError{Field: "doraMetrics", Message: "is required"})
		}
		if d.AzureDevOpsExport == nil {
			fieldErrs = append(fieldErrs, FieldError{Field: "azureDevOpsExport", Message: "is required"})
		} else if err := v.Struct(d.AzureDevOpsExport); err != nil {
			for _, fe := range collect(err) {
				fe.Field = "azureDevOpsExport." + fe.Field
				fieldErrs = append(fieldErrs, fe)
			}
		}
	}

	if len(fieldErrs) > 0 {
		return &ValidationError{Errors: fieldErrs}
	}
	return nil
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Errors: collect(err)}
}

func collect(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "(root)", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   jsonFieldPath(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return out
}

// jsonFieldPath turns "ProposalData.AzureDevOpsExport.UserStories[0].ID" into "azureDevOpsExport.userStories[0].id".
func jsonFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		switch {
		case p == "ID":
			parts[i] = "id"
		case p != "":
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return "must be a non-empty string"
	case "min":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "unique":
		return fmt.Sprintf("%s values must be unique", strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}

package proposal

import (
	"fmt"
	"strings"
)

// ConfigurationError is returned when the service credential is missing.
// Nothing is sent over the network in that case.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// InputError reports a request the caller should never have made (blank notes, invalid config).
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid input in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

// ServiceError represents a transport or provider failure
type ServiceError struct {
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI service error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("AI service error: %s", e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// EmptyResponseError is returned when the call succeeded but carried no text
type EmptyResponseError struct {
	Cause error
}

func (e *EmptyResponseError) Error() string {
	return "AI service returned an empty response"
}

func (e *EmptyResponseError) Unwrap() error {
	return e.Cause
}

// FieldError is one violated rule of the response document
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MalformedResponseError is returned when the response text is not JSON or
// does not conform to the requested schema variant.
type MalformedResponseError struct {
	Message string
	Fields  []FieldError
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	var sb strings.Builder
	sb.WriteString("malformed AI response: ")
	sb.WriteString(e.Message)
	for _, f := range e.Fields {
		sb.WriteString(fmt.Sprintf("; %s: %s", f.Field, f.Message))
	}
	if e.Cause != nil && len(e.Fields) == 0 {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}
	return sb.String()
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

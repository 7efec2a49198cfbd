package llm

import "encoding/json"

// SchemaType is the JSON type of a Schema node.
type SchemaType string

// Schema node types understood by every provider
const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
)

// Schema describes the structured output a request expects. It is converted to
// the provider's own representation (genai.Schema for Gemini, JSON Schema for OpenAI).
type Schema struct {
	Type        SchemaType
	Description string
	Enum        []string
	Items       *Schema
	Properties  map[string]*Schema
	// Required lists property names in the order they should be produced
	Required []string
}

// String returns a string property schema with a description.
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// Enum returns a string property restricted to the given values.
func Enum(description string, values ...string) *Schema {
	return &Schema{Type: TypeString, Description: description, Enum: values}
}

// ArrayOf returns an array schema of items.
func ArrayOf(description string, items *Schema) *Schema {
	return &Schema{Type: TypeArray, Description: description, Items: items}
}

// MarshalJSON renders the schema as a strict JSON Schema document
// (every object closes additionalProperties and requires its listed fields).
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.jsonSchema())
}

func (s *Schema) jsonSchema() map[string]any {
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Items != nil {
		out["items"] = s.Items.jsonSchema()
	}
	if s.Type == TypeObject {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.jsonSchema()
		}
		out["properties"] = props
		out["required"] = s.Required
		out["additionalProperties"] = false
	}
	return out
}

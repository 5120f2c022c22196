package genaiutils

import (
	"fmt"
	"sort"

	"github.com/effective-security/gvo/pkg/schema"
	"google.golang.org/genai"
)

// ConvertResponseFormat converts a json_schema response format to a genai.Schema.
// It returns nil when the format carries no schema.
func ConvertResponseFormat(rf *schema.ResponseFormat) *genai.Schema {
	if rf == nil || rf.JSONSchema == nil || rf.JSONSchema.Schema == nil {
		return nil
	}
	return ConvertProperty(rf.JSONSchema.Schema)
}

// ConvertProperty converts a response format property to a genai.Schema.
func ConvertProperty(p *schema.ResponseFormatJSONSchemaProperty) *genai.Schema {
	if p == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        ConvertSchemaType(p.Type),
		Title:       p.Title,
		Description: p.Description,
		Required:    p.Required,
	}

	for _, e := range p.Enum {
		out.Enum = append(out.Enum, fmt.Sprint(e))
	}

	if len(p.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(p.Properties))
		for k, v := range p.Properties {
			out.Properties[k] = ConvertProperty(v)
			out.PropertyOrdering = append(out.PropertyOrdering, k)
		}
		// map iteration is random, keep the request stable
		sort.Strings(out.PropertyOrdering)
	}

	if p.Items != nil {
		out.Items = ConvertProperty(p.Items)
	}

	return out
}

// ConvertSchemaType converts a JSON schema type name to a genai.Type.
func ConvertSchemaType(ty string) genai.Type {
	switch ty {
	case "object":
		return genai.TypeObject
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeUnspecified
	}
}

// Float32Ptr converts an optional float64 to an optional float32.
func Float32Ptr(f *float64) *float32 {
	if f == nil {
		return nil
	}
	v := float32(*f)
	return &v
}

// Int32Ptr returns nil for zero.
func Int32Ptr(i int32) *int32 {
	if i == 0 {
		return nil
	}
	return &i
}

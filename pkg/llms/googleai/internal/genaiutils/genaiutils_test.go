package genaiutils

import (
	"testing"

	"github.com/effective-security/gvo/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestConvertResponseFormat(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ConvertResponseFormat(nil))
	assert.Nil(t, ConvertResponseFormat(&schema.ResponseFormat{Type: "json_object"}))

	rf := &schema.ResponseFormat{
		Type: schema.ResponseFormatTypeJSONSchema,
		JSONSchema: &schema.ResponseFormatJSONSchema{
			Name: "Person",
			Schema: &schema.ResponseFormatJSONSchemaProperty{
				Type:        "object",
				Description: "Test schema",
				Required:    []string{"name"},
				Properties: map[string]*schema.ResponseFormatJSONSchemaProperty{
					"name": {Type: "string", Description: "Name field"},
					"age":  {Type: "integer"},
					"kind": {Type: "string", Enum: []any{"a", "b"}},
					"tags": {Type: "array", Items: &schema.ResponseFormatJSONSchemaProperty{Type: "string"}},
				},
			},
		},
	}

	res := ConvertResponseFormat(rf)
	require.NotNil(t, res)
	assert.Equal(t, genai.TypeObject, res.Type)
	assert.Equal(t, "Test schema", res.Description)
	assert.Equal(t, []string{"name"}, res.Required)
	assert.Equal(t, []string{"age", "kind", "name", "tags"}, res.PropertyOrdering)

	require.Len(t, res.Properties, 4)
	assert.Equal(t, genai.TypeString, res.Properties["name"].Type)
	assert.Equal(t, "Name field", res.Properties["name"].Description)
	assert.Equal(t, genai.TypeInteger, res.Properties["age"].Type)
	assert.Equal(t, []string{"a", "b"}, res.Properties["kind"].Enum)
	require.NotNil(t, res.Properties["tags"].Items)
	assert.Equal(t, genai.TypeString, res.Properties["tags"].Items.Type)
}

func TestConvertSchemaType(t *testing.T) {
	t.Parallel()

	tcases := map[string]genai.Type{
		"object":  genai.TypeObject,
		"string":  genai.TypeString,
		"number":  genai.TypeNumber,
		"integer": genai.TypeInteger,
		"boolean": genai.TypeBoolean,
		"array":   genai.TypeArray,
		"null":    genai.TypeUnspecified,
		"":        genai.TypeUnspecified,
	}
	for in, exp := range tcases {
		assert.Equal(t, exp, ConvertSchemaType(in), in)
	}
}

func TestPtrHelpers(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Float32Ptr(nil))
	zero := 0.0
	require.NotNil(t, Float32Ptr(&zero))
	assert.Equal(t, float32(0), *Float32Ptr(&zero))

	assert.Nil(t, Int32Ptr(0))
	assert.Equal(t, int32(7), *Int32Ptr(7))
}

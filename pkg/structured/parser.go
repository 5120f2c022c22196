package structured

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/gvo/pkg/schema"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Parser decodes model output into T.
type Parser[T any] struct {
	format   *schema.ResponseFormat
	validate bool
}

// NewParser returns a parser for T. T must be a struct type.
func NewParser[T any](strict bool) (*Parser[T], error) {
	rf, err := schema.ResponseFormatFor[T](strict)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create response format")
	}
	return &Parser[T]{
		format:   rf,
		validate: true,
	}, nil
}

// WithValidation toggles struct tag validation of decoded values.
func (p *Parser[T]) WithValidation(validate bool) *Parser[T] {
	p.validate = validate
	return p
}

// ResponseFormat returns the response format requested from the model.
func (p *Parser[T]) ResponseFormat() *schema.ResponseFormat {
	return p.format
}

// Parse decodes text and validates the result.
func (p *Parser[T]) Parse(text string) (*T, error) {
	var target T
	data := CleanJSON([]byte(text))
	if len(data) == 0 {
		return nil, errors.New("failed to decode: empty response")
	}
	if err := ljson.Unmarshal(data, &target); err != nil {
		return nil, errors.Wrap(err, "failed to decode")
	}
	if p.validate && reflect.TypeFor[T]().Kind() == reflect.Struct {
		if err := validate.Struct(&target); err != nil {
			return nil, errors.Wrap(err, "failed to validate")
		}
	}
	return &target, nil
}

// FormatInstructions describes the expected JSON for providers that
// cannot take a schema natively.
func FormatInstructions(rf *schema.ResponseFormat) string {
	var b bytes.Buffer
	b.WriteString("\nRespond with JSON in the following JSON schema:\n")
	b.WriteString("```json\n")
	if rf != nil && rf.JSONSchema != nil {
		js, _ := json.MarshalIndent(rf.JSONSchema.Schema, "", "\t")
		b.Write(js)
	}
	b.WriteString("\n```")
	b.WriteString("\nMake sure to return an instance of the JSON, not the schema itself.\n")
	return b.String()
}

// CleanJSON trims any text around the outermost JSON object or array,
// such as markdown fences.
func CleanJSON(bs []byte) []byte {
	bs = bytes.TrimSpace(bs)

	start := bytes.IndexAny(bs, "{[")
	if start == -1 {
		return bs
	}
	bs = bs[start:]

	end := max(bytes.LastIndexByte(bs, '}'), bytes.LastIndexByte(bs, ']'))
	if end == -1 {
		return bs
	}
	return bs[:end+1]
}

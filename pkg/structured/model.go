package structured

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/gvo/pkg/callbacks"
	"github.com/effective-security/gvo/pkg/llms"
	"github.com/effective-security/gvo/pkg/llms/googleai"
	"github.com/effective-security/gvo/pkg/llms/openai"
	"github.com/effective-security/gvo/pkg/schema"
	oai "github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// Model generates schema-constrained output with the wrapped LLM.
type Model struct {
	llm      llms.Model
	strict   bool
	callback callbacks.Callback
}

// Option configures a Model.
type Option func(*Model)

// WithStrict requests strict schema adherence from providers that support it.
// Strict schemas require every property to be required.
func WithStrict(strict bool) Option {
	return func(m *Model) {
		m.strict = strict
	}
}

// WithCallback sets the handler notified about generations.
func WithCallback(cb callbacks.Callback) Option {
	return func(m *Model) {
		m.callback = cb
	}
}

// New wraps llm into a structured generation model.
func New(llm llms.Model, opts ...Option) (*Model, error) {
	if llm == nil {
		return nil, errors.New("structured: model is required")
	}
	m := &Model{llm: llm, callback: callbacks.NewNoop()}
	for _, opt := range opts {
		opt(m)
	}
	if m.callback == nil {
		m.callback = callbacks.NewNoop()
	}
	return m, nil
}

// FromGemini wraps a genai client and model name.
func FromGemini(client *genai.Client, modelName string, opts ...Option) (*Model, error) {
	llm, err := googleai.New(client, modelName)
	if err != nil {
		return nil, err
	}
	return New(llm, opts...)
}

// FromOpenAI wraps an OpenAI client and model name.
func FromOpenAI(client *oai.Client, modelName string, opts ...Option) (*Model, error) {
	llm, err := openai.New(client, modelName)
	if err != nil {
		return nil, err
	}
	return New(llm, opts...)
}

// With returns a copy of the model with opts applied.
func (m *Model) With(opts ...Option) *Model {
	c := *m
	for _, opt := range opts {
		opt(&c)
	}
	if c.callback == nil {
		c.callback = callbacks.NewNoop()
	}
	return &c
}

// LLM returns the wrapped model.
func (m *Model) LLM() llms.Model {
	return m.llm
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.llm.GetName()
}

// ProviderType returns the provider of the wrapped model.
func (m *Model) ProviderType() llms.ProviderType {
	return m.llm.GetProviderType()
}

// GenerateJSON returns the first choice of a generation constrained to rf.
// Providers without native schema support get the schema as instructions.
func (m *Model) GenerateJSON(ctx context.Context, rf *schema.ResponseFormat, messages []llms.Message, options ...llms.CallOption) (string, error) {
	if rf == nil {
		return "", errors.New("structured: response format is required")
	}

	if !m.llm.GetProviderType().Supports(llms.CapabilityJSONSchema) {
		messages = append(slices.Clone(messages), llms.MessageFromTextParts(llms.RoleSystem, FormatInstructions(rf)))
		rf = &schema.ResponseFormat{Type: schema.ResponseFormatTypeJSONObject}
	}

	opts := append(slices.Clone(options), llms.WithResponseFormat(rf))
	m.callback.OnGenerateStart(ctx, m.llm, messages)
	resp, err := m.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		m.callback.OnGenerateError(ctx, m.llm, err)
		return "", err
	}
	choice, err := resp.FirstChoice()
	if err != nil {
		m.callback.OnGenerateError(ctx, m.llm, err)
		return "", err
	}
	m.callback.OnGenerateEnd(ctx, m.llm, resp)
	return choice.Content, nil
}

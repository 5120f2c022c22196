// Package openai implements the OpenAI provider over github.com/openai/openai-go.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/gvo/pkg/llms"
	"github.com/effective-security/gvo/pkg/schema"
	oai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
)

var (
	// ErrEmptyResponse is returned when the OpenAI API returns an empty response.
	ErrEmptyResponse = errors.New("empty response")
	// ErrUnsupportedContent is returned for message parts the chat API does not take.
	ErrUnsupportedContent = errors.New("unsupported content part")
)

// LLM is a model handle bound to one OpenAI client and model name.
type LLM struct {
	client *oai.Client
	model  string
}

var _ llms.Model = (*LLM)(nil)

// NewClient returns a new OpenAI SDK client.
func NewClient(opts ...Option) *oai.Client {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	c := oai.NewClient(o.requestOptions()...)
	return &c
}

// New wraps the client into a model handle for the model name.
func New(client *oai.Client, model string) (*LLM, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	if model == "" {
		return nil, errors.New("model name is required")
	}
	return &LLM{
		client: client,
		model:  model,
	}, nil
}

// Client returns the underlying SDK client.
func (o *LLM) Client() *oai.Client {
	return o.client
}

// GetName implements the Model interface.
func (o *LLM) GetName() string {
	return o.model
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderOpenAI
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{
		Model: o.model,
	}
	for _, opt := range options {
		opt(&opts)
	}

	msgs, err := convertMessages(messages)
	if err != nil {
		return nil, err
	}

	params := oai.ChatCompletionNewParams{
		Model:    shared.ChatModel(opts.Model),
		Messages: msgs,
	}
	if opts.Temperature != nil {
		params.Temperature = oai.Float(*opts.Temperature)
	}
	if opts.TopP != nil {
		params.TopP = oai.Float(*opts.TopP)
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = oai.Int(int64(opts.MaxTokens))
	}
	if opts.CandidateCount > 1 {
		params.N = oai.Int(int64(opts.CandidateCount))
	}
	if opts.Seed != 0 {
		params.Seed = oai.Int(int64(opts.Seed))
	}
	if len(opts.StopWords) > 0 {
		params.Stop = oai.ChatCompletionNewParamsStopUnion{OfStringArray: opts.StopWords}
	}
	if opts.ResponseFormat != nil {
		params.ResponseFormat = responseFormat(opts.ResponseFormat)
	}
	if len(opts.Metadata) > 0 {
		params.Metadata = convertMetadata(opts.Metadata)
	}

	result, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "openai: create chat completion")
	}
	if len(result.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choices := make([]*llms.ContentChoice, len(result.Choices))
	for i, c := range result.Choices {
		choices[i] = &llms.ContentChoice{
			Content:        c.Message.Content,
			StopReason:     c.FinishReason,
			GenerationInfo: map[string]any{},
		}
	}
	// usage covers all choices of the completion
	choices[0].GenerationInfo["InputTokens"] = result.Usage.PromptTokens
	choices[0].GenerationInfo["OutputTokens"] = result.Usage.CompletionTokens
	choices[0].GenerationInfo["TotalTokens"] = result.Usage.TotalTokens
	return &llms.ContentResponse{Choices: choices}, nil
}

func convertMessages(messages []llms.Message) ([]oai.ChatCompletionMessageParamUnion, error) {
	msgs := make([]oai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, mc := range messages {
		text, err := textOf(mc)
		if err != nil {
			return nil, err
		}
		switch mc.Role {
		case llms.RoleSystem:
			msgs = append(msgs, oai.SystemMessage(text))
		case llms.RoleAI:
			msgs = append(msgs, oai.AssistantMessage(text))
		case llms.RoleHuman:
			msgs = append(msgs, oai.UserMessage(text))
		default:
			return nil, errors.Errorf("role %v not supported", mc.Role)
		}
	}
	return msgs, nil
}

func textOf(mc llms.Message) (string, error) {
	parts := make([]string, 0, len(mc.Parts))
	for _, part := range mc.Parts {
		p, ok := part.(llms.TextContent)
		if !ok {
			return "", errors.Wrapf(ErrUnsupportedContent, "%T", part)
		}
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n"), nil
}

func responseFormat(rf *schema.ResponseFormat) oai.ChatCompletionNewParamsResponseFormatUnion {
	switch {
	case rf.Type == schema.ResponseFormatTypeJSONSchema && rf.JSONSchema != nil:
		return oai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   rf.JSONSchema.Name,
					Strict: oai.Bool(rf.JSONSchema.Strict),
					Schema: rf.JSONSchema.Schema,
				},
			},
		}
	case rf.IsJSON():
		return oai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	default:
		return oai.ChatCompletionNewParamsResponseFormatUnion{
			OfText: &shared.ResponseFormatTextParam{},
		}
	}
}

// convertMetadata renders call metadata as the string map the API stores
// with the completion.
func convertMetadata(md map[string]any) shared.Metadata {
	res := make(shared.Metadata, len(md))
	for k, v := range md {
		if s, ok := v.(string); ok {
			res[k] = s
			continue
		}
		res[k] = fmt.Sprint(v)
	}
	return res
}

package googleai

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/gvo/pkg/llms"
	"github.com/effective-security/gvo/pkg/llms/googleai/internal/genaiutils"
	"google.golang.org/genai"
)

var (
	ErrNoContentInResponse = errors.New("no content in generation response")
	ErrInvalidRole         = errors.New("role not supported")
)

const (
	RoleModel            = "model"
	RoleUser             = "user"
	ResponseMIMETypeJson = "application/json"
)

// GetName implements the Model interface.
func (g *GoogleAI) GetName() string {
	return g.model
}

// GetProviderType implements the Model interface.
func (g *GoogleAI) GetProviderType() llms.ProviderType {
	return llms.ProviderGoogleAI
}

// GenerateContent implements the [llms.Model] interface.
func (g *GoogleAI) GenerateContent(
	ctx context.Context,
	messages []llms.Message,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{
		Model:          g.model,
		CandidateCount: g.opts.DefaultCandidateCount,
	}
	for _, opt := range options {
		opt(&opts)
	}

	callCfg := &genai.GenerateContentConfig{
		StopSequences:   opts.StopWords,
		CandidateCount:  int32(opts.CandidateCount),
		MaxOutputTokens: int32(opts.MaxTokens),
		Temperature:     genaiutils.Float32Ptr(opts.Temperature),
		TopP:            genaiutils.Float32Ptr(opts.TopP),
		Seed:            genaiutils.Int32Ptr(int32(opts.Seed)),
	}
	if opts.TopK > 0 {
		topK := float32(opts.TopK)
		callCfg.TopK = &topK
	}

	callCfg.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryDangerousContent, Threshold: g.opts.HarmThreshold},
		{Category: genai.HarmCategoryHarassment, Threshold: g.opts.HarmThreshold},
		{Category: genai.HarmCategoryHateSpeech, Threshold: g.opts.HarmThreshold},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: g.opts.HarmThreshold},
	}

	if opts.ResponseFormat.IsJSON() {
		callCfg.ResponseMIMEType = ResponseMIMETypeJson
		callCfg.ResponseSchema = genaiutils.ConvertResponseFormat(opts.ResponseFormat)
	}

	return g.generateFromMessages(ctx, opts.Model, messages, callCfg)
}

func (g *GoogleAI) generateFromMessages(
	ctx context.Context,
	model string,
	messages []llms.Message,
	config *genai.GenerateContentConfig,
) (*llms.ContentResponse, error) {
	history := make([]*genai.Content, 0, len(messages))
	for _, mc := range messages {
		content, err := convertContent(mc)
		if err != nil {
			return nil, err
		}
		if mc.Role == llms.RoleSystem {
			config.SystemInstruction = content
			continue
		}
		history = append(history, content)
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, history, config)
	if err != nil {
		return nil, errors.Wrap(err, "gemini: generate content")
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrNoContentInResponse
	}
	return convertCandidates(resp.Candidates, resp.UsageMetadata), nil
}

// convertCandidates converts a sequence of genai.Candidate to a response.
func convertCandidates(candidates []*genai.Candidate, usage *genai.GenerateContentResponseUsageMetadata) *llms.ContentResponse {
	var contentResponse llms.ContentResponse

	for i, candidate := range candidates {
		buf := strings.Builder{}
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part != nil && part.Text != "" && !part.Thought {
					buf.WriteString(part.Text)
				}
			}
		}

		// usage is reported per response, so only the first choice carries it
		metadata := make(map[string]any)
		if usage != nil && i == 0 {
			metadata["InputTokens"] = usage.PromptTokenCount
			metadata["OutputTokens"] = usage.CandidatesTokenCount + usage.ThoughtsTokenCount
			metadata["TotalTokens"] = usage.TotalTokenCount
		}

		contentResponse.Choices = append(contentResponse.Choices,
			&llms.ContentChoice{
				Content:        buf.String(),
				StopReason:     string(candidate.FinishReason),
				GenerationInfo: metadata,
			})
	}
	return &contentResponse
}

// convertContent converts an llms.Message to genai content.
func convertContent(content llms.Message) (*genai.Content, error) {
	c := &genai.Content{
		Parts: make([]*genai.Part, 0, len(content.Parts)),
	}

	for _, part := range content.Parts {
		switch p := part.(type) {
		case llms.TextContent:
			c.Parts = append(c.Parts, &genai.Part{Text: p.Text})
		case llms.BinaryContent:
			c.Parts = append(c.Parts, &genai.Part{InlineData: &genai.Blob{MIMEType: p.MIMEType, Data: p.Data}})
		}
	}

	switch content.Role {
	case llms.RoleSystem, llms.RoleHuman:
		c.Role = RoleUser
	case llms.RoleAI:
		c.Role = RoleModel
	default:
		return nil, errors.Wrapf(ErrInvalidRole, "%q", content.Role)
	}

	return c, nil
}

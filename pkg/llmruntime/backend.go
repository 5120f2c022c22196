package llmruntime

//go:generate mockgen -source=backend.go -destination=../../mocks/mockruntime/backend_mock.gen.go -package mockruntime

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/gvo/pkg/llms/googleai"
	"github.com/effective-security/gvo/pkg/llms/openai"
	"github.com/effective-security/gvo/pkg/structured"
	oai "github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// Backend constructs the provider client and the structured model handle.
type Backend interface {
	// NewClient returns the provider client for the connection.
	NewClient(ctx context.Context, conn *Connection) (any, error)
	// NewModel wraps the client and model name into a structured model.
	NewModel(client any, modelName string) (*structured.Model, error)
}

// Requirements describes the client library each provider needs.
var Requirements = map[Provider]string{
	Gemini: "google.golang.org/genai >= v1.49.0",
	OpenAI: "github.com/openai/openai-go/v3 >= v3.26.0",
}

// DefaultBackends returns the built-in backends.
func DefaultBackends() map[Provider]Backend {
	return map[Provider]Backend{
		Gemini: GeminiBackend(),
		OpenAI: OpenAIBackend(),
	}
}

// GeminiBackend returns the backend for the Gemini API.
func GeminiBackend(opts ...googleai.Option) Backend {
	return &geminiBackend{opts: opts}
}

type geminiBackend struct {
	opts []googleai.Option
}

func (b *geminiBackend) NewClient(ctx context.Context, conn *Connection) (any, error) {
	opts := append([]googleai.Option{
		googleai.WithAPIKey(conn.APIKey),
		googleai.WithVertexAI(conn.VertexAI),
	}, b.opts...)
	if conn.VertexAI {
		opts = append(opts,
			googleai.WithCloudProject(conn.Project),
			googleai.WithCloudLocation(conn.Location),
		)
	}
	if conn.BaseURL != "" {
		opts = append(opts, googleai.WithBaseURL(conn.BaseURL))
	}
	return googleai.NewClient(ctx, opts...)
}

func (b *geminiBackend) NewModel(client any, modelName string) (*structured.Model, error) {
	c, ok := client.(*genai.Client)
	if !ok {
		return nil, errors.Errorf("gemini: unexpected client type %T", client)
	}
	return structured.FromGemini(c, modelName)
}

// OpenAIBackend returns the backend for the OpenAI API.
func OpenAIBackend(opts ...openai.Option) Backend {
	return &openaiBackend{opts: opts}
}

type openaiBackend struct {
	opts []openai.Option
}

func (b *openaiBackend) NewClient(_ context.Context, conn *Connection) (any, error) {
	var opts []openai.Option
	if conn.APIKey != "" {
		opts = append(opts, openai.WithToken(conn.APIKey))
	}
	if conn.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(conn.BaseURL))
	}
	if conn.Organization != "" {
		opts = append(opts, openai.WithOrganization(conn.Organization))
	}
	return openai.NewClient(append(opts, b.opts...)...), nil
}

func (b *openaiBackend) NewModel(client any, modelName string) (*structured.Model, error) {
	c, ok := client.(*oai.Client)
	if !ok {
		return nil, errors.Errorf("openai: unexpected client type %T", client)
	}
	return structured.FromOpenAI(c, modelName)
}

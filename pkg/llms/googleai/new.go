// Package googleai implements the Gemini provider over google.golang.org/genai.
// See https://ai.google.dev/ for more details.
package googleai

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/gvo/pkg/llms"
	"github.com/effective-security/xlog"
	"google.golang.org/genai"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/gvo/pkg/llms", "googleai")

// GoogleAI is a model handle bound to one genai client and model name.
type GoogleAI struct {
	client *genai.Client
	model  string
	opts   Options
}

var _ llms.Model = (*GoogleAI)(nil)

// NewClient creates a genai client.
func NewClient(ctx context.Context, opts ...Option) (*genai.Client, error) {
	clientOptions := DefaultOptions()
	for _, opt := range opts {
		opt(&clientOptions)
	}

	cfg := clientOptions.ClientConfig()
	if clientOptions.APIKey != "" && cfg.APIKey == "" {
		logger.ContextKV(ctx, xlog.DEBUG,
			"reason", "vertex_api_key_ignored",
			"project", cfg.Project,
			"location", cfg.Location)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create genai client")
	}
	return client, nil
}

// New wraps the client into a model handle for the model name.
func New(client *genai.Client, model string, opts ...Option) (*GoogleAI, error) {
	if client == nil {
		return nil, errors.New("genai client is required")
	}
	if model == "" {
		return nil, errors.New("model name is required")
	}

	modelOptions := DefaultOptions()
	for _, opt := range opts {
		opt(&modelOptions)
	}

	return &GoogleAI{
		client: client,
		model:  model,
		opts:   modelOptions,
	}, nil
}

// Client returns the underlying genai client.
func (g *GoogleAI) Client() *genai.Client {
	return g.client
}

package structured

import (
	"context"

	"github.com/effective-security/gvo/pkg/llms"
)

// Generate asks m for output matching the schema of T and decodes it.
func Generate[T any](ctx context.Context, m *Model, messages []llms.Message, options ...llms.CallOption) (*T, error) {
	p, err := NewParser[T](m.strict)
	if err != nil {
		return nil, err
	}

	text, err := m.GenerateJSON(ctx, p.ResponseFormat(), messages, options...)
	if err != nil {
		return nil, err
	}
	res, err := p.Parse(text)
	if err != nil {
		m.callback.OnParseError(ctx, m.llm, text, err)
		return nil, err
	}
	return res, nil
}

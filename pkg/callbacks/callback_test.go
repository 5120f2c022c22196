package callbacks_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/effective-security/gvo/pkg/callbacks"
	"github.com/effective-security/gvo/pkg/llms"
	"github.com/effective-security/xlog"
	"github.com/stretchr/testify/assert"
)

type fakeLLM struct{}

func (f *fakeLLM) GetName() string                    { return "fake-model" }
func (f *fakeLLM) GetProviderType() llms.ProviderType { return llms.ProviderGoogleAI }
func (f *fakeLLM) GenerateContent(context.Context, []llms.Message, ...llms.CallOption) (*llms.ContentResponse, error) {
	return nil, errors.New("not implemented")
}

var logger = xlog.NewPackageLogger("github.com/effective-security/gvo", "callbacks_test")

func response() *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content: `{"title":"test output"}`,
				GenerationInfo: map[string]any{
					"InputTokens":  int64(12),
					"OutputTokens": int64(8),
					"TotalTokens":  int64(20),
				},
			},
		},
	}
}

func TestPrinter(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	cb := callbacks.NewPrinter(&buf, callbacks.ModeVerbose)
	llm := &fakeLLM{}

	cb.OnGenerateStart(ctx, llm, []llms.Message{llms.MessageFromTextParts(llms.RoleHuman, "test input")})
	cb.OnGenerateEnd(ctx, llm, response())
	cb.OnGenerateError(ctx, llm, errors.New("test error"))
	cb.OnParseError(ctx, llm, "not json", errors.New("failed to decode"))

	res := buf.String()
	assert.Contains(t, res, "Generate Start: fake-model model, 1 messages")
	assert.Contains(t, res, "human: test input")
	assert.Contains(t, res, "Generate End: fake-model model, 1 choices")
	assert.Contains(t, res, `{"title":"test output"}`)
	assert.Contains(t, res, "Generate Error: fake-model: test error")
	assert.Contains(t, res, "Parse Error: fake-model: failed to decode")
	assert.Contains(t, res, "Response: not json")

	buf.Reset()
	cb = callbacks.NewPrinter(&buf, callbacks.ModeDefault)
	cb.OnGenerateEnd(ctx, llm, response())
	assert.NotContains(t, buf.String(), "test output")
}

func TestFanout(t *testing.T) {
	ctx := context.Background()
	llm := &fakeLLM{}

	var buf bytes.Buffer
	stats := callbacks.NewStats()
	cb := callbacks.NewFanout(callbacks.NewNoop(), callbacks.NewPackageLogger(logger))
	cb.Add(callbacks.NewPrinter(&buf, callbacks.ModeDefault))
	cb.Add(stats)

	cb.OnGenerateStart(ctx, llm, nil)
	cb.OnGenerateEnd(ctx, llm, response())
	cb.OnGenerateStart(ctx, llm, nil)
	cb.OnGenerateError(ctx, llm, errors.New("test error"))
	cb.OnParseError(ctx, llm, "{", errors.New("failed to decode"))

	assert.Contains(t, buf.String(), "Generate Error: fake-model: test error")
	s := stats.Snapshot()
	assert.Equal(t, uint32(2), s.Calls)
	assert.Equal(t, uint32(1), s.Succeeded)
	assert.Equal(t, uint32(1), s.Failed)
	assert.Equal(t, uint32(1), s.ParseErrors)
}

func TestStats(t *testing.T) {
	now := time.Unix(1700000000, 0)
	callbacks.TimeNowFn = func() time.Time { return now }
	defer func() {
		callbacks.TimeNowFn = time.Now
	}()

	ctx := context.Background()
	llm := &fakeLLM{}
	stats := callbacks.NewStats()

	stats.OnGenerateStart(ctx, llm, nil)
	now = now.Add(2 * time.Second)
	stats.OnGenerateEnd(ctx, llm, response())

	s := stats.Snapshot()
	assert.Equal(t, callbacks.GenerationStats{
		Calls:        1,
		Succeeded:    1,
		BytesIn:      uint64(len(`{"title":"test output"}`)),
		InputTokens:  12,
		OutputTokens: 8,
		TotalTokens:  20,
		Duration:     2 * time.Second,
	}, s)

	in, out, total := callbacks.CountTokens(nil)
	assert.Zero(t, in+out+total)
	assert.Zero(t, callbacks.CountResponseContentSize(nil))
}

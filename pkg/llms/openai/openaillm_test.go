package openai_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/effective-security/gvo/pkg/callbacks"
	"github.com/effective-security/gvo/pkg/llms"
	"github.com/effective-security/gvo/pkg/llms/openai"
	"github.com/effective-security/gvo/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatResponse = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-5-mini",
  "choices": [
    {"index": 0, "message": {"role": "assistant", "content": "{\"name\":\"gopher\"}"}, "finish_reason": "stop"}
  ],
  "usage": {"prompt_tokens": 4, "completion_tokens": 6, "total_tokens": 10}
}`

type person struct {
	Name string `json:"name"`
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := openai.New(nil, "gpt-5-mini")
	assert.EqualError(t, err, "openai client is required")

	client := openai.NewClient(openai.WithToken("fake"))
	_, err = openai.New(client, "")
	assert.EqualError(t, err, "model name is required")

	m, err := openai.New(client, "gpt-5-mini")
	require.NoError(t, err)
	assert.Equal(t, "gpt-5-mini", m.GetName())
	assert.Equal(t, llms.ProviderOpenAI, m.GetProviderType())
	assert.Same(t, client, m.Client())
}

func TestGenerateContent(t *testing.T) {
	var body, auth, org string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		auth = r.Header.Get("Authorization")
		org = r.Header.Get("OpenAI-Organization")
		if r.URL.Path != "/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatResponse)
	}))
	defer srv.Close()

	client := openai.NewClient(
		openai.WithToken("fake-key"),
		openai.WithBaseURL(srv.URL),
		openai.WithOrganization("org-1"),
		openai.WithHTTPClient(srv.Client()),
		openai.WithMaxRetries(0),
	)
	m, err := openai.New(client, "gpt-5-mini")
	require.NoError(t, err)

	rf, err := schema.ResponseFormatFor[person](false)
	require.NoError(t, err)

	resp, err := m.GenerateContent(context.Background(),
		[]llms.Message{
			llms.MessageFromTextParts(llms.RoleSystem, "extract the person"),
			llms.MessageFromTextParts(llms.RoleHuman, "the gopher"),
		},
		llms.WithTemperature(0),
		llms.WithMaxTokens(512),
		llms.WithResponseFormat(rf),
	)
	require.NoError(t, err)

	choice, err := resp.FirstChoice()
	require.NoError(t, err)
	assert.Equal(t, `{"name":"gopher"}`, choice.Content)
	assert.Equal(t, "stop", choice.StopReason)
	assert.EqualValues(t, 10, choice.GenerationInfo["TotalTokens"])

	assert.Equal(t, "Bearer fake-key", auth)
	assert.Equal(t, "org-1", org)
	assert.Contains(t, body, `"max_completion_tokens":512`)
	assert.Contains(t, body, `"temperature":0`)
	assert.Contains(t, body, `"json_schema"`)
	assert.Contains(t, body, `"model":"gpt-5-mini"`)
}

func TestGenerateContent_Unsupported(t *testing.T) {
	t.Parallel()

	m, err := openai.New(openai.NewClient(openai.WithToken("fake")), "gpt-5-mini")
	require.NoError(t, err)

	_, err = m.GenerateContent(context.Background(), []llms.Message{
		{Role: llms.RoleHuman, Parts: []llms.ContentPart{llms.BinaryPart("image/png", []byte{1})}},
	})
	assert.ErrorIs(t, err, openai.ErrUnsupportedContent)

	_, err = m.GenerateContent(context.Background(), []llms.Message{
		llms.MessageFromTextParts("tool", "x"),
	})
	assert.EqualError(t, err, "role tool not supported")
}

const multiChoiceResponse = `{
  "id": "chatcmpl-2",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-5-mini",
  "choices": [
    {"index": 0, "message": {"role": "assistant", "content": "{\"name\":\"a\"}"}, "finish_reason": "stop"},
    {"index": 1, "message": {"role": "assistant", "content": "{\"name\":\"b\"}"}, "finish_reason": "stop"}
  ],
  "usage": {"prompt_tokens": 4, "completion_tokens": 12, "total_tokens": 16}
}`

func TestGenerateContent_CandidatesAndMetadata(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, multiChoiceResponse)
	}))
	defer srv.Close()

	client := openai.NewClient(
		openai.WithToken("fake-key"),
		openai.WithBaseURL(srv.URL),
		openai.WithHTTPClient(srv.Client()),
		openai.WithMaxRetries(0),
	)
	m, err := openai.New(client, "gpt-5-mini")
	require.NoError(t, err)

	resp, err := m.GenerateContent(context.Background(),
		[]llms.Message{llms.MessageFromTextParts(llms.RoleHuman, "two people")},
		llms.WithCandidateCount(2),
		llms.WithMetadata(map[string]any{"request_id": "r-1", "attempt": 2}),
	)
	require.NoError(t, err)
	require.Len(t, resp.Choices, 2)

	assert.EqualValues(t, 16, resp.Choices[0].GenerationInfo["TotalTokens"])
	assert.NotContains(t, resp.Choices[1].GenerationInfo, "TotalTokens")

	in, out, total := callbacks.CountTokens(resp)
	assert.EqualValues(t, 4, in)
	assert.EqualValues(t, 12, out)
	assert.EqualValues(t, 16, total)

	assert.Contains(t, body, `"n":2`)
	assert.Contains(t, body, `"request_id":"r-1"`)
	assert.Contains(t, body, `"attempt":"2"`)
}

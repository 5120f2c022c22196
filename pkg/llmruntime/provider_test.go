package llmruntime_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/gvo/pkg/llmruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver(t *testing.T) {
	tcases := []struct {
		name     string
		env      llmruntime.MapEnv
		fallback llmruntime.Provider
		explicit string
		exp      llmruntime.Provider
		err      string
	}{
		{name: "default", exp: llmruntime.Gemini},
		{name: "fallback", fallback: llmruntime.OpenAI, exp: llmruntime.OpenAI},
		{name: "invalid fallback", fallback: "claude", exp: llmruntime.Gemini},
		{name: "explicit", explicit: "openai", exp: llmruntime.OpenAI},
		{name: "explicit normalized", explicit: "  OpenAI ", exp: llmruntime.OpenAI},
		{
			name:     "explicit wins over env",
			env:      llmruntime.MapEnv{"GVO_OUTLINES_PROVIDER": "openai"},
			explicit: "gemini",
			exp:      llmruntime.Gemini,
		},
		{
			name:     "blank explicit uses env",
			env:      llmruntime.MapEnv{"OUTLINES_PROVIDER": "openai"},
			explicit: "   ",
			exp:      llmruntime.OpenAI,
		},
		{
			name: "gvo var wins",
			env:  llmruntime.MapEnv{"GVO_OUTLINES_PROVIDER": "gemini", "OUTLINES_PROVIDER": "openai"},
			exp:  llmruntime.Gemini,
		},
		{
			name: "blank gvo var skipped",
			env:  llmruntime.MapEnv{"GVO_OUTLINES_PROVIDER": " ", "OUTLINES_PROVIDER": "OPENAI"},
			exp:  llmruntime.OpenAI,
		},
		{
			name:     "unsupported explicit",
			explicit: "Claude",
			err:      `unsupported structured generation provider "claude" from argument, expected "gemini" or "openai"`,
		},
		{
			name: "unsupported env",
			env:  llmruntime.MapEnv{"OUTLINES_PROVIDER": "bedrock"},
			err:  `unsupported structured generation provider "bedrock" from OUTLINES_PROVIDER, expected "gemini" or "openai"`,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := llmruntime.NewResolver(tc.env, tc.fallback).Resolve(tc.explicit)
			if tc.err != "" {
				require.EqualError(t, err, tc.err)
				assert.True(t, errors.Is(err, llmruntime.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.exp, p)
		})
	}
}

func TestResolveProvider(t *testing.T) {
	t.Setenv("GVO_OUTLINES_PROVIDER", "")
	t.Setenv("OUTLINES_PROVIDER", "openai")

	p, err := llmruntime.ResolveProvider("")
	require.NoError(t, err)
	assert.Equal(t, llmruntime.OpenAI, p)

	p, err = llmruntime.ResolveProvider("gemini")
	require.NoError(t, err)
	assert.Equal(t, llmruntime.Gemini, p)
}

func TestParseProvider(t *testing.T) {
	p, err := llmruntime.ParseProvider("GEMINI")
	require.NoError(t, err)
	assert.Equal(t, llmruntime.Gemini, p)
	assert.Equal(t, "gemini", p.String())
	assert.True(t, p.IsValid())

	_, err = llmruntime.ParseProvider("")
	require.Error(t, err)
	assert.True(t, llmruntime.IsConfigError(err))

	assert.Equal(t, []llmruntime.Provider{llmruntime.Gemini, llmruntime.OpenAI}, llmruntime.Providers())
}

package llmruntime_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/effective-security/gvo/pkg/llmruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainEnv(t *testing.T) {
	env := llmruntime.ChainEnv(
		llmruntime.MapEnv{"A": "1", "B": ""},
		llmruntime.MapEnv{"B": "2", "C": "3"},
	)

	v, ok := env.Lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	// present but blank still wins
	v, ok = env.Lookup("B")
	assert.True(t, ok)
	assert.Empty(t, v)

	v, ok = env.Lookup("C")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	_, ok = env.Lookup("D")
	assert.False(t, ok)
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.env")
	second := filepath.Join(dir, "second.env")
	require.NoError(t, os.WriteFile(first, []byte("GVO_TEST_MODEL=gemini-2.0-flash\nGVO_TEST_KEY=one\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("GVO_TEST_KEY=two\n"), 0o600))

	m, err := llmruntime.ReadDotEnv(first, filepath.Join(dir, "missing.env"), second)
	require.NoError(t, err)
	assert.Equal(t, llmruntime.MapEnv{"GVO_TEST_MODEL": "gemini-2.0-flash", "GVO_TEST_KEY": "two"}, m)

	t.Cleanup(func() {
		_ = os.Unsetenv("GVO_TEST_MODEL")
		_ = os.Unsetenv("GVO_TEST_KEY")
	})
	t.Setenv("GVO_TEST_KEY", "process")

	require.NoError(t, llmruntime.LoadDotEnv(filepath.Join(dir, "missing.env"), first))
	assert.Equal(t, "gemini-2.0-flash", os.Getenv("GVO_TEST_MODEL"))
	assert.Equal(t, "process", os.Getenv("GVO_TEST_KEY"))
}

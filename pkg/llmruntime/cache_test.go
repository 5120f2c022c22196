package llmruntime_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/gvo/pkg/llmruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_AtMostOnce(t *testing.T) {
	ctx := context.Background()
	c := llmruntime.NewCache()

	var builds atomic.Int32
	release := make(chan struct{})
	build := func(_ context.Context, p llmruntime.Provider) (*llmruntime.Runtime, error) {
		builds.Add(1)
		<-release
		return llmruntime.NewRuntime(nil, p, "m", nil), nil
	}

	const workers = 32
	results := make([]*llmruntime.Runtime, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rt, _, err := c.GetOrBuild(ctx, llmruntime.Gemini, build)
			assert.NoError(t, err)
			results[i] = rt
		}()
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load())
	for _, rt := range results {
		assert.Same(t, results[0], rt)
	}

	rt, cached, err := c.GetOrBuild(ctx, llmruntime.Gemini, build)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Same(t, results[0], rt)

	// other providers have their own entry
	other, cached, err := c.GetOrBuild(ctx, llmruntime.OpenAI, build)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, llmruntime.OpenAI, other.Provider())
	assert.Equal(t, int32(2), builds.Load())
}

func TestCache_FailuresNotCached(t *testing.T) {
	ctx := context.Background()
	c := llmruntime.NewCache()

	calls := 0
	build := func(_ context.Context, p llmruntime.Provider) (*llmruntime.Runtime, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return llmruntime.NewRuntime(nil, p, "m", nil), nil
	}

	_, _, err := c.GetOrBuild(ctx, llmruntime.Gemini, build)
	require.EqualError(t, err, "boom")
	_, ok := c.Peek(llmruntime.Gemini)
	assert.False(t, ok)

	rt, cached, err := c.GetOrBuild(ctx, llmruntime.Gemini, build)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.NotNil(t, rt)
	assert.Equal(t, 2, calls)
}

func TestCache_Reset(t *testing.T) {
	ctx := context.Background()
	c := llmruntime.NewCache()
	build := func(_ context.Context, p llmruntime.Provider) (*llmruntime.Runtime, error) {
		return llmruntime.NewRuntime(nil, p, "m", nil), nil
	}

	first, _, err := c.GetOrBuild(ctx, llmruntime.Gemini, build)
	require.NoError(t, err)
	peeked, ok := c.Peek(llmruntime.Gemini)
	require.True(t, ok)
	assert.Same(t, first, peeked)

	assert.Equal(t, uint64(0), c.Epoch())
	assert.Equal(t, uint64(1), c.Reset())
	assert.Equal(t, uint64(1), c.Epoch())

	_, ok = c.Peek(llmruntime.Gemini)
	assert.False(t, ok)

	second, cached, err := c.GetOrBuild(ctx, llmruntime.Gemini, build)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.NotSame(t, first, second)
}

func TestCache_WaiterHonorsContext(t *testing.T) {
	c := llmruntime.NewCache()

	started := make(chan struct{})
	release := make(chan struct{})
	build := func(_ context.Context, p llmruntime.Provider) (*llmruntime.Runtime, error) {
		close(started)
		<-release
		return llmruntime.NewRuntime(nil, p, "m", nil), nil
	}

	done := make(chan *llmruntime.Runtime)
	go func() {
		rt, _, err := c.GetOrBuild(context.Background(), llmruntime.Gemini, build)
		assert.NoError(t, err)
		done <- rt
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rt, cached, err := c.GetOrBuild(ctx, llmruntime.Gemini, build)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, cached)
	assert.Nil(t, rt)

	close(release)
	built := <-done
	require.NotNil(t, built)

	// a cancelled caller still gets a finished runtime without waiting
	rt, cached, err = c.GetOrBuild(ctx, llmruntime.Gemini, build)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Same(t, built, rt)
}

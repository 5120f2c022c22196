// Package llmruntime resolves and caches the structured generation runtime.
//
// The provider is chosen from an explicit argument, the
// GVO_OUTLINES_PROVIDER / OUTLINES_PROVIDER environment variables, or the
// configured default. The runtime for a provider bundles the model handle
// with the resolved model name and inference defaults, and is built at most
// once per provider until the cache is refreshed.
//
//	rt, err := llmruntime.Get(ctx, "", false)
//	if err != nil {
//		return err
//	}
//	out, err := llmruntime.Generate[Summary](ctx, rt, messages)
package llmruntime

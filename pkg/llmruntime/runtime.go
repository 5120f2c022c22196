package llmruntime

import (
	"context"

	"github.com/effective-security/gvo/pkg/llms"
	"github.com/effective-security/gvo/pkg/structured"
)

// Runtime is the immutable bundle of a model handle with its resolved
// name and inference defaults.
type Runtime struct {
	model     *structured.Model
	provider  Provider
	modelName string
	defaults  *InferenceDefaults
}

// NewRuntime returns a Runtime; nil defaults are treated as empty.
func NewRuntime(model *structured.Model, provider Provider, modelName string, defaults *InferenceDefaults) *Runtime {
	if defaults == nil {
		defaults = newInferenceDefaults()
	}
	return &Runtime{
		model:     model,
		provider:  provider,
		modelName: modelName,
		defaults:  defaults,
	}
}

// Model returns the structured model handle.
func (r *Runtime) Model() *structured.Model {
	return r.model
}

// Provider returns the provider the runtime was built for.
func (r *Runtime) Provider() Provider {
	return r.provider
}

// ModelName returns the resolved model name.
func (r *Runtime) ModelName() string {
	return r.modelName
}

// InferenceDefaults returns the resolved inference parameters.
func (r *Runtime) InferenceDefaults() *InferenceDefaults {
	return r.defaults
}

// CallOptions returns the default call options followed by overrides,
// so the overrides win.
func (r *Runtime) CallOptions(overrides ...llms.CallOption) []llms.CallOption {
	return append(r.defaults.CallOptions(), overrides...)
}

// Generate produces a value of type T with the runtime's model and defaults.
func Generate[T any](ctx context.Context, rt *Runtime, messages []llms.Message, options ...llms.CallOption) (*T, error) {
	return structured.Generate[T](ctx, rt.model, messages, rt.CallOptions(options...)...)
}

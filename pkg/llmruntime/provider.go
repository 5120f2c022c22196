package llmruntime

import (
	"strings"
)

// Provider identifies a structured generation backend.
type Provider string

const (
	// Gemini is the Google Gemini backend.
	Gemini Provider = "gemini"
	// OpenAI is the OpenAI backend.
	OpenAI Provider = "openai"
)

// DefaultProvider is used when neither an argument nor the environment
// selects one.
const DefaultProvider = Gemini

// ProviderEnvVars lists the variables consulted for the provider, in order.
var ProviderEnvVars = []string{"GVO_OUTLINES_PROVIDER", "OUTLINES_PROVIDER"}

// Providers returns the supported providers.
func Providers() []Provider {
	return []Provider{Gemini, OpenAI}
}

// IsValid returns true for a supported provider.
func (p Provider) IsValid() bool {
	return p == Gemini || p == OpenAI
}

func (p Provider) String() string {
	return string(p)
}

// ParseProvider normalizes s and checks it names a supported provider.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", configErrorf("unsupported structured generation provider %q, expected %q or %q", s, Gemini, OpenAI)
	}
	return p, nil
}

// Resolver selects the provider for a request.
type Resolver struct {
	env      Env
	fallback Provider
}

// NewResolver returns a Resolver reading env, with fallback used when
// nothing else selects a provider. An invalid fallback is replaced by
// DefaultProvider.
func NewResolver(env Env, fallback Provider) *Resolver {
	if env == nil {
		env = OSEnv
	}
	if !fallback.IsValid() {
		fallback = DefaultProvider
	}
	return &Resolver{env: env, fallback: fallback}
}

// Resolve returns the provider from the explicit argument, then the
// environment, then the fallback. Blank values are skipped.
func (r *Resolver) Resolve(explicit string) (Provider, error) {
	candidate := strings.TrimSpace(explicit)
	source := "argument"
	if candidate == "" {
		if v, key, ok := firstSet(r.env, ProviderEnvVars...); ok {
			candidate, source = v, key
		} else {
			candidate, source = string(r.fallback), "default"
		}
	}

	p, err := ParseProvider(candidate)
	if err != nil {
		return "", configErrorf("unsupported structured generation provider %q from %s, expected %q or %q",
			strings.ToLower(candidate), source, Gemini, OpenAI)
	}
	return p, nil
}

// ResolveProvider resolves the provider from the process environment.
func ResolveProvider(explicit string) (Provider, error) {
	return NewResolver(OSEnv, DefaultProvider).Resolve(explicit)
}

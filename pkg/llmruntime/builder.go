package llmruntime

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/gvo/pkg/metricskey"
	"github.com/effective-security/gvo/pkg/structured"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/gvo", "llmruntime")

// Built-in defaults.
const (
	DefaultGeminiModel           = "gemini-1.5-flash"
	DefaultGeminiMaxOutputTokens = 1024
	DefaultOpenAIModel           = "gpt-5-mini"
	DefaultOpenAIMaxTokens       = 512
)

type paramKind int

const (
	floatParam paramKind = iota
	intParam
)

type optionalParam struct {
	key  string
	env  string
	kind paramKind
}

type providerSpec struct {
	modelEnv       []string
	temperatureEnv []string
	maxTokensKey   string
	maxTokensEnv   []string
	optional       []optionalParam
	connection     func(env Env) (*Connection, error)
}

var specs = map[Provider]*providerSpec{
	Gemini: {
		modelEnv:       []string{"GVO_GEMINI_MODEL_NAME", "GEMINI_MODEL_NAME", "GOOGLE_MODEL_NAME", "OUTLINES_MODEL_NAME"},
		temperatureEnv: []string{"GEMINI_TEMPERATURE", "OUTLINES_TEMPERATURE"},
		maxTokensKey:   KeyMaxOutputTokens,
		maxTokensEnv:   []string{"GEMINI_MAX_OUTPUT_TOKENS", "OUTLINES_MAX_TOKENS"},
		optional: []optionalParam{
			{key: KeyTopP, env: "GEMINI_TOP_P", kind: floatParam},
			{key: KeyTopK, env: "GEMINI_TOP_K", kind: intParam},
		},
		connection: geminiConnection,
	},
	OpenAI: {
		modelEnv:       []string{"GVO_OPENAI_MODEL_NAME", "OPENAI_MODEL_NAME", "OUTLINES_MODEL_NAME"},
		temperatureEnv: []string{"OPENAI_TEMPERATURE", "OUTLINES_TEMPERATURE"},
		maxTokensKey:   KeyMaxTokens,
		maxTokensEnv:   []string{"OPENAI_MAX_TOKENS", "OUTLINES_MAX_TOKENS"},
		connection:     openaiConnection,
	},
}

// Gemini credential and Vertex variables.
var (
	GeminiAPIKeyEnvVars   = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "GOOGLE_GENAI_API_KEY"}
	VertexModeEnvVar      = "GVO_GEMINI_VERTEX_MODE"
	VertexProjectEnvVars  = []string{"GOOGLE_VERTEX_PROJECT", "GOOGLE_PROJECT_ID"}
	VertexLocationEnvVars = []string{"GOOGLE_VERTEX_LOCATION", "GOOGLE_REGION"}
)

func geminiConnection(env Env) (*Connection, error) {
	apiKey, _, ok := firstSet(env, GeminiAPIKeyEnvVars...)
	if !ok {
		return nil, configErrorf("set GEMINI_API_KEY (or GOOGLE_API_KEY / GOOGLE_GENAI_API_KEY) to use Gemini as the structured generation backend")
	}
	conn := &Connection{APIKey: apiKey}
	if v, ok := env.Lookup(VertexModeEnvVar); ok && isTruthy(v) {
		conn.VertexAI = true
		conn.Project, _, _ = firstSet(env, VertexProjectEnvVars...)
		conn.Location, _, _ = firstSet(env, VertexLocationEnvVars...)
	}
	return conn, nil
}

func openaiConnection(env Env) (*Connection, error) {
	conn := &Connection{}
	conn.BaseURL, _, _ = firstSet(env, "OPENAI_BASE_URL")
	conn.Organization, _, _ = firstSet(env, "OPENAI_ORG_ID")
	conn.APIKey, _, _ = firstSet(env, "OPENAI_API_KEY")
	return conn, nil
}

// Builder constructs runtimes. It does not cache.
type Builder struct {
	env       Env
	cfg       *Config
	backends  map[Provider]Backend
	modelOpts []structured.Option
}

// NewBuilder returns a Builder; nil arguments select the process
// environment, DefaultConfig and DefaultBackends.
func NewBuilder(env Env, cfg *Config, backends map[Provider]Backend) *Builder {
	if env == nil {
		env = OSEnv
	}
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.withDefaults()
	}
	if backends == nil {
		backends = DefaultBackends()
	}
	return &Builder{env: env, cfg: cfg, backends: backends}
}

// WithModelOptions sets options applied to every model the builder creates,
// on top of what the backend configured.
func (b *Builder) WithModelOptions(opts ...structured.Option) *Builder {
	b.modelOpts = append(b.modelOpts, opts...)
	return b
}

// ModelName resolves the model name for the provider.
func (b *Builder) ModelName(p Provider) (string, error) {
	spec, err := specFor(p)
	if err != nil {
		return "", err
	}
	if v, _, ok := firstSet(b.env, spec.modelEnv...); ok {
		return v, nil
	}
	return b.cfg.provider(p).DefaultModel, nil
}

// InferenceDefaults resolves the inference parameters for the provider.
// The temperature comes first, then the token limit, then the optional
// parameters that are set.
func (b *Builder) InferenceDefaults(p Provider) (*InferenceDefaults, error) {
	spec, err := specFor(p)
	if err != nil {
		return nil, err
	}
	pc := b.cfg.provider(p)
	d := newInferenceDefaults()

	temp, ok, err := lookupFloat(b.env, spec.temperatureEnv...)
	if err != nil {
		return nil, err
	}
	if ok {
		d.set(KeyTemperature, temp)
	} else if pc.DefaultTemperature != nil {
		d.set(KeyTemperature, *pc.DefaultTemperature)
	}

	maxTokens, ok, err := lookupInt(b.env, spec.maxTokensEnv...)
	if err != nil {
		return nil, err
	}
	if ok {
		d.set(spec.maxTokensKey, maxTokens)
	} else if pc.DefaultMaxTokens != nil && *pc.DefaultMaxTokens > 0 {
		d.set(spec.maxTokensKey, *pc.DefaultMaxTokens)
	}

	for _, param := range spec.optional {
		switch param.kind {
		case floatParam:
			v, ok, err := lookupFloat(b.env, param.env)
			if err != nil {
				return nil, err
			}
			if ok {
				d.set(param.key, v)
			}
		case intParam:
			v, ok, err := lookupInt(b.env, param.env)
			if err != nil {
				return nil, err
			}
			if ok {
				d.set(param.key, v)
			}
		}
	}
	return d, nil
}

// Connection resolves the client parameters for the provider.
func (b *Builder) Connection(p Provider) (*Connection, error) {
	spec, err := specFor(p)
	if err != nil {
		return nil, err
	}
	return spec.connection(b.env)
}

// Build resolves the model name, inference defaults and connection, and
// only then constructs the client and model handle.
func (b *Builder) Build(ctx context.Context, p Provider) (*Runtime, error) {
	started := time.Now()

	backend, ok := b.backends[p]
	if !ok || backend == nil {
		if _, err := specFor(p); err != nil {
			return nil, err
		}
		return nil, errors.Mark(
			configErrorf("%s backend is unavailable, it requires %s", p, Requirements[p]),
			ErrBackendUnavailable)
	}

	modelName, err := b.ModelName(p)
	if err != nil {
		return nil, err
	}
	defaults, err := b.InferenceDefaults(p)
	if err != nil {
		return nil, err
	}
	conn, err := b.Connection(p)
	if err != nil {
		return nil, err
	}

	client, err := backend.NewClient(ctx, conn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s client", p)
	}
	model, err := backend.NewModel(client, modelName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s model %q", p, modelName)
	}
	if len(b.modelOpts) > 0 {
		model = model.With(b.modelOpts...)
	}

	metricskey.PerfRuntimeBuild.MeasureSince(started, string(p))
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "created_runtime",
		"provider", p,
		"model", modelName,
		"defaults", defaults.String(),
		"connection", conn.String(),
	)
	return NewRuntime(model, p, modelName, defaults), nil
}

func specFor(p Provider) (*providerSpec, error) {
	spec, ok := specs[p]
	if !ok {
		return nil, configErrorf("unsupported structured generation provider %q, expected %q or %q", p, Gemini, OpenAI)
	}
	return spec, nil
}

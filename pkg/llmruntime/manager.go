package llmruntime

import (
	"context"
	"sync"

	"github.com/effective-security/gvo/pkg/metricskey"
	"github.com/effective-security/gvo/pkg/structured"
	"github.com/effective-security/xlog"
)

// Manager resolves providers and serves cached runtimes.
type Manager struct {
	resolver *Resolver
	builder  *Builder
	cache    *Cache
}

type managerOptions struct {
	env       Env
	cfg       *Config
	backends  map[Provider]Backend
	modelOpts []structured.Option
}

// Option configures a Manager.
type Option func(*managerOptions)

// WithEnv sets the variable source, the process environment by default.
func WithEnv(env Env) Option {
	return func(o *managerOptions) {
		o.env = env
	}
}

// WithConfig sets the defaults overriding the built-in ones.
func WithConfig(cfg *Config) Option {
	return func(o *managerOptions) {
		o.cfg = cfg
	}
}

// WithBackend registers the backend for the provider,
// a nil backend makes the provider unavailable.
func WithBackend(p Provider, b Backend) Option {
	return func(o *managerOptions) {
		if b == nil {
			delete(o.backends, p)
			return
		}
		o.backends[p] = b
	}
}

// WithModelOptions applies structured model options, such as a callback,
// to every runtime the manager builds.
func WithModelOptions(opts ...structured.Option) Option {
	return func(o *managerOptions) {
		o.modelOpts = append(o.modelOpts, opts...)
	}
}

// New returns a Manager.
func New(opts ...Option) *Manager {
	o := &managerOptions{
		env:      OSEnv,
		backends: DefaultBackends(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.env == nil {
		o.env = OSEnv
	}

	builder := NewBuilder(o.env, o.cfg, o.backends).WithModelOptions(o.modelOpts...)
	// an invalid configured default falls back to DefaultProvider
	fallback, _ := ParseProvider(builder.cfg.DefaultProvider)
	return &Manager{
		resolver: NewResolver(o.env, fallback),
		builder:  builder,
		cache:    NewCache(),
	}
}

// Load returns a Manager configured from file. Variables from the
// configured dotenv files are used when not set in the process environment.
func Load(file string) (*Manager, error) {
	cfg, err := LoadConfig(file)
	if err != nil {
		return nil, err
	}
	env := OSEnv
	if len(cfg.DotEnv) > 0 {
		fileEnv, err := ReadDotEnv(cfg.DotEnv...)
		if err != nil {
			return nil, err
		}
		env = ChainEnv(OSEnv, fileEnv)
	}
	return New(WithConfig(cfg), WithEnv(env)), nil
}

// Resolver returns the provider resolver.
func (m *Manager) Resolver() *Resolver {
	return m.resolver
}

// Builder returns the runtime builder.
func (m *Manager) Builder() *Builder {
	return m.builder
}

// Runtime returns the runtime for the provider, building it on first use.
// The provider is resolved first; with refresh the cache is cleared
// before the lookup.
func (m *Manager) Runtime(ctx context.Context, provider string, refresh bool) (*Runtime, error) {
	p, err := m.resolver.Resolve(provider)
	if err != nil {
		return nil, err
	}
	if refresh {
		m.reset(ctx, "refresh")
	}

	rt, cached, err := m.cache.GetOrBuild(ctx, p, m.build)
	if err != nil {
		return nil, err
	}
	if cached {
		metricskey.StatsRuntimeCacheHits.IncrCounter(1, string(p))
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "cached_runtime",
			"provider", p,
			"model", rt.ModelName(),
		)
	}
	return rt, nil
}

func (m *Manager) build(ctx context.Context, p Provider) (*Runtime, error) {
	rt, err := m.builder.Build(ctx, p)
	if err != nil {
		metricskey.StatsRuntimeBuildFailed.IncrCounter(1, string(p))
		logger.ContextKV(ctx, xlog.ERROR,
			"reason", "build_runtime",
			"provider", p,
			"err", err.Error(),
		)
		return nil, err
	}
	metricskey.StatsRuntimeBuilt.IncrCounter(1, string(p))
	return rt, nil
}

// Refresh drops all cached runtimes.
func (m *Manager) Refresh() {
	m.reset(context.Background(), "refresh")
}

// Close drops all cached runtimes.
func (m *Manager) Close() error {
	m.reset(context.Background(), "close")
	return nil
}

func (m *Manager) reset(ctx context.Context, reason string) {
	epoch := m.cache.Reset()
	metricskey.StatsRuntimeRefreshed.IncrCounter(1, reason)
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "reset_runtimes",
		"reason", reason,
		"epoch", epoch,
	)
}

var (
	defaultLock    sync.Mutex
	defaultManager *Manager
)

// Default returns the process-wide Manager reading the process environment.
func Default() *Manager {
	defaultLock.Lock()
	defer defaultLock.Unlock()
	if defaultManager == nil {
		defaultManager = New()
	}
	return defaultManager
}

// SetDefault replaces the process-wide Manager and returns the previous one.
func SetDefault(m *Manager) *Manager {
	defaultLock.Lock()
	defer defaultLock.Unlock()
	prev := defaultManager
	defaultManager = m
	return prev
}

// Get returns the runtime from the process-wide Manager.
func Get(ctx context.Context, provider string, refresh bool) (*Runtime, error) {
	return Default().Runtime(ctx, provider, refresh)
}

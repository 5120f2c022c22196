package googleai

import (
	"net/http"

	"cloud.google.com/go/auth"
	"google.golang.org/genai"
)

// Options is a set of options for Gemini API and Vertex AI clients.
type Options struct {
	APIKey        string
	VertexAI      bool
	CloudProject  string
	CloudLocation string
	// BaseURL overrides the service endpoint
	BaseURL     string
	Credentials *auth.Credentials
	HTTPClient  *http.Client

	DefaultCandidateCount int
	HarmThreshold         genai.HarmBlockThreshold
}

func DefaultOptions() Options {
	return Options{
		DefaultCandidateCount: 1,
		HarmThreshold:         genai.HarmBlockThresholdBlockOnlyHigh,
	}
}

type Option func(*Options)

// WithAPIKey passes the API KEY (token) to the client.
func WithAPIKey(apiKey string) Option {
	return func(opts *Options) {
		opts.APIKey = apiKey
	}
}

// WithVertexAI selects the Vertex AI backend instead of the Gemini API.
func WithVertexAI(enabled bool) Option {
	return func(opts *Options) {
		opts.VertexAI = enabled
	}
}

// WithCredentials append a ClientOption that authenticates
// API calls with the given credentials.
func WithCredentials(credentials *auth.Credentials) Option {
	return func(opts *Options) {
		if credentials == nil {
			return
		}
		opts.Credentials = credentials
	}
}

// WithHTTPClient sets the HTTP client used to make requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(opts *Options) {
		opts.HTTPClient = httpClient
	}
}

// WithBaseURL overrides the service endpoint.
func WithBaseURL(baseURL string) Option {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}

// WithCloudProject passes the GCP cloud project name to the client. This is
// useful for vertex clients.
func WithCloudProject(p string) Option {
	return func(opts *Options) {
		opts.CloudProject = p
	}
}

// WithCloudLocation passes the GCP cloud location (region) name to the client.
// This is useful for vertex clients.
func WithCloudLocation(l string) Option {
	return func(opts *Options) {
		opts.CloudLocation = l
	}
}

// WithDefaultCandidateCount sets the candidate count for the model.
func WithDefaultCandidateCount(defaultCandidateCount int) Option {
	return func(opts *Options) {
		opts.DefaultCandidateCount = defaultCandidateCount
	}
}

// WithHarmThreshold sets the safety/harm setting for the model, potentially
// limiting any harmful content it may generate.
func WithHarmThreshold(ht genai.HarmBlockThreshold) Option {
	return func(opts *Options) {
		opts.HarmThreshold = ht
	}
}

// ClientConfig returns the genai client configuration for the options.
func (o *Options) ClientConfig() *genai.ClientConfig {
	cfg := &genai.ClientConfig{
		APIKey:      o.APIKey,
		Credentials: o.Credentials,
		HTTPClient:  o.HTTPClient,
		Backend:     genai.BackendGeminiAPI,
	}
	if o.BaseURL != "" {
		cfg.HTTPOptions.BaseURL = o.BaseURL
	}
	if o.VertexAI {
		cfg.Backend = genai.BackendVertexAI
		cfg.Project = o.CloudProject
		cfg.Location = o.CloudLocation
		// Vertex accepts either an API key (express mode) or project/location
		// with application default credentials, not both. Project/location wins.
		if cfg.Project != "" || cfg.Location != "" {
			cfg.APIKey = ""
		}
	}
	return cfg
}

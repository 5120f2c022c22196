package openai

import (
	"net/http"

	"github.com/openai/openai-go/v3/option"
)

type options struct {
	token        string
	baseURL      string
	organization string
	httpClient   *http.Client
	maxRetries   *int
}

// Option is a functional option for the OpenAI client.
type Option func(*options)

// WithToken passes the OpenAI API token to the client. If not set, the SDK
// reads the OPENAI_API_KEY environment variable.
func WithToken(token string) Option {
	return func(opts *options) {
		opts.token = token
	}
}

// WithBaseURL passes the OpenAI base url to the client. If not set, the SDK
// reads OPENAI_BASE_URL, then uses https://api.openai.com/v1.
func WithBaseURL(baseURL string) Option {
	return func(opts *options) {
		opts.baseURL = baseURL
	}
}

// WithOrganization passes the OpenAI organization to the client. If not set, the
// SDK reads OPENAI_ORG_ID.
func WithOrganization(organization string) Option {
	return func(opts *options) {
		opts.organization = organization
	}
}

// WithHTTPClient allows setting a custom HTTP client. If not set, the default value
// is http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *options) {
		opts.httpClient = client
	}
}

// WithMaxRetries sets the SDK retry count.
func WithMaxRetries(n int) Option {
	return func(opts *options) {
		opts.maxRetries = &n
	}
}

func (o *options) requestOptions() []option.RequestOption {
	var ro []option.RequestOption
	if o.token != "" {
		ro = append(ro, option.WithAPIKey(o.token))
	}
	if o.baseURL != "" {
		ro = append(ro, option.WithBaseURL(o.baseURL))
	}
	if o.organization != "" {
		ro = append(ro, option.WithOrganization(o.organization))
	}
	if o.httpClient != nil {
		ro = append(ro, option.WithHTTPClient(o.httpClient))
	}
	if o.maxRetries != nil {
		ro = append(ro, option.WithMaxRetries(*o.maxRetries))
	}
	return ro
}

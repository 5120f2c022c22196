// Package llms provides the provider-neutral model interface used by the
// structured generation runtime.
//
// Each subpackage wraps one provider SDK and exposes a client factory plus a
// model handle implementing [Model].
//
// The `llms.go` file contains the types and interfaces for interacting with different LLMs.
//
// The `options.go` file provides the call options applied per request.
package llms

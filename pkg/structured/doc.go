// Package structured constrains model output to the JSON schema of a Go type
// and decodes the result.
//
// A [Model] wraps an [llms.Model]. [Generate] derives the response format
// from the target type, asks the provider for schema-constrained JSON, then
// decodes and validates it.
package structured

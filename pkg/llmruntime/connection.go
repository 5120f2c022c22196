package llmruntime

import (
	"fmt"
	"strings"
)

// Connection holds the provider client parameters.
type Connection struct {
	APIKey       string
	BaseURL      string
	Organization string

	// VertexAI selects the Vertex AI backend for Gemini.
	VertexAI bool
	Project  string
	Location string
}

// String returns a description with the API key redacted.
func (c *Connection) String() string {
	if c == nil {
		return "<nil>"
	}
	var parts []string
	if c.APIKey != "" {
		parts = append(parts, "api_key=***")
	}
	if c.BaseURL != "" {
		parts = append(parts, "base_url="+c.BaseURL)
	}
	if c.Organization != "" {
		parts = append(parts, "organization="+c.Organization)
	}
	if c.VertexAI {
		parts = append(parts, fmt.Sprintf("vertex_ai=true project=%s location=%s", c.Project, c.Location))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

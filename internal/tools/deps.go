// Package tools provides MCP tool handlers and registration.
package tools

import (
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/agentx-mcp/internal/airtable"
)

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	// Airtable is nil when no credential was configured.
	Airtable airtable.Service
	Logger   *slog.Logger
}

// missingCredentialHint tells the caller how to configure the server.
const missingCredentialHint = "Set AIRTABLE_API_KEY in the server environment (or pass the key as the first argument) and restart"

// service returns the Airtable service or an error result when it is not configured.
func (d *Dependencies) service() (airtable.Service, *mcp.CallToolResult) {
	if d == nil || d.Airtable == nil {
		return nil, ErrorResult("Airtable API key is not configured", missingCredentialHint)
	}
	return d.Airtable, nil
}

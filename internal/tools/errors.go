package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/agentx-mcp/internal/airtable"
)

// ErrorResult creates a tool error result with optional recovery hint.
// If hint is non-empty, formats as "{msg}. {hint}".
// Returns IsError=true so LLM can see the error and self-correct.
func ErrorResult(msg, hint string) *mcp.CallToolResult {
	text := msg
	if hint != "" {
		text = msg + ". " + hint
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

// TextResult creates a success result with text content.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// JSONResult renders v as indented JSON text.
func JSONResult(v any) *mcp.CallToolResult {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ErrorResult(fmt.Sprintf("Failed to encode result: %v", err), "")
	}
	return TextResult(string(jsonBytes))
}

// APIErrorResult turns an Airtable failure into an error result, picking a
// hint from the error kind. The library message is kept so the caller sees it.
func APIErrorResult(action string, err error) *mcp.CallToolResult {
	msg := fmt.Sprintf("Failed to %s: %v", action, err)
	switch {
	case errors.Is(err, airtable.ErrUnauthorized):
		return ErrorResult(msg, "Check that the API key is valid and has access to this base")
	case errors.Is(err, airtable.ErrNotFound):
		return ErrorResult(msg, "Use list_bases and list_tables to find valid ids")
	case errors.Is(err, airtable.ErrNoSearchableFields):
		return ErrorResult(msg, "Pass fieldIds naming text fields (singleLineText, multilineText, richText, email, url, phoneNumber); see describe_table")
	default:
		return ErrorResult(msg, "")
	}
}

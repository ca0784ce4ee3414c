package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/agentx-mcp/internal/metrics"
)

// maxArgLogLen is the maximum length for logged arguments before truncation.
const maxArgLogLen = 200

// slowRequestThreshold is the duration above which requests are logged at WARN level.
const slowRequestThreshold = 100 * time.Millisecond

// LoggingMiddleware returns middleware that logs all requests with timing.
// Slow requests (>100ms) are logged at WARN level.
// Arguments are truncated to 200 characters.
func LoggingMiddleware(logger *slog.Logger) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()

			// Call the next handler
			result, err := next(ctx, method, req)

			duration := time.Since(start)

			// Build log attributes
			attrs := []any{
				"method", method,
				"duration_ms", duration.Milliseconds(),
			}

			// Add truncated params if present
			if params := formatParams(req); params != "" {
				attrs = append(attrs, "params", truncate(params, maxArgLogLen))
			}

			// Log based on duration and error
			if err != nil {
				attrs = append(attrs, "error", err.Error())
				logger.Error("request failed", attrs...)
			} else if duration > slowRequestThreshold {
				logger.Warn("slow request", attrs...)
			} else {
				logger.Debug("request completed", attrs...)
			}

			return result, err
		}
	}
}

// MetricsMiddleware returns middleware that records request timings.
// Tool calls are recorded per tool as "tool.<name>", everything else by method.
func MetricsMiddleware(c *metrics.Collector) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()
			result, err := next(ctx, method, req)

			op := method
			if call, ok := req.(*mcp.CallToolRequest); ok && call.Params != nil {
				op = "tool." + call.Params.Name
				// Tool failures surface as IsError results, not Go errors.
				if res, ok := result.(*mcp.CallToolResult); ok && err == nil && res.IsError {
					c.RecordTiming(op, time.Since(start), errToolResult)
					return result, err
				}
			}
			c.RecordTiming(op, time.Since(start), err)
			return result, err
		}
	}
}

// errToolResult marks a tool call that returned an error result.
var errToolResult = errors.New("tool returned error result")

// formatParams extracts and formats request parameters for logging.
func formatParams(req mcp.Request) string {
	// Try to get params using the Request interface
	params := req.GetParams()
	if params == nil {
		return ""
	}
	return fmt.Sprintf("%+v", params)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
// truncate shortens s to at most maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

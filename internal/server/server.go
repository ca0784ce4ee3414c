// Package server provides the MCP server wrapper with lifecycle management.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/agentx-mcp/internal/metrics"
)

// Name is the implementation name reported to clients.
const Name = "airtable-mcp"

// codeServerClosing is the JSON-RPC code the SDK uses for "server is closing".
const codeServerClosing = -32004

// Server wraps the MCP server with dependencies and lifecycle management.
type Server struct {
	mcp       *mcp.Server
	logger    *slog.Logger
	collector *metrics.Collector
	traceOut  io.Writer
}

// Option configures a Server.
type Option func(*Server)

// WithCollector records per-request timings.
func WithCollector(c *metrics.Collector) Option {
	return func(s *Server) { s.collector = c }
}

// WithTransportTrace writes every JSON-RPC frame sent or received on stdio to w.
func WithTransportTrace(w io.Writer) Option {
	return func(s *Server) { s.traceOut = w }
}

// New creates a new MCP server with the given version and logger.
func New(version string, logger *slog.Logger, opts ...Option) *Server {
	impl := &mcp.Implementation{
		Name:    Name,
		Version: version,
	}

	s := &Server{
		mcp:    mcp.NewServer(impl, nil),
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves on stdio and blocks until stdin closes or ctx is cancelled.
// Connecting and starting the transport happen together.
func (s *Server) Run(ctx context.Context) error {
	var transport mcp.Transport = &mcp.StdioTransport{}
	if s.traceOut != nil {
		transport = &mcp.LoggingTransport{Transport: transport, Writer: s.traceOut}
	}
	s.logger.Info("starting MCP server", "name", Name, "transport", "stdio", "trace", s.traceOut != nil)
	return s.Serve(ctx, transport)
}

// Serve runs the server on t. A peer that closes its side ends the session
// normally and Serve returns nil; ctx cancellation returns ctx.Err().
func (s *Server) Serve(ctx context.Context, t mcp.Transport) error {
	err := s.mcp.Run(ctx, t)
	if err != nil && ctx.Err() == nil && InputClosed(err) {
		s.logger.Info("client closed the connection", "reason", err)
		return nil
	}
	return err
}

// InputClosed reports whether err means the peer hung up rather than a
// transport failure. The SDK reports EOF on stdin as "server is closing: EOF".
func InputClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, mcp.ErrConnectionClosed) ||
		errors.Is(err, &jsonrpc.Error{Code: codeServerClosing})
}

// MCPServer returns the underlying MCP server for tool registration.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Setup adds middleware to the server (logging, metrics).
func (s *Server) Setup() {
	s.mcp.AddReceivingMiddleware(LoggingMiddleware(s.logger))
	if s.collector != nil {
		s.mcp.AddReceivingMiddleware(MetricsMiddleware(s.collector))
	}
}

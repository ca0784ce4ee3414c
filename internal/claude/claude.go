// Package claude sends a single prompt to the Anthropic Messages API and
// returns the text of the first content block of the reply.
package claude

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/raphaelgruber/agentx-mcp/internal/metrics"
)

const (
	// DefaultBaseURL is the root of the Messages endpoint (POST /v1/messages).
	DefaultBaseURL = "https://api.anthropic.com"

	// DefaultModel is the model every prompt is sent to.
	DefaultModel = "claude-3-5-sonnet-20241022"

	// DefaultMaxTokens is the token budget for each reply.
	DefaultMaxTokens = 1000

	// APIVersion is sent as the anthropic-version header.
	APIVersion = "2023-06-01"

	// APIKeyEnv holds the credential read by the package-level Ask.
	APIKeyEnv = "CLAUDE_API_KEY"
)

// ErrEmptyResponse is returned when the reply carries no content blocks.
var ErrEmptyResponse = errors.New("empty response content")

// Config holds the endpoint, model and credential for a Client.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// Client asks Claude one prompt at a time.
type Client struct {
	api       anthropic.Client
	model     string
	maxTokens int
	collector *metrics.Collector
}

// Option customizes a Client.
type Option func(*Client)

// WithCollector records call timing and token usage in c.
func WithCollector(c *metrics.Collector) Option {
	return func(cl *Client) {
		cl.collector = c
	}
}

// New creates a Client. Empty fields fall back to the package defaults.
// SDK retries are disabled: a failed call surfaces on the first attempt.
func New(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	c := &Client{
		api: anthropic.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
			option.WithHeader("anthropic-version", APIVersion),
			option.WithMaxRetries(0),
		),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the model id prompts are sent to.
func (c *Client) Model() string {
	return c.model
}

// Ask posts prompt as a single user message and returns the text of the
// first content block.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		c.collector.RecordTiming(metrics.OpLLMGenerate, time.Since(start), err)
		return "", fmt.Errorf("create message: %w", err)
	}
	c.collector.RecordLLMUsage(metrics.OpLLMGenerate, time.Since(start),
		msg.Usage.InputTokens, msg.Usage.OutputTokens)

	if len(msg.Content) == 0 {
		return "", ErrEmptyResponse
	}
	return msg.Content[0].Text, nil
}

// Ask sends prompt with the default model, token budget and endpoint,
// authenticating with CLAUDE_API_KEY.
func Ask(ctx context.Context, prompt string) (string, error) {
	return New(Config{APIKey: os.Getenv(APIKeyEnv)}).Ask(ctx, prompt)
}

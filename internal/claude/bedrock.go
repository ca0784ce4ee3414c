package claude

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// DefaultBedrockModel is the Bedrock id of DefaultModel.
const DefaultBedrockModel = "anthropic.claude-3-5-sonnet-20241022-v2:0"

// BedrockConfig selects the AWS region and model for NewBedrock.
// Credentials come from the standard AWS chain (env, shared config, role).
type BedrockConfig struct {
	Region    string
	Model     string
	MaxTokens int
}

// NewBedrock creates a Client that reaches Claude through Amazon Bedrock.
func NewBedrock(ctx context.Context, cfg BedrockConfig, opts ...Option) (*Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newBedrock(awsCfg, cfg, opts...), nil
}

func newBedrock(awsCfg aws.Config, cfg BedrockConfig, opts ...Option) *Client {
	if cfg.Model == "" || cfg.Model == DefaultModel {
		cfg.Model = DefaultBedrockModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	c := &Client{
		api: anthropic.NewClient(
			bedrock.WithConfig(awsCfg),
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

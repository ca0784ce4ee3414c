// Package cli provides the command-line interface for agentx.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/raphaelgruber/agentx-mcp/internal/claude"
	"github.com/raphaelgruber/agentx-mcp/internal/config"
	"github.com/raphaelgruber/agentx-mcp/internal/embedding"
	"github.com/raphaelgruber/agentx-mcp/internal/metrics"
	"github.com/raphaelgruber/agentx-mcp/internal/vector"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

// app carries state shared by one command invocation.
type app struct {
	cfg       config.Config
	collector *metrics.Collector
	logger    *slog.Logger
	// embedder is set by openStore when the configured provider is usable.
	embedder embedding.Embedder
	stats    bool
	verbose  bool
}

// NewRootCmd builds the agentx command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "agentx",
		Short: "Language-model and vector-memory helpers",
		Long: `agentx asks Claude one-shot questions and manages a local vector memory.

Configuration comes from the environment (or a .env file):
  CLAUDE_API_KEY         credential for ask
  CLAUDE_PROVIDER        anthropic (default) or bedrock
  AGENTX_VECTOR_PATH     vector store directory (default ./vector_store)
  AGENTX_EMBED_PROVIDER  ollama, openai or voyage for text embeddings`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			a.collector = metrics.NewCollector()
			level := a.cfg.LogLevel
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !a.stats {
				return nil
			}
			return printStats(cmd.ErrOrStderr(), a.collector.Snapshot())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&a.stats, "stats", false, "print operation statistics after the command")

	rootCmd.AddCommand(newAskCmd(a))
	rootCmd.AddCommand(newMemoryCmd(a))
	return rootCmd
}

// Execute runs the root command with the given output streams and arguments.
func Execute(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	cmd := NewRootCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func (a *app) claudeClient(ctx context.Context) (*claude.Client, error) {
	switch a.cfg.ClaudeProvider {
	case "bedrock":
		return claude.NewBedrock(ctx, claude.BedrockConfig{
			Region:    a.cfg.AWSRegion,
			Model:     a.cfg.ClaudeModel,
			MaxTokens: a.cfg.ClaudeMaxTokens,
		}, claude.WithCollector(a.collector))
	case "", "anthropic":
		if a.cfg.ClaudeAPIKey == "" {
			return nil, fmt.Errorf("CLAUDE_API_KEY is not set")
		}
		return claude.New(claude.Config{
			APIKey:    a.cfg.ClaudeAPIKey,
			BaseURL:   a.cfg.ClaudeBaseURL,
			Model:     a.cfg.ClaudeModel,
			MaxTokens: a.cfg.ClaudeMaxTokens,
		}, claude.WithCollector(a.collector)), nil
	default:
		return nil, fmt.Errorf("unknown CLAUDE_PROVIDER %q (want anthropic or bedrock)", a.cfg.ClaudeProvider)
	}
}

// openStore opens the vector store. Text embedding is attached when the
// configured provider can be built; otherwise callers must pass vectors.
func (a *app) openStore() (*vector.Store, error) {
	opts := []vector.Option{
		vector.WithCollector(a.collector),
		vector.WithLogger(a.logger),
	}

	embedder, err := embedding.New(embedding.Config{
		Provider:          embedding.ProviderType(a.cfg.EmbedProvider),
		Model:             a.cfg.EmbedModel,
		ExpectedDimension: a.cfg.EmbedDimension,
		OllamaHost:        a.cfg.OllamaHost,
		OpenAIAPIKey:      a.cfg.OpenAIAPIKey,
		VoyageAPIKey:      a.cfg.VoyageAPIKey,
	})
	if err != nil {
		a.logger.Warn("text embedding unavailable", "provider", a.cfg.EmbedProvider, "error", err)
	} else {
		a.logger.Debug("embedder ready", "provider", a.cfg.EmbedProvider, "model", embedder.Model(), "dimension", embedder.Dimension())
		a.embedder = embedder
		opts = append(opts, vector.WithEmbedder(embedder.Embed))
	}

	store, err := vector.Open(vector.Config{
		Path:       a.cfg.VectorPath,
		Collection: a.cfg.VectorCollection,
		Compress:   a.cfg.VectorCompress,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}
	return store, nil
}

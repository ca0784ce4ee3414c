// Package embedding provides text embedding generation with multiple backend support.
package embedding

import (
	"context"
	"fmt"
)

// Embedder defines the interface for text embedding providers.
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the name of the embedding model being used.
	Model() string

	// Dimension returns the embedding vector dimension.
	// Every vector stored in one collection must share it.
	Dimension() int
}

// ProviderType identifies the embedding provider.
type ProviderType string

const (
	// ProviderOllama uses a local Ollama server.
	ProviderOllama ProviderType = "ollama"

	// ProviderOpenAI uses the OpenAI embeddings API through langchaingo.
	ProviderOpenAI ProviderType = "openai"

	// ProviderVoyage uses Voyage AI, Anthropic's recommended embedding partner.
	ProviderVoyage ProviderType = "voyage"
)

// Config holds configuration for creating an Embedder.
type Config struct {
	// Provider specifies which embedding backend to use.
	Provider ProviderType

	// Model is the embedding model name (provider-specific).
	// Empty selects the provider default.
	Model string

	// ExpectedDimension is the required output dimension.
	// Set to 0 to use provider's default.
	ExpectedDimension int

	// Provider-specific
	OllamaHost   string
	OpenAIAPIKey string
	VoyageAPIKey string
}

// New creates an Embedder based on the provided configuration.
func New(cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case ProviderOllama, "":
		return NewOllamaClient(cfg.OllamaHost, cfg.Model, cfg.ExpectedDimension)

	case ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.Model, cfg.ExpectedDimension)

	case ProviderVoyage:
		return NewVoyageClient(cfg.VoyageAPIKey, cfg.Model, cfg.ExpectedDimension)

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

// checkDimension validates one vector against the expected size.
func checkDimension(i int, emb []float32, want int, model string) error {
	if len(emb) != want {
		return fmt.Errorf("embedding %d dimension mismatch: got %d, want %d (model: %s)",
			i, len(emb), want, model)
	}
	return nil
}

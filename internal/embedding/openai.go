package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// DefaultOpenAIModel is the default OpenAI embedding model.
	DefaultOpenAIModel = "text-embedding-3-small"

	// DefaultOpenAIDimension is the dimension for text-embedding-3-small.
	DefaultOpenAIDimension = 1536
)

// OpenAIClient wraps langchaingo OpenAI embeddings with dimension validation.
type OpenAIClient struct {
	model     embeddings.Embedder
	dimension int
	modelName string
}

// Compile-time check that OpenAIClient implements Embedder.
var _ Embedder = (*OpenAIClient)(nil)

// NewOpenAIClient creates an OpenAI embedder. Extra langchaingo options (for
// example openai.WithBaseURL) are applied after the token and model.
func NewOpenAIClient(apiKey, model string, expectedDimension int, opts ...openai.Option) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key required")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	if expectedDimension == 0 {
		expectedDimension = DefaultOpenAIDimension
	}

	llmOpts := append([]openai.Option{
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(model),
	}, opts...)
	llm, err := openai.New(llmOpts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("create openai embedder: %w", err)
	}

	return &OpenAIClient{
		model:     embedder,
		dimension: expectedDimension,
		modelName: model,
	}, nil
}

// Embed generates an embedding vector for text.
func (e *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	textLen := len(text)
	slog.Debug("embedding text", "model", e.modelName, "text_len", textLen)

	start := time.Now()
	vectors, err := e.model.EmbedDocuments(ctx, []string{text})
	duration := time.Since(start)

	if err != nil {
		slog.Warn("embedding failed", "model", e.modelName, "text_len", textLen, "duration_ms", duration.Milliseconds(), "error", err)
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	if err := checkDimension(0, vectors[0], e.dimension, e.modelName); err != nil {
		return nil, err
	}

	slog.Debug("embedding complete", "model", e.modelName, "text_len", textLen, "duration_ms", duration.Milliseconds())
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts.
func (e *OpenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors, err := e.model.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("count mismatch: got %d, want %d", len(vectors), len(texts))
	}
	for i, v := range vectors {
		if err := checkDimension(i, v, e.dimension, e.modelName); err != nil {
			return nil, err
		}
	}

	return vectors, nil
}

// Model returns the embedding model name.
func (e *OpenAIClient) Model() string {
	return e.modelName
}

// Dimension returns the expected embedding dimension.
func (e *OpenAIClient) Dimension() int {
	return e.dimension
}

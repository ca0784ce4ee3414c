package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/embeddings/voyageai"
)

const (
	// DefaultVoyageModel is the default Voyage AI embedding model.
	DefaultVoyageModel = "voyage-3"

	// DefaultVoyageDimension is the dimension for voyage-3.
	DefaultVoyageDimension = 1024
)

// VoyageClient wraps langchaingo Voyage AI embeddings with dimension validation.
type VoyageClient struct {
	model     *voyageai.VoyageAI
	dimension int
	modelName string
}

// Compile-time check that VoyageClient implements Embedder.
var _ Embedder = (*VoyageClient)(nil)

// NewVoyageClient creates a Voyage AI embedder. Extra langchaingo options (for
// example voyageai.WithClient) are applied after the token and model.
func NewVoyageClient(apiKey, model string, expectedDimension int, opts ...voyageai.Option) (*VoyageClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required for Voyage embeddings")
	}
	if model == "" {
		model = DefaultVoyageModel
	}
	if expectedDimension == 0 {
		expectedDimension = DefaultVoyageDimension
	}

	voyageOpts := append([]voyageai.Option{
		voyageai.WithToken(apiKey),
		voyageai.WithModel(model),
	}, opts...)
	v, err := voyageai.NewVoyageAI(voyageOpts...)
	if err != nil {
		return nil, fmt.Errorf("create voyage embedder: %w", err)
	}

	return &VoyageClient{
		model:     v,
		dimension: expectedDimension,
		modelName: model,
	}, nil
}

// Embed generates an embedding vector for text.
func (c *VoyageClient) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vectors, err := c.model.EmbedDocuments(ctx, []string{text})
	if err != nil {
		slog.Warn("embedding failed", "model", c.modelName, "text_len", len(text), "duration_ms", time.Since(start).Milliseconds(), "error", err)
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	if err := checkDimension(0, vectors[0], c.dimension, c.modelName); err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in request order.
func (c *VoyageClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors, err := c.model.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("count mismatch: got %d, want %d", len(vectors), len(texts))
	}
	for i, v := range vectors {
		if err := checkDimension(i, v, c.dimension, c.modelName); err != nil {
			return nil, err
		}
	}
	return vectors, nil
}

// Model returns the embedding model name.
func (c *VoyageClient) Model() string {
	return c.modelName
}

// Dimension returns the expected embedding dimension.
func (c *VoyageClient) Dimension() int {
	return c.dimension
}

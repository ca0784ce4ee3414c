// Package vector stores and retrieves memories in a local, file-backed
// vector database. Indexing and similarity search are delegated to chromem-go.
package vector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/philippgille/chromem-go"
	"github.com/raphaelgruber/agentx-mcp/internal/metrics"
)

const (
	// DefaultPath is the directory the store persists to.
	DefaultPath = "./vector_store"

	// DefaultCollection holds every memory record.
	DefaultCollection = "memories"

	// DefaultTopK is the number of neighbours returned when none is requested.
	DefaultTopK = 3
)

// ErrNoEmbedding is returned when a record or query has no embedding and no
// embedder is configured to compute one.
var ErrNoEmbedding = errors.New("no embedding supplied and no embedder configured")

// Config locates the store on disk.
type Config struct {
	Path       string
	Collection string
	Compress   bool
}

// EmbedFunc computes an embedding for text.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// Store is a memory collection inside a persistent chromem database.
type Store struct {
	db         *chromem.DB
	collection string
	embed      EmbedFunc
	collector  *metrics.Collector
	logger     *slog.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithEmbedder lets the store compute embeddings for records and queries that
// arrive with text only.
func WithEmbedder(fn EmbedFunc) Option {
	return func(s *Store) {
		s.embed = fn
	}
}

// WithCollector records add/query timings in c.
func WithCollector(c *metrics.Collector) Option {
	return func(s *Store) {
		s.collector = c
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// Open opens (or creates) the database directory at cfg.Path.
// The collection itself is created lazily on first use.
func Open(cfg Config, opts ...Option) (*Store, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	db, err := chromem.NewPersistentDB(cfg.Path, cfg.Compress)
	if err != nil {
		return nil, fmt.Errorf("open vector store %s: %w", cfg.Path, err)
	}

	s := &Store{
		db:         db,
		collection: cfg.Collection,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// embeddingFunc adapts the configured embedder to chromem. Without one, any
// attempt to embed text fails with ErrNoEmbedding.
func (s *Store) embeddingFunc() chromem.EmbeddingFunc {
	if s.embed == nil {
		return func(context.Context, string) ([]float32, error) {
			return nil, ErrNoEmbedding
		}
	}
	return func(ctx context.Context, text string) ([]float32, error) {
		start := time.Now()
		emb, err := s.embed(ctx, text)
		s.collector.RecordTiming(metrics.OpEmbedding, time.Since(start), err)
		return emb, err
	}
}

func (s *Store) getCollection() (*chromem.Collection, error) {
	c, err := s.db.GetOrCreateCollection(s.collection, nil, s.embeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("get collection %s: %w", s.collection, err)
	}
	return c, nil
}

// StoreMemory adds one record to the collection. An empty embedding is
// computed from text by the configured embedder.
func (s *Store) StoreMemory(ctx context.Context, id, text string, embedding []float32, metadata map[string]string) error {
	c, err := s.getCollection()
	if err != nil {
		return err
	}

	start := time.Now()
	err = c.AddDocument(ctx, chromem.Document{
		ID:        id,
		Metadata:  metadata,
		Embedding: embedding,
		Content:   text,
	})
	s.collector.RecordTiming(metrics.OpVectorAdd, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("add memory %s: %w", id, err)
	}

	s.logger.Debug("memory stored", "id", id, "collection", s.collection, "dimension", len(embedding))
	return nil
}

// Query returns up to topK nearest neighbours of queryEmbedding, most similar
// first. topK <= 0 means DefaultTopK; it is clamped to the collection size.
func (s *Store) Query(ctx context.Context, queryEmbedding []float32, topK int) ([]chromem.Result, error) {
	if len(queryEmbedding) == 0 {
		return nil, ErrNoEmbedding
	}
	c, err := s.getCollection()
	if err != nil {
		return nil, err
	}

	n := clampTopK(topK, c.Count())
	if n == 0 {
		return []chromem.Result{}, nil
	}

	start := time.Now()
	results, err := c.QueryEmbedding(ctx, queryEmbedding, n, nil, nil)
	s.collector.RecordTiming(metrics.OpVectorQuery, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}
	return results, nil
}

// QueryText embeds text with the configured embedder and queries with it.
func (s *Store) QueryText(ctx context.Context, text string, topK int) ([]chromem.Result, error) {
	if s.embed == nil {
		return nil, ErrNoEmbedding
	}
	c, err := s.getCollection()
	if err != nil {
		return nil, err
	}

	n := clampTopK(topK, c.Count())
	if n == 0 {
		return []chromem.Result{}, nil
	}

	start := time.Now()
	results, err := c.Query(ctx, text, n, nil, nil)
	s.collector.RecordTiming(metrics.OpVectorQuery, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}
	return results, nil
}

// RetrieveMemory returns the documents of the topK records nearest to
// queryEmbedding, most similar first.
func (s *Store) RetrieveMemory(ctx context.Context, queryEmbedding []float32, topK int) ([]string, error) {
	results, err := s.Query(ctx, queryEmbedding, topK)
	if err != nil {
		return nil, err
	}
	return Documents(results), nil
}

// Count returns the number of records in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c, err := s.getCollection()
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

// Delete removes the records with the given ids.
func (s *Store) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	c, err := s.getCollection()
	if err != nil {
		return err
	}
	if err := c.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("delete memories: %w", err)
	}
	return nil
}

// Documents flattens query results to their document text.
func Documents(results []chromem.Result) []string {
	docs := make([]string, 0, len(results))
	for _, r := range results {
		docs = append(docs, r.Content)
	}
	return docs
}

func clampTopK(topK, count int) int {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > count {
		return count
	}
	return topK
}

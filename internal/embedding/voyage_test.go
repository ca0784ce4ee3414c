package embedding_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/raphaelgruber/agentx-mcp/internal/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/embeddings/voyageai"
)

// redirectTransport sends every request to target, keeping the path.
type redirectTransport struct {
	target *url.URL
}

func (rt redirectTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	r.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

func voyageAt(t *testing.T, srv *httptest.Server) voyageai.Option {
	t.Helper()
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return voyageai.WithClient(http.Client{Transport: redirectTransport{target: target}})
}

func TestNewVoyageClientRequiresKey(t *testing.T) {
	_, err := embedding.NewVoyageClient("", "", 0)
	assert.Error(t, err)
}

func TestNewVoyageClientDefaults(t *testing.T) {
	client, err := embedding.NewVoyageClient("vk-test", "", 0)
	require.NoError(t, err)
	assert.Equal(t, embedding.DefaultVoyageModel, client.Model())
	assert.Equal(t, embedding.DefaultVoyageDimension, client.Dimension())
}

func TestVoyageEmbedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer vk-test", r.Header.Get("Authorization"))
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "voyage-lite", req.Model)
		assert.Equal(t, []string{"first", "second"}, req.Input)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 0, "embedding": []float32{1, 0}},
				{"index": 1, "embedding": []float32{0, 1}},
			},
		})
	}))
	defer srv.Close()

	client, err := embedding.NewVoyageClient("vk-test", "voyage-lite", 2, voyageAt(t, srv))
	require.NoError(t, err)

	embs, err := client.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, embs)
}

func TestVoyageDimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"index": 0, "embedding": []float32{0.1, 0.2, 0.3}}},
		})
	}))
	defer srv.Close()

	client, err := embedding.NewVoyageClient("vk-test", "", 2, voyageAt(t, srv))
	require.NoError(t, err)

	_, err = client.Embed(context.Background(), "hello")
	assert.ErrorContains(t, err, "dimension")
}

func TestVoyageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"bad key"}`))
	}))
	defer srv.Close()

	client, err := embedding.NewVoyageClient("vk-test", "", 0, voyageAt(t, srv))
	require.NoError(t, err)

	_, err = client.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
}

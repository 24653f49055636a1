package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/cfg"
	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmbedder(t *testing.T, handler http.HandlerFunc, maxRetries int) *Embedder {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewEmbedder(&cfg.EmbedderCfg{
		BaseURL:        srv.URL,
		MaxConcurrent:  2,
		MaxRetries:     maxRetries,
		RequestTimeout: 2 * time.Second,
	}, logger.NewNoopLogger())
}

func vectorOfDim(dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = 0.01
	}
	return v
}

func TestEncodeText(t *testing.T) {
	var gotBody encodeRequest
	handler := func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/embed", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode([][]float32{vectorOfDim(domain.EmbeddingDim)})
	}

	em := newTestEmbedder(t, handler, 1)

	vector, err := em.EncodeText(context.Background(), "wireless mouse")
	require.NoError(t, err)

	assert.Len(t, vector, domain.EmbeddingDim)
	assert.Equal(t, "wireless mouse", gotBody.Inputs)
}

func TestEncodeTextWrongDimension(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([][]float32{vectorOfDim(8)})
	}

	em := newTestEmbedder(t, handler, 1)

	_, err := em.EncodeText(context.Background(), "mouse")
	assert.ErrorIs(t, err, e.ErrEncoderUnavailable)
}

func TestEncodeTextRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "model loading", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode([][]float32{vectorOfDim(domain.EmbeddingDim)})
	}

	em := newTestEmbedder(t, handler, 3)

	vector, err := em.EncodeText(context.Background(), "mouse")
	require.NoError(t, err)

	assert.Len(t, vector, domain.EmbeddingDim)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEncodeTextGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}

	em := newTestEmbedder(t, handler, 2)

	_, err := em.EncodeText(context.Background(), "mouse")
	assert.ErrorIs(t, err, e.ErrEncoderUnavailable)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEncodeTextContextCanceled(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([][]float32{vectorOfDim(domain.EmbeddingDim)})
	}

	em := newTestEmbedder(t, handler, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := em.EncodeText(ctx, "mouse")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}

	em := newTestEmbedder(t, handler, 1)
	assert.NoError(t, em.Ping(context.Background()))
}

func TestPingUnavailable(t *testing.T) {
	em := NewEmbedder(&cfg.EmbedderCfg{
		BaseURL:        "http://127.0.0.1:1",
		MaxConcurrent:  1,
		MaxRetries:     1,
		RequestTimeout: 200 * time.Millisecond,
	}, logger.NewNoopLogger())

	assert.ErrorIs(t, em.Ping(context.Background()), e.ErrEncoderUnavailable)
}

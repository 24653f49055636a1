package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/cfg"
	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/jitter"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
)

// Embedder — клиент sidecar-сервиса кодирования текста (all-MiniLM-L6-v2).
// Один экземпляр разделяется всеми запросами и фоновыми заданиями; модель
// на стороне sidecar загружается один раз на процесс.
type Embedder struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	sem        chan struct{} // ограничение конкурентных инференсов
	logger     logger.Logger
}

func NewEmbedder(cfg *cfg.EmbedderCfg, logger logger.Logger) *Embedder {
	return &Embedder{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    cfg.BaseURL,
		maxRetries: cfg.MaxRetries,
		sem:        make(chan struct{}, cfg.MaxConcurrent),
		logger:     logger,
	}
}

type encodeRequest struct {
	Inputs string `json:"inputs"`
}

// EncodeText кодирует текст в вектор с retry-логикой и экспоненциальной задержкой.
func (m *Embedder) EncodeText(ctx context.Context, text string) ([]float32, error) {
	const (
		op         = "Embedder.EncodeText"
		baseJitter = 1 * time.Second
		maxJitter  = 30 * time.Second
	)

	for attempt := 0; attempt < m.maxRetries; attempt++ {
		vector, err := m.encodeOnce(ctx, text)
		if err == nil {
			return vector, nil
		}

		if attempt == m.maxRetries-1 {
			return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", m.maxRetries, e.ErrEncoderUnavailable))
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		m.logger.Warnf("text encoding failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, fmt.Errorf("unreachable"))
}

// encodeOnce выполняет один инференс под семафором.
func (m *Embedder) encodeOnce(ctx context.Context, text string) ([]float32, error) {
	const op = "Embedder.encodeOnce"

	select {
	case m.sem <- struct{}{}:
		defer func() { <-m.sem }()
	case <-ctx.Done():
		return nil, e.Wrap(op, ctx.Err())
	}

	body, err := json.Marshal(encodeRequest{Inputs: text})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, e.Wrap(op, fmt.Errorf("encoder returned %d: %s", resp.StatusCode, payload))
	}

	var vectors [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&vectors); err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(vectors) != 1 {
		return nil, e.Wrap(op, e.ErrEmptyVector)
	}

	if len(vectors[0]) != domain.EmbeddingDim {
		return nil, e.Wrap(op, fmt.Errorf("%w: got %d, want %d", e.ErrVectorSizeMismatch, len(vectors[0]), domain.EmbeddingDim))
	}

	return vectors[0], nil
}

// Ping проверяет доступность кодировщика. Недоступность — не фатальная
// ошибка: сервис стартует и деградирует до пустой поисковой выдачи.
func (m *Embedder) Ping(ctx context.Context) error {
	const op = "Embedder.Ping"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/health", nil)
	if err != nil {
		return e.Wrap(op, err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return e.Wrap(op, e.ErrEncoderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return e.Wrap(op, fmt.Errorf("%w: status %d", e.ErrEncoderUnavailable, resp.StatusCode))
	}

	return nil
}

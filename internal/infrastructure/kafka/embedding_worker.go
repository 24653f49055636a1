package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/cfg"
	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Таймаут одного задания: кодирование текста с retry плюс запись вектора.
const embeddingJobTimeout = 90 * time.Second

// EmbeddingWorker читает события embedding_requested и обновляет вектора
// товаров. Ошибки отдельных заданий логируются и не блокируют партицию:
// offset коммитится всегда, недостающие вектора добирает backfill.
type EmbeddingWorker struct {
	reader    *kafka.Reader
	productUC usecase.ProductUC
	logger    logger.Logger
	wg        sync.WaitGroup
}

func NewEmbeddingWorker(cfg *cfg.KafkaCfg, productUC usecase.ProductUC, logger logger.Logger) *EmbeddingWorker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       1e6,
		MaxWait:        1 * time.Second,
		CommitInterval: 0, // синхронные коммиты
	})

	return &EmbeddingWorker{
		reader:    reader,
		productUC: productUC,
		logger:    logger,
	}
}

func (w *EmbeddingWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

func (w *EmbeddingWorker) Stop() {
	if err := w.reader.Close(); err != nil {
		w.logger.Warnf("Kafka reader close failed: %v", err)
	}
	w.wg.Wait()
}

func (w *EmbeddingWorker) run(ctx context.Context) {
	w.logger.Infof("Embedding worker started, group: %s", w.reader.Config().GroupID)

	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, kafka.ErrGroupClosed) {
				w.logger.Infof("Embedding worker stopped")
				return
			}
			w.logger.Warnf("Kafka fetch failed: %v", err)
			time.Sleep(2 * time.Second)
			continue
		}

		w.processMessage(ctx, msg)

		if err := w.reader.CommitMessages(ctx, msg); err != nil {
			w.logger.Warnf("Kafka commit failed: %v", err)
		}
	}
}

func (w *EmbeddingWorker) processMessage(ctx context.Context, msg kafka.Message) {
	var event usecase.EmbeddingRequestedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		w.logger.Warnf("Malformed event at offset %d: %v", msg.Offset, err)
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, embeddingJobTimeout)
	defer cancel()

	if err := w.productUC.GenerateEmbedding(jobCtx, event.ProductID); err != nil {
		w.logger.Warnf("Embedding generation failed, product_id: %d, event_id: %s: %v",
			event.ProductID, event.EventID, err)
		return
	}

	w.logger.Debugf("Embedding stored, product_id: %d, event_id: %s", event.ProductID, event.EventID)
}

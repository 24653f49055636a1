package main

import (
	"context"
	"os"

	config "github.com/DRSN-tech/catalog-service/internal/cfg"
	"github.com/DRSN-tech/catalog-service/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/catalog-service/internal/repository/pgdb/converter/generated"
	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/DRSN-tech/catalog-service/pkg/postgres"
)

// Backfill ставит в очередь генерацию векторов для всех товаров без
// embedding. Сами вектора считает embedding-воркер основного сервиса.
func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		log.Errorf(err, "failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverterImpl())
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverterImpl())
	productUC := usecase.NewProductUC(productRepo, outboxRepo, db.Pool, nil, nil, log)

	ctx := context.Background()

	ids, err := productUC.ListProductsMissingEmbedding(ctx)
	if err != nil {
		log.Errorf(err, "failed to list products missing embedding")
		os.Exit(1)
	}

	if len(ids) == 0 {
		log.Infof("All products already have embeddings")
		return
	}

	log.Infof("Queueing embedding generation for %d products", len(ids))

	var queued, failed int
	for _, id := range ids {
		if err := productUC.RequestEmbedding(ctx, id); err != nil {
			log.Warnf("product %d: queue failed: %v", id, err)
			failed++
			continue
		}
		queued++
	}

	log.Infof("Backfill finished, queued: %d, failed: %d", queued, failed)
}

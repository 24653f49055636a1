package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	config "github.com/DRSN-tech/catalog-service/internal/cfg"
	s3Repo "github.com/DRSN-tech/catalog-service/internal/repository/minio"
	"github.com/DRSN-tech/catalog-service/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/catalog-service/internal/repository/pgdb/converter/generated"
	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/clients"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/DRSN-tech/catalog-service/pkg/postgres"
	"github.com/shopspring/decimal"
)

// Импорт каталога из CSV-датасета: локального файла или объекта в MinIO.
// -stage загружает локальный CSV в MinIO под ключом -object перед импортом.
// Ожидаемые колонки: asin, title, description, category, brand, price.
// Дубликаты по ASIN пропускаются, outbox-события генерации векторов
// разбирает основной сервис.
func main() {
	var (
		filePath  = flag.String("file", "", "путь к локальному CSV-файлу")
		objectKey = flag.String("object", "", "ключ CSV-объекта в MinIO")
		stagePath = flag.String("stage", "", "локальный CSV для загрузки в MinIO под ключом -object")
	)
	flag.Parse()

	log := logger.NewSlogLogger()

	switch {
	case *stagePath != "" && (*objectKey == "" || *filePath != ""):
		log.Errorf(fmt.Errorf("-stage requires -object and excludes -file"), "invalid arguments")
		os.Exit(1)
	case *stagePath == "" && (*filePath == "") == (*objectKey == ""):
		log.Errorf(fmt.Errorf("exactly one of -file or -object is required"), "invalid arguments")
		os.Exit(1)
	}

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

	if err := db.RunMigrations(log); err != nil {
		log.Errorf(err, "failed to run migrations")
		os.Exit(1)
	}

	ctx := context.Background()

	var store datasetStore
	if *objectKey != "" {
		mc, err := clients.NewMinIOClient(cfg.Minio)
		if err != nil {
			log.Errorf(err, "failed to connect to MinIO")
			os.Exit(1)
		}
		store = s3Repo.NewDatasetRepo(mc, cfg.Minio)
	}

	if *stagePath != "" {
		if err := stageDataset(ctx, store, *stagePath, *objectKey); err != nil {
			log.Errorf(err, "failed to stage dataset")
			os.Exit(1)
		}
		log.Infof("Staged %s to MinIO as %s", *stagePath, *objectKey)
	}

	reader, err := openDataset(ctx, store, *filePath, *objectKey)
	if err != nil {
		log.Errorf(err, "failed to open dataset")
		os.Exit(1)
	}
	defer reader.Close()

	productUC := buildProductUC(db, cfg, log)

	imported, skipped, err := importCSV(ctx, reader, productUC, log)
	if err != nil {
		log.Errorf(err, "import failed")
		os.Exit(1)
	}

	log.Infof("Import finished, imported: %d, skipped: %d", imported, skipped)
}

// datasetStore — хранилище датасетов; реализуется minio.DatasetRepo.
type datasetStore interface {
	Fetch(ctx context.Context, objectKey string) (io.ReadCloser, error)
	Upload(ctx context.Context, objectKey string, reader io.Reader, size int64) error
}

// stageDataset загружает локальный CSV в бакет, после чего импорт читает
// его оттуда же.
func stageDataset(ctx context.Context, store datasetStore, filePath, objectKey string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return e.Wrap("failed to open dataset for staging", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return e.Wrap("failed to stat dataset", err)
	}

	return store.Upload(ctx, objectKey, f, info.Size())
}

func openDataset(ctx context.Context, store datasetStore, filePath, objectKey string) (io.ReadCloser, error) {
	if filePath != "" {
		return os.Open(filePath)
	}

	return store.Fetch(ctx, objectKey)
}

func buildProductUC(db *postgres.PgDatabase, cfg *config.Config, log logger.Logger) usecase.ProductUC {
	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverterImpl())
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverterImpl())

	// Кэш и кодировщик в импорте не используются: создание товара пишет
	// только в Postgres, вектора считает основной сервис.
	return usecase.NewProductUC(productRepo, outboxRepo, db.Pool, nil, nil, log)
}

func importCSV(ctx context.Context, r io.Reader, productUC usecase.ProductUC, log logger.Logger) (int, int, error) {
	const progressEvery = 1000

	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return 0, 0, e.Wrap("failed to read CSV header", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"asin", "title"} {
		if _, ok := cols[required]; !ok {
			return 0, 0, fmt.Errorf("missing required CSV column: %s", required)
		}
	}

	var imported, skipped int
	for line := 2; ; line++ {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warnf("line %d: malformed record: %v", line, err)
			skipped++
			continue
		}

		req, err := recordToReq(record, cols)
		if err != nil {
			log.Warnf("line %d: %v", line, err)
			skipped++
			continue
		}

		if _, err := productUC.CreateProduct(ctx, req); err != nil {
			if errors.Is(err, e.ErrDuplicateASIN) {
				skipped++
				continue
			}
			log.Warnf("line %d: create failed: %v", line, err)
			skipped++
			continue
		}
		imported++

		if imported%progressEvery == 0 {
			log.Infof("Imported %d products...", imported)
		}
	}

	return imported, skipped, nil
}

func recordToReq(record []string, cols map[string]int) (*usecase.CreateProductReq, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var price *float64
	if raw := field("price"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil || d.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("invalid price %q", raw)
		}
		v, _ := d.Round(2).Float64()
		price = &v
	}

	return &usecase.CreateProductReq{
		ASIN:        field("asin"),
		Title:       field("title"),
		Description: field("description"),
		Category:    field("category"),
		Brand:       field("brand"),
		Price:       price,
	}, nil
}

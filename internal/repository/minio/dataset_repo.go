package minio

import (
	"context"
	"io"

	"github.com/DRSN-tech/catalog-service/internal/cfg"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// DatasetRepo отдаёт датасеты товаров из MinIO для импорта.
type DatasetRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewDatasetRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *DatasetRepo {
	return &DatasetRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Fetch возвращает reader объекта датасета. Закрыть reader обязан вызывающий.
func (d *DatasetRepo) Fetch(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	obj, err := d.mc.GetObject(ctx, d.cfg.BucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// GetObject ленивый: ошибку отсутствия объекта отдаёт только Stat.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return obj, nil
}

// Upload кладёт датасет в бакет. Используется для подготовки импорта.
func (d *DatasetRepo) Upload(ctx context.Context, objectKey string, reader io.Reader, size int64) error {
	_, err := d.mc.PutObject(ctx, d.cfg.BucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

//go:generate goverter gen github.com/DRSN-tech/catalog-service/internal/repository/pgdb/converter
package converter

import (
	"time"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/internal/usecase"
	pgvector "github.com/pgvector/pgvector-go"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertVectorToSlice
// goverter:extend ConvertSliceToVector
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertOutboxStatus
// goverter:extend ConvertOutboxStatusModel
// goverter:extend ConvertOutboxEventType
// goverter:extend ConvertOutboxEventTypeModel
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

func ConvertPointerTime(t *time.Time) *time.Time {
	return t
}

func ConvertTime(t time.Time) time.Time {
	return t
}

func ConvertVectorToSlice(v *pgvector.Vector) []float32 {
	if v == nil {
		return nil
	}

	return v.Slice()
}

func ConvertSliceToVector(s []float32) *pgvector.Vector {
	if len(s) == 0 {
		return nil
	}

	v := pgvector.NewVector(s)
	return &v
}

func ConvertOutboxStatus(s usecase.OutboxStatus) string {
	return string(s)
}

func ConvertOutboxStatusModel(s string) usecase.OutboxStatus {
	return usecase.OutboxStatus(s)
}

func ConvertOutboxEventType(t usecase.OutboxEventType) string {
	return string(t)
}

func ConvertOutboxEventTypeModel(t string) usecase.OutboxEventType {
	return usecase.OutboxEventType(t)
}

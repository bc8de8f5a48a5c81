package repository

import (
	"context"

	"github.com/nortetech/wms-api/internal/domain/entity"
)

// CyclicRepository define el puerto de persistencia para lotes y conteos cíclicos.
type CyclicRepository interface {
	CreateBatch(ctx context.Context, batch *entity.CyclicBatch, counts []*entity.CyclicCount) error
	GetBatch(ctx context.Context, id string) (*entity.CyclicBatch, error)
	ListBatches(ctx context.Context, limit, offset int) ([]*entity.CyclicBatch, error)
	UpdateBatch(ctx context.Context, batch *entity.CyclicBatch) error
	ListCounts(ctx context.Context, batchID string) ([]*entity.CyclicCount, error)
	UpdateCount(ctx context.Context, count *entity.CyclicCount) error
}

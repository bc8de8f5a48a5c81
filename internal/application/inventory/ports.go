package inventory

import (
	"context"

	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/internal/domain/repository"
)

// TxRunner ejecuta una función con repositorios ligados a una transacción.
// Si fn devuelve error se hace rollback; si no, commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(movements repository.MovementRepository, items repository.ItemRepository) error) error
}

// StockEvaluator puerto hacia el evaluador de estoque crítico. Las mutaciones
// de stock (picking, edición, conteo) disparan una evaluación de los ítems
// afectados al confirmar.
type StockEvaluator interface {
	EvaluateStockLevels(ctx context.Context, items []*entity.Item) error
}

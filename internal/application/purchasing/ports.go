package purchasing

import (
	"context"

	"github.com/nortetech/wms-api/internal/domain/repository"
)

// TxRunner ejecuta una función con repositorios ligados a una transacción.
// El recebimento lo usa línea a línea: cada línea confirma (stock + ledger)
// de forma atómica e independiente del resto del lote.
type TxRunner interface {
	Run(ctx context.Context, fn func(movements repository.MovementRepository, items repository.ItemRepository) error) error
}

package repository

import (
	"context"
	"time"

	"github.com/nortetech/wms-api/internal/domain/entity"
)

// MovementFilter criterios de consulta del ledger de movimientos.
type MovementFilter struct {
	SKU    string
	Type   string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// MovementRepository define el puerto de persistencia del ledger append-only.
// No hay Update ni Delete: los movimientos son inmutables una vez creados.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// List devuelve movimientos ordenados por timestamp descendente.
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// SumOutboundBySKU agrega la cantidad de salidas por SKU.
	// since nil agrega el historial completo; con valor, solo desde esa fecha.
	SumOutboundBySKU(ctx context.Context, since *time.Time) (map[string]int, error)
}

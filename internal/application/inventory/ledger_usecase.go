package inventory

import (
	"context"
	"time"

	"github.com/nortetech/wms-api/internal/domain"
	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/internal/domain/repository"
	"github.com/nortetech/wms-api/pkg/ids"
	"github.com/nortetech/wms-api/pkg/logger"
)

// MovementInput datos para registrar un movimiento en el ledger.
type MovementInput struct {
	Type     string
	SKU      string
	Quantity int
	User     string
	Reason   string
	OrderID  string
}

// LedgerUseCase registra y consulta el ledger append-only de movimientos.
// Semántica at-most-once: si la inserción falla, ningún otro estado avanza y
// el error se devuelve al llamador sin reintento.
type LedgerUseCase struct {
	movements repository.MovementRepository
	items     repository.ItemRepository
	ids       ids.Generator
	log       *logger.Logger
	now       func() time.Time
}

// NewLedgerUseCase construye el caso de uso del ledger. now nil usa time.Now.
func NewLedgerUseCase(movements repository.MovementRepository, items repository.ItemRepository, gen ids.Generator, log *logger.Logger, now func() time.Time) *LedgerUseCase {
	if now == nil {
		now = time.Now
	}
	return &LedgerUseCase{movements: movements, items: items, ids: gen, log: log, now: now}
}

// RecordMovement inserta un movimiento. La cantidad se guarda en valor
// absoluto; el signo lo aporta el tipo (saida resta, entrada suma, ajuste es
// una corrección con firma en la razón).
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	switch in.Type {
	case entity.MovementEntrada, entity.MovementSaida, entity.MovementAjuste:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}

	item, err := uc.items.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ID:          uc.ids.MovementID(),
		Timestamp:   uc.now(),
		Type:        in.Type,
		SKU:         item.SKU,
		ProductName: item.Name,
		Quantity:    in.Quantity,
		User:        in.User,
		Location:    item.Location,
		Reason:      in.Reason,
		OrderID:     in.OrderID,
	}
	if err := uc.movements.Create(ctx, mov); err != nil {
		uc.log.Error().Err(err).Str("sku", in.SKU).Msg("fallo al registrar movimiento")
		return nil, err
	}
	return mov, nil
}

// ListMovements devuelve movimientos ordenados por timestamp descendente.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return uc.movements.List(ctx, filter)
}

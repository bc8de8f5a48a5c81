package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/nortetech/wms-api/internal/application/notify"
	"github.com/nortetech/wms-api/internal/domain"
	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/internal/domain/repository"
	"github.com/nortetech/wms-api/pkg/ids"
	"github.com/nortetech/wms-api/pkg/logger"
)

// StockUseCase mantiene ítems de inventario y procesa salidas de expedición.
// Toda mutación de cantidad pasa por el ledger dentro de la misma transacción
// y termina con una evaluación de estoque crítico del ítem afectado.
type StockUseCase struct {
	tx         TxRunner
	items      repository.ItemRepository
	evaluator  StockEvaluator
	activities notify.Activities
	ids        ids.Generator
	log        *logger.Logger
	now        func() time.Time
}

// NewStockUseCase construye el caso de uso de stock. now nil usa time.Now.
func NewStockUseCase(tx TxRunner, items repository.ItemRepository, evaluator StockEvaluator, activities notify.Activities, gen ids.Generator, log *logger.Logger, now func() time.Time) *StockUseCase {
	if now == nil {
		now = time.Now
	}
	return &StockUseCase{
		tx:         tx,
		items:      items,
		evaluator:  evaluator,
		activities: activities,
		ids:        gen,
		log:        log,
		now:        now,
	}
}

// CreateItem da de alta un ítem aplicando los defaults de reposición.
func (uc *StockUseCase) CreateItem(ctx context.Context, item *entity.Item) error {
	if item.SKU == "" || item.Name == "" {
		return domain.ErrInvalidInput
	}
	if item.Quantity < 0 {
		return domain.ErrInvalidInput
	}
	if item.MinQty == 0 {
		item.MinQty = entity.DefaultMinQty
	}
	if item.MaxQty == 0 {
		item.MaxQty = entity.DefaultMaxQty
	}
	if item.Status == "" {
		item.Status = "Ativo"
	}
	return uc.items.Create(ctx, item)
}

// GetItem devuelve el ítem por SKU.
func (uc *StockUseCase) GetItem(ctx context.Context, sku string) (*entity.Item, error) {
	return uc.items.GetBySKU(ctx, sku)
}

// ListItems lista ítems con paginación.
func (uc *StockUseCase) ListItems(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	return uc.items.List(ctx, limit, offset)
}

// UpdateItem edita un ítem. Si la cantidad cambia, la diferencia queda
// registrada como ajuste en el ledger dentro de la misma transacción, y el
// ítem resultante pasa por el evaluador de estoque.
func (uc *StockUseCase) UpdateItem(ctx context.Context, updated *entity.Item, user string) (*entity.Item, error) {
	current, err := uc.items.GetBySKU(ctx, updated.SKU)
	if err != nil {
		return nil, err
	}

	diff := updated.Quantity - current.Quantity
	err = uc.tx.Run(ctx, func(movements repository.MovementRepository, items repository.ItemRepository) error {
		if err := items.Update(ctx, updated); err != nil {
			return err
		}
		if diff == 0 {
			return nil
		}
		qty := diff
		if qty < 0 {
			qty = -qty
		}
		return movements.Create(ctx, &entity.Movement{
			ID:          uc.ids.MovementID(),
			Timestamp:   uc.now(),
			Type:        entity.MovementAjuste,
			SKU:         updated.SKU,
			ProductName: updated.Name,
			Quantity:    qty,
			User:        user,
			Location:    updated.Location,
			Reason:      fmt.Sprintf("Edição manual (%+d)", diff),
		})
	})
	if err != nil {
		return nil, err
	}

	if err := uc.evaluator.EvaluateStockLevels(ctx, []*entity.Item{updated}); err != nil {
		uc.log.Error().Err(err).Str("sku", updated.SKU).Msg("fallo al evaluar estoque tras edición")
	}
	return updated, nil
}

// DeleteItem elimina un ítem del catálogo.
func (uc *StockUseCase) DeleteItem(ctx context.Context, sku string) error {
	return uc.items.Delete(ctx, sku)
}

// ProcessPicking registra una salida de expedición: valida saldo, descuenta y
// asienta el movimiento en la misma transacción, y evalúa el estoque restante.
func (uc *StockUseCase) ProcessPicking(ctx context.Context, sku string, quantity int, user string) (*entity.Item, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.items.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if item.Quantity < quantity {
		return nil, domain.ErrInsufficientStock
	}

	item.Quantity -= quantity
	err = uc.tx.Run(ctx, func(movements repository.MovementRepository, items repository.ItemRepository) error {
		if err := items.UpdateQuantity(ctx, sku, item.Quantity); err != nil {
			return err
		}
		return movements.Create(ctx, &entity.Movement{
			ID:          uc.ids.MovementID(),
			Timestamp:   uc.now(),
			Type:        entity.MovementSaida,
			SKU:         item.SKU,
			ProductName: item.Name,
			Quantity:    quantity,
			User:        user,
			Location:    item.Location,
			Reason:      "Saída via Expedição",
		})
	})
	if err != nil {
		return nil, err
	}

	uc.activities.Record(ctx, "expedicao", "Expedição registrada",
		fmt.Sprintf("%s x%d", item.Name, quantity))

	if err := uc.evaluator.EvaluateStockLevels(ctx, []*entity.Item{item}); err != nil {
		uc.log.Error().Err(err).Str("sku", sku).Msg("fallo al evaluar estoque tras expedição")
	}
	return item, nil
}

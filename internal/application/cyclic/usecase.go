// Package cyclic implementa el inventario cíclico: lotes de conteo sobre una
// muestra de SKUs, con ajuste automático de stock y tasa de acuracidad al
// cierre.
package cyclic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nortetech/wms-api/internal/application/notify"
	"github.com/nortetech/wms-api/internal/domain"
	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/internal/domain/repository"
	"github.com/nortetech/wms-api/pkg/ids"
	"github.com/nortetech/wms-api/pkg/logger"
)

// TxRunner ejecuta una función con repositorios ligados a una transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(movements repository.MovementRepository, items repository.ItemRepository) error) error
}

// CountResult conteo físico de una línea del lote.
type CountResult struct {
	SKU        string
	CountedQty int
}

// UseCase casos de uso de inventario cíclico.
type UseCase struct {
	counts     repository.CyclicRepository
	items      repository.ItemRepository
	tx         TxRunner
	notifier   notify.Notifier
	activities notify.Activities
	ids        ids.Generator
	log        *logger.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso. now nil usa time.Now.
func NewUseCase(
	counts repository.CyclicRepository,
	items repository.ItemRepository,
	tx TxRunner,
	notifier notify.Notifier,
	activities notify.Activities,
	gen ids.Generator,
	log *logger.Logger,
	now func() time.Time,
) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{
		counts:     counts,
		items:      items,
		tx:         tx,
		notifier:   notifier,
		activities: activities,
		ids:        gen,
		log:        log,
		now:        now,
	}
}

// CreateBatch abre un lote de conteo para los SKUs dados. La cantidad
// esperada de cada línea es el saldo actual del ítem al momento del alta.
func (uc *UseCase) CreateBatch(ctx context.Context, skus []string) (*entity.CyclicBatch, error) {
	if len(skus) == 0 {
		return nil, domain.ErrInvalidInput
	}

	batch := &entity.CyclicBatch{
		ID:         uc.ids.BatchID(),
		Status:     entity.BatchStatusAberto,
		TotalItems: len(skus),
		CreatedAt:  uc.now(),
	}
	counts := make([]*entity.CyclicCount, 0, len(skus))
	for _, sku := range skus {
		item, err := uc.items.GetBySKU(ctx, sku)
		if err != nil {
			return nil, err
		}
		counts = append(counts, &entity.CyclicCount{
			ID:          uc.ids.NotificationID(),
			BatchID:     batch.ID,
			SKU:         item.SKU,
			ExpectedQty: item.Quantity,
			Status:      entity.CountStatusPendente,
		})
	}

	if err := uc.counts.CreateBatch(ctx, batch, counts); err != nil {
		return nil, err
	}
	uc.activities.Record(ctx, "movimentacao", "Inventário cíclico aberto",
		fmt.Sprintf("%s com %d itens", batch.ID, len(skus)))
	return batch, nil
}

// GetBatch devuelve un lote por ID.
func (uc *UseCase) GetBatch(ctx context.Context, id string) (*entity.CyclicBatch, error) {
	return uc.counts.GetBatch(ctx, id)
}

// ListBatches lista lotes con paginación.
func (uc *UseCase) ListBatches(ctx context.Context, limit, offset int) ([]*entity.CyclicBatch, error) {
	return uc.counts.ListBatches(ctx, limit, offset)
}

// ListCounts devuelve las líneas de conteo de un lote.
func (uc *UseCase) ListCounts(ctx context.Context, batchID string) ([]*entity.CyclicCount, error) {
	return uc.counts.ListCounts(ctx, batchID)
}

// FinalizeBatch cierra un lote abierto con los conteos físicos. Cada línea
// divergente ajusta el saldo del ítem y asienta un ajuste en el ledger dentro
// de su propia transacción (best-effort, una línea fallida no bloquea el
// resto). Calcula la tasa de acuracidad y marca el lote como concluido.
func (uc *UseCase) FinalizeBatch(ctx context.Context, batchID string, results []CountResult, user string) (*entity.CyclicBatch, error) {
	batch, err := uc.counts.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.Status != entity.BatchStatusAberto {
		return nil, domain.ErrConflict
	}
	if len(results) == 0 {
		return nil, domain.ErrInvalidInput
	}

	stored, err := uc.counts.ListCounts(ctx, batchID)
	if err != nil {
		return nil, err
	}
	bySKU := make(map[string]*entity.CyclicCount, len(stored))
	for _, c := range stored {
		bySKU[c.SKU] = c
	}

	t := uc.now()
	divergent := 0
	for _, res := range results {
		count, ok := bySKU[res.SKU]
		if !ok {
			uc.log.Warn().Str("sku", res.SKU).Str("batch_id", batchID).Msg("conteo sin línea en el lote, se ignora")
			continue
		}

		diverged := res.CountedQty != count.ExpectedQty
		if diverged {
			divergent++
		}

		counted := res.CountedQty
		err := uc.tx.Run(ctx, func(movements repository.MovementRepository, items repository.ItemRepository) error {
			if err := items.UpdateCount(ctx, res.SKU, counted, t); err != nil {
				return err
			}
			if !diverged {
				return nil
			}
			diff := counted - count.ExpectedQty
			qty := diff
			if qty < 0 {
				qty = -qty
			}
			return movements.Create(ctx, &entity.Movement{
				ID:          uc.ids.MovementID(),
				Timestamp:   t,
				Type:        entity.MovementAjuste,
				SKU:         res.SKU,
				ProductName: res.SKU,
				Quantity:    qty,
				User:        user,
				Location:    "INVENTARIO",
				Reason:      fmt.Sprintf("Ajuste automático via Inventário Cíclico %s (%+d)", batchID, diff),
			})
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				uc.log.Warn().Str("sku", res.SKU).Msg("ítem del conteo no existe, se ignora")
			} else {
				uc.log.Error().Err(err).Str("sku", res.SKU).Msg("fallo al aplicar conteo")
			}
			continue
		}

		count.CountedQty = &counted
		count.CountedAt = &t
		count.Status = entity.CountStatusContado
		if diverged {
			count.Status = entity.CountStatusAjustado
		}
		if err := uc.counts.UpdateCount(ctx, count); err != nil {
			uc.log.Error().Err(err).Str("sku", res.SKU).Msg("fallo al persistir línea de conteo")
		}
	}

	accuracy := float64(len(results)-divergent) / float64(len(results)) * 100
	batch.Status = entity.BatchStatusConcluido
	batch.CompletedAt = &t
	batch.AccuracyRate = &accuracy
	batch.DivergentItems = divergent
	if err := uc.counts.UpdateBatch(ctx, batch); err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, "Inventário cíclico concluído",
		fmt.Sprintf("%s: acuracidade %.1f%%, %d divergências", batchID, accuracy, divergent), entity.NotifInfo)
	uc.activities.Record(ctx, "movimentacao", "Inventário cíclico concluído",
		fmt.Sprintf("%s (%.1f%%)", batchID, accuracy))
	return batch, nil
}

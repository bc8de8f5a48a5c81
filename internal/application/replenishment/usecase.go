// Package replenishment orquesta el motor de reposición: recálculo del punto
// de reorden a partir del ledger, clasificación ABC y evaluación de estoque
// crítico con generación de requisiciones automáticas deduplicadas.
package replenishment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nortetech/wms-api/internal/application/notify"
	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/internal/domain/purchasing"
	domrepl "github.com/nortetech/wms-api/internal/domain/replenishment"
	"github.com/nortetech/wms-api/internal/domain/repository"
	"github.com/nortetech/wms-api/pkg/ids"
	"github.com/nortetech/wms-api/pkg/logger"
)

// AutoRequester identifica al solicitante de las requisiciones automáticas.
const AutoRequester = "Reposição Automática (Estoque Crítico)"

// AutoVendorPlaceholder proveedor provisional hasta la etapa de cotización.
const AutoVendorPlaceholder = "A definir via cotações"

// UseCase motor de reposición y salud de estoque.
type UseCase struct {
	items      repository.ItemRepository
	movements  repository.MovementRepository
	orders     repository.PurchaseOrderRepository
	notifier   notify.Notifier
	activities notify.Activities
	ids        ids.Generator
	log        *logger.Logger
	now        func() time.Time
}

// NewUseCase construye el motor. now nil usa time.Now.
func NewUseCase(
	items repository.ItemRepository,
	movements repository.MovementRepository,
	orders repository.PurchaseOrderRepository,
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
		items:      items,
		movements:  movements,
		orders:     orders,
		notifier:   notifier,
		activities: activities,
		ids:        gen,
		log:        log,
		now:        now,
	}
}

// RecalculateROP recalcula el punto de reorden de todo el catálogo a partir
// de las salidas de los últimos 30 días y persiste el nuevo minQty por ítem.
// Commit best-effort por ítem: un fallo no aborta el lote, ese ítem se
// reporta sin cambio. Al terminar dispara una pasada del evaluador, que puede
// generar nuevas requisiciones en cascada.
func (uc *UseCase) RecalculateROP(ctx context.Context) ([]*entity.Item, error) {
	t := uc.now()
	cutoff := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).
		AddDate(0, 0, -domrepl.UsageWindowDays)

	usage, err := uc.movements.SumOutboundBySKU(ctx, &cutoff)
	if err != nil {
		return nil, err
	}
	items, err := uc.items.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	changed := 0
	for _, item := range items {
		adu := domrepl.AverageDailyUsage(usage[item.SKU])
		rop := domrepl.ReorderPoint(adu, item.EffectiveLeadTime(), item.EffectiveSafetyStock())
		if rop == item.MinQty {
			continue
		}
		if err := uc.items.UpdateMinQty(ctx, item.SKU, rop); err != nil {
			uc.log.Error().Err(err).Str("sku", item.SKU).Msg("fallo al persistir nuevo minQty")
			continue
		}
		item.MinQty = rop
		changed++
	}

	if changed > 0 {
		uc.activities.Record(ctx, "alerta", "ROP recalculado",
			fmt.Sprintf("%d itens com novo ponto de reposição", changed))
	}
	if err := uc.EvaluateStockLevels(ctx, items); err != nil {
		uc.log.Error().Err(err).Msg("fallo al evaluar estoque tras recálculo de ROP")
	}
	return items, nil
}

// ClassifyABC clasifica el catálogo por volumen de salida agregado sobre el
// historial completo del ledger (sin ventana temporal, a diferencia del ROP) y
// persiste la categoría por ítem. Devuelve el snapshot recargado del catálogo.
func (uc *UseCase) ClassifyABC(ctx context.Context) ([]*entity.Item, error) {
	freq, err := uc.movements.SumOutboundBySKU(ctx, nil)
	if err != nil {
		return nil, err
	}
	items, err := uc.items.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	skus := make([]string, 0, len(items))
	for _, item := range items {
		skus = append(skus, item.SKU)
	}
	ranked := domrepl.RankByFrequency(skus, freq)
	part := domrepl.Partition(len(ranked))

	for rank, sf := range ranked {
		category := part.CategoryForRank(rank)
		if err := uc.items.UpdateABCCategory(ctx, sf.SKU, category); err != nil {
			uc.log.Error().Err(err).Str("sku", sf.SKU).Msg("fallo al persistir categoría ABC")
		}
	}

	uc.activities.Record(ctx, "alerta", "Classificação ABC executada",
		fmt.Sprintf("%d itens classificados", len(ranked)))
	return uc.items.ListAll(ctx)
}

// ListItemsForEvaluation devuelve el catálogo completo para una pasada
// manual del evaluador.
func (uc *UseCase) ListItemsForEvaluation(ctx context.Context) ([]*entity.Item, error) {
	return uc.items.ListAll(ctx)
}

// EvaluateStockLevels recorre los ítems dados y genera una requisición
// automática (AUTO-, urgente, status requisicao) por cada ítem con cantidad
// por debajo de minQty, salvo que ya exista un pedido en estado de
// deduplicación con ese SKU. Best-effort por ítem: los fallos se loguean y la
// pasada continúa.
func (uc *UseCase) EvaluateStockLevels(ctx context.Context, items []*entity.Item) error {
	for _, item := range items {
		if item.Quantity >= item.MinQty {
			continue
		}

		exists, err := uc.orders.ExistsForSKU(ctx, item.SKU, purchasing.DedupStatuses()...)
		if err != nil {
			uc.log.Error().Err(err).Str("sku", item.SKU).Msg("fallo en la guarda de deduplicación")
			continue
		}
		if exists {
			continue
		}

		// qty repone hasta maxQty. Con maxQty <= quantity sale no positiva;
		// comportamiento abierto, no se guarda contra ese caso.
		po := &entity.PurchaseOrder{
			ID:          uc.ids.AutoOrderID(),
			Vendor:      AutoVendorPlaceholder,
			RequestDate: uc.now(),
			Status:      entity.POStatusRequisicao,
			Priority:    entity.POPriorityUrgente,
			Total:       decimal.Zero,
			Requester:   AutoRequester,
			Items: []entity.POItem{{
				SKU:   item.SKU,
				Name:  item.Name,
				Qty:   item.MaxQty - item.Quantity,
				Price: decimal.Zero,
			}},
		}
		if err := uc.orders.Create(ctx, po); err != nil {
			uc.log.Error().Err(err).Str("sku", item.SKU).Msg("fallo al crear requisição automática")
			uc.notifier.Notify(ctx, "Erro na reposição automática",
				fmt.Sprintf("Não foi possível criar a requisição para %s", item.SKU), entity.NotifError)
			continue
		}

		uc.activities.Record(ctx, "alerta", "Reposição Automática",
			fmt.Sprintf("Requisição %s gerada para %s", po.ID, item.SKU))
		uc.notifier.Notify(ctx, fmt.Sprintf("Estoque Crítico: %s", item.SKU),
			fmt.Sprintf("Saldo atual %d abaixo do mínimo %d. Requisição %s criada.",
				item.Quantity, item.MinQty, po.ID), entity.NotifWarning)
	}
	return nil
}

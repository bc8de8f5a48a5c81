package purchasing

import (
	"context"
	"fmt"

	"github.com/nortetech/wms-api/internal/domain/entity"
	dompurch "github.com/nortetech/wms-api/internal/domain/purchasing"
	"github.com/nortetech/wms-api/pkg/ids"
)

// ReconcileAutoOrders resta de los pedidos automáticos en vuelo las
// cantidades ya cubiertas manualmente (alta de pedido manual o recebimento).
// Por cada línea automática con SKU cubierto: qty = max(0, qty - cubierto);
// una línea en cero se elimina, y un pedido que queda sin líneas pasa a
// rejeitado en lugar de quedar activo vacío.
func (uc *UseCase) ReconcileAutoOrders(ctx context.Context, cover []ReceivedItem) error {
	if len(cover) == 0 {
		return nil
	}

	candidates, err := uc.orders.ListByStatus(ctx, dompurch.ReconcileStatuses()...)
	if err != nil {
		return err
	}

	covered := make(map[string]int, len(cover))
	for _, c := range cover {
		covered[c.SKU] += c.Qty
	}

	for _, po := range candidates {
		if !ids.IsAutoOrder(po.ID) {
			continue
		}

		touched := false
		remaining := po.Items[:0]
		for _, line := range po.Items {
			qty, ok := covered[line.SKU]
			if !ok {
				remaining = append(remaining, line)
				continue
			}
			touched = true
			line.Qty -= qty
			if line.Qty <= 0 {
				continue
			}
			remaining = append(remaining, line)
		}
		if !touched {
			continue
		}
		po.Items = remaining

		if len(po.Items) == 0 {
			po.Status = entity.POStatusRejeitado
			if err := uc.orders.Update(ctx, po); err != nil {
				uc.log.Error().Err(err).Str("po_id", po.ID).Msg("fallo al cancelar requisição automática vacía")
				continue
			}
			uc.notifier.Notify(ctx, "Requisição automática cancelada",
				fmt.Sprintf("%s suprida por pedido manual", po.ID), entity.NotifSuccess)
			continue
		}

		if err := uc.orders.Update(ctx, po); err != nil {
			uc.log.Error().Err(err).Str("po_id", po.ID).Msg("fallo al reducir requisição automática")
		}
	}
	return nil
}

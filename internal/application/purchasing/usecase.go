// Package purchasing implementa el ciclo de vida del pedido de compra sobre
// la tabla de transiciones del dominio, más la reconciliación entre pedidos
// automáticos y manuales.
package purchasing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nortetech/wms-api/internal/application/notify"
	"github.com/nortetech/wms-api/internal/domain"
	"github.com/nortetech/wms-api/internal/domain/entity"
	dompurch "github.com/nortetech/wms-api/internal/domain/purchasing"
	"github.com/nortetech/wms-api/internal/domain/repository"
	"github.com/nortetech/wms-api/pkg/ids"
	"github.com/nortetech/wms-api/pkg/logger"
)

// ReceivedItem línea cubierta manualmente: por creación de pedido manual o
// por recebimento confirmado.
type ReceivedItem struct {
	SKU string
	Qty int
}

// CreateOrderInput alta manual de pedido.
type CreateOrderInput struct {
	Vendor    string
	Priority  string
	Requester string
	Items     []entity.POItem
}

// UseCase casos de uso del ciclo de vida de pedidos de compra.
type UseCase struct {
	orders     repository.PurchaseOrderRepository
	movements  repository.MovementRepository
	tx         TxRunner
	notifier   notify.Notifier
	activities notify.Activities
	ids        ids.Generator
	log        *logger.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso. now nil usa time.Now.
func NewUseCase(
	orders repository.PurchaseOrderRepository,
	movements repository.MovementRepository,
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
		orders:     orders,
		movements:  movements,
		tx:         tx,
		notifier:   notifier,
		activities: activities,
		ids:        gen,
		log:        log,
		now:        now,
	}
}

// GetOrder devuelve un pedido por ID.
func (uc *UseCase) GetOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return uc.orders.GetByID(ctx, id)
}

// ListOrders lista pedidos con paginación.
func (uc *UseCase) ListOrders(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	return uc.orders.List(ctx, limit, offset)
}

// CreateManualOrder da de alta un pedido manual en requisicao y reconcilia
// los pedidos automáticos en vuelo que el pedido manual cubre.
func (uc *UseCase) CreateManualOrder(ctx context.Context, in CreateOrderInput) (*entity.PurchaseOrder, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	if in.Priority == "" {
		in.Priority = entity.POPriorityNormal
	}

	total := decimal.Zero
	for _, it := range in.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Qty))))
	}

	po := &entity.PurchaseOrder{
		ID:          uc.ids.ManualOrderID(),
		Vendor:      in.Vendor,
		RequestDate: uc.now(),
		Status:      entity.POStatusRequisicao,
		Priority:    in.Priority,
		Total:       total,
		Requester:   in.Requester,
		Items:       in.Items,
	}
	if err := uc.orders.Create(ctx, po); err != nil {
		return nil, err
	}

	cover := make([]ReceivedItem, 0, len(in.Items))
	for _, it := range in.Items {
		cover = append(cover, ReceivedItem{SKU: it.SKU, Qty: it.Qty})
	}
	if err := uc.ReconcileAutoOrders(ctx, cover); err != nil {
		uc.log.Error().Err(err).Str("po_id", po.ID).Msg("fallo al reconciliar pedidos automáticos")
	}

	uc.activities.Record(ctx, "compra", "Pedido de compra criado",
		fmt.Sprintf("%s (%d itens)", po.ID, len(po.Items)))
	return po, nil
}

// AddQuotes registra cotizaciones sobre una requisición (requisicao → cotacao).
// Exige al menos una cotización y proveedores distintos entre sí.
func (uc *UseCase) AddQuotes(ctx context.Context, poID string, quotes []entity.Quote) (*entity.PurchaseOrder, error) {
	po, err := uc.orders.GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	next, ok := dompurch.Next(po.Status, dompurch.ActionAddQuotes)
	if !ok {
		uc.log.Warn().Str("po_id", poID).Str("status", string(po.Status)).Msg("addQuotes fuera de estado, no-op")
		return po, domain.ErrInvalidTransition
	}
	if len(quotes) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(quotes))
	for _, q := range quotes {
		if q.VendorID == "" || seen[q.VendorID] {
			return nil, domain.ErrInvalidInput
		}
		seen[q.VendorID] = true
	}

	t := uc.now()
	for i := range quotes {
		if quotes[i].QuotedAt.IsZero() {
			quotes[i].QuotedAt = t
		}
	}
	po.Quotes = quotes
	po.Status = next
	po.QuotesAddedAt = &t
	if err := uc.orders.Update(ctx, po); err != nil {
		return nil, err
	}
	uc.activities.Record(ctx, "compra", "Cotações registradas",
		fmt.Sprintf("%s com %d cotações", po.ID, len(quotes)))
	return po, nil
}

// SendToApproval elige la cotización ganadora y envía a aprobación
// (cotacao → pendente). Copia proveedor y total de la cotización elegida.
func (uc *UseCase) SendToApproval(ctx context.Context, poID, selectedQuoteID string) (*entity.PurchaseOrder, error) {
	po, err := uc.orders.GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	next, ok := dompurch.Next(po.Status, dompurch.ActionSendToApproval)
	if !ok {
		uc.log.Warn().Str("po_id", poID).Str("status", string(po.Status)).Msg("sendToApproval fuera de estado, no-op")
		return po, domain.ErrInvalidTransition
	}
	selected := po.FindQuote(selectedQuoteID)
	if selected == nil {
		return nil, domain.ErrQuoteNotFound
	}

	for i := range po.Quotes {
		po.Quotes[i].IsSelected = po.Quotes[i].ID == selectedQuoteID
	}
	po.SelectedQuoteID = selectedQuoteID
	po.Vendor = selected.VendorName
	po.Total = selected.TotalValue
	po.Status = next
	if err := uc.orders.Update(ctx, po); err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, "Pedido aguardando aprovação",
		fmt.Sprintf("%s com %s (%s)", po.ID, po.Vendor, po.Total.StringFixed(2)), entity.NotifInfo)
	uc.activities.Record(ctx, "compra", "Pedido enviado para aprovação", po.ID)
	return po, nil
}

// Approve aprueba un pedido pendiente (pendente → aprovado) y asienta el
// registro de auditoría.
func (uc *UseCase) Approve(ctx context.Context, poID, actor string) (*entity.PurchaseOrder, error) {
	po, err := uc.orders.GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	next, ok := dompurch.Next(po.Status, dompurch.ActionApprove)
	if !ok {
		uc.log.Warn().Str("po_id", poID).Str("status", string(po.Status)).Msg("approve fuera de estado, no-op")
		return po, domain.ErrInvalidTransition
	}

	t := uc.now()
	po.ApprovalHistory = append(po.ApprovalHistory, entity.ApprovalRecord{
		ID:     uc.ids.ApprovalID(entity.ApprovalActionApproved),
		Action: entity.ApprovalActionApproved,
		By:     actor,
		At:     t,
	})
	po.Status = next
	po.ApprovedAt = &t
	if err := uc.orders.Update(ctx, po); err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, "Pedido aprovado", po.ID, entity.NotifSuccess)
	uc.activities.Record(ctx, "compra", "Pedido aprovado", fmt.Sprintf("%s por %s", po.ID, actor))
	return po, nil
}

// Reject rechaza un pedido pendiente y lo devuelve a requisicao para
// re-cotización. Asienta el registro de auditoría y un ajuste de cantidad
// cero en el ledger referenciando el pedido.
func (uc *UseCase) Reject(ctx context.Context, poID, actor, reason string) (*entity.PurchaseOrder, error) {
	po, err := uc.orders.GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	next, ok := dompurch.Next(po.Status, dompurch.ActionReject)
	if !ok {
		uc.log.Warn().Str("po_id", poID).Str("status", string(po.Status)).Msg("reject fuera de estado, no-op")
		return po, domain.ErrInvalidTransition
	}
	if reason == "" {
		reason = "Sem justificativa"
	}

	t := uc.now()
	po.ApprovalHistory = append(po.ApprovalHistory, entity.ApprovalRecord{
		ID:     uc.ids.ApprovalID(entity.ApprovalActionRejected),
		Action: entity.ApprovalActionRejected,
		By:     actor,
		At:     t,
		Reason: reason,
	})
	po.Status = next
	po.RejectedAt = &t
	if err := uc.orders.Update(ctx, po); err != nil {
		return nil, err
	}

	audit := &entity.Movement{
		ID:          uc.ids.MovementID(),
		Timestamp:   t,
		Type:        entity.MovementAjuste,
		SKU:         "N/A",
		ProductName: fmt.Sprintf("PEDIDO %s", po.ID),
		Quantity:    0,
		User:        actor,
		Location:    "ADMIN",
		Reason:      fmt.Sprintf("Rejeição: %s", reason),
		OrderID:     po.ID,
	}
	if err := uc.movements.Create(ctx, audit); err != nil {
		uc.log.Error().Err(err).Str("po_id", po.ID).Msg("fallo al asentar ajuste de rechazo")
	}

	uc.notifier.Notify(ctx, "Pedido rejeitado",
		fmt.Sprintf("%s: %s", po.ID, reason), entity.NotifError)
	uc.activities.Record(ctx, "compra", "Pedido rejeitado", fmt.Sprintf("%s por %s", po.ID, actor))
	return po, nil
}

// MarkAsSent marca el pedido aprobado como enviado al proveedor
// (aprovado → enviado) con el número de orden externo.
func (uc *UseCase) MarkAsSent(ctx context.Context, poID, vendorOrderNumber string) (*entity.PurchaseOrder, error) {
	po, err := uc.orders.GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	next, ok := dompurch.Next(po.Status, dompurch.ActionMarkAsSent)
	if !ok {
		uc.log.Warn().Str("po_id", poID).Str("status", string(po.Status)).Msg("markAsSent fuera de estado, no-op")
		return po, domain.ErrInvalidTransition
	}

	t := uc.now()
	po.Status = next
	po.VendorOrderNumber = vendorOrderNumber
	po.SentToVendorAt = &t
	if err := uc.orders.Update(ctx, po); err != nil {
		return nil, err
	}
	uc.activities.Record(ctx, "compra", "Pedido enviado ao fornecedor",
		fmt.Sprintf("%s (%s)", po.ID, vendorOrderNumber))
	return po, nil
}

// FinalizeReceipt confirma un recebimento: por cada línea incrementa el stock
// y asienta la entrada en el ledger dentro de una transacción por línea
// (best-effort, una línea fallida no bloquea el resto). Luego reconcilia los
// pedidos automáticos con lo recibido y, si se indicó un pedido, lo
// transiciona a recebido (no-op si no está en enviado).
func (uc *UseCase) FinalizeReceipt(ctx context.Context, received []ReceivedItem, poID, user string) ([]ReceivedItem, error) {
	applied := make([]ReceivedItem, 0, len(received))
	for _, line := range received {
		if line.Qty <= 0 {
			continue
		}
		err := uc.tx.Run(ctx, func(movements repository.MovementRepository, items repository.ItemRepository) error {
			item, err := items.GetBySKU(ctx, line.SKU)
			if err != nil {
				return err
			}
			if err := items.UpdateQuantity(ctx, line.SKU, item.Quantity+line.Qty); err != nil {
				return err
			}
			return movements.Create(ctx, &entity.Movement{
				ID:          uc.ids.MovementID(),
				Timestamp:   uc.now(),
				Type:        entity.MovementEntrada,
				SKU:         item.SKU,
				ProductName: item.Name,
				Quantity:    line.Qty,
				User:        user,
				Location:    item.Location,
				Reason:      "Entrada via Recebimento",
				OrderID:     poID,
			})
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				uc.log.Warn().Str("sku", line.SKU).Msg("línea recibida sin ítem en catálogo, se ignora")
				continue
			}
			uc.log.Error().Err(err).Str("sku", line.SKU).Msg("fallo al confirmar línea de recebimento")
			continue
		}
		applied = append(applied, line)
	}

	if len(applied) > 0 {
		if err := uc.ReconcileAutoOrders(ctx, applied); err != nil {
			uc.log.Error().Err(err).Msg("fallo al reconciliar pedidos automáticos tras recebimento")
		}
	}

	if poID != "" {
		po, err := uc.orders.GetByID(ctx, poID)
		if err != nil {
			uc.log.Warn().Err(err).Str("po_id", poID).Msg("pedido del recebimento no encontrado, no-op")
			return applied, nil
		}
		if next, ok := dompurch.Next(po.Status, dompurch.ActionReceive); ok {
			t := uc.now()
			po.Status = next
			po.ReceivedAt = &t
			if err := uc.orders.Update(ctx, po); err != nil {
				uc.log.Error().Err(err).Str("po_id", poID).Msg("fallo al marcar pedido como recebido")
			} else {
				uc.notifier.Notify(ctx, "Pedido recebido", po.ID, entity.NotifSuccess)
			}
		}
	}

	uc.activities.Record(ctx, "recebimento", "Recebimento finalizado",
		fmt.Sprintf("%d linhas confirmadas", len(applied)))
	return applied, nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nortetech/wms-api/internal/domain"
	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const poColumns = `id, vendor, request_date, status, priority, total, requester, items, quotes, selected_quote_id, approval_history, quotes_added_at, sent_to_vendor_at, approved_at, rejected_at, received_at, vendor_order_number`

// PurchaseOrderRepo implementación del puerto sobre PostgreSQL (usable con pool o tx).
// Items, Quotes y ApprovalHistory se guardan como subdocumentos JSONB; el
// mapeo entidad <-> fila vive solo en este adaptador.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador de persistencia para pedidos. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// poDocs subdocumentos JSONB de la fila purchase_orders.
type poDocs struct {
	items   []byte
	quotes  []byte
	history []byte
}

func toStorage(po *entity.PurchaseOrder) (poDocs, error) {
	items, err := json.Marshal(po.Items)
	if err != nil {
		return poDocs{}, fmt.Errorf("marshal po items: %w", err)
	}
	quotes, err := json.Marshal(po.Quotes)
	if err != nil {
		return poDocs{}, fmt.Errorf("marshal po quotes: %w", err)
	}
	history, err := json.Marshal(po.ApprovalHistory)
	if err != nil {
		return poDocs{}, fmt.Errorf("marshal po approval history: %w", err)
	}
	return poDocs{items: items, quotes: quotes, history: history}, nil
}

func fromStorage(po *entity.PurchaseOrder, docs poDocs) error {
	if len(docs.items) > 0 {
		if err := json.Unmarshal(docs.items, &po.Items); err != nil {
			return fmt.Errorf("unmarshal po items: %w", err)
		}
	}
	if len(docs.quotes) > 0 {
		if err := json.Unmarshal(docs.quotes, &po.Quotes); err != nil {
			return fmt.Errorf("unmarshal po quotes: %w", err)
		}
	}
	if len(docs.history) > 0 {
		if err := json.Unmarshal(docs.history, &po.ApprovalHistory); err != nil {
			return fmt.Errorf("unmarshal po approval history: %w", err)
		}
	}
	return nil
}

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var docs poDocs
	var selectedQuoteID, vendorOrderNumber *string
	err := row.Scan(
		&po.ID, &po.Vendor, &po.RequestDate, &po.Status, &po.Priority, &po.Total,
		&po.Requester, &docs.items, &docs.quotes, &selectedQuoteID, &docs.history,
		&po.QuotesAddedAt, &po.SentToVendorAt, &po.ApprovedAt, &po.RejectedAt,
		&po.ReceivedAt, &vendorOrderNumber,
	)
	if err != nil {
		return nil, err
	}
	if selectedQuoteID != nil {
		po.SelectedQuoteID = *selectedQuoteID
	}
	if vendorOrderNumber != nil {
		po.VendorOrderNumber = *vendorOrderNumber
	}
	if err := fromStorage(&po, docs); err != nil {
		return nil, err
	}
	return &po, nil
}

// Create persiste un pedido de compra nuevo.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	docs, err := toStorage(po)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO purchase_orders (` + poColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err = r.q.Exec(ctx, query,
		po.ID, po.Vendor, po.RequestDate, po.Status, po.Priority, po.Total, po.Requester,
		docs.items, docs.quotes, nullIfEmpty(po.SelectedQuoteID), docs.history,
		po.QuotesAddedAt, po.SentToVendorAt, po.ApprovedAt, po.RejectedAt, po.ReceivedAt,
		nullIfEmpty(po.VendorOrderNumber),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE id = $1`
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return po, nil
}

// List lista pedidos con paginación, más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders ORDER BY request_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	return collectPurchaseOrders(rows)
}

// ListByStatus lista pedidos en cualquiera de los estados dados.
func (r *PurchaseOrderRepo) ListByStatus(ctx context.Context, statuses ...entity.POStatus) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE status = ANY($1) ORDER BY request_date DESC`
	rows, err := r.q.Query(ctx, query, statusStrings(statuses))
	if err != nil {
		return nil, fmt.Errorf("list purchase orders by status: %w", err)
	}
	defer rows.Close()
	return collectPurchaseOrders(rows)
}

// ExistsForSKU indica si algún pedido en los estados dados contiene una línea
// para el SKU. Es la guarda de deduplicación del evaluador de estoque crítico.
func (r *PurchaseOrderRepo) ExistsForSKU(ctx context.Context, sku string, statuses ...entity.POStatus) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM purchase_orders po, jsonb_array_elements(po.items) AS line
			WHERE po.status = ANY($2) AND line->>'sku' = $1
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, sku, statusStrings(statuses)).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists purchase order for sku: %w", err)
	}
	return exists, nil
}

// Update reescribe las columnas mutables del pedido.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	docs, err := toStorage(po)
	if err != nil {
		return err
	}
	query := `
		UPDATE purchase_orders SET vendor = $2, status = $3, priority = $4, total = $5,
			items = $6, quotes = $7, selected_quote_id = $8, approval_history = $9,
			quotes_added_at = $10, sent_to_vendor_at = $11, approved_at = $12,
			rejected_at = $13, received_at = $14, vendor_order_number = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		po.ID, po.Vendor, po.Status, po.Priority, po.Total,
		docs.items, docs.quotes, nullIfEmpty(po.SelectedQuoteID), docs.history,
		po.QuotesAddedAt, po.SentToVendorAt, po.ApprovedAt, po.RejectedAt, po.ReceivedAt,
		nullIfEmpty(po.VendorOrderNumber),
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func collectPurchaseOrders(rows pgx.Rows) ([]*entity.PurchaseOrder, error) {
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	return list, rows.Err()
}

func statusStrings(statuses []entity.POStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

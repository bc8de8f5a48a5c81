package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nortetech/wms-api/internal/domain"
	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `sku, name, location, batch, expiry, quantity, status, image_url, category, unit, min_qty, max_qty, lead_time, safety_stock, abc_category, last_counted_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var i entity.Item
	var abc *string
	err := row.Scan(
		&i.SKU, &i.Name, &i.Location, &i.Batch, &i.Expiry, &i.Quantity, &i.Status,
		&i.ImageURL, &i.Category, &i.Unit, &i.MinQty, &i.MaxQty, &i.LeadTime,
		&i.SafetyStock, &abc, &i.LastCountedAt,
	)
	if err != nil {
		return nil, err
	}
	if abc != nil {
		i.ABCCategory = *abc
	}
	return &i, nil
}

// Create persiste un nuevo ítem.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	var abc *string
	if item.ABCCategory != "" {
		abc = &item.ABCCategory
	}
	_, err := r.q.Exec(ctx, query,
		item.SKU, item.Name, item.Location, item.Batch, item.Expiry, item.Quantity,
		item.Status, item.ImageURL, item.Category, item.Unit, item.MinQty, item.MaxQty,
		item.LeadTime, item.SafetyStock, abc, item.LastCountedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetBySKU obtiene un ítem por SKU.
func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE sku = $1`
	item, err := scanItem(r.q.QueryRow(ctx, query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// List lista ítems con paginación, ordenados por SKU.
func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY sku LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// ListAll devuelve el catálogo completo ordenado por SKU (lo usan el
// estimador de ROP y el clasificador ABC, que iteran todo el inventario).
func (r *ItemRepo) ListAll(ctx context.Context) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY sku`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

func collectItems(rows pgx.Rows) ([]*entity.Item, error) {
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Update reescribe los campos mutables de un ítem.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, location = $3, batch = $4, expiry = $5, quantity = $6,
			status = $7, image_url = $8, category = $9, unit = $10, min_qty = $11,
			max_qty = $12, lead_time = $13, safety_stock = $14
		WHERE sku = $1`
	tag, err := r.q.Exec(ctx, query,
		item.SKU, item.Name, item.Location, item.Batch, item.Expiry, item.Quantity,
		item.Status, item.ImageURL, item.Category, item.Unit, item.MinQty, item.MaxQty,
		item.LeadTime, item.SafetyStock,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity actualiza solo el saldo del ítem.
func (r *ItemRepo) UpdateQuantity(ctx context.Context, sku string, quantity int) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET quantity = $2 WHERE sku = $1`, sku, quantity)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateMinQty actualiza el punto de reorden calculado por el estimador.
func (r *ItemRepo) UpdateMinQty(ctx context.Context, sku string, minQty int) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET min_qty = $2 WHERE sku = $1`, sku, minQty)
	if err != nil {
		return fmt.Errorf("update item min_qty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateABCCategory actualiza la categoría asignada por el clasificador.
func (r *ItemRepo) UpdateABCCategory(ctx context.Context, sku, category string) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET abc_category = $2 WHERE sku = $1`, sku, category)
	if err != nil {
		return fmt.Errorf("update item abc_category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCount aplica el resultado de un conteo cíclico: saldo y fecha de conteo.
func (r *ItemRepo) UpdateCount(ctx context.Context, sku string, quantity int, countedAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE items SET quantity = $2, last_counted_at = $3 WHERE sku = $1`,
		sku, quantity, countedAt)
	if err != nil {
		return fmt.Errorf("update item count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un ítem del catálogo.
func (r *ItemRepo) Delete(ctx context.Context, sku string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE sku = $1`, sku)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

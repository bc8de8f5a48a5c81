package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nortetech/wms-api/internal/domain"
	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/internal/domain/repository"
)

var _ repository.CyclicRepository = (*CyclicRepo)(nil)

const batchColumns = `id, status, scheduled_date, completed_at, accuracy_rate, total_items, divergent_items, created_at`
const countColumns = `id, batch_id, sku, expected_qty, counted_qty, status, notes, counted_at`

// CyclicRepo implementación del puerto de inventario cíclico sobre PostgreSQL.
type CyclicRepo struct {
	q Querier
}

// NewCyclicRepository construye el adaptador de persistencia para conteos cíclicos. Pasar pool o tx (Querier).
func NewCyclicRepository(q Querier) *CyclicRepo {
	return &CyclicRepo{q: q}
}

// CreateBatch persiste el lote con todas sus líneas de conteo.
func (r *CyclicRepo) CreateBatch(ctx context.Context, batch *entity.CyclicBatch, counts []*entity.CyclicCount) error {
	query := `
		INSERT INTO cyclic_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		batch.ID, batch.Status, batch.ScheduledDate, batch.CompletedAt,
		batch.AccuracyRate, batch.TotalItems, batch.DivergentItems, batch.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cyclic batch: %w", err)
	}

	countQuery := `
		INSERT INTO cyclic_counts (` + countColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, c := range counts {
		_, err := r.q.Exec(ctx, countQuery,
			c.ID, c.BatchID, c.SKU, c.ExpectedQty, c.CountedQty, c.Status, c.Notes, c.CountedAt)
		if err != nil {
			return fmt.Errorf("insert cyclic count: %w", err)
		}
	}
	return nil
}

// GetBatch obtiene un lote por ID.
func (r *CyclicRepo) GetBatch(ctx context.Context, id string) (*entity.CyclicBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM cyclic_batches WHERE id = $1`
	var b entity.CyclicBatch
	err := r.q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Status, &b.ScheduledDate, &b.CompletedAt, &b.AccuracyRate,
		&b.TotalItems, &b.DivergentItems, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get cyclic batch: %w", err)
	}
	return &b, nil
}

// ListBatches lista lotes con paginación, más recientes primero.
func (r *CyclicRepo) ListBatches(ctx context.Context, limit, offset int) ([]*entity.CyclicBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM cyclic_batches ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cyclic batches: %w", err)
	}
	defer rows.Close()

	var list []*entity.CyclicBatch
	for rows.Next() {
		var b entity.CyclicBatch
		if err := rows.Scan(&b.ID, &b.Status, &b.ScheduledDate, &b.CompletedAt,
			&b.AccuracyRate, &b.TotalItems, &b.DivergentItems, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cyclic batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// UpdateBatch reescribe los campos mutables del lote.
func (r *CyclicRepo) UpdateBatch(ctx context.Context, batch *entity.CyclicBatch) error {
	query := `
		UPDATE cyclic_batches SET status = $2, scheduled_date = $3, completed_at = $4,
			accuracy_rate = $5, divergent_items = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		batch.ID, batch.Status, batch.ScheduledDate, batch.CompletedAt,
		batch.AccuracyRate, batch.DivergentItems)
	if err != nil {
		return fmt.Errorf("update cyclic batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListCounts devuelve las líneas de conteo de un lote ordenadas por SKU.
func (r *CyclicRepo) ListCounts(ctx context.Context, batchID string) ([]*entity.CyclicCount, error) {
	query := `SELECT ` + countColumns + ` FROM cyclic_counts WHERE batch_id = $1 ORDER BY sku`
	rows, err := r.q.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list cyclic counts: %w", err)
	}
	defer rows.Close()

	var list []*entity.CyclicCount
	for rows.Next() {
		var c entity.CyclicCount
		var notes *string
		if err := rows.Scan(&c.ID, &c.BatchID, &c.SKU, &c.ExpectedQty, &c.CountedQty,
			&c.Status, &notes, &c.CountedAt); err != nil {
			return nil, fmt.Errorf("scan cyclic count: %w", err)
		}
		if notes != nil {
			c.Notes = *notes
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// UpdateCount reescribe el resultado de una línea de conteo.
func (r *CyclicRepo) UpdateCount(ctx context.Context, count *entity.CyclicCount) error {
	query := `
		UPDATE cyclic_counts SET counted_qty = $2, status = $3, notes = $4, counted_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		count.ID, count.CountedQty, count.Status, nullIfEmpty(count.Notes), count.CountedAt)
	if err != nil {
		return fmt.Errorf("update cyclic count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

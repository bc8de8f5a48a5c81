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

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, timestamp, type, sku, product_name, quantity, username, location, reason, order_id`

// MovementRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// Solo INSERT y SELECT: el ledger es append-only.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de persistencia del ledger. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	var orderID *string
	if m.OrderID != "" {
		orderID = &m.OrderID
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Timestamp, m.Type, m.SKU, m.ProductName, m.Quantity,
		m.User, m.Location, m.Reason, orderID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var orderID *string
	err := row.Scan(&m.ID, &m.Timestamp, &m.Type, &m.SKU, &m.ProductName,
		&m.Quantity, &m.User, &m.Location, &m.Reason, &orderID)
	if err != nil {
		return nil, err
	}
	if orderID != nil {
		m.OrderID = *orderID
	}
	return &m, nil
}

// List lista movimientos por filtro, ordenados por timestamp descendente.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.SKU != "" {
		query += fmt.Sprintf(" AND sku = $%d", pos)
		args = append(args, filter.SKU)
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND timestamp >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND timestamp <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY timestamp DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SumOutboundBySKU agrega las cantidades de salida por SKU. since nil agrega
// el historial completo (clasificador ABC); con valor, la ventana del
// estimador de ROP.
func (r *MovementRepo) SumOutboundBySKU(ctx context.Context, since *time.Time) (map[string]int, error) {
	query := `SELECT sku, COALESCE(SUM(quantity), 0) FROM movements WHERE type = $1`
	args := []any{entity.MovementSaida}
	if since != nil {
		query += ` AND timestamp >= $2`
		args = append(args, *since)
	}
	query += ` GROUP BY sku`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sum outbound by sku: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var sku string
		var total int
		if err := rows.Scan(&sku, &total); err != nil {
			return nil, fmt.Errorf("scan outbound total: %w", err)
		}
		totals[sku] = total
	}
	return totals, rows.Err()
}

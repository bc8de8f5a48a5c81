package repository

import (
	"context"
	"time"

	"github.com/nortetech/wms-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para ítems de inventario (DIP).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
	ListAll(ctx context.Context) ([]*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	UpdateQuantity(ctx context.Context, sku string, quantity int) error
	UpdateMinQty(ctx context.Context, sku string, minQty int) error
	UpdateABCCategory(ctx context.Context, sku, category string) error
	UpdateCount(ctx context.Context, sku string, quantity int, countedAt time.Time) error
	Delete(ctx context.Context, sku string) error
}

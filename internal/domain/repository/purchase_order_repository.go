package repository

import (
	"context"

	"github.com/nortetech/wms-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para pedidos de compra.
// Update reescribe las columnas mutables del pedido (estado, ítems, cotizaciones,
// historial, timestamps); el modelo de sesión única hace seguro el read-modify-write.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error)
	ListByStatus(ctx context.Context, statuses ...entity.POStatus) ([]*entity.PurchaseOrder, error)
	// ExistsForSKU indica si algún pedido en los estados dados contiene una
	// línea para el SKU (guarda de deduplicación del evaluador).
	ExistsForSKU(ctx context.Context, sku string, statuses ...entity.POStatus) (bool, error)
	Update(ctx context.Context, po *entity.PurchaseOrder) error
}

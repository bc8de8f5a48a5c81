package repository

import (
	"context"

	"github.com/nortetech/wms-api/internal/domain/entity"
)

// VendorRepository define el puerto de persistencia para proveedores.
type VendorRepository interface {
	Create(ctx context.Context, vendor *entity.Vendor) error
	List(ctx context.Context, limit, offset int) ([]*entity.Vendor, error)
	Delete(ctx context.Context, id string) error
}

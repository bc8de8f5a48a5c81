package repository

import (
	"context"
	"time"

	"github.com/nortetech/wms-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios (solo login).
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateLastAccess(ctx context.Context, userID string, at time.Time) error
}

package repository

import (
	"context"

	"github.com/nortetech/wms-api/internal/domain/entity"
)

// NotificationRepository define el puerto de persistencia para notificaciones.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	// ListRecent devuelve las notificaciones más recientes primero.
	ListRecent(ctx context.Context, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
}

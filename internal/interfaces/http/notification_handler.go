package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nortetech/wms-api/internal/application/dto"
	"github.com/nortetech/wms-api/internal/application/notify"
	"github.com/nortetech/wms-api/internal/domain"
	"github.com/nortetech/wms-api/internal/domain/repository"
)

// NotificationHandler maneja la campana de notificaciones y el feed de actividad (protegido).
type NotificationHandler struct {
	notifications repository.NotificationRepository
	feed          *notify.FeedRecorder
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(notifications repository.NotificationRepository, feed *notify.FeedRecorder) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, feed: feed}
}

// List godoc
// @Summary      Listar notificaciones recientes
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "máximo de filas (default 20)"
// @Success      200  {array}  entity.Notification
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	list, err := h.notifications.ListRecent(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// MarkRead godoc
// @Summary      Marcar notificación como leída
// @Tags         notifications
// @Security     Bearer
// @Param        id  path  string  true  "ID de la notificación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkRead(c.Context(), c.Params("id")); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "notificación no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead godoc
// @Summary      Marcar todas las notificaciones como leídas
// @Tags         notifications
// @Security     Bearer
// @Success      204
// @Router       /api/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkAllRead(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Activities godoc
// @Summary      Feed de actividad operacional (retención acotada)
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Activity
// @Router       /api/activities [get]
func (h *NotificationHandler) Activities(c *fiber.Ctx) error {
	list, err := h.feed.Recent(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

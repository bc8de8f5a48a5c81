package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nortetech/wms-api/internal/application/dto"
	"github.com/nortetech/wms-api/internal/application/replenishment"
)

// ReplenishmentHandler expone el motor de reposición (protegido).
type ReplenishmentHandler struct {
	uc *replenishment.UseCase
}

// NewReplenishmentHandler construye el handler.
func NewReplenishmentHandler(uc *replenishment.UseCase) *ReplenishmentHandler {
	return &ReplenishmentHandler{uc: uc}
}

// RecalculateROP godoc
// @Summary      Recalcular punto de reorden dinámico
// @Description  ROP = ceil(ADU x leadTime + safetyStock) con las salidas de
//
//	los últimos 30 días. Al terminar corre el evaluador de estoque crítico.
//
// @Tags         replenishment
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/replenishment/recalculate [post]
func (h *ReplenishmentHandler) RecalculateROP(c *fiber.Ctx) error {
	items, err := h.uc.RecalculateROP(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.ToItemResponse(item))
	}
	return c.JSON(out)
}

// ClassifyABC godoc
// @Summary      Clasificar el catálogo por curva ABC
// @Tags         replenishment
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/replenishment/classify-abc [post]
func (h *ReplenishmentHandler) ClassifyABC(c *fiber.Ctx) error {
	items, err := h.uc.ClassifyABC(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.ToItemResponse(item))
	}
	return c.JSON(out)
}

// Evaluate godoc
// @Summary      Evaluar estoque crítico de todo el catálogo
// @Description  Genera requisiciones automáticas AUTO- para los ítems con
//
//	saldo por debajo del mínimo, deduplicadas contra pedidos en vuelo.
//
// @Tags         replenishment
// @Security     Bearer
// @Produce      json
// @Success      202  {object}  map[string]string
// @Router       /api/replenishment/evaluate [post]
func (h *ReplenishmentHandler) Evaluate(c *fiber.Ctx) error {
	items, err := h.uc.ListItemsForEvaluation(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if err := h.uc.EvaluateStockLevels(c.Context(), items); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "evaluación de estoque ejecutada"})
}

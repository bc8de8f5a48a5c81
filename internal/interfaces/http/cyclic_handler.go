package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nortetech/wms-api/internal/application/cyclic"
	"github.com/nortetech/wms-api/internal/application/dto"
	"github.com/nortetech/wms-api/internal/domain"
)

// CyclicHandler maneja lotes de inventario cíclico (protegido).
type CyclicHandler struct {
	uc *cyclic.UseCase
}

// NewCyclicHandler construye el handler.
func NewCyclicHandler(uc *cyclic.UseCase) *CyclicHandler {
	return &CyclicHandler{uc: uc}
}

// CreateBatch godoc
// @Summary      Abrir lote de conteo cíclico
// @Tags         cyclic
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "SKUs a contar"
// @Success      201   {object}  dto.BatchResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cyclic-batches [post]
func (h *CyclicHandler) CreateBatch(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	skus := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		skus = append(skus, it.SKU)
	}
	batch, err := h.uc.CreateBatch(c.Context(), skus)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el lote requiere al menos un SKU"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "algún SKU del lote no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToBatchResponse(batch))
}

// ListBatches godoc
// @Summary      Listar lotes de conteo
// @Tags         cyclic
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/cyclic-batches [get]
func (h *CyclicHandler) ListBatches(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	batches, err := h.uc.ListBatches(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, dto.ToBatchResponse(b))
	}
	return c.JSON(out)
}

// FinalizeBatch godoc
// @Summary      Cerrar lote con los conteos físicos
// @Description  Ajusta stock por divergencia, asienta ajustes en el ledger y
//
//	calcula la tasa de acuracidad del lote.
//
// @Tags         cyclic
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del lote"
// @Param        body  body  dto.FinalizeBatchRequest  true  "conteos por SKU"
// @Success      200   {object}  dto.BatchResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cyclic-batches/{id}/finalize [post]
func (h *CyclicHandler) FinalizeBatch(c *fiber.Ctx) error {
	var in dto.FinalizeBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	results := make([]cyclic.CountResult, 0, len(in.Counts))
	for _, r := range in.Counts {
		results = append(results, cyclic.CountResult{SKU: r.SKU, CountedQty: r.CountedQty})
	}
	batch, err := h.uc.FinalizeBatch(c.Context(), c.Params("id"), results, GetUserName(c))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
		}
		if err == domain.ErrConflict {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BATCH_CLOSED", Message: "el lote no está abierto"})
		}
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere al menos un conteo"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ToBatchResponse(batch))
}

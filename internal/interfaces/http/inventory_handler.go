package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nortetech/wms-api/internal/application/dto"
	"github.com/nortetech/wms-api/internal/application/inventory"
	"github.com/nortetech/wms-api/internal/domain"
	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/internal/domain/repository"
)

// InventoryHandler maneja ítems, ledger de movimientos y picking (protegido).
type InventoryHandler struct {
	stock  *inventory.StockUseCase
	ledger *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockUseCase, ledger *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{stock: stock, ledger: ledger}
}

func itemFromRequest(in dto.ItemRequest) *entity.Item {
	return &entity.Item{
		SKU:         in.SKU,
		Name:        in.Name,
		Location:    in.Location,
		Batch:       in.Batch,
		Expiry:      in.Expiry,
		Quantity:    in.Quantity,
		Status:      in.Status,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		Unit:        in.Unit,
		MinQty:      in.MinQty,
		MaxQty:      in.MaxQty,
		LeadTime:    in.LeadTime,
		SafetyStock: in.SafetyStock,
	}
}

// CreateItem godoc
// @Summary      Crear ítem de inventario
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ItemRequest  true  "sku, name, location, quantity, parámetros de reposición"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.ItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item := itemFromRequest(in)
	if err := h.stock.CreateItem(c.Context(), item); err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sku, name y quantity >= 0 son requeridos"})
		}
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SKU_EXISTS", Message: "el SKU ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToItemResponse(item))
}

// ListItems godoc
// @Summary      Listar ítems
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items [get]
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	items, err := h.stock.ListItems(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.ToItemResponse(item))
	}
	return c.JSON(out)
}

// GetItem godoc
// @Summary      Obtener ítem por SKU
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{sku} [get]
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.stock.GetItem(c.Context(), c.Params("sku"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ToItemResponse(item))
}

// UpdateItem godoc
// @Summary      Editar ítem (la diferencia de cantidad queda como ajuste en el ledger)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sku   path  string           true  "SKU"
// @Param        body  body  dto.ItemRequest  true  "campos del ítem"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{sku} [put]
func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.ItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in.SKU = c.Params("sku")
	item, err := h.stock.UpdateItem(c.Context(), itemFromRequest(in), GetUserName(c))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ToItemResponse(item))
}

// DeleteItem godoc
// @Summary      Eliminar ítem
// @Tags         items
// @Security     Bearer
// @Param        sku  path  string  true  "SKU"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{sku} [delete]
func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.stock.DeleteItem(c.Context(), c.Params("sku")); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMovements godoc
// @Summary      Consultar el ledger de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        sku     query  string  false  "filtrar por SKU"
// @Param        type    query  string  false  "entrada | saida | ajuste"
// @Param        limit   query  int     false  "máximo de filas (default 50)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	filter := repository.MovementFilter{
		SKU:    c.Query("sku"),
		Type:   c.Query("type"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	movements, err := h.ledger.ListMovements(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// ProcessPicking godoc
// @Summary      Registrar salida por expedición
// @Tags         expedition
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PickingRequest  true  "sku, quantity"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/expedition/picking [post]
func (h *InventoryHandler) ProcessPicking(c *fiber.Ctx) error {
	var in dto.PickingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.stock.ProcessPicking(c.Context(), in.SKU, in.Quantity, GetUserName(c))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser mayor a cero"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem no encontrado"})
		}
		if err == domain.ErrInsufficientStock {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ToItemResponse(item))
}

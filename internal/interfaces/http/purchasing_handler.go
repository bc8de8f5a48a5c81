package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/nortetech/wms-api/internal/application/dto"
	"github.com/nortetech/wms-api/internal/application/purchasing"
	"github.com/nortetech/wms-api/internal/domain"
	"github.com/nortetech/wms-api/internal/domain/entity"
)

// PurchasingHandler maneja el ciclo de vida de pedidos de compra y el recebimento (protegido).
type PurchasingHandler struct {
	uc *purchasing.UseCase
}

// NewPurchasingHandler construye el handler.
func NewPurchasingHandler(uc *purchasing.UseCase) *PurchasingHandler {
	return &PurchasingHandler{uc: uc}
}

// Una transición fuera de estado es un no-op para el pedido; se devuelve 409
// con el estado actual para que la UI avise sin romper nada.
func transitionError(c *fiber.Ctx, err error, po *entity.PurchaseOrder) error {
	switch err {
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pedido no encontrado"})
	case domain.ErrInvalidTransition:
		msg := "el pedido no está en el estado requerido"
		if po != nil {
			msg += " (actual: " + string(po.Status) + ")"
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: msg})
	case domain.ErrQuoteNotFound:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "QUOTE_NOT_FOUND", Message: "la cotización seleccionada no existe en el pedido"})
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// Create godoc
// @Summary      Crear pedido de compra manual
// @Description  El pedido nace en requisicao y dispara la reconciliación de
//
//	requisiciones automáticas que cubran los mismos SKUs.
//
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePORequest  true  "vendor, priority, items"
// @Success      201   {object}  dto.POResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchasingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePORequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]entity.POItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.POItem{SKU: it.SKU, Name: it.Name, Qty: it.Qty, Price: it.Price})
	}
	po, err := h.uc.CreateManualOrder(c.Context(), purchasing.CreateOrderInput{
		Vendor:    in.Vendor,
		Priority:  in.Priority,
		Requester: GetUserName(c),
		Items:     items,
	})
	if err != nil {
		if err == domain.ErrEmptyOrder {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_ORDER", Message: "el pedido requiere al menos un ítem"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToPOResponse(po))
}

// List godoc
// @Summary      Listar pedidos de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.POResponse
// @Router       /api/purchase-orders [get]
func (h *PurchasingHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	orders, err := h.uc.ListOrders(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.POResponse, 0, len(orders))
	for _, po := range orders {
		out = append(out, dto.ToPOResponse(po))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido por ID
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.POResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchasingHandler) GetByID(c *fiber.Ctx) error {
	po, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pedido no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ToPOResponse(po))
}

// AddQuotes godoc
// @Summary      Registrar cotizaciones (requisicao -> cotacao)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del pedido"
// @Param        body  body  dto.AddQuotesRequest  true  "cotizaciones con proveedores distintos"
// @Success      200   {object}  dto.POResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/quotes [post]
func (h *PurchasingHandler) AddQuotes(c *fiber.Ctx) error {
	var in dto.AddQuotesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	quotes := make([]entity.Quote, 0, len(in.Quotes))
	for i, q := range in.Quotes {
		items := make([]entity.QuoteItem, 0, len(q.Items))
		for _, it := range q.Items {
			items = append(items, entity.QuoteItem{SKU: it.SKU, UnitPrice: it.UnitPrice})
		}
		quotes = append(quotes, entity.Quote{
			ID:         fiberQuoteID(c.Params("id"), i),
			VendorID:   q.VendorID,
			VendorName: q.VendorName,
			Items:      items,
			TotalValue: q.TotalValue,
			ValidUntil: q.ValidUntil,
			Notes:      q.Notes,
			QuotedBy:   GetUserName(c),
		})
	}
	po, err := h.uc.AddQuotes(c.Context(), c.Params("id"), quotes)
	if err != nil {
		return transitionError(c, err, po)
	}
	return c.JSON(dto.ToPOResponse(po))
}

// fiberQuoteID genera un ID estable de cotización dentro del pedido.
func fiberQuoteID(poID string, idx int) string {
	return fmt.Sprintf("%s-Q%d", poID, idx+1)
}

// SendToApproval godoc
// @Summary      Enviar a aprobación con la cotización elegida (cotacao -> pendente)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del pedido"
// @Param        body  body  dto.SendToApprovalRequest  true  "selected_quote_id"
// @Success      200   {object}  dto.POResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/send-to-approval [post]
func (h *PurchasingHandler) SendToApproval(c *fiber.Ctx) error {
	var in dto.SendToApprovalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	po, err := h.uc.SendToApproval(c.Context(), c.Params("id"), in.SelectedQuoteID)
	if err != nil {
		return transitionError(c, err, po)
	}
	return c.JSON(dto.ToPOResponse(po))
}

// Approve godoc
// @Summary      Aprobar pedido pendiente (pendente -> aprovado)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.POResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/approve [post]
func (h *PurchasingHandler) Approve(c *fiber.Ctx) error {
	po, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserName(c))
	if err != nil {
		return transitionError(c, err, po)
	}
	return c.JSON(dto.ToPOResponse(po))
}

// Reject godoc
// @Summary      Rechazar pedido pendiente (pendente -> requisicao)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del pedido"
// @Param        body  body  dto.RejectRequest  false "reason"
// @Success      200   {object}  dto.POResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/reject [post]
func (h *PurchasingHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequest
	_ = c.BodyParser(&in) // reason es opcional
	po, err := h.uc.Reject(c.Context(), c.Params("id"), GetUserName(c), in.Reason)
	if err != nil {
		return transitionError(c, err, po)
	}
	return c.JSON(dto.ToPOResponse(po))
}

// MarkAsSent godoc
// @Summary      Marcar pedido como enviado al proveedor (aprovado -> enviado)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del pedido"
// @Param        body  body  dto.MarkSentRequest  true  "vendor_order_number"
// @Success      200   {object}  dto.POResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/mark-sent [post]
func (h *PurchasingHandler) MarkAsSent(c *fiber.Ctx) error {
	var in dto.MarkSentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	po, err := h.uc.MarkAsSent(c.Context(), c.Params("id"), in.VendorOrderNumber)
	if err != nil {
		return transitionError(c, err, po)
	}
	return c.JSON(dto.ToPOResponse(po))
}

// FinalizeReceipt godoc
// @Summary      Finalizar recebimento de carga
// @Description  Incrementa stock y asienta entradas línea a línea, reconcilia
//
//	requisiciones automáticas y, si se indica po_id, marca el pedido como recebido.
//
// @Tags         receiving
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiptRequest  true  "items recibidos y po_id opcional"
// @Success      200   {object}  map[string]int
// @Router       /api/receiving/finalize [post]
func (h *PurchasingHandler) FinalizeReceipt(c *fiber.Ctx) error {
	var in dto.ReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	received := make([]purchasing.ReceivedItem, 0, len(in.Items))
	for _, it := range in.Items {
		received = append(received, purchasing.ReceivedItem{SKU: it.SKU, Qty: it.Received})
	}
	applied, err := h.uc.FinalizeReceipt(c.Context(), received, in.POID, GetUserName(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"received": len(in.Items), "applied": len(applied)})
}

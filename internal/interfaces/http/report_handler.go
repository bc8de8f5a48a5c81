package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/nortetech/wms-api/internal/application/dto"
	"github.com/nortetech/wms-api/internal/application/purchasing"
	"github.com/nortetech/wms-api/internal/domain"
	"github.com/nortetech/wms-api/internal/domain/entity"
)

// PDFGenerator puerto del generador de reportes PDF.
type PDFGenerator interface {
	GeneratePurchaseOrderPDF(ctx context.Context, po *entity.PurchaseOrder) ([]byte, error)
}

// ReportHandler genera reportes PDF de pedidos de compra (protegido).
type ReportHandler struct {
	orders *purchasing.UseCase
	pdf    PDFGenerator
}

// NewReportHandler construye el handler.
func NewReportHandler(orders *purchasing.UseCase, pdf PDFGenerator) *ReportHandler {
	return &ReportHandler{orders: orders, pdf: pdf}
}

// PurchaseOrderPDF godoc
// @Summary      Descargar PDF del pedido de compra
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/purchase-orders/{id}/pdf [get]
func (h *ReportHandler) PurchaseOrderPDF(c *fiber.Ctx) error {
	po, err := h.orders.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pedido no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	bytes, err := h.pdf.GeneratePurchaseOrderPDF(c.Context(), po)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_ERROR", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+po.ID+`.pdf"`)
	return c.Send(bytes)
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nortetech/wms-api/internal/domain/entity"
)

// POItemDTO línea de un pedido de compra.
type POItemDTO struct {
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Qty   int             `json:"qty"`
	Price decimal.Decimal `json:"price"`
}

// CreatePORequest alta manual de pedido de compra.
type CreatePORequest struct {
	Vendor   string      `json:"vendor"`
	Priority string      `json:"priority"`
	Items    []POItemDTO `json:"items"`
}

// QuoteItemDTO línea cotizada por un proveedor.
type QuoteItemDTO struct {
	SKU       string          `json:"sku"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Qty       int             `json:"qty"`
}

// QuoteDTO cotización de un proveedor para un pedido.
type QuoteDTO struct {
	VendorID   string          `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	Items      []QuoteItemDTO  `json:"items"`
	TotalValue decimal.Decimal `json:"total_value"`
	ValidUntil string          `json:"valid_until"`
	Notes      string          `json:"notes"`
}

// AddQuotesRequest registro de cotizaciones sobre una requisición.
type AddQuotesRequest struct {
	Quotes []QuoteDTO `json:"quotes"`
}

// SendToApprovalRequest envía el pedido a aprobación con la cotización elegida.
type SendToApprovalRequest struct {
	SelectedQuoteID string `json:"selected_quote_id"`
}

// RejectRequest rechazo de un pedido pendiente.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// MarkSentRequest marca el pedido como enviado al proveedor.
type MarkSentRequest struct {
	VendorOrderNumber string `json:"vendor_order_number"`
}

// ApprovalRecordDTO registro de auditoría de aprobación/rechazo.
type ApprovalRecordDTO struct {
	ID     string    `json:"id"`
	Action string    `json:"action"`
	By     string    `json:"by"`
	At     time.Time `json:"at"`
	Reason string    `json:"reason,omitempty"`
}

// POResponse representación HTTP de un pedido de compra.
type POResponse struct {
	ID                string              `json:"id"`
	Vendor            string              `json:"vendor"`
	RequestDate       time.Time           `json:"request_date"`
	Status            string              `json:"status"`
	Priority          string              `json:"priority"`
	Total             decimal.Decimal     `json:"total"`
	Requester         string              `json:"requester"`
	Items             []entity.POItem     `json:"items"`
	Quotes            []entity.Quote      `json:"quotes,omitempty"`
	SelectedQuoteID   string              `json:"selected_quote_id,omitempty"`
	ApprovalHistory   []ApprovalRecordDTO `json:"approval_history,omitempty"`
	VendorOrderNumber string              `json:"vendor_order_number,omitempty"`
	QuotesAddedAt     *time.Time          `json:"quotes_added_at,omitempty"`
	SentToVendorAt    *time.Time          `json:"sent_to_vendor_at,omitempty"`
	ApprovedAt        *time.Time          `json:"approved_at,omitempty"`
	RejectedAt        *time.Time          `json:"rejected_at,omitempty"`
	ReceivedAt        *time.Time          `json:"received_at,omitempty"`
}

// ToPOResponse mapea la entidad al DTO HTTP.
func ToPOResponse(po *entity.PurchaseOrder) POResponse {
	history := make([]ApprovalRecordDTO, 0, len(po.ApprovalHistory))
	for _, r := range po.ApprovalHistory {
		history = append(history, ApprovalRecordDTO{
			ID:     r.ID,
			Action: r.Action,
			By:     r.By,
			At:     r.At,
			Reason: r.Reason,
		})
	}
	return POResponse{
		ID:                po.ID,
		Vendor:            po.Vendor,
		RequestDate:       po.RequestDate,
		Status:            string(po.Status),
		Priority:          po.Priority,
		Total:             po.Total,
		Requester:         po.Requester,
		Items:             po.Items,
		Quotes:            po.Quotes,
		SelectedQuoteID:   po.SelectedQuoteID,
		ApprovalHistory:   history,
		VendorOrderNumber: po.VendorOrderNumber,
		QuotesAddedAt:     po.QuotesAddedAt,
		SentToVendorAt:    po.SentToVendorAt,
		ApprovedAt:        po.ApprovedAt,
		RejectedAt:        po.RejectedAt,
		ReceivedAt:        po.ReceivedAt,
	}
}

package dto

import (
	"time"

	"github.com/nortetech/wms-api/internal/domain/entity"
)

// ItemRequest alta/edición de un ítem de inventario.
type ItemRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Batch       string `json:"batch"`
	Expiry      string `json:"expiry"`
	Quantity    int    `json:"quantity"`
	Status      string `json:"status"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
	Unit        string `json:"unit"`
	MinQty      int    `json:"min_qty"`
	MaxQty      int    `json:"max_qty"`
	LeadTime    int    `json:"lead_time"`
	SafetyStock int    `json:"safety_stock"`
}

// ItemResponse representación HTTP de un ítem.
type ItemResponse struct {
	SKU           string     `json:"sku"`
	Name          string     `json:"name"`
	Location      string     `json:"location"`
	Batch         string     `json:"batch,omitempty"`
	Expiry        string     `json:"expiry,omitempty"`
	Quantity      int        `json:"quantity"`
	Status        string     `json:"status"`
	ImageURL      string     `json:"image_url,omitempty"`
	Category      string     `json:"category,omitempty"`
	Unit          string     `json:"unit"`
	MinQty        int        `json:"min_qty"`
	MaxQty        int        `json:"max_qty"`
	LeadTime      int        `json:"lead_time"`
	SafetyStock   int        `json:"safety_stock"`
	ABCCategory   string     `json:"abc_category,omitempty"`
	LastCountedAt *time.Time `json:"last_counted_at,omitempty"`
}

// ToItemResponse mapea la entidad al DTO HTTP.
func ToItemResponse(i *entity.Item) ItemResponse {
	return ItemResponse{
		SKU:           i.SKU,
		Name:          i.Name,
		Location:      i.Location,
		Batch:         i.Batch,
		Expiry:        i.Expiry,
		Quantity:      i.Quantity,
		Status:        i.Status,
		ImageURL:      i.ImageURL,
		Category:      i.Category,
		Unit:          i.Unit,
		MinQty:        i.MinQty,
		MaxQty:        i.MaxQty,
		LeadTime:      i.LeadTime,
		SafetyStock:   i.SafetyStock,
		ABCCategory:   i.ABCCategory,
		LastCountedAt: i.LastCountedAt,
	}
}

// MovementResponse representación HTTP de un movimiento del ledger.
type MovementResponse struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Type        string    `json:"type"`
	SKU         string    `json:"sku"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	User        string    `json:"user"`
	Location    string    `json:"location"`
	Reason      string    `json:"reason"`
	OrderID     string    `json:"order_id,omitempty"`
}

// ToMovementResponse mapea la entidad al DTO HTTP.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		Timestamp:   m.Timestamp,
		Type:        m.Type,
		SKU:         m.SKU,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		User:        m.User,
		Location:    m.Location,
		Reason:      m.Reason,
		OrderID:     m.OrderID,
	}
}

// PickingRequest solicitud de salida para expedición.
type PickingRequest struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// ReceivedItemDTO línea recibida en un recebimento.
type ReceivedItemDTO struct {
	SKU      string `json:"sku"`
	Received int    `json:"received"`
}

// ReceiptRequest finalización de recebimento de carga.
type ReceiptRequest struct {
	POID  string            `json:"po_id,omitempty"`
	Items []ReceivedItemDTO `json:"items"`
}

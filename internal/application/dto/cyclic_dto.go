package dto

import (
	"time"

	"github.com/nortetech/wms-api/internal/domain/entity"
)

// BatchItemRequest línea de un lote de inventario cíclico.
type BatchItemRequest struct {
	SKU string `json:"sku"`
}

// CreateBatchRequest alta de un lote de conteo cíclico.
type CreateBatchRequest struct {
	Items []BatchItemRequest `json:"items"`
}

// CountResultDTO resultado contado de una línea del lote.
type CountResultDTO struct {
	SKU        string `json:"sku"`
	CountedQty int    `json:"counted_qty"`
}

// FinalizeBatchRequest cierre de un lote con los conteos físicos.
type FinalizeBatchRequest struct {
	Counts []CountResultDTO `json:"counts"`
}

// BatchResponse representación HTTP de un lote cíclico.
type BatchResponse struct {
	ID             string     `json:"id"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	TotalItems     int        `json:"total_items"`
	DivergentItems int        `json:"divergent_items"`
	AccuracyRate   *float64   `json:"accuracy_rate,omitempty"`
}

// ToBatchResponse mapea la entidad al DTO HTTP.
func ToBatchResponse(b *entity.CyclicBatch) BatchResponse {
	return BatchResponse{
		ID:             b.ID,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
		CompletedAt:    b.CompletedAt,
		TotalItems:     b.TotalItems,
		DivergentItems: b.DivergentItems,
		AccuracyRate:   b.AccuracyRate,
	}
}

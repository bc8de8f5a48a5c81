package entity

import "time"

// Estados de lote de inventario cíclico.
const (
	BatchStatusAberto    = "aberto"
	BatchStatusConcluido = "concluido"
	BatchStatusCancelado = "cancelado"
)

// Estados de conteo individual.
const (
	CountStatusPendente = "pendente"
	CountStatusContado  = "contado"
	CountStatusAjustado = "ajustado"
)

// CyclicBatch lote de conteo cíclico: una muestra de SKUs con cantidad esperada.
// Al finalizar se calcula la tasa de acuracidad y el número de ítems divergentes,
// y los resultados se vuelcan sobre Item.Quantity y Item.LastCountedAt.
type CyclicBatch struct {
	ID             string
	Status         string
	ScheduledDate  *time.Time
	CompletedAt    *time.Time
	AccuracyRate   *float64 // porcentaje 0-100, solo en lotes concluidos
	TotalItems     int
	DivergentItems int
	CreatedAt      time.Time
}

// CyclicCount conteo de un SKU dentro de un lote: esperado vs. contado.
type CyclicCount struct {
	ID          string
	BatchID     string
	SKU         string
	ExpectedQty int
	CountedQty  *int
	Status      string
	Notes       string
	CountedAt   *time.Time
}

package entity

import "time"

// Categorías ABC por giro de salida.
const (
	ABCCategoryA = "A"
	ABCCategoryB = "B"
	ABCCategoryC = "C"
)

// Valores por defecto para ítems sin parámetros de reposición configurados.
const (
	DefaultMinQty      = 10
	DefaultMaxQty      = 1000
	DefaultLeadTime    = 7 // días
	DefaultSafetyStock = 5 // unidades
)

// Item representa un SKU del almacén con sus parámetros de reposición.
// MinQty es el punto de reorden (ROP) y lo recalcula dinámicamente el estimador;
// MaxQty es el nivel objetivo al que repone el evaluador de estoque crítico.
// La relación MinQty <= MaxQty no se valida en alta/edición (comportamiento heredado).
type Item struct {
	SKU           string
	Name          string
	Location      string
	Batch         string
	Expiry        string
	Quantity      int // unidades enteras, >= 0
	Status        string
	ImageURL      string
	Category      string
	Unit          string
	MinQty        int
	MaxQty        int
	LeadTime      int    // días de entrega del proveedor
	SafetyStock   int    // unidades de colchón
	ABCCategory   string // "A" | "B" | "C" | "" sin clasificar
	LastCountedAt *time.Time
}

// EffectiveLeadTime devuelve el lead time o el valor por defecto si no está configurado.
func (i *Item) EffectiveLeadTime() int {
	if i.LeadTime <= 0 {
		return DefaultLeadTime
	}
	return i.LeadTime
}

// EffectiveSafetyStock devuelve el safety stock o el valor por defecto si no está configurado.
func (i *Item) EffectiveSafetyStock() int {
	if i.SafetyStock <= 0 {
		return DefaultSafetyStock
	}
	return i.SafetyStock
}

package entity

import "time"

// Tipos de movimiento del ledger. El tipo determina la semántica del signo:
// saida descuenta stock, entrada lo incrementa, ajuste es una corrección
// (la cantidad se almacena siempre como valor absoluto).
const (
	MovementEntrada = "entrada"
	MovementSaida   = "saida"
	MovementAjuste  = "ajuste"
)

// Movement es una entrada inmutable del ledger de movimientos.
// Es la única entidad append-only del sistema y la fuente de verdad del
// historial de consumo; ningún caso de uso la modifica una vez creada.
type Movement struct {
	ID          string
	Timestamp   time.Time
	Type        string // entrada | saida | ajuste
	SKU         string
	ProductName string
	Quantity    int // valor absoluto; el signo lo aporta Type
	User        string
	Location    string
	Reason      string
	OrderID     string // referencia opcional al pedido de compra de origen
}

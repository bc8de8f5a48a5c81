// Package ids genera identificadores de negocio con prefijos estables.
//
// Convención de prefijos (documentada, no cambiar sin migración):
//
//	MOV-  movimientos de inventario
//	PO-   pedidos de compra manuales
//	AUTO- pedidos de compra generados por el evaluador de estoque crítico
//	APR-  registros de aprobación
//	REJ-  registros de rechazo
//	INV-  lotes de inventario cíclico
package ids

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator produce identificadores únicos por tipo de entidad.
// El prefijo AUTO- distingue pedidos automáticos de manuales en todo el sistema.
type Generator interface {
	MovementID() string
	ManualOrderID() string
	AutoOrderID() string
	ApprovalID(action string) string
	BatchID() string
	NotificationID() string
}

// AutoOrderPrefix identifica pedidos de compra generados por el sistema.
const AutoOrderPrefix = "AUTO-"

// IsAutoOrder indica si un ID de pedido corresponde a una requisición automática.
func IsAutoOrder(id string) bool {
	return strings.HasPrefix(id, AutoOrderPrefix)
}

// generator implementación por defecto: prefijo + epoch ms + fragmento UUID.
type generator struct {
	now func() time.Time
}

// New construye el generador por defecto. now es inyectable para tests; nil usa time.Now.
func New(now func() time.Time) Generator {
	if now == nil {
		now = time.Now
	}
	return &generator{now: now}
}

func (g *generator) stamp(prefix string) string {
	return fmt.Sprintf("%s%d-%s", prefix, g.now().UnixMilli(), uuid.NewString()[:8])
}

func (g *generator) MovementID() string     { return g.stamp("MOV-") }
func (g *generator) ManualOrderID() string  { return g.stamp("PO-") }
func (g *generator) AutoOrderID() string    { return g.stamp(AutoOrderPrefix) }
func (g *generator) BatchID() string        { return g.stamp("INV-") }
func (g *generator) NotificationID() string { return uuid.NewString() }

// ApprovalID usa APR- para aprobaciones y REJ- para rechazos.
func (g *generator) ApprovalID(action string) string {
	if action == "rejected" {
		return g.stamp("REJ-")
	}
	return g.stamp("APR-")
}

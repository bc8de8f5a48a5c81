// Package purchasing define la máquina de estados del pedido de compra como
// tabla explícita (estado origen × acción → estado destino). Cualquier
// invocación fuera de la tabla se rechaza antes de escribir nada; el caso de
// uso la convierte en no-op con aviso, nunca en crash.
package purchasing

import "github.com/nortetech/wms-api/internal/domain/entity"

// Action acción que dispara una transición del pedido.
type Action string

const (
	ActionAddQuotes      Action = "add_quotes"
	ActionSendToApproval Action = "send_to_approval"
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionMarkAsSent     Action = "mark_as_sent"
	ActionReceive        Action = "receive"
)

// transitions tabla acción × estado origen → estado destino.
// El rechazo vuelve a requisicao (re-cotización), no a un estado terminal.
var transitions = map[Action]map[entity.POStatus]entity.POStatus{
	ActionAddQuotes: {
		entity.POStatusRequisicao: entity.POStatusCotacao,
	},
	ActionSendToApproval: {
		entity.POStatusCotacao: entity.POStatusPendente,
	},
	ActionApprove: {
		entity.POStatusPendente: entity.POStatusAprovado,
	},
	ActionReject: {
		entity.POStatusPendente: entity.POStatusRequisicao,
	},
	ActionMarkAsSent: {
		entity.POStatusAprovado: entity.POStatusEnviado,
	},
	ActionReceive: {
		entity.POStatusEnviado: entity.POStatusRecebido,
	},
}

// Next devuelve el estado destino para (estado, acción). ok es false si la
// transición no está permitida desde ese estado.
func Next(from entity.POStatus, action Action) (entity.POStatus, bool) {
	targets, ok := transitions[action]
	if !ok {
		return from, false
	}
	to, ok := targets[from]
	if !ok {
		return from, false
	}
	return to, true
}

// DedupStatuses estados en los que un pedido existente bloquea la creación de
// una nueva requisición automática para el mismo SKU.
func DedupStatuses() []entity.POStatus {
	return []entity.POStatus{
		entity.POStatusPendente,
		entity.POStatusRascunho,
		entity.POStatusRequisicao,
	}
}

// ReconcileStatuses estados en los que un pedido automático sigue "en vuelo"
// y debe reducirse cuando un pedido manual cubre el mismo faltante.
func ReconcileStatuses() []entity.POStatus {
	return []entity.POStatus{
		entity.POStatusRequisicao,
		entity.POStatusCotacao,
		entity.POStatusPendente,
		entity.POStatusAprovado,
	}
}

// IsActive indica si el estado cuenta como activo para la regla de
// reconciliación (no recibido, no rechazado ni cancelado).
func IsActive(s entity.POStatus) bool {
	for _, st := range ReconcileStatuses() {
		if s == st {
			return true
		}
	}
	return false
}

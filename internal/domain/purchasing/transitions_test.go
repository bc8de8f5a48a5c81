package purchasing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/internal/domain/purchasing"
)

// allStatuses todos los estados posibles de un pedido de compra.
var allStatuses = []entity.POStatus{
	entity.POStatusRascunho,
	entity.POStatusRequisicao,
	entity.POStatusCotacao,
	entity.POStatusPendente,
	entity.POStatusAprovado,
	entity.POStatusEnviado,
	entity.POStatusRecebido,
	entity.POStatusRejeitado,
	entity.POStatusCancelado,
}

var allActions = []purchasing.Action{
	purchasing.ActionAddQuotes,
	purchasing.ActionSendToApproval,
	purchasing.ActionApprove,
	purchasing.ActionReject,
	purchasing.ActionMarkAsSent,
	purchasing.ActionReceive,
}

// allowed transiciones válidas esperadas. Todo par (acción, estado) fuera de
// este mapa debe ser rechazado por Next.
var allowed = map[purchasing.Action]map[entity.POStatus]entity.POStatus{
	purchasing.ActionAddQuotes:      {entity.POStatusRequisicao: entity.POStatusCotacao},
	purchasing.ActionSendToApproval: {entity.POStatusCotacao: entity.POStatusPendente},
	purchasing.ActionApprove:        {entity.POStatusPendente: entity.POStatusAprovado},
	purchasing.ActionReject:         {entity.POStatusPendente: entity.POStatusRequisicao},
	purchasing.ActionMarkAsSent:     {entity.POStatusAprovado: entity.POStatusEnviado},
	purchasing.ActionReceive:        {entity.POStatusEnviado: entity.POStatusRecebido},
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones
// ──────────────────────────────────────────────────────────────────────────────

// Recorre la matriz completa acción × estado: cada par permitido debe devolver
// el destino correcto y cada par fuera de la tabla debe ser rechazado
// conservando el estado origen.
func TestNext_MatrizCompleta(t *testing.T) {
	for _, action := range allActions {
		for _, from := range allStatuses {
			to, ok := purchasing.Next(from, action)
			expected, permitted := allowed[action][from]
			if permitted {
				assert.True(t, ok, "acción %s desde %s debe estar permitida", action, from)
				assert.Equal(t, expected, to, "acción %s desde %s", action, from)
			} else {
				assert.False(t, ok, "acción %s desde %s no debe estar permitida", action, from)
				assert.Equal(t, from, to, "transición rechazada debe conservar el estado origen")
			}
		}
	}
}

// El rechazo devuelve el pedido a requisición para re-cotizar, no a un estado
// terminal.
func TestNext_RechazoVuelveARequisicao(t *testing.T) {
	to, ok := purchasing.Next(entity.POStatusPendente, purchasing.ActionReject)
	assert.True(t, ok)
	assert.Equal(t, entity.POStatusRequisicao, to)
	assert.NotEqual(t, entity.POStatusRejeitado, to,
		"reject de un pendente no debe ir al estado terminal rejeitado")
}

// Estados terminales: ninguna acción sale de recebido, rejeitado o cancelado.
func TestNext_EstadosTerminalesSinSalida(t *testing.T) {
	terminales := []entity.POStatus{
		entity.POStatusRecebido,
		entity.POStatusRejeitado,
		entity.POStatusCancelado,
	}
	for _, from := range terminales {
		for _, action := range allActions {
			_, ok := purchasing.Next(from, action)
			assert.False(t, ok, "no debe existir transición %s desde %s", action, from)
		}
	}
}

// Una acción desconocida nunca transiciona.
func TestNext_AccionDesconocida(t *testing.T) {
	to, ok := purchasing.Next(entity.POStatusRequisicao, purchasing.Action("explode"))
	assert.False(t, ok)
	assert.Equal(t, entity.POStatusRequisicao, to)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conjuntos auxiliares
// ──────────────────────────────────────────────────────────────────────────────

func TestDedupStatuses(t *testing.T) {
	got := purchasing.DedupStatuses()
	assert.ElementsMatch(t, []entity.POStatus{
		entity.POStatusPendente,
		entity.POStatusRascunho,
		entity.POStatusRequisicao,
	}, got)
	assert.NotContains(t, got, entity.POStatusCotacao,
		"un pedido en cotación no bloquea una nueva requisición automática")
}

func TestReconcileStatuses(t *testing.T) {
	got := purchasing.ReconcileStatuses()
	assert.ElementsMatch(t, []entity.POStatus{
		entity.POStatusRequisicao,
		entity.POStatusCotacao,
		entity.POStatusPendente,
		entity.POStatusAprovado,
	}, got)
	assert.NotContains(t, got, entity.POStatusEnviado,
		"un pedido ya enviado al proveedor no se reconcilia")
}

func TestIsActive(t *testing.T) {
	assert.True(t, purchasing.IsActive(entity.POStatusRequisicao))
	assert.True(t, purchasing.IsActive(entity.POStatusAprovado))
	assert.False(t, purchasing.IsActive(entity.POStatusEnviado))
	assert.False(t, purchasing.IsActive(entity.POStatusRecebido))
	assert.False(t, purchasing.IsActive(entity.POStatusRejeitado))
	assert.False(t, purchasing.IsActive(entity.POStatusCancelado))
}

package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nortetech/wms-api/internal/application/purchasing"
	"github.com/nortetech/wms-api/internal/domain"
	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/pkg/ids"
	"github.com/nortetech/wms-api/pkg/logger"
)

var fixedNow = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

func nowFn() time.Time { return fixedNow }

type testEnv struct {
	uc         *purchasing.UseCase
	orders     *fakePORepo
	movements  *fakeMovementRepo
	items      *fakeItemRepo
	notifier   *fakeNotifier
	activities *fakeActivities
}

func newTestEnv(t *testing.T, orders *fakePORepo, items *fakeItemRepo) *testEnv {
	t.Helper()
	if orders == nil {
		orders = newFakePORepo()
	}
	if items == nil {
		items = newFakeItemRepo()
	}
	env := &testEnv{
		orders:     orders,
		movements:  &fakeMovementRepo{},
		items:      items,
		notifier:   &fakeNotifier{},
		activities: &fakeActivities{},
	}
	env.uc = purchasing.NewUseCase(
		env.orders, env.movements,
		&fakeTxRunner{movements: env.movements, items: env.items},
		env.notifier, env.activities,
		ids.New(nowFn), logger.Nop(), nowFn)
	return env
}

func pendingOrder(id string, status entity.POStatus) *entity.PurchaseOrder {
	return &entity.PurchaseOrder{
		ID:          id,
		Vendor:      "Fornecedor Teste",
		RequestDate: fixedNow.AddDate(0, 0, -2),
		Status:      status,
		Priority:    entity.POPriorityNormal,
		Total:       decimal.NewFromInt(100),
		Requester:   "Maria",
		Items:       []entity.POItem{{SKU: "SKU-001", Name: "Item 1", Qty: 10, Price: decimal.NewFromInt(10)}},
	}
}

func twoQuotes() []entity.Quote {
	return []entity.Quote{
		{ID: "Q-1", VendorID: "V-1", VendorName: "Fornecedor A", TotalValue: decimal.NewFromInt(100)},
		{ID: "Q-2", VendorID: "V-2", VendorName: "Fornecedor B", TotalValue: decimal.NewFromInt(80)},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateManualOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateManualOrder_NaceEnRequisicao(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	po, err := env.uc.CreateManualOrder(context.Background(), purchasing.CreateOrderInput{
		Vendor:    "Fornecedor X",
		Requester: "João",
		Items: []entity.POItem{
			{SKU: "SKU-001", Qty: 10, Price: decimal.NewFromInt(5)},
			{SKU: "SKU-002", Qty: 3, Price: decimal.RequireFromString("2.50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.POStatusRequisicao, po.Status)
	assert.Equal(t, entity.POPriorityNormal, po.Priority, "sin prioridad explícita se usa normal")
	assert.False(t, ids.IsAutoOrder(po.ID), "un alta manual nunca lleva prefijo AUTO-")
	assert.True(t, decimal.RequireFromString("57.50").Equal(po.Total),
		"total = 10×5 + 3×2.50")
	assert.Equal(t, fixedNow, po.RequestDate)
	assert.Equal(t, []string{"compra"}, env.activities.types)
}

func TestCreateManualOrder_SinLineas(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	_, err := env.uc.CreateManualOrder(context.Background(), purchasing.CreateOrderInput{Vendor: "X"})
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)
	assert.Empty(t, env.orders.orders)
}

// ──────────────────────────────────────────────────────────────────────────────
// AddQuotes
// ──────────────────────────────────────────────────────────────────────────────

func TestAddQuotes_TransicionaACotacao(t *testing.T) {
	env := newTestEnv(t, newFakePORepo(pendingOrder("PO-1", entity.POStatusRequisicao)), nil)

	po, err := env.uc.AddQuotes(context.Background(), "PO-1", twoQuotes())
	require.NoError(t, err)

	assert.Equal(t, entity.POStatusCotacao, po.Status)
	require.Len(t, po.Quotes, 2)
	assert.Equal(t, fixedNow, po.Quotes[0].QuotedAt, "QuotedAt vacío se completa con la hora actual")
	require.NotNil(t, po.QuotesAddedAt)
	assert.Equal(t, fixedNow, *po.QuotesAddedAt)
}

func TestAddQuotes_FueraDeEstadoEsNoOp(t *testing.T) {
	for _, status := range []entity.POStatus{
		entity.POStatusCotacao,
		entity.POStatusPendente,
		entity.POStatusAprovado,
		entity.POStatusEnviado,
		entity.POStatusRecebido,
		entity.POStatusRejeitado,
	} {
		t.Run(string(status), func(t *testing.T) {
			env := newTestEnv(t, newFakePORepo(pendingOrder("PO-1", status)), nil)

			po, err := env.uc.AddQuotes(context.Background(), "PO-1", twoQuotes())
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			assert.Equal(t, status, po.Status, "el estado no debe cambiar")
			assert.Empty(t, env.orders.orders["PO-1"].Quotes, "no se escribe nada")
		})
	}
}

func TestAddQuotes_ProveedoresDuplicados(t *testing.T) {
	env := newTestEnv(t, newFakePORepo(pendingOrder("PO-1", entity.POStatusRequisicao)), nil)

	quotes := twoQuotes()
	quotes[1].VendorID = quotes[0].VendorID
	_, err := env.uc.AddQuotes(context.Background(), "PO-1", quotes)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.POStatusRequisicao, env.orders.orders["PO-1"].Status)
}

func TestAddQuotes_SinCotizaciones(t *testing.T) {
	env := newTestEnv(t, newFakePORepo(pendingOrder("PO-1", entity.POStatusRequisicao)), nil)
	_, err := env.uc.AddQuotes(context.Background(), "PO-1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// SendToApproval
// ──────────────────────────────────────────────────────────────────────────────

// La cotización elegida (80) pisa proveedor y total del pedido; las demás
// quedan marcadas como no seleccionadas.
func TestSendToApproval_CopiaCotizacionGanadora(t *testing.T) {
	order := pendingOrder("PO-1", entity.POStatusCotacao)
	order.Quotes = twoQuotes()
	env := newTestEnv(t, newFakePORepo(order), nil)

	po, err := env.uc.SendToApproval(context.Background(), "PO-1", "Q-2")
	require.NoError(t, err)

	assert.Equal(t, entity.POStatusPendente, po.Status)
	assert.Equal(t, "Q-2", po.SelectedQuoteID)
	assert.Equal(t, "Fornecedor B", po.Vendor)
	assert.True(t, decimal.NewFromInt(80).Equal(po.Total))
	assert.False(t, po.Quotes[0].IsSelected)
	assert.True(t, po.Quotes[1].IsSelected)
	assert.Equal(t, []string{entity.NotifInfo}, env.notifier.levels)
}

func TestSendToApproval_CotizacionInexistente(t *testing.T) {
	order := pendingOrder("PO-1", entity.POStatusCotacao)
	order.Quotes = twoQuotes()
	env := newTestEnv(t, newFakePORepo(order), nil)

	_, err := env.uc.SendToApproval(context.Background(), "PO-1", "Q-99")
	assert.ErrorIs(t, err, domain.ErrQuoteNotFound)
	assert.Equal(t, entity.POStatusCotacao, env.orders.orders["PO-1"].Status)
}

func TestSendToApproval_FueraDeEstadoEsNoOp(t *testing.T) {
	env := newTestEnv(t, newFakePORepo(pendingOrder("PO-1", entity.POStatusRequisicao)), nil)

	po, err := env.uc.SendToApproval(context.Background(), "PO-1", "Q-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.POStatusRequisicao, po.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve / Reject
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_AsientaAuditoria(t *testing.T) {
	env := newTestEnv(t, newFakePORepo(pendingOrder("PO-1", entity.POStatusPendente)), nil)

	po, err := env.uc.Approve(context.Background(), "PO-1", "Ana")
	require.NoError(t, err)

	assert.Equal(t, entity.POStatusAprovado, po.Status)
	require.NotNil(t, po.ApprovedAt)
	require.Len(t, po.ApprovalHistory, 1)
	rec := po.ApprovalHistory[0]
	assert.Equal(t, entity.ApprovalActionApproved, rec.Action)
	assert.Equal(t, "Ana", rec.By)
	assert.Contains(t, rec.ID, "APR-")
	assert.Equal(t, []string{entity.NotifSuccess}, env.notifier.levels)
}

// El rechazo devuelve el pedido a requisicao, asienta el registro REJ- y deja
// en el ledger un ajuste de cantidad cero referenciando al pedido.
func TestReject_VuelveARequisicaoConAjusteCero(t *testing.T) {
	env := newTestEnv(t, newFakePORepo(pendingOrder("PO-1", entity.POStatusPendente)), nil)

	po, err := env.uc.Reject(context.Background(), "PO-1", "Ana", "preço acima do orçamento")
	require.NoError(t, err)

	assert.Equal(t, entity.POStatusRequisicao, po.Status,
		"el rechazo vuelve a requisición, no a un estado terminal")
	require.NotNil(t, po.RejectedAt)
	require.Len(t, po.ApprovalHistory, 1)
	assert.Equal(t, entity.ApprovalActionRejected, po.ApprovalHistory[0].Action)
	assert.Contains(t, po.ApprovalHistory[0].ID, "REJ-")
	assert.Equal(t, "preço acima do orçamento", po.ApprovalHistory[0].Reason)

	require.Len(t, env.movements.created, 1)
	audit := env.movements.created[0]
	assert.Equal(t, entity.MovementAjuste, audit.Type)
	assert.Equal(t, 0, audit.Quantity)
	assert.Equal(t, "N/A", audit.SKU)
	assert.Equal(t, "ADMIN", audit.Location)
	assert.Equal(t, "PO-1", audit.OrderID)
	assert.Contains(t, audit.Reason, "preço acima do orçamento")
}

func TestReject_SinJustificativaUsaDefault(t *testing.T) {
	env := newTestEnv(t, newFakePORepo(pendingOrder("PO-1", entity.POStatusPendente)), nil)

	po, err := env.uc.Reject(context.Background(), "PO-1", "Ana", "")
	require.NoError(t, err)
	assert.Equal(t, "Sem justificativa", po.ApprovalHistory[0].Reason)
}

// Ciclo completo reject → re-cotización: tras el rechazo el pedido acepta
// nuevas cotizaciones y puede volver a aprobación.
func TestReject_PermiteReCotizar(t *testing.T) {
	env := newTestEnv(t, newFakePORepo(pendingOrder("PO-1", entity.POStatusPendente)), nil)
	ctx := context.Background()

	_, err := env.uc.Reject(ctx, "PO-1", "Ana", "muito caro")
	require.NoError(t, err)

	po, err := env.uc.AddQuotes(ctx, "PO-1", twoQuotes())
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusCotacao, po.Status)

	po, err = env.uc.SendToApproval(ctx, "PO-1", "Q-2")
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPendente, po.Status)

	po, err = env.uc.Approve(ctx, "PO-1", "Ana")
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusAprovado, po.Status)
	assert.Len(t, po.ApprovalHistory, 2, "el historial acumula rechazo y aprobación")
}

func TestApprove_FueraDeEstadoEsNoOp(t *testing.T) {
	env := newTestEnv(t, newFakePORepo(pendingOrder("PO-1", entity.POStatusRequisicao)), nil)

	po, err := env.uc.Approve(context.Background(), "PO-1", "Ana")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.POStatusRequisicao, po.Status)
	assert.Empty(t, po.ApprovalHistory)
}

// ──────────────────────────────────────────────────────────────────────────────
// MarkAsSent
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkAsSent_RegistraNumeroExterno(t *testing.T) {
	env := newTestEnv(t, newFakePORepo(pendingOrder("PO-1", entity.POStatusAprovado)), nil)

	po, err := env.uc.MarkAsSent(context.Background(), "PO-1", "OC-2026-0042")
	require.NoError(t, err)

	assert.Equal(t, entity.POStatusEnviado, po.Status)
	assert.Equal(t, "OC-2026-0042", po.VendorOrderNumber)
	require.NotNil(t, po.SentToVendorAt)
	assert.Equal(t, fixedNow, *po.SentToVendorAt)
}

// ──────────────────────────────────────────────────────────────────────────────
// FinalizeReceipt
// ──────────────────────────────────────────────────────────────────────────────

func TestFinalizeReceipt_IncrementaStockYAsientaEntrada(t *testing.T) {
	items := newFakeItemRepo(
		&entity.Item{SKU: "SKU-001", Name: "Item 1", Location: "A-01", Quantity: 5},
		&entity.Item{SKU: "SKU-002", Name: "Item 2", Location: "B-02", Quantity: 0},
	)
	env := newTestEnv(t, newFakePORepo(pendingOrder("PO-1", entity.POStatusEnviado)), items)

	applied, err := env.uc.FinalizeReceipt(context.Background(), []purchasing.ReceivedItem{
		{SKU: "SKU-001", Qty: 20},
		{SKU: "SKU-002", Qty: 7},
	}, "PO-1", "Carlos")
	require.NoError(t, err)
	require.Len(t, applied, 2)

	assert.Equal(t, 25, env.items.items["SKU-001"].Quantity)
	assert.Equal(t, 7, env.items.items["SKU-002"].Quantity)

	require.Len(t, env.movements.created, 2)
	for _, m := range env.movements.created {
		assert.Equal(t, entity.MovementEntrada, m.Type)
		assert.Equal(t, "PO-1", m.OrderID)
		assert.Equal(t, "Carlos", m.User)
	}

	po := env.orders.orders["PO-1"]
	assert.Equal(t, entity.POStatusRecebido, po.Status)
	require.NotNil(t, po.ReceivedAt)
}

// Línea de SKU desconocido: se ignora con aviso, el resto del lote entra.
func TestFinalizeReceipt_SKUDesconocidoSeIgnora(t *testing.T) {
	items := newFakeItemRepo(&entity.Item{SKU: "SKU-001", Name: "Item 1", Quantity: 5})
	env := newTestEnv(t, nil, items)

	applied, err := env.uc.FinalizeReceipt(context.Background(), []purchasing.ReceivedItem{
		{SKU: "FANTASMA", Qty: 9},
		{SKU: "SKU-001", Qty: 3},
	}, "", "Carlos")
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, "SKU-001", applied[0].SKU)
	assert.Equal(t, 8, env.items.items["SKU-001"].Quantity)
	assert.Len(t, env.movements.created, 1)
}

// Cantidades no positivas se descartan sin tocar stock ni ledger.
func TestFinalizeReceipt_CantidadNoPositiva(t *testing.T) {
	items := newFakeItemRepo(&entity.Item{SKU: "SKU-001", Quantity: 5})
	env := newTestEnv(t, nil, items)

	applied, err := env.uc.FinalizeReceipt(context.Background(), []purchasing.ReceivedItem{
		{SKU: "SKU-001", Qty: 0},
		{SKU: "SKU-001", Qty: -4},
	}, "", "Carlos")
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Equal(t, 5, env.items.items["SKU-001"].Quantity)
	assert.Empty(t, env.movements.created)
}

// Recebimento de un pedido que no está en enviado: el stock entra igualmente
// pero la transición a recebido es no-op.
func TestFinalizeReceipt_PedidoFueraDeEnviadoNoTransiciona(t *testing.T) {
	items := newFakeItemRepo(&entity.Item{SKU: "SKU-001", Quantity: 5})
	env := newTestEnv(t, newFakePORepo(pendingOrder("PO-1", entity.POStatusAprovado)), items)

	applied, err := env.uc.FinalizeReceipt(context.Background(), []purchasing.ReceivedItem{
		{SKU: "SKU-001", Qty: 10},
	}, "PO-1", "Carlos")
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, 15, env.items.items["SKU-001"].Quantity)
	assert.Equal(t, entity.POStatusAprovado, env.orders.orders["PO-1"].Status,
		"sin transición válida el estado queda intacto")
	assert.Nil(t, env.orders.orders["PO-1"].ReceivedAt)
}

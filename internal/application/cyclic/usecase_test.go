package cyclic_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nortetech/wms-api/internal/application/cyclic"
	"github.com/nortetech/wms-api/internal/domain"
	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/internal/domain/repository"
	"github.com/nortetech/wms-api/pkg/ids"
	"github.com/nortetech/wms-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeCyclicRepo struct {
	batches map[string]*entity.CyclicBatch
	counts  map[string][]*entity.CyclicCount // por batchID
}

func newFakeCyclicRepo() *fakeCyclicRepo {
	return &fakeCyclicRepo{
		batches: map[string]*entity.CyclicBatch{},
		counts:  map[string][]*entity.CyclicCount{},
	}
}

func (r *fakeCyclicRepo) CreateBatch(_ context.Context, batch *entity.CyclicBatch, counts []*entity.CyclicCount) error {
	r.batches[batch.ID] = batch
	r.counts[batch.ID] = counts
	return nil
}

func (r *fakeCyclicRepo) GetBatch(_ context.Context, id string) (*entity.CyclicBatch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (r *fakeCyclicRepo) ListBatches(_ context.Context, _, _ int) ([]*entity.CyclicBatch, error) {
	out := make([]*entity.CyclicBatch, 0, len(r.batches))
	for _, b := range r.batches {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeCyclicRepo) UpdateBatch(_ context.Context, batch *entity.CyclicBatch) error {
	if _, ok := r.batches[batch.ID]; !ok {
		return domain.ErrNotFound
	}
	r.batches[batch.ID] = batch
	return nil
}

func (r *fakeCyclicRepo) ListCounts(_ context.Context, batchID string) ([]*entity.CyclicCount, error) {
	return r.counts[batchID], nil
}

func (r *fakeCyclicRepo) UpdateCount(_ context.Context, count *entity.CyclicCount) error {
	for i, c := range r.counts[count.BatchID] {
		if c.SKU == count.SKU {
			r.counts[count.BatchID][i] = count
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeItemRepo struct {
	items map[string]*entity.Item
}

func newFakeItemRepo(items ...*entity.Item) *fakeItemRepo {
	r := &fakeItemRepo{items: map[string]*entity.Item{}}
	for _, it := range items {
		r.items[it.SKU] = it
	}
	return r
}

func (r *fakeItemRepo) Create(_ context.Context, item *entity.Item) error {
	if _, ok := r.items[item.SKU]; ok {
		return domain.ErrDuplicate
	}
	r.items[item.SKU] = item
	return nil
}

func (r *fakeItemRepo) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	it, ok := r.items[sku]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return it, nil
}

func (r *fakeItemRepo) List(_ context.Context, _, _ int) ([]*entity.Item, error) {
	return r.ListAll(context.Background())
}

func (r *fakeItemRepo) ListAll(_ context.Context) ([]*entity.Item, error) {
	out := make([]*entity.Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	return out, nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *entity.Item) error {
	if _, ok := r.items[item.SKU]; !ok {
		return domain.ErrNotFound
	}
	r.items[item.SKU] = item
	return nil
}

func (r *fakeItemRepo) UpdateQuantity(_ context.Context, sku string, quantity int) error {
	it, ok := r.items[sku]
	if !ok {
		return domain.ErrNotFound
	}
	it.Quantity = quantity
	return nil
}

func (r *fakeItemRepo) UpdateMinQty(_ context.Context, sku string, minQty int) error {
	it, ok := r.items[sku]
	if !ok {
		return domain.ErrNotFound
	}
	it.MinQty = minQty
	return nil
}

func (r *fakeItemRepo) UpdateABCCategory(_ context.Context, sku, category string) error {
	it, ok := r.items[sku]
	if !ok {
		return domain.ErrNotFound
	}
	it.ABCCategory = category
	return nil
}

func (r *fakeItemRepo) UpdateCount(_ context.Context, sku string, quantity int, countedAt time.Time) error {
	it, ok := r.items[sku]
	if !ok {
		return domain.ErrNotFound
	}
	it.Quantity = quantity
	it.LastCountedAt = &countedAt
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, sku string) error {
	if _, ok := r.items[sku]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, sku)
	return nil
}

type fakeMovementRepo struct {
	created []*entity.Movement
}

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.created = append(r.created, m)
	return nil
}

func (r *fakeMovementRepo) GetByID(_ context.Context, _ string) (*entity.Movement, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeMovementRepo) List(_ context.Context, _ repository.MovementFilter) ([]*entity.Movement, error) {
	return r.created, nil
}

func (r *fakeMovementRepo) SumOutboundBySKU(_ context.Context, _ *time.Time) (map[string]int, error) {
	return map[string]int{}, nil
}

type fakeTxRunner struct {
	movements *fakeMovementRepo
	items     *fakeItemRepo
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(movements repository.MovementRepository, items repository.ItemRepository) error) error {
	return fn(t.movements, t.items)
}

type fakeNotifier struct {
	messages []string
	levels   []string
}

func (n *fakeNotifier) Notify(_ context.Context, _, message, level string) {
	n.messages = append(n.messages, message)
	n.levels = append(n.levels, level)
}

type fakeActivities struct {
	types []string
}

func (a *fakeActivities) Record(_ context.Context, actType, _, _ string) {
	a.types = append(a.types, actType)
}

var fixedNow = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

func nowFn() time.Time { return fixedNow }

type testEnv struct {
	uc        *cyclic.UseCase
	counts    *fakeCyclicRepo
	items     *fakeItemRepo
	movements *fakeMovementRepo
	notifier  *fakeNotifier
}

func newTestEnv(t *testing.T, items *fakeItemRepo) *testEnv {
	t.Helper()
	if items == nil {
		items = newFakeItemRepo()
	}
	env := &testEnv{
		counts:    newFakeCyclicRepo(),
		items:     items,
		movements: &fakeMovementRepo{},
		notifier:  &fakeNotifier{},
	}
	env.uc = cyclic.NewUseCase(
		env.counts, env.items,
		&fakeTxRunner{movements: env.movements, items: env.items},
		env.notifier, &fakeActivities{},
		ids.New(nowFn), logger.Nop(), nowFn)
	return env
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateBatch
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateBatch_CongelaCantidadEsperada(t *testing.T) {
	env := newTestEnv(t, newFakeItemRepo(
		&entity.Item{SKU: "SKU-001", Name: "Item 1", Quantity: 50},
		&entity.Item{SKU: "SKU-002", Name: "Item 2", Quantity: 12},
	))

	batch, err := env.uc.CreateBatch(context.Background(), []string{"SKU-001", "SKU-002"})
	require.NoError(t, err)

	assert.Contains(t, batch.ID, "INV-")
	assert.Equal(t, entity.BatchStatusAberto, batch.Status)
	assert.Equal(t, 2, batch.TotalItems)

	counts, err := env.uc.ListCounts(context.Background(), batch.ID)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 50, counts[0].ExpectedQty, "la cantidad esperada es el saldo al momento del alta")
	assert.Equal(t, entity.CountStatusPendente, counts[0].Status)
}

func TestCreateBatch_SinSKUs(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.uc.CreateBatch(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateBatch_SKUInexistente(t *testing.T) {
	env := newTestEnv(t, newFakeItemRepo(&entity.Item{SKU: "SKU-001", Quantity: 5}))
	_, err := env.uc.CreateBatch(context.Background(), []string{"SKU-001", "FANTASMA"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, env.counts.batches, "un SKU inválido aborta el alta completa")
}

// ──────────────────────────────────────────────────────────────────────────────
// FinalizeBatch
// ──────────────────────────────────────────────────────────────────────────────

// Tres conteos, uno divergente: acuracidad 66.7%, el divergente ajusta stock
// y asienta el ajuste en el ledger; los exactos no tocan el ledger.
func TestFinalizeBatch_AjustaDivergencias(t *testing.T) {
	env := newTestEnv(t, newFakeItemRepo(
		&entity.Item{SKU: "SKU-001", Quantity: 50},
		&entity.Item{SKU: "SKU-002", Quantity: 12},
		&entity.Item{SKU: "SKU-003", Quantity: 8},
	))
	ctx := context.Background()
	batch, err := env.uc.CreateBatch(ctx, []string{"SKU-001", "SKU-002", "SKU-003"})
	require.NoError(t, err)

	done, err := env.uc.FinalizeBatch(ctx, batch.ID, []cyclic.CountResult{
		{SKU: "SKU-001", CountedQty: 50},
		{SKU: "SKU-002", CountedQty: 9}, // faltan 3
		{SKU: "SKU-003", CountedQty: 8},
	}, "Paula")
	require.NoError(t, err)

	assert.Equal(t, entity.BatchStatusConcluido, done.Status)
	assert.Equal(t, 1, done.DivergentItems)
	require.NotNil(t, done.AccuracyRate)
	assert.InDelta(t, 66.67, *done.AccuracyRate, 0.01)
	require.NotNil(t, done.CompletedAt)

	assert.Equal(t, 9, env.items.items["SKU-002"].Quantity, "el conteo físico pisa el saldo")
	require.NotNil(t, env.items.items["SKU-002"].LastCountedAt)

	require.Len(t, env.movements.created, 1, "solo la línea divergente asienta ajuste")
	adj := env.movements.created[0]
	assert.Equal(t, entity.MovementAjuste, adj.Type)
	assert.Equal(t, 3, adj.Quantity)
	assert.Equal(t, "INVENTARIO", adj.Location)
	assert.Contains(t, adj.Reason, batch.ID)
	assert.Contains(t, adj.Reason, "(-3)")

	counts, _ := env.uc.ListCounts(ctx, batch.ID)
	byStatus := map[string]int{}
	for _, c := range counts {
		byStatus[c.Status]++
	}
	assert.Equal(t, 2, byStatus[entity.CountStatusContado])
	assert.Equal(t, 1, byStatus[entity.CountStatusAjustado])
}

// Conteo exacto en todas las líneas: 100% de acuracidad, ledger intacto.
func TestFinalizeBatch_SinDivergencias(t *testing.T) {
	env := newTestEnv(t, newFakeItemRepo(&entity.Item{SKU: "SKU-001", Quantity: 50}))
	ctx := context.Background()
	batch, err := env.uc.CreateBatch(ctx, []string{"SKU-001"})
	require.NoError(t, err)

	done, err := env.uc.FinalizeBatch(ctx, batch.ID, []cyclic.CountResult{
		{SKU: "SKU-001", CountedQty: 50},
	}, "Paula")
	require.NoError(t, err)

	assert.InDelta(t, 100.0, *done.AccuracyRate, 0.001)
	assert.Equal(t, 0, done.DivergentItems)
	assert.Empty(t, env.movements.created)
}

// Un lote ya concluido no puede finalizarse de nuevo.
func TestFinalizeBatch_LoteCerrado(t *testing.T) {
	env := newTestEnv(t, newFakeItemRepo(&entity.Item{SKU: "SKU-001", Quantity: 50}))
	ctx := context.Background()
	batch, err := env.uc.CreateBatch(ctx, []string{"SKU-001"})
	require.NoError(t, err)

	results := []cyclic.CountResult{{SKU: "SKU-001", CountedQty: 50}}
	_, err = env.uc.FinalizeBatch(ctx, batch.ID, results, "Paula")
	require.NoError(t, err)

	_, err = env.uc.FinalizeBatch(ctx, batch.ID, results, "Paula")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestFinalizeBatch_SinResultados(t *testing.T) {
	env := newTestEnv(t, newFakeItemRepo(&entity.Item{SKU: "SKU-001", Quantity: 50}))
	ctx := context.Background()
	batch, err := env.uc.CreateBatch(ctx, []string{"SKU-001"})
	require.NoError(t, err)

	_, err = env.uc.FinalizeBatch(ctx, batch.ID, nil, "Paula")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.BatchStatusAberto, env.counts.batches[batch.ID].Status)
}

// Conteo para un SKU fuera del lote: se ignora con aviso y no entra en la
// acuracidad como divergencia.
func TestFinalizeBatch_ConteoFueraDelLote(t *testing.T) {
	env := newTestEnv(t, newFakeItemRepo(
		&entity.Item{SKU: "SKU-001", Quantity: 50},
		&entity.Item{SKU: "SKU-999", Quantity: 7},
	))
	ctx := context.Background()
	batch, err := env.uc.CreateBatch(ctx, []string{"SKU-001"})
	require.NoError(t, err)

	done, err := env.uc.FinalizeBatch(ctx, batch.ID, []cyclic.CountResult{
		{SKU: "SKU-001", CountedQty: 50},
		{SKU: "SKU-999", CountedQty: 1},
	}, "Paula")
	require.NoError(t, err)

	assert.Equal(t, 0, done.DivergentItems)
	assert.Equal(t, 7, env.items.items["SKU-999"].Quantity, "el intruso no se toca")
}

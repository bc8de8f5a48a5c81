package purchasing_test

import (
	"context"
	"time"

	"github.com/nortetech/wms-api/internal/domain"
	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/internal/domain/repository"
)

// Fakes en memoria para los casos de uso de compras. Implementan los puertos
// del dominio sin transacciones reales: el TxRunner falso entrega los mismos
// repositorios en memoria a la función.

type fakePORepo struct {
	orders    map[string]*entity.PurchaseOrder
	updateErr map[string]error // fuerza fallos de Update por ID
}

func newFakePORepo(orders ...*entity.PurchaseOrder) *fakePORepo {
	r := &fakePORepo{orders: map[string]*entity.PurchaseOrder{}, updateErr: map[string]error{}}
	for _, po := range orders {
		r.orders[po.ID] = po
	}
	return r
}

func (r *fakePORepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	if _, ok := r.orders[po.ID]; ok {
		return domain.ErrDuplicate
	}
	r.orders[po.ID] = po
	return nil
}

func (r *fakePORepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	po, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return po, nil
}

func (r *fakePORepo) List(_ context.Context, _, _ int) ([]*entity.PurchaseOrder, error) {
	out := make([]*entity.PurchaseOrder, 0, len(r.orders))
	for _, po := range r.orders {
		out = append(out, po)
	}
	return out, nil
}

func (r *fakePORepo) ListByStatus(_ context.Context, statuses ...entity.POStatus) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, po := range r.orders {
		for _, s := range statuses {
			if po.Status == s {
				out = append(out, po)
				break
			}
		}
	}
	return out, nil
}

func (r *fakePORepo) ExistsForSKU(_ context.Context, sku string, statuses ...entity.POStatus) (bool, error) {
	for _, po := range r.orders {
		for _, s := range statuses {
			if po.Status == s && po.HasSKU(sku) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakePORepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	if err := r.updateErr[po.ID]; err != nil {
		return err
	}
	if _, ok := r.orders[po.ID]; !ok {
		return domain.ErrNotFound
	}
	r.orders[po.ID] = po
	return nil
}

type fakeMovementRepo struct {
	created []*entity.Movement
}

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.created = append(r.created, m)
	return nil
}

func (r *fakeMovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	for _, m := range r.created {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeMovementRepo) List(_ context.Context, _ repository.MovementFilter) ([]*entity.Movement, error) {
	return r.created, nil
}

func (r *fakeMovementRepo) SumOutboundBySKU(_ context.Context, _ *time.Time) (map[string]int, error) {
	out := map[string]int{}
	for _, m := range r.created {
		if m.Type == entity.MovementSaida {
			out[m.SKU] += m.Quantity
		}
	}
	return out, nil
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

// fakeTxRunner ejecuta la función directamente sobre los repos en memoria.
type fakeTxRunner struct {
	movements *fakeMovementRepo
	items     *fakeItemRepo
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(movements repository.MovementRepository, items repository.ItemRepository) error) error {
	return fn(t.movements, t.items)
}

type fakeNotifier struct {
	titles   []string
	messages []string
	levels   []string
}

func (n *fakeNotifier) Notify(_ context.Context, title, message, level string) {
	n.titles = append(n.titles, title)
	n.messages = append(n.messages, message)
	n.levels = append(n.levels, level)
}

type fakeActivities struct {
	types []string
}

func (a *fakeActivities) Record(_ context.Context, actType, _, _ string) {
	a.types = append(a.types, actType)
}

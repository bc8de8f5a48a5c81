package feed

import (
	"context"
	"sync"

	"github.com/nortetech/wms-api/internal/application/notify"
	"github.com/nortetech/wms-api/internal/domain/entity"
)

var _ notify.FeedSink = (*MemoryFeed)(nil)

// MemoryFeed feed acotado en memoria. Se usa cuando REDIS_ADDR no está
// configurado; la retención no sobrevive reinicios.
type MemoryFeed struct {
	mu   sync.Mutex
	list []entity.Activity
	size int
}

// NewMemoryFeed construye el feed con capacidad para las size entradas más recientes.
func NewMemoryFeed(size int) *MemoryFeed {
	if size <= 0 {
		size = 20
	}
	return &MemoryFeed{size: size}
}

// Push agrega al frente y recorta por capacidad.
func (f *MemoryFeed) Push(_ context.Context, activity entity.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = append([]entity.Activity{activity}, f.list...)
	if len(f.list) > f.size {
		f.list = f.list[:f.size]
	}
	return nil
}

// Recent devuelve una copia del feed, más reciente primero.
func (f *MemoryFeed) Recent(_ context.Context) ([]entity.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Activity, len(f.list))
	copy(out, f.list)
	return out, nil
}

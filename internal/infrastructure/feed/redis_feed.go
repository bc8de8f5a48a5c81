// Package feed implementa el sink del feed de actividad operacional con
// retención acotada: se conservan las N entradas más recientes.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nortetech/wms-api/internal/application/notify"
	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/pkg/config"
)

const feedKey = "wms:activity-feed"

var _ notify.FeedSink = (*RedisFeed)(nil)

// RedisFeed feed acotado sobre una lista Redis (LPUSH + LTRIM).
type RedisFeed struct {
	client *redis.Client
	size   int64
}

// NewRedisFeed conecta a Redis y valida con un ping.
func NewRedisFeed(cfg config.RedisConfig) (*RedisFeed, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	size := int64(cfg.FeedSize)
	if size <= 0 {
		size = 20
	}
	return &RedisFeed{client: client, size: size}, nil
}

// Push agrega la actividad al frente del feed y recorta a las N más recientes.
func (f *RedisFeed) Push(ctx context.Context, activity entity.Activity) error {
	payload, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	pipe := f.client.TxPipeline()
	pipe.LPush(ctx, feedKey, payload)
	pipe.LTrim(ctx, feedKey, 0, f.size-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push activity: %w", err)
	}
	return nil
}

// Recent devuelve el feed completo, más reciente primero.
func (f *RedisFeed) Recent(ctx context.Context) ([]entity.Activity, error) {
	raw, err := f.client.LRange(ctx, feedKey, 0, f.size-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read activity feed: %w", err)
	}
	list := make([]entity.Activity, 0, len(raw))
	for _, item := range raw {
		var a entity.Activity
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			continue // entrada corrupta, se omite
		}
		list = append(list, a)
	}
	return list, nil
}

// Close libera la conexión.
func (f *RedisFeed) Close() error {
	return f.client.Close()
}

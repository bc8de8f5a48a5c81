// Package notify entrega avisos y actividad operacional en modo
// fire-and-forget: un fallo al notificar se loguea y nunca se propaga a la
// mutación de negocio que lo originó.
package notify

import (
	"context"
	"time"

	"github.com/nortetech/wms-api/internal/domain/entity"
	"github.com/nortetech/wms-api/internal/domain/repository"
	"github.com/nortetech/wms-api/pkg/ids"
	"github.com/nortetech/wms-api/pkg/logger"
)

// Notifier puerto de notificaciones para los casos de uso.
type Notifier interface {
	Notify(ctx context.Context, title, message, level string)
}

// Activities puerto del feed de actividad para los casos de uso.
type Activities interface {
	Record(ctx context.Context, actType, title, subtitle string)
}

// FeedSink almacenamiento acotado del feed (Redis o memoria).
type FeedSink interface {
	Push(ctx context.Context, activity entity.Activity) error
	Recent(ctx context.Context) ([]entity.Activity, error)
}

// RepoNotifier persiste notificaciones en el repositorio.
type RepoNotifier struct {
	repo repository.NotificationRepository
	ids  ids.Generator
	log  *logger.Logger
	now  func() time.Time
}

// NewRepoNotifier construye el notificador persistente. now nil usa time.Now.
func NewRepoNotifier(repo repository.NotificationRepository, gen ids.Generator, log *logger.Logger, now func() time.Time) *RepoNotifier {
	if now == nil {
		now = time.Now
	}
	return &RepoNotifier{repo: repo, ids: gen, log: log, now: now}
}

func (n *RepoNotifier) Notify(ctx context.Context, title, message, level string) {
	err := n.repo.Create(ctx, &entity.Notification{
		ID:        n.ids.NotificationID(),
		Title:     title,
		Message:   message,
		Type:      level,
		Read:      false,
		CreatedAt: n.now(),
	})
	if err != nil {
		n.log.Error().Err(err).Str("title", title).Msg("no se pudo persistir la notificación")
	}
}

// FeedRecorder publica actividades en el sink acotado.
type FeedRecorder struct {
	sink FeedSink
	ids  ids.Generator
	log  *logger.Logger
	now  func() time.Time
}

// NewFeedRecorder construye el grabador de actividad. now nil usa time.Now.
func NewFeedRecorder(sink FeedSink, gen ids.Generator, log *logger.Logger, now func() time.Time) *FeedRecorder {
	if now == nil {
		now = time.Now
	}
	return &FeedRecorder{sink: sink, ids: gen, log: log, now: now}
}

func (r *FeedRecorder) Record(ctx context.Context, actType, title, subtitle string) {
	err := r.sink.Push(ctx, entity.Activity{
		ID:       r.ids.NotificationID(),
		Type:     actType,
		Title:    title,
		Subtitle: subtitle,
		Time:     r.now(),
	})
	if err != nil {
		r.log.Error().Err(err).Str("type", actType).Msg("no se pudo registrar la actividad")
	}
}

// Recent expone el feed para la capa HTTP.
func (r *FeedRecorder) Recent(ctx context.Context) ([]entity.Activity, error) {
	return r.sink.Recent(ctx)
}

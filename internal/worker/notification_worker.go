// Package worker runs background consumers for domain events.
package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/events"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/service"
)

const notificationQueueSize = 64

// NotificationWorker drains domain events onto a background goroutine so
// notification fan-out never blocks the publishing request. The queue is
// bounded; when it is full the event is dropped and logged, since
// notifications are best-effort.
type NotificationWorker struct {
	notifications *service.NotificationService
	logger        *zap.Logger
	queue         chan events.Event
}

// StartNotificationWorker subscribes the worker to all ticket events and
// starts the consumer goroutine. The goroutine exits when ctx is done.
func StartNotificationWorker(ctx context.Context, dispatcher events.Dispatcher, notifications *service.NotificationService, logger *zap.Logger) *NotificationWorker {
	w := &NotificationWorker{
		notifications: notifications,
		logger:        logger,
		queue:         make(chan events.Event, notificationQueueSize),
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTransitionApplied,
		events.EventCommentAdded,
	} {
		dispatcher.Subscribe(eventType, w.enqueue)
	}
	go w.run(ctx)
	return w
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID))
	}
	return nil
}

func (w *NotificationWorker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.queue:
			if err := w.notifications.Handle(ctx, event); err != nil {
				w.logger.Warn("notification handling failed",
					zap.String("event_type", string(event.Type)),
					zap.Error(err))
			}
		}
	}
}

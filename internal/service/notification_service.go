package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/config"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/events"
)

// NotificationService turns domain events into outbound notifications.
// Delivery targets are stubs: events are logged, and email/webhook sends
// fire only when their endpoints are configured.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{logger: logger, cfg: cfg}
}

// Handle routes one event to its notification flow. Called from the
// notification worker goroutine, never inline with request handling.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventTicketCreated:
		n.logger.Info("notify: ticket created",
			zap.Int64("ticket_id", event.TicketID),
			zap.String("actor", event.Actor.Username))
		n.sendEmailStub(ctx, event)
		n.sendWebhookStub(ctx, event)
	case events.EventTransitionApplied:
		n.logger.Info("notify: transition applied",
			zap.Int64("ticket_id", event.TicketID),
			zap.String("actor", event.Actor.Username),
			zap.Any("payload", event.Payload))
		n.sendWebhookStub(ctx, event)
	case events.EventCommentAdded:
		n.logger.Info("notify: comment added",
			zap.Int64("ticket_id", event.TicketID),
			zap.String("actor", event.Actor.Username))
		n.sendEmailStub(ctx, event)
	default:
		n.logger.Debug("no notification flow for event",
			zap.String("event_type", string(event.Type)))
	}
	return nil
}

func (n *NotificationService) sendEmailStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("email notification",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("webhook notification",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

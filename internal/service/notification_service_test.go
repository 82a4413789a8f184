package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/config"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/events"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/service"
)

func TestNotificationHandleRoutesByType(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := service.NewNotificationService(zap.New(core), config.NotificationConfig{})
	ctx := context.Background()

	for eventType, message := range map[events.EventType]string{
		events.EventTicketCreated:     "notify: ticket created",
		events.EventTransitionApplied: "notify: transition applied",
		events.EventCommentAdded:      "notify: comment added",
	} {
		err := svc.Handle(ctx, events.Event{
			Type:     eventType,
			TicketID: 3,
			Actor:    events.Actor{Username: "jsmith"},
		})
		require.NoError(t, err)

		entries := logs.FilterMessage(message).All()
		require.Len(t, entries, 1, "event type %q", eventType)
		assert.Equal(t, int64(3), entries[0].ContextMap()["ticket_id"])
	}
}

func TestNotificationHandleUnknownType(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := service.NewNotificationService(zap.New(core), config.NotificationConfig{})

	err := svc.Handle(context.Background(), events.Event{Type: events.EventType("mystery")})
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}

func TestNotificationStubsGatedOnConfig(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	svc := service.NewNotificationService(zap.New(core), config.NotificationConfig{
		EmailFrom: "tickets@example.com",
	})

	err := svc.Handle(context.Background(), events.Event{Type: events.EventTicketCreated})
	require.NoError(t, err)

	// email endpoint configured, webhook not
	assert.Equal(t, 1, len(logs.FilterMessage("email notification").All()))
	assert.Zero(t, len(logs.FilterMessage("webhook notification").All()))
}

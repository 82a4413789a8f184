package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/config"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/events"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/service"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/worker"
)

func TestWorkerProcessesPublishedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	notifications := service.NewNotificationService(zap.New(core), config.NotificationConfig{})
	worker.StartNotificationWorker(ctx, dispatcher, notifications, zap.NewNop())

	err := dispatcher.Publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: 11,
	})
	require.NoError(t, err)

	// the publish returns before the background goroutine handles the event
	require.Eventually(t, func() bool {
		return len(logs.FilterMessage("notify: ticket created").All()) == 1
	}, time.Second, 5*time.Millisecond)
}

package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/events"
)

func TestPublishContinuesPastFailingHandler(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dispatcher := events.NewInMemoryDispatcher(zap.New(core))

	var secondCalled bool
	dispatcher.Subscribe(events.EventTicketCreated, func(context.Context, events.Event) error {
		return errors.New("smtp unreachable")
	})
	dispatcher.Subscribe(events.EventTicketCreated, func(context.Context, events.Event) error {
		secondCalled = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCreated,
		TicketID: 7,
	})
	require.NoError(t, err)
	assert.True(t, secondCalled)

	entries := logs.FilterMessage("event handler failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, string(events.EventTicketCreated), entries[0].ContextMap()["event_type"])
	assert.Equal(t, int64(7), entries[0].ContextMap()["ticket_id"])
}

func TestPublishWithoutSubscribers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventCommentAdded})
	assert.NoError(t, err)
}

func TestSubscribeIsTypeScoped(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())

	var calls int
	dispatcher.Subscribe(events.EventTransitionApplied, func(context.Context, events.Event) error {
		calls++
		return nil
	})

	_ = dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketCreated})
	assert.Zero(t, calls)
	_ = dispatcher.Publish(context.Background(), events.Event{Type: events.EventTransitionApplied})
	assert.Equal(t, 1, calls)
}

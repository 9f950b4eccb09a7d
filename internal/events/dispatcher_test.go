package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var seen []string
	dispatcher.Subscribe(EventDemandClaimed, func(ctx context.Context, event Event) error {
		seen = append(seen, event.DemandID)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventDemandClaimed, DemandID: "d1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, seen)

	// unrelated event types are not delivered
	err = dispatcher.Publish(context.Background(), Event{Type: EventDemandCreated, DemandID: "d2"})
	require.NoError(t, err)
	assert.Len(t, seen, 1)
}

func TestPublishRunsAllHandlersDespiteErrors(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	calls := 0
	dispatcher.Subscribe(EventDemandCompleted, func(ctx context.Context, event Event) error {
		calls++
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventDemandCompleted, func(ctx context.Context, event Event) error {
		calls++
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventDemandCompleted, DemandID: "d1"})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

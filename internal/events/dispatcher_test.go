package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(nil)

	var got []string
	dispatcher.Subscribe(EventJobLiked, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.ID)
		return nil
	})
	dispatcher.Subscribe(EventJobLiked, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.ID)
		return nil
	})
	dispatcher.Subscribe(EventJobUnliked, func(context.Context, Event) error {
		t.Fatal("handler for another event type must not fire")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{ID: "e-1", Type: EventJobLiked})
	require.NoError(t, err)
	require.Equal(t, []string{"first:e-1", "second:e-1"}, got)
}

func TestDispatcherHandlerErrorDoesNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(nil)

	var reached bool
	dispatcher.Subscribe(EventApplicationSubmitted, func(context.Context, Event) error {
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventApplicationSubmitted, func(context.Context, Event) error {
		reached = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventApplicationSubmitted})
	require.NoError(t, err)
	require.True(t, reached)
}

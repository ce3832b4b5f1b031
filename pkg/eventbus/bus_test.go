package eventbus_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbuilder/pkg/eventbus"
)

type recorder struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (r *recorder) HandleEvent(_ context.Context, evt eventbus.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recorder) kinds() []eventbus.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]eventbus.Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func TestBusDeliversInOrder(t *testing.T) {
	bus := eventbus.New(8)
	rec := &recorder{}
	bus.Subscribe("recorder", rec)
	bus.Start(context.Background())

	bus.Publish(context.Background(), eventbus.Event{Kind: eventbus.KindComponentInserted})
	bus.Publish(context.Background(), eventbus.Event{Kind: eventbus.KindComponentRemoved})
	bus.Stop()

	assert.Equal(t, []eventbus.Kind{eventbus.KindComponentInserted, eventbus.KindComponentRemoved}, rec.kinds())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := eventbus.New(8)
	rec := &recorder{}
	unsubscribe := bus.Subscribe("recorder", rec)
	unsubscribe()
	bus.Start(context.Background())

	bus.Publish(context.Background(), eventbus.Event{Kind: eventbus.KindFormGenerated})
	bus.Stop()

	assert.Empty(t, rec.kinds())
}

func TestPublishDropsWhenFull(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	bus := eventbus.New(1, eventbus.WithLogger(logger))

	bus.Publish(context.Background(), eventbus.Event{Kind: eventbus.KindComponentMoved})
	bus.Publish(context.Background(), eventbus.Event{Kind: eventbus.KindComponentMoved})

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	bus.Start(context.Background())
	bus.Stop()
}

func TestHandlerErrorsAreLogged(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	bus := eventbus.New(4, eventbus.WithLogger(logger))
	bus.Subscribe("failing", eventbus.HandlerFunc(func(context.Context, eventbus.Event) error {
		return errors.New("boom")
	}))
	bus.Start(context.Background())
	bus.Publish(context.Background(), eventbus.Event{Kind: eventbus.KindOperationFailed})
	bus.Stop()

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "failing", hook.LastEntry().Data["handler"])
}

func TestStartDrainsOnCancel(t *testing.T) {
	bus := eventbus.New(8)
	rec := &recorder{}
	bus.Subscribe("recorder", rec)
	bus.Publish(context.Background(), eventbus.Event{Kind: eventbus.KindFormEditing})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Start(ctx)
	bus.Stop()

	assert.Equal(t, []eventbus.Kind{eventbus.KindFormEditing}, rec.kinds())
}

func TestLogConsumerLevels(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	consumer := eventbus.NewLogConsumer(logger)

	require.NoError(t, consumer.HandleEvent(context.Background(), eventbus.Event{Level: eventbus.LevelError, Message: "nope"}))
	require.NoError(t, consumer.HandleEvent(context.Background(), eventbus.Event{Level: eventbus.LevelSuccess, Message: "ok"}))
	require.NoError(t, consumer.HandleEvent(context.Background(), eventbus.Event{Level: eventbus.LevelInfo, Message: "fyi"}))

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, logrus.WarnLevel, entries[0].Level)
	assert.Equal(t, logrus.InfoLevel, entries[1].Level)
	assert.Equal(t, logrus.DebugLevel, entries[2].Level)
}

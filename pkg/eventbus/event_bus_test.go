package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/relayhq/relay-server/pkg/eventbus"
)

type createdEvent struct {
	ID uint
}

type deletedEvent struct {
	ID uint
}

func TestPublishDeliversToMatchingSubscribers(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewEventPublisher(logrus.New())

	var created []uint
	var deleted []uint
	bus.Subscribe(func(e createdEvent) { created = append(created, e.ID) })
	bus.Subscribe(func(e deletedEvent) { deleted = append(deleted, e.ID) })

	bus.Publish(createdEvent{ID: 1})
	bus.Publish(createdEvent{ID: 2})
	bus.Publish(deletedEvent{ID: 9})

	assert.Equal(t, []uint{1, 2}, created)
	assert.Equal(t, []uint{9}, deleted)
}

func TestUnsubscribeAndClear(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewEventPublisher(logrus.New())

	calls := 0
	handler := func(e createdEvent) { calls++ }
	bus.Subscribe(handler)
	assert.Equal(t, 1, bus.SubscribersCount())

	bus.Publish(createdEvent{ID: 1})
	bus.Unsubscribe(handler)
	bus.Publish(createdEvent{ID: 2})
	assert.Equal(t, 1, calls)

	bus.Subscribe(handler)
	bus.Clear()
	assert.Equal(t, 0, bus.SubscribersCount())
}

func TestPanickingHandlerDoesNotStopDelivery(t *testing.T) {
	t.Parallel()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	bus := eventbus.NewEventPublisher(logger)

	delivered := false
	bus.Subscribe(func(e createdEvent) { panic("boom") })
	bus.Subscribe(func(e createdEvent) { delivered = true })

	bus.Publish(createdEvent{ID: 1})
	assert.True(t, delivered)
}

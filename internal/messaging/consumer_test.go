package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-services/internal/logger"
	"hotel-services/internal/models"
)

type fakeAcknowledger struct {
	mu      sync.Mutex
	acks    []uint64
	nacks   []uint64
	requeue []bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acks = append(f.acks, tag)
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nacks = append(f.nacks, tag)
	f.requeue = append(f.requeue, requeue)
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func delivery(t *testing.T, ack amqp091.Acknowledger, tag uint64, event *models.Event) amqp091.Delivery {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return amqp091.Delivery{Acknowledger: ack, DeliveryTag: tag, RoutingKey: event.Type, Body: body}
}

func testEvent(t *testing.T, eventType string) *models.Event {
	t.Helper()
	ev, err := models.NewEvent("e1", eventType, "test", map[string]string{"order_id": "o1"}, time.Now())
	require.NoError(t, err)
	return ev
}

func newTestConsumer() *Consumer {
	return NewConsumer(nil, logger.Discard(), QueueNotifications, "test")
}

func TestProcessMessageAcksOnSuccess(t *testing.T) {
	ack := &fakeAcknowledger{}
	c := newTestConsumer()

	var got *models.Event
	c.processMessage(context.Background(), delivery(t, ack, 7, testEvent(t, models.EventOrderCreated)), func(_ context.Context, ev *models.Event) error {
		got = ev
		return nil
	})

	require.NotNil(t, got)
	assert.Equal(t, models.EventOrderCreated, got.Type)
	assert.JSONEq(t, `{"order_id":"o1"}`, string(got.Data))
	assert.Equal(t, []uint64{7}, ack.acks)
	assert.Empty(t, ack.nacks)
}

func TestProcessMessageRequeuesOnHandlerError(t *testing.T) {
	ack := &fakeAcknowledger{}
	c := newTestConsumer()

	c.processMessage(context.Background(), delivery(t, ack, 3, testEvent(t, models.EventOrderUpdated)), func(context.Context, *models.Event) error {
		return errors.New("downstream unavailable")
	})

	assert.Empty(t, ack.acks)
	assert.Equal(t, []uint64{3}, ack.nacks)
	assert.Equal(t, []bool{true}, ack.requeue)
}

func TestProcessMessageRecoversPanic(t *testing.T) {
	ack := &fakeAcknowledger{}
	c := newTestConsumer()

	assert.NotPanics(t, func() {
		c.processMessage(context.Background(), delivery(t, ack, 4, testEvent(t, models.EventTableReserved)), func(context.Context, *models.Event) error {
			panic("boom")
		})
	})

	assert.Equal(t, []uint64{4}, ack.nacks)
	assert.Equal(t, []bool{true}, ack.requeue)
}

func TestProcessMessageDropsUndecodable(t *testing.T) {
	ack := &fakeAcknowledger{}
	c := newTestConsumer()
	called := false

	c.processMessage(context.Background(), amqp091.Delivery{Acknowledger: ack, DeliveryTag: 9, Body: []byte("not json")}, func(context.Context, *models.Event) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.Equal(t, []uint64{9}, ack.nacks)
	assert.Equal(t, []bool{false}, ack.requeue)
}

func TestDrainContinuesAfterFailures(t *testing.T) {
	ack := &fakeAcknowledger{}
	c := newTestConsumer()

	msgs := make(chan amqp091.Delivery, 3)
	msgs <- delivery(t, ack, 1, testEvent(t, models.EventAmenityRequested))
	msgs <- delivery(t, ack, 2, testEvent(t, models.EventAmenityRequested))
	msgs <- delivery(t, ack, 3, testEvent(t, models.EventAmenityCompleted))
	close(msgs)

	calls := 0
	err := c.drain(context.Background(), msgs, func(context.Context, *models.Event) error {
		calls++
		if calls == 2 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []uint64{1, 3}, ack.acks)
	assert.Equal(t, []uint64{2}, ack.nacks)
}

func TestDrainStopsOnContextCancel(t *testing.T) {
	c := newTestConsumer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.drain(ctx, make(chan amqp091.Delivery), func(context.Context, *models.Event) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

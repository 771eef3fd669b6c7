package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-services/internal/logger"
	"hotel-services/internal/models"
)

type recordingPublisher struct {
	keys     []string
	messages []interface{}
	err      error
}

func (r *recordingPublisher) Publish(_ context.Context, routingKey string, message interface{}) error {
	r.keys = append(r.keys, routingKey)
	r.messages = append(r.messages, message)
	return r.err
}

func TestEventBusWrapsPayload(t *testing.T) {
	pub := &recordingPublisher{}
	bus := NewEventBus(pub, "restaurant-service", logger.Discard())

	bus.Publish(context.Background(), models.EventTableReserved, &models.ReservationEvent{ReservationID: "r1", TableNumber: 4})

	require.Len(t, pub.messages, 1)
	assert.Equal(t, []string{models.EventTableReserved}, pub.keys)

	ev, ok := pub.messages[0].(*models.Event)
	require.True(t, ok)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, models.EventTableReserved, ev.Type)
	assert.Equal(t, "restaurant-service", ev.Source)

	var data models.ReservationEvent
	require.NoError(t, json.Unmarshal(ev.Data, &data))
	assert.Equal(t, "r1", data.ReservationID)
	assert.Equal(t, 4, data.TableNumber)
}

func TestEventBusSwallowsErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	bus := NewEventBus(pub, "amenity-service", logger.Discard())

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), models.EventAmenityRequested, map[string]string{"order_id": "o1"})
	})
	assert.Len(t, pub.messages, 1)
}

func TestEventBusNilSafe(t *testing.T) {
	var bus *EventBus
	assert.NotPanics(t, func() { bus.Publish(context.Background(), models.EventOrderCreated, nil) })

	noop := NewEventBus(nil, "svc", logger.Discard())
	assert.NotPanics(t, func() { noop.Publish(context.Background(), models.EventOrderCreated, nil) })
}

func TestEventBusUnencodablePayload(t *testing.T) {
	pub := &recordingPublisher{}
	bus := NewEventBus(pub, "svc", logger.Discard())

	bus.Publish(context.Background(), models.EventOrderCreated, map[string]interface{}{"bad": make(chan int)})
	assert.Empty(t, pub.messages)
}

func TestEventBusLogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	pub := &recordingPublisher{}
	bus := NewEventBus(pub, "restaurant-service", logger.NewWithWriter("restaurant-service", &buf))

	bus.Publish(logger.WithRequestID(context.Background(), "req-7"), models.EventOrderCreated, map[string]string{"order_id": "o1"})

	require.Len(t, pub.messages, 1)
	assert.Contains(t, buf.String(), `"action":"event_published"`)
	assert.Contains(t, buf.String(), `"request_id":"req-7"`)
}

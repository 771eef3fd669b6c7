package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hotel-services/internal/logger"
	"hotel-services/internal/models"
)

// EventPublisher sends one message under a routing key
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// EventBus is the best-effort notification boundary the services call. It
// wraps payloads in an event envelope and never returns publish failures;
// they are logged instead.
type EventBus struct {
	publisher EventPublisher
	source    string
	logger    *logger.Logger
	now       func() time.Time
}

// NewEventBus creates a bus publishing events on behalf of source. A nil
// publisher turns the bus into a no-op.
func NewEventBus(publisher EventPublisher, source string, log *logger.Logger) *EventBus {
	return &EventBus{
		publisher: publisher,
		source:    source,
		logger:    log,
		now:       time.Now,
	}
}

// Publish emits eventType with payload. The routing key equals the event type.
func (b *EventBus) Publish(ctx context.Context, eventType string, payload interface{}) {
	if b == nil || b.publisher == nil {
		return
	}

	requestID := logger.RequestIDFrom(ctx)

	event, err := models.NewEvent(uuid.NewString(), eventType, b.source, payload, b.now())
	if err != nil {
		b.logger.Error("event_encode_failed", "Failed to encode event", requestID, err, map[string]interface{}{
			"event_type": eventType,
		})
		return
	}

	if err := b.publisher.Publish(ctx, eventType, event); err != nil {
		b.logger.Error("event_publish_failed", "Failed to publish event", requestID, err, map[string]interface{}{
			"event_type": eventType,
			"event_id":   event.ID,
		})
		return
	}

	b.logger.Info("event_published", "Event published", requestID, map[string]interface{}{
		"event_type": eventType,
		"event_id":   event.ID,
	})
}

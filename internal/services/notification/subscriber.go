package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"hotel-services/internal/logger"
	"hotel-services/internal/messaging"
	"hotel-services/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// EventSource delivers events from a queue until ctx is cancelled
type EventSource interface {
	Subscribe(ctx context.Context, handler messaging.EventHandler) error
}

// Subscriber prints a human-readable line for every event it receives
type Subscriber struct {
	source EventSource
	out    io.Writer
	logger *logger.Logger
}

// NewSubscriber creates a new notification subscriber writing to out
func NewSubscriber(source EventSource, out io.Writer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		source: source,
		out:    out,
		logger: log,
	}
}

// Run consumes events until ctx is cancelled
func (s *Subscriber) Run(ctx context.Context) error {
	s.logger.Info("service_started", "Event subscriber started", "", nil)
	err := s.source.Subscribe(ctx, s.handleEvent)
	if ctx.Err() != nil {
		s.logger.Info("graceful_shutdown", "Event subscriber stopped", "", nil)
		return nil
	}
	return err
}

func (s *Subscriber) handleEvent(_ context.Context, event *models.Event) error {
	line, err := Format(event)
	if err != nil {
		// redelivery cannot fix a malformed payload
		s.logger.Error("message_parsing_failed", "Failed to parse event payload", "", err, map[string]interface{}{
			"event_id":   event.ID,
			"event_type": event.Type,
		})
		return nil
	}
	if _, err := fmt.Fprintln(s.out, line); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}

	s.logger.Debug("notification_displayed", "Notification displayed", "", map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
		"source":     event.Source,
	})
	return nil
}

// Format renders an event as one console line. Unknown event types are
// rendered generically.
func Format(event *models.Event) (string, error) {
	prefix := fmt.Sprintf("[%s]", event.OccurredAt.Format(timeLayout))

	switch event.Type {
	case models.EventAmenityRequested, models.EventAmenityCompleted:
		var p models.AmenityEvent
		if err := json.Unmarshal(event.Data, &p); err != nil {
			return "", err
		}
		if event.Type == models.EventAmenityRequested {
			return fmt.Sprintf("🛎  %s Guest %s requested %s (%.2f). Order %s",
				prefix, p.GuestID, p.AmenityName, p.TotalAmount, p.OrderID), nil
		}
		msg := fmt.Sprintf("✅ %s %s for guest %s is completed. Order %s", prefix, p.AmenityName, p.GuestID, p.OrderID)
		if p.StaffNotes != "" {
			msg += fmt.Sprintf(" (%s)", p.StaffNotes)
		}
		return msg, nil

	case models.EventOrderCreated:
		var p models.OrderEvent
		if err := json.Unmarshal(event.Data, &p); err != nil {
			return "", err
		}
		where := "in the restaurant"
		if p.OrderType == models.RoomService {
			where = "to room " + p.RoomNumber
		}
		return fmt.Sprintf("🍽  %s New order %s from guest %s, %d item(s) %s, total %.2f",
			prefix, p.OrderID, p.GuestID, len(p.Items), where, p.TotalAmount), nil

	case models.EventOrderUpdated:
		var p models.OrderEvent
		if err := json.Unmarshal(event.Data, &p); err != nil {
			return "", err
		}
		switch p.Status {
		case models.OrderReady:
			return fmt.Sprintf("✅ %s Order %s is ready", prefix, p.OrderID), nil
		case models.OrderDelivered:
			return fmt.Sprintf("🎉 %s Order %s has been delivered", prefix, p.OrderID), nil
		case models.OrderCancelled:
			return fmt.Sprintf("❌ %s Order %s has been cancelled", prefix, p.OrderID), nil
		default:
			return fmt.Sprintf("📋 %s Order %s status changed from '%s' to '%s'",
				prefix, p.OrderID, p.OldStatus, p.Status), nil
		}

	case models.EventTableReserved:
		var p models.ReservationEvent
		if err := json.Unmarshal(event.Data, &p); err != nil {
			return "", err
		}
		return fmt.Sprintf("🪑 %s Table %d reserved for %s (%d persons) on %s at %s",
			prefix, p.TableNumber, p.GuestName, p.PersonsCount, p.Date, p.Time), nil

	default:
		return fmt.Sprintf("📨 %s %s from %s: %s", prefix, event.Type, event.Source, string(event.Data)), nil
	}
}

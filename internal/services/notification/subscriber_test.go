package notification

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-services/internal/logger"
	"hotel-services/internal/messaging"
	"hotel-services/internal/models"
)

var at = time.Date(2025, 3, 8, 19, 30, 0, 0, time.UTC)

func event(t *testing.T, eventType string, payload interface{}) *models.Event {
	t.Helper()
	e, err := models.NewEvent("ev-1", eventType, "test", payload, at)
	require.NoError(t, err)
	return e
}

func TestFormat(t *testing.T) {
	amenity := &models.AmenityOrder{ID: "o1", GuestID: "g1", AmenityName: "Spa", TotalAmount: 1500, StaffNotes: "towels left"}
	order := &models.RestaurantOrder{
		ID:          "o2",
		GuestID:     "g2",
		RoomNumber:  "204",
		OrderType:   models.RoomService,
		Items:       []models.LineItem{{MenuItemID: "m1", Quantity: 1}},
		Status:      models.OrderReady,
		TotalAmount: 400,
	}
	reservation := &models.Reservation{ID: "r1", GuestName: "Anna", PersonsCount: 2, Date: "2025-03-08", Time: "19:30", TableNumber: 7}

	tests := []struct {
		name  string
		event *models.Event
		want  string
	}{
		{
			name:  "amenity requested",
			event: event(t, models.EventAmenityRequested, models.NewAmenityEvent(amenity)),
			want:  "🛎  [2025-03-08 19:30:00] Guest g1 requested Spa (1500.00). Order o1",
		},
		{
			name:  "amenity completed",
			event: event(t, models.EventAmenityCompleted, models.NewAmenityEvent(amenity)),
			want:  "✅ [2025-03-08 19:30:00] Spa for guest g1 is completed. Order o1 (towels left)",
		},
		{
			name:  "order created",
			event: event(t, models.EventOrderCreated, models.NewOrderEvent(order, "")),
			want:  "🍽  [2025-03-08 19:30:00] New order o2 from guest g2, 1 item(s) to room 204, total 400.00",
		},
		{
			name:  "order ready",
			event: event(t, models.EventOrderUpdated, models.NewOrderEvent(order, models.OrderInProgress)),
			want:  "✅ [2025-03-08 19:30:00] Order o2 is ready",
		},
		{
			name:  "table reserved",
			event: event(t, models.EventTableReserved, models.NewReservationEvent(reservation)),
			want:  "🪑 [2025-03-08 19:30:00] Table 7 reserved for Anna (2 persons) on 2025-03-08 at 19:30",
		},
		{
			name:  "unknown type",
			event: event(t, models.EventGuestCheckedIn, map[string]string{"guest_id": "g9"}),
			want:  `📨 [2025-03-08 19:30:00] guest.checked_in from test: {"guest_id":"g9"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatStatusChange(t *testing.T) {
	order := &models.RestaurantOrder{ID: "o2", Status: models.OrderInProgress}
	got, err := Format(event(t, models.EventOrderUpdated, models.NewOrderEvent(order, models.OrderReceived)))
	require.NoError(t, err)
	assert.Equal(t, "📋 [2025-03-08 19:30:00] Order o2 status changed from 'received' to 'in_progress'", got)
}

func TestFormatRejectsMalformedPayload(t *testing.T) {
	e := &models.Event{Type: models.EventTableReserved, OccurredAt: at, Data: []byte(`{"table_number":"seven"}`)}
	_, err := Format(e)
	assert.Error(t, err)
}

type fakeSource struct {
	events []*models.Event
	errs   []error
}

func (f *fakeSource) Subscribe(ctx context.Context, handler messaging.EventHandler) error {
	for _, e := range f.events {
		f.errs = append(f.errs, handler(ctx, e))
	}
	return nil
}

func TestRunPrintsEventsAndDropsMalformed(t *testing.T) {
	order := &models.RestaurantOrder{ID: "o2", Status: models.OrderDelivered}
	src := &fakeSource{events: []*models.Event{
		event(t, models.EventOrderUpdated, models.NewOrderEvent(order, models.OrderReady)),
		{Type: models.EventOrderUpdated, OccurredAt: at, Data: []byte(`[]`)},
	}}
	var out bytes.Buffer

	err := NewSubscriber(src, &out, logger.Discard()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "🎉 [2025-03-08 19:30:00] Order o2 has been delivered\n", out.String())
	require.Len(t, src.errs, 2)
	assert.NoError(t, src.errs[0])
	assert.NoError(t, src.errs[1], "malformed payloads are dropped")
}

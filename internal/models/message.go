package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types published on the hotel exchange. The routing key of a message
// equals its event type.
const (
	EventGuestCheckedIn   = "guest.checked_in"
	EventGuestCheckedOut  = "guest.checked_out"
	EventOrderCreated     = "order.created"
	EventOrderUpdated     = "order.updated"
	EventAmenityRequested = "amenity.requested"
	EventAmenityCompleted = "amenity.completed"
	EventTableReserved    = "table.reserved"
	EventPaymentProcessed = "payment.processed"
)

// EventTypes lists every recognized event type.
var EventTypes = []string{
	EventGuestCheckedIn,
	EventGuestCheckedOut,
	EventOrderCreated,
	EventOrderUpdated,
	EventAmenityRequested,
	EventAmenityCompleted,
	EventTableReserved,
	EventPaymentProcessed,
}

// Event is the envelope of every message on the bus
type Event struct {
	ID         string          `json:"event_id"`
	Type       string          `json:"event_type"`
	Source     string          `json:"source"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEvent wraps payload into an envelope.
func NewEvent(id, eventType, source string, payload interface{}, at time.Time) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &Event{
		ID:         id,
		Type:       eventType,
		Source:     source,
		OccurredAt: at.UTC(),
		Data:       data,
	}, nil
}

// AmenityEvent is the payload of amenity.requested and amenity.completed.
type AmenityEvent struct {
	OrderID     string        `json:"order_id"`
	GuestID     string        `json:"guest_id"`
	AmenityID   string        `json:"amenity_id"`
	AmenityName string        `json:"amenity_name"`
	Status      AmenityStatus `json:"status"`
	TotalAmount float64       `json:"total_amount"`
	StaffNotes  string        `json:"staff_notes,omitempty"`
}

// NewAmenityEvent builds the event payload for an amenity order.
func NewAmenityEvent(o *AmenityOrder) *AmenityEvent {
	return &AmenityEvent{
		OrderID:     o.ID,
		GuestID:     o.GuestID,
		AmenityID:   o.AmenityID,
		AmenityName: o.AmenityName,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		StaffNotes:  o.StaffNotes,
	}
}

// OrderEvent is the payload of order.created and order.updated.
type OrderEvent struct {
	OrderID     string      `json:"order_id"`
	GuestID     string      `json:"guest_id"`
	RoomNumber  string      `json:"room_number,omitempty"`
	OrderType   OrderType   `json:"order_type"`
	OldStatus   OrderStatus `json:"old_status,omitempty"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	Items       []LineItem  `json:"items,omitempty"`
}

// NewOrderEvent builds the event payload for a restaurant order.
func NewOrderEvent(o *RestaurantOrder, oldStatus OrderStatus) *OrderEvent {
	return &OrderEvent{
		OrderID:     o.ID,
		GuestID:     o.GuestID,
		RoomNumber:  o.RoomNumber,
		OrderType:   o.OrderType,
		OldStatus:   oldStatus,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		Items:       o.Items,
	}
}

// ReservationEvent is the payload of table.reserved.
type ReservationEvent struct {
	ReservationID string `json:"reservation_id"`
	GuestID       string `json:"guest_id"`
	GuestName     string `json:"guest_name"`
	PersonsCount  int    `json:"persons_count"`
	Date          string `json:"reservation_date"`
	Time          string `json:"reservation_time"`
	TableNumber   int    `json:"table_number"`
}

// NewReservationEvent builds the event payload for a reservation.
func NewReservationEvent(r *Reservation) *ReservationEvent {
	return &ReservationEvent{
		ReservationID: r.ID,
		GuestID:       r.GuestID,
		GuestName:     r.GuestName,
		PersonsCount:  r.PersonsCount,
		Date:          r.Date,
		Time:          r.Time,
		TableNumber:   r.TableNumber,
	}
}

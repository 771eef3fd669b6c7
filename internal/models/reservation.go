package models

import (
	"hash/fnv"
	"time"
)

const (
	ReservationDateLayout = "2006-01-02"
	ReservationTimeLayout = "15:04"

	// TableCount is the number of tables the placeholder allocation spreads
	// reservations over.
	TableCount = 10
)

// ReservationStatus represents the status of a table reservation
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// Reservation is a restaurant table booking.
type Reservation struct {
	ID              string            `json:"id"`
	GuestID         string            `json:"guest_id"`
	GuestName       string            `json:"guest_name"`
	PersonsCount    int               `json:"persons_count"`
	Date            string            `json:"reservation_date"`
	Time            string            `json:"reservation_time"`
	TableNumber     int               `json:"table_number"`
	Status          ReservationStatus `json:"status"`
	SpecialRequests string            `json:"special_requests,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ReservationFilter narrows reservation listings.
type ReservationFilter struct {
	GuestID *string
}

// CreateReservationRequest is the payload of POST /table-reservations.
type CreateReservationRequest struct {
	GuestID         string `json:"guest_id" binding:"required"`
	GuestName       string `json:"guest_name" binding:"required,max=100"`
	PersonsCount    int    `json:"persons_count" binding:"required,gte=1"`
	Date            string `json:"reservation_date" binding:"required"`
	Time            string `json:"reservation_time" binding:"required"`
	SpecialRequests string `json:"special_requests"`
}

// ReservationCreated is returned after a reservation is accepted.
type ReservationCreated struct {
	ReservationID string `json:"reservation_id"`
	TableNumber   int    `json:"table_number"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

// ValidateSlot checks that date is YYYY-MM-DD and clock is HH:MM.
func ValidateSlot(date, clock string) error {
	if _, err := time.Parse(ReservationDateLayout, date); err != nil {
		return InvalidValuef("reservation_date must be YYYY-MM-DD")
	}
	if _, err := time.Parse(ReservationTimeLayout, clock); err != nil {
		return InvalidValuef("reservation_time must be HH:MM")
	}
	return nil
}

// TableNumber maps a reservation slot to a table in 1..TableCount. Equal
// slots always get the same table; conflicts are not checked.
func TableNumber(date, clock string) int {
	h := fnv.New32a()
	h.Write([]byte(date + clock))
	return int(h.Sum32()%TableCount) + 1
}

package models

import (
	"strings"
	"time"
)

// AmenityStatus represents the status of an amenity order
type AmenityStatus string

const (
	AmenityRequested  AmenityStatus = "requested"
	AmenityAssigned   AmenityStatus = "assigned"
	AmenityInProgress AmenityStatus = "in_progress"
	AmenityCompleted  AmenityStatus = "completed"
	AmenityCancelled  AmenityStatus = "cancelled"
)

// AmenityStatuses lists the recognized amenity order statuses in lifecycle order.
var AmenityStatuses = []AmenityStatus{
	AmenityRequested,
	AmenityAssigned,
	AmenityInProgress,
	AmenityCompleted,
	AmenityCancelled,
}

// OrderStatus represents the status of a restaurant order
type OrderStatus string

const (
	OrderReceived   OrderStatus = "received"
	OrderInProgress OrderStatus = "in_progress"
	OrderReady      OrderStatus = "ready"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists the recognized restaurant order statuses in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderReceived,
	OrderInProgress,
	OrderReady,
	OrderDelivered,
	OrderCancelled,
}

// OrderType tells where a restaurant order is served
type OrderType string

const (
	RoomService  OrderType = "room_service"
	InRestaurant OrderType = "in_restaurant"
)

// ParseAmenityStatus validates a raw status value.
func ParseAmenityStatus(s string) (AmenityStatus, error) {
	for _, st := range AmenityStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", invalidStatus(AmenityStatuses)
}

// ParseOrderStatus validates a raw restaurant status value.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", invalidStatus(OrderStatuses)
}

func invalidStatus[T ~string](valid []T) error {
	names := make([]string, len(valid))
	for i, v := range valid {
		names[i] = string(v)
	}
	return InvalidValuef("Invalid status. Must be one of: %s", strings.Join(names, ", "))
}

// AmenityOrder is a guest request for an amenity. Name and price are
// captured from the catalog when the order is created.
type AmenityOrder struct {
	ID             string        `json:"id"`
	GuestID        string        `json:"guest_id"`
	GuestName      string        `json:"guest_name,omitempty"`
	AmenityID      string        `json:"amenity_id"`
	AmenityName    string        `json:"amenity_name"`
	Status         AmenityStatus `json:"status"`
	TotalAmount    float64       `json:"total_amount"`
	ScheduledFor   *time.Time    `json:"scheduled_for,omitempty"`
	AssignedTo     string        `json:"assigned_to,omitempty"`
	AssignedToName string        `json:"assigned_to_name,omitempty"`
	GuestNotes     string        `json:"guest_notes,omitempty"`
	StaffNotes     string        `json:"staff_notes,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	CompletedAt    *time.Time    `json:"completed_at"`
}

// Clone returns a copy that shares no mutable state with o.
func (o *AmenityOrder) Clone() *AmenityOrder {
	c := *o
	c.ScheduledFor = cloneTime(o.ScheduledFor)
	c.CompletedAt = cloneTime(o.CompletedAt)
	return &c
}

// LineItem is one menu item snapshotted into a restaurant order.
type LineItem struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	LineTotal  float64 `json:"item_total"`
}

// NewLineItem captures the menu item's name and price for the given quantity.
func NewLineItem(item *MenuItem, quantity int) (LineItem, error) {
	if item == nil || item.ID == "" {
		return LineItem{}, InvalidValuef("line item requires a menu item")
	}
	if quantity < 1 {
		return LineItem{}, InvalidValuef("quantity for menu item %s must be at least 1", item.ID)
	}
	if item.Price < 0 {
		return LineItem{}, InvalidValuef("menu item %s has a negative price", item.ID)
	}
	return LineItem{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   quantity,
		LineTotal:  Round2(item.Price * float64(quantity)),
	}, nil
}

// SumLineItems returns the order total for the given line items.
func SumLineItems(items []LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.LineTotal
	}
	return Round2(total)
}

// RestaurantOrder is a room service or in-restaurant food order.
type RestaurantOrder struct {
	ID                       string      `json:"id"`
	GuestID                  string      `json:"guest_id"`
	RoomNumber               string      `json:"room_number,omitempty"`
	OrderType                OrderType   `json:"order_type"`
	Items                    []LineItem  `json:"items"`
	Status                   OrderStatus `json:"status"`
	TotalAmount              float64     `json:"total_amount"`
	EstimatedPreparationTime int         `json:"estimated_preparation_time"`
	SpecialRequests          string      `json:"special_requests,omitempty"`
	CreatedAt                time.Time   `json:"created_at"`
	UpdatedAt                time.Time   `json:"updated_at"`
	CompletedAt              *time.Time  `json:"completed_at"`
}

// Clone returns a copy that shares no mutable state with o.
func (o *RestaurantOrder) Clone() *RestaurantOrder {
	c := *o
	c.Items = make([]LineItem, len(o.Items))
	copy(c.Items, o.Items)
	c.CompletedAt = cloneTime(o.CompletedAt)
	return &c
}

// StatusChange is one entry of an order's status log
type StatusChange struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

// OrderFilter narrows order listings. Nil fields are not applied.
type OrderFilter struct {
	GuestID *string
	Status  *string
}

// Matches reports whether an order with the given guest and status passes
// the filter.
func (f OrderFilter) Matches(guestID, status string) bool {
	if f.GuestID != nil && *f.GuestID != guestID {
		return false
	}
	if f.Status != nil && *f.Status != status {
		return false
	}
	return true
}

// CreateAmenityOrderRequest is the payload of POST /amenity-orders.
type CreateAmenityOrderRequest struct {
	GuestID      string     `json:"guest_id" binding:"required"`
	GuestName    string     `json:"guest_name" binding:"max=100"`
	AmenityID    string     `json:"amenity_id" binding:"required"`
	ScheduledFor *time.Time `json:"scheduled_for" binding:"required"`
	GuestNotes   string     `json:"guest_notes"`
}

// AssignOrderRequest is the payload of PATCH /amenity-orders/:id/assign.
type AssignOrderRequest struct {
	StaffID   string `json:"staff_id" binding:"required"`
	StaffName string `json:"staff_name" binding:"required"`
}

// CompleteOrderRequest is the payload of PATCH /amenity-orders/:id/complete.
type CompleteOrderRequest struct {
	Notes string `json:"notes"`
}

// UpdateStatusRequest is the payload of the status override endpoints.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderItemRequest references a menu item by id.
type OrderItemRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gte=1"`
}

// CreateRestaurantOrderRequest is the payload of POST /orders.
type CreateRestaurantOrderRequest struct {
	GuestID         string             `json:"guest_id" binding:"required"`
	RoomNumber      string             `json:"room_number"`
	OrderType       string             `json:"order_type" binding:"required,oneof=room_service in_restaurant"`
	Items           []OrderItemRequest `json:"items" binding:"dive"`
	SpecialRequests string             `json:"special_requests"`
}

// AmenityOrderCreated is returned after an amenity order is accepted.
type AmenityOrderCreated struct {
	OrderID     string  `json:"order_id"`
	AmenityName string  `json:"amenity_name"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	Message     string  `json:"message"`
}

// RestaurantOrderCreated is returned after a restaurant order is accepted.
type RestaurantOrderCreated struct {
	OrderID                  string  `json:"order_id"`
	Status                   string  `json:"status"`
	TotalAmount              float64 `json:"total_amount"`
	Currency                 string  `json:"currency"`
	EstimatedPreparationTime int     `json:"estimated_preparation_time"`
	Message                  string  `json:"message"`
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

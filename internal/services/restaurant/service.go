package restaurant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotel-services/internal/logger"
	"hotel-services/internal/models"
)

const (
	ServiceName = "restaurant-service"
	Currency    = "RUB"
)

// Service implements the menu, restaurant orders and table reservations
type Service struct {
	menu         MenuRepo
	orders       OrderRepo
	reservations ReservationRepo
	events       Events
	logger       *logger.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a new restaurant service
func NewService(menu MenuRepo, orders OrderRepo, reservations ReservationRepo, events Events, log *logger.Logger) *Service {
	return &Service{
		menu:         menu,
		orders:       orders,
		reservations: reservations,
		events:       events,
		logger:       log,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}
}

// CreateMenuItem adds a dish to the menu
func (s *Service) CreateMenuItem(ctx context.Context, req *models.CreateMenuItemRequest, requestID string) (*models.MenuItem, error) {
	m := models.NewMenuItem(s.newID(), req, s.now())
	if err := s.menu.CreateMenuItem(ctx, m); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}

	s.logger.Info("menu_item_created", "Menu item added", requestID, map[string]interface{}{
		"menu_item_id": m.ID,
		"category":     m.Category,
	})
	return m, nil
}

// Menu groups the available dishes by category, keeping catalog order
// inside each category.
func (s *Service) Menu(ctx context.Context) (map[string][]models.MenuItem, error) {
	available := true
	items, err := s.menu.ListMenuItems(ctx, models.CatalogFilter{Available: &available})
	if err != nil {
		return nil, err
	}

	categories := make(map[string][]models.MenuItem)
	for _, it := range items {
		categories[it.Category] = append(categories[it.Category], it)
	}
	return categories, nil
}

// CreateOrder prices the requested items from the menu and records the order.
// Every item is resolved before anything is written.
func (s *Service) CreateOrder(ctx context.Context, req *models.CreateRestaurantOrderRequest, requestID string) (*models.RestaurantOrder, error) {
	ids := make([]string, len(req.Items))
	for i, it := range req.Items {
		ids[i] = it.MenuItemID
	}

	menu, err := s.menu.GetMenuItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup menu items: %w", err)
	}

	items := make([]models.LineItem, 0, len(req.Items))
	prep := 0
	for _, it := range req.Items {
		m, ok := menu[it.MenuItemID]
		if !ok || !m.Available {
			return nil, models.NotFoundf("Menu item %s not found or unavailable", it.MenuItemID)
		}
		li, err := models.NewLineItem(m, it.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, li)
		prep = max(prep, m.PreparationTime)
	}

	now := s.now()
	o := &models.RestaurantOrder{
		ID:                       s.newID(),
		GuestID:                  req.GuestID,
		RoomNumber:               req.RoomNumber,
		OrderType:                models.OrderType(req.OrderType),
		Items:                    items,
		Status:                   models.OrderReceived,
		TotalAmount:              models.SumLineItems(items),
		EstimatedPreparationTime: prep,
		SpecialRequests:          req.SpecialRequests,
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	change := models.StatusChange{
		OrderID:   o.ID,
		Status:    string(o.Status),
		ChangedBy: req.GuestID,
		ChangedAt: now,
		Notes:     "order received",
	}
	if err := s.orders.CreateRestaurantOrder(ctx, o, change); err != nil {
		return nil, fmt.Errorf("save restaurant order: %w", err)
	}

	s.logger.Info("order_received", "Restaurant order received", requestID, map[string]interface{}{
		"order_id":     o.ID,
		"order_type":   o.OrderType,
		"items":        len(o.Items),
		"total_amount": o.TotalAmount,
	})

	s.events.Publish(logger.WithRequestID(ctx, requestID), models.EventOrderCreated, models.NewOrderEvent(o, ""))
	return o, nil
}

// GetOrder returns one restaurant order
func (s *Service) GetOrder(ctx context.Context, id string) (*models.RestaurantOrder, error) {
	return s.orders.GetRestaurantOrder(ctx, id)
}

// ListOrders lists orders, newest first
func (s *Service) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.RestaurantOrder, error) {
	return s.orders.ListRestaurantOrders(ctx, filter)
}

// History returns the status log of an order, oldest first
func (s *Service) History(ctx context.Context, id string) ([]models.StatusChange, error) {
	if _, err := s.orders.GetRestaurantOrder(ctx, id); err != nil {
		return nil, err
	}
	return s.orders.RestaurantOrderHistory(ctx, id)
}

// SetStatus overwrites the status with any recognized value. Moving to
// delivered stamps completed_at.
func (s *Service) SetStatus(ctx context.Context, id, status, requestID string) (*models.RestaurantOrder, error) {
	o, err := s.orders.GetRestaurantOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	old := o.Status
	now := s.now()
	o.Status = newStatus
	o.UpdatedAt = now
	if newStatus == models.OrderDelivered {
		o.CompletedAt = &now
	}

	change := models.StatusChange{
		OrderID:   o.ID,
		Status:    string(o.Status),
		ChangedBy: ServiceName,
		ChangedAt: now,
	}
	if err := s.orders.UpdateRestaurantOrder(ctx, o, change); err != nil {
		return nil, err
	}

	s.logger.Info("order_status_changed", "Restaurant order status changed", requestID, map[string]interface{}{
		"order_id":   o.ID,
		"old_status": old,
		"new_status": o.Status,
	})

	s.events.Publish(logger.WithRequestID(ctx, requestID), models.EventOrderUpdated, models.NewOrderEvent(o, old))
	return o, nil
}

// Reserve books a table. The table is derived from the slot alone and is
// not checked against other reservations.
func (s *Service) Reserve(ctx context.Context, req *models.CreateReservationRequest, requestID string) (*models.Reservation, error) {
	if err := models.ValidateSlot(req.Date, req.Time); err != nil {
		return nil, err
	}

	r := &models.Reservation{
		ID:              s.newID(),
		GuestID:         req.GuestID,
		GuestName:       req.GuestName,
		PersonsCount:    req.PersonsCount,
		Date:            req.Date,
		Time:            req.Time,
		TableNumber:     models.TableNumber(req.Date, req.Time),
		Status:          models.ReservationConfirmed,
		SpecialRequests: req.SpecialRequests,
		CreatedAt:       s.now(),
	}
	if err := s.reservations.CreateReservation(ctx, r); err != nil {
		return nil, fmt.Errorf("save reservation: %w", err)
	}

	s.logger.Info("table_reserved", "Table reserved", requestID, map[string]interface{}{
		"reservation_id": r.ID,
		"table_number":   r.TableNumber,
		"slot":           r.Date + " " + r.Time,
	})

	s.events.Publish(logger.WithRequestID(ctx, requestID), models.EventTableReserved, models.NewReservationEvent(r))
	return r, nil
}

// GetReservation returns one reservation
func (s *Service) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	return s.reservations.GetReservation(ctx, id)
}

// ListReservations lists reservations by slot, earliest first
func (s *Service) ListReservations(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	return s.reservations.ListReservations(ctx, filter)
}

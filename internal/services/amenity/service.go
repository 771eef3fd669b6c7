package amenity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotel-services/internal/logger"
	"hotel-services/internal/models"
)

// ServiceName identifies the amenity service in logs, events and status logs.
const ServiceName = "amenity-service"

// Service implements the amenity catalog and the amenity order lifecycle
type Service struct {
	catalog CatalogRepo
	orders  OrderRepo
	events  Events
	logger  *logger.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a new amenity service
func NewService(catalog CatalogRepo, orders OrderRepo, events Events, log *logger.Logger) *Service {
	return &Service{
		catalog: catalog,
		orders:  orders,
		events:  events,
		logger:  log,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// CreateAmenity adds an entry to the catalog
func (s *Service) CreateAmenity(ctx context.Context, req *models.CreateAmenityRequest, requestID string) (*models.Amenity, error) {
	a := models.NewAmenity(s.newID(), req, s.now())
	if err := s.catalog.CreateAmenity(ctx, a); err != nil {
		return nil, fmt.Errorf("create amenity: %w", err)
	}

	s.logger.Info("amenity_created", "Amenity added to catalog", requestID, map[string]interface{}{
		"amenity_id": a.ID,
		"category":   a.Category,
	})
	return a, nil
}

// ListAmenities lists the catalog ordered by category and name
func (s *Service) ListAmenities(ctx context.Context, filter models.CatalogFilter) ([]models.Amenity, error) {
	return s.catalog.ListAmenities(ctx, filter)
}

// CreateOrder books an amenity for a guest at the catalog price
func (s *Service) CreateOrder(ctx context.Context, req *models.CreateAmenityOrderRequest, requestID string) (*models.AmenityOrder, error) {
	a, err := s.catalog.GetAmenity(ctx, req.AmenityID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("lookup amenity: %w", err)
	}
	if a == nil || !a.Available {
		return nil, models.NotFoundf("Amenity not found or unavailable")
	}

	now := s.now()
	o := &models.AmenityOrder{
		ID:           s.newID(),
		GuestID:      req.GuestID,
		GuestName:    req.GuestName,
		AmenityID:    a.ID,
		AmenityName:  a.Name,
		Status:       models.AmenityRequested,
		TotalAmount:  models.Round2(a.Price),
		ScheduledFor: req.ScheduledFor,
		GuestNotes:   req.GuestNotes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	change := models.StatusChange{
		OrderID:   o.ID,
		Status:    string(o.Status),
		ChangedBy: req.GuestID,
		ChangedAt: now,
		Notes:     "order requested",
	}
	if err := s.orders.CreateAmenityOrder(ctx, o, change); err != nil {
		return nil, fmt.Errorf("save amenity order: %w", err)
	}

	s.logger.Info("amenity_order_created", "Amenity order created", requestID, map[string]interface{}{
		"order_id":     o.ID,
		"amenity_id":   o.AmenityID,
		"total_amount": o.TotalAmount,
	})

	s.events.Publish(logger.WithRequestID(ctx, requestID), models.EventAmenityRequested, models.NewAmenityEvent(o))
	return o, nil
}

// GetOrder returns one amenity order
func (s *Service) GetOrder(ctx context.Context, id string) (*models.AmenityOrder, error) {
	return s.orders.GetAmenityOrder(ctx, id)
}

// ListOrders lists orders, newest first
func (s *Service) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.AmenityOrder, error) {
	return s.orders.ListAmenityOrders(ctx, filter)
}

// History returns the status log of an order, oldest first
func (s *Service) History(ctx context.Context, id string) ([]models.StatusChange, error) {
	if _, err := s.orders.GetAmenityOrder(ctx, id); err != nil {
		return nil, err
	}
	return s.orders.AmenityOrderHistory(ctx, id)
}

// Assign hands the order to a staff member. Completed orders cannot be
// reassigned; any other status, cancelled included, moves to assigned.
func (s *Service) Assign(ctx context.Context, id, staffID, staffName, requestID string) (*models.AmenityOrder, error) {
	o, err := s.orders.GetAmenityOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == models.AmenityCompleted {
		return nil, models.InvalidTransitionf("Cannot assign completed order")
	}

	o.AssignedTo = staffID
	o.AssignedToName = staffName
	o.Status = models.AmenityAssigned
	o.UpdatedAt = s.now()

	if err := s.save(ctx, o, staffID, "assigned to "+staffName); err != nil {
		return nil, err
	}

	s.logger.Info("amenity_order_assigned", "Amenity order assigned", requestID, map[string]interface{}{
		"order_id": o.ID,
		"staff_id": staffID,
	})
	return o, nil
}

// SetStatus overwrites the status with any recognized value. Moving to
// completed stamps completed_at; other values leave it as it was.
func (s *Service) SetStatus(ctx context.Context, id, status, requestID string) (*models.AmenityOrder, error) {
	o, err := s.orders.GetAmenityOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus, err := models.ParseAmenityStatus(status)
	if err != nil {
		return nil, err
	}

	old := o.Status
	now := s.now()
	o.Status = newStatus
	o.UpdatedAt = now
	if newStatus == models.AmenityCompleted {
		o.CompletedAt = &now
	}

	if err := s.save(ctx, o, ServiceName, ""); err != nil {
		return nil, err
	}

	s.logger.Info("amenity_status_changed", "Amenity order status changed", requestID, map[string]interface{}{
		"order_id":   o.ID,
		"old_status": old,
		"new_status": o.Status,
	})
	return o, nil
}

// Complete closes the order regardless of its current status.
func (s *Service) Complete(ctx context.Context, id, notes, requestID string) (*models.AmenityOrder, error) {
	o, err := s.orders.GetAmenityOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	o.Status = models.AmenityCompleted
	o.StaffNotes = notes
	o.CompletedAt = &now
	o.UpdatedAt = now

	changedBy := o.AssignedTo
	if changedBy == "" {
		changedBy = ServiceName
	}
	if err := s.save(ctx, o, changedBy, notes); err != nil {
		return nil, err
	}

	s.logger.Info("amenity_order_completed", "Amenity order completed", requestID, map[string]interface{}{
		"order_id": o.ID,
	})

	s.events.Publish(logger.WithRequestID(ctx, requestID), models.EventAmenityCompleted, models.NewAmenityEvent(o))
	return o, nil
}

func (s *Service) save(ctx context.Context, o *models.AmenityOrder, changedBy, notes string) error {
	change := models.StatusChange{
		OrderID:   o.ID,
		Status:    string(o.Status),
		ChangedBy: changedBy,
		ChangedAt: o.UpdatedAt,
		Notes:     notes,
	}
	return s.orders.UpdateAmenityOrder(ctx, o, change)
}

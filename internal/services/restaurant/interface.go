package restaurant

import (
	"context"

	"hotel-services/internal/models"
)

type MenuRepo interface {
	CreateMenuItem(ctx context.Context, m *models.MenuItem) error
	GetMenuItems(ctx context.Context, ids []string) (map[string]*models.MenuItem, error)
	ListMenuItems(ctx context.Context, filter models.CatalogFilter) ([]models.MenuItem, error)
}

type OrderRepo interface {
	CreateRestaurantOrder(ctx context.Context, o *models.RestaurantOrder, change models.StatusChange) error
	UpdateRestaurantOrder(ctx context.Context, o *models.RestaurantOrder, change models.StatusChange) error
	GetRestaurantOrder(ctx context.Context, id string) (*models.RestaurantOrder, error)
	ListRestaurantOrders(ctx context.Context, filter models.OrderFilter) ([]models.RestaurantOrder, error)
	RestaurantOrderHistory(ctx context.Context, id string) ([]models.StatusChange, error)
}

type ReservationRepo interface {
	CreateReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	ListReservations(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error)
}

// Events receives lifecycle notifications without failing the caller.
type Events interface {
	Publish(ctx context.Context, eventType string, payload interface{})
}

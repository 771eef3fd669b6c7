package amenity

import (
	"context"

	"hotel-services/internal/models"
)

type CatalogRepo interface {
	CreateAmenity(ctx context.Context, a *models.Amenity) error
	GetAmenity(ctx context.Context, id string) (*models.Amenity, error)
	ListAmenities(ctx context.Context, filter models.CatalogFilter) ([]models.Amenity, error)
}

type OrderRepo interface {
	CreateAmenityOrder(ctx context.Context, o *models.AmenityOrder, change models.StatusChange) error
	UpdateAmenityOrder(ctx context.Context, o *models.AmenityOrder, change models.StatusChange) error
	GetAmenityOrder(ctx context.Context, id string) (*models.AmenityOrder, error)
	ListAmenityOrders(ctx context.Context, filter models.OrderFilter) ([]models.AmenityOrder, error)
	AmenityOrderHistory(ctx context.Context, id string) ([]models.StatusChange, error)
}

// Events receives lifecycle notifications. Implementations must not block on
// subscribers and must not fail the caller.
type Events interface {
	Publish(ctx context.Context, eventType string, payload interface{})
}

package cache

import (
	"context"

	"hotel-services/internal/models"
)

const (
	amenityPrefix  = "catalog:amenity:"
	amenityListKey = "catalog:amenities:list:"
	menuListKey    = "catalog:menu:list:"
)

// AmenityStore is the catalog part of an amenity repository
type AmenityStore interface {
	CreateAmenity(ctx context.Context, a *models.Amenity) error
	GetAmenity(ctx context.Context, id string) (*models.Amenity, error)
	ListAmenities(ctx context.Context, filter models.CatalogFilter) ([]models.Amenity, error)
}

// AmenityCatalog caches amenity lookups and listings
type AmenityCatalog struct {
	next  AmenityStore
	cache *Cache
}

func NewAmenityCatalog(next AmenityStore, c *Cache) *AmenityCatalog {
	return &AmenityCatalog{next: next, cache: c}
}

func (a *AmenityCatalog) CreateAmenity(ctx context.Context, am *models.Amenity) error {
	if err := a.next.CreateAmenity(ctx, am); err != nil {
		return err
	}
	a.cache.invalidate(ctx, amenityListKey+"*")
	return nil
}

func (a *AmenityCatalog) GetAmenity(ctx context.Context, id string) (*models.Amenity, error) {
	return readThrough(ctx, a.cache, amenityPrefix+id, func(ctx context.Context) (*models.Amenity, error) {
		return a.next.GetAmenity(ctx, id)
	})
}

func (a *AmenityCatalog) ListAmenities(ctx context.Context, filter models.CatalogFilter) ([]models.Amenity, error) {
	key := amenityListKey + filterKey(filter.Category, filter.Available)
	return readThrough(ctx, a.cache, key, func(ctx context.Context) ([]models.Amenity, error) {
		return a.next.ListAmenities(ctx, filter)
	})
}

// MenuStore is the catalog part of a restaurant repository
type MenuStore interface {
	CreateMenuItem(ctx context.Context, m *models.MenuItem) error
	GetMenuItems(ctx context.Context, ids []string) (map[string]*models.MenuItem, error)
	ListMenuItems(ctx context.Context, filter models.CatalogFilter) ([]models.MenuItem, error)
}

// MenuCatalog caches menu listings. Batch lookups used while pricing an
// order always go to the store.
type MenuCatalog struct {
	next  MenuStore
	cache *Cache
}

func NewMenuCatalog(next MenuStore, c *Cache) *MenuCatalog {
	return &MenuCatalog{next: next, cache: c}
}

func (m *MenuCatalog) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if err := m.next.CreateMenuItem(ctx, item); err != nil {
		return err
	}
	m.cache.invalidate(ctx, menuListKey+"*")
	return nil
}

func (m *MenuCatalog) GetMenuItems(ctx context.Context, ids []string) (map[string]*models.MenuItem, error) {
	return m.next.GetMenuItems(ctx, ids)
}

func (m *MenuCatalog) ListMenuItems(ctx context.Context, filter models.CatalogFilter) ([]models.MenuItem, error) {
	key := menuListKey + filterKey(filter.Category, filter.Available)
	return readThrough(ctx, m.cache, key, func(ctx context.Context) ([]models.MenuItem, error) {
		return m.next.ListMenuItems(ctx, filter)
	})
}

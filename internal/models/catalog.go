package models

import (
	"math"
	"time"
)

// DefaultPreparationTime is used for menu items created without an explicit
// preparation time.
const DefaultPreparationTime = 15

// Amenity is a bookable hotel service (spa, transfer, laundry).
type Amenity struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Price           float64   `json:"price"`
	Category        string    `json:"category"`
	DurationMinutes int       `json:"duration_minutes"`
	Available       bool      `json:"available"`
	ImageURL        string    `json:"image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// MenuItem is an orderable restaurant dish.
type MenuItem struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Price           float64   `json:"price"`
	Category        string    `json:"category"`
	Available       bool      `json:"available"`
	ImageURL        string    `json:"image_url,omitempty"`
	PreparationTime int       `json:"preparation_time"`
	CreatedAt       time.Time `json:"created_at"`
}

// CatalogFilter narrows catalog listings. Nil fields are not applied.
type CatalogFilter struct {
	Category  *string
	Available *bool
}

// Matches reports whether an entry with the given category and availability
// passes the filter.
func (f CatalogFilter) Matches(category string, available bool) bool {
	if f.Category != nil && *f.Category != category {
		return false
	}
	if f.Available != nil && *f.Available != available {
		return false
	}
	return true
}

// CreateAmenityRequest is the payload of POST /amenities.
type CreateAmenityRequest struct {
	Name            string  `json:"name" binding:"required,max=200"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" binding:"gte=0"`
	Category        string  `json:"category" binding:"required,max=100"`
	DurationMinutes int     `json:"duration_minutes" binding:"gte=0"`
	Available       *bool   `json:"available"`
	ImageURL        string  `json:"image_url" binding:"omitempty,url"`
}

// CreateMenuItemRequest is the payload of POST /menu/items.
type CreateMenuItemRequest struct {
	Name            string  `json:"name" binding:"required,max=200"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" binding:"gte=0"`
	Category        string  `json:"category" binding:"required,max=100"`
	Available       *bool   `json:"available"`
	ImageURL        string  `json:"image_url" binding:"omitempty,url"`
	PreparationTime *int    `json:"preparation_time" binding:"omitempty,gte=0"`
}

// NewAmenity builds a catalog entry from a create request. Availability
// defaults to true.
func NewAmenity(id string, req *CreateAmenityRequest, now time.Time) *Amenity {
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return &Amenity{
		ID:              id,
		Name:            req.Name,
		Description:     req.Description,
		Price:           Round2(req.Price),
		Category:        req.Category,
		DurationMinutes: req.DurationMinutes,
		Available:       available,
		ImageURL:        req.ImageURL,
		CreatedAt:       now,
	}
}

// NewMenuItem builds a menu item from a create request, applying the
// availability and preparation time defaults.
func NewMenuItem(id string, req *CreateMenuItemRequest, now time.Time) *MenuItem {
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	prep := DefaultPreparationTime
	if req.PreparationTime != nil {
		prep = *req.PreparationTime
	}
	return &MenuItem{
		ID:              id,
		Name:            req.Name,
		Description:     req.Description,
		Price:           Round2(req.Price),
		Category:        req.Category,
		Available:       available,
		ImageURL:        req.ImageURL,
		PreparationTime: prep,
		CreatedAt:       now,
	}
}

// Round2 rounds an amount to currency precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Package memory holds map-backed repositories used by the memory storage
// driver and by service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"hotel-services/internal/models"
)

type amenityRecord struct {
	seq int64
	a   models.Amenity
}

type amenityOrderRecord struct {
	seq int64
	o   *models.AmenityOrder
}

// AmenityStore keeps the amenity catalog and amenity orders in memory.
// Values are copied on the way in and out, so concurrent updates to one
// order resolve as last write wins.
type AmenityStore struct {
	mu        sync.RWMutex
	seq       int64
	amenities map[string]amenityRecord
	orders    map[string]amenityOrderRecord
	history   map[string][]models.StatusChange
}

func NewAmenityStore() *AmenityStore {
	return &AmenityStore{
		amenities: make(map[string]amenityRecord),
		orders:    make(map[string]amenityOrderRecord),
		history:   make(map[string][]models.StatusChange),
	}
}

func (s *AmenityStore) Ping(context.Context) error { return nil }

func (s *AmenityStore) CreateAmenity(_ context.Context, a *models.Amenity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.amenities[a.ID]; ok {
		return fmt.Errorf("amenity %s already exists", a.ID)
	}
	s.seq++
	s.amenities[a.ID] = amenityRecord{seq: s.seq, a: *a}
	return nil
}

func (s *AmenityStore) GetAmenity(_ context.Context, id string) (*models.Amenity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.amenities[id]
	if !ok {
		return nil, models.NotFoundf("amenity %s not found", id)
	}
	a := rec.a
	return &a, nil
}

func (s *AmenityStore) ListAmenities(_ context.Context, filter models.CatalogFilter) ([]models.Amenity, error) {
	s.mu.RLock()
	recs := make([]amenityRecord, 0, len(s.amenities))
	for _, rec := range s.amenities {
		if filter.Matches(rec.a.Category, rec.a.Available) {
			recs = append(recs, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		return catalogLess(recs[i].a.Category, recs[i].a.Name, recs[i].seq, recs[j].a.Category, recs[j].a.Name, recs[j].seq)
	})

	out := make([]models.Amenity, len(recs))
	for i, rec := range recs {
		out[i] = rec.a
	}
	return out, nil
}

func (s *AmenityStore) CreateAmenityOrder(_ context.Context, o *models.AmenityOrder, change models.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[o.ID]; ok {
		return fmt.Errorf("amenity order %s already exists", o.ID)
	}
	s.seq++
	s.orders[o.ID] = amenityOrderRecord{seq: s.seq, o: o.Clone()}
	s.history[o.ID] = append(s.history[o.ID], change)
	return nil
}

func (s *AmenityStore) UpdateAmenityOrder(_ context.Context, o *models.AmenityOrder, change models.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orders[o.ID]
	if !ok {
		return models.NotFoundf("amenity order %s not found", o.ID)
	}
	rec.o = o.Clone()
	s.orders[o.ID] = rec
	s.history[o.ID] = append(s.history[o.ID], change)
	return nil
}

func (s *AmenityStore) GetAmenityOrder(_ context.Context, id string) (*models.AmenityOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.orders[id]
	if !ok {
		return nil, models.NotFoundf("amenity order %s not found", id)
	}
	return rec.o.Clone(), nil
}

func (s *AmenityStore) ListAmenityOrders(_ context.Context, filter models.OrderFilter) ([]models.AmenityOrder, error) {
	s.mu.RLock()
	recs := make([]amenityOrderRecord, 0, len(s.orders))
	for _, rec := range s.orders {
		if filter.Matches(rec.o.GuestID, string(rec.o.Status)) {
			recs = append(recs, amenityOrderRecord{seq: rec.seq, o: rec.o.Clone()})
		}
	}
	s.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		return newestFirst(recs[i].o.CreatedAt, recs[i].seq, recs[j].o.CreatedAt, recs[j].seq)
	})

	out := make([]models.AmenityOrder, len(recs))
	for i, rec := range recs {
		out[i] = *rec.o
	}
	return out, nil
}

func (s *AmenityStore) AmenityOrderHistory(_ context.Context, id string) ([]models.StatusChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.StatusChange(nil), s.history[id]...), nil
}

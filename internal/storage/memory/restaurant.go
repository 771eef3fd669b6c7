package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"hotel-services/internal/models"
)

type menuRecord struct {
	seq int64
	m   models.MenuItem
}

type restaurantOrderRecord struct {
	seq int64
	o   *models.RestaurantOrder
}

type reservationRecord struct {
	seq int64
	r   models.Reservation
}

// RestaurantStore keeps the menu, restaurant orders and reservations in memory.
type RestaurantStore struct {
	mu           sync.RWMutex
	seq          int64
	menu         map[string]menuRecord
	orders       map[string]restaurantOrderRecord
	history      map[string][]models.StatusChange
	reservations map[string]reservationRecord
}

func NewRestaurantStore() *RestaurantStore {
	return &RestaurantStore{
		menu:         make(map[string]menuRecord),
		orders:       make(map[string]restaurantOrderRecord),
		history:      make(map[string][]models.StatusChange),
		reservations: make(map[string]reservationRecord),
	}
}

func (s *RestaurantStore) Ping(context.Context) error { return nil }

func (s *RestaurantStore) CreateMenuItem(_ context.Context, m *models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.menu[m.ID]; ok {
		return fmt.Errorf("menu item %s already exists", m.ID)
	}
	s.seq++
	s.menu[m.ID] = menuRecord{seq: s.seq, m: *m}
	return nil
}

func (s *RestaurantStore) GetMenuItems(_ context.Context, ids []string) (map[string]*models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*models.MenuItem, len(ids))
	for _, id := range ids {
		if rec, ok := s.menu[id]; ok {
			m := rec.m
			out[id] = &m
		}
	}
	return out, nil
}

func (s *RestaurantStore) ListMenuItems(_ context.Context, filter models.CatalogFilter) ([]models.MenuItem, error) {
	s.mu.RLock()
	recs := make([]menuRecord, 0, len(s.menu))
	for _, rec := range s.menu {
		if filter.Matches(rec.m.Category, rec.m.Available) {
			recs = append(recs, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		return catalogLess(recs[i].m.Category, recs[i].m.Name, recs[i].seq, recs[j].m.Category, recs[j].m.Name, recs[j].seq)
	})

	out := make([]models.MenuItem, len(recs))
	for i, rec := range recs {
		out[i] = rec.m
	}
	return out, nil
}

func (s *RestaurantStore) CreateRestaurantOrder(_ context.Context, o *models.RestaurantOrder, change models.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[o.ID]; ok {
		return fmt.Errorf("order %s already exists", o.ID)
	}
	s.seq++
	s.orders[o.ID] = restaurantOrderRecord{seq: s.seq, o: o.Clone()}
	s.history[o.ID] = append(s.history[o.ID], change)
	return nil
}

func (s *RestaurantStore) UpdateRestaurantOrder(_ context.Context, o *models.RestaurantOrder, change models.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orders[o.ID]
	if !ok {
		return models.NotFoundf("order %s not found", o.ID)
	}
	rec.o = o.Clone()
	s.orders[o.ID] = rec
	s.history[o.ID] = append(s.history[o.ID], change)
	return nil
}

func (s *RestaurantStore) GetRestaurantOrder(_ context.Context, id string) (*models.RestaurantOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.orders[id]
	if !ok {
		return nil, models.NotFoundf("order %s not found", id)
	}
	return rec.o.Clone(), nil
}

func (s *RestaurantStore) ListRestaurantOrders(_ context.Context, filter models.OrderFilter) ([]models.RestaurantOrder, error) {
	s.mu.RLock()
	recs := make([]restaurantOrderRecord, 0, len(s.orders))
	for _, rec := range s.orders {
		if filter.Matches(rec.o.GuestID, string(rec.o.Status)) {
			recs = append(recs, restaurantOrderRecord{seq: rec.seq, o: rec.o.Clone()})
		}
	}
	s.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		return newestFirst(recs[i].o.CreatedAt, recs[i].seq, recs[j].o.CreatedAt, recs[j].seq)
	})

	out := make([]models.RestaurantOrder, len(recs))
	for i, rec := range recs {
		out[i] = *rec.o
	}
	return out, nil
}

func (s *RestaurantStore) RestaurantOrderHistory(_ context.Context, id string) ([]models.StatusChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.StatusChange(nil), s.history[id]...), nil
}

func (s *RestaurantStore) CreateReservation(_ context.Context, r *models.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[r.ID]; ok {
		return fmt.Errorf("reservation %s already exists", r.ID)
	}
	s.seq++
	s.reservations[r.ID] = reservationRecord{seq: s.seq, r: *r}
	return nil
}

func (s *RestaurantStore) GetReservation(_ context.Context, id string) (*models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.reservations[id]
	if !ok {
		return nil, models.NotFoundf("reservation %s not found", id)
	}
	r := rec.r
	return &r, nil
}

func (s *RestaurantStore) ListReservations(_ context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	s.mu.RLock()
	recs := make([]reservationRecord, 0, len(s.reservations))
	for _, rec := range s.reservations {
		if filter.GuestID == nil || *filter.GuestID == rec.r.GuestID {
			recs = append(recs, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i].r, recs[j].r
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return recs[i].seq < recs[j].seq
	})

	out := make([]models.Reservation, len(recs))
	for i, rec := range recs {
		out[i] = rec.r
	}
	return out, nil
}

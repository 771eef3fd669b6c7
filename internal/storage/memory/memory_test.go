package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-services/internal/models"
)

func TestListAmenitiesOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewAmenityStore()

	entries := []models.Amenity{
		{ID: "1", Name: "Massage", Category: "spa", Available: true},
		{ID: "2", Name: "Airport", Category: "transfer", Available: true},
		{ID: "3", Name: "Facial", Category: "spa", Available: false},
		{ID: "4", Name: "Massage", Category: "spa", Available: true},
	}
	for i := range entries {
		require.NoError(t, s.CreateAmenity(ctx, &entries[i]))
	}

	all, err := s.ListAmenities(ctx, models.CatalogFilter{})
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, a := range all {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"3", "1", "4", "2"}, ids)

	yes := true
	spa := "spa"
	avail, err := s.ListAmenities(ctx, models.CatalogFilter{Category: &spa, Available: &yes})
	require.NoError(t, err)
	require.Len(t, avail, 2)
	assert.Equal(t, "1", avail[0].ID)
	assert.Equal(t, "4", avail[1].ID)
}

func TestAmenityOrderCopies(t *testing.T) {
	ctx := context.Background()
	s := NewAmenityStore()

	o := &models.AmenityOrder{ID: "o1", GuestID: "g1", Status: models.AmenityRequested}
	require.NoError(t, s.CreateAmenityOrder(ctx, o, models.StatusChange{OrderID: "o1", Status: "requested"}))

	o.Status = models.AmenityCancelled
	got, err := s.GetAmenityOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, models.AmenityRequested, got.Status)

	got.Status = models.AmenityAssigned
	again, err := s.GetAmenityOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, models.AmenityRequested, again.Status)
}

func TestAmenityOrderNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewAmenityStore()

	_, err := s.GetAmenityOrder(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	err = s.UpdateAmenityOrder(ctx, &models.AmenityOrder{ID: "missing"}, models.StatusChange{})
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = s.GetAmenity(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestAmenityOrderHistoryAndList(t *testing.T) {
	ctx := context.Background()
	s := NewAmenityStore()
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		o := &models.AmenityOrder{ID: id, GuestID: "g1", Status: models.AmenityRequested, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, s.CreateAmenityOrder(ctx, o, models.StatusChange{OrderID: id, Status: "requested"}))
	}
	require.NoError(t, s.UpdateAmenityOrder(ctx, &models.AmenityOrder{ID: "a", GuestID: "g1", Status: models.AmenityAssigned, CreatedAt: base},
		models.StatusChange{OrderID: "a", Status: "assigned"}))

	list, err := s.ListAmenityOrders(ctx, models.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "a", list[2].ID)

	status := "assigned"
	assigned, err := s.ListAmenityOrders(ctx, models.OrderFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "a", assigned[0].ID)

	history, err := s.AmenityOrderHistory(ctx, "a")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "requested", history[0].Status)
	assert.Equal(t, "assigned", history[1].Status)
}

func TestGetMenuItemsSkipsUnknown(t *testing.T) {
	ctx := context.Background()
	s := NewRestaurantStore()
	require.NoError(t, s.CreateMenuItem(ctx, &models.MenuItem{ID: "tea", Name: "Tea", Price: 100}))

	items, err := s.GetMenuItems(ctx, []string{"tea", "ghost"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "Tea", items["tea"].Name)
}

func TestListReservationsOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewRestaurantStore()

	for _, r := range []models.Reservation{
		{ID: "r1", GuestID: "g1", Date: "2025-06-02", Time: "12:00"},
		{ID: "r2", GuestID: "g2", Date: "2025-06-01", Time: "20:00"},
		{ID: "r3", GuestID: "g1", Date: "2025-06-01", Time: "09:30"},
		{ID: "r4", GuestID: "g1", Date: "2025-06-01", Time: "09:30"},
	} {
		r := r
		require.NoError(t, s.CreateReservation(ctx, &r))
	}

	all, err := s.ListReservations(ctx, models.ReservationFilter{})
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, r := range all {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"r3", "r4", "r2", "r1"}, ids)

	guest := "g2"
	mine, err := s.ListReservations(ctx, models.ReservationFilter{GuestID: &guest})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "r2", mine[0].ID)
}

func TestConcurrentUpdatesLastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := NewRestaurantStore()
	require.NoError(t, s.CreateRestaurantOrder(ctx, &models.RestaurantOrder{ID: "o1", Status: models.OrderReceived},
		models.StatusChange{OrderID: "o1", Status: "received"}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st := models.OrderInProgress
			if i%2 == 0 {
				st = models.OrderReady
			}
			_ = s.UpdateRestaurantOrder(ctx, &models.RestaurantOrder{ID: "o1", Status: st}, models.StatusChange{OrderID: "o1", Status: string(st)})
		}(i)
	}
	wg.Wait()

	got, err := s.GetRestaurantOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Contains(t, []models.OrderStatus{models.OrderInProgress, models.OrderReady}, got.Status)

	history, err := s.RestaurantOrderHistory(ctx, "o1")
	require.NoError(t, err)
	assert.Len(t, history, 51)
}

package database

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-services/internal/logger"
	"hotel-services/internal/models"
)

// testDB connects to DATABASE_URL, applies the migrations and empties every
// table. Tests are skipped when no database is configured.
func testDB(t *testing.T) *DB {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := &DB{Pool: pool, logger: logger.Discard()}
	require.NoError(t, db.Ping(ctx))
	require.NoError(t, db.RunMigrations(ctx, "../../migrations"))

	_, err = db.Exec(ctx, `TRUNCATE amenity_order_status_log, amenity_orders, amenities,
		restaurant_order_status_log, restaurant_orders, menu_items, table_reservations
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func amenityOrder(id, amenityID string, createdAt time.Time) *models.AmenityOrder {
	at := createdAt.Add(24 * time.Hour)
	return &models.AmenityOrder{
		ID:           id,
		GuestID:      "guest-1",
		AmenityID:    amenityID,
		AmenityName:  "Spa",
		Status:       models.AmenityRequested,
		TotalAmount:  1500,
		ScheduledFor: &at,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func requested(orderID string, at time.Time) models.StatusChange {
	return models.StatusChange{OrderID: orderID, Status: string(models.AmenityRequested), ChangedBy: "amenity-service", ChangedAt: at}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func TestAmenityCatalogOrdering(t *testing.T) {
	db := testDB(t)
	repo := NewAmenityRepository(db)
	ctx := context.Background()

	for _, a := range []models.Amenity{
		{ID: "a1", Name: "Massage", Category: "spa", Price: 2000, Available: true},
		{ID: "a2", Name: "Airport", Category: "transfer", Price: 900, Available: true},
		{ID: "a3", Name: "Massage", Category: "spa", Price: 2500, Available: false},
		{ID: "a4", Name: "Bath", Category: "spa", Price: 700, Available: true},
	} {
		a.CreatedAt = base
		require.NoError(t, repo.CreateAmenity(ctx, &a))
	}

	all, err := repo.ListAmenities(ctx, models.CatalogFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a4", "a1", "a3", "a2"}, ids(all, func(a models.Amenity) string { return a.ID }))
	assert.Equal(t, 2000.0, all[1].Price)

	spa, available := "spa", true
	filtered, err := repo.ListAmenities(ctx, models.CatalogFilter{Category: &spa, Available: &available})
	require.NoError(t, err)
	assert.Equal(t, []string{"a4", "a1"}, ids(filtered, func(a models.Amenity) string { return a.ID }))
}

func TestAmenityNotFound(t *testing.T) {
	db := testDB(t)
	repo := NewAmenityRepository(db)
	ctx := context.Background()

	_, err := repo.GetAmenity(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = repo.GetAmenityOrder(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	o := amenityOrder("missing", "a1", base)
	err = repo.UpdateAmenityOrder(ctx, o, requested("missing", base))
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestAmenityOrdersNewestFirst(t *testing.T) {
	db := testDB(t)
	repo := NewAmenityRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateAmenity(ctx, &models.Amenity{ID: "a1", Name: "Spa", Category: "spa", Available: true, CreatedAt: base}))

	// o1 and o2 share created_at, so insertion order breaks the tie.
	for _, o := range []*models.AmenityOrder{
		amenityOrder("o1", "a1", base),
		amenityOrder("o2", "a1", base),
		amenityOrder("o3", "a1", base.Add(time.Minute)),
	} {
		require.NoError(t, repo.CreateAmenityOrder(ctx, o, requested(o.ID, o.CreatedAt)))
	}

	orders, err := repo.ListAmenityOrders(ctx, models.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"o3", "o2", "o1"}, ids(orders, func(o models.AmenityOrder) string { return o.ID }))
	require.NotNil(t, orders[0].ScheduledFor)
	assert.True(t, base.Add(time.Minute+24*time.Hour).Equal(*orders[0].ScheduledFor))

	guest, status := "guest-2", string(models.AmenityRequested)
	none, err := repo.ListAmenityOrders(ctx, models.OrderFilter{GuestID: &guest, Status: &status})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAmenityOrderWriteAndLogCommitTogether(t *testing.T) {
	db := testDB(t)
	repo := NewAmenityRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateAmenity(ctx, &models.Amenity{ID: "a1", Name: "Spa", Category: "spa", Available: true, CreatedAt: base}))

	// The log row references an unknown order, so the whole write rolls back.
	err := repo.CreateAmenityOrder(ctx, amenityOrder("o1", "a1", base), requested("ghost", base))
	require.Error(t, err)
	_, err = repo.GetAmenityOrder(ctx, "o1")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	o := amenityOrder("o2", "a1", base)
	require.NoError(t, repo.CreateAmenityOrder(ctx, o, requested("o2", base)))

	completedAt := base.Add(time.Hour)
	done := o.Clone()
	done.Status = models.AmenityCompleted
	done.CompletedAt = &completedAt
	done.UpdatedAt = completedAt
	err = repo.UpdateAmenityOrder(ctx, done, models.StatusChange{OrderID: "ghost", Status: string(models.AmenityCompleted), ChangedAt: completedAt})
	require.Error(t, err)

	stored, err := repo.GetAmenityOrder(ctx, "o2")
	require.NoError(t, err)
	assert.Equal(t, models.AmenityRequested, stored.Status)
	assert.Nil(t, stored.CompletedAt)

	require.NoError(t, repo.UpdateAmenityOrder(ctx, done, models.StatusChange{OrderID: "o2", Status: string(models.AmenityCompleted), ChangedBy: "staff-1", ChangedAt: completedAt}))

	history, err := repo.AmenityOrderHistory(ctx, "o2")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, string(models.AmenityRequested), history[0].Status)
	assert.Equal(t, string(models.AmenityCompleted), history[1].Status)
	assert.Equal(t, "staff-1", history[1].ChangedBy)
}

func TestMenuOrderingAndBatchLookup(t *testing.T) {
	db := testDB(t)
	repo := NewRestaurantRepository(db)
	ctx := context.Background()

	for _, m := range []models.MenuItem{
		{ID: "m1", Name: "Tea", Category: "drinks", Price: 150, Available: true, PreparationTime: 5},
		{ID: "m2", Name: "Cake", Category: "desserts", Price: 250, Available: true, PreparationTime: 20},
		{ID: "m3", Name: "Coffee", Category: "drinks", Price: 200, Available: false, PreparationTime: 5},
	} {
		m.CreatedAt = base
		require.NoError(t, repo.CreateMenuItem(ctx, &m))
	}

	items, err := repo.ListMenuItems(ctx, models.CatalogFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"m2", "m3", "m1"}, ids(items, func(m models.MenuItem) string { return m.ID }))

	byID, err := repo.GetMenuItems(ctx, []string{"m1", "m3", "missing"})
	require.NoError(t, err)
	require.Len(t, byID, 2)
	assert.Equal(t, "Tea", byID["m1"].Name)
	assert.False(t, byID["m3"].Available)
}

func TestRestaurantOrders(t *testing.T) {
	db := testDB(t)
	repo := NewRestaurantRepository(db)
	ctx := context.Background()

	newOrder := func(id string, createdAt time.Time) *models.RestaurantOrder {
		return &models.RestaurantOrder{
			ID:        id,
			GuestID:   "guest-1",
			OrderType: models.RoomService,
			Items: []models.LineItem{
				{MenuItemID: "m1", Name: "Tea", UnitPrice: 150, Quantity: 2, LineTotal: 300},
			},
			Status:                   models.OrderReceived,
			TotalAmount:              300,
			EstimatedPreparationTime: 5,
			CreatedAt:                createdAt,
			UpdatedAt:                createdAt,
		}
	}
	received := func(id string) models.StatusChange {
		return models.StatusChange{OrderID: id, Status: string(models.OrderReceived), ChangedAt: base}
	}

	require.Error(t, repo.CreateRestaurantOrder(ctx, newOrder("r0", base), received("ghost")))
	_, err := repo.GetRestaurantOrder(ctx, "r0")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	require.NoError(t, repo.CreateRestaurantOrder(ctx, newOrder("r1", base), received("r1")))
	require.NoError(t, repo.CreateRestaurantOrder(ctx, newOrder("r2", base), received("r2")))

	orders, err := repo.ListRestaurantOrders(ctx, models.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"r2", "r1"}, ids(orders, func(o models.RestaurantOrder) string { return o.ID }))
	assert.Equal(t, newOrder("r1", base).Items, orders[1].Items)

	history, err := repo.RestaurantOrderHistory(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, history, 1)

	err = repo.UpdateRestaurantOrder(ctx, newOrder("missing", base), received("missing"))
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestReservationsBySlot(t *testing.T) {
	db := testDB(t)
	repo := NewRestaurantRepository(db)
	ctx := context.Background()

	for _, r := range []models.Reservation{
		{ID: "t1", GuestID: "g1", Date: "2025-03-02", Time: "19:00"},
		{ID: "t2", GuestID: "g2", Date: "2025-03-01", Time: "20:00"},
		{ID: "t3", GuestID: "g1", Date: "2025-03-02", Time: "19:00"},
	} {
		r.GuestName = "Guest"
		r.PersonsCount = 2
		r.TableNumber = 3
		r.Status = models.ReservationConfirmed
		r.CreatedAt = base
		require.NoError(t, repo.CreateReservation(ctx, &r))
	}

	all, err := repo.ListReservations(ctx, models.ReservationFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t1", "t3"}, ids(all, func(r models.Reservation) string { return r.ID }))

	guest := "g1"
	mine, err := repo.ListReservations(ctx, models.ReservationFilter{GuestID: &guest})
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t3"}, ids(mine, func(r models.Reservation) string { return r.ID }))

	_, err = repo.GetReservation(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hotel-services/internal/models"
)

// RestaurantRepository stores the menu, restaurant orders and table
// reservations in PostgreSQL
type RestaurantRepository struct {
	db *DB
}

// NewRestaurantRepository creates a repository backed by db
func NewRestaurantRepository(db *DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func (r *RestaurantRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *RestaurantRepository) CreateMenuItem(ctx context.Context, m *models.MenuItem) error {
	_, err := r.db.Exec(ctx, InsertMenuItemSQL,
		m.ID, m.Name, m.Description, m.Price, m.Category, m.Available, m.ImageURL, m.PreparationTime, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

// GetMenuItems returns the requested items keyed by id. Unknown ids are
// simply absent from the result.
func (r *RestaurantRepository) GetMenuItems(ctx context.Context, ids []string) (map[string]*models.MenuItem, error) {
	rows, err := r.db.Query(ctx, GetMenuItemsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanMenuItem)
	if err != nil {
		return nil, fmt.Errorf("scan menu items: %w", err)
	}

	byID := make(map[string]*models.MenuItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	return byID, nil
}

func (r *RestaurantRepository) ListMenuItems(ctx context.Context, filter models.CatalogFilter) ([]models.MenuItem, error) {
	rows, err := r.db.Query(ctx, ListMenuItemsSQL, filter.Category, filter.Available)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

func (r *RestaurantRepository) CreateRestaurantOrder(ctx context.Context, o *models.RestaurantOrder, change models.StatusChange) error {
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, InsertRestaurantOrderSQL,
			o.ID, o.GuestID, o.RoomNumber, o.OrderType, o.Items, o.Status, o.TotalAmount,
			o.EstimatedPreparationTime, o.SpecialRequests, o.CreatedAt, o.UpdatedAt, o.CompletedAt)
		if err != nil {
			return fmt.Errorf("insert restaurant order: %w", err)
		}
		return logStatus(ctx, tx, InsertRestaurantStatusLogSQL, change)
	})
}

func (r *RestaurantRepository) UpdateRestaurantOrder(ctx context.Context, o *models.RestaurantOrder, change models.StatusChange) error {
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, UpdateRestaurantOrderSQL, o.ID, o.Status, o.UpdatedAt, o.CompletedAt)
		if err != nil {
			return fmt.Errorf("update restaurant order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return models.NotFoundf("restaurant order %s not found", o.ID)
		}
		return logStatus(ctx, tx, InsertRestaurantStatusLogSQL, change)
	})
}

func (r *RestaurantRepository) GetRestaurantOrder(ctx context.Context, id string) (*models.RestaurantOrder, error) {
	rows, err := r.db.Query(ctx, GetRestaurantOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("query restaurant order: %w", err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanRestaurantOrder)
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return &o, nil
}

func (r *RestaurantRepository) ListRestaurantOrders(ctx context.Context, filter models.OrderFilter) ([]models.RestaurantOrder, error) {
	rows, err := r.db.Query(ctx, ListRestaurantOrdersSQL, filter.GuestID, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("list restaurant orders: %w", err)
	}
	return pgx.CollectRows(rows, scanRestaurantOrder)
}

func (r *RestaurantRepository) RestaurantOrderHistory(ctx context.Context, id string) ([]models.StatusChange, error) {
	rows, err := r.db.Query(ctx, GetRestaurantStatusHistorySQL, id)
	if err != nil {
		return nil, fmt.Errorf("query restaurant order history: %w", err)
	}
	return pgx.CollectRows(rows, scanStatusChange)
}

func (r *RestaurantRepository) CreateReservation(ctx context.Context, res *models.Reservation) error {
	_, err := r.db.Exec(ctx, InsertReservationSQL,
		res.ID, res.GuestID, res.GuestName, res.PersonsCount, res.Date, res.Time,
		res.TableNumber, res.Status, res.SpecialRequests, res.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *RestaurantRepository) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	rows, err := r.db.Query(ctx, GetReservationSQL, id)
	if err != nil {
		return nil, fmt.Errorf("query reservation: %w", err)
	}
	res, err := pgx.CollectExactlyOneRow(rows, scanReservation)
	if err != nil {
		return nil, notFound(err, "reservation", id)
	}
	return &res, nil
}

func (r *RestaurantRepository) ListReservations(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	rows, err := r.db.Query(ctx, ListReservationsSQL, filter.GuestID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return pgx.CollectRows(rows, scanReservation)
}

func scanMenuItem(row pgx.CollectableRow) (models.MenuItem, error) {
	var m models.MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Category,
		&m.Available, &m.ImageURL, &m.PreparationTime, &m.CreatedAt)
	return m, err
}

func scanRestaurantOrder(row pgx.CollectableRow) (models.RestaurantOrder, error) {
	var o models.RestaurantOrder
	err := row.Scan(&o.ID, &o.GuestID, &o.RoomNumber, &o.OrderType, &o.Items, &o.Status, &o.TotalAmount,
		&o.EstimatedPreparationTime, &o.SpecialRequests, &o.CreatedAt, &o.UpdatedAt, &o.CompletedAt)
	return o, err
}

func scanReservation(row pgx.CollectableRow) (models.Reservation, error) {
	var res models.Reservation
	err := row.Scan(&res.ID, &res.GuestID, &res.GuestName, &res.PersonsCount, &res.Date, &res.Time,
		&res.TableNumber, &res.Status, &res.SpecialRequests, &res.CreatedAt)
	return res, err
}

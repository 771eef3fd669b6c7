package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hotel-services/internal/models"
)

// AmenityRepository stores the amenity catalog and amenity orders in PostgreSQL
type AmenityRepository struct {
	db *DB
}

// NewAmenityRepository creates a repository backed by db
func NewAmenityRepository(db *DB) *AmenityRepository {
	return &AmenityRepository{db: db}
}

func (r *AmenityRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *AmenityRepository) CreateAmenity(ctx context.Context, a *models.Amenity) error {
	_, err := r.db.Exec(ctx, InsertAmenitySQL,
		a.ID, a.Name, a.Description, a.Price, a.Category, a.DurationMinutes, a.Available, a.ImageURL, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert amenity: %w", err)
	}
	return nil
}

func (r *AmenityRepository) GetAmenity(ctx context.Context, id string) (*models.Amenity, error) {
	rows, err := r.db.Query(ctx, GetAmenitySQL, id)
	if err != nil {
		return nil, fmt.Errorf("query amenity: %w", err)
	}
	a, err := pgx.CollectExactlyOneRow(rows, scanAmenity)
	if err != nil {
		return nil, notFound(err, "amenity", id)
	}
	return &a, nil
}

func (r *AmenityRepository) ListAmenities(ctx context.Context, filter models.CatalogFilter) ([]models.Amenity, error) {
	rows, err := r.db.Query(ctx, ListAmenitiesSQL, filter.Category, filter.Available)
	if err != nil {
		return nil, fmt.Errorf("list amenities: %w", err)
	}
	return pgx.CollectRows(rows, scanAmenity)
}

func (r *AmenityRepository) CreateAmenityOrder(ctx context.Context, o *models.AmenityOrder, change models.StatusChange) error {
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, InsertAmenityOrderSQL,
			o.ID, o.GuestID, o.GuestName, o.AmenityID, o.AmenityName, o.Status, o.TotalAmount,
			o.ScheduledFor, o.AssignedTo, o.AssignedToName, o.GuestNotes, o.StaffNotes,
			o.CreatedAt, o.UpdatedAt, o.CompletedAt)
		if err != nil {
			return fmt.Errorf("insert amenity order: %w", err)
		}
		return logStatus(ctx, tx, InsertAmenityStatusLogSQL, change)
	})
}

func (r *AmenityRepository) UpdateAmenityOrder(ctx context.Context, o *models.AmenityOrder, change models.StatusChange) error {
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, UpdateAmenityOrderSQL,
			o.ID, o.Status, o.AssignedTo, o.AssignedToName, o.StaffNotes, o.UpdatedAt, o.CompletedAt)
		if err != nil {
			return fmt.Errorf("update amenity order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return models.NotFoundf("amenity order %s not found", o.ID)
		}
		return logStatus(ctx, tx, InsertAmenityStatusLogSQL, change)
	})
}

func (r *AmenityRepository) GetAmenityOrder(ctx context.Context, id string) (*models.AmenityOrder, error) {
	rows, err := r.db.Query(ctx, GetAmenityOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("query amenity order: %w", err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanAmenityOrder)
	if err != nil {
		return nil, notFound(err, "amenity order", id)
	}
	return &o, nil
}

func (r *AmenityRepository) ListAmenityOrders(ctx context.Context, filter models.OrderFilter) ([]models.AmenityOrder, error) {
	rows, err := r.db.Query(ctx, ListAmenityOrdersSQL, filter.GuestID, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("list amenity orders: %w", err)
	}
	return pgx.CollectRows(rows, scanAmenityOrder)
}

func (r *AmenityRepository) AmenityOrderHistory(ctx context.Context, id string) ([]models.StatusChange, error) {
	rows, err := r.db.Query(ctx, GetAmenityStatusHistorySQL, id)
	if err != nil {
		return nil, fmt.Errorf("query amenity order history: %w", err)
	}
	return pgx.CollectRows(rows, scanStatusChange)
}

func scanAmenity(row pgx.CollectableRow) (models.Amenity, error) {
	var a models.Amenity
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Price, &a.Category,
		&a.DurationMinutes, &a.Available, &a.ImageURL, &a.CreatedAt)
	return a, err
}

func scanAmenityOrder(row pgx.CollectableRow) (models.AmenityOrder, error) {
	var o models.AmenityOrder
	err := row.Scan(&o.ID, &o.GuestID, &o.GuestName, &o.AmenityID, &o.AmenityName, &o.Status, &o.TotalAmount,
		&o.ScheduledFor, &o.AssignedTo, &o.AssignedToName, &o.GuestNotes, &o.StaffNotes,
		&o.CreatedAt, &o.UpdatedAt, &o.CompletedAt)
	return o, err
}

func scanStatusChange(row pgx.CollectableRow) (models.StatusChange, error) {
	var c models.StatusChange
	err := row.Scan(&c.OrderID, &c.Status, &c.ChangedBy, &c.ChangedAt, &c.Notes)
	return c, err
}

func logStatus(ctx context.Context, tx pgx.Tx, sql string, c models.StatusChange) error {
	if _, err := tx.Exec(ctx, sql, c.OrderID, c.Status, c.ChangedBy, c.Notes, c.ChangedAt); err != nil {
		return fmt.Errorf("insert status log: %w", err)
	}
	return nil
}

// notFound maps a missing row to models.ErrNotFound and wraps anything else
func notFound(err error, what, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NotFoundf("%s %s not found", what, id)
	}
	return fmt.Errorf("query %s %s: %w", what, id, err)
}

package database

// Migration bookkeeping
const (
	CreateMigrationsTableSQL = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			migration_name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`

	SelectMigrationsSQL = `SELECT migration_name FROM schema_migrations`

	InsertMigrationSQL = `INSERT INTO schema_migrations (migration_name) VALUES ($1)`
)

// Catalog queries
const (
	InsertAmenitySQL = `
		INSERT INTO amenities (id, name, description, price, category, duration_minutes, available, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	amenityColumns = `id, name, description, price, category, duration_minutes, available, image_url, created_at`

	GetAmenitySQL = `SELECT ` + amenityColumns + ` FROM amenities WHERE id = $1`

	ListAmenitiesSQL = `
		SELECT ` + amenityColumns + ` FROM amenities
		WHERE ($1::text IS NULL OR category = $1)
		  AND ($2::boolean IS NULL OR available = $2)
		ORDER BY category, name, seq`

	InsertMenuItemSQL = `
		INSERT INTO menu_items (id, name, description, price, category, available, image_url, preparation_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	menuItemColumns = `id, name, description, price, category, available, image_url, preparation_time, created_at`

	GetMenuItemsSQL = `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = ANY($1)`

	ListMenuItemsSQL = `
		SELECT ` + menuItemColumns + ` FROM menu_items
		WHERE ($1::text IS NULL OR category = $1)
		  AND ($2::boolean IS NULL OR available = $2)
		ORDER BY category, name, seq`
)

// Amenity order queries
const (
	InsertAmenityOrderSQL = `
		INSERT INTO amenity_orders (id, guest_id, guest_name, amenity_id, amenity_name, status, total_amount,
			scheduled_for, assigned_to, assigned_to_name, guest_notes, staff_notes, created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	UpdateAmenityOrderSQL = `
		UPDATE amenity_orders SET status = $2, assigned_to = $3, assigned_to_name = $4,
			staff_notes = $5, updated_at = $6, completed_at = $7
		WHERE id = $1`

	amenityOrderColumns = `id, guest_id, guest_name, amenity_id, amenity_name, status, total_amount,
		scheduled_for, assigned_to, assigned_to_name, guest_notes, staff_notes, created_at, updated_at, completed_at`

	GetAmenityOrderSQL = `SELECT ` + amenityOrderColumns + ` FROM amenity_orders WHERE id = $1`

	ListAmenityOrdersSQL = `
		SELECT ` + amenityOrderColumns + ` FROM amenity_orders
		WHERE ($1::text IS NULL OR guest_id = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC, seq DESC`

	InsertAmenityStatusLogSQL = `
		INSERT INTO amenity_order_status_log (order_id, status, changed_by, notes, changed_at)
		VALUES ($1, $2, $3, $4, $5)`

	GetAmenityStatusHistorySQL = `
		SELECT order_id, status, changed_by, changed_at, notes
		FROM amenity_order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC`
)

// Restaurant order queries
const (
	InsertRestaurantOrderSQL = `
		INSERT INTO restaurant_orders (id, guest_id, room_number, order_type, items, status, total_amount,
			estimated_preparation_time, special_requests, created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	UpdateRestaurantOrderSQL = `
		UPDATE restaurant_orders SET status = $2, updated_at = $3, completed_at = $4
		WHERE id = $1`

	restaurantOrderColumns = `id, guest_id, room_number, order_type, items, status, total_amount,
		estimated_preparation_time, special_requests, created_at, updated_at, completed_at`

	GetRestaurantOrderSQL = `SELECT ` + restaurantOrderColumns + ` FROM restaurant_orders WHERE id = $1`

	ListRestaurantOrdersSQL = `
		SELECT ` + restaurantOrderColumns + ` FROM restaurant_orders
		WHERE ($1::text IS NULL OR guest_id = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC, seq DESC`

	InsertRestaurantStatusLogSQL = `
		INSERT INTO restaurant_order_status_log (order_id, status, changed_by, notes, changed_at)
		VALUES ($1, $2, $3, $4, $5)`

	GetRestaurantStatusHistorySQL = `
		SELECT order_id, status, changed_by, changed_at, notes
		FROM restaurant_order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC`
)

// Reservation queries
const (
	InsertReservationSQL = `
		INSERT INTO table_reservations (id, guest_id, guest_name, persons_count, reservation_date, reservation_time,
			table_number, status, special_requests, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	reservationColumns = `id, guest_id, guest_name, persons_count, reservation_date, reservation_time,
		table_number, status, special_requests, created_at`

	GetReservationSQL = `SELECT ` + reservationColumns + ` FROM table_reservations WHERE id = $1`

	ListReservationsSQL = `
		SELECT ` + reservationColumns + ` FROM table_reservations
		WHERE ($1::text IS NULL OR guest_id = $1)
		ORDER BY reservation_date ASC, reservation_time ASC, seq ASC`
)

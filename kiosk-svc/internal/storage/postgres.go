package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ai-kiosk/kiosk-svc/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS stores (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id SERIAL PRIMARY KEY,
		store_id INTEGER NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		price NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		store_id INTEGER REFERENCES stores(id) ON DELETE SET NULL,
		store_name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		qr_code BYTEA,
		pickup_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		menu_item_id INTEGER NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		UNIQUE (order_id, menu_item_id)
	)`,
	"ALTER TABLE IF EXISTS orders ADD COLUMN IF NOT EXISTS qr_code BYTEA",
	"ALTER TABLE IF EXISTS orders ADD COLUMN IF NOT EXISTS pickup_at TIMESTAMPTZ",
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func (r *PostgresRepository) CreateStore(ctx context.Context, store *domain.Store) error {
	return r.DB.QueryRowContext(ctx,
		"INSERT INTO stores (name, description) VALUES ($1, $2) RETURNING id, created_at",
		store.Name, store.Description,
	).Scan(&store.ID, &store.CreatedAt)
}

func (r *PostgresRepository) ListStores(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), created_at
		FROM stores
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		var store domain.Store
		if err := rows.Scan(&store.ID, &store.Name, &store.Description, &store.CreatedAt); err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}
	return stores, rows.Err()
}

func (r *PostgresRepository) DeleteStore(ctx context.Context, id int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM stores WHERE id=$1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (store_id, name, price)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, (SELECT name FROM stores WHERE id = $1)`,
		item.StoreID, item.Name, item.Price,
	).Scan(&item.ID, &item.CreatedAt, &item.StoreName)
}

const menuColumns = `
	SELECT m.id, m.store_id, s.name, m.name, m.price, m.created_at
	FROM menu_items m
	JOIN stores s ON s.id = m.store_id`

// ListMenuItems returns every item grouped by store, in insertion order.
func (r *PostgresRepository) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	return r.queryMenu(ctx, menuColumns+" ORDER BY m.store_id, m.id")
}

func (r *PostgresRepository) ListStoreMenu(ctx context.Context, storeID int) ([]domain.MenuItem, error) {
	return r.queryMenu(ctx, menuColumns+" WHERE m.store_id = $1 ORDER BY m.id", storeID)
}

func (r *PostgresRepository) queryMenu(ctx context.Context, query string, args ...any) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.StoreID, &item.StoreName, &item.Name, &item.Price, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	return loadOrder(ctx, r.DB, id)
}

func loadOrder(ctx context.Context, q queryer, id int) (*domain.Order, error) {
	var order domain.Order
	var storeID sql.NullInt64
	var pickupAt sql.NullTime
	err := q.QueryRowContext(ctx, `
		SELECT id, store_id, store_name, status, created_at, updated_at, pickup_at
		FROM orders WHERE id = $1`, id).
		Scan(&order.ID, &storeID, &order.StoreName, &order.Status, &order.CreatedAt, &order.UpdatedAt, &pickupAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	order.StoreID = int(storeID.Int64)
	if pickupAt.Valid {
		order.PickupAt = &pickupAt.Time
	}

	rows, err := q.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.menu_item_id, m.name, m.price, oi.quantity
		FROM order_items oi
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.MenuItemID, &line.Name, &line.Price, &line.Quantity); err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, line)
	}
	return &order, rows.Err()
}

// AddLine runs in one transaction: the order is created when orderID is 0, and
// an existing line for the same item has its quantity increased.
func (r *PostgresRepository) AddLine(ctx context.Context, orderID int, item domain.MenuItem, quantity int) (*domain.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if orderID == 0 {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (store_id, store_name, status)
			VALUES ($1, $2, $3)
			RETURNING id`, item.StoreID, item.StoreName, domain.OrderPending).Scan(&orderID); err != nil {
			return nil, fmt.Errorf("create order: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_items (order_id, menu_item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_id, menu_item_id)
		DO UPDATE SET quantity = order_items.quantity + EXCLUDED.quantity`,
		orderID, item.ID, quantity); err != nil {
		return nil, fmt.Errorf("upsert line: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE orders SET updated_at = NOW() WHERE id = $1", orderID); err != nil {
		return nil, err
	}

	order, err := loadOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	return order, tx.Commit()
}

func (r *PostgresRepository) RemoveLine(ctx context.Context, orderID, menuItemID int) (*domain.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM order_items WHERE order_id = $1 AND menu_item_id = $2", orderID, menuItemID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE orders SET updated_at = NOW() WHERE id = $1", orderID); err != nil {
		return nil, err
	}

	order, err := loadOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	return order, tx.Commit()
}

func (r *PostgresRepository) CompleteOrder(ctx context.Context, orderID int, qr []byte, pickupAt time.Time) error {
	return r.setStatus(ctx, `
		UPDATE orders SET status = $1, qr_code = $2, pickup_at = $3, updated_at = NOW()
		WHERE id = $4`, domain.OrderCompleted, qr, pickupAt, orderID)
}

func (r *PostgresRepository) CancelOrder(ctx context.Context, orderID int) error {
	return r.setStatus(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2`, domain.OrderCancelled, orderID)
}

func (r *PostgresRepository) setStatus(ctx context.Context, query string, args ...any) error {
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	var qrCode []byte
	err := r.DB.QueryRowContext(ctx, "SELECT qr_code FROM orders WHERE id = $1", orderID).Scan(&qrCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return qrCode, nil
}

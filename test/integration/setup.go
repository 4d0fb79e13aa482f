package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Create schema
	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing. Mirrors
// migrations/001_init.sql, including the partial unique indexes that enforce
// one current price per product and one default address per user.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			telegram_id BIGINT NOT NULL UNIQUE,
			name TEXT,
			username TEXT,
			first_name TEXT,
			last_name TEXT,
			is_bot BOOLEAN NOT NULL DEFAULT FALSE,
			language_code TEXT,
			is_premium BOOLEAN NOT NULL DEFAULT FALSE,
			phone_email TEXT,
			role INT NOT NULL DEFAULT 9,
			subscribe_news BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS addresses (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			address_line TEXT NOT NULL,
			city TEXT,
			comment TEXT,
			is_default BOOLEAN NOT NULL DEFAULT FALSE
		);

		CREATE UNIQUE INDEX IF NOT EXISTS addresses_one_default_per_user
			ON addresses (user_id) WHERE is_default;

		CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			parent_id BIGINT REFERENCES categories(id),
			description TEXT
		);

		CREATE TABLE IF NOT EXISTS units (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			symbol TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			category_id BIGINT NOT NULL REFERENCES categories(id),
			unit_id BIGINT NOT NULL REFERENCES units(id),
			origin_country TEXT,
			image_url TEXT,
			description TEXT,
			stock_quantity BIGINT NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0)
		);

		CREATE TABLE IF NOT EXISTS prices (
			id BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
			is_current BOOLEAN NOT NULL DEFAULT FALSE,
			start_date TIMESTAMPTZ,
			end_date TIMESTAMPTZ,
			old_price DOUBLE PRECISION
		);

		CREATE UNIQUE INDEX IF NOT EXISTS prices_one_current_per_product
			ON prices (product_id) WHERE is_current;

		CREATE TABLE IF NOT EXISTS carts (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			id BIGSERIAL PRIMARY KEY,
			cart_id BIGINT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
			product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			quantity INT NOT NULL CHECK (quantity > 0),
			UNIQUE (cart_id, product_id)
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			order_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			status TEXT NOT NULL DEFAULT 'created',
			is_paid BOOLEAN NOT NULL DEFAULT FALSE,
			payment_method TEXT,
			delivery_type TEXT NOT NULL,
			address_id BIGINT REFERENCES addresses(id),
			total_amount DOUBLE PRECISION NOT NULL
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id BIGINT NOT NULL REFERENCES products(id),
			quantity INT NOT NULL CHECK (quantity > 0),
			price DOUBLE PRECISION NOT NULL
		);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedUser inserts a test user and returns its internal ID.
func SeedUser(t *testing.T, pool *pgxpool.Pool, telegramID int64) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO users (telegram_id, first_name) VALUES ($1, 'Test') RETURNING id
	`, telegramID).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}

// SeedProduct inserts a category, unit and product with the given stock and
// current price, returning the product ID. A negative price means no current
// price at all.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, name string, stock int64, price float64) int64 {
	t.Helper()

	ctx := context.Background()

	var categoryID int64
	err := pool.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ('Test Category') RETURNING id`).Scan(&categoryID)
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	var unitID int64
	err = pool.QueryRow(ctx,
		`INSERT INTO units (name, symbol) VALUES ('kilogram', 'kg') RETURNING id`).Scan(&unitID)
	if err != nil {
		t.Fatalf("failed to seed unit: %v", err)
	}

	var productID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO products (name, category_id, unit_id, stock_quantity)
		VALUES ($1, $2, $3, $4) RETURNING id
	`, name, categoryID, unitID, stock).Scan(&productID)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}

	if price >= 0 {
		_, err = pool.Exec(ctx, `
			INSERT INTO prices (product_id, price, is_current, start_date)
			VALUES ($1, $2, true, now())
		`, productID, price)
		if err != nil {
			t.Fatalf("failed to seed price: %v", err)
		}
	}

	return productID
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "cart_items", "carts", "prices", "products", "units", "categories", "addresses", "users"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

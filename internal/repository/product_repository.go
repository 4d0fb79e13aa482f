package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"green-basket/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements ProductRepository using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// List retrieves all products joined with their current price and unit symbol.
func (r *productRepository) List(ctx context.Context) ([]model.ProductView, error) {
	query := `
		SELECT p.id, p.name, p.category_id, u.symbol, pr.price, pr.old_price, p.image_url, p.stock_quantity
		FROM products p
		JOIN units u ON u.id = p.unit_id
		JOIN prices pr ON pr.product_id = p.id AND pr.is_current
		ORDER BY p.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.ProductView
	for rows.Next() {
		var p model.ProductView
		err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &p.UnitSymbol, &p.Price, &p.OldPrice, &p.ImageURL, &p.StockQuantity)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT id, name, category_id, unit_id, origin_country, image_url, description, stock_quantity
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.CategoryID, &p.UnitID,
		&p.OriginCountry, &p.ImageURL, &p.Description, &p.StockQuantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, model.ErrProductNotFound
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Create inserts a product after validating its category and unit references.
func (r *productRepository) Create(ctx context.Context, data model.ProductCreate) (*model.Product, error) {
	if err := r.checkReference(ctx, "categories", data.CategoryID, model.ErrCategoryNotFound); err != nil {
		return nil, err
	}
	if err := r.checkReference(ctx, "units", data.UnitID, model.ErrUnitNotFound); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO products (name, category_id, unit_id, origin_country, image_url, description, stock_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	p := model.Product{
		Name:          data.Name,
		CategoryID:    data.CategoryID,
		UnitID:        data.UnitID,
		OriginCountry: data.OriginCountry,
		ImageURL:      data.ImageURL,
		Description:   data.Description,
		StockQuantity: data.StockQuantity,
	}
	err := r.pool.QueryRow(ctx, query,
		data.Name, data.CategoryID, data.UnitID,
		data.OriginCountry, data.ImageURL, data.Description, data.StockQuantity,
	).Scan(&p.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("name", data.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Int64("product_id", p.ID).Msg("product created")

	return &p, nil
}

// Update applies the non-nil fields of data to the product.
func (r *productRepository) Update(ctx context.Context, id int64, data model.ProductUpdate) (*model.Product, error) {
	if data.CategoryID != nil {
		if err := r.checkReference(ctx, "categories", *data.CategoryID, model.ErrCategoryNotFound); err != nil {
			return nil, err
		}
	}
	if data.UnitID != nil {
		if err := r.checkReference(ctx, "units", *data.UnitID, model.ErrUnitNotFound); err != nil {
			return nil, err
		}
	}

	var set []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if data.Name != nil {
		add("name", *data.Name)
	}
	if data.CategoryID != nil {
		add("category_id", *data.CategoryID)
	}
	if data.UnitID != nil {
		add("unit_id", *data.UnitID)
	}
	if data.OriginCountry != nil {
		add("origin_country", *data.OriginCountry)
	}
	if data.ImageURL != nil {
		add("image_url", *data.ImageURL)
	}
	if data.Description != nil {
		add("description", *data.Description)
	}
	if data.StockQuantity != nil {
		add("stock_quantity", *data.StockQuantity)
	}

	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE products SET %s
		WHERE id = $%d
		RETURNING id, name, category_id, unit_id, origin_country, image_url, description, stock_quantity
	`, strings.Join(set, ", "), len(args))

	var p model.Product
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.Name, &p.CategoryID, &p.UnitID,
		&p.OriginCountry, &p.ImageURL, &p.Description, &p.StockQuantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &p, nil
}

// Delete removes a product.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// CurrentPrice returns the current price of a product, or nil when absent.
func (r *productRepository) CurrentPrice(ctx context.Context, productID int64) (*float64, error) {
	var price float64
	err := r.pool.QueryRow(ctx,
		`SELECT price FROM prices WHERE product_id = $1 AND is_current`, productID,
	).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to query current price")
		return nil, fmt.Errorf("failed to query current price: %w", err)
	}
	return &price, nil
}

// SetCurrentPrice appends a new current price entry, retiring the previous
// one. The product row is locked so concurrent writers serialize and readers
// never observe zero or two current prices.
func (r *productRepository) SetCurrentPrice(ctx context.Context, productID int64, newPrice float64) (*model.Price, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}

	now := time.Now()

	var oldPrice *float64
	var previous float64
	err = tx.QueryRow(ctx, `
		UPDATE prices SET is_current = false, end_date = $2
		WHERE product_id = $1 AND is_current
		RETURNING price
	`, productID, now).Scan(&previous)
	switch {
	case err == nil:
		oldPrice = &previous
	case errors.Is(err, pgx.ErrNoRows):
		// first price for this product
	default:
		return nil, fmt.Errorf("failed to retire current price: %w", err)
	}

	price := model.Price{
		ProductID: productID,
		Price:     newPrice,
		IsCurrent: true,
		StartDate: &now,
		OldPrice:  oldPrice,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO prices (product_id, price, is_current, start_date, old_price)
		VALUES ($1, $2, true, $3, $4)
		RETURNING id
	`, productID, newPrice, now, oldPrice).Scan(&price.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert price: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit price change: %w", err)
	}

	r.logger.Info().
		Int64("product_id", productID).
		Float64("price", newPrice).
		Msg("current price updated")

	return &price, nil
}

// checkReference verifies a foreign row exists, mapping absence to notFound.
func (r *productRepository) checkReference(ctx context.Context, table string, id int64, notFound error) error {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check %s reference: %w", table, err)
	}
	if !exists {
		return notFound
	}
	return nil
}

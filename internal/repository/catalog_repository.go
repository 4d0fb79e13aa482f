package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"green-basket/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// catalogRepository implements CatalogRepository using PostgreSQL.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, parent_id, description FROM categories ORDER BY id`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func (r *catalogRepository) CreateCategory(ctx context.Context, data model.CategoryCreate) (*model.Category, error) {
	c := model.Category{Name: data.Name, ParentID: data.ParentID, Description: data.Description}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name, parent_id, description) VALUES ($1, $2, $3) RETURNING id`,
		data.Name, data.ParentID, data.Description,
	).Scan(&c.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("name", data.Name).Msg("failed to create category")
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &c, nil
}

func (r *catalogRepository) UpdateCategory(ctx context.Context, id int64, data model.CategoryUpdate) (*model.Category, error) {
	var set []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if data.Name != nil {
		add("name", *data.Name)
	}
	if data.ParentID != nil {
		add("parent_id", *data.ParentID)
	}
	if data.Description != nil {
		add("description", *data.Description)
	}

	if len(set) == 0 {
		var c model.Category
		err := r.pool.QueryRow(ctx, `SELECT id, name, parent_id, description FROM categories WHERE id = $1`, id).
			Scan(&c.ID, &c.Name, &c.ParentID, &c.Description)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query category: %w", err)
		}
		return &c, nil
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE categories SET %s WHERE id = $%d RETURNING id, name, parent_id, description`,
		strings.Join(set, ", "), len(args),
	)

	var c model.Category
	err := r.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.ParentID, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		r.logger.Error().Err(err).Int64("category_id", id).Msg("failed to update category")
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &c, nil
}

func (r *catalogRepository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("category_id", id).Msg("failed to delete category")
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

func (r *catalogRepository) ListUnits(ctx context.Context) ([]model.Unit, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, symbol FROM units ORDER BY id`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query units")
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	var units []model.Unit
	for rows.Next() {
		var u model.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.Symbol); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating units: %w", err)
	}

	return units, nil
}

func (r *catalogRepository) CreateUnit(ctx context.Context, name, symbol string) (*model.Unit, error) {
	u := model.Unit{Name: name, Symbol: symbol}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO units (name, symbol) VALUES ($1, $2) RETURNING id`,
		name, symbol,
	).Scan(&u.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("name", name).Msg("failed to create unit")
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}
	return &u, nil
}

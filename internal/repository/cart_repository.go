package repository

import (
	"context"
	"fmt"

	"green-basket/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements CartRepository using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// getOrCreateCart resolves the user's cart ID, creating the cart on first use.
func (r *cartRepository) getOrCreateCart(ctx context.Context, userID int64) (int64, error) {
	var cartID int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO carts (user_id, updated_at) VALUES ($1, now())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id
	`, userID).Scan(&cartID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get or create cart")
		return 0, fmt.Errorf("failed to get or create cart: %w", err)
	}
	return cartID, nil
}

// AddItem accumulates qty onto the (cart, product) line, creating it if absent.
func (r *cartRepository) AddItem(ctx context.Context, userID, productID int64, qty int) error {
	cartID, err := r.getOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`, cartID, productID, qty)
	if err != nil {
		r.logger.Error().Err(err).
			Int64("user_id", userID).
			Int64("product_id", productID).
			Msg("failed to add cart item")
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

// UpdateItem sets the absolute quantity of an existing line; qty <= 0 removes it.
func (r *cartRepository) UpdateItem(ctx context.Context, userID, productID int64, qty int) error {
	cartID, err := r.getOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}

	if qty <= 0 {
		tag, err := r.pool.Exec(ctx,
			`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
		if err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrCartItemNotFound
		}
		return nil
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID, qty)
	if err != nil {
		r.logger.Error().Err(err).
			Int64("user_id", userID).
			Int64("product_id", productID).
			Msg("failed to update cart item")
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	return nil
}

// RemoveItem deletes a line; no-op if absent.
func (r *cartRepository) RemoveItem(ctx context.Context, userID, productID int64) error {
	cartID, err := r.getOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// Clear deletes all lines of the user's cart.
func (r *cartRepository) Clear(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = (SELECT id FROM carts WHERE user_id = $1)
	`, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().Int64("user_id", userID).Msg("cart cleared")

	return nil
}

// FetchDetailed returns the cart lines joined with live catalogue data.
// Prices are always the current live price; unpriced products carry nil
// price and nil line total.
func (r *cartRepository) FetchDetailed(ctx context.Context, userID int64) ([]model.CartLine, error) {
	query := `
		SELECT ci.product_id, ci.quantity, p.name, u.symbol, pr.price
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		JOIN products p ON p.id = ci.product_id
		JOIN units u ON u.id = p.unit_id
		LEFT JOIN prices pr ON pr.product_id = p.id AND pr.is_current
		WHERE c.user_id = $1
		ORDER BY ci.id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var ln model.CartLine
		if err := rows.Scan(&ln.ProductID, &ln.Quantity, &ln.Name, &ln.UnitSymbol, &ln.Price); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		if ln.Price != nil {
			total := *ln.Price * float64(ln.Quantity)
			ln.LineTotal = &total
		}
		lines = append(lines, ln)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

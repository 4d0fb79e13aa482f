package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"green-basket/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements OrderRepository using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// pricedLine is an order line after validation: the stock check passed and
// the unit price has been snapshotted from the price ledger.
type pricedLine struct {
	productID int64
	quantity  int
	price     float64
}

// CreateOrder runs the whole placement sequence in one transaction.
//
// Every touched product row is locked with SELECT ... FOR UPDATE before its
// stock check, so two concurrent checkouts against the same product cannot
// both pass validation on stale stock. Validation runs over all lines, in
// input order, before any mutation; on any failure the deferred rollback
// leaves no order, item or stock change visible.
func (r *orderRepository) CreateOrder(
	ctx context.Context,
	userID int64,
	lines []model.OrderLine,
	deliveryType string,
	addressID *int64,
	paymentMethod *string,
) (*model.Order, []model.OrderItem, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Validation pass: lock, check stock, snapshot price, accumulate total.
	total := 0.0
	priced := make([]pricedLine, 0, len(lines))
	for _, ln := range lines {
		var stock int64
		err := tx.QueryRow(ctx,
			`SELECT stock_quantity FROM products WHERE id = $1 FOR UPDATE`, ln.ProductID,
		).Scan(&stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				r.logger.Warn().Int64("product_id", ln.ProductID).Msg("order references unknown product")
				return nil, nil, model.ErrProductNotFound
			}
			return nil, nil, fmt.Errorf("failed to lock product: %w", err)
		}

		if stock < int64(ln.Quantity) {
			r.logger.Warn().
				Int64("product_id", ln.ProductID).
				Int64("stock", stock).
				Int("requested", ln.Quantity).
				Msg("insufficient stock")
			return nil, nil, model.ErrInsufficientStock
		}

		var price float64
		err = tx.QueryRow(ctx,
			`SELECT price FROM prices WHERE product_id = $1 AND is_current`, ln.ProductID,
		).Scan(&price)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				r.logger.Warn().Int64("product_id", ln.ProductID).Msg("no current price for product")
				return nil, nil, model.ErrPriceUnavailable
			}
			return nil, nil, fmt.Errorf("failed to query current price: %w", err)
		}

		total += price * float64(ln.Quantity)
		priced = append(priced, pricedLine{productID: ln.ProductID, quantity: ln.Quantity, price: price})
	}

	// Mutation pass: order header, item snapshots, stock decrements.
	order := &model.Order{
		ID:            uuid.New(),
		UserID:        userID,
		OrderDate:     time.Now(),
		Status:        model.OrderStatusCreated,
		IsPaid:        false,
		PaymentMethod: paymentMethod,
		DeliveryType:  deliveryType,
		AddressID:     addressID,
		TotalAmount:   total,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, order_date, status, is_paid, payment_method, delivery_type, address_id, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, order.ID, order.UserID, order.OrderDate, order.Status, order.IsPaid,
		order.PaymentMethod, order.DeliveryType, order.AddressID, order.TotalAmount)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, nil, fmt.Errorf("failed to create order: %w", err)
	}

	items := make([]model.OrderItem, len(priced))
	batch := &pgx.Batch{}
	for i, pl := range priced {
		items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: pl.productID,
			Quantity:  pl.quantity,
			Price:     pl.price,
		}
		batch.Queue(
			`INSERT INTO order_items (id, order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4, $5)`,
			items[i].ID, items[i].OrderID, items[i].ProductID, items[i].Quantity, items[i].Price,
		)
		batch.Queue(
			`UPDATE products SET stock_quantity = stock_quantity - $2 WHERE id = $1`,
			pl.productID, pl.quantity,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to persist order items")
			return nil, nil, fmt.Errorf("failed to persist order items: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return nil, nil, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit order")
		return nil, nil, fmt.Errorf("failed to commit order: %w", err)
	}

	r.logger.Info().
		Str("order_id", order.ID.String()).
		Int64("user_id", userID).
		Int("item_count", len(items)).
		Float64("total_amount", total).
		Msg("order created")

	return order, items, nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	orderQuery := `
		SELECT id, user_id, order_date, status, is_paid, payment_method, delivery_type, address_id, total_amount
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID, &order.UserID, &order.OrderDate, &order.Status, &order.IsPaid,
		&order.PaymentMethod, &order.DeliveryType, &order.AddressID, &order.TotalAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, model.ErrOrderNotFound
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order items")
		return nil, nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return &order, items, nil
}

// ListByUser retrieves all orders of a user, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `
		SELECT id, user_id, order_date, status, is_paid, payment_method, delivery_type, address_id, total_amount
		FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		err := rows.Scan(&o.ID, &o.UserID, &o.OrderDate, &o.Status, &o.IsPaid,
			&o.PaymentMethod, &o.DeliveryType, &o.AddressID, &o.TotalAmount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

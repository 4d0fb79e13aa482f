package integration

import (
	"context"
	"sync"
	"testing"

	"green-basket/internal/model"
	"green-basket/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository_CreateOrder_Success(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := SeedUser(t, db.Pool, 100)
	productID := SeedProduct(t, db.Pool, "Apples", 10, 2.50)

	orders := repository.NewOrderRepository(db.Pool, logger)

	order, items, err := orders.CreateOrder(ctx, userID,
		[]model.OrderLine{{ProductID: productID, Quantity: 4}},
		model.DeliveryTypePickup, nil, nil)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, model.OrderStatusCreated, order.Status)
	assert.InDelta(t, 10.00, order.TotalAmount, 0.0001)
	require.Len(t, items, 1)
	assert.Equal(t, 2.50, items[0].Price)
	assert.Equal(t, 4, items[0].Quantity)

	// Stock was decremented by the reservation.
	var stock int64
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&stock))
	assert.Equal(t, int64(6), stock)

	// The order is retrievable with its snapshot.
	got, gotItems, err := orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	require.Len(t, gotItems, 1)
	assert.Equal(t, 2.50, gotItems[0].Price)
}

func TestOrderRepository_CreateOrder_InsufficientStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := SeedUser(t, db.Pool, 100)
	productID := SeedProduct(t, db.Pool, "Apples", 3, 2.50)

	orders := repository.NewOrderRepository(db.Pool, logger)

	order, items, err := orders.CreateOrder(ctx, userID,
		[]model.OrderLine{{ProductID: productID, Quantity: 5}},
		model.DeliveryTypePickup, nil, nil)

	require.Error(t, err)
	assert.Equal(t, model.ErrInsufficientStock, err)
	assert.Nil(t, order)
	assert.Nil(t, items)

	// Nothing was committed: stock intact, no order rows.
	var stock int64
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&stock))
	assert.Equal(t, int64(3), stock)

	var orderCount int
	require.NoError(t, db.Pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&orderCount))
	assert.Zero(t, orderCount)
}

func TestOrderRepository_CreateOrder_AtomicAcrossLines(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := SeedUser(t, db.Pool, 100)
	okProduct := SeedProduct(t, db.Pool, "Apples", 10, 2.50)
	// No current price for this one.
	unpriced := SeedProduct(t, db.Pool, "New Arrival", 10, -1)

	orders := repository.NewOrderRepository(db.Pool, logger)

	_, _, err := orders.CreateOrder(ctx, userID,
		[]model.OrderLine{
			{ProductID: okProduct, Quantity: 2},
			{ProductID: unpriced, Quantity: 1},
		},
		model.DeliveryTypePickup, nil, nil)

	require.Error(t, err)
	assert.Equal(t, model.ErrPriceUnavailable, err)

	// The first line's stock must not have been touched.
	var stock int64
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT stock_quantity FROM products WHERE id = $1`, okProduct).Scan(&stock))
	assert.Equal(t, int64(10), stock)

	var itemCount int
	require.NoError(t, db.Pool.QueryRow(ctx, `SELECT count(*) FROM order_items`).Scan(&itemCount))
	assert.Zero(t, itemCount)
}

func TestOrderRepository_CreateOrder_ConcurrentReservations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	productID := SeedProduct(t, db.Pool, "Apples", 10, 1.00)
	orders := repository.NewOrderRepository(db.Pool, logger)

	// Six buyers racing for 3 units each against a stock of 10: at most
	// three can succeed, and stock must land exactly at 10 - 3*successes.
	const buyers = 6
	var wg sync.WaitGroup
	errs := make([]error, buyers)

	for i := 0; i < buyers; i++ {
		userID := SeedUser(t, db.Pool, int64(200+i))
		wg.Add(1)
		go func(i int, userID int64) {
			defer wg.Done()
			_, _, errs[i] = orders.CreateOrder(ctx, userID,
				[]model.OrderLine{{ProductID: productID, Quantity: 3}},
				model.DeliveryTypePickup, nil, nil)
		}(i, userID)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.Equal(t, model.ErrInsufficientStock, err)
		}
	}
	assert.Equal(t, 3, successes)

	var stock int64
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&stock))
	assert.Equal(t, int64(10-3*successes), stock)
	assert.GreaterOrEqual(t, stock, int64(0))
}

func TestProductRepository_SetCurrentPrice_Ledger(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	productID := SeedProduct(t, db.Pool, "Apples", 10, 3.40)
	products := repository.NewProductRepository(db.Pool, logger)

	price, err := products.SetCurrentPrice(ctx, productID, 2.90)
	require.NoError(t, err)
	assert.True(t, price.IsCurrent)
	assert.Equal(t, 2.90, price.Price)
	require.NotNil(t, price.OldPrice)
	assert.Equal(t, 3.40, *price.OldPrice)

	// Exactly one current entry; history survives.
	var current, total int
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM prices WHERE product_id = $1 AND is_current`, productID).Scan(&current))
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM prices WHERE product_id = $1`, productID).Scan(&total))
	assert.Equal(t, 1, current)
	assert.Equal(t, 2, total)

	// The live price is the new one.
	got, err := products.CurrentPrice(ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2.90, *got)
}

func TestCartRepository_AddItem_Accumulates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := SeedUser(t, db.Pool, 100)
	productID := SeedProduct(t, db.Pool, "Apples", 10, 2.50)

	carts := repository.NewCartRepository(db.Pool, logger)

	require.NoError(t, carts.AddItem(ctx, userID, productID, 3))
	require.NoError(t, carts.AddItem(ctx, userID, productID, 2))

	lines, err := carts.FetchDetailed(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	require.NotNil(t, lines[0].LineTotal)
	assert.InDelta(t, 12.50, *lines[0].LineTotal, 0.0001)
}

func TestCartRepository_UpdateItem_RemovesAtZero(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := SeedUser(t, db.Pool, 100)
	productID := SeedProduct(t, db.Pool, "Apples", 10, 2.50)

	carts := repository.NewCartRepository(db.Pool, logger)

	require.NoError(t, carts.AddItem(ctx, userID, productID, 3))
	require.NoError(t, carts.UpdateItem(ctx, userID, productID, 0))

	lines, err := carts.FetchDetailed(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// Updating a missing line reports it either way.
	err = carts.UpdateItem(ctx, userID, productID, 2)
	assert.Equal(t, model.ErrCartItemNotFound, err)
	err = carts.UpdateItem(ctx, userID, productID, 0)
	assert.Equal(t, model.ErrCartItemNotFound, err)
}

func TestUserRepository_DefaultAddressExclusivity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := SeedUser(t, db.Pool, 100)
	users := repository.NewUserRepository(db.Pool, logger)

	first, err := users.CreateAddress(ctx, userID, model.AddressCreate{AddressLine: "12 Main St", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := users.CreateAddress(ctx, userID, model.AddressCreate{AddressLine: "3 Side Rd", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	// The first default was unset when the second took over.
	addresses, err := users.ListAddresses(ctx, userID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)

	defaults := 0
	for _, a := range addresses {
		if a.IsDefault {
			defaults++
			assert.Equal(t, second.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestUserRepository_GetOrCreateMerge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	users := repository.NewUserRepository(db.Pool, logger)

	name := "Ann"
	created, err := users.Create(ctx, 555, model.UserProfile{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, created.Role)

	// Partial update leaves other fields alone.
	username := "ann_lee"
	updated, err := users.Update(ctx, created.ID, model.UserProfile{Username: &username})
	require.NoError(t, err)
	require.NotNil(t, updated.FirstName)
	assert.Equal(t, "Ann", *updated.FirstName)
	require.NotNil(t, updated.Username)
	assert.Equal(t, "ann_lee", *updated.Username)
}

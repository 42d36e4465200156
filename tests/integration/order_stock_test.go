//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/dripnest/storefront/internal/domain/catalog"
	"github.com/dripnest/storefront/internal/domain/identity"
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/domain/shared/valueobject"
	"github.com/dripnest/storefront/internal/domain/trade"
	"github.com/dripnest/storefront/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFixture struct {
	db       *TestDB
	products *persistence.GormProductRepository
	orders   *persistence.GormOrderRepository
	users    *persistence.GormUserRepository
}

func newStoreFixture(t *testing.T) *storeFixture {
	db := NewTestDB(t)
	return &storeFixture{
		db:       db,
		products: persistence.NewGormProductRepository(db.DB),
		orders:   persistence.NewGormOrderRepository(db.DB),
		users:    persistence.NewGormUserRepository(db.DB),
	}
}

func (f *storeFixture) customer(t *testing.T, email string) *identity.User {
	t.Helper()
	user, err := identity.NewUser("Casey Buyer", email, "secret123")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *storeFixture) product(t *testing.T, name, price string, stock int) *catalog.Product {
	t.Helper()
	desc := name + " tee"
	category := catalog.CategoryComic
	p := decimal.RequireFromString(price)
	product, err := catalog.NewProduct(catalog.ProductAttributes{
		Name:        &name,
		Description: &desc,
		Price:       &p,
		Category:    &category,
		Sizes:       []catalog.Size{catalog.SizeM},
		Colors:      []string{"black"},
		Stock:       &stock,
	})
	require.NoError(t, err)
	require.NoError(t, f.products.Create(context.Background(), product))
	return product
}

func (f *storeFixture) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func newOrder(t *testing.T, user *identity.User, lines map[*catalog.Product]int) *trade.Order {
	t.Helper()
	address := valueobject.MustNewAddress("1 Main St", "Springfield", "IL", "62701")

	items := make([]trade.OrderItem, 0, len(lines))
	for p, qty := range lines {
		items = append(items, trade.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Size:      catalog.SizeM,
			Color:     "black",
			Quantity:  qty,
			Price:     p.Price,
		})
	}
	order, err := trade.NewOrder(trade.NewOrderInput{
		UserID:          user.ID,
		Items:           items,
		ShippingAddress: address,
		BillingAddress:  address,
		PaymentMethod:   trade.PaymentMethod{Type: trade.PaymentTypeStripe},
		Tax:             decimal.Zero,
		ShippingCost:    decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)
	return order
}

// cartOf orders one unit of each product, keeping the lines in the given sequence
func cartOf(t *testing.T, user *identity.User, products ...*catalog.Product) *trade.Order {
	t.Helper()
	lines := make(map[*catalog.Product]int, len(products))
	position := make(map[uuid.UUID]int, len(products))
	for i, p := range products {
		lines[p] = 1
		position[p.ID] = i
	}
	order := newOrder(t, user, lines)
	slices.SortFunc(order.Items, func(a, b trade.OrderItem) int {
		return position[a.ProductID] - position[b.ProductID]
	})
	return order
}

func TestPlaceOrder_ConcurrentBuyersForLastUnits(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	const (
		initialStock = 5
		buyers       = 20
	)
	hoodie := f.product(t, "Hoodie", "49.99", initialStock)

	orders := make([]*trade.Order, buyers)
	for i := range orders {
		user := f.customer(t, fmt.Sprintf("buyer%d@example.com", i))
		orders[i] = newOrder(t, user, map[*catalog.Product]int{hoodie: 1})
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		placed     int
		outOfStock int
		unexpected []error
	)
	start := make(chan struct{})
	for _, order := range orders {
		wg.Add(1)
		go func(order *trade.Order) {
			defer wg.Done()
			<-start

			err := f.orders.PlaceOrder(ctx, order)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				placed++
			case errors.Is(err, shared.ErrInsufficientStock):
				outOfStock++
			default:
				unexpected = append(unexpected, err)
			}
		}(order)
	}
	close(start)
	wg.Wait()

	require.Empty(t, unexpected)
	assert.Equal(t, initialStock, placed)
	assert.Equal(t, buyers-initialStock, outOfStock)
	assert.Equal(t, 0, f.stock(t, hoodie.ID))

	count, err := f.orders.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, initialStock, count)
}

func TestPlaceOrder_ReversedCartsDoNotDeadlock(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	const (
		initialStock = 15
		buyers       = 20
	)
	tee := f.product(t, "Tee", "20.00", initialStock)
	beanie := f.product(t, "Beanie", "12.00", initialStock)

	orders := make([]*trade.Order, buyers)
	for i := range orders {
		user := f.customer(t, fmt.Sprintf("pair%d@example.com", i))
		if i%2 == 0 {
			orders[i] = cartOf(t, user, tee, beanie)
		} else {
			orders[i] = cartOf(t, user, beanie, tee)
		}
	}
	require.Equal(t, tee.ID, orders[0].Items[0].ProductID)
	require.Equal(t, beanie.ID, orders[1].Items[0].ProductID)

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		placed     int
		outOfStock int
		unexpected []error
	)
	start := make(chan struct{})
	for _, order := range orders {
		wg.Add(1)
		go func(order *trade.Order) {
			defer wg.Done()
			<-start

			err := f.orders.PlaceOrder(ctx, order)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				placed++
			case errors.Is(err, shared.ErrInsufficientStock):
				outOfStock++
			default:
				unexpected = append(unexpected, err)
			}
		}(order)
	}
	close(start)
	wg.Wait()

	require.Empty(t, unexpected)
	assert.Equal(t, initialStock, placed)
	assert.Equal(t, buyers-initialStock, outOfStock)
	assert.Equal(t, 0, f.stock(t, tee.ID))
	assert.Equal(t, 0, f.stock(t, beanie.ID))
}

func TestPlaceOrder_ShortItemRollsBackWholeOrder(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	user := f.customer(t, "casey@example.com")
	shirt := f.product(t, "Shirt", "20.00", 10)
	beanie := f.product(t, "Beanie", "15.00", 1)

	err := f.orders.PlaceOrder(ctx, newOrder(t, user, map[*catalog.Product]int{shirt: 3, beanie: 2}))

	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, "Insufficient stock for Beanie", err.Error())
	assert.Equal(t, 10, f.stock(t, shirt.ID))
	assert.Equal(t, 1, f.stock(t, beanie.ID))
}

func TestCancelOrder_ReturnsStock(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	user := f.customer(t, "casey@example.com")
	shirt := f.product(t, "Shirt", "20.00", 4)

	order := newOrder(t, user, map[*catalog.Product]int{shirt: 3})
	require.NoError(t, f.orders.PlaceOrder(ctx, order))
	require.Equal(t, 1, f.stock(t, shirt.ID))

	require.NoError(t, order.Cancel())
	require.NoError(t, f.orders.CancelOrder(ctx, order))

	assert.Equal(t, 4, f.stock(t, shirt.ID))
	found, err := f.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStatusCancelled, found.Status)
}

func TestCancelOrder_ConcurrentCancelsRestockOnce(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	user := f.customer(t, "casey@example.com")
	shirt := f.product(t, "Shirt", "20.00", 5)

	order := newOrder(t, user, map[*catalog.Product]int{shirt: 3})
	require.NoError(t, f.orders.PlaceOrder(ctx, order))
	require.Equal(t, 2, f.stock(t, shirt.ID))

	const attempts = 4
	copies := make([]*trade.Order, attempts)
	for i := range copies {
		c, err := f.orders.FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.NoError(t, c.Cancel())
		copies[i] = c
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		cancelled  int
		lost       int
		unexpected []error
	)
	start := make(chan struct{})
	for _, c := range copies {
		wg.Add(1)
		go func(c *trade.Order) {
			defer wg.Done()
			<-start

			err := f.orders.CancelOrder(ctx, c)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				cancelled++
			case errors.Is(err, trade.ErrOrderModified):
				lost++
			default:
				unexpected = append(unexpected, err)
			}
		}(c)
	}
	close(start)
	wg.Wait()

	require.Empty(t, unexpected)
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, attempts-1, lost)
	assert.Equal(t, 5, f.stock(t, shirt.ID))
}

func TestSalesQueries(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	user := f.customer(t, "casey@example.com")
	shirt := f.product(t, "Shirt", "20.00", 50)
	hoodie := f.product(t, "Hoodie", "50.00", 50)

	paid := newOrder(t, user, map[*catalog.Product]int{shirt: 4, hoodie: 1})
	require.NoError(t, f.orders.PlaceOrder(ctx, paid))
	paid.MarkPaid(trade.PaymentResult{ID: "pi_123", Status: "succeeded"})
	require.NoError(t, f.orders.Save(ctx, paid))

	unpaid := newOrder(t, user, map[*catalog.Product]int{hoodie: 2})
	require.NoError(t, f.orders.PlaceOrder(ctx, unpaid))

	cancelled := newOrder(t, user, map[*catalog.Product]int{hoodie: 10})
	require.NoError(t, f.orders.PlaceOrder(ctx, cancelled))
	require.NoError(t, cancelled.Cancel())
	require.NoError(t, f.orders.CancelOrder(ctx, cancelled))

	total, err := f.orders.SumPaidTotal(ctx, time.Time{})
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("135.00")), total.String())

	top, err := f.orders.TopSelling(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Shirt", top[0].Name)
	assert.EqualValues(t, 4, top[0].TotalSold)
	assert.Equal(t, "Hoodie", top[1].Name)
	assert.EqualValues(t, 3, top[1].TotalSold)
	assert.True(t, top[1].TotalRevenue.Equal(decimal.RequireFromString("150.00")))

	recent, err := f.orders.CountSince(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 3, recent)
}

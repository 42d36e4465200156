package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dripnest/storefront/internal/domain/catalog"
	"github.com/dripnest/storefront/internal/domain/identity"
	"github.com/dripnest/storefront/internal/domain/shared/valueobject"
	"github.com/dripnest/storefront/internal/domain/trade"
	"github.com/dripnest/storefront/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newSQLiteDB opens an in-memory database with the storefront schema.
// A single connection keeps every query on the same in-memory database.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.ProductModel{},
		&models.ProductReviewModel{},
		&models.UserModel{},
		&models.UserAddressModel{},
		&models.WishlistItemModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
	))
	return db
}

// newMockGormDB opens GORM over sqlmock with the postgres dialect
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

func newTestProduct(t *testing.T, name string, category catalog.Category, price string, stock int) *catalog.Product {
	t.Helper()

	desc := name + " tee"
	p := decimal.RequireFromString(price)
	product, err := catalog.NewProduct(catalog.ProductAttributes{
		Name:        &name,
		Description: &desc,
		Price:       &p,
		Category:    &category,
		Sizes:       []catalog.Size{catalog.SizeM, catalog.SizeL},
		Colors:      []string{"black"},
		Tags:        []string{"cotton", name},
		Stock:       &stock,
	})
	require.NoError(t, err)
	return product
}

func newTestUser(t *testing.T, name, email string) *identity.User {
	t.Helper()

	user, err := identity.NewUser(name, email, "secret123")
	require.NoError(t, err)
	return user
}

func testAddress() valueobject.Address {
	return valueobject.MustNewAddress("1 Main St", "Springfield", "IL", "62701")
}

func newTestOrder(t *testing.T, user *identity.User, lines ...orderLine) *trade.Order {
	t.Helper()

	items := make([]trade.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = trade.OrderItem{
			ProductID: l.product.ID,
			Name:      l.product.Name,
			Size:      catalog.SizeM,
			Color:     "black",
			Quantity:  l.quantity,
			Price:     l.product.Price,
		}
	}
	order, err := trade.NewOrder(trade.NewOrderInput{
		UserID:          user.ID,
		Items:           items,
		ShippingAddress: testAddress(),
		BillingAddress:  testAddress(),
		PaymentMethod:   trade.PaymentMethod{Type: trade.PaymentTypeStripe},
		Tax:             decimal.RequireFromString("2.00"),
		ShippingCost:    decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)
	return order
}

type orderLine struct {
	product  *catalog.Product
	quantity int
}

func daysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n)
}

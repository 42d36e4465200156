package catalog

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validAttrs() ProductAttributes {
	return ProductAttributes{
		Name:        ptr("Retro Arcade Tee"),
		Description: ptr("Soft cotton tee with an 8-bit print"),
		Price:       ptr(decimal.NewFromInt(25)),
		Category:    ptr(CategoryRetro),
		Sizes:       []Size{SizeS, SizeM, SizeL},
		Stock:       ptr(40),
	}
}

func TestNewProduct(t *testing.T) {
	t.Run("creates product with defaults", func(t *testing.T) {
		p, err := NewProduct(validAttrs())
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.Equal(t, "Retro Arcade Tee", p.Name)
		assert.True(t, p.IsActive)
		assert.False(t, p.IsFeatured)
		assert.Equal(t, DesignGraphic, p.Design.Type)
		assert.Equal(t, PlacementFront, p.Design.Placement)
		assert.Equal(t, 40, p.Stock)
		assert.Regexp(t, regexp.MustCompile(`^DN-\d{6}-[0-9A-Z]{3}$`), p.SKU)
	})

	t.Run("keeps explicit sku", func(t *testing.T) {
		attrs := validAttrs()
		attrs.SKU = ptr("CUSTOM-1")
		p, err := NewProduct(attrs)
		require.NoError(t, err)
		assert.Equal(t, "CUSTOM-1", p.SKU)
	})

	t.Run("reports missing required fields together", func(t *testing.T) {
		_, err := NewProduct(ProductAttributes{})
		require.Error(t, err)
		assert.Equal(t,
			"Product name is required, Product description is required, Product price is required, Product category is required",
			err.Error())
	})

	t.Run("rejects invalid enums and negatives", func(t *testing.T) {
		attrs := validAttrs()
		attrs.Category = ptr(Category("shoes"))
		attrs.Sizes = []Size{"XXS"}
		attrs.Price = ptr(decimal.NewFromInt(-1))
		attrs.Stock = ptr(-5)

		_, err := NewProduct(attrs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Price cannot be negative")
		assert.Contains(t, err.Error(), "`shoes` is not a valid category")
		assert.Contains(t, err.Error(), "`XXS` is not a valid size")
		assert.Contains(t, err.Error(), "Stock cannot be negative")
	})

	t.Run("rejects long name", func(t *testing.T) {
		attrs := validAttrs()
		long := make([]rune, MaxNameLength+1)
		for i := range long {
			long[i] = 'a'
		}
		attrs.Name = ptr(string(long))
		_, err := NewProduct(attrs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Product name cannot be more than 100 characters")
	})
}

func TestProduct_Apply(t *testing.T) {
	p, err := NewProduct(validAttrs())
	require.NoError(t, err)

	t.Run("partial update leaves other fields", func(t *testing.T) {
		err := p.Apply(ProductAttributes{IsFeatured: ptr(true), Tags: []string{" arcade ", "", "8bit"}})
		require.NoError(t, err)
		assert.True(t, p.IsFeatured)
		assert.Equal(t, []string{"arcade", "8bit"}, p.Tags)
		assert.Equal(t, "Retro Arcade Tee", p.Name)
	})

	t.Run("failed update is atomic", func(t *testing.T) {
		err := p.Apply(ProductAttributes{Name: ptr("Renamed"), Stock: ptr(-1)})
		require.Error(t, err)
		assert.Equal(t, "Retro Arcade Tee", p.Name)
		assert.Equal(t, 40, p.Stock)
	})
}

func TestProduct_DiscountPercentage(t *testing.T) {
	tests := []struct {
		name    string
		price   int64
		compare *decimal.Decimal
		want    int
	}{
		{"no compare price", 20, nil, 0},
		{"compare below price", 20, ptr(decimal.NewFromInt(10)), 0},
		{"compare equals price", 20, ptr(decimal.NewFromInt(20)), 0},
		{"25 percent", 30, ptr(decimal.NewFromInt(40)), 25},
		{"rounds to nearest", 20, ptr(decimal.NewFromInt(30)), 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Price: decimal.NewFromInt(tt.price), ComparePrice: tt.compare}
			assert.Equal(t, tt.want, p.DiscountPercentage())
		})
	}
}

func TestProduct_AddReview(t *testing.T) {
	p, err := NewProduct(validAttrs())
	require.NoError(t, err)

	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	_, err = p.AddReview(alice, "Alice", 5, "Love it")
	require.NoError(t, err)
	assert.Equal(t, 5.0, p.Rating)
	assert.Equal(t, 1, p.NumReviews)

	_, err = p.AddReview(bob, "Bob", 4, "")
	require.NoError(t, err)
	_, err = p.AddReview(carol, "Carol", 2, "Shrunk")
	require.NoError(t, err)

	assert.InDelta(t, 11.0/3.0, p.Rating, 1e-9)
	assert.Equal(t, 3, p.NumReviews)

	t.Run("second review by same user is rejected", func(t *testing.T) {
		_, err := p.AddReview(alice, "Alice", 1, "changed my mind")
		require.Error(t, err)
		assert.Equal(t, "Product already reviewed", err.Error())
		assert.Equal(t, 3, p.NumReviews)
	})

	t.Run("rating out of range is rejected", func(t *testing.T) {
		_, err := p.AddReview(uuid.New(), "Dan", 6, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Rating cannot exceed 5")

		_, err = p.AddReview(uuid.New(), "Eve", 0, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Rating must be at least 1")
	})
}

func TestProduct_Stock(t *testing.T) {
	p := &Product{Stock: 3, Sizes: []Size{SizeM}}

	assert.True(t, p.InStock(3))
	assert.False(t, p.InStock(4))
	assert.False(t, p.InStock(0))
	assert.True(t, p.HasSize(SizeM))
	assert.False(t, p.HasSize(SizeXL))
	assert.True(t, p.IsLowStock())
}

func TestGenerateSKU(t *testing.T) {
	at := time.UnixMilli(1712345678901)
	sku := GenerateSKU(at)
	assert.Regexp(t, regexp.MustCompile(`^DN-678901-[0-9A-Z]{3}$`), sku)
}

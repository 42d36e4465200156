package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dripnest/storefront/internal/domain/catalog"
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultPageSize  = 12
	MaxPageSize      = 100
	FeaturedLimit    = 8
	featuredCacheKey = "featured"
	featuredCacheTTL = 5 * time.Minute
	uploadURLTTL     = 15 * time.Minute
)

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"rating":    "rating",
	"name":      "name",
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageStorage issues presigned uploads for product images
type ImageStorage interface {
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	PublicURL(key string) string
	DeleteObject(ctx context.Context, key string) error
	KeyFromURL(rawURL string) (string, bool)
}

// ProductCache stores rendered product listings
type ProductCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	images      ImageStorage
	cache       ProductCache
	logger      *zap.Logger
}

// ProductServiceOption configures a ProductService
type ProductServiceOption func(*ProductService)

// WithImageStorage enables presigned image uploads
func WithImageStorage(images ImageStorage) ProductServiceOption {
	return func(s *ProductService) {
		s.images = images
	}
}

// WithProductCache caches the featured listing
func WithProductCache(cache ProductCache) ProductServiceOption {
	return func(s *ProductService) {
		s.cache = cache
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) ProductServiceOption {
	return func(s *ProductService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, opts ...ProductServiceOption) *ProductService {
	s := &ProductService{
		productRepo: productRepo,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns one page of active products
func (s *ProductService) List(ctx context.Context, q ProductListQuery) (*ProductListResponse, error) {
	filter := shared.Filter{
		Page:     q.Page,
		Limit:    q.Limit,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   strings.TrimSpace(q.Search),
		Filters:  map[string]interface{}{catalog.FilterIsActive: true},
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultPageSize
	}
	filter.Limit = min(filter.Limit, MaxPageSize)
	if col, ok := sortColumns[q.SortBy]; ok {
		filter.OrderBy = col
	}
	if strings.EqualFold(q.SortOrder, "asc") {
		filter.OrderDir = "asc"
	}
	if q.Category != "" {
		filter.Filters[catalog.FilterCategory] = q.Category
	}
	if q.MinPrice != nil {
		filter.Filters[catalog.FilterMinPrice] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		filter.Filters[catalog.FilterMaxPrice] = *q.MaxPrice
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ProductListResponse{
		Products:   ToProductResponses(products),
		Pagination: shared.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

// Featured returns up to FeaturedLimit active featured products, newest first
func (s *ProductService) Featured(ctx context.Context) ([]ProductResponse, error) {
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, featuredCacheKey); err != nil {
			s.logger.Warn("Featured cache read failed", zap.Error(err))
		} else if ok {
			var cached []ProductResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	filter := shared.Filter{
		Page:     1,
		Limit:    FeaturedLimit,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters: map[string]interface{}{
			catalog.FilterIsActive:   true,
			catalog.FilterIsFeatured: true,
		},
	}
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponses(products)

	if s.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, featuredCacheKey, raw, featuredCacheTTL); err != nil {
				s.logger.Warn("Featured cache write failed", zap.Error(err))
			}
		}
	}
	return resp, nil
}

// GetByID retrieves a product with its reviews
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.attributes())
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueSKU(ctx, product.SKU, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update applies a partial update. A new stock value is stored as the difference
// from the stock that was read.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stockBefore := product.Stock
	if err := product.Apply(req.attributes()); err != nil {
		return nil, err
	}
	if req.SKU != nil {
		if err := s.ensureUniqueSKU(ctx, product.SKU, product.ID); err != nil {
			return nil, err
		}
	}
	if err := s.productRepo.Update(ctx, product, product.Stock-stockBefore); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	return s.GetByID(ctx, id)
}

// Delete removes a product and, best effort, its stored images
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)

	if s.images != nil {
		for _, img := range product.Images {
			key, ok := s.images.KeyFromURL(img)
			if !ok {
				continue
			}
			if err := s.images.DeleteObject(ctx, key); err != nil {
				s.logger.Warn("Failed to delete product image",
					zap.String("product_id", id.String()),
					zap.String("key", key),
					zap.Error(err))
			}
		}
	}
	return nil
}

// AddReview records a review by the given user and returns the updated product
func (s *ProductService) AddReview(ctx context.Context, productID, userID uuid.UUID, userName string, req AddReviewRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	review, err := product.AddReview(userID, userName, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.AddReview(ctx, review); err != nil {
		return nil, err
	}
	if product.IsFeatured {
		s.invalidate(ctx)
	}

	return s.GetByID(ctx, productID)
}

// CreateImageUploadURL presigns a PUT for a new image of the product
func (s *ProductService) CreateImageUploadURL(ctx context.Context, productID uuid.UUID, req ImageUploadRequest) (*ImageUploadResponse, error) {
	if s.images == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Image storage is not configured")
	}
	ext, ok := imageExtensions[strings.ToLower(req.ContentType)]
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unsupported image type "+req.ContentType)
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	key := path.Join("products", productID.String(), uuid.NewString()+ext)
	uploadURL, expiresAt, err := s.images.GenerateUploadURL(ctx, key, strings.ToLower(req.ContentType), uploadURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign image upload: %w", err)
	}

	return &ImageUploadResponse{
		UploadURL: uploadURL,
		Key:       key,
		PublicURL: s.images.PublicURL(key),
		ExpiresAt: expiresAt,
	}, nil
}

func (s *ProductService) ensureUniqueSKU(ctx context.Context, sku string, excludeID uuid.UUID) error {
	exists, err := s.productRepo.ExistsBySKU(ctx, sku, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, featuredCacheKey); err != nil {
		s.logger.Warn("Featured cache invalidation failed", zap.Error(err))
	}
}

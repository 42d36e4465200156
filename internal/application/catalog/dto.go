package catalog

import (
	"time"

	"github.com/dripnest/storefront/internal/domain/catalog"
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DesignInput describes the print on a product
type DesignInput struct {
	Type        string `json:"type" binding:"omitempty,oneof=graphic text custom"`
	Description string `json:"description"`
	Placement   string `json:"placement" binding:"omitempty,oneof=front back both"`
}

// DimensionsInput is the package size of a product
type DimensionsInput struct {
	Length float64 `json:"length" binding:"gte=0"`
	Width  float64 `json:"width" binding:"gte=0"`
	Height float64 `json:"height" binding:"gte=0"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name         string           `json:"name" binding:"required,max=100"`
	Description  string           `json:"description" binding:"required,max=2000"`
	Price        *decimal.Decimal `json:"price" binding:"required"`
	ComparePrice *decimal.Decimal `json:"comparePrice"`
	Images       []string         `json:"images"`
	Category     string           `json:"category" binding:"required"`
	Tags         []string         `json:"tags"`
	Sizes        []string         `json:"sizes"`
	Colors       []string         `json:"colors"`
	Design       *DesignInput     `json:"design"`
	Materials    []string         `json:"materials"`
	Care         []string         `json:"care"`
	IsActive     *bool            `json:"isActive"`
	IsFeatured   *bool            `json:"isFeatured"`
	SKU          string           `json:"sku" binding:"max=50"`
	Weight       *float64         `json:"weight" binding:"omitempty,gte=0"`
	Dimensions   *DimensionsInput `json:"dimensions"`
	Stock        *int             `json:"stock" binding:"omitempty,gte=0"`
}

// UpdateProductRequest represents a partial product update; nil fields are left as they are
type UpdateProductRequest struct {
	Name         *string          `json:"name" binding:"omitempty,max=100"`
	Description  *string          `json:"description" binding:"omitempty,max=2000"`
	Price        *decimal.Decimal `json:"price"`
	ComparePrice *decimal.Decimal `json:"comparePrice"`
	Images       []string         `json:"images"`
	Category     *string          `json:"category"`
	Tags         []string         `json:"tags"`
	Sizes        []string         `json:"sizes"`
	Colors       []string         `json:"colors"`
	Design       *DesignInput     `json:"design"`
	Materials    []string         `json:"materials"`
	Care         []string         `json:"care"`
	IsActive     *bool            `json:"isActive"`
	IsFeatured   *bool            `json:"isFeatured"`
	SKU          *string          `json:"sku" binding:"omitempty,max=50"`
	Weight       *float64         `json:"weight" binding:"omitempty,gte=0"`
	Dimensions   *DimensionsInput `json:"dimensions"`
	Stock        *int             `json:"stock" binding:"omitempty,gte=0"`
}

// AddReviewRequest is a customer review
type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required,max=500"`
}

// ImageUploadRequest asks for a presigned upload of one product image
type ImageUploadRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"contentType" binding:"required"`
}

// ImageUploadResponse carries the presigned PUT URL and where the image will be served from
type ImageUploadResponse struct {
	UploadURL string    `json:"uploadUrl"`
	Key       string    `json:"key"`
	PublicURL string    `json:"publicUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ProductListQuery holds the public catalog listing parameters
type ProductListQuery struct {
	Page      int              `form:"page"`
	Limit     int              `form:"limit"`
	Category  string           `form:"category"`
	Search    string           `form:"search"`
	MinPrice  *decimal.Decimal `form:"minPrice"`
	MaxPrice  *decimal.Decimal `form:"maxPrice"`
	SortBy    string           `form:"sortBy"`
	SortOrder string           `form:"sortOrder"`
}

// DesignResponse is the design block of a product
type DesignResponse struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Placement   string `json:"placement"`
}

// DimensionsResponse is the package size of a product
type DimensionsResponse struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ReviewResponse represents a product review
type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                 uuid.UUID           `json:"id"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	Price              decimal.Decimal     `json:"price"`
	ComparePrice       *decimal.Decimal    `json:"comparePrice,omitempty"`
	DiscountPercentage int                 `json:"discountPercentage"`
	Images             []string            `json:"images"`
	Category           string              `json:"category"`
	Tags               []string            `json:"tags"`
	Sizes              []string            `json:"sizes"`
	Colors             []string            `json:"colors"`
	Design             DesignResponse      `json:"design"`
	Materials          []string            `json:"materials"`
	Care               []string            `json:"care"`
	IsActive           bool                `json:"isActive"`
	IsFeatured         bool                `json:"isFeatured"`
	Rating             float64             `json:"rating"`
	NumReviews         int                 `json:"numReviews"`
	Reviews            []ReviewResponse    `json:"reviews"`
	SKU                string              `json:"sku"`
	Weight             *float64            `json:"weight,omitempty"`
	Dimensions         *DimensionsResponse `json:"dimensions,omitempty"`
	Stock              int                 `json:"stock"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// ProductListResponse is one page of the catalog
type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	Pagination shared.Pagination `json:"pagination"`
}

// ToProductResponse converts a domain Product to a ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	sizes := make([]string, len(p.Sizes))
	for i, s := range p.Sizes {
		sizes[i] = string(s)
	}
	reviews := make([]ReviewResponse, len(p.Reviews))
	for i, r := range p.Reviews {
		reviews[i] = ReviewResponse{
			ID:        r.ID,
			UserID:    r.UserID,
			UserName:  r.UserName,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		}
	}

	resp := ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		ComparePrice:       p.ComparePrice,
		DiscountPercentage: p.DiscountPercentage(),
		Images:             nonNil(p.Images),
		Category:           string(p.Category),
		Tags:               nonNil(p.Tags),
		Sizes:              sizes,
		Colors:             nonNil(p.Colors),
		Design: DesignResponse{
			Type:        string(p.Design.Type),
			Description: p.Design.Description,
			Placement:   string(p.Design.Placement),
		},
		Materials:  nonNil(p.Materials),
		Care:       nonNil(p.Care),
		IsActive:   p.IsActive,
		IsFeatured: p.IsFeatured,
		Rating:     p.Rating,
		NumReviews: p.NumReviews,
		Reviews:    reviews,
		SKU:        p.SKU,
		Weight:     p.Weight,
		Stock:      p.Stock,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Dimensions != nil {
		resp.Dimensions = &DimensionsResponse{
			Length: p.Dimensions.Length,
			Width:  p.Dimensions.Width,
			Height: p.Dimensions.Height,
		}
	}
	return resp
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func (r CreateProductRequest) attributes() catalog.ProductAttributes {
	attrs := catalog.ProductAttributes{
		Name:         &r.Name,
		Description:  &r.Description,
		Price:        r.Price,
		ComparePrice: r.ComparePrice,
		Images:       r.Images,
		Tags:         r.Tags,
		Sizes:        toSizes(r.Sizes),
		Colors:       r.Colors,
		Design:       toDesign(r.Design),
		Materials:    r.Materials,
		Care:         r.Care,
		IsActive:     r.IsActive,
		IsFeatured:   r.IsFeatured,
		Weight:       r.Weight,
		Dimensions:   toDimensions(r.Dimensions),
		Stock:        r.Stock,
	}
	if r.Category != "" {
		category := catalog.Category(r.Category)
		attrs.Category = &category
	}
	if r.SKU != "" {
		attrs.SKU = &r.SKU
	}
	return attrs
}

func (r UpdateProductRequest) attributes() catalog.ProductAttributes {
	attrs := catalog.ProductAttributes{
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		ComparePrice: r.ComparePrice,
		Images:       r.Images,
		Tags:         r.Tags,
		Sizes:        toSizes(r.Sizes),
		Colors:       r.Colors,
		Design:       toDesign(r.Design),
		Materials:    r.Materials,
		Care:         r.Care,
		IsActive:     r.IsActive,
		IsFeatured:   r.IsFeatured,
		SKU:          r.SKU,
		Weight:       r.Weight,
		Dimensions:   toDimensions(r.Dimensions),
		Stock:        r.Stock,
	}
	if r.Category != nil {
		category := catalog.Category(*r.Category)
		attrs.Category = &category
	}
	return attrs
}

func toSizes(in []string) []catalog.Size {
	if in == nil {
		return nil
	}
	out := make([]catalog.Size, len(in))
	for i, s := range in {
		out[i] = catalog.Size(s)
	}
	return out
}

func toDesign(in *DesignInput) *catalog.Design {
	if in == nil {
		return nil
	}
	return &catalog.Design{
		Type:        catalog.DesignType(in.Type),
		Description: in.Description,
		Placement:   catalog.DesignPlacement(in.Placement),
	}
}

func toDimensions(in *DimensionsInput) *catalog.Dimensions {
	if in == nil {
		return nil
	}
	return &catalog.Dimensions{Length: in.Length, Width: in.Width, Height: in.Height}
}

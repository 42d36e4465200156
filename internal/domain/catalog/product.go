package catalog

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Field limits
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 2000
	MaxReviewComment     = 500
	MinRating            = 1
	MaxRating            = 5

	// LowStockThreshold marks products that need restocking
	LowStockThreshold = 10
)

// Category is the product category enum
type Category string

const (
	CategoryComic          Category = "comic"
	CategoryAnime          Category = "anime"
	CategoryVintage        Category = "vintage"
	CategoryRetro          Category = "retro"
	CategoryGaming         Category = "gaming"
	CategoryMusic          Category = "music"
	CategorySports         Category = "sports"
	CategoryArt            Category = "art"
	CategoryMinimalist     Category = "minimalist"
	CategoryFunny          Category = "funny"
	CategoryGeek           Category = "geek"
	CategoryPopCulture     Category = "pop-culture"
	CategoryCustom         Category = "custom"
	CategoryLimitedEdition Category = "limited-edition"
)

// AllCategories lists every valid category
var AllCategories = []Category{
	CategoryComic, CategoryAnime, CategoryVintage, CategoryRetro, CategoryGaming,
	CategoryMusic, CategorySports, CategoryArt, CategoryMinimalist, CategoryFunny,
	CategoryGeek, CategoryPopCulture, CategoryCustom, CategoryLimitedEdition,
}

// IsValid checks if the category is one of AllCategories
func (c Category) IsValid() bool {
	return slices.Contains(AllCategories, c)
}

// Size is the garment size enum
type Size string

const (
	SizeXS   Size = "XS"
	SizeS    Size = "S"
	SizeM    Size = "M"
	SizeL    Size = "L"
	SizeXL   Size = "XL"
	SizeXXL  Size = "XXL"
	SizeXXXL Size = "XXXL"
)

// AllSizes lists every valid size in display order
var AllSizes = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL, SizeXXXL}

// IsValid checks if the size is one of AllSizes
func (s Size) IsValid() bool {
	return slices.Contains(AllSizes, s)
}

// DesignType describes how the print is made
type DesignType string

const (
	DesignGraphic DesignType = "graphic"
	DesignText    DesignType = "text"
	DesignCustom  DesignType = "custom"
)

// DesignPlacement describes where the print sits
type DesignPlacement string

const (
	PlacementFront DesignPlacement = "front"
	PlacementBack  DesignPlacement = "back"
	PlacementBoth  DesignPlacement = "both"
)

// Design holds the print details of a product
type Design struct {
	Type        DesignType
	Description string
	Placement   DesignPlacement
}

// DefaultDesign returns a front graphic design
func DefaultDesign() Design {
	return Design{Type: DesignGraphic, Placement: PlacementFront}
}

// Dimensions are the package dimensions of a product
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
}

// Product is the aggregate root of the catalog
type Product struct {
	shared.BaseAggregateRoot
	Name         string
	Description  string
	Price        decimal.Decimal
	ComparePrice *decimal.Decimal
	Images       []string
	Category     Category
	Tags         []string
	Sizes        []Size
	Colors       []string
	Design       Design
	Materials    []string
	Care         []string
	IsActive     bool
	IsFeatured   bool
	Rating       float64
	NumReviews   int
	Reviews      []Review
	SKU          string
	Weight       *float64
	Dimensions   *Dimensions
	Stock        int
}

// ProductAttributes carries the editable fields of a product.
// Nil pointers and nil slices mean "leave unchanged" on update.
type ProductAttributes struct {
	Name         *string
	Description  *string
	Price        *decimal.Decimal
	ComparePrice *decimal.Decimal
	Images       []string
	Category     *Category
	Tags         []string
	Sizes        []Size
	Colors       []string
	Design       *Design
	Materials    []string
	Care         []string
	IsActive     *bool
	IsFeatured   *bool
	SKU          *string
	Weight       *float64
	Dimensions   *Dimensions
	Stock        *int
}

// NewProduct creates a product from attributes. Name, description, price and
// category are required; a SKU is generated when none is given.
func NewProduct(attrs ProductAttributes) (*Product, error) {
	var errs shared.ValidationErrors
	errs.Check(attrs.Name == nil || strings.TrimSpace(*attrs.Name) == "", "Product name is required")
	errs.Check(attrs.Description == nil || *attrs.Description == "", "Product description is required")
	errs.Check(attrs.Price == nil, "Product price is required")
	errs.Check(attrs.Category == nil || *attrs.Category == "", "Product category is required")
	if err := errs.Err(); err != nil {
		return nil, err
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Images:            []string{},
		Tags:              []string{},
		Sizes:             []Size{},
		Colors:            []string{},
		Design:            DefaultDesign(),
		Materials:         []string{},
		Care:              []string{},
		IsActive:          true,
		Reviews:           []Review{},
	}
	if err := p.Apply(attrs); err != nil {
		return nil, err
	}
	if p.SKU == "" {
		p.SKU = GenerateSKU(time.Now())
	}
	return p, nil
}

// Apply validates and applies attributes. Either every field is applied or,
// on validation failure, the product is left untouched.
func (p *Product) Apply(attrs ProductAttributes) error {
	next := *p
	if attrs.Name != nil {
		next.Name = strings.TrimSpace(*attrs.Name)
	}
	if attrs.Description != nil {
		next.Description = *attrs.Description
	}
	if attrs.Price != nil {
		next.Price = *attrs.Price
	}
	if attrs.ComparePrice != nil {
		cp := *attrs.ComparePrice
		next.ComparePrice = &cp
	}
	if attrs.Images != nil {
		next.Images = attrs.Images
	}
	if attrs.Category != nil {
		next.Category = *attrs.Category
	}
	if attrs.Tags != nil {
		next.Tags = trimAll(attrs.Tags)
	}
	if attrs.Sizes != nil {
		next.Sizes = attrs.Sizes
	}
	if attrs.Colors != nil {
		next.Colors = attrs.Colors
	}
	if attrs.Design != nil {
		d := *attrs.Design
		if d.Type == "" {
			d.Type = DesignGraphic
		}
		if d.Placement == "" {
			d.Placement = PlacementFront
		}
		next.Design = d
	}
	if attrs.Materials != nil {
		next.Materials = attrs.Materials
	}
	if attrs.Care != nil {
		next.Care = attrs.Care
	}
	if attrs.IsActive != nil {
		next.IsActive = *attrs.IsActive
	}
	if attrs.IsFeatured != nil {
		next.IsFeatured = *attrs.IsFeatured
	}
	if attrs.SKU != nil && strings.TrimSpace(*attrs.SKU) != "" {
		next.SKU = strings.TrimSpace(*attrs.SKU)
	}
	if attrs.Weight != nil {
		w := *attrs.Weight
		next.Weight = &w
	}
	if attrs.Dimensions != nil {
		d := *attrs.Dimensions
		next.Dimensions = &d
	}
	if attrs.Stock != nil {
		next.Stock = *attrs.Stock
	}

	if err := next.validate(); err != nil {
		return err
	}
	next.Touch()
	*p = next
	return nil
}

func (p *Product) validate() error {
	var errs shared.ValidationErrors
	errs.Check(p.Name == "", "Product name is required")
	errs.Check(len([]rune(p.Name)) > MaxNameLength, "Product name cannot be more than 100 characters")
	errs.Check(p.Description == "", "Product description is required")
	errs.Check(len([]rune(p.Description)) > MaxDescriptionLength, "Description cannot be more than 2000 characters")
	errs.Check(p.Price.IsNegative(), "Price cannot be negative")
	errs.Check(p.ComparePrice != nil && p.ComparePrice.IsNegative(), "Compare price cannot be negative")
	errs.Check(!p.Category.IsValid(), "`"+string(p.Category)+"` is not a valid category")
	for _, s := range p.Sizes {
		errs.Check(!s.IsValid(), "`"+string(s)+"` is not a valid size")
	}
	errs.Check(!slices.Contains([]DesignType{DesignGraphic, DesignText, DesignCustom}, p.Design.Type),
		"`"+string(p.Design.Type)+"` is not a valid design type")
	errs.Check(!slices.Contains([]DesignPlacement{PlacementFront, PlacementBack, PlacementBoth}, p.Design.Placement),
		"`"+string(p.Design.Placement)+"` is not a valid design placement")
	errs.Check(p.Weight != nil && *p.Weight < 0, "Weight cannot be negative")
	if p.Dimensions != nil {
		errs.Check(p.Dimensions.Length < 0, "Length cannot be negative")
		errs.Check(p.Dimensions.Width < 0, "Width cannot be negative")
		errs.Check(p.Dimensions.Height < 0, "Height cannot be negative")
	}
	errs.Check(p.Stock < 0, "Stock cannot be negative")
	return errs.Err()
}

// DiscountPercentage returns the rounded discount against ComparePrice, or 0
func (p *Product) DiscountPercentage() int {
	if p.ComparePrice == nil || !p.ComparePrice.GreaterThan(p.Price) {
		return 0
	}
	cp := p.ComparePrice.InexactFloat64()
	pr := p.Price.InexactFloat64()
	return int(math.Round((cp - pr) / cp * 100))
}

// HasSize reports whether the product is offered in size
func (p *Product) HasSize(size Size) bool {
	return slices.Contains(p.Sizes, size)
}

// InStock reports whether quantity units can be taken from stock
func (p *Product) InStock(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}

// IsLowStock reports whether stock is under LowStockThreshold
func (p *Product) IsLowStock() bool {
	return p.Stock < LowStockThreshold
}

// PrimaryImage returns the first image or an empty string
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ErrAlreadyReviewed is returned for a second review by the same user
var ErrAlreadyReviewed = shared.NewDomainError("ALREADY_REVIEWED", "Product already reviewed")

// AddReview appends a review by userID and recomputes the rating.
// A user may review a product once.
func (p *Product) AddReview(userID uuid.UUID, userName string, rating int, comment string) (*Review, error) {
	for _, r := range p.Reviews {
		if r.UserID == userID {
			return nil, ErrAlreadyReviewed
		}
	}

	review, err := NewReview(p.ID, userID, userName, rating, comment)
	if err != nil {
		return nil, err
	}

	p.Reviews = append(p.Reviews, *review)
	p.RecalculateRating()
	p.Touch()
	return review, nil
}

// RecalculateRating sets Rating to the mean review rating and NumReviews to the review count
func (p *Product) RecalculateRating() {
	if len(p.Reviews) == 0 {
		p.Rating = 0
		p.NumReviews = 0
		return
	}
	total := 0
	for _, r := range p.Reviews {
		total += r.Rating
	}
	p.Rating = float64(total) / float64(len(p.Reviews))
	p.NumReviews = len(p.Reviews)
}

// GenerateSKU returns a new "DN-xxxxxx-XXX" stock keeping unit
func GenerateSKU(now time.Time) string {
	return shared.GenerateReference(now, 6, 3)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

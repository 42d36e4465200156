package models

import (
	"time"

	"github.com/dripnest/storefront/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate.
type ProductModel struct {
	BaseModel
	Name              string           `gorm:"type:varchar(100);not null"`
	Description       string           `gorm:"type:text;not null"`
	Price             decimal.Decimal  `gorm:"type:decimal(12,2);not null;index"`
	ComparePrice      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Images            StringList       `gorm:"type:jsonb;not null"`
	Category          string           `gorm:"type:varchar(30);not null;index"`
	Tags              StringList       `gorm:"type:jsonb;not null"`
	Sizes             StringList       `gorm:"type:jsonb;not null"`
	Colors            StringList       `gorm:"type:jsonb;not null"`
	DesignType        string           `gorm:"type:varchar(20);not null"`
	DesignDescription string           `gorm:"type:text"`
	DesignPlacement   string           `gorm:"type:varchar(20);not null"`
	Materials         StringList       `gorm:"type:jsonb;not null"`
	Care              StringList       `gorm:"type:jsonb;not null"`
	IsActive          bool             `gorm:"not null;index"`
	IsFeatured        bool             `gorm:"not null;index"`
	Rating            float64          `gorm:"not null"`
	NumReviews        int              `gorm:"not null"`
	SKU               string           `gorm:"column:sku;type:varchar(50);not null;uniqueIndex"`
	Weight            *float64
	Length            *float64
	Width             *float64
	Height            *float64
	Stock             int `gorm:"not null;index"`

	Reviews []ProductReviewModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseAggregateRoot: m.aggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Price:             m.Price,
		ComparePrice:      m.ComparePrice,
		Images:            nonNil(m.Images),
		Category:          catalog.Category(m.Category),
		Tags:              nonNil(m.Tags),
		Colors:            nonNil(m.Colors),
		Design: catalog.Design{
			Type:        catalog.DesignType(m.DesignType),
			Description: m.DesignDescription,
			Placement:   catalog.DesignPlacement(m.DesignPlacement),
		},
		Materials:  nonNil(m.Materials),
		Care:       nonNil(m.Care),
		IsActive:   m.IsActive,
		IsFeatured: m.IsFeatured,
		Rating:     m.Rating,
		NumReviews: m.NumReviews,
		SKU:        m.SKU,
		Weight:     m.Weight,
		Stock:      m.Stock,
		Reviews:    make([]catalog.Review, 0, len(m.Reviews)),
	}
	p.Sizes = make([]catalog.Size, 0, len(m.Sizes))
	for _, s := range m.Sizes {
		p.Sizes = append(p.Sizes, catalog.Size(s))
	}
	if m.Length != nil || m.Width != nil || m.Height != nil {
		p.Dimensions = &catalog.Dimensions{Length: deref(m.Length), Width: deref(m.Width), Height: deref(m.Height)}
	}
	for i := range m.Reviews {
		p.Reviews = append(p.Reviews, m.Reviews[i].ToDomain())
	}
	return p
}

// FromDomain populates the persistence model from a domain Product.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.ComparePrice = p.ComparePrice
	m.Images = StringList(p.Images)
	m.Category = string(p.Category)
	m.Tags = StringList(p.Tags)
	m.Sizes = make(StringList, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		m.Sizes = append(m.Sizes, string(s))
	}
	m.Colors = StringList(p.Colors)
	m.DesignType = string(p.Design.Type)
	m.DesignDescription = p.Design.Description
	m.DesignPlacement = string(p.Design.Placement)
	m.Materials = StringList(p.Materials)
	m.Care = StringList(p.Care)
	m.IsActive = p.IsActive
	m.IsFeatured = p.IsFeatured
	m.Rating = p.Rating
	m.NumReviews = p.NumReviews
	m.SKU = p.SKU
	m.Weight = p.Weight
	m.Length, m.Width, m.Height = nil, nil, nil
	if p.Dimensions != nil {
		l, w, h := p.Dimensions.Length, p.Dimensions.Width, p.Dimensions.Height
		m.Length, m.Width, m.Height = &l, &w, &h
	}
	m.Stock = p.Stock
	m.Reviews = make([]ProductReviewModel, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		m.Reviews = append(m.Reviews, ProductReviewModelFromDomain(p.ID, r))
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductReviewModel is the persistence model for a product review.
type ProductReviewModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_product_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_product_user,priority:2"`
	UserName  string    `gorm:"type:varchar(50);not null"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductReviewModel) TableName() string {
	return "product_reviews"
}

// ToDomain converts the model to a domain Review
func (m *ProductReviewModel) ToDomain() catalog.Review {
	return catalog.Review{
		ID:        m.ID,
		ProductID: m.ProductID,
		UserID:    m.UserID,
		UserName:  m.UserName,
		Rating:    m.Rating,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
	}
}

// ProductReviewModelFromDomain creates a review model for productID
func ProductReviewModelFromDomain(productID uuid.UUID, r catalog.Review) ProductReviewModel {
	return ProductReviewModel{
		ID:        r.ID,
		ProductID: productID,
		UserID:    r.UserID,
		UserName:  r.UserName,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func nonNil(l StringList) []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

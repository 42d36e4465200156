package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dripnest/storefront/internal/domain/catalog"
	"github.com/dripnest/storefront/internal/domain/shared/valueobject"
	"github.com/dripnest/storefront/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentResultJSON stores the gateway result as a JSON document
type PaymentResultJSON struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"updateTime"`
	EmailAddress string `json:"emailAddress"`
}

// Value implements driver.Valuer
func (p PaymentResultJSON) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (p *PaymentResultJSON) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("cannot scan %T into PaymentResultJSON", src)
	}
}

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	AggregateModel
	UserID            uuid.UUID           `gorm:"type:uuid;not null;index"`
	OrderNumber       string              `gorm:"type:varchar(30);not null;uniqueIndex"`
	ShippingAddress   valueobject.Address `gorm:"type:jsonb;not null"`
	BillingAddress    valueobject.Address `gorm:"type:jsonb;not null"`
	PaymentType       string              `gorm:"type:varchar(20);not null"`
	PaymentID         string              `gorm:"type:varchar(100)"`
	PaymentStatus     string              `gorm:"type:varchar(20);not null"`
	PaymentResult     *PaymentResultJSON  `gorm:"type:jsonb"`
	Subtotal          decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Tax               decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	ShippingCost      decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Total             decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Status            string              `gorm:"type:varchar(20);not null;index"`
	TrackingNumber    string              `gorm:"type:varchar(100)"`
	EstimatedDelivery *time.Time
	Notes             string `gorm:"type:varchar(500)"`
	IsPaid            bool   `gorm:"not null;index"`
	PaidAt            *time.Time
	IsDelivered       bool `gorm:"not null"`
	DeliveredAt       *time.Time

	// Filled by the users join on reads
	UserName  string `gorm:"->;-:migration"`
	UserEmail string `gorm:"->;-:migration"`

	Items []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		BaseAggregateRoot: m.aggregateRoot(),
		UserID:            m.UserID,
		UserName:          m.UserName,
		UserEmail:         m.UserEmail,
		OrderNumber:       m.OrderNumber,
		ShippingAddress:   m.ShippingAddress,
		BillingAddress:    m.BillingAddress,
		PaymentMethod: trade.PaymentMethod{
			Type:   trade.PaymentType(m.PaymentType),
			ID:     m.PaymentID,
			Status: trade.PaymentStatus(m.PaymentStatus),
		},
		Subtotal:          m.Subtotal,
		Tax:               m.Tax,
		ShippingCost:      m.ShippingCost,
		Total:             m.Total,
		Status:            trade.OrderStatus(m.Status),
		TrackingNumber:    m.TrackingNumber,
		EstimatedDelivery: m.EstimatedDelivery,
		Notes:             m.Notes,
		IsPaid:            m.IsPaid,
		PaidAt:            m.PaidAt,
		IsDelivered:       m.IsDelivered,
		DeliveredAt:       m.DeliveredAt,
		Items:             make([]trade.OrderItem, 0, len(m.Items)),
	}
	if m.PaymentResult != nil {
		o.PaymentResult = &trade.PaymentResult{
			ID:           m.PaymentResult.ID,
			Status:       m.PaymentResult.Status,
			UpdateTime:   m.PaymentResult.UpdateTime,
			EmailAddress: m.PaymentResult.EmailAddress,
		}
	}
	for i := range m.Items {
		o.Items = append(o.Items, m.Items[i].ToDomain())
	}
	return o
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.UserID = o.UserID
	m.OrderNumber = o.OrderNumber
	m.ShippingAddress = o.ShippingAddress
	m.BillingAddress = o.BillingAddress
	m.PaymentType = string(o.PaymentMethod.Type)
	m.PaymentID = o.PaymentMethod.ID
	m.PaymentStatus = string(o.PaymentMethod.Status)
	m.PaymentResult = nil
	if o.PaymentResult != nil {
		m.PaymentResult = &PaymentResultJSON{
			ID:           o.PaymentResult.ID,
			Status:       o.PaymentResult.Status,
			UpdateTime:   o.PaymentResult.UpdateTime,
			EmailAddress: o.PaymentResult.EmailAddress,
		}
	}
	m.Subtotal = o.Subtotal
	m.Tax = o.Tax
	m.ShippingCost = o.ShippingCost
	m.Total = o.Total
	m.Status = string(o.Status)
	m.TrackingNumber = o.TrackingNumber
	m.EstimatedDelivery = o.EstimatedDelivery
	m.Notes = o.Notes
	m.IsPaid = o.IsPaid
	m.PaidAt = o.PaidAt
	m.IsDelivered = o.IsDelivered
	m.DeliveredAt = o.DeliveredAt
	m.Items = make([]OrderItemModel, 0, len(o.Items))
	for _, item := range o.Items {
		m.Items = append(m.Items, OrderItemModelFromDomain(o.ID, item))
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(100);not null"`
	Image     string          `gorm:"type:text"`
	Size      string          `gorm:"type:varchar(10);not null"`
	Color     string          `gorm:"type:varchar(50);not null"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the model to a domain OrderItem
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		Name:      m.Name,
		Image:     m.Image,
		Size:      catalog.Size(m.Size),
		Color:     m.Color,
		Quantity:  m.Quantity,
		Price:     m.Price,
	}
}

// OrderItemModelFromDomain creates an item model belonging to orderID
func OrderItemModelFromDomain(orderID uuid.UUID, i trade.OrderItem) OrderItemModel {
	return OrderItemModel{
		ID:        i.ID,
		OrderID:   orderID,
		ProductID: i.ProductID,
		Name:      i.Name,
		Image:     i.Image,
		Size:      string(i.Size),
		Color:     i.Color,
		Quantity:  i.Quantity,
		Price:     i.Price,
	}
}

package trade

import (
	"time"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/domain/shared/valueobject"
	"github.com/dripnest/storefront/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddressInput is a shipping or billing address in a request
type AddressInput struct {
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	ZipCode string `json:"zipCode" binding:"required"`
	Country string `json:"country"`
}

// ToAddress validates the input into an Address
func (a AddressInput) ToAddress() (valueobject.Address, error) {
	addr, err := valueobject.AddressDTO(a).ToAddress()
	if err != nil {
		return valueobject.Address{}, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}
	return addr, nil
}

// OrderItemInput is one cart line
type OrderItemInput struct {
	Product  uuid.UUID `json:"product" binding:"required"`
	Size     string    `json:"size" binding:"required"`
	Color    string    `json:"color" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// PaymentMethodInput selects how the order will be paid
type PaymentMethodInput struct {
	Type string `json:"type" binding:"required,oneof=stripe paypal"`
	ID   string `json:"id"`
}

// CreateOrderRequest represents a checkout
type CreateOrderRequest struct {
	Items           []OrderItemInput   `json:"items" binding:"dive"`
	ShippingAddress AddressInput       `json:"shippingAddress" binding:"required"`
	BillingAddress  AddressInput       `json:"billingAddress" binding:"required"`
	PaymentMethod   PaymentMethodInput `json:"paymentMethod" binding:"required"`
	Tax             *decimal.Decimal   `json:"tax"`
	ShippingCost    *decimal.Decimal   `json:"shippingCost"`
	Notes           string             `json:"notes" binding:"max=500"`
}

// UpdateOrderStatusRequest is an admin status change
type UpdateOrderStatusRequest struct {
	Status            string     `json:"status" binding:"required"`
	TrackingNumber    string     `json:"trackingNumber"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
	Notes             string     `json:"notes" binding:"max=500"`
}

// OrderListQuery holds the order listing parameters
type OrderListQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
	Search string `form:"search"`
}

// OrderItemResponse represents an order line
type OrderItemResponse struct {
	ID       uuid.UUID       `json:"id"`
	Product  uuid.UUID       `json:"product"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	Size     string          `json:"size"`
	Color    string          `json:"color"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// PaymentMethodResponse represents the payment method of an order
type PaymentMethodResponse struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
}

// PaymentResultResponse represents the gateway result recorded on an order
type PaymentResultResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"updateTime"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// OrderUserResponse is the customer attached to an order listing
type OrderUserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                uuid.UUID              `json:"id"`
	OrderNumber       string                 `json:"orderNumber"`
	User              OrderUserResponse      `json:"user"`
	Items             []OrderItemResponse    `json:"items"`
	ShippingAddress   valueobject.AddressDTO `json:"shippingAddress"`
	BillingAddress    valueobject.AddressDTO `json:"billingAddress"`
	PaymentMethod     PaymentMethodResponse  `json:"paymentMethod"`
	PaymentResult     *PaymentResultResponse `json:"paymentResult,omitempty"`
	Subtotal          decimal.Decimal        `json:"subtotal"`
	Tax               decimal.Decimal        `json:"tax"`
	ShippingCost      decimal.Decimal        `json:"shippingCost"`
	Total             decimal.Decimal        `json:"total"`
	Status            string                 `json:"status"`
	TrackingNumber    string                 `json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time             `json:"estimatedDelivery,omitempty"`
	Notes             string                 `json:"notes,omitempty"`
	IsPaid            bool                   `json:"isPaid"`
	PaidAt            *time.Time             `json:"paidAt,omitempty"`
	IsDelivered       bool                   `json:"isDelivered"`
	DeliveredAt       *time.Time             `json:"deliveredAt,omitempty"`
	ItemCount         int                    `json:"itemCount"`
	OrderAge          int                    `json:"orderAge"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
}

// OrderListResponse is one page of orders
type OrderListResponse struct {
	Orders     []OrderResponse   `json:"orders"`
	Pagination shared.Pagination `json:"pagination"`
}

// ToOrderResponse converts a domain Order to an OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:       item.ID,
			Product:  item.ProductID,
			Name:     item.Name,
			Image:    item.Image,
			Size:     string(item.Size),
			Color:    item.Color,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	resp := OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		User: OrderUserResponse{
			ID:    o.UserID,
			Name:  o.UserName,
			Email: o.UserEmail,
		},
		Items:           items,
		ShippingAddress: o.ShippingAddress.ToDTO(),
		BillingAddress:  o.BillingAddress.ToDTO(),
		PaymentMethod: PaymentMethodResponse{
			Type:   string(o.PaymentMethod.Type),
			ID:     o.PaymentMethod.ID,
			Status: string(o.PaymentMethod.Status),
		},
		Subtotal:          o.Subtotal,
		Tax:               o.Tax,
		ShippingCost:      o.ShippingCost,
		Total:             o.Total,
		Status:            string(o.Status),
		TrackingNumber:    o.TrackingNumber,
		EstimatedDelivery: o.EstimatedDelivery,
		Notes:             o.Notes,
		IsPaid:            o.IsPaid,
		PaidAt:            o.PaidAt,
		IsDelivered:       o.IsDelivered,
		DeliveredAt:       o.DeliveredAt,
		ItemCount:         o.ItemCount(),
		OrderAge:          o.AgeInDays(time.Now()),
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	if o.PaymentResult != nil {
		resp.PaymentResult = &PaymentResultResponse{
			ID:           o.PaymentResult.ID,
			Status:       o.PaymentResult.Status,
			UpdateTime:   o.PaymentResult.UpdateTime,
			EmailAddress: o.PaymentResult.EmailAddress,
		}
	}
	return resp
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}

package handler

import (
	"context"

	billingapp "github.com/dripnest/storefront/internal/application/billing"
	catalogapp "github.com/dripnest/storefront/internal/application/catalog"
	identityapp "github.com/dripnest/storefront/internal/application/identity"
	reportapp "github.com/dripnest/storefront/internal/application/report"
	tradeapp "github.com/dripnest/storefront/internal/application/trade"
	"github.com/google/uuid"
)

// The handlers depend on the application services through these interfaces.

// AuthService signs users in and out
type AuthService interface {
	Register(ctx context.Context, req identityapp.RegisterRequest) (*identityapp.AuthResult, error)
	Login(ctx context.Context, req identityapp.LoginRequest) (*identityapp.AuthResult, error)
	Refresh(ctx context.Context, req identityapp.RefreshRequest) (*identityapp.AuthResult, error)
	Me(ctx context.Context, userID uuid.UUID) (*identityapp.UserResponse, error)
	Logout(ctx context.Context, input identityapp.LogoutInput) error
}

// ProductService manages the catalog
type ProductService interface {
	List(ctx context.Context, q catalogapp.ProductListQuery) (*catalogapp.ProductListResponse, error)
	Featured(ctx context.Context) ([]catalogapp.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddReview(ctx context.Context, productID, userID uuid.UUID, userName string, req catalogapp.AddReviewRequest) (*catalogapp.ProductResponse, error)
	CreateImageUploadURL(ctx context.Context, productID uuid.UUID, req catalogapp.ImageUploadRequest) (*catalogapp.ImageUploadResponse, error)
}

// OrderService places and tracks orders
type OrderService interface {
	ListForUser(ctx context.Context, userID uuid.UUID, q tradeapp.OrderListQuery) (*tradeapp.OrderListResponse, error)
	ListAll(ctx context.Context, q tradeapp.OrderListQuery) (*tradeapp.OrderListResponse, error)
	Get(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*tradeapp.OrderResponse, error)
	PlaceOrder(ctx context.Context, userID uuid.UUID, req tradeapp.CreateOrderRequest) (*tradeapp.OrderResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req tradeapp.UpdateOrderStatusRequest) (*tradeapp.OrderResponse, error)
	Cancel(ctx context.Context, id, userID uuid.UUID) (*tradeapp.OrderResponse, error)
}

// PaymentService charges and refunds orders through the payment gateway
type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, userID uuid.UUID, req billingapp.CreatePaymentIntentRequest) (*billingapp.PaymentIntentResponse, error)
	ConfirmPayment(ctx context.Context, userID uuid.UUID, req billingapp.ConfirmPaymentRequest) (*billingapp.PaymentIntentView, error)
	PaymentMethods() billingapp.PaymentMethodsResponse
	Refund(ctx context.Context, userID uuid.UUID, isAdmin bool, req billingapp.RefundRequest) (*billingapp.RefundResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*billingapp.WebhookResult, error)
}

// UserService manages profiles, address books and wishlists, and accounts for admins
type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*identityapp.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req identityapp.UpdateProfileRequest) (*identityapp.UserResponse, error)
	AddAddress(ctx context.Context, userID uuid.UUID, req identityapp.AddressRequest) ([]identityapp.AddressResponse, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req identityapp.UpdateAddressRequest) ([]identityapp.AddressResponse, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) ([]identityapp.AddressResponse, error)
	AddToWishlist(ctx context.Context, userID, productID uuid.UUID) ([]identityapp.WishlistItemResponse, error)
	RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) ([]identityapp.WishlistItemResponse, error)
	GetWishlist(ctx context.Context, userID uuid.UUID) ([]identityapp.WishlistItemResponse, error)
	ListCustomers(ctx context.Context, q identityapp.UserListQuery) (*identityapp.UserListResponse, error)
	CreateUser(ctx context.Context, req identityapp.CreateUserRequest) (*identityapp.UserResponse, error)
	DeleteUser(ctx context.Context, id, actorID uuid.UUID) error
}

// ReportService builds the admin dashboard and analytics
type ReportService interface {
	Dashboard(ctx context.Context) (*reportapp.DashboardResponse, error)
	SalesAnalytics(ctx context.Context, q reportapp.SalesAnalyticsQuery) (*reportapp.SalesAnalyticsResponse, error)
	InventoryAnalytics(ctx context.Context) (*reportapp.InventoryAnalyticsResponse, error)
}

var (
	_ AuthService    = (*identityapp.AuthService)(nil)
	_ ProductService = (*catalogapp.ProductService)(nil)
	_ OrderService   = (*tradeapp.OrderService)(nil)
	_ PaymentService = (*billingapp.PaymentService)(nil)
	_ UserService    = (*identityapp.UserService)(nil)
	_ ReportService  = (*reportapp.ReportService)(nil)
)

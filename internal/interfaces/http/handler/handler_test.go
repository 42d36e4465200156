package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	billingapp "github.com/dripnest/storefront/internal/application/billing"
	catalogapp "github.com/dripnest/storefront/internal/application/catalog"
	identityapp "github.com/dripnest/storefront/internal/application/identity"
	reportapp "github.com/dripnest/storefront/internal/application/report"
	tradeapp "github.com/dripnest/storefront/internal/application/trade"
	"github.com/dripnest/storefront/internal/infrastructure/auth"
	"github.com/dripnest/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	decimal.MarshalJSONWithoutQuotes = true
}

// asUser simulates the JWT middleware for an authenticated caller
func asUser(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := &auth.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "jti-" + userID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			UserID: userID.String(),
			Role:   role,
		}
		c.Set(middleware.JWTClaimsKey, claims)
		c.Set(middleware.JWTUserIDKey, claims.UserID)
		c.Set(middleware.JWTRoleKey, claims.Role)
		c.Next()
	}
}

// doRequest serves one request through router and decodes the JSON body
func doRequest(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	}
	return w, decoded
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req identityapp.RegisterRequest) (*identityapp.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req identityapp.LoginRequest) (*identityapp.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.AuthResult), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, req identityapp.RefreshRequest) (*identityapp.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.AuthResult), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userID uuid.UUID) (*identityapp.UserResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.UserResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, input identityapp.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

// MockProductService is a mock implementation of ProductService
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, q catalogapp.ProductListQuery) (*catalogapp.ProductListResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductListResponse), args.Error(1)
}

func (m *MockProductService) Featured(ctx context.Context) ([]catalogapp.ProductResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) AddReview(ctx context.Context, productID, userID uuid.UUID, userName string, req catalogapp.AddReviewRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, productID, userID, userName, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) CreateImageUploadURL(ctx context.Context, productID uuid.UUID, req catalogapp.ImageUploadRequest) (*catalogapp.ImageUploadResponse, error) {
	args := m.Called(ctx, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ImageUploadResponse), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) ListForUser(ctx context.Context, userID uuid.UUID, q tradeapp.OrderListQuery) (*tradeapp.OrderListResponse, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderListResponse), args.Error(1)
}

func (m *MockOrderService) ListAll(ctx context.Context, q tradeapp.OrderListQuery) (*tradeapp.OrderListResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderListResponse), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*tradeapp.OrderResponse, error) {
	args := m.Called(ctx, id, userID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req tradeapp.CreateOrderRequest) (*tradeapp.OrderResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req tradeapp.UpdateOrderStatusRequest) (*tradeapp.OrderResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

func (m *MockOrderService) Cancel(ctx context.Context, id, userID uuid.UUID) (*tradeapp.OrderResponse, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

// MockPaymentService is a mock implementation of PaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePaymentIntent(ctx context.Context, userID uuid.UUID, req billingapp.CreatePaymentIntentRequest) (*billingapp.PaymentIntentResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.PaymentIntentResponse), args.Error(1)
}

func (m *MockPaymentService) ConfirmPayment(ctx context.Context, userID uuid.UUID, req billingapp.ConfirmPaymentRequest) (*billingapp.PaymentIntentView, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.PaymentIntentView), args.Error(1)
}

func (m *MockPaymentService) PaymentMethods() billingapp.PaymentMethodsResponse {
	return m.Called().Get(0).(billingapp.PaymentMethodsResponse)
}

func (m *MockPaymentService) Refund(ctx context.Context, userID uuid.UUID, isAdmin bool, req billingapp.RefundRequest) (*billingapp.RefundResponse, error) {
	args := m.Called(ctx, userID, isAdmin, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.RefundResponse), args.Error(1)
}

func (m *MockPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*billingapp.WebhookResult, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.WebhookResult), args.Error(1)
}

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, userID uuid.UUID) (*identityapp.UserResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.UserResponse), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req identityapp.UpdateProfileRequest) (*identityapp.UserResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.UserResponse), args.Error(1)
}

func (m *MockUserService) AddAddress(ctx context.Context, userID uuid.UUID, req identityapp.AddressRequest) ([]identityapp.AddressResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identityapp.AddressResponse), args.Error(1)
}

func (m *MockUserService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req identityapp.UpdateAddressRequest) ([]identityapp.AddressResponse, error) {
	args := m.Called(ctx, userID, addressID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identityapp.AddressResponse), args.Error(1)
}

func (m *MockUserService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) ([]identityapp.AddressResponse, error) {
	args := m.Called(ctx, userID, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identityapp.AddressResponse), args.Error(1)
}

func (m *MockUserService) AddToWishlist(ctx context.Context, userID, productID uuid.UUID) ([]identityapp.WishlistItemResponse, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identityapp.WishlistItemResponse), args.Error(1)
}

func (m *MockUserService) RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) ([]identityapp.WishlistItemResponse, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identityapp.WishlistItemResponse), args.Error(1)
}

func (m *MockUserService) GetWishlist(ctx context.Context, userID uuid.UUID) ([]identityapp.WishlistItemResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identityapp.WishlistItemResponse), args.Error(1)
}

func (m *MockUserService) ListCustomers(ctx context.Context, q identityapp.UserListQuery) (*identityapp.UserListResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.UserListResponse), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, req identityapp.CreateUserRequest) (*identityapp.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.UserResponse), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id, actorID uuid.UUID) error {
	return m.Called(ctx, id, actorID).Error(0)
}

// MockReportService is a mock implementation of ReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Dashboard(ctx context.Context) (*reportapp.DashboardResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportapp.DashboardResponse), args.Error(1)
}

func (m *MockReportService) SalesAnalytics(ctx context.Context, q reportapp.SalesAnalyticsQuery) (*reportapp.SalesAnalyticsResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportapp.SalesAnalyticsResponse), args.Error(1)
}

func (m *MockReportService) InventoryAnalytics(ctx context.Context) (*reportapp.InventoryAnalyticsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportapp.InventoryAnalyticsResponse), args.Error(1)
}

var (
	_ AuthService    = (*MockAuthService)(nil)
	_ ProductService = (*MockProductService)(nil)
	_ OrderService   = (*MockOrderService)(nil)
	_ PaymentService = (*MockPaymentService)(nil)
	_ UserService    = (*MockUserService)(nil)
	_ ReportService  = (*MockReportService)(nil)
)

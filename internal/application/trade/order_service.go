package trade

import (
	"context"
	"strings"

	"github.com/dripnest/storefront/internal/application/event"
	"github.com/dripnest/storefront/internal/domain/catalog"
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultOrderPageSize = 10
	DefaultAdminPageSize = 20
	MaxPageSize          = 100
)

// OrderService handles checkout and the order lifecycle
type OrderService struct {
	orderRepo      trade.OrderRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for order events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ListForUser returns the caller's orders, newest first
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, q OrderListQuery) (*OrderListResponse, error) {
	filter := pageFilter(q.Page, q.Limit, DefaultOrderPageSize)
	filter.Filters[trade.FilterUserID] = userID
	if q.Status != "" {
		filter.Filters[trade.FilterStatus] = q.Status
	}
	return s.list(ctx, filter)
}

// ListAll returns every order for the back office. Search matches the order
// number or the customer's name.
func (s *OrderService) ListAll(ctx context.Context, q OrderListQuery) (*OrderListResponse, error) {
	filter := pageFilter(q.Page, q.Limit, DefaultAdminPageSize)
	filter.Search = strings.TrimSpace(q.Search)
	if q.Status != "" {
		filter.Filters[trade.FilterStatus] = q.Status
	}
	return s.list(ctx, filter)
}

func (s *OrderService) list(ctx context.Context, filter shared.Filter) (*OrderListResponse, error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &OrderListResponse{
		Orders:     ToOrderResponses(orders),
		Pagination: shared.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

// Get returns an order to its owner or to an admin
func (s *OrderService) Get(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !order.IsOwnedBy(userID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not authorized to view this order")
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// PlaceOrder snapshots the catalog into a new order and takes its items out of stock
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}

	items, err := s.snapshotItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	shipping, err := req.ShippingAddress.ToAddress()
	if err != nil {
		return nil, err
	}
	billing, err := req.BillingAddress.ToAddress()
	if err != nil {
		return nil, err
	}

	input := trade.NewOrderInput{
		UserID:          userID,
		Items:           items,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		PaymentMethod: trade.PaymentMethod{
			Type: trade.PaymentType(req.PaymentMethod.Type),
			ID:   req.PaymentMethod.ID,
		},
		Tax:          decimalOrZero(req.Tax),
		ShippingCost: decimalOrZero(req.ShippingCost),
		Notes:        req.Notes,
	}
	order, err := trade.NewOrder(input)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.PlaceOrder(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.String("total", order.Total.StringFixed(2)))

	event.PublishAggregateEvents(ctx, s.eventPublisher, s.logger, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// snapshotItems resolves the cart against the catalog, copying name, image and price
func (s *OrderService) snapshotItems(ctx context.Context, lines []OrderItemInput) ([]trade.OrderItem, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.Product)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	// Quantities of the same product across lines share one stock pool
	wanted := make(map[uuid.UUID]int, len(lines))
	items := make([]trade.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, ok := byID[line.Product]
		if !ok || !product.IsActive {
			return nil, shared.NewDomainError("INVALID_INPUT", "Product "+line.Product.String()+" not found")
		}
		size := catalog.Size(line.Size)
		if !product.HasSize(size) {
			return nil, shared.NewDomainError("INVALID_INPUT", "Size "+line.Size+" not available for "+product.Name)
		}
		wanted[product.ID] += line.Quantity
		if !product.InStock(wanted[product.ID]) {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock for "+product.Name)
		}
		items = append(items, trade.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.PrimaryImage(),
			Size:      size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}
	return items, nil
}

// UpdateStatus applies an admin status change. Cancelling returns the items to stock.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	update := trade.StatusUpdate{
		Status:            trade.OrderStatus(req.Status),
		TrackingNumber:    req.TrackingNumber,
		EstimatedDelivery: req.EstimatedDelivery,
		Notes:             req.Notes,
	}
	if err := order.UpdateStatus(update); err != nil {
		return nil, err
	}

	if order.Status == trade.OrderStatusCancelled && from != trade.OrderStatusCancelled {
		err = s.orderRepo.CancelOrder(ctx, order)
	} else {
		err = s.orderRepo.Save(ctx, order)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)))

	event.PublishAggregateEvents(ctx, s.eventPublisher, s.logger, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Cancel lets the owner cancel a pending or processing order
func (s *OrderService) Cancel(ctx context.Context, id, userID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.IsOwnedBy(userID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not authorized to cancel this order")
	}
	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.CancelOrder(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("Order cancelled",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()))

	event.PublishAggregateEvents(ctx, s.eventPublisher, s.logger, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

func pageFilter(page, limit, defaultLimit int) shared.Filter {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return shared.Filter{
		Page:     page,
		Limit:    min(limit, MaxPageSize),
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

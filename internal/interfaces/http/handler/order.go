package handler

import (
	tradeapp "github.com/dripnest/storefront/internal/application/trade"
	"github.com/dripnest/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

const orderNotFound = "Order not found"

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	orderService OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func orderListQuery(c *gin.Context) tradeapp.OrderListQuery {
	return tradeapp.OrderListQuery{
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
}

// ListMine godoc
// @Summary      List my orders
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(10)
// @Param        status query string false "Order status"
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	result, err := h.orderService.ListForUser(c.Request.Context(), userID, orderListQuery(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Paginated(c, result.Orders, result.Pagination)
}

// ListAll godoc
// @Summary      List all orders
// @Description  Search matches the order number or the customer's name
// @Tags         admin
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Param        status query string false "Order status"
// @Param        search query string false "Order number or customer name"
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse}
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) ListAll(c *gin.Context) {
	result, err := h.orderService.ListAll(c.Request.Context(), orderListQuery(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Paginated(c, result.Orders, result.Pagination)
}

// GetByID godoc
// @Summary      Get an order
// @Description  Visible to its owner and to admins
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id", orderNotFound)
	if !ok {
		return
	}
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), id, userID, middleware.IsAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Create godoc
// @Summary      Place an order
// @Description  Prices and names are snapshotted and stock is reserved atomically
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateOrderRequest true "Order"
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	var req tradeapp.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// UpdateStatus godoc
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body tradeapp.UpdateOrderStatusRequest true "New status"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id", orderNotFound)
	if !ok {
		return
	}
	var req tradeapp.UpdateOrderStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @Summary      Cancel my order
// @Description  Only pending or processing orders can be cancelled; stock is restored
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [put]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id", orderNotFound)
	if !ok {
		return
	}
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

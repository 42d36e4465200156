package handler

import (
	identityapp "github.com/dripnest/storefront/internal/application/identity"
	reportapp "github.com/dripnest/storefront/internal/application/report"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin dashboard, analytics and customer management
type AdminHandler struct {
	BaseHandler
	reportService ReportService
	userService   UserService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(reportService ReportService, userService UserService) *AdminHandler {
	return &AdminHandler{
		reportService: reportService,
		userService:   userService,
	}
}

// Dashboard godoc
// @Summary      Admin dashboard
// @Description  Store totals, this month's and year's figures, recent orders, low stock and best sellers
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.DashboardResponse}
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dashboard)
}

// ListUsers godoc
// @Summary      List customers
// @Tags         admin
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(20)
// @Param        search query string false "Name or email"
// @Success      200 {object} dto.Response{data=[]identityapp.UserResponse}
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	result, err := h.userService.ListCustomers(c.Request.Context(), identityapp.UserListQuery{
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
		Search: c.Query("search"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Paginated(c, result.Users, result.Pagination)
}

// CreateUser godoc
// @Summary      Create an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateUserRequest true "Account"
// @Success      201 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req identityapp.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// DeleteUser godoc
// @Summary      Delete an account
// @Description  Admins cannot delete themselves; the user's tokens are revoked
// @Tags         admin
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id", "User not found")
	if !ok {
		return
	}
	actorID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id, actorID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Message(c, "User deleted successfully")
}

// SalesAnalytics godoc
// @Summary      Sales per day
// @Tags         admin
// @Produce      json
// @Param        period query string false "Window" Enums(week, month, year) default(month)
// @Param        limit query int false "Number of periods" default(12)
// @Success      200 {object} dto.Response{data=reportapp.SalesAnalyticsResponse}
// @Security     BearerAuth
// @Router       /admin/analytics/sales [get]
func (h *AdminHandler) SalesAnalytics(c *gin.Context) {
	sales, err := h.reportService.SalesAnalytics(c.Request.Context(), reportapp.SalesAnalyticsQuery{
		Period: c.Query("period"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sales)
}

// InventoryAnalytics godoc
// @Summary      Stock overview
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.InventoryAnalyticsResponse}
// @Security     BearerAuth
// @Router       /admin/analytics/inventory [get]
func (h *AdminHandler) InventoryAnalytics(c *gin.Context) {
	inventory, err := h.reportService.InventoryAnalytics(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, inventory)
}

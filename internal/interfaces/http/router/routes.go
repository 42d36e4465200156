package router

import (
	"github.com/dripnest/storefront/internal/interfaces/http/handler"
	"github.com/dripnest/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers of the storefront API
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
	Payment *handler.PaymentHandler
	User    *handler.UserHandler
	Admin   *handler.AdminHandler
}

// StorefrontRoutes builds the route groups mounted under the API base path.
// authenticate must reject requests without a valid access token.
func StorefrontRoutes(h Handlers, authenticate gin.HandlerFunc) []RouteRegistrar {
	requireAdmin := middleware.RequireAdmin()

	health := NewDomainGroup("health", "/health")
	health.GET("", h.Health.Check)

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", h.Auth.Register)
	authRoutes.POST("/login", h.Auth.Login)
	authRoutes.POST("/refresh", h.Auth.Refresh)
	authRoutes.Group("auth-session", "").Use(authenticate).
		GET("/me", h.Auth.Me).
		POST("/logout", h.Auth.Logout)

	products := NewDomainGroup("products", "/products")
	products.GET("", h.Product.List)
	products.GET("/featured", h.Product.Featured)
	products.GET("/:id", h.Product.GetByID)
	products.Group("product-reviews", "").Use(authenticate).
		POST("/:id/reviews", h.Product.AddReview)
	products.Group("product-admin", "").Use(authenticate, requireAdmin).
		POST("", h.Product.Create).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete).
		POST("/:id/images/upload-url", h.Product.CreateImageUploadURL)

	orders := NewDomainGroup("orders", "/orders").Use(authenticate)
	orders.GET("", h.Order.ListMine)
	orders.POST("", h.Order.Create)
	orders.GET("/:id", h.Order.GetByID)
	orders.PUT("/:id/cancel", h.Order.Cancel)
	orders.PUT("/:id/status", requireAdmin, h.Order.UpdateStatus)

	payments := NewDomainGroup("payments", "/payments")
	payments.POST("/webhook", h.Payment.Webhook)
	payments.Group("payments-private", "").Use(authenticate).
		POST("/create-payment-intent", h.Payment.CreatePaymentIntent).
		POST("/confirm", h.Payment.ConfirmPayment).
		GET("/methods", h.Payment.PaymentMethods).
		POST("/refund", h.Payment.Refund)

	users := NewDomainGroup("users", "/users").Use(authenticate)
	users.GET("/profile", h.User.GetProfile)
	users.PUT("/profile", h.User.UpdateProfile)
	users.POST("/addresses", h.User.AddAddress)
	users.PUT("/addresses/:id", h.User.UpdateAddress)
	users.DELETE("/addresses/:id", h.User.DeleteAddress)
	users.GET("/wishlist", h.User.GetWishlist)
	users.POST("/wishlist/:productId", h.User.AddToWishlist)
	users.DELETE("/wishlist/:productId", h.User.RemoveFromWishlist)

	admin := NewDomainGroup("admin", "/admin").Use(authenticate, requireAdmin)
	admin.GET("/dashboard", h.Admin.Dashboard)
	admin.GET("/orders", h.Order.ListAll)
	admin.PUT("/orders/:id/status", h.Order.UpdateStatus)
	admin.GET("/users", h.Admin.ListUsers)
	admin.POST("/users", h.Admin.CreateUser)
	admin.DELETE("/users/:id", h.Admin.DeleteUser)
	admin.GET("/analytics/sales", h.Admin.SalesAnalytics)
	admin.GET("/analytics/inventory", h.Admin.InventoryAnalytics)

	return []RouteRegistrar{health, authRoutes, products, orders, payments, users, admin}
}

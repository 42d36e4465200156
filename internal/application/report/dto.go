package report

import (
	catalogapp "github.com/dripnest/storefront/internal/application/catalog"
	tradeapp "github.com/dripnest/storefront/internal/application/trade"
	"github.com/dripnest/storefront/internal/domain/report"
	"github.com/shopspring/decimal"
)

// DashboardResponse is the admin landing page summary
type DashboardResponse struct {
	TotalOrders      int64                        `json:"totalOrders"`
	TotalProducts    int64                        `json:"totalProducts"`
	TotalUsers       int64                        `json:"totalUsers"`
	TotalRevenue     decimal.Decimal              `json:"totalRevenue"`
	MonthlyStats     report.PeriodStats           `json:"monthlyStats"`
	YearlyStats      report.PeriodStats           `json:"yearlyStats"`
	RecentOrders     []tradeapp.OrderResponse     `json:"recentOrders"`
	LowStockProducts []catalogapp.ProductResponse `json:"lowStockProducts"`
	TopProducts      []report.TopProduct          `json:"topProducts"`
}

// SalesAnalyticsQuery selects the sales analytics window
type SalesAnalyticsQuery struct {
	Period string `form:"period" binding:"omitempty,oneof=week month year"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=120"`
}

// SalesAnalyticsResponse is the per-day revenue of paid orders
type SalesAnalyticsResponse struct {
	Period    report.Period       `json:"period"`
	StartDate string              `json:"startDate"`
	Sales     []report.DailySales `json:"salesData"`
}

// InventoryAnalyticsResponse is the stock overview
type InventoryAnalyticsResponse struct {
	CategoryStats      []report.CategorySummary     `json:"categoryStats"`
	LowStockProducts   []catalogapp.ProductResponse `json:"lowStockProducts"`
	OutOfStockProducts []catalogapp.ProductResponse `json:"outOfStockProducts"`
}

package report

import (
	"context"
	"time"

	catalogapp "github.com/dripnest/storefront/internal/application/catalog"
	tradeapp "github.com/dripnest/storefront/internal/application/trade"
	"github.com/dripnest/storefront/internal/domain/catalog"
	"github.com/dripnest/storefront/internal/domain/identity"
	"github.com/dripnest/storefront/internal/domain/report"
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/domain/trade"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	recentOrdersLimit  = 5
	lowStockLimit      = 10
	topProductsLimit   = 5
	dashboardTimeLimit = 10 * time.Second
)

// ReportService builds the admin dashboard and analytics
type ReportService struct {
	orderRepo   trade.OrderRepository
	productRepo catalog.ProductRepository
	userRepo    identity.UserRepository
	now         func() time.Time
	logger      *zap.Logger
}

// Option configures a ReportService
type Option func(*ReportService)

// WithClock sets the time source; the location of its times decides calendar boundaries
func WithClock(now func() time.Time) Option {
	return func(s *ReportService) {
		s.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *ReportService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewReportService creates a new ReportService
func NewReportService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
	opts ...Option,
) *ReportService {
	s := &ReportService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		now:         time.Now,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dashboard collects the store totals, this month's and this year's figures,
// the latest orders, products running low and the best sellers
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	now := s.now()
	monthStart := report.StartOfMonth(now)
	yearStart := report.StartOfYear(now)

	ctx, cancel := context.WithTimeout(ctx, dashboardTimeLimit)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	var (
		resp             DashboardResponse
		monthlyCustomers int64
		recent           []trade.Order
		lowStock         []catalog.Product
		top              []trade.ProductSales
	)
	everything := shared.Filter{}
	customers := shared.Filter{Filters: map[string]interface{}{identity.FilterRole: string(identity.RoleCustomer)}}

	g.Go(func() (err error) {
		resp.TotalOrders, err = s.orderRepo.Count(ctx, everything)
		return err
	})
	g.Go(func() (err error) {
		resp.TotalProducts, err = s.productRepo.Count(ctx, everything)
		return err
	})
	g.Go(func() (err error) {
		resp.TotalUsers, err = s.userRepo.Count(ctx, customers)
		return err
	})
	g.Go(func() (err error) {
		resp.TotalRevenue, err = s.orderRepo.SumPaidTotal(ctx, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		resp.MonthlyStats.Orders, err = s.orderRepo.CountSince(ctx, monthStart)
		return err
	})
	g.Go(func() (err error) {
		resp.MonthlyStats.Revenue, err = s.orderRepo.SumPaidTotal(ctx, monthStart)
		return err
	})
	g.Go(func() (err error) {
		monthlyCustomers, err = s.userRepo.CountCustomersSince(ctx, monthStart)
		return err
	})
	g.Go(func() (err error) {
		resp.YearlyStats.Orders, err = s.orderRepo.CountSince(ctx, yearStart)
		return err
	})
	g.Go(func() (err error) {
		resp.YearlyStats.Revenue, err = s.orderRepo.SumPaidTotal(ctx, yearStart)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.orderRepo.FindAll(ctx, shared.Filter{
			Page:     1,
			Limit:    recentOrdersLimit,
			OrderBy:  "created_at",
			OrderDir: "desc",
		})
		return err
	})
	g.Go(func() (err error) {
		lowStock, err = s.productRepo.FindLowStock(ctx, catalog.LowStockThreshold, lowStockLimit)
		return err
	})
	g.Go(func() (err error) {
		top, err = s.orderRepo.TopSelling(ctx, topProductsLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to build dashboard", zap.Error(err))
		return nil, err
	}

	resp.MonthlyStats.Customers = &monthlyCustomers
	resp.RecentOrders = tradeapp.ToOrderResponses(recent)
	resp.LowStockProducts = catalogapp.ToProductResponses(lowStock)
	resp.TopProducts = toTopProducts(top)
	return &resp, nil
}

// SalesAnalytics groups the paid orders of the selected window per calendar day
func (s *ReportService) SalesAnalytics(ctx context.Context, q SalesAnalyticsQuery) (*SalesAnalyticsResponse, error) {
	period := report.ParsePeriod(q.Period)
	now := s.now()
	start := report.WindowStart(period, q.Limit, now)

	orders, err := s.orderRepo.FindPaidSince(ctx, start)
	if err != nil {
		return nil, err
	}
	return &SalesAnalyticsResponse{
		Period:    period,
		StartDate: start.Format(time.RFC3339),
		Sales:     report.GroupDailySales(orders, now.Location()),
	}, nil
}

// InventoryAnalytics reports stock per category and the products that need restocking
func (s *ReportService) InventoryAnalytics(ctx context.Context) (*InventoryAnalyticsResponse, error) {
	stats, err := s.productRepo.CategoryStats(ctx)
	if err != nil {
		return nil, err
	}
	low, err := s.productRepo.FindLowStock(ctx, catalog.LowStockThreshold, 0)
	if err != nil {
		return nil, err
	}
	out, err := s.productRepo.FindOutOfStock(ctx)
	if err != nil {
		return nil, err
	}
	return &InventoryAnalyticsResponse{
		CategoryStats:      report.SummariseCategories(stats),
		LowStockProducts:   catalogapp.ToProductResponses(low),
		OutOfStockProducts: catalogapp.ToProductResponses(out),
	}, nil
}

func toTopProducts(sales []trade.ProductSales) []report.TopProduct {
	out := make([]report.TopProduct, len(sales))
	for i, p := range sales {
		out[i] = report.TopProduct{
			ProductID:    p.ProductID.String(),
			Name:         p.Name,
			TotalSold:    p.TotalSold,
			TotalRevenue: p.TotalRevenue,
		}
	}
	return out
}

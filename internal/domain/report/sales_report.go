package report

import (
	"sort"
	"time"

	"github.com/dripnest/storefront/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// Period selects the window of the sales analytics
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// DefaultPeriodLimit is the number of months or years covered when none is given
const DefaultPeriodLimit = 12

// ParsePeriod returns the period for s, defaulting to month
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodWeek, PeriodYear:
		return Period(s)
	}
	return PeriodMonth
}

// WindowStart returns the inclusive start of the analytics window.
// Week covers the last 7 days, month the first day of the month limit-1 months
// ago and year January 1st of limit-1 years ago, all in now's location.
func WindowStart(period Period, limit int, now time.Time) time.Time {
	if limit < 1 {
		limit = DefaultPeriodLimit
	}
	switch period {
	case PeriodWeek:
		return now.Add(-7 * 24 * time.Hour)
	case PeriodYear:
		return time.Date(now.Year()-limit+1, time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Date(now.Year(), now.Month()-time.Month(limit-1), 1, 0, 0, 0, 0, now.Location())
	}
}

// DailySales aggregates the paid orders of one calendar day
type DailySales struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Day     int             `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
	Items   int64           `json:"items"`
}

// GroupDailySales buckets orders by the calendar day of their creation in loc,
// sorted ascending
func GroupDailySales(orders []trade.Order, loc *time.Location) []DailySales {
	if loc == nil {
		loc = time.UTC
	}
	type key struct{ y, m, d int }
	buckets := make(map[key]*DailySales)
	for i := range orders {
		o := &orders[i]
		t := o.CreatedAt.In(loc)
		k := key{t.Year(), int(t.Month()), t.Day()}
		b, ok := buckets[k]
		if !ok {
			b = &DailySales{Year: k.y, Month: k.m, Day: k.d, Revenue: decimal.Zero}
			buckets[k] = b
		}
		b.Revenue = b.Revenue.Add(o.Total)
		b.Orders++
		b.Items += int64(o.ItemCount())
	}

	out := make([]DailySales, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Day < b.Day
	})
	return out
}

// PeriodStats summarises orders and revenue since a point in time
type PeriodStats struct {
	Orders    int64           `json:"orders"`
	Revenue   decimal.Decimal `json:"revenue"`
	Customers *int64          `json:"customers,omitempty"`
}

// TopProduct is a best seller on the dashboard
type TopProduct struct {
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	TotalSold    int64           `json:"totalSold"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// StartOfMonth returns midnight on the first day of now's month
func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// StartOfYear returns midnight on January 1st of now's year
func StartOfYear(now time.Time) time.Time {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
}

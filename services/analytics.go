package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/store"
)

// ErrAggregationInput is returned when the order history cannot be read.
var ErrAggregationInput = errors.New("failed to read orders for analytics")

const (
	topItemsLimit = 5
	dayWindow     = 7
)

// Category labels used by the sales breakdown
const (
	CategoryWings     = "Wings"
	CategoryBaos      = "Baos"
	CategorySides     = "Sides"
	CategoryBeverages = "Beverages"
	CategoryOther     = "Other"
)

// TopItem is one entry of the best sellers list
type TopItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// DaySales is one calendar day of the sales series
type DaySales struct {
	Date   string  `json:"date"` // short weekday label
	Day    string  `json:"day"`  // YYYY-MM-DD
	Sales  float64 `json:"sales"`
	Orders int     `json:"orders"`
}

// CategorySales is the revenue of one dashboard category
type CategorySales struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Growth holds growth percentages between the two halves of the day series
type Growth struct {
	Sales   float64 `json:"sales"`
	Orders  float64 `json:"orders"`
	Average float64 `json:"average"`
}

// SalesAnalytics is the dashboard snapshot
type SalesAnalytics struct {
	TotalSales        float64         `json:"total_sales"`
	TotalOrders       int             `json:"total_orders"`
	AverageOrderValue float64         `json:"average_order_value"`
	TopSellingItems   []TopItem       `json:"top_selling_items"`
	SalesByDay        []DaySales      `json:"sales_by_day"`
	SalesByCategory   []CategorySales `json:"sales_by_category"`
	Growth            Growth          `json:"growth"`
	Placeholder       bool            `json:"placeholder,omitempty"`
}

// AnalyticsService recomputes the dashboard snapshot from every stored order
type AnalyticsService struct {
	store  *store.Store
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// NewAnalyticsService creates the service. Days are grouped in loc.
func NewAnalyticsService(s *store.Store, loc *time.Location, logger *slog.Logger) *AnalyticsService {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &AnalyticsService{
		store:  s,
		loc:    loc,
		now:    time.Now,
		logger: logger.With("component", "analytics_service"),
	}
}

// SalesAnalytics reads all orders, whatever their status, and aggregates them.
func (s *AnalyticsService) SalesAnalytics(ctx context.Context) (*SalesAnalytics, error) {
	orders, err := store.GetAll[models.Order](ctx, s.store)
	if err != nil {
		s.logger.Error("Failed to read orders for analytics", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrAggregationInput, err)
	}

	result := Aggregate(orders, s.now().In(s.loc))
	s.logger.Debug("Computed sales analytics", "orders", result.TotalOrders, "total_sales", result.TotalSales)
	return &result, nil
}

// Aggregate computes the snapshot for orders. The day series covers the
// calendar day of now and the six days before it, in now's location.
func Aggregate(orders []models.Order, now time.Time) SalesAnalytics {
	result := SalesAnalytics{
		TotalOrders: len(orders),
	}

	for _, order := range orders {
		result.TotalSales += order.Total
	}
	if result.TotalOrders > 0 {
		result.AverageOrderValue = result.TotalSales / float64(result.TotalOrders)
	}

	result.TopSellingItems = topItems(orders, topItemsLimit)
	result.SalesByDay = salesByDay(orders, now)
	result.SalesByCategory = salesByCategory(orders)

	sales := make([]float64, len(result.SalesByDay))
	counts := make([]float64, len(result.SalesByDay))
	for i, day := range result.SalesByDay {
		sales[i] = day.Sales
		counts[i] = float64(day.Orders)
	}
	result.Growth = Growth{
		Sales:   GrowthRate(sales),
		Orders:  GrowthRate(counts),
		Average: averageGrowth(result.AverageOrderValue, result.TotalSales),
	}

	return result
}

func topItems(orders []models.Order, limit int) []TopItem {
	var items []TopItem
	index := make(map[string]int)
	for _, order := range orders {
		for _, line := range order.Items {
			i, ok := index[line.MenuItemName]
			if !ok {
				i = len(items)
				index[line.MenuItemName] = i
				items = append(items, TopItem{Name: line.MenuItemName})
			}
			items[i].Quantity += line.Quantity
			items[i].Revenue += line.TotalPrice
		}
	}

	// Stable so equal quantities keep first-seen order.
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Quantity > items[b].Quantity
	})
	if len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []TopItem{}
	}
	return items
}

func salesByDay(orders []models.Order, now time.Time) []DaySales {
	loc := now.Location()
	y, m, d := now.Date()

	days := make([]DaySales, dayWindow)
	index := make(map[string]int, dayWindow)
	for i := range days {
		date := time.Date(y, m, d-(dayWindow-1-i), 0, 0, 0, 0, loc)
		key := date.Format(time.DateOnly)
		days[i] = DaySales{
			Date: date.Weekday().String()[:3],
			Day:  key,
		}
		index[key] = i
	}

	for _, order := range orders {
		i, ok := index[order.Timestamp.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		days[i].Sales += order.Total
		days[i].Orders++
	}
	return days
}

// ClassifyItem maps an item name to a dashboard category by substring.
func ClassifyItem(name string) string {
	switch {
	case strings.Contains(name, "WINGS"):
		return CategoryWings
	case strings.Contains(name, "BAO"):
		return CategoryBaos
	case strings.Contains(name, "FRIES"):
		return CategorySides
	case strings.Contains(name, "COOLER"), strings.Contains(name, "COKE"), strings.Contains(name, "WATER"):
		return CategoryBeverages
	default:
		return CategoryOther
	}
}

func salesByCategory(orders []models.Order) []CategorySales {
	var categories []CategorySales
	index := make(map[string]int)
	for _, order := range orders {
		for _, line := range order.Items {
			category := ClassifyItem(line.MenuItemName)
			i, ok := index[category]
			if !ok {
				i = len(categories)
				index[category] = i
				categories = append(categories, CategorySales{Category: category})
			}
			categories[i].Amount += line.TotalPrice
		}
	}

	sort.SliceStable(categories, func(a, b int) bool {
		return categories[a].Amount > categories[b].Amount
	})
	if categories == nil {
		categories = []CategorySales{}
	}
	return categories
}

// GrowthRate compares the sum of the later half of series with the earlier
// half, split at len/2, as a percentage. It returns 0 when there are fewer
// than two points or the earlier half sums to 0.
func GrowthRate(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	mid := len(series) / 2

	var previous, recent float64
	for _, v := range series[:mid] {
		previous += v
	}
	for _, v := range series[mid:] {
		recent += v
	}
	if previous == 0 {
		return 0
	}
	return (recent - previous) / previous * 100
}

func averageGrowth(average, totalSales float64) float64 {
	if average <= 0 {
		return 0
	}
	base := totalSales - average
	if base == 0 {
		base = 1
	}
	return average / base * 100
}

// PlaceholderAnalytics is the demo snapshot the dashboard shows when the
// order history cannot be read.
func PlaceholderAnalytics() SalesAnalytics {
	return SalesAnalytics{
		TotalSales:        14700,
		TotalOrders:       105,
		AverageOrderValue: 140,
		TopSellingItems: []TopItem{
			{Name: "AAM KASHMUNDI WINGS", Quantity: 42, Revenue: 2100},
			{Name: "CHICKEN TIKKA BAO", Quantity: 38, Revenue: 1900},
			{Name: "STICKY SOY GINGER WINGS", Quantity: 32, Revenue: 1600},
			{Name: "PERI PERI FRIES", Quantity: 28, Revenue: 1400},
			{Name: "WATERMELON COOLER", Quantity: 25, Revenue: 1250},
		},
		SalesByDay: []DaySales{
			{Date: "Mon", Sales: 1200, Orders: 8},
			{Date: "Tue", Sales: 1500, Orders: 10},
			{Date: "Wed", Sales: 2000, Orders: 15},
			{Date: "Thu", Sales: 1800, Orders: 12},
			{Date: "Fri", Sales: 2400, Orders: 18},
			{Date: "Sat", Sales: 3000, Orders: 22},
			{Date: "Sun", Sales: 2800, Orders: 20},
		},
		SalesByCategory: []CategorySales{
			{Category: CategoryWings, Amount: 6500},
			{Category: CategoryBaos, Amount: 4300},
			{Category: CategorySides, Amount: 2200},
			{Category: CategoryBeverages, Amount: 1700},
		},
		Growth:      Growth{Sales: 12, Orders: 8, Average: 4},
		Placeholder: true,
	}
}

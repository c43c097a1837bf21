package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodTotal is one bucket of a monthly or yearly aggregation.
// Month is zero for yearly buckets.
type PeriodTotal struct {
	Year  int             `json:"year"`
	Month int             `json:"month,omitempty"`
	Total decimal.Decimal `json:"total"`
}

// DatedAmount is the minimal projection the reporter groups over
type DatedAmount struct {
	Date   time.Time
	Amount decimal.Decimal
}

// ProductRanking represents a product ranked by units sold
type ProductRanking struct {
	Product       string          `json:"product"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

// CategoryTotal is revenue grouped by medicine category
type CategoryTotal struct {
	Category      string          `json:"category"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

// Summary aggregates the dashboard counters
type Summary struct {
	TodaySalesCount      int64           `json:"todaySalesCount"`
	TodaySalesAmount     decimal.Decimal `json:"todaySalesAmount"`
	MonthSalesAmount     decimal.Decimal `json:"monthSalesAmount"`
	TotalSalesCount      int64           `json:"totalSalesCount"`
	TotalOrdersCount     int64           `json:"totalOrdersCount"`
	TotalPurchasesAmount decimal.Decimal `json:"totalPurchasesAmount"`
}

// InventoryStats counts catalog entries per alert bucket
type InventoryStats struct {
	TotalMedicines int             `json:"totalMedicines"`
	Healthy        int             `json:"healthy"`
	LowStock       int             `json:"lowStock"`
	NearExpiry     int             `json:"nearExpiry"`
	Expired        int             `json:"expired"`
	TotalUnits     int             `json:"totalUnits"`
	StockValue     decimal.Decimal `json:"stockValue"`
}

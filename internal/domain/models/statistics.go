package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Quarter identifies a calendar quarter.
type Quarter struct {
	Year int `json:"year" bson:"year"`
	Q    int `json:"quarter" bson:"quarter"`
}

// QuarterOf returns the calendar quarter containing t.
func QuarterOf(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Q: (int(t.Month())-1)/3 + 1}
}

// String renders the quarter as 2024Q3.
func (q Quarter) String() string {
	return fmt.Sprintf("%dQ%d", q.Year, q.Q)
}

// Before reports whether q precedes o chronologically.
func (q Quarter) Before(o Quarter) bool {
	if q.Year != o.Year {
		return q.Year < o.Year
	}
	return q.Q < o.Q
}

// Statistics summarizes a ledger snapshot.
type Statistics struct {
	TotalCount           int              `json:"total_count"`
	InStockCount         int              `json:"in_stock_count"`
	MedianGainPercent    decimal.Decimal  `json:"median_gain_percent"`
	StockValue           int64            `json:"stock_value"`
	ExpectedFutureGain   decimal.Decimal  `json:"expected_future_gain"`
	AverageRotationDays  float64          `json:"average_rotation_days"`
	QuarterlySales       []QuarterlySales `json:"quarterly_sales_volume"`
	QuarterlyAccountSums []AccountSales   `json:"quarterly_account_recap"`
}

// QuarterlySales is the sales volume of one quarter.
type QuarterlySales struct {
	Quarter Quarter `json:"quarter"`
	Label   string  `json:"label"`
	Total   int64   `json:"prix_vente"`
}

// AccountSales is the sales volume of one account within one quarter.
type AccountSales struct {
	Quarter Quarter `json:"quarter"`
	Label   string  `json:"label"`
	Account string  `json:"compte_vente"`
	Total   int64   `json:"prix_vente"`
}

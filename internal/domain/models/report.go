package models

import "time"

// StatsSnapshot is a dated copy of the statistics, archived for trend tracking.
// Decimal figures are stored as floats; the archive is informational only.
type StatsSnapshot struct {
	TakenAt             time.Time             `bson:"taken_at" json:"taken_at"`
	TotalCount          int                   `bson:"total_count" json:"total_count"`
	InStockCount        int                   `bson:"in_stock_count" json:"in_stock_count"`
	MedianGainPercent   float64               `bson:"median_gain_percent" json:"median_gain_percent"`
	StockValue          int64                 `bson:"stock_value" json:"stock_value"`
	ExpectedFutureGain  float64               `bson:"expected_future_gain" json:"expected_future_gain"`
	AverageRotationDays float64               `bson:"average_rotation_days" json:"average_rotation_days"`
	QuarterlySales      []QuarterlySalesEntry `bson:"quarterly_sales" json:"quarterly_sales"`
}

// QuarterlySalesEntry is one archived quarter row.
type QuarterlySalesEntry struct {
	Quarter string `bson:"quarter" json:"quarter"`
	Total   int64  `bson:"total" json:"total"`
}

// NewStatsSnapshot flattens s for archiving.
func NewStatsSnapshot(s Statistics, takenAt time.Time) StatsSnapshot {
	quarters := make([]QuarterlySalesEntry, 0, len(s.QuarterlySales))
	for _, q := range s.QuarterlySales {
		quarters = append(quarters, QuarterlySalesEntry{Quarter: q.Label, Total: q.Total})
	}

	return StatsSnapshot{
		TakenAt:             takenAt,
		TotalCount:          s.TotalCount,
		InStockCount:        s.InStockCount,
		MedianGainPercent:   s.MedianGainPercent.InexactFloat64(),
		StockValue:          s.StockValue,
		ExpectedFutureGain:  s.ExpectedFutureGain.InexactFloat64(),
		AverageRotationDays: s.AverageRotationDays,
		QuarterlySales:      quarters,
	}
}

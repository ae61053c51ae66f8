package models

import "time"

// SaleRequest captures the operator input when declaring an article as sold.
type SaleRequest struct {
	Price   int64
	Date    time.Time
	Account string
}

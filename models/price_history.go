package models

import (
	"time"
)

// PriceHistory records one completed sale of a stove type
type PriceHistory struct {
	ID        int64     `db:"id"`
	TypeID    int64     `db:"typeId"`
	SalePrice int64     `db:"salePrice"`
	SaleDate  time.Time `db:"saleDate"`
}

// PriceStats represents aggregated sale prices for a stove type
type PriceStats struct {
	TypeID  int64
	Count   int64
	Average float64
	Min     int64
	Max     int64
	Median  float64
}

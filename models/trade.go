package models

import (
	"time"
)

// Trade links a sold listing to its buyer
type Trade struct {
	ID         int64     `db:"id"`
	ListingID  int64     `db:"listingId"`
	BuyerID    int64     `db:"buyerId"`
	ExecutedAt time.Time `db:"executedAt"`
}

// TradeResult represents the outcome of a completed trade
type TradeResult struct {
	Trade       *Trade
	Listing     *Listing
	Stove       *Stove
	OwnershipID int64
	PriceID     int64
	SellerID    int64
}

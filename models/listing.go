package models

import (
	"time"
)

// ListingStatus represents the state of a listing
type ListingStatus string

const (
	ListingStatusActive    ListingStatus = "active"
	ListingStatusSold      ListingStatus = "sold"
	ListingStatusCancelled ListingStatus = "cancelled"
)

// IsTerminal reports whether no transition leaves the status
func (s ListingStatus) IsTerminal() bool {
	return s == ListingStatusSold || s == ListingStatusCancelled
}

// Listing offers a stove for sale at a fixed price
type Listing struct {
	ID       int64         `db:"id"`
	SellerID int64         `db:"sellerId"`
	StoveID  int64         `db:"stoveId"`
	Price    int64         `db:"price"`
	ListedAt time.Time     `db:"listedAt"`
	Status   ListingStatus `db:"status"`
}

// IsActive checks if the listing can still be bought or cancelled
func (l *Listing) IsActive() bool {
	return l.Status == ListingStatusActive
}

package models

import (
	"time"
)

// Stove is a single minted item owned by exactly one player
type Stove struct {
	ID             int64     `db:"id"`
	TypeID         int64     `db:"typeId"`
	CurrentOwnerID int64     `db:"currentOwnerId"`
	MintedAt       time.Time `db:"mintedAt"`
}

package models

import (
	"time"
)

// AcquiredHow records how a player came to own a stove
type AcquiredHow string

const (
	AcquiredHowLootbox  AcquiredHow = "lootbox"
	AcquiredHowTrade    AcquiredHow = "trade"
	AcquiredHowMiniGame AcquiredHow = "mini-game"
)

// Ownership is one entry in a stove's append-only ownership history
type Ownership struct {
	ID          int64       `db:"id"`
	StoveID     int64       `db:"stoveId"`
	PlayerID    int64       `db:"playerId"`
	AcquiredAt  time.Time   `db:"acquiredAt"`
	AcquiredHow AcquiredHow `db:"acquiredHow"`
}

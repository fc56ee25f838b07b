package models

import (
	"time"
)

// LootboxType is a purchasable box that drops one stove when opened
type LootboxType struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Price       int64  `db:"price"`
}

// Lootbox records a player opening a box
type Lootbox struct {
	ID            int64     `db:"id"`
	PlayerID      int64     `db:"playerId"`
	LootboxTypeID int64     `db:"lootboxTypeId"`
	OpenedAt      time.Time `db:"openedAt"`
}

// LootboxDrop links an opened box to the stove it produced
type LootboxDrop struct {
	ID        int64 `db:"id"`
	LootboxID int64 `db:"lootboxId"`
	StoveID   int64 `db:"stoveId"`
}

// LootboxResult represents the outcome of opening a box
type LootboxResult struct {
	Lootbox   *Lootbox
	Drop      *LootboxDrop
	Stove     *Stove
	StoveType *StoveType
	Player    *Player // balance after the box cost was deducted
}

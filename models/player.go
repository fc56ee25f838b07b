package models

import (
	"time"
)

// Player represents a marketplace participant
type Player struct {
	ID             int64     `db:"id"`
	Username       string    `db:"username"`
	Balance        int64     `db:"balance"`
	InventoryCount int64     `db:"inventoryCount"`
	IsAdmin        bool      `db:"isAdmin"`
	JoinedAt       time.Time `db:"joinedAt"`
}

// CanAfford reports whether the player's balance covers amount
func (p *Player) CanAfford(amount int64) bool {
	return p.Balance >= amount
}
